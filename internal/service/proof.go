package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// ProofReviewQueue takes executor evidence and resolves it, by the task
// owner within the review window or automatically in the executor's favor
// once the window closes. Payout happens exactly once, on acceptance.
//
// Rejection frees the claimed slot, so CompletedCount keeps meaning "slots
// claimed by executions that are pending or paid".
type ProofReviewQueue struct {
	proofs       *store.Proofs
	tasks        *store.Tasks
	accounts     *store.Accounts
	ledger       *Ledger
	reservations *ReservationManager
	events       domain.Events
	flusher      Flusher
	logger       *slog.Logger
	now          func() time.Time
}

func NewProofReviewQueue(proofs *store.Proofs, tasks *store.Tasks, accounts *store.Accounts, ledger *Ledger, reservations *ReservationManager, events domain.Events, flusher Flusher, logger *slog.Logger) *ProofReviewQueue {
	return &ProofReviewQueue{
		proofs:       proofs,
		tasks:        tasks,
		accounts:     accounts,
		ledger:       ledger,
		reservations: reservations,
		events:       events,
		flusher:      flusher,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit files evidence against the executor's active reservation. The
// reservation flips to completed so the expiry sweep leaves it alone; the
// claimed slot is kept until review decides its fate.
func (q *ProofReviewQueue) Submit(ctx context.Context, executorID int64, reservationID, evidence string) (domain.Proof, error) {
	r, ok := q.reservations.Get(reservationID)
	if !ok {
		return domain.Proof{}, domain.ErrReservationNotFound
	}
	if _, ok := q.tasks.Get(r.TaskID); !ok {
		return domain.Proof{}, domain.ErrTaskNotFound
	}
	if r.UserID != executorID {
		return domain.Proof{}, domain.ErrNotOwner
	}
	if !q.reservations.complete(reservationID) {
		return domain.Proof{}, domain.ErrReservationNotActive
	}

	now := q.now()
	p := domain.Proof{
		ID:             uuid.NewString(),
		TaskID:         r.TaskID,
		ExecutorID:     executorID,
		Evidence:       evidence,
		Status:         domain.ProofPending,
		SubmittedAt:    now,
		ReviewDeadline: now.Add(config.ProofReviewWindow),
	}
	q.proofs.Add(p)
	persist(ctx, q.flusher)
	return p, nil
}

// Resolve settles a pending proof. Only the task owner (or the system, at
// the deadline) may decide. Acceptance pays the executor the task's unit
// price and grants draw tickets; rejection releases the slot unpaid.
func (q *ProofReviewQueue) Resolve(ctx context.Context, reviewerID int64, proofID string, decision domain.ProofStatus) error {
	if decision != domain.ProofAccepted && decision != domain.ProofRejected {
		return domain.ErrNotAuthorized
	}

	p, ok := q.proofs.Get(proofID)
	if !ok {
		return domain.ErrProofNotFound
	}
	task, ok := q.tasks.Get(p.TaskID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if reviewerID != domain.SystemReviewer && reviewerID != task.OwnerID {
		return domain.ErrNotAuthorized
	}

	resolved, err := q.proofs.Finalize(proofID, decision, reviewerID, q.now())
	if err != nil {
		return err
	}

	switch decision {
	case domain.ProofAccepted:
		q.settle(resolved, task)
	case domain.ProofRejected:
		q.tasks.ReleaseSlot(task.ID)
	}

	q.events.ProofResolved(resolved, decision)
	persist(ctx, q.flusher)
	return nil
}

// settle pays the executor and closes out the task if this was the last
// outstanding slot.
func (q *ProofReviewQueue) settle(p domain.Proof, task domain.Task) {
	if leveledUp, lvl := q.ledger.Credit(p.ExecutorID, task.UnitPrice); leveledUp {
		q.events.LevelUp(p.ExecutorID, lvl.Name)
	}

	tickets := ticketsForReward(task.UnitPrice)
	q.accounts.Update(p.ExecutorID, func(a *domain.Account) error {
		a.Tickets += tickets
		return nil
	})

	if completed, transitioned := q.tasks.MarkCompleted(task.ID); transitioned {
		q.events.TaskCompleted(completed)
	}
}

// ticketsForReward converts a payout into draw tickets, one per ten points
// and never fewer than one.
func ticketsForReward(reward decimal.Decimal) int {
	n := int(reward.Div(decimal.NewFromInt(10)).IntPart())
	if n < 1 {
		n = 1
	}
	return n
}

// ListByExecutor returns the account's submitted proofs.
func (q *ProofReviewQueue) ListByExecutor(executorID int64) []domain.Proof {
	return q.proofs.ListByExecutor(executorID)
}

// SweepOverdue auto-accepts every pending proof past its review deadline on
// behalf of the system reviewer. A proof the owner resolves concurrently is
// skipped by the compare-and-swap inside Resolve.
func (q *ProofReviewQueue) SweepOverdue(ctx context.Context) int {
	n := 0
	for _, p := range q.proofs.PendingPastDeadline(q.now()) {
		if ctx.Err() != nil {
			return n
		}
		if err := q.Resolve(ctx, domain.SystemReviewer, p.ID, domain.ProofAccepted); err != nil {
			q.logger.Warn("auto-accept failed", "proof_id", p.ID, "error", err)
			continue
		}
		q.logger.Info("proof auto-accepted", "proof_id", p.ID, "task_id", p.TaskID)
		n++
	}
	return n
}
