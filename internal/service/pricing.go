package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// PricingEngine prices and publishes tasks and handles cancellation refunds.
// Funding is a hard pre-debit check here; the ledger's clamp policy never
// applies to purchases.
type PricingEngine struct {
	ledger       *Ledger
	tasks        *store.Tasks
	proofs       *store.Proofs
	reservations *store.Reservations
	links        LinkChecker
	events       domain.Events
	flusher      Flusher
	margin       decimal.Decimal
	now          func() time.Time
}

func NewPricingEngine(ledger *Ledger, tasks *store.Tasks, proofs *store.Proofs, reservations *store.Reservations, links LinkChecker, events domain.Events, flusher Flusher, marginPercent float64) *PricingEngine {
	return &PricingEngine{
		ledger:       ledger,
		tasks:        tasks,
		proofs:       proofs,
		reservations: reservations,
		links:        links,
		events:       events,
		flusher:      flusher,
		margin:       decimal.NewFromFloat(marginPercent),
		now:          time.Now,
	}
}

// CreateTaskParams carries the owner's task submission.
type CreateTaskParams struct {
	OwnerID     int64
	Type        domain.TaskType
	Name        string
	Description string
	Link        string
	ProofSpec   string
	UnitPrice   decimal.Decimal
	TargetCount int
}

// CreateTask validates the submission, applies the owner's level discount to
// the unit price, charges targetCount * effectivePrice plus the platform
// margin, and publishes the task at the effective price.
func (e *PricingEngine) CreateTask(ctx context.Context, p CreateTaskParams) (domain.Task, error) {
	bounds, ok := config.TaskPriceBounds[p.Type]
	if !ok {
		return domain.Task{}, fmt.Errorf("create task: unknown type %q", p.Type)
	}
	if p.UnitPrice.LessThan(bounds.Min) || p.UnitPrice.GreaterThan(bounds.Max) {
		return domain.Task{}, domain.ErrPriceOutOfBounds
	}
	if p.TargetCount < 1 || p.TargetCount > config.MaxTargetCount {
		return domain.Task{}, fmt.Errorf("create task: target count %d out of range", p.TargetCount)
	}
	if err := e.links.Check(ctx, p.Type, p.Link); err != nil {
		return domain.Task{}, err
	}

	discount := decimal.NewFromInt(int64(e.ledger.Discount(p.OwnerID)))
	effective := p.UnitPrice.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))
	totalCost := effective.
		Mul(decimal.NewFromInt(int64(p.TargetCount))).
		Mul(decimal.NewFromInt(100).Add(e.margin)).
		Div(decimal.NewFromInt(100))

	code, err := generateTaskCode()
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	if err := e.ledger.TryDebit(p.OwnerID, totalCost); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:          uuid.NewString(),
		Code:        code,
		OwnerID:     p.OwnerID,
		Type:        p.Type,
		Name:        p.Name,
		Description: p.Description,
		Link:        p.Link,
		ProofSpec:   p.ProofSpec,
		UnitPrice:   effective,
		TargetCount: p.TargetCount,
		Status:      domain.TaskActive,
		CreatedAt:   e.now(),
	}
	e.tasks.Add(task)
	persist(ctx, e.flusher)
	return task, nil
}

// CancelTask refunds the owner for unfilled slots and deletes the task along
// with its proofs. Live reservations on the task are cancelled first and
// their pre-claimed slots returned, so the holders are neither penalized for
// a task that no longer exists nor silently withheld from the refund.
// Executions already paid out stay paid.
func (e *PricingEngine) CancelTask(ctx context.Context, ownerID int64, taskID string) (decimal.Decimal, error) {
	task, ok := e.tasks.Get(taskID)
	if !ok {
		return decimal.Zero, domain.ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return decimal.Zero, domain.ErrNotOwner
	}

	for _, r := range e.reservations.ActiveByTask(taskID) {
		if e.reservations.Transition(r.ID, domain.ReservationActive, domain.ReservationCancelled) {
			e.tasks.ReleaseSlot(taskID)
		}
	}
	if task, ok = e.tasks.Get(taskID); !ok {
		return decimal.Zero, domain.ErrTaskNotFound
	}

	remaining := task.TargetCount - task.CompletedCount
	refund := decimal.Zero
	if remaining > 0 {
		refund = task.UnitPrice.Mul(decimal.NewFromInt(int64(remaining)))
		if leveledUp, lvl := e.ledger.Credit(ownerID, refund); leveledUp {
			e.events.LevelUp(ownerID, lvl.Name)
		}
	}

	e.proofs.DeleteByTask(taskID)
	e.tasks.Delete(taskID)
	persist(ctx, e.flusher)
	return refund, nil
}
