package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// ReservationManager hands out exclusive, time-boxed claims on task slots.
// Reserve pre-claims the slot, so a reserved task counts as in progress and
// fills up before any proof arrives. A lapsed reservation releases the slot,
// bans the user from the task for a window and debits a penalty.
type ReservationManager struct {
	reservations *store.Reservations
	tasks        *store.Tasks
	accounts     *store.Accounts
	ledger       *Ledger
	events       domain.Events
	logger       *slog.Logger
	now          func() time.Time
}

func NewReservationManager(reservations *store.Reservations, tasks *store.Tasks, accounts *store.Accounts, ledger *Ledger, events domain.Events, logger *slog.Logger) *ReservationManager {
	return &ReservationManager{
		reservations: reservations,
		tasks:        tasks,
		accounts:     accounts,
		ledger:       ledger,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Reserve claims one slot of the task for the user. The slot is claimed
// first and released again if the user turns out to hold an active
// reservation already, so a task at capacity rejects everyone else even
// while a claim is settling.
func (m *ReservationManager) Reserve(userID int64, taskID string) (domain.Reservation, error) {
	task, ok := m.tasks.Get(taskID)
	if !ok {
		return domain.Reservation{}, domain.ErrTaskNotFound
	}
	if task.OwnerID == userID {
		return domain.Reservation{}, domain.ErrNotAuthorized
	}

	now := m.now()
	if m.accounts.Get(userID).BannedFrom(taskID, now) {
		return domain.Reservation{}, domain.ErrTaskBanned
	}

	if err := m.tasks.ClaimSlot(taskID); err != nil {
		return domain.Reservation{}, err
	}

	r := domain.Reservation{
		ID:         uuid.NewString(),
		UserID:     userID,
		TaskID:     taskID,
		ReservedAt: now,
		ExpiresAt:  now.Add(config.ReservationTTL),
		Status:     domain.ReservationActive,
	}
	if err := m.reservations.Create(r); err != nil {
		m.tasks.ReleaseSlot(taskID)
		return domain.Reservation{}, err
	}
	return r, nil
}

// Cancel voluntarily gives the slot back. No penalty, no ban.
func (m *ReservationManager) Cancel(userID int64, reservationID string) error {
	r, ok := m.reservations.Get(reservationID)
	if !ok {
		return domain.ErrReservationNotFound
	}
	if r.UserID != userID {
		return domain.ErrNotOwner
	}
	if !m.reservations.Transition(reservationID, domain.ReservationActive, domain.ReservationCancelled) {
		return domain.ErrReservationNotActive
	}
	m.tasks.ReleaseSlot(r.TaskID)
	return nil
}

// ActiveFor returns the user's live reservations.
func (m *ReservationManager) ActiveFor(userID int64) []domain.Reservation {
	return m.reservations.ActiveByUser(userID)
}

// Get returns the reservation record.
func (m *ReservationManager) Get(id string) (domain.Reservation, bool) {
	return m.reservations.Get(id)
}

// complete marks the reservation done when the executor submits a proof.
// The slot stays claimed; the proof pipeline decides whether it pays out.
func (m *ReservationManager) complete(id string) bool {
	return m.reservations.Transition(id, domain.ReservationActive, domain.ReservationCompleted)
}

// SweepExpired processes every lapsed reservation: release the slot, ban
// the user from the task and debit the penalty. The status transition is a
// compare-and-swap, so running the sweep twice over the same reservation
// punishes exactly once.
func (m *ReservationManager) SweepExpired(ctx context.Context) int {
	now := m.now()
	n := 0
	for _, r := range m.reservations.ExpiredActive(now) {
		if ctx.Err() != nil {
			return n
		}
		if !m.reservations.Transition(r.ID, domain.ReservationActive, domain.ReservationExpired) {
			continue
		}
		m.tasks.ReleaseSlot(r.TaskID)
		m.accounts.Update(r.UserID, func(a *domain.Account) error {
			if a.BannedTasks == nil {
				a.BannedTasks = make(map[string]time.Time)
			}
			a.BannedTasks[r.TaskID] = now.Add(config.TaskBanDuration)
			return nil
		})
		m.ledger.Debit(r.UserID, config.ExpiryPenalty)
		m.events.ReservationExpired(r.UserID, r.TaskID)
		m.logger.Info("reservation expired",
			"reservation_id", r.ID, "user_id", r.UserID, "task_id", r.TaskID)
		n++
	}
	return n
}
