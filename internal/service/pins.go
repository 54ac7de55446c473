package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// PinService sells listing boosts. A pin surfaces the owner's task at the
// top of listings for a fixed window; the top tier pins for free.
type PinService struct {
	pins   *store.Pins
	tasks  *store.Tasks
	ledger *Ledger
	logger *slog.Logger
	now    func() time.Time
}

func NewPinService(pins *store.Pins, tasks *store.Tasks, ledger *Ledger, logger *slog.Logger) *PinService {
	return &PinService{pins: pins, tasks: tasks, ledger: ledger, logger: logger, now: time.Now}
}

// Pin boosts the owner's task. Fails when the task is not theirs, inactive,
// or the owner already runs the maximum number of pins.
func (s *PinService) Pin(ctx context.Context, ownerID int64, taskID string) error {
	task, ok := s.tasks.Get(taskID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return domain.ErrNotOwner
	}
	if task.Status != domain.TaskActive {
		return domain.ErrTaskNotFound
	}

	now := s.now()
	if s.pins.CountActiveByUser(ownerID, now) >= config.MaxPins {
		return domain.ErrMaxPinsReached
	}

	// The highest tier pins for free.
	if s.ledger.Level(ownerID).Name != config.Levels[0].Name {
		if err := s.ledger.TryDebit(ownerID, config.PinPrice); err != nil {
			return err
		}
	}

	s.pins.Set(store.Pin{
		TaskID:    taskID,
		UserID:    ownerID,
		PinnedAt:  now,
		ExpiresAt: now.Add(config.PinDuration),
	})
	s.logger.Info("task pinned", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// Unpin removes the owner's pin early. No refund.
func (s *PinService) Unpin(ownerID int64, taskID string) error {
	task, ok := s.tasks.Get(taskID)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return domain.ErrNotOwner
	}
	s.pins.Remove(taskID)
	return nil
}

// SweepExpired drops lapsed pins.
func (s *PinService) SweepExpired(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	return s.pins.RemoveExpired(s.now())
}
