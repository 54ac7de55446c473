package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// Saver loads and stores the full engine snapshot. Load returns nil bytes
// when no snapshot exists yet.
type Saver interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Engine wires the stores and services into one unit and owns persistence.
// All state lives in memory; the saver holds a point-in-time snapshot that
// every mutating operation writes through and the sweeper refreshes on a
// timer.
type Engine struct {
	Accounts     *store.Accounts
	Tasks        *store.Tasks
	Reservations *store.Reservations
	Proofs       *store.Proofs
	GiftCodes    *store.GiftCodes
	Vault        *store.Vault
	Pins         *store.Pins
	Counters     *store.Counters

	Ledger    *Ledger
	Pricing   *PricingEngine
	Catalogue *TaskService
	Reserver  *ReservationManager
	Review    *ProofReviewQueue
	Referrals *ReferralLedger
	Codes     *GiftCodeService
	Prizes    *PrizeVault
	PinBoard  *PinService

	saver  Saver
	logger *slog.Logger
}

// New restores state from the saver and assembles the services. A snapshot
// that exists but does not decode stops startup; running on from a blank
// slate would silently wipe every balance.
func New(ctx context.Context, cfg *config.Config, saver Saver, links LinkChecker, events domain.Events, logger *slog.Logger) (*Engine, error) {
	e := &Engine{
		Accounts:     store.NewAccounts(),
		Tasks:        store.NewTasks(),
		Reservations: store.NewReservations(),
		Proofs:       store.NewProofs(),
		GiftCodes:    store.NewGiftCodes(),
		Pins:         store.NewPins(),
		Counters:     store.NewCounters(),
		saver:        saver,
		logger:       logger,
	}

	data, err := saver.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		e.Vault = store.NewVault(store.VaultState{
			Prizes:     config.DefaultPrizes,
			Capacity:   cfg.VaultCapacity,
			Open:       true,
			DailyLimit: cfg.DailySpinLimit,
		})
		logger.Info("no snapshot found, starting fresh")
	} else {
		snap, err := store.DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		e.Accounts.Restore(snap.Accounts)
		e.Tasks.Restore(snap.Tasks)
		e.Proofs.Restore(snap.Proofs)
		e.GiftCodes.Restore(snap.GiftCodes)
		e.Vault = store.NewVault(snap.Vault)
		e.Counters.Restore(snap.Referral)
		logger.Info("snapshot restored",
			"accounts", len(snap.Accounts), "tasks", len(snap.Tasks), "proofs", len(snap.Proofs))
	}

	e.Ledger = NewLedger(e.Accounts, config.Levels)
	e.Pricing = NewPricingEngine(e.Ledger, e.Tasks, e.Proofs, e.Reservations, links, events, e, cfg.MarginPercent)
	e.Catalogue = NewTaskService(e.Tasks, e.Pins)
	e.Reserver = NewReservationManager(e.Reservations, e.Tasks, e.Accounts, e.Ledger, events, logger)
	e.Review = NewProofReviewQueue(e.Proofs, e.Tasks, e.Accounts, e.Ledger, e.Reserver, events, e, logger)
	e.Referrals = NewReferralLedger(e.Accounts, e.Counters, e.Ledger, events, e, logger,
		cfg.InvitePoints, cfg.InviteBonusPoints, cfg.InviteTickets)
	e.Codes = NewGiftCodeService(e.GiftCodes, e.Ledger, events, e, logger)
	e.Prizes = NewPrizeVault(e.Vault, e.Accounts, e.Ledger, e.Codes, events, e, logger)
	e.PinBoard = NewPinService(e.Pins, e.Tasks, e.Ledger, logger)

	return e, nil
}

// Flush serializes the full state and hands it to the saver. Reservations
// and pins are deliberately volatile: a reservation that does not survive a
// restart simply never expires against the user.
func (e *Engine) Flush(ctx context.Context) error {
	snap := store.Snapshot{
		Accounts:  e.Accounts.Snapshot(),
		Tasks:     e.Tasks.Snapshot(),
		Proofs:    e.Proofs.Snapshot(),
		GiftCodes: e.GiftCodes.Snapshot(),
		Vault:     e.Vault.Snapshot(),
		Referral:  e.Counters.Snapshot(),
	}
	data, err := store.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := e.saver.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// SweepTasks returns the engine's maintenance jobs for the sweeper.
func (e *Engine) SweepTasks() []IntervalTask {
	return []IntervalTask{
		{Name: "reservation_expiry", Interval: config.ExpirySweepInterval, Run: e.Reserver.SweepExpired},
		{Name: "proof_auto_accept", Interval: config.ProofSweepInterval, Run: e.Review.SweepOverdue},
		{Name: "daily_spin_reset", Interval: config.DailyResetSweepInterval, Run: e.Prizes.SweepDailyCounters},
		{Name: "pin_expiry", Interval: config.PinSweepInterval, Run: e.PinBoard.SweepExpired},
		{Name: "state_flush", Interval: config.FlushInterval, Run: func(ctx context.Context) int {
			if err := e.Flush(ctx); err != nil {
				e.logger.Error("periodic flush failed", "error", err)
				return 0
			}
			return 1
		}},
	}
}
