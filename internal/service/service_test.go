package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// testEnv assembles the full service graph over fresh stores with events
// captured, persistence disabled and a controllable clock.
type testEnv struct {
	accounts     *store.Accounts
	tasks        *store.Tasks
	reservations *store.Reservations
	proofs       *store.Proofs
	giftCodes    *store.GiftCodes
	vault        *store.Vault
	pins         *store.Pins
	counters     *store.Counters

	ledger    *Ledger
	pricing   *PricingEngine
	catalogue *TaskService
	reserver  *ReservationManager
	review    *ProofReviewQueue
	referrals *ReferralLedger
	codes     *GiftCodeService
	prizes    *PrizeVault
	pinBoard  *PinService

	events *recordedEvents
	clock  time.Time
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := &recordedEvents{}

	e := &testEnv{
		accounts:     store.NewAccounts(),
		tasks:        store.NewTasks(),
		reservations: store.NewReservations(),
		proofs:       store.NewProofs(),
		giftCodes:    store.NewGiftCodes(),
		pins:         store.NewPins(),
		counters:     store.NewCounters(),
		events:       events,
		clock:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e.vault = store.NewVault(store.VaultState{
		Prizes:     config.DefaultPrizes,
		Capacity:   1000,
		Open:       true,
		DailyLimit: 10,
	})

	now := func() time.Time { return e.clock }

	e.ledger = NewLedger(e.accounts, config.Levels)
	e.pricing = NewPricingEngine(e.ledger, e.tasks, e.proofs, e.reservations, NopLinkChecker{}, events, NopFlusher{}, 15)
	e.pricing.now = now
	e.catalogue = NewTaskService(e.tasks, e.pins)
	e.catalogue.now = now
	e.reserver = NewReservationManager(e.reservations, e.tasks, e.accounts, e.ledger, events, logger)
	e.reserver.now = now
	e.review = NewProofReviewQueue(e.proofs, e.tasks, e.accounts, e.ledger, e.reserver, events, NopFlusher{}, logger)
	e.review.now = now
	e.referrals = NewReferralLedger(e.accounts, e.counters, e.ledger, events, NopFlusher{}, logger, 5, 1, 1)
	e.referrals.now = now
	e.codes = NewGiftCodeService(e.giftCodes, e.ledger, events, NopFlusher{}, logger)
	e.codes.now = now
	e.prizes = NewPrizeVault(e.vault, e.accounts, e.ledger, e.codes, events, NopFlusher{}, logger)
	e.prizes.now = now
	e.pinBoard = NewPinService(e.pins, e.tasks, e.ledger, logger)
	e.pinBoard.now = now

	return e
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func (e *testEnv) fund(id int64, amount int64) {
	e.accounts.Update(id, func(a *domain.Account) error {
		a.Balance = a.Balance.Add(decimal.NewFromInt(amount))
		return nil
	})
}

func (e *testEnv) giveTickets(id int64, n int) {
	e.accounts.Update(id, func(a *domain.Account) error {
		a.Tickets += n
		return nil
	})
}

var taskSeq int

// publishTask creates a funded owner's task directly, bypassing pricing.
func (e *testEnv) publishTask(ownerID int64, price int64, target int) domain.Task {
	taskSeq++
	task := domain.Task{
		ID:          fmt.Sprintf("task-%d", taskSeq),
		Code:        fmt.Sprintf("TSK%02dAA", taskSeq%100),
		OwnerID:     ownerID,
		Type:        domain.TaskTelegram,
		Name:        "join channel",
		Link:        "https://t.me/example",
		UnitPrice:   decimal.NewFromInt(price),
		TargetCount: target,
		Status:      domain.TaskActive,
		CreatedAt:   e.clock,
	}
	e.tasks.Add(task)
	return task
}

// recordedEvents captures emitted events for assertions.
type recordedEvents struct {
	levelUps      []string
	expired       []string
	resolved      []domain.ProofStatus
	invites       int
	prizes        []domain.PrizeOutcome
	tasksComplete []string
}

func (r *recordedEvents) LevelUp(_ int64, newLevel string) { r.levelUps = append(r.levelUps, newLevel) }
func (r *recordedEvents) ReservationExpired(_ int64, taskID string) {
	r.expired = append(r.expired, taskID)
}
func (r *recordedEvents) ProofResolved(_ domain.Proof, decision domain.ProofStatus) {
	r.resolved = append(r.resolved, decision)
}
func (r *recordedEvents) InviteAccepted(int64, int64, decimal.Decimal) { r.invites++ }
func (r *recordedEvents) PrizeWon(_ int64, prize domain.PrizeOutcome) {
	r.prizes = append(r.prizes, prize)
}
func (r *recordedEvents) TaskCompleted(task domain.Task) {
	r.tasksComplete = append(r.tasksComplete, task.ID)
}

var testCtx = context.Background()

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
