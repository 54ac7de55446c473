package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
)

// memorySaver keeps the snapshot bytes in memory.
type memorySaver struct {
	data []byte
}

func (m *memorySaver) Load(context.Context) ([]byte, error) { return m.data, nil }
func (m *memorySaver) Save(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

func engineConfig() *config.Config {
	return &config.Config{
		MarginPercent:     15,
		InvitePoints:      5,
		InviteBonusPoints: 1,
		InviteTickets:     1,
		VaultCapacity:     100,
		DailySpinLimit:    10,
	}
}

func newEngine(t *testing.T, saver Saver) *Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := New(testCtx, engineConfig(), saver, NopLinkChecker{}, domain.NopEvents{}, logger)
	require.NoError(t, err)
	return e
}

func TestEngineStartsFresh(t *testing.T) {
	e := newEngine(t, &memorySaver{})

	status := e.Vault.Status()
	assert.True(t, status.Open)
	assert.Equal(t, 100, status.Capacity)
	assert.Len(t, status.Prizes, len(config.DefaultPrizes))
	assert.Empty(t, e.Accounts.Snapshot())
}

func TestEngineSnapshotRoundTrip(t *testing.T) {
	saver := &memorySaver{}
	e := newEngine(t, saver)

	// Mutate a bit of every persisted store.
	e.Ledger.Credit(1, decimal.NewFromInt(42))
	require.NoError(t, e.Referrals.RecordInvite(testCtx, 1, 2))
	task, err := e.Pricing.CreateTask(testCtx, CreateTaskParams{
		OwnerID:     1,
		Type:        domain.TaskWebsite,
		Name:        "visit page",
		Link:        "https://example.com",
		UnitPrice:   decimal.NewFromInt(2),
		TargetCount: 5,
	})
	require.NoError(t, err)
	code, err := e.Codes.Mint(testCtx, 1, decimal.NewFromInt(10), 3)
	require.NoError(t, err)

	require.NoError(t, e.Flush(testCtx))

	// A second engine restored from the same saver sees identical state.
	e2 := newEngine(t, saver)

	a := e2.Accounts.Get(1)
	assert.Equal(t, e.Accounts.Get(1).Balance.String(), a.Balance.String())
	assert.Equal(t, []int64{2}, a.InvitedUsers)
	assert.Equal(t, 1, a.Tickets)

	restored, err := e2.Catalogue.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Code, restored.Code)
	assert.True(t, restored.UnitPrice.Equal(task.UnitPrice))

	_, err = e2.Codes.Redeem(testCtx, 3, code.Code)
	assert.NoError(t, err)

	assert.Equal(t, int64(1), e2.Referrals.Stats().Total)
}

func TestEngineRefusesCorruptSnapshot(t *testing.T) {
	saver := &memorySaver{data: []byte("{not json")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(testCtx, engineConfig(), saver, NopLinkChecker{}, domain.NopEvents{}, logger)
	require.ErrorIs(t, err, domain.ErrCorruptSnapshot)
}

func TestEngineWriteThrough(t *testing.T) {
	saver := &memorySaver{}
	e := newEngine(t, saver)

	// A mutating operation persists without an explicit Flush.
	require.NoError(t, e.Referrals.RecordInvite(testCtx, 1, 2))
	require.NotNil(t, saver.data)

	e2 := newEngine(t, saver)
	assert.Equal(t, []int64{2}, e2.Accounts.Get(1).InvitedUsers)
}
