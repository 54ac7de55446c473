package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdsef/taskpoint/internal/domain"
)

func TestCreateTaskBounds(t *testing.T) {
	env := newTestEnv()
	env.fund(1, 1000)

	t.Run("Below Minimum", func(t *testing.T) {
		_, err := env.pricing.CreateTask(testCtx, CreateTaskParams{
			OwnerID:     1,
			Type:        domain.TaskTelegram,
			Link:        "https://t.me/example",
			UnitPrice:   decimal.NewFromFloat(0.5),
			TargetCount: 10,
		})
		assert.ErrorIs(t, err, domain.ErrPriceOutOfBounds)
	})

	t.Run("Above Maximum", func(t *testing.T) {
		_, err := env.pricing.CreateTask(testCtx, CreateTaskParams{
			OwnerID:     1,
			Type:        domain.TaskTelegram,
			Link:        "https://t.me/example",
			UnitPrice:   decimal.NewFromInt(11),
			TargetCount: 10,
		})
		assert.ErrorIs(t, err, domain.ErrPriceOutOfBounds)
	})
}

func TestCreateTaskDiscountAndMargin(t *testing.T) {
	env := newTestEnv()
	// 150 points puts the owner on the 5% discount tier.
	env.fund(1, 150)

	task, err := env.pricing.CreateTask(testCtx, CreateTaskParams{
		OwnerID:     1,
		Type:        domain.TaskTelegram,
		Name:        "join channel",
		Link:        "https://t.me/example",
		UnitPrice:   decimal.NewFromInt(4),
		TargetCount: 10,
	})
	require.NoError(t, err)

	// effective = 4 * 0.95, total = 10 * effective * 1.15
	assert.True(t, task.UnitPrice.Equal(decimal.NewFromFloat(3.8)), task.UnitPrice.String())
	want := decimal.NewFromFloat(43.7)
	balance := env.accounts.Get(1).Balance
	assert.True(t, balance.Equal(decimal.NewFromInt(150).Sub(want)), balance.String())
	assert.Equal(t, domain.TaskActive, task.Status)
	assert.NotEmpty(t, task.Code)
}

func TestCreateTaskInsufficientFunds(t *testing.T) {
	env := newTestEnv()
	env.fund(1, 10)

	_, err := env.pricing.CreateTask(testCtx, CreateTaskParams{
		OwnerID:     1,
		Type:        domain.TaskTelegram,
		Link:        "https://t.me/example",
		UnitPrice:   decimal.NewFromInt(4),
		TargetCount: 10,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Hard failure pre-debit: no clamping, balance untouched.
	assert.Equal(t, "10", env.accounts.Get(1).Balance.String())
	assert.Empty(t, env.tasks.Snapshot())
}

func TestCreateTaskRejectsBadLink(t *testing.T) {
	env := newTestEnv()
	env.fund(1, 1000)

	_, err := env.pricing.CreateTask(testCtx, CreateTaskParams{
		OwnerID:     1,
		Type:        domain.TaskTelegram,
		Link:        "not a url",
		UnitPrice:   decimal.NewFromInt(4),
		TargetCount: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLink)
}

func TestCancelTask(t *testing.T) {
	t.Run("Refunds Unfilled Slots And Deletes Proofs", func(t *testing.T) {
		env := newTestEnv()
		task := env.publishTask(1, 5, 10)
		env.tasks.ClaimSlot(task.ID)
		env.tasks.ClaimSlot(task.ID)
		env.proofs.Add(domain.Proof{ID: "p1", TaskID: task.ID, ExecutorID: 2, Status: domain.ProofPending})

		refund, err := env.pricing.CancelTask(testCtx, 1, task.ID)
		require.NoError(t, err)

		// 8 unfilled slots at 5 points each.
		assert.Equal(t, "40", refund.String())
		assert.Equal(t, "40", env.accounts.Get(1).Balance.String())

		_, ok := env.tasks.Get(task.ID)
		assert.False(t, ok)
		_, ok = env.proofs.Get("p1")
		assert.False(t, ok)
	})

	t.Run("Releases Live Reservations Without Penalty", func(t *testing.T) {
		env := newTestEnv()
		env.fund(2, 50)
		task := env.publishTask(1, 5, 10)

		r, err := env.reserver.Reserve(2, task.ID)
		require.NoError(t, err)

		refund, err := env.pricing.CancelTask(testCtx, 1, task.ID)
		require.NoError(t, err)

		// The pre-claimed slot comes back before the refund is computed.
		assert.Equal(t, "50", refund.String())

		got, _ := env.reservations.Get(r.ID)
		assert.Equal(t, domain.ReservationCancelled, got.Status)

		// The expiry sweep finds nothing to punish.
		env.advance(21 * time.Minute)
		assert.Equal(t, 0, env.reserver.SweepExpired(testCtx))
		holder := env.accounts.Get(2)
		assert.Equal(t, "50", holder.Balance.String())
		assert.Empty(t, holder.BannedTasks)
	})

	t.Run("Only The Owner Cancels", func(t *testing.T) {
		env := newTestEnv()
		task := env.publishTask(1, 5, 10)

		_, err := env.pricing.CancelTask(testCtx, 2, task.ID)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("Missing Task", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.pricing.CancelTask(testCtx, 1, "nope")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
