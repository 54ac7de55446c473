package store

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdsef/taskpoint/internal/domain"
)

func TestVaultConsume(t *testing.T) {
	v := NewVault(VaultState{Capacity: 2, Open: true})

	require.NoError(t, v.Consume())
	require.NoError(t, v.Consume())
	assert.False(t, v.Status().Open)

	assert.ErrorIs(t, v.Consume(), domain.ErrVaultClosed)
	assert.Equal(t, 2, v.Status().Used)
}

func TestVaultDrawPrizeNeverOversells(t *testing.T) {
	v := NewVault(VaultState{
		Prizes: []domain.Prize{
			{Type: domain.PrizePoints, Value: decimal.NewFromInt(50), Weight: 100, RemainingStock: 5},
		},
		Capacity: 1000,
		Open:     true,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := v.DrawPrize(rand.IntN)
			if outcome.Won() {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, won)
	assert.Equal(t, 0, v.Status().Prizes[0].RemainingStock)
}

func TestVaultDrawPrizeWeightedSelection(t *testing.T) {
	v := NewVault(VaultState{
		Prizes: []domain.Prize{
			{Type: domain.PrizePoints, Value: decimal.NewFromInt(10), Weight: 30, RemainingStock: domain.UnlimitedStock},
			{Type: domain.PrizeTicket, Value: decimal.NewFromInt(1), Weight: 70, RemainingStock: domain.UnlimitedStock},
		},
		Capacity: 1000,
		Open:     true,
	})

	// A fixed roll lands deterministically on the cumulative scan.
	first := v.DrawPrize(func(int) int { return 0 })   // roll 1 -> first prize
	second := v.DrawPrize(func(int) int { return 29 }) // roll 30 -> still first
	third := v.DrawPrize(func(int) int { return 30 })  // roll 31 -> second prize

	assert.Equal(t, domain.PrizePoints, first.Type)
	assert.Equal(t, domain.PrizePoints, second.Type)
	assert.Equal(t, domain.PrizeTicket, third.Type)
}

func TestVaultDrawPrizeEmptyCatalogue(t *testing.T) {
	v := NewVault(VaultState{Capacity: 10, Open: true})

	outcome := v.DrawPrize(rand.IntN)
	assert.Equal(t, domain.PrizeNothing, outcome.Type)
	assert.False(t, outcome.Won())
}

func TestVaultSetCapacityClamps(t *testing.T) {
	v := NewVault(VaultState{Capacity: 10, Used: 8, Open: true})

	v.SetCapacity(5)
	status := v.Status()
	assert.Equal(t, 5, status.Used)
	assert.False(t, status.Open)
}
