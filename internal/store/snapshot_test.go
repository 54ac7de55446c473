package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdsef/taskpoint/internal/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Accounts: []domain.Account{{
			ID:          1,
			Balance:     decimal.NewFromFloat(43.7),
			TotalEarned: decimal.NewFromInt(100),
			Tickets:     3,
			BannedTasks: map[string]time.Time{"t1": now},
		}},
		Tasks: []domain.Task{{
			ID:          "t1",
			UnitPrice:   decimal.NewFromFloat(3.8),
			TargetCount: 10,
			Status:      domain.TaskActive,
		}},
		GiftCodes: []domain.GiftCode{{
			Code:       "ABCD1234",
			PointValue: decimal.NewFromInt(25),
			MaxUses:    2,
			UsedBy:     []int64{7},
		}},
		Vault: VaultState{
			Prizes:   []domain.Prize{{Type: domain.PrizePoints, Value: decimal.NewFromInt(10), Weight: 30, RemainingStock: domain.UnlimitedStock}},
			Capacity: 100,
			Used:     7,
			Open:     true,
		},
		Referral: ReferralCounters{Total: 12, Daily: map[string]int64{"2026-03-01": 2}},
	}

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)

	require.Len(t, got.Accounts, 1)
	assert.True(t, got.Accounts[0].Balance.Equal(snap.Accounts[0].Balance))
	assert.Equal(t, 3, got.Accounts[0].Tickets)
	require.Len(t, got.Tasks, 1)
	assert.True(t, got.Tasks[0].UnitPrice.Equal(snap.Tasks[0].UnitPrice))
	assert.Equal(t, []int64{7}, got.GiftCodes[0].UsedBy)
	assert.Equal(t, 7, got.Vault.Used)
	assert.Equal(t, int64(12), got.Referral.Total)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("{definitely not json"))
	assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
}
