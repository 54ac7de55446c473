package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdsef/taskpoint/internal/domain"
)

func TestMintAndRedeem(t *testing.T) {
	env := newTestEnv()

	g, err := env.codes.Mint(testCtx, 1, decimal.NewFromInt(25), 2)
	require.NoError(t, err)
	assert.Len(t, g.Code, 8)

	value, err := env.codes.Redeem(testCtx, 2, g.Code)
	require.NoError(t, err)
	assert.Equal(t, "25", value.String())
	assert.Equal(t, "25", env.accounts.Get(2).Balance.String())
}

func TestRedeemOncePerAccount(t *testing.T) {
	env := newTestEnv()

	g, err := env.codes.Mint(testCtx, 1, decimal.NewFromInt(25), 5)
	require.NoError(t, err)

	_, err = env.codes.Redeem(testCtx, 2, g.Code)
	require.NoError(t, err)

	_, err = env.codes.Redeem(testCtx, 2, g.Code)
	require.ErrorIs(t, err, domain.ErrGiftCodeUsed)
	assert.Equal(t, "25", env.accounts.Get(2).Balance.String())
}

func TestRedeemExhausted(t *testing.T) {
	env := newTestEnv()

	g, err := env.codes.Mint(testCtx, 1, decimal.NewFromInt(25), 2)
	require.NoError(t, err)

	_, err = env.codes.Redeem(testCtx, 2, g.Code)
	require.NoError(t, err)
	_, err = env.codes.Redeem(testCtx, 3, g.Code)
	require.NoError(t, err)

	_, err = env.codes.Redeem(testCtx, 4, g.Code)
	assert.ErrorIs(t, err, domain.ErrGiftCodeExhausted)
}

func TestMintBatch(t *testing.T) {
	env := newTestEnv()

	codes, err := env.codes.MintBatch(testCtx, 1, decimal.NewFromInt(10), 3, 1)
	require.NoError(t, err)
	require.Len(t, codes, 3)

	seen := map[string]bool{}
	for _, g := range codes {
		assert.False(t, seen[g.Code])
		seen[g.Code] = true

		_, err := env.codes.Redeem(testCtx, 2, g.Code)
		assert.NoError(t, err)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.codes.Redeem(testCtx, 1, "NOPE1234")
	assert.ErrorIs(t, err, domain.ErrGiftCodeNotFound)
}

func TestMintRejectsBadParams(t *testing.T) {
	env := newTestEnv()

	_, err := env.codes.Mint(testCtx, 1, decimal.Zero, 1)
	assert.Error(t, err)
	_, err = env.codes.Mint(testCtx, 1, decimal.NewFromInt(5), 0)
	assert.Error(t, err)
}
