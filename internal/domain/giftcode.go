package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiftCode is a redeemable point voucher. Each account may redeem a code at
// most once and the total number of redemptions never exceeds MaxUses.
type GiftCode struct {
	Code       string
	PointValue decimal.Decimal
	MaxUses    int
	UsedBy     []int64
	CreatedAt  time.Time
	CreatedBy  int64
}

// Exhausted reports whether every use of the code is spent.
func (g *GiftCode) Exhausted() bool {
	return len(g.UsedBy) >= g.MaxUses
}

// UsedByAccount reports whether id already redeemed this code.
func (g *GiftCode) UsedByAccount(id int64) bool {
	for _, u := range g.UsedBy {
		if u == id {
			return true
		}
	}
	return false
}
