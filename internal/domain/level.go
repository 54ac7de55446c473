package domain

import "github.com/shopspring/decimal"

// Level is a balance-threshold tier granting a purchase discount. Tiers are
// evaluated against the current (spendable) balance, so spending can demote
// an account.
type Level struct {
	Threshold       decimal.Decimal
	Name            string
	DiscountPercent int
}
