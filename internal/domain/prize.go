package domain

import "github.com/shopspring/decimal"

type PrizeType string

const (
	PrizePoints   PrizeType = "points"
	PrizeGiftCode PrizeType = "gift_code"
	PrizeTicket   PrizeType = "ticket"
	PrizeNothing  PrizeType = "nothing"
)

// UnlimitedStock marks a prize with no per-prize stock limit.
const UnlimitedStock = -1

// Prize is one catalogue entry of the vault. RemainingStock counts how many
// times this entry may still be won; it never goes negative.
type Prize struct {
	Type           PrizeType
	Value          decimal.Decimal
	Weight         int
	RemainingStock int
}

// InStock reports whether this entry can still be drawn.
func (p *Prize) InStock() bool {
	return p.RemainingStock == UnlimitedStock || p.RemainingStock > 0
}

// PrizeOutcome is the result of one draw as recorded in history and
// reported to the caller.
type PrizeOutcome struct {
	Type  PrizeType
	Value decimal.Decimal
	// GiftCode carries the minted code when Type is PrizeGiftCode.
	GiftCode string
}

// Nothing is the deterministic empty outcome returned when no prize can be
// drawn.
func Nothing() PrizeOutcome {
	return PrizeOutcome{Type: PrizeNothing, Value: decimal.Zero}
}

// Won reports whether the outcome carries any value.
func (o PrizeOutcome) Won() bool {
	return o.Type != PrizeNothing
}
