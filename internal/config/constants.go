package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
)

const (
	// Reservation lifecycle
	ReservationTTL  = 20 * time.Minute
	TaskBanDuration = 24 * time.Hour

	// Proof review window before automatic acceptance
	ProofReviewWindow = 12 * time.Hour

	// Draw history kept per account
	DrawHistoryLimit = 10

	// Task pinning
	PinDuration = 24 * time.Hour
	MaxPins     = 5

	// Task creation
	MaxTargetCount = 1000

	// Sweep cadences
	ExpirySweepInterval     = 60 * time.Second
	ProofSweepInterval      = 5 * time.Minute
	DailyResetSweepInterval = time.Hour
	PinSweepInterval        = time.Hour
	FlushInterval           = 5 * time.Minute
	SweepJitter             = 5 * time.Second
)

// ExpiryPenalty is debited when a reservation lapses unacted.
var ExpiryPenalty = decimal.NewFromInt(10)

// PinPrice is the cost of pinning a task; the top tier pins for free.
var PinPrice = decimal.NewFromInt(10)

// Levels is the tier table, descending by threshold. The ledger picks the
// first threshold not exceeding the current balance.
var Levels = []domain.Level{
	{Threshold: decimal.NewFromInt(5000), Name: "legend", DiscountPercent: 20},
	{Threshold: decimal.NewFromInt(1000), Name: "expert", DiscountPercent: 15},
	{Threshold: decimal.NewFromInt(500), Name: "pro", DiscountPercent: 10},
	{Threshold: decimal.NewFromInt(100), Name: "active", DiscountPercent: 5},
	{Threshold: decimal.NewFromInt(0), Name: "novice", DiscountPercent: 0},
}

// PriceBounds is the allowed unit-price range per task type.
type PriceBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

var TaskPriceBounds = map[domain.TaskType]PriceBounds{
	domain.TaskTelegram:  {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(10)},
	domain.TaskWhatsapp:  {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(10)},
	domain.TaskInstagram: {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(15)},
	domain.TaskFacebook:  {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(15)},
	domain.TaskYoutube:   {Min: decimal.NewFromInt(2), Max: decimal.NewFromInt(20)},
	domain.TaskTiktok:    {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(15)},
	domain.TaskWebsite:   {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(25)},
}

// DefaultPrizes seeds a fresh vault catalogue.
var DefaultPrizes = []domain.Prize{
	{Type: domain.PrizePoints, Value: decimal.NewFromInt(10), Weight: 30, RemainingStock: domain.UnlimitedStock},
	{Type: domain.PrizePoints, Value: decimal.NewFromInt(25), Weight: 20, RemainingStock: domain.UnlimitedStock},
	{Type: domain.PrizePoints, Value: decimal.NewFromInt(50), Weight: 10, RemainingStock: 100},
	{Type: domain.PrizeGiftCode, Value: decimal.NewFromInt(100), Weight: 5, RemainingStock: 20},
	{Type: domain.PrizeTicket, Value: decimal.NewFromInt(1), Weight: 15, RemainingStock: domain.UnlimitedStock},
	{Type: domain.PrizeNothing, Value: decimal.Zero, Weight: 20, RemainingStock: domain.UnlimitedStock},
}
