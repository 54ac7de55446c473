package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// GiftCodeService mints and redeems point codes. A code carries a fixed
// point value, a use cap and a per-account once rule; the store enforces
// both in one critical section.
type GiftCodeService struct {
	codes   *store.GiftCodes
	ledger  *Ledger
	events  domain.Events
	flusher Flusher
	logger  *slog.Logger
	now     func() time.Time
}

func NewGiftCodeService(codes *store.GiftCodes, ledger *Ledger, events domain.Events, flusher Flusher, logger *slog.Logger) *GiftCodeService {
	return &GiftCodeService{
		codes:   codes,
		ledger:  ledger,
		events:  events,
		flusher: flusher,
		logger:  logger,
		now:     time.Now,
	}
}

// Mint creates a fresh code worth value points, redeemable maxUses times.
func (s *GiftCodeService) Mint(ctx context.Context, createdBy int64, value decimal.Decimal, maxUses int) (domain.GiftCode, error) {
	if !value.IsPositive() || maxUses < 1 {
		return domain.GiftCode{}, fmt.Errorf("mint gift code: non-positive value or uses")
	}
	code, err := generateGiftCode()
	if err != nil {
		return domain.GiftCode{}, fmt.Errorf("mint gift code: %w", err)
	}
	g := domain.GiftCode{
		Code:       code,
		PointValue: value,
		MaxUses:    maxUses,
		CreatedAt:  s.now(),
		CreatedBy:  createdBy,
	}
	s.codes.Add(g)
	s.logger.Info("gift code minted", "code", code, "value", value.String(), "max_uses", maxUses)
	persist(ctx, s.flusher)
	return g, nil
}

// MintBatch creates count codes with identical value and use caps.
func (s *GiftCodeService) MintBatch(ctx context.Context, createdBy int64, value decimal.Decimal, count, maxUses int) ([]domain.GiftCode, error) {
	if count < 1 {
		return nil, fmt.Errorf("mint gift codes: non-positive count")
	}
	out := make([]domain.GiftCode, 0, count)
	for i := 0; i < count; i++ {
		g, err := s.Mint(ctx, createdBy, value, maxUses)
		if err != nil {
			return out, err
		}
		out = append(out, g)
	}
	return out, nil
}

// MintPrizeCode backs a gift-code prize outcome with a real single-use code.
func (s *GiftCodeService) MintPrizeCode(ctx context.Context, value decimal.Decimal) (string, error) {
	g, err := s.Mint(ctx, domain.SystemReviewer, value, 1)
	if err != nil {
		return "", err
	}
	return g.Code, nil
}

// Redeem credits the code's value to the account, once per account and at
// most MaxUses times overall.
func (s *GiftCodeService) Redeem(ctx context.Context, accountID int64, code string) (decimal.Decimal, error) {
	value, err := s.codes.Redeem(code, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if leveledUp, lvl := s.ledger.Credit(accountID, value); leveledUp {
		s.events.LevelUp(accountID, lvl.Name)
	}
	s.logger.Info("gift code redeemed", "code", code, "account_id", accountID)
	persist(ctx, s.flusher)
	return value, nil
}
