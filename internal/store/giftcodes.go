package store

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// GiftCodes owns the voucher records. Redeem checks and records the use in
// one critical section so a code cannot be double-spent by the same account.
type GiftCodes struct {
	mu    sync.RWMutex
	codes map[string]*domain.GiftCode
}

func NewGiftCodes() *GiftCodes {
	return &GiftCodes{codes: make(map[string]*domain.GiftCode)}
}

func (s *GiftCodes) Add(g domain.GiftCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := g
	c.UsedBy = slices.Clone(g.UsedBy)
	s.codes[g.Code] = &c
}

func (s *GiftCodes) Get(code string) (domain.GiftCode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.codes[code]
	if !ok {
		return domain.GiftCode{}, false
	}
	c := *g
	c.UsedBy = slices.Clone(g.UsedBy)
	return c, true
}

// Redeem marks one use of the code by the account and returns its point
// value. Each account redeems a given code at most once.
func (s *GiftCodes) Redeem(code string, accountID int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.codes[code]
	if !ok {
		return decimal.Zero, domain.ErrGiftCodeNotFound
	}
	if g.Exhausted() {
		return decimal.Zero, domain.ErrGiftCodeExhausted
	}
	if g.UsedByAccount(accountID) {
		return decimal.Zero, domain.ErrGiftCodeUsed
	}
	g.UsedBy = append(g.UsedBy, accountID)
	return g.PointValue, nil
}

func (s *GiftCodes) Snapshot() []domain.GiftCode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.GiftCode, 0, len(s.codes))
	for _, g := range s.codes {
		c := *g
		c.UsedBy = slices.Clone(g.UsedBy)
		out = append(out, c)
	}
	return out
}

func (s *GiftCodes) Restore(codes []domain.GiftCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes = make(map[string]*domain.GiftCode, len(codes))
	for _, g := range codes {
		c := g
		c.UsedBy = slices.Clone(g.UsedBy)
		s.codes[g.Code] = &c
	}
}
