package store

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// Accounts guards every account record with one store mutex. Compound
// mutations run as closures under the guard so a handler-initiated write and
// a sweep-initiated write on the same record cannot interleave.
type Accounts struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
}

func NewAccounts() *Accounts {
	return &Accounts{accounts: make(map[int64]*domain.Account)}
}

func newAccount(id int64) *domain.Account {
	return &domain.Account{
		ID:                id,
		Balance:           decimal.Zero,
		TotalEarned:       decimal.Zero,
		TotalSpent:        decimal.Zero,
		DailyInviteCounts: make(map[string]int),
		BannedTasks:       make(map[string]time.Time),
		CreatedAt:         time.Now(),
	}
}

// Get returns a copy of the account, creating a fresh record on first sight.
func (s *Accounts) Get(id int64) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *copyAccount(s.ensure(id))
}

// Update runs fn on a working copy of the account under the store guard and
// commits it only when fn returns nil, so a failed check leaves no partial
// write behind. fn must not call back into the store.
func (s *Accounts) Update(id int64, fn func(*domain.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := copyAccount(s.ensure(id))
	if err := fn(c); err != nil {
		return err
	}
	s.accounts[id] = c
	return nil
}

// UpdateTwo runs fn on working copies of two distinct accounts under the
// store guard, so the referral checks and credits land on both records
// atomically or not at all.
func (s *Accounts) UpdateTwo(aID, bID int64, fn func(a, b *domain.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ca := copyAccount(s.ensure(aID))
	cb := copyAccount(s.ensure(bID))
	if err := fn(ca, cb); err != nil {
		return err
	}
	s.accounts[aID] = ca
	s.accounts[bID] = cb
	return nil
}

func (s *Accounts) ensure(id int64) *domain.Account {
	a, ok := s.accounts[id]
	if !ok {
		a = newAccount(id)
		s.accounts[id] = a
	}
	return a
}

// ResetDailySpins zeroes the spin counter of every account whose last spin
// date is not today. Returns how many records were reset.
func (s *Accounts) ResetDailySpins(today string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.accounts {
		if a.LastSpinDate != today && a.DailySpinCount != 0 {
			a.DailySpinCount = 0
			n++
		}
	}
	return n
}

// Snapshot returns deep copies of every account for persistence.
func (s *Accounts) Snapshot() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *copyAccount(a))
	}
	return out
}

// Restore replaces the store contents from a persisted snapshot.
func (s *Accounts) Restore(accounts []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[int64]*domain.Account, len(accounts))
	for _, a := range accounts {
		c := copyAccount(&a)
		if c.DailyInviteCounts == nil {
			c.DailyInviteCounts = make(map[string]int)
		}
		if c.BannedTasks == nil {
			c.BannedTasks = make(map[string]time.Time)
		}
		s.accounts[a.ID] = c
	}
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.InvitedUsers = slices.Clone(a.InvitedUsers)
	c.DailyInviteCounts = maps.Clone(a.DailyInviteCounts)
	c.BannedTasks = maps.Clone(a.BannedTasks)
	c.DrawHistory = slices.Clone(a.DrawHistory)
	return &c
}
