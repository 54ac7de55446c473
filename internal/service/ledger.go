package service

import (
	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// Ledger owns balance arithmetic and level derivation. Debit follows the
// clamp-non-negative policy: an over-draft silently floors the balance at
// zero. That policy lives here and only here; callers that need a hard
// insufficient-funds failure use TryDebit.
type Ledger struct {
	accounts *store.Accounts
	levels   []domain.Level // descending by threshold
}

func NewLedger(accounts *store.Accounts, levels []domain.Level) *Ledger {
	return &Ledger{accounts: accounts, levels: levels}
}

// Credit adds amount to the balance and lifetime earnings. It reports
// whether the account crossed into a new level and which one.
func (l *Ledger) Credit(id int64, amount decimal.Decimal) (leveledUp bool, newLevel domain.Level) {
	l.accounts.Update(id, func(a *domain.Account) error {
		before := l.levelFor(a.Balance)
		a.Balance = a.Balance.Add(amount)
		a.TotalEarned = a.TotalEarned.Add(amount)
		newLevel = l.levelFor(a.Balance)
		leveledUp = newLevel.Name != before.Name && newLevel.Threshold.GreaterThan(before.Threshold)
		return nil
	})
	return leveledUp, newLevel
}

// Debit removes amount under the clamp-non-negative policy. Lifetime spend
// records the full requested amount even when the balance floors at zero.
func (l *Ledger) Debit(id int64, amount decimal.Decimal) {
	l.accounts.Update(id, func(a *domain.Account) error {
		a.Balance = a.Balance.Sub(amount)
		if a.Balance.IsNegative() {
			a.Balance = decimal.Zero
		}
		a.TotalSpent = a.TotalSpent.Add(amount)
		return nil
	})
}

// TryDebit removes amount only when the balance covers it, checking and
// debiting in one critical section. It fails with ErrInsufficientBalance.
func (l *Ledger) TryDebit(id int64, amount decimal.Decimal) error {
	return l.accounts.Update(id, func(a *domain.Account) error {
		if a.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}
		a.Balance = a.Balance.Sub(amount)
		a.TotalSpent = a.TotalSpent.Add(amount)
		return nil
	})
}

// Balance returns the current spendable balance.
func (l *Ledger) Balance(id int64) decimal.Decimal {
	return l.accounts.Get(id).Balance
}

// Level derives the account's tier from its current balance. Lifetime
// earnings are deliberately not consulted, so spending can demote a level.
func (l *Ledger) Level(id int64) domain.Level {
	return l.levelFor(l.accounts.Get(id).Balance)
}

// Discount returns the purchase discount percentage for the account's tier.
func (l *Ledger) Discount(id int64) int {
	return l.Level(id).DiscountPercent
}

func (l *Ledger) levelFor(balance decimal.Decimal) domain.Level {
	for _, lvl := range l.levels {
		if balance.GreaterThanOrEqual(lvl.Threshold) {
			return lvl
		}
	}
	if len(l.levels) == 0 {
		return domain.Level{Name: "novice"}
	}
	return l.levels[len(l.levels)-1]
}
