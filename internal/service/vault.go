package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// PrizeVault runs the weighted prize draw over the shared prize catalogue.
// A draw needs a ticket, a free unit of global vault capacity and headroom
// under the account's daily draw limit. Drawing "nothing" still spends the
// ticket and the capacity unit.
type PrizeVault struct {
	vault    *store.Vault
	accounts *store.Accounts
	ledger   *Ledger
	codes    *GiftCodeService
	events   domain.Events
	flusher  Flusher
	logger   *slog.Logger

	roll func(n int) int
	now  func() time.Time
}

func NewPrizeVault(vault *store.Vault, accounts *store.Accounts, ledger *Ledger, codes *GiftCodeService, events domain.Events, flusher Flusher, logger *slog.Logger) *PrizeVault {
	return &PrizeVault{
		vault:    vault,
		accounts: accounts,
		ledger:   ledger,
		codes:    codes,
		events:   events,
		flusher:  flusher,
		logger:   logger,
		roll:     rand.IntN,
		now:      time.Now,
	}
}

// Status exposes the vault counters for display and admin inspection.
func (p *PrizeVault) Status() store.VaultState {
	return p.vault.Status()
}

// CanDraw reports whether a draw would currently succeed, along with the
// account's remaining draws today and its ticket count.
func (p *PrizeVault) CanDraw(userID int64) (ok bool, remainingToday, tickets int) {
	a := p.accounts.Get(userID)
	status := p.vault.Status()
	used := a.DailySpinCount
	if a.LastSpinDate != p.today() {
		used = 0
	}
	remainingToday = status.DailyLimit - used
	if remainingToday < 0 {
		remainingToday = 0
	}
	ok = status.Open && status.Used < status.Capacity && a.Tickets > 0 && remainingToday > 0
	return ok, remainingToday, a.Tickets
}

// Draw spends one ticket and one unit of vault capacity, then rolls the
// weighted catalogue. The ticket is taken first and handed back when the
// vault turns out to be closed, so a failed draw costs nothing.
func (p *PrizeVault) Draw(ctx context.Context, userID int64) (domain.PrizeOutcome, error) {
	today := p.today()

	err := p.accounts.Update(userID, func(a *domain.Account) error {
		if a.LastSpinDate != today {
			a.LastSpinDate = today
			a.DailySpinCount = 0
		}
		if a.DailySpinCount >= p.vault.DailyLimit() {
			return domain.ErrDailyLimitReached
		}
		if a.Tickets < 1 {
			return domain.ErrNoTickets
		}
		a.Tickets--
		a.DailySpinCount++
		return nil
	})
	if err != nil {
		return domain.PrizeOutcome{}, err
	}

	if err := p.vault.Consume(); err != nil {
		p.accounts.Update(userID, func(a *domain.Account) error {
			a.Tickets++
			if a.DailySpinCount > 0 {
				a.DailySpinCount--
			}
			return nil
		})
		return domain.PrizeOutcome{}, err
	}

	outcome := p.vault.DrawPrize(p.roll)
	outcome = p.apply(ctx, userID, outcome)

	p.accounts.Update(userID, func(a *domain.Account) error {
		a.DrawHistory = append(a.DrawHistory, domain.DrawRecord{At: p.now(), Prize: outcome})
		if len(a.DrawHistory) > config.DrawHistoryLimit {
			a.DrawHistory = a.DrawHistory[len(a.DrawHistory)-config.DrawHistoryLimit:]
		}
		return nil
	})

	if outcome.Won() {
		p.events.PrizeWon(userID, outcome)
	}
	p.logger.Info("vault draw", "user_id", userID, "prize", string(outcome.Type))
	persist(ctx, p.flusher)
	return outcome, nil
}

// apply hands the won prize to the account.
func (p *PrizeVault) apply(ctx context.Context, userID int64, outcome domain.PrizeOutcome) domain.PrizeOutcome {
	switch outcome.Type {
	case domain.PrizePoints:
		if leveledUp, lvl := p.ledger.Credit(userID, outcome.Value); leveledUp {
			p.events.LevelUp(userID, lvl.Name)
		}
	case domain.PrizeGiftCode:
		code, err := p.codes.MintPrizeCode(ctx, outcome.Value)
		if err != nil {
			// Degrade to a direct credit rather than swallow the prize.
			p.logger.Warn("prize code mint failed, crediting points", "user_id", userID, "error", err)
			p.ledger.Credit(userID, outcome.Value)
			outcome.Type = domain.PrizePoints
			return outcome
		}
		outcome.GiftCode = code
	case domain.PrizeTicket:
		p.accounts.Update(userID, func(a *domain.Account) error {
			a.Tickets += int(outcome.Value.IntPart())
			return nil
		})
	}
	return outcome
}

// History returns the account's recent draws, oldest first.
func (p *PrizeVault) History(userID int64) []domain.DrawRecord {
	return p.accounts.Get(userID).DrawHistory
}

// GrantTickets hands tickets to an account outside the draw flow.
func (p *PrizeVault) GrantTickets(userID int64, n int) {
	p.accounts.Update(userID, func(a *domain.Account) error {
		a.Tickets += n
		return nil
	})
}

// SweepDailyCounters zeroes stale per-account draw counters. The draw path
// also resets lazily; the sweep just keeps displayed counters honest.
func (p *PrizeVault) SweepDailyCounters(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	return p.accounts.ResetDailySpins(p.today())
}

// Admin controls.

func (p *PrizeVault) SetCapacity(capacity int) { p.vault.SetCapacity(capacity) }
func (p *PrizeVault) SetOpen(open bool)        { p.vault.SetOpen(open) }
func (p *PrizeVault) SetPrizes(prizes []domain.Prize) {
	p.vault.SetPrizes(prizes)
}

func (p *PrizeVault) today() string {
	return p.now().Format("2006-01-02")
}
