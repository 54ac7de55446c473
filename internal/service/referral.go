package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// ReferralLedger credits invites exactly once per invitee. Both accounts
// mutate under a single guard, so a racing duplicate invite sees the first
// one's effects and fails cleanly.
type ReferralLedger struct {
	accounts *store.Accounts
	counters *store.Counters
	ledger   *Ledger
	events   domain.Events
	flusher  Flusher
	logger   *slog.Logger

	invitePoints decimal.Decimal
	bonusPoints  decimal.Decimal
	tickets      int
	now          func() time.Time
}

func NewReferralLedger(accounts *store.Accounts, counters *store.Counters, ledger *Ledger, events domain.Events, flusher Flusher, logger *slog.Logger, invitePoints, bonusPoints float64, tickets int) *ReferralLedger {
	return &ReferralLedger{
		accounts:     accounts,
		counters:     counters,
		ledger:       ledger,
		events:       events,
		flusher:      flusher,
		logger:       logger,
		invitePoints: decimal.NewFromFloat(invitePoints),
		bonusPoints:  decimal.NewFromFloat(bonusPoints),
		tickets:      tickets,
		now:          time.Now,
	}
}

// RecordInvite registers that referrer brought invitee in. Self-invites,
// repeat invites of the same invitee and invitees who already joined through
// anyone are rejected. On success the referrer earns the base reward plus
// the join bonus and draw tickets; the invitee is marked joined.
func (r *ReferralLedger) RecordInvite(ctx context.Context, referrerID, inviteeID int64) error {
	if referrerID == inviteeID {
		return domain.ErrSelfInvite
	}

	now := r.now()
	date := now.Format("2006-01-02")
	reward := r.invitePoints.Add(r.bonusPoints)
	var leveled bool
	var level domain.Level

	err := r.accounts.UpdateTwo(referrerID, inviteeID, func(ref, inv *domain.Account) error {
		if ref.HasInvited(inviteeID) {
			return domain.ErrAlreadyInvited
		}
		if !inv.JoinedAt.IsZero() {
			return domain.ErrAlreadyJoined
		}

		ref.InvitedUsers = append(ref.InvitedUsers, inviteeID)
		if ref.DailyInviteCounts == nil {
			ref.DailyInviteCounts = make(map[string]int)
		}
		ref.DailyInviteCounts[date]++
		before := r.ledger.levelFor(ref.Balance)
		ref.Balance = ref.Balance.Add(reward)
		ref.TotalEarned = ref.TotalEarned.Add(reward)
		ref.Tickets += r.tickets
		level = r.ledger.levelFor(ref.Balance)
		leveled = level.Threshold.GreaterThan(before.Threshold)

		inv.JoinedAt = now
		return nil
	})
	if err != nil {
		return err
	}

	r.counters.RecordInvite(date)
	if leveled {
		r.events.LevelUp(referrerID, level.Name)
	}
	r.events.InviteAccepted(referrerID, inviteeID, reward)
	r.logger.Info("invite recorded", "referrer_id", referrerID, "invitee_id", inviteeID)
	persist(ctx, r.flusher)
	return nil
}

// Stats returns the global invite counters.
func (r *ReferralLedger) Stats() store.ReferralCounters {
	return r.counters.Snapshot()
}

// InvitedCount returns how many accounts the referrer brought in.
func (r *ReferralLedger) InvitedCount(referrerID int64) int {
	return len(r.accounts.Get(referrerID).InvitedUsers)
}
