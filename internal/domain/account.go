package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the per-member ledger record. It is owned by the balance,
// referral and vault services and mutated only through their operations.
type Account struct {
	ID          int64
	Balance     decimal.Decimal
	TotalEarned decimal.Decimal
	TotalSpent  decimal.Decimal

	// JoinedAt stays zero until the account's first successful join
	// through an invite.
	JoinedAt time.Time

	InvitedUsers      []int64
	DailyInviteCounts map[string]int // date "2006-01-02" -> count

	// BannedTasks maps a task id to the moment the ban lifts.
	BannedTasks map[string]time.Time

	Tickets        int
	DailySpinCount int
	LastSpinDate   string // "2006-01-02", local time
	DrawHistory    []DrawRecord

	CreatedAt time.Time
}

// DrawRecord is one entry of the bounded rolling draw history.
type DrawRecord struct {
	At    time.Time
	Prize PrizeOutcome
}

// HasInvited reports whether id is already in the account's invite list.
func (a Account) HasInvited(id int64) bool {
	for _, u := range a.InvitedUsers {
		if u == id {
			return true
		}
	}
	return false
}

// BannedFrom reports whether the account is still banned from taskID at now.
func (a Account) BannedFrom(taskID string, now time.Time) bool {
	until, ok := a.BannedTasks[taskID]
	return ok && now.Before(until)
}
