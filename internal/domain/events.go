package domain

import "github.com/shopspring/decimal"

// Events is the notification dispatcher contract. The engine emits discrete
// occurrences; an external collaborator formats and delivers them. The
// engine never renders user-facing text.
type Events interface {
	LevelUp(accountID int64, newLevel string)
	ReservationExpired(userID int64, taskID string)
	ProofResolved(proof Proof, decision ProofStatus)
	InviteAccepted(referrerID, inviteeID int64, reward decimal.Decimal)
	PrizeWon(userID int64, prize PrizeOutcome)
	TaskCompleted(task Task)
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) LevelUp(int64, string)                        {}
func (NopEvents) ReservationExpired(int64, string)             {}
func (NopEvents) ProofResolved(Proof, ProofStatus)             {}
func (NopEvents) InviteAccepted(int64, int64, decimal.Decimal) {}
func (NopEvents) PrizeWon(int64, PrizeOutcome)                 {}
func (NopEvents) TaskCompleted(Task)                           {}
