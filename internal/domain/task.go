package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
)

// TaskType classifies tasks by target platform and selects the price bounds
// and link rules that apply.
type TaskType string

const (
	TaskTelegram  TaskType = "telegram"
	TaskWhatsapp  TaskType = "whatsapp"
	TaskInstagram TaskType = "instagram"
	TaskFacebook  TaskType = "facebook"
	TaskYoutube   TaskType = "youtube"
	TaskTiktok    TaskType = "tiktok"
	TaskWebsite   TaskType = "website"
)

// Task is a published micro-task with a fixed number of execution slots.
// UnitPrice is the effective per-execution payout after the owner's level
// discount. Invariant: 0 <= CompletedCount <= TargetCount.
type Task struct {
	ID             string
	Code           string
	OwnerID        int64
	Type           TaskType
	Name           string
	Description    string
	Link           string
	ProofSpec      string
	UnitPrice      decimal.Decimal
	TargetCount    int
	CompletedCount int
	Status         TaskStatus
	// EverCompleted stays set once the task has filled up, so the
	// completion announcement fires at most once even when a rejected
	// proof later reopens a slot.
	EverCompleted bool
	CreatedAt     time.Time
}

// Full reports whether every execution slot is claimed.
func (t *Task) Full() bool {
	return t.CompletedCount >= t.TargetCount
}
