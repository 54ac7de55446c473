package domain

import "time"

type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofAccepted ProofStatus = "accepted"
	ProofRejected ProofStatus = "rejected"
)

// SystemReviewer is the reviewer identity used when a pending proof passes
// its deadline and is resolved automatically.
const SystemReviewer int64 = 0

// Proof is executor-submitted evidence for one task execution, awaiting
// review by the task owner or automatic acceptance at the deadline.
// Status transitions pending -> accepted|rejected exactly once.
type Proof struct {
	ID             string
	TaskID         string
	ExecutorID     int64
	Evidence       string
	Status         ProofStatus
	SubmittedAt    time.Time
	ReviewDeadline time.Time
	ReviewedAt     time.Time
	ReviewedBy     int64
}
