package store

import (
	"sync"
	"time"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// Proofs owns the proof records. Finalize is a compare-and-swap on the
// pending status so a proof resolves exactly once even when the owner and
// the auto-resolution sweep race.
type Proofs struct {
	mu     sync.RWMutex
	proofs map[string]*domain.Proof
}

func NewProofs() *Proofs {
	return &Proofs{proofs: make(map[string]*domain.Proof)}
}

func (s *Proofs) Add(p domain.Proof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p
	s.proofs[p.ID] = &c
}

func (s *Proofs) Get(id string) (domain.Proof, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proofs[id]
	if !ok {
		return domain.Proof{}, false
	}
	return *p, true
}

// Finalize moves a pending proof to its terminal status. It fails with
// ErrProofNotFound or ErrAlreadyResolved; on success the updated copy is
// returned.
func (s *Proofs) Finalize(id string, status domain.ProofStatus, reviewer int64, now time.Time) (domain.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proofs[id]
	if !ok {
		return domain.Proof{}, domain.ErrProofNotFound
	}
	if p.Status != domain.ProofPending {
		return domain.Proof{}, domain.ErrAlreadyResolved
	}
	p.Status = status
	p.ReviewedAt = now
	p.ReviewedBy = reviewer
	return *p, nil
}

// PendingPastDeadline returns copies of every pending proof whose review
// deadline elapsed at now.
func (s *Proofs) PendingPastDeadline(now time.Time) []domain.Proof {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Proof
	for _, p := range s.proofs {
		if p.Status == domain.ProofPending && now.After(p.ReviewDeadline) {
			out = append(out, *p)
		}
	}
	return out
}

// ListByExecutor returns every proof submitted by the given account.
func (s *Proofs) ListByExecutor(executorID int64) []domain.Proof {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Proof
	for _, p := range s.proofs {
		if p.ExecutorID == executorID {
			out = append(out, *p)
		}
	}
	return out
}

// DeleteByTask drops every proof attached to the task, returning the count.
func (s *Proofs) DeleteByTask(taskID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, p := range s.proofs {
		if p.TaskID == taskID {
			delete(s.proofs, id)
			n++
		}
	}
	return n
}

func (s *Proofs) Snapshot() []domain.Proof {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Proof, 0, len(s.proofs))
	for _, p := range s.proofs {
		out = append(out, *p)
	}
	return out
}

func (s *Proofs) Restore(proofs []domain.Proof) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.proofs = make(map[string]*domain.Proof, len(proofs))
	for _, p := range proofs {
		c := p
		s.proofs[p.ID] = &c
	}
}
