package store

import (
	"sync"
	"time"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// Reservations owns the volatile reservation records. Status changes go
// through Transition, a compare-and-swap under the store guard, so reserve,
// cancel and the expiry sweep are mutually exclusive per reservation.
type Reservations struct {
	mu           sync.RWMutex
	reservations map[string]*domain.Reservation
}

func NewReservations() *Reservations {
	return &Reservations{reservations: make(map[string]*domain.Reservation)}
}

// Create inserts the reservation, rejecting a second active reservation by
// the same user on the same task.
func (s *Reservations) Create(r domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reservations {
		if existing.Status == domain.ReservationActive &&
			existing.UserID == r.UserID && existing.TaskID == r.TaskID {
			return domain.ErrAlreadyReserved
		}
	}
	c := r
	s.reservations[r.ID] = &c
	return nil
}

func (s *Reservations) Get(id string) (domain.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, false
	}
	return *r, true
}

// Transition swaps the reservation status from one value to another,
// reporting false when the current status does not match.
func (s *Reservations) Transition(id string, from, to domain.ReservationStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[id]
	if !ok || r.Status != from {
		return false
	}
	r.Status = to
	return true
}

// ExpiredActive returns copies of every active reservation past its
// deadline at now.
func (s *Reservations) ExpiredActive(now time.Time) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.Status == domain.ReservationActive && now.After(r.ExpiresAt) {
			out = append(out, *r)
		}
	}
	return out
}

// ActiveByTask returns the task's current active reservations.
func (s *Reservations) ActiveByTask(taskID string) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.Status == domain.ReservationActive && r.TaskID == taskID {
			out = append(out, *r)
		}
	}
	return out
}

// ActiveByUser returns the user's current active reservations.
func (s *Reservations) ActiveByUser(userID int64) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.Status == domain.ReservationActive && r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out
}
