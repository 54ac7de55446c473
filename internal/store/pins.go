package store

import (
	"sync"
	"time"
)

// Pin is volatile ordering metadata: a paid boost that surfaces a task at
// the top of listings until it expires.
type Pin struct {
	TaskID    string
	UserID    int64
	PinnedAt  time.Time
	ExpiresAt time.Time
}

// Pins owns the pin records. Not persisted; pins are recreated on demand
// after a restart.
type Pins struct {
	mu   sync.RWMutex
	pins map[string]Pin
}

func NewPins() *Pins {
	return &Pins{pins: make(map[string]Pin)}
}

func (s *Pins) Set(p Pin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[p.TaskID] = p
}

func (s *Pins) Remove(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pins, taskID)
}

// ActiveIDs returns the set of task ids pinned at now.
func (s *Pins) ActiveIDs(now time.Time) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.pins))
	for id, p := range s.pins {
		if now.Before(p.ExpiresAt) {
			out[id] = true
		}
	}
	return out
}

// CountActiveByUser counts the user's unexpired pins at now.
func (s *Pins) CountActiveByUser(userID int64, now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.pins {
		if p.UserID == userID && now.Before(p.ExpiresAt) {
			n++
		}
	}
	return n
}

// RemoveExpired drops every pin past its expiry, returning the count.
func (s *Pins) RemoveExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, p := range s.pins {
		if !now.Before(p.ExpiresAt) {
			delete(s.pins, id)
			n++
		}
	}
	return n
}
