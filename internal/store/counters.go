package store

import (
	"maps"
	"sync"
)

// ReferralCounters is the persisted shape of the global invite tally.
type ReferralCounters struct {
	Total int64
	Daily map[string]int64 // date "2006-01-02" -> invites recorded
}

// Counters guards the global referral tally.
type Counters struct {
	mu    sync.Mutex
	state ReferralCounters
}

func NewCounters() *Counters {
	return &Counters{state: ReferralCounters{Daily: make(map[string]int64)}}
}

// RecordInvite bumps the lifetime and per-day counters.
func (c *Counters) RecordInvite(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Total++
	c.state.Daily[date]++
}

func (c *Counters) Snapshot() ReferralCounters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ReferralCounters{Total: c.state.Total, Daily: maps.Clone(c.state.Daily)}
}

func (c *Counters) Restore(state ReferralCounters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.Daily == nil {
		state.Daily = make(map[string]int64)
	}
	c.state = state
}
