package store

import (
	"sort"
	"sync"

	"github.com/hmdsef/taskpoint/internal/domain"
)

// Tasks owns every task record and the slot counters. Slot arithmetic is
// done under the store guard so 0 <= CompletedCount <= TargetCount holds
// after every operation.
type Tasks struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

func NewTasks() *Tasks {
	return &Tasks{tasks: make(map[string]*domain.Task)}
}

func (s *Tasks) Add(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := t
	s.tasks[t.ID] = &c
}

func (s *Tasks) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *t, true
}

// GetByCode looks a task up by its short public code.
func (s *Tasks) GetByCode(code string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.Code == code {
			return *t, true
		}
	}
	return domain.Task{}, false
}

func (s *Tasks) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// ClaimSlot pre-claims one execution slot, failing when the task is absent
// or already full.
func (s *Tasks) ClaimSlot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if t.Full() {
		return domain.ErrTaskFull
	}
	t.CompletedCount++
	return nil
}

// ReleaseSlot frees a previously claimed slot, never dropping below zero.
func (s *Tasks) ReleaseSlot(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return
	}
	if t.CompletedCount > 0 {
		t.CompletedCount--
	}
	// A completed task regains capacity when a slot frees up.
	if t.Status == domain.TaskCompleted && !t.Full() {
		t.Status = domain.TaskActive
	}
}

// MarkCompleted flips the task to completed when all slots are claimed.
// It reports true at most once over the task's lifetime, on the first
// transition, even if a freed slot reopened the task in between.
func (s *Tasks) MarkCompleted(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	if t.Status == domain.TaskActive && t.Full() {
		t.Status = domain.TaskCompleted
		first := !t.EverCompleted
		t.EverCompleted = true
		return *t, first
	}
	return *t, false
}

// ListActiveByType returns active tasks of the given type ("all" for every
// type), newest first, with pinned entries surfaced before the rest.
func (s *Tasks) ListActiveByType(taskType domain.TaskType, pinned map[string]bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.Status != domain.TaskActive {
			continue
		}
		if taskType != "all" && t.Type != taskType {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := pinned[out[i].ID], pinned[out[j].ID]
		if pi != pj {
			return pi
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListByOwner returns every task published by the given account.
func (s *Tasks) ListByOwner(ownerID int64) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Tasks) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out
}

func (s *Tasks) Restore(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		c := t
		s.tasks[t.ID] = &c
	}
}
