package service

import (
	"time"

	"github.com/hmdsef/taskpoint/internal/domain"
	"github.com/hmdsef/taskpoint/internal/store"
)

// TaskService is the read surface over the task catalogue. Listing consults
// pin metadata for ordering only; pins never change task state.
type TaskService struct {
	tasks *store.Tasks
	pins  *store.Pins
	now   func() time.Time
}

func NewTaskService(tasks *store.Tasks, pins *store.Pins) *TaskService {
	return &TaskService{tasks: tasks, pins: pins, now: time.Now}
}

func (s *TaskService) Get(id string) (domain.Task, error) {
	t, ok := s.tasks.Get(id)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

// GetByCode resolves a task by its short public code.
func (s *TaskService) GetByCode(code string) (domain.Task, error) {
	t, ok := s.tasks.GetByCode(code)
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

// ListActiveByType returns active tasks of the type, pinned entries first,
// then newest first. Pass "all" to list every type.
func (s *TaskService) ListActiveByType(taskType domain.TaskType) []domain.Task {
	return s.tasks.ListActiveByType(taskType, s.pins.ActiveIDs(s.now()))
}

// ListByOwner returns the account's published tasks, newest first.
func (s *TaskService) ListByOwner(ownerID int64) []domain.Task {
	return s.tasks.ListByOwner(ownerID)
}
