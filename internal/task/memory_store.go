package task

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task id is unknown to the store.
var ErrTaskNotFound = errors.New("task not found")

// TaskRecord is the stored view of a task.
type TaskRecord struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemoryTaskStore implements TaskStore in process memory.
// Records are kept for the lifetime of the process.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*TaskRecord
	now   func() time.Time
}

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*TaskRecord),
		now:   time.Now,
	}
}

// SaveTask implements TaskStore.SaveTask
func (s *MemoryTaskStore) SaveTask(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.tasks[task.ID()] = &TaskRecord{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   task.Payload(),
		Status:    task.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// UpdateTaskStatus implements TaskStore.UpdateTaskStatus
func (s *MemoryTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	rec.Status = status
	rec.ErrorMessage = errorMsg
	rec.UpdatedAt = s.now().UTC()
	return nil
}

// GetTasksByStatus implements TaskStore.GetTasksByStatus.
// Records are returned oldest first as copies.
func (s *MemoryTaskStore) GetTasksByStatus(ctx context.Context, status TaskStatus) ([]TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TaskRecord
	for _, rec := range s.tasks {
		if rec.Status == status {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetTask returns the record for a task id.
func (s *MemoryTaskStore) GetTask(ctx context.Context, taskID uuid.UUID) (TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tasks[taskID]
	if !ok {
		return TaskRecord{}, ErrTaskNotFound
	}
	return *rec, nil
}

var _ TaskStore = (*MemoryTaskStore)(nil)
