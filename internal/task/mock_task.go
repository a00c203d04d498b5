package task

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/events"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	ExecuteFn   func(ctx context.Context) error

	mu         sync.Mutex
	TaskStatus TaskStatus
	executions int
}

// NewMockTask creates a new MockTask with the given ID and type
func NewMockTask(id uuid.UUID, taskType string, payload []byte) *MockTask {
	return &MockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Payload returns the task data as a byte slice
func (t *MockTask) Payload() []byte {
	return t.TaskPayload
}

// Status returns the current task status
func (t *MockTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.TaskStatus
}

// Execute runs ExecuteFn and counts the call
func (t *MockTask) Execute(ctx context.Context) error {
	t.mu.Lock()
	t.executions++
	fn := t.ExecuteFn
	t.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Executions returns how many times Execute was called
func (t *MockTask) Executions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.executions
}

// CreateMockBatchTask is a helper function to create a MockTask carrying a batch completion payload
func CreateMockBatchTask(batchID string) *MockTask {
	data, _ := json.Marshal(events.BatchCompletionPayload{BatchID: batchID, Age: 8, Count: 10})
	return NewMockTask(uuid.New(), TaskTypeBatchCompletion, data)
}
