package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/store"
)

// Common errors
var (
	ErrNilBatchStore     = errors.New("batch store cannot be nil")
	ErrNilWordSource     = errors.New("word source cannot be nil")
	ErrNilBasicGenerator = errors.New("basic generator cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyBatchID      = errors.New("batch ID cannot be empty")
	ErrInvalidCount      = errors.New("batch count must be positive")
)

// BatchCompletionTask implements the Task interface for topping up a batch
// to its requested size after the initial slice has been served.
type BatchCompletionTask struct {
	id      uuid.UUID
	payload events.BatchCompletionPayload
	batches store.BatchStore
	words   generation.WordSource
	basic   generation.LocalBasicGenerator
	logger  *slog.Logger

	mu     sync.RWMutex
	status TaskStatus
}

// NewBatchCompletionTask creates a new batch completion task
func NewBatchCompletionTask(
	payload events.BatchCompletionPayload,
	batches store.BatchStore,
	words generation.WordSource,
	basic generation.LocalBasicGenerator,
	logger *slog.Logger,
) (*BatchCompletionTask, error) {
	if batches == nil {
		return nil, ErrNilBatchStore
	}
	if words == nil {
		return nil, ErrNilWordSource
	}
	if basic == nil {
		return nil, ErrNilBasicGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if payload.BatchID == "" {
		return nil, ErrEmptyBatchID
	}
	if payload.Count <= 0 {
		return nil, ErrInvalidCount
	}

	return &BatchCompletionTask{
		id:      uuid.New(),
		payload: payload,
		batches: batches,
		words:   words,
		basic:   basic,
		logger:  logger.With("task_type", TaskTypeBatchCompletion, "batch_id", payload.BatchID),
		status:  TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *BatchCompletionTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *BatchCompletionTask) Type() string {
	return TaskTypeBatchCompletion
}

// Payload returns the task data as a byte slice
func (t *BatchCompletionTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *BatchCompletionTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *BatchCompletionTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute moves the batch to generating, appends the word problems and then
// the basic problems still missing, and marks the batch stable. Any store
// failure marks the batch failed.
func (t *BatchCompletionTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	t.logger.InfoContext(ctx, "starting batch completion task",
		"age", t.payload.Age,
		"count", t.payload.Count)

	if err := t.run(ctx); err != nil {
		t.setStatus(TaskStatusFailed)
		if stateErr := t.batches.SetState(context.WithoutCancel(ctx), t.payload.BatchID, store.BatchStateFailed); stateErr != nil {
			t.logger.ErrorContext(ctx, "failed to mark batch as failed", "error", stateErr)
		}
		t.logger.ErrorContext(ctx, "batch completion failed", "error", err)
		return err
	}

	t.setStatus(TaskStatusCompleted)
	return nil
}

func (t *BatchCompletionTask) run(ctx context.Context) error {
	p := t.payload

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	meta, err := t.batches.Batch(ctx, p.BatchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}
	if meta.State.Terminal() {
		t.logger.InfoContext(ctx, "batch already finished, nothing to do", "state", meta.State)
		return nil
	}

	if err := t.batches.SetState(ctx, p.BatchID, store.BatchStateGenerating); err != nil {
		return fmt.Errorf("failed to set batch generating: %w", err)
	}

	current, err := t.batches.List(ctx, p.BatchID)
	if err != nil {
		return fmt.Errorf("failed to list batch: %w", err)
	}

	wordTarget := p.Count - domain.InitialSliceSize(p.Count)
	wordHave := 0
	for _, prob := range current {
		if prob.Type == domain.ProblemTypeWordProblem {
			wordHave++
		}
	}

	total := len(current)
	if missing := min(wordTarget-wordHave, p.Count-total); missing > 0 {
		drafts := t.words.WordProblems(ctx, generation.WordProblemRequest{
			Age:   p.Age,
			Count: missing,
			Rules: p.Rules,
		})
		added, err := t.batches.Append(ctx, p.BatchID, drafts...)
		if err != nil {
			return fmt.Errorf("failed to append word problems: %w", err)
		}
		total += len(added)
		t.logger.InfoContext(ctx, "appended word problems", "count", len(added))
	}

	if missing := p.Count - total; missing > 0 {
		added, err := t.batches.Append(ctx, p.BatchID, t.basic.GenerateN(p.Age, missing)...)
		if err != nil {
			return fmt.Errorf("failed to append basic problems: %w", err)
		}
		total += len(added)
		t.logger.InfoContext(ctx, "appended basic problems", "count", len(added))
	}

	if err := t.batches.SetState(ctx, p.BatchID, store.BatchStateStable); err != nil {
		return fmt.Errorf("failed to set batch stable: %w", err)
	}

	t.logger.InfoContext(ctx, "batch completion task completed successfully", "total", total)
	return nil
}
