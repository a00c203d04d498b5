package task

import (
	"log/slog"

	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/store"
)

// BatchCompletionTaskFactory creates BatchCompletionTask instances
type BatchCompletionTaskFactory struct {
	batches store.BatchStore
	words   generation.WordSource
	basic   generation.LocalBasicGenerator
	logger  *slog.Logger
}

// NewBatchCompletionTaskFactory creates a new factory for BatchCompletionTasks
func NewBatchCompletionTaskFactory(
	batches store.BatchStore,
	words generation.WordSource,
	basic generation.LocalBasicGenerator,
	logger *slog.Logger,
) *BatchCompletionTaskFactory {
	return &BatchCompletionTaskFactory{
		batches: batches,
		words:   words,
		basic:   basic,
		logger:  logger.With("component", "batch_completion_task_factory"),
	}
}

// CreateTask creates a new BatchCompletionTask for the batch in the payload
func (f *BatchCompletionTaskFactory) CreateTask(payload events.BatchCompletionPayload) (Task, error) {
	task, err := NewBatchCompletionTask(payload, f.batches, f.words, f.basic, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}
