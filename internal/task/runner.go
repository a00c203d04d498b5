package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing. It records submitted tasks
// in a TaskStore, buffers them in a TaskQueue and executes them on a WorkerPool.
type TaskRunner struct {
	store     TaskStore
	queue     *TaskQueue
	pool      *WorkerPool
	config    TaskRunnerConfig
	logger    *slog.Logger
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	logger = logger.With("component", "task_runner")
	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)
	pool.SetStore(store)
	pool.SetErrorHandler(func(task Task, err error) {
		// Default error handler just logs the error
		logger.Error("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
	})

	return &TaskRunner{
		store:  store,
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Submit records a new task and adds it to the queue.
// A task that cannot be queued is marked failed and the queue error returned.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		if updateErr := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			r.logger.ErrorContext(ctx, "failed to mark unqueued task as failed",
				"task_id", task.ID(),
				"error", updateErr)
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Start begins processing queued tasks.
func (r *TaskRunner) Start() error {
	r.startOnce.Do(func() {
		r.pool.Start()
		r.logger.Info("task runner started",
			"worker_count", r.config.WorkerCount,
			"queue_size", r.config.QueueSize)
	})
	return nil
}

// Unfinished returns the recorded tasks that are still pending or processing.
func (r *TaskRunner) Unfinished(ctx context.Context) ([]TaskRecord, error) {
	var out []TaskRecord
	for _, status := range []TaskStatus{TaskStatusPending, TaskStatusProcessing} {
		recs, err := r.store.GetTasksByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s tasks: %w", status, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}

// Stop gracefully shuts down the task runner: the queue stops accepting
// tasks, running tasks see their context cancelled and workers exit.
func (r *TaskRunner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.pool.Stop()

		unfinished, err := r.Unfinished(context.Background())
		if err != nil {
			r.logger.Error("failed to count unfinished tasks", "error", err)
		}
		r.logger.Info("task runner stopped",
			"abandoned_tasks", r.queue.Len(),
			"unfinished_tasks", len(unfinished))
	})
}
