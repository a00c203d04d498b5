package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/logger"
	"github.com/phrazzld/edu-api/internal/store"
	"github.com/phrazzld/edu-api/internal/task"
)

// Request limits.
const (
	// DefaultMaxCount is the batch limit when none is configured.
	DefaultMaxCount = 100

	DefaultSimilarCount = 2
	MaxSimilarCount     = 10
)

// GenerateRequest asks for a new batch of problems.
type GenerateRequest struct {
	Age   int
	Count int
	Rules []string
}

// BatchResult is the synchronous part of a generated batch.
type BatchResult struct {
	BatchID  string           `json:"batch_id"`
	Problems []domain.Problem `json:"problems"`
}

// BatchTaskFactory creates the background task that completes a batch.
type BatchTaskFactory interface {
	CreateTask(payload events.BatchCompletionPayload) (task.Task, error)
}

// ProblemService provides problem generation operations
type ProblemService interface {
	// GenerateBatch creates a batch, returns its initial slice of basic problems
	// and schedules the background completion of the rest.
	GenerateBatch(ctx context.Context, req GenerateRequest) (*BatchResult, error)

	// Remaining returns every problem currently in the batch sorted by id.
	// An unknown batch yields an empty list.
	Remaining(ctx context.Context, batchID string) ([]domain.Problem, error)

	// Similar generates unstored practice problems of the given type.
	Similar(ctx context.Context, age int, typ domain.ProblemType, count int) ([]domain.Problem, error)
}

// ProblemServiceConfig holds the tunables of the problem service.
type ProblemServiceConfig struct {
	// MaxCount is the largest batch a request may ask for.
	MaxCount int
	// AgePolicy decides what happens to ages outside the supported range.
	AgePolicy domain.AgePolicy
}

// problemServiceImpl implements the ProblemService interface
type problemServiceImpl struct {
	batches store.BatchStore
	basic   generation.LocalBasicGenerator
	words   generation.LocalWordGenerator
	emitter events.EventEmitter
	inline  BatchTaskFactory
	config  ProblemServiceConfig
	now     func() time.Time
	logger  *slog.Logger
}

// NewProblemService creates a new ProblemService.
// It returns an error if any of the required dependencies are nil.
// The inline factory runs the completion task synchronously when the
// emitter cannot hand it to the background runner.
func NewProblemService(
	batches store.BatchStore,
	basic generation.LocalBasicGenerator,
	words generation.LocalWordGenerator,
	emitter events.EventEmitter,
	inline BatchTaskFactory,
	config ProblemServiceConfig,
	logger *slog.Logger,
) (ProblemService, error) {
	deps := []struct {
		name    string
		missing bool
	}{
		{"batches", batches == nil},
		{"basic", basic == nil},
		{"words", words == nil},
		{"emitter", emitter == nil},
		{"inline", inline == nil},
	}
	for _, d := range deps {
		if d.missing {
			return nil, &ServiceError{
				Service:   "problem",
				Operation: "create_service",
				Message:   d.name + " cannot be nil",
			}
		}
	}

	if config.MaxCount <= 0 {
		config.MaxCount = DefaultMaxCount
	}
	if config.AgePolicy == "" {
		config.AgePolicy = domain.AgePolicyClamp
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &problemServiceImpl{
		batches: batches,
		basic:   basic,
		words:   words,
		emitter: emitter,
		inline:  inline,
		config:  config,
		now:     time.Now,
		logger:  logger.With("component", "problem_service"),
	}, nil
}

// GenerateBatch implements ProblemService.GenerateBatch
func (s *problemServiceImpl) GenerateBatch(ctx context.Context, req GenerateRequest) (*BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.Count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, req.Count)
	}
	if req.Count > s.config.MaxCount {
		return nil, &CountLimitError{Requested: req.Count, Max: s.config.MaxCount}
	}

	age, err := s.config.AgePolicy.Apply(req.Age)
	if err != nil {
		return nil, err
	}

	batchID := store.NewBatchID(age, req.Count, s.now())
	if err := s.batches.Create(ctx, store.Batch{ID: batchID, Age: age, Count: req.Count}); err != nil {
		log.Error("failed to create batch", "error", err, "batch_id", batchID)
		return nil, NewServiceError("problem", "generate_batch", "failed to create batch", err)
	}

	drafts := s.basic.GenerateN(age, domain.InitialSliceSize(req.Count))
	problems, err := s.batches.Append(ctx, batchID, drafts...)
	if err != nil {
		log.Error("failed to store initial problems", "error", err, "batch_id", batchID)
		_ = s.batches.SetState(ctx, batchID, store.BatchStateFailed)
		return nil, NewServiceError("problem", "generate_batch", "failed to store initial problems", err)
	}

	if err := s.batches.SetState(ctx, batchID, store.BatchStatePartiallyPopulated); err != nil {
		log.Error("failed to mark batch partially populated", "error", err, "batch_id", batchID)
		return nil, NewServiceError("problem", "generate_batch", "failed to update batch state", err)
	}

	s.scheduleCompletion(ctx, events.BatchCompletionPayload{
		BatchID: batchID,
		Age:     age,
		Count:   req.Count,
		Rules:   req.Rules,
	})

	log.Info("batch generated",
		"batch_id", batchID,
		"age", age,
		"count", req.Count,
		"initial", len(problems))

	return &BatchResult{BatchID: batchID, Problems: problems}, nil
}

// scheduleCompletion hands the batch to the background runner, or completes
// it inline when the event cannot be delivered.
func (s *problemServiceImpl) scheduleCompletion(ctx context.Context, payload events.BatchCompletionPayload) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewBatchCompletionEvent(payload)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err == nil {
		log.Debug("batch completion event emitted", "batch_id", payload.BatchID, "event_id", event.ID)
		return
	}

	log.Warn("failed to schedule batch completion, completing inline",
		"error", err,
		"batch_id", payload.BatchID)

	t, err := s.inline.CreateTask(payload)
	if err != nil {
		log.Error("failed to create inline completion task", "error", err, "batch_id", payload.BatchID)
		_ = s.batches.SetState(ctx, payload.BatchID, store.BatchStateFailed)
		return
	}

	// the batch outlives the request
	if err := t.Execute(context.WithoutCancel(ctx)); err != nil {
		log.Error("inline batch completion failed", "error", err, "batch_id", payload.BatchID)
	}
}

// Remaining implements ProblemService.Remaining
func (s *problemServiceImpl) Remaining(ctx context.Context, batchID string) ([]domain.Problem, error) {
	problems, err := s.batches.List(ctx, batchID)
	if errors.Is(err, store.ErrBatchNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("remaining requested for unknown batch", "batch_id", batchID)
		return []domain.Problem{}, nil
	}
	if err != nil {
		return nil, NewServiceError("problem", "remaining", "failed to list batch", err)
	}
	return problems, nil
}

// Similar implements ProblemService.Similar.
// A non-positive count means DefaultSimilarCount; counts above
// MaxSimilarCount are capped.
func (s *problemServiceImpl) Similar(
	ctx context.Context,
	age int,
	typ domain.ProblemType,
	count int,
) ([]domain.Problem, error) {
	var gen func(int) domain.ProblemDraft
	switch typ {
	case domain.ProblemTypeBasic:
		gen = s.basic.Generate
	case domain.ProblemTypeWordProblem:
		gen = s.words.Generate
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}

	age, err := s.config.AgePolicy.Apply(age)
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		count = DefaultSimilarCount
	}
	count = min(count, MaxSimilarCount)

	problems := make([]domain.Problem, 0, count)
	for i := 0; i < count; i++ {
		problems = append(problems, gen(age).Assign(i+1, ""))
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("similar problems generated",
		"age", age,
		"type", typ,
		"count", count)
	return problems, nil
}
