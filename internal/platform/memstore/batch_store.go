package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/platform/logger"
	"github.com/phrazzld/edu-api/internal/store"
)

type batchEntry struct {
	meta     store.Batch
	problems map[int]domain.Problem
	done     chan struct{}
}

// BatchStore implements the store.BatchStore interface in memory.
type BatchStore struct {
	mu      sync.RWMutex
	batches map[string]*batchEntry
	now     func() time.Time
	logger  *slog.Logger
}

// Ensure BatchStore implements store.BatchStore interface
var _ store.BatchStore = (*BatchStore)(nil)

// NewBatchStore creates an empty in-memory batch store.
// If logger is nil, a default logger will be used.
func NewBatchStore(logger *slog.Logger) *BatchStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &BatchStore{
		batches: make(map[string]*batchEntry),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "batch_store")),
	}
}

// Create implements store.BatchStore.Create
func (s *BatchStore) Create(ctx context.Context, batch store.Batch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if batch.ID == "" {
		return fmt.Errorf("%w: batch id cannot be empty", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[batch.ID]; exists {
		return store.ErrBatchExists
	}

	batch.State = store.BatchStateCreated
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = s.now().UTC()
	}

	s.batches[batch.ID] = &batchEntry{
		meta:     batch,
		problems: make(map[int]domain.Problem),
		done:     make(chan struct{}),
	}

	log.Debug("batch created",
		slog.String("batch_id", batch.ID),
		slog.Int("count", batch.Count))
	return nil
}

// Append implements store.BatchStore.Append
func (s *BatchStore) Append(
	ctx context.Context,
	batchID string,
	drafts ...domain.ProblemDraft,
) ([]domain.Problem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, d := range drafts {
		if err := d.Validate(); err != nil {
			log.Warn("problem validation failed during append",
				slog.String("batch_id", batchID),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return nil, store.ErrBatchNotFound
	}
	if entry.meta.State.Terminal() {
		return nil, store.NewStoreError("batch", "append", "batch is "+string(entry.meta.State), store.ErrInvalidTransition)
	}

	stored := make([]domain.Problem, 0, len(drafts))
	for _, d := range drafts {
		p := d.Assign(len(entry.problems)+1, batchID)
		entry.problems[p.ID] = p
		stored = append(stored, p)
	}

	log.Debug("problems appended",
		slog.String("batch_id", batchID),
		slog.Int("added", len(stored)),
		slog.Int("total", len(entry.problems)))
	return stored, nil
}

// List implements store.BatchStore.List
func (s *BatchStore) List(ctx context.Context, batchID string) ([]domain.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return nil, store.ErrBatchNotFound
	}

	problems := make([]domain.Problem, 0, len(entry.problems))
	for _, p := range entry.problems {
		problems = append(problems, p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].ID < problems[j].ID })
	return problems, nil
}

// Get implements store.BatchStore.Get
func (s *BatchStore) Get(ctx context.Context, batchID string, problemID int) (domain.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return domain.Problem{}, store.ErrBatchNotFound
	}
	p, ok := entry.problems[problemID]
	if !ok {
		return domain.Problem{}, store.ErrProblemNotFound
	}
	return p, nil
}

// Batch implements store.BatchStore.Batch
func (s *BatchStore) Batch(ctx context.Context, batchID string) (store.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return store.Batch{}, store.ErrBatchNotFound
	}
	return entry.meta, nil
}

// SetState implements store.BatchStore.SetState
func (s *BatchStore) SetState(ctx context.Context, batchID string, state store.BatchState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return store.ErrBatchNotFound
	}

	from := entry.meta.State
	if !from.CanTransition(state) {
		return store.NewStoreError("batch", "set_state",
			fmt.Sprintf("%s -> %s", from, state), store.ErrInvalidTransition)
	}

	entry.meta.State = state
	if state.Terminal() {
		close(entry.done)
	}

	log.Debug("batch state changed",
		slog.String("batch_id", batchID),
		slog.String("from", string(from)),
		slog.String("to", string(state)))
	return nil
}

// Done implements store.BatchStore.Done
func (s *BatchStore) Done(batchID string) (<-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.batches[batchID]
	if !ok {
		return nil, store.ErrBatchNotFound
	}
	return entry.done, nil
}
