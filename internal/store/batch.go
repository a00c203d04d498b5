package store

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/edu-api/internal/domain"
)

// BatchState is the lifecycle position of a batch.
type BatchState string

const (
	BatchStateCreated            BatchState = "created"
	BatchStatePartiallyPopulated BatchState = "partially_populated"
	BatchStateGenerating         BatchState = "generating"
	BatchStateStable             BatchState = "stable"
	BatchStateFailed             BatchState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s BatchState) Terminal() bool {
	return s == BatchStateStable || s == BatchStateFailed
}

// CanTransition reports whether a batch may move from s to next.
// Any non-terminal state may fail.
func (s BatchState) CanTransition(next BatchState) bool {
	if s.Terminal() {
		return false
	}
	if next == BatchStateFailed {
		return true
	}
	switch s {
	case BatchStateCreated:
		return next == BatchStatePartiallyPopulated
	case BatchStatePartiallyPopulated:
		return next == BatchStateGenerating
	case BatchStateGenerating:
		return next == BatchStateStable
	default:
		return false
	}
}

// Batch describes a group of problems generated for one request.
type Batch struct {
	ID        string     `json:"batch_id"`
	Age       int        `json:"age"`
	Count     int        `json:"count"`
	State     BatchState `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewBatchID returns the identifier for a batch requested at time now.
func NewBatchID(age, count int, now time.Time) string {
	return fmt.Sprintf("batch_%d_%d_%d", age, count, now.UnixNano())
}

// BatchStore defines the interface for problem batch persistence.
type BatchStore interface {
	// Create registers an empty batch in the created state.
	// Returns ErrBatchExists if the id is taken.
	Create(ctx context.Context, batch Batch) error

	// Append stores drafts in order, assigning each the id len(batch)+1.
	// Returns the stored problems, or ErrBatchNotFound.
	Append(ctx context.Context, batchID string, drafts ...domain.ProblemDraft) ([]domain.Problem, error)

	// List returns all problems in the batch sorted by id.
	// Returns ErrBatchNotFound if the batch does not exist.
	List(ctx context.Context, batchID string) ([]domain.Problem, error)

	// Get returns a single problem.
	// Returns ErrBatchNotFound or ErrProblemNotFound.
	Get(ctx context.Context, batchID string, problemID int) (domain.Problem, error)

	// Batch returns the batch metadata.
	Batch(ctx context.Context, batchID string) (Batch, error)

	// SetState moves the batch to a new state.
	// Returns ErrInvalidTransition if CanTransition forbids it.
	SetState(ctx context.Context, batchID string, state BatchState) error

	// Done returns a channel closed once the batch reaches a terminal state.
	Done(batchID string) (<-chan struct{}, error)
}
