package generation

import (
	"context"

	"github.com/phrazzld/edu-api/internal/domain"
)

// WordProblemRequest describes a batch of word problems to request remotely.
type WordProblemRequest struct {
	Age   int
	Count int
	// Rules replace the default constraint prose when non-empty.
	Rules []string
}

// ExplanationRequest identifies the problem to explain.
type ExplanationRequest struct {
	Question string
	Answer   float64
	Type     domain.ProblemType
	Age      int
}

// Explanation is a child-friendly walkthrough of a problem.
type Explanation struct {
	Explanation string   `json:"explanation"`
	Tips        []string `json:"tips"`
	Example     *string  `json:"example"`
}

// RemoteGenerator defines the interface for requesting word problems from an
// external service. An error or a short result is an expected outcome that
// callers handle by falling back to local generation.
type RemoteGenerator interface {
	GenerateWordProblems(ctx context.Context, req WordProblemRequest) ([]domain.ProblemDraft, error)
}

// RemoteExplainer defines the interface for requesting explanations from an
// external service.
type RemoteExplainer interface {
	Explain(ctx context.Context, req ExplanationRequest) (*Explanation, error)
}

// LocalWordGenerator produces a single word problem without I/O. It never fails.
type LocalWordGenerator interface {
	Generate(age int) domain.ProblemDraft
}

// LocalBasicGenerator produces arithmetic problems without I/O. It never fails.
type LocalBasicGenerator interface {
	Generate(age int) domain.ProblemDraft
	GenerateN(age, n int) []domain.ProblemDraft
}

// WordSource yields exactly req.Count word problems.
type WordSource interface {
	WordProblems(ctx context.Context, req WordProblemRequest) []domain.ProblemDraft
}

// DisabledRemote is wired when no remote service is configured.
type DisabledRemote struct{}

// GenerateWordProblems always returns ErrRemoteDisabled.
func (DisabledRemote) GenerateWordProblems(context.Context, WordProblemRequest) ([]domain.ProblemDraft, error) {
	return nil, ErrRemoteDisabled
}

// Explain always returns ErrRemoteDisabled.
func (DisabledRemote) Explain(context.Context, ExplanationRequest) (*Explanation, error) {
	return nil, ErrRemoteDisabled
}
