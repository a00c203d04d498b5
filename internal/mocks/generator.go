package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
)

// MockRemoteGenerator implements generation.RemoteGenerator and
// generation.RemoteExplainer for testing
type MockRemoteGenerator struct {
	// GenerateWordProblemsFn allows test cases to mock the GenerateWordProblems behavior
	GenerateWordProblemsFn func(ctx context.Context, req generation.WordProblemRequest) ([]domain.ProblemDraft, error)

	// ExplainFn allows test cases to mock the Explain behavior
	ExplainFn func(ctx context.Context, req generation.ExplanationRequest) (*generation.Explanation, error)

	// Default response values
	Drafts      []domain.ProblemDraft
	Explanation *generation.Explanation
	Err         error

	// mu protects the call tracking state for concurrent test cases
	mu sync.Mutex

	// Call tracking for verification
	GenerateCalls []generation.WordProblemRequest
	ExplainCalls  []generation.ExplanationRequest
}

// GenerateWordProblems implements the generation.RemoteGenerator interface
func (m *MockRemoteGenerator) GenerateWordProblems(
	ctx context.Context,
	req generation.WordProblemRequest,
) ([]domain.ProblemDraft, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.mu.Unlock()

	if m.GenerateWordProblemsFn != nil {
		return m.GenerateWordProblemsFn(ctx, req)
	}
	return m.Drafts, m.Err
}

// Explain implements the generation.RemoteExplainer interface
func (m *MockRemoteGenerator) Explain(
	ctx context.Context,
	req generation.ExplanationRequest,
) (*generation.Explanation, error) {
	m.mu.Lock()
	m.ExplainCalls = append(m.ExplainCalls, req)
	m.mu.Unlock()

	if m.ExplainFn != nil {
		return m.ExplainFn(ctx, req)
	}
	return m.Explanation, m.Err
}

// GenerateCallCount returns how many times GenerateWordProblems was called
func (m *MockRemoteGenerator) GenerateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// ExplainCallCount returns how many times Explain was called
func (m *MockRemoteGenerator) ExplainCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ExplainCalls)
}

// NewMockRemoteWithError creates a MockRemoteGenerator that fails every call
func NewMockRemoteWithError(err error) *MockRemoteGenerator {
	return &MockRemoteGenerator{Err: err}
}

// NewMockRemoteWithDrafts creates a MockRemoteGenerator returning the given word problems
func NewMockRemoteWithDrafts(drafts []domain.ProblemDraft) *MockRemoteGenerator {
	return &MockRemoteGenerator{Drafts: drafts}
}

// SampleWordDrafts returns n valid shopping word problems for the age
func SampleWordDrafts(age, n int) []domain.ProblemDraft {
	drafts := make([]domain.ProblemDraft, 0, n)
	for i := 0; i < n; i++ {
		d, err := domain.NewProblemDraft(
			"Emma har 5 kroner og kjøper en is til 3 kroner. Hvor mange kroner har hun igjen?",
			2, age, domain.ProblemTypeWordProblem, domain.SubTypeShopping)
		if err != nil {
			panic(err)
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// Reset resets the call tracking state
func (m *MockRemoteGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = nil
	m.ExplainCalls = nil
}
