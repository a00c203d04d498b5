package service

import (
	"context"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/events"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockEventEmitter mocks the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockBatchTaskFactory mocks the BatchTaskFactory interface
type MockBatchTaskFactory struct {
	mock.Mock
}

func (m *MockBatchTaskFactory) CreateTask(payload events.BatchCompletionPayload) (task.Task, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(task.Task), args.Error(1)
}

// MockRemoteExplainer mocks the generation.RemoteExplainer interface
type MockRemoteExplainer struct {
	mock.Mock
}

func (m *MockRemoteExplainer) Explain(
	ctx context.Context,
	req generation.ExplanationRequest,
) (*generation.Explanation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generation.Explanation), args.Error(1)
}

// fixedWordGenerator returns the same word problem every time
type fixedWordGenerator struct{}

func (fixedWordGenerator) Generate(age int) domain.ProblemDraft {
	d, err := domain.NewProblemDraft("Ola har 6 epler og deler dem likt med 2 venner. Hvor mange får hver?",
		3, age, domain.ProblemTypeWordProblem, domain.SubTypeSharing)
	if err != nil {
		panic(err)
	}
	return d
}
