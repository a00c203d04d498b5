package generation

import (
	"context"
	"log/slog"

	"github.com/phrazzld/edu-api/internal/domain"
)

// FallbackWordSource asks the remote generator first and fills any shortfall,
// one item at a time, from the local generator.
type FallbackWordSource struct {
	remote RemoteGenerator
	local  LocalWordGenerator
	logger *slog.Logger
}

// NewFallbackWordSource creates a FallbackWordSource. A nil remote behaves like DisabledRemote.
func NewFallbackWordSource(remote RemoteGenerator, local LocalWordGenerator, logger *slog.Logger) *FallbackWordSource {
	if remote == nil {
		remote = DisabledRemote{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackWordSource{
		remote: remote,
		local:  local,
		logger: logger.With("component", "word_source"),
	}
}

// WordProblems returns exactly req.Count problems.
func (s *FallbackWordSource) WordProblems(ctx context.Context, req WordProblemRequest) []domain.ProblemDraft {
	if req.Count <= 0 {
		return nil
	}

	drafts, err := s.remote.GenerateWordProblems(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "remote word problem generation failed, using local generator",
			"error", err,
			"age", req.Age,
			"count", req.Count)
		drafts = nil
	}

	if len(drafts) > req.Count {
		drafts = drafts[:req.Count]
	}

	if missing := req.Count - len(drafts); missing > 0 {
		if err == nil {
			s.logger.InfoContext(ctx, "remote returned fewer word problems than requested",
				"requested", req.Count,
				"received", len(drafts))
		}
		for i := 0; i < missing; i++ {
			drafts = append(drafts, s.local.Generate(req.Age))
		}
	}

	return drafts
}
