// Package mocks provides shared test doubles for the generation and token
// interfaces.
//
// Each mock has one Fn field per interface method. A nil Fn falls back to
// the mock's default fields so most tests only set what they assert on:
//
//	remote := &mocks.MockRemoteGenerator{
//	    GenerateWordProblemsFn: func(ctx context.Context, req generation.WordProblemRequest) ([]domain.ProblemDraft, error) {
//	        return nil, generation.ErrGenerationFailed
//	    },
//	}
package mocks
