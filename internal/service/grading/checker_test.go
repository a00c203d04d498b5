package grading_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/platform/memstore"
	"github.com/phrazzld/edu-api/internal/service/grading"
	"github.com/phrazzld/edu-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsCorrect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     domain.ProblemType
		user    float64
		correct float64
		want    bool
	}{
		{"basic exact", domain.ProblemTypeBasic, 5, 5, true},
		{"basic truncates", domain.ProblemTypeBasic, 5.0005, 5, true},
		{"basic truncates larger fraction", domain.ProblemTypeBasic, 5.9, 5, true},
		{"basic off by one", domain.ProblemTypeBasic, 6, 5, false},
		{"basic just below", domain.ProblemTypeBasic, 4.999, 5, false},
		{"word relative within", domain.ProblemTypeWordProblem, 1001, 1000, true},
		{"word small relative within", domain.ProblemTypeWordProblem, 5.0005, 5.0, true},
		{"word relative outside", domain.ProblemTypeWordProblem, 1002, 1000, false},
		{"word small absolute miss", domain.ProblemTypeWordProblem, 6, 5, false},
		{"decimal close", domain.ProblemTypeDecimal, 2.5024, 2.5, true},
		{"decimal far", domain.ProblemTypeDecimal, 2.51, 2.5, false},
		{"fraction exact", domain.ProblemTypeFraction, 0.75, 0.75, true},
		{"zero correct within", domain.ProblemTypeGeometry, 0.0009, 0, true},
		{"zero correct outside", domain.ProblemTypeGeometry, 0.01, 0, false},
		{"negative correct", domain.ProblemTypeDecimal, -2.001, -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, grading.IsCorrect(tt.typ, tt.user, tt.correct))
		})
	}
}

func TestParseAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{`5`, 5, false},
		{`2.5`, 2.5, false},
		{`"5"`, 5, false},
		{`"2,5"`, 2.5, false},
		{`"3/4"`, 0.75, false},
		{`"fem"`, 0, true},
		{`true`, 0, true},
		{`null`, 0, true},
		{`"1/0"`, 0, true},
		{``, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := grading.ParseAnswer(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, grading.ErrMalformedAnswer)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFeedback(t *testing.T) {
	t.Parallel()

	basic := domain.Problem{Type: domain.ProblemTypeBasic, Answer: 7}
	word := domain.Problem{Type: domain.ProblemTypeWordProblem, SubType: domain.SubTypeShopping, Answer: 12}
	decimal := domain.Problem{Type: domain.ProblemTypeDecimal, Answer: 2.5}

	assert.Equal(t, "Riktig! Bra jobbet! 🎉", grading.Feedback(basic, true))
	assert.Equal(t, "Riktig! Bra jobbet! 🎉 Du klarte tekstoppgaven!", grading.Feedback(word, true))
	assert.Equal(t, "Ikke riktig. Det riktige svaret er 7. Prøv igjen! 💪", grading.Feedback(basic, false))
	assert.Equal(t, "Ikke riktig. Det riktige svaret er 12. Prøv igjen! 💪 Tips: Les oppgaven nøye en gang til.",
		grading.Feedback(word, false))
	assert.Equal(t, "Ikke riktig. Det riktige svaret er 2.50. Prøv igjen! 💪", grading.Feedback(decimal, false))
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	batches := memstore.NewBatchStore(discard())
	require.NoError(t, batches.Create(ctx, store.Batch{ID: "batch_8_2_1", Age: 8, Count: 2}))

	basic, err := domain.NewProblemDraft("3 + 4 = ?", 7, 8, domain.ProblemTypeBasic, domain.SubTypeNone)
	require.NoError(t, err)
	word, err := domain.NewProblemDraft("Ola har 1000 kroner og får 0 til. Hvor mange kroner har han?",
		1000, 8, domain.ProblemTypeWordProblem, domain.SubTypeShopping)
	require.NoError(t, err)
	_, err = batches.Append(ctx, "batch_8_2_1", basic, word)
	require.NoError(t, err)

	checker := grading.NewChecker(batches, discard())

	tests := []struct {
		name        string
		sub         grading.Submission
		wantCorrect bool
		wantErr     error
	}{
		{"correct basic", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 1, Answer: json.RawMessage(`7`)}, true, nil},
		{"string answer", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 1, Answer: json.RawMessage(`"7"`)}, true, nil},
		{"wrong basic", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 1, Answer: json.RawMessage(`8`)}, false, nil},
		{"word within tolerance", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 2, Answer: json.RawMessage(`1001`)}, true, nil},
		{"unknown problem", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 3, Answer: json.RawMessage(`1`)}, false, grading.ErrProblemNotFound},
		{"unknown batch", grading.Submission{BatchID: "nope", ProblemID: 1, Answer: json.RawMessage(`1`)}, false, grading.ErrProblemNotFound},
		{"malformed", grading.Submission{BatchID: "batch_8_2_1", ProblemID: 1, Answer: json.RawMessage(`"sju"`)}, false, grading.ErrMalformedAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := checker.Check(ctx, tt.sub)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCorrect, res.Correct)
			assert.NotEmpty(t, res.Feedback)
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		sub := grading.Submission{BatchID: "batch_8_2_1", ProblemID: 1, Answer: json.RawMessage(`7`)}
		first, err := checker.Check(ctx, sub)
		require.NoError(t, err)
		second, err := checker.Check(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 7.0, first.CorrectAnswer)
	})
}
