package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemDraft(t *testing.T) {
	t.Parallel()

	d, err := NewProblemDraft("  3 + 4 = ?  ", 7, 6, ProblemTypeBasic, SubTypeNone)
	require.NoError(t, err)
	assert.Equal(t, "3 + 4 = ?", d.Question)
	assert.Equal(t, 7.0, d.Answer)
	assert.Equal(t, DifficultyBeginner, d.Difficulty)

	p := d.Assign(3, "batch_6_10_1")
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "batch_6_10_1", p.BatchID)
	assert.Equal(t, d.Question, p.Question)
}

func TestProblemDraftValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		q       string
		answer  float64
		typ     ProblemType
		sub     SubType
		wantErr error
	}{
		{"empty question", " ", 1, ProblemTypeBasic, SubTypeNone, ErrEmptyQuestion},
		{"NaN answer", "x", math.NaN(), ProblemTypeBasic, SubTypeNone, ErrInvalidAnswer},
		{"infinite answer", "x", math.Inf(1), ProblemTypeBasic, SubTypeNone, ErrInvalidAnswer},
		{"unknown type", "x", 1, ProblemType("algebra"), SubTypeNone, ErrInvalidProblemType},
		{"word problem without sub-type", "x", 1, ProblemTypeWordProblem, SubTypeNone, ErrInvalidSubType},
		{"basic with sub-type", "x", 1, ProblemTypeBasic, SubTypeShopping, ErrInvalidSubType},
		{"unknown sub-type", "x", 1, ProblemTypeWordProblem, SubType("cooking"), ErrInvalidSubType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewProblemDraft(tt.q, tt.answer, 8, tt.typ, tt.sub)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubTypesForAge(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []SubType{SubTypeShopping, SubTypeSharing}, SubTypesForAge(7))
	assert.Equal(t, []SubType{SubTypeShopping, SubTypeSharing, SubTypeTime}, SubTypesForAge(9))
	assert.Len(t, SubTypesForAge(10), 4)
	assert.False(t, SubTypeAllowed(8, SubTypeMeasurement))
	assert.True(t, SubTypeAllowed(12, SubTypeMeasurement))
}

func TestFormatAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{5.0004, "5"},
		{4.9996, "5"},
		{2.5, "2.50"},
		{0.333333, "0.33"},
		{-3, "-3"},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAnswer(tt.in), "FormatAnswer(%v)", tt.in)
	}
}
