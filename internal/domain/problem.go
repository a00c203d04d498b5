package domain

import (
	"fmt"
	"math"
	"strings"
)

// ProblemType classifies how a problem is posed and graded.
type ProblemType string

const (
	ProblemTypeBasic       ProblemType = "basic"
	ProblemTypeWordProblem ProblemType = "word_problem"
	ProblemTypeGeometry    ProblemType = "geometry"
	ProblemTypeDecimal     ProblemType = "decimal"
	ProblemTypeFraction    ProblemType = "fraction"
)

// Valid reports whether t is a known problem type.
func (t ProblemType) Valid() bool {
	switch t {
	case ProblemTypeBasic, ProblemTypeWordProblem, ProblemTypeGeometry,
		ProblemTypeDecimal, ProblemTypeFraction:
		return true
	default:
		return false
	}
}

// SubType is the scenario of a word problem.
type SubType string

const (
	SubTypeNone        SubType = ""
	SubTypeShopping    SubType = "shopping"
	SubTypeSharing     SubType = "sharing"
	SubTypeTime        SubType = "time"
	SubTypeMeasurement SubType = "measurement"
)

// Valid reports whether s is a known word problem scenario.
func (s SubType) Valid() bool {
	switch s {
	case SubTypeShopping, SubTypeSharing, SubTypeTime, SubTypeMeasurement:
		return true
	default:
		return false
	}
}

// SubTypesForAge returns the word problem scenarios suitable for the age.
func SubTypesForAge(age int) []SubType {
	switch {
	case age <= 7:
		return []SubType{SubTypeShopping, SubTypeSharing}
	case age <= 9:
		return []SubType{SubTypeShopping, SubTypeSharing, SubTypeTime}
	default:
		return []SubType{SubTypeShopping, SubTypeSharing, SubTypeTime, SubTypeMeasurement}
	}
}

// SubTypeAllowed reports whether sub is one of SubTypesForAge(age).
func SubTypeAllowed(age int, sub SubType) bool {
	for _, s := range SubTypesForAge(age) {
		if s == sub {
			return true
		}
	}
	return false
}

// Difficulty is the coarse level label shown alongside a problem.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Problem is a single practice item stored in a batch.
type Problem struct {
	ID         int         `json:"id"`
	Question   string      `json:"question"`
	Answer     float64     `json:"answer"`
	Difficulty Difficulty  `json:"difficulty"`
	Age        int         `json:"age"`
	Type       ProblemType `json:"type"`
	SubType    SubType     `json:"sub_type,omitempty"`
	BatchID    string      `json:"batch_id"`
}

// ProblemDraft is a validated problem that has not yet been assigned an id
// or a batch. Generators produce drafts; the batch store turns them into
// Problems.
type ProblemDraft struct {
	Question   string
	Answer     float64
	Difficulty Difficulty
	Age        int
	Type       ProblemType
	SubType    SubType
}

// NewProblemDraft creates a draft with the difficulty derived from age.
// Returns an error wrapping ErrValidation if any field is invalid.
func NewProblemDraft(question string, answer float64, age int, typ ProblemType, sub SubType) (ProblemDraft, error) {
	d := ProblemDraft{
		Question:   strings.TrimSpace(question),
		Answer:     answer,
		Difficulty: DifficultyForAge(age),
		Age:        age,
		Type:       typ,
		SubType:    sub,
	}

	if err := d.Validate(); err != nil {
		return ProblemDraft{}, err
	}

	return d, nil
}

// Validate checks the invariants every stored problem must satisfy.
func (d ProblemDraft) Validate() error {
	if d.Question == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyQuestion)
	}

	if math.IsNaN(d.Answer) || math.IsInf(d.Answer, 0) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidAnswer)
	}

	if !d.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidProblemType, d.Type)
	}

	// sub_type is present exactly when the problem is a word problem
	if d.Type == ProblemTypeWordProblem {
		if !d.SubType.Valid() {
			return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidSubType, d.SubType)
		}
	} else if d.SubType != SubTypeNone {
		return fmt.Errorf("%w: %w: %q on %s problem", ErrValidation, ErrInvalidSubType, d.SubType, d.Type)
	}

	return nil
}

// Assign turns the draft into a Problem with the given id and batch.
func (d ProblemDraft) Assign(id int, batchID string) Problem {
	return Problem{
		ID:         id,
		Question:   d.Question,
		Answer:     d.Answer,
		Difficulty: d.Difficulty,
		Age:        d.Age,
		Type:       d.Type,
		SubType:    d.SubType,
		BatchID:    batchID,
	}
}

// FormatAnswer renders an answer for a child: as an integer when it is within
// 0.001 of one, otherwise with two decimals.
func FormatAnswer(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < 0.001 {
		return fmt.Sprintf("%d", int64(r))
	}
	return fmt.Sprintf("%.2f", v)
}
