package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/logger"
	"github.com/phrazzld/edu-api/internal/store"
)

// Tolerance is the relative error accepted for non-basic problems.
const Tolerance = 0.001

var (
	// ErrProblemNotFound indicates the batch or the problem id does not exist.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrMalformedAnswer indicates a submitted answer that is not numeric.
	ErrMalformedAnswer = errors.New("malformed answer")
)

// Feedback texts.
const (
	feedbackCorrect     = "Riktig! Bra jobbet! 🎉"
	feedbackCorrectWord = " Du klarte tekstoppgaven!"
	feedbackWrong       = "Ikke riktig. Det riktige svaret er %s. Prøv igjen! 💪"
	feedbackWrongWord   = " Tips: Les oppgaven nøye en gang til."
)

// Submission is an answer to a stored problem. Answer holds a JSON number
// or a numeric string ("5", "2,5", "3/4").
type Submission struct {
	BatchID   string          `json:"batch_id"   validate:"required"`
	ProblemID int             `json:"problem_id" validate:"required,gt=0"`
	Answer    json.RawMessage `json:"answer"     validate:"required"`
}

// Result is the outcome of a check.
type Result struct {
	Correct       bool    `json:"correct"`
	Feedback      string  `json:"feedback"`
	CorrectAnswer float64 `json:"correct_answer"`
}

// ProblemGetter looks up a stored problem.
type ProblemGetter interface {
	Get(ctx context.Context, batchID string, problemID int) (domain.Problem, error)
}

// Checker grades submissions. It holds no state of its own.
type Checker struct {
	problems ProblemGetter
	logger   *slog.Logger
}

// NewChecker creates a Checker reading problems from the given store.
func NewChecker(problems ProblemGetter, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		problems: problems,
		logger:   logger.With("component", "answer_checker"),
	}
}

// ParseAnswer converts a submitted JSON answer to a number.
func ParseAnswer(raw json.RawMessage) (float64, error) {
	v, _, err := generation.ParseAnswerJSON(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedAnswer, err)
	}
	return v, nil
}

// Check grades a submission.
func (c *Checker) Check(ctx context.Context, sub Submission) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	user, err := ParseAnswer(sub.Answer)
	if err != nil {
		return nil, err
	}

	problem, err := c.problems.Get(ctx, sub.BatchID, sub.ProblemID)
	if err != nil {
		if errors.Is(err, store.ErrBatchNotFound) || errors.Is(err, store.ErrProblemNotFound) {
			log.Debug("answer submitted for unknown problem",
				"batch_id", sub.BatchID,
				"problem_id", sub.ProblemID)
			return nil, fmt.Errorf("%w: %s/%d", ErrProblemNotFound, sub.BatchID, sub.ProblemID)
		}
		return nil, fmt.Errorf("failed to look up problem: %w", err)
	}

	correct := IsCorrect(problem.Type, user, problem.Answer)
	log.Debug("answer checked",
		"batch_id", sub.BatchID,
		"problem_id", sub.ProblemID,
		"type", problem.Type,
		"correct", correct)

	return &Result{
		Correct:       correct,
		Feedback:      Feedback(problem, correct),
		CorrectAnswer: problem.Answer,
	}, nil
}

// IsCorrect applies the comparison rule for the problem type.
func IsCorrect(typ domain.ProblemType, user, correct float64) bool {
	if typ == domain.ProblemTypeBasic {
		return int64(math.Trunc(user)) == int64(math.Trunc(correct))
	}
	if correct == 0 {
		return math.Abs(user) <= Tolerance
	}
	return math.Abs(user-correct)/math.Abs(correct) <= Tolerance
}

// Feedback returns the child-facing message for a graded problem.
func Feedback(p domain.Problem, correct bool) string {
	word := p.Type == domain.ProblemTypeWordProblem
	if correct {
		if word {
			return feedbackCorrect + feedbackCorrectWord
		}
		return feedbackCorrect
	}

	msg := fmt.Sprintf(feedbackWrong, domain.FormatAnswer(p.Answer))
	if word {
		msg += feedbackWrongWord
	}
	return msg
}
