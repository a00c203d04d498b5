package generation

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/phrazzld/edu-api/internal/domain"
)

// BasicGenerator produces age-calibrated arithmetic problems.
// It is safe for concurrent use.
type BasicGenerator struct {
	rng    *lockedRand
	logger *slog.Logger
}

// NewBasicGenerator creates a BasicGenerator. A nil rng is replaced by a randomly seeded source.
func NewBasicGenerator(rng *rand.Rand, logger *slog.Logger) *BasicGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BasicGenerator{
		rng:    newLockedRand(rng),
		logger: logger.With("component", "basic_generator"),
	}
}

// Generate returns one problem for the age. It never fails; on any internal
// error it returns a simple addition problem with operands in [1,10].
func (g *BasicGenerator) Generate(age int) (draft domain.ProblemDraft) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("basic generation panicked, using fallback problem",
				"panic", r,
				"age", age)
			draft = g.fallback(age)
		}
	}()

	draft, err := g.generate(age)
	if err != nil {
		g.logger.Warn("basic generation failed, using fallback problem",
			"error", err,
			"age", age)
		return g.fallback(age)
	}
	return draft
}

// GenerateN returns n problems for the age.
func (g *BasicGenerator) GenerateN(age, n int) []domain.ProblemDraft {
	drafts := make([]domain.ProblemDraft, 0, max(n, 0))
	for i := 0; i < n; i++ {
		drafts = append(drafts, g.Generate(age))
	}
	return drafts
}

func (g *BasicGenerator) generate(age int) (domain.ProblemDraft, error) {
	cal := domain.Calibrate(age)
	if len(cal.Operations) == 0 {
		return domain.ProblemDraft{}, fmt.Errorf("%w: no operations for age %d", ErrInvalidConfig, age)
	}

	op := cal.Operations[g.rng.pick(len(cal.Operations))]
	small := min(10, cal.MaxNumber)

	switch op {
	case domain.OpAddition:
		a := g.rng.intBetween(1, cal.MaxNumber-1)
		b := g.rng.intBetween(1, cal.MaxNumber-a)
		return arithmetic(age, a, "+", b, float64(a+b))

	case domain.OpSubtraction:
		a := g.rng.intBetween(1, cal.MaxNumber)
		b := g.rng.intBetween(1, cal.MaxNumber)
		if a < b {
			a, b = b, a
		}
		return arithmetic(age, a, "-", b, float64(a-b))

	case domain.OpMultiplication:
		a := g.rng.intBetween(1, small)
		b := g.rng.intBetween(1, small)
		return arithmetic(age, a, "×", b, float64(a*b))

	case domain.OpDivision:
		divisor := g.rng.intBetween(1, small)
		quotient := g.rng.intBetween(1, small)
		return arithmetic(age, divisor*quotient, "÷", divisor, float64(quotient))

	case domain.OpFraction:
		num := g.rng.intBetween(1, 10)
		den := g.rng.intBetween(2, 10)
		question := fmt.Sprintf("Hva er %d/%d som desimaltall?", num, den)
		return domain.NewProblemDraft(question, float64(num)/float64(den), age, domain.ProblemTypeFraction, domain.SubTypeNone)

	case domain.OpDecimal:
		// tenths in [0.1, 10.0]
		x := g.rng.intBetween(1, 100)
		y := g.rng.intBetween(1, 100)
		question := fmt.Sprintf("%.1f + %.1f = ?", float64(x)/10, float64(y)/10)
		answer := math.Round(float64(x+y)*10) / 100
		return domain.NewProblemDraft(question, answer, age, domain.ProblemTypeDecimal, domain.SubTypeNone)

	default:
		return domain.ProblemDraft{}, fmt.Errorf("%w: unsupported operation %q", ErrInvalidConfig, op)
	}
}

func (g *BasicGenerator) fallback(age int) domain.ProblemDraft {
	a := g.rng.intBetween(1, 10)
	b := g.rng.intBetween(1, 10)
	return domain.ProblemDraft{
		Question:   fmt.Sprintf("%d + %d = ?", a, b),
		Answer:     float64(a + b),
		Difficulty: domain.DifficultyForAge(age),
		Age:        age,
		Type:       domain.ProblemTypeBasic,
	}
}

func arithmetic(age, a int, symbol string, b int, answer float64) (domain.ProblemDraft, error) {
	question := fmt.Sprintf("%d %s %d = ?", a, symbol, b)
	return domain.NewProblemDraft(question, answer, age, domain.ProblemTypeBasic, domain.SubTypeNone)
}
