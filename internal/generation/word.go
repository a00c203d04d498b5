package generation

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/phrazzld/edu-api/internal/domain"
)

// maxDedupRetries is how many times a duplicate question is re-rolled before
// falling back to a basic problem.
const maxDedupRetries = 3

// WordGenerator renders word problems from a Catalog.
// It is safe for concurrent use.
type WordGenerator struct {
	catalog *Catalog
	basic   LocalBasicGenerator
	dedup   *DedupWindow
	rng     *lockedRand
	logger  *slog.Logger
}

// NewWordGenerator creates a WordGenerator. basic is used when no unique
// word problem can be produced.
func NewWordGenerator(
	catalog *Catalog,
	basic LocalBasicGenerator,
	dedup *DedupWindow,
	rng *rand.Rand,
	logger *slog.Logger,
) (*WordGenerator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog cannot be nil", ErrInvalidConfig)
	}
	if basic == nil {
		return nil, fmt.Errorf("%w: basic generator cannot be nil", ErrInvalidConfig)
	}
	if dedup == nil {
		dedup = NewDedupWindow(DefaultDedupWindow)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WordGenerator{
		catalog: catalog,
		basic:   basic,
		dedup:   dedup,
		rng:     newLockedRand(rng),
		logger:  logger.With("component", "word_generator"),
	}, nil
}

// Generate returns one word problem for the age, or a basic problem if no
// unique word problem could be produced.
func (g *WordGenerator) Generate(age int) domain.ProblemDraft {
	for attempt := 0; attempt <= maxDedupRetries; attempt++ {
		draft, err := g.generate(age)
		if err != nil {
			g.logger.Warn("word problem generation failed, using basic problem",
				"error", err,
				"age", age)
			return g.basic.Generate(age)
		}

		if g.dedup.Add(draft.Question) {
			return draft
		}
		g.logger.Debug("duplicate word problem, retrying",
			"attempt", attempt+1,
			"age", age)
	}

	g.logger.Info("no unique word problem after retries, using basic problem",
		"age", age,
		"retries", maxDedupRetries)
	return g.basic.Generate(age)
}

// operandRange is the upper bound for word problem operands.
func operandRange(age int) int {
	switch {
	case age <= 7:
		return 20
	case age <= 9:
		return 100
	default:
		return 1000
	}
}

func (g *WordGenerator) generate(age int) (domain.ProblemDraft, error) {
	subs := domain.SubTypesForAge(age)
	sub := subs[g.rng.pick(len(subs))]

	candidates := g.catalog.templatesFor(sub, age)
	if len(candidates) == 0 {
		return domain.ProblemDraft{}, fmt.Errorf("%w: no templates for %s at age %d", ErrInvalidConfig, sub, age)
	}
	tmpl := candidates[g.rng.pick(len(candidates))]

	a, b, answer := g.operands(tmpl, operandRange(age))
	name := g.catalog.Names[g.rng.pick(len(g.catalog.Names))]

	question, err := tmpl.render(templateData{Name: name, A: a, B: b})
	if err != nil {
		return domain.ProblemDraft{}, fmt.Errorf("render %s template: %w", sub, err)
	}

	return domain.NewProblemDraft(question, answer, age, domain.ProblemTypeWordProblem, sub)
}

// operands draws A and B for the template and computes the answer.
func (g *WordGenerator) operands(t *WordTemplate, limit int) (int, int, float64) {
	bHi := min(10, limit)
	if t.BMax > 0 {
		bHi = min(bHi, t.BMax)
	}

	switch t.Formula {
	case FormulaProduct:
		b := t.B
		if b <= 0 {
			b = g.rng.intBetween(1, bHi)
		}
		a := g.rng.intBetween(1, max(1, limit/b))
		return a, b, float64(a * b)

	case FormulaDifference:
		a := g.rng.intBetween(1, limit)
		b := g.rng.intBetween(1, limit)
		if a < b {
			a, b = b, a
		}
		return a, b, float64(a - b)

	case FormulaQuotient:
		b := t.B
		if b <= 0 {
			b = g.rng.intBetween(2, max(2, bHi))
		}
		quotient := g.rng.intBetween(1, max(1, limit/b))
		return quotient * b, b, float64(quotient)

	default: // FormulaOperand
		a := g.rng.intBetween(1, limit)
		b := g.rng.intBetween(1, bHi)
		return a, b, float64(a)
	}
}
