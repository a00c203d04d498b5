package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/platform/logger"
	"github.com/phrazzld/edu-api/internal/redact"
)

// ExplanationService explains problems to children
type ExplanationService interface {
	// Explain never fails for a well-formed request; remote failures fall
	// back to a generic explanation.
	Explain(ctx context.Context, req generation.ExplanationRequest) (*generation.Explanation, error)
}

// operatorRule is a canned explanation for one arithmetic operator.
type operatorRule struct {
	verb        string
	explanation string
	tips        []string
	example     string
}

// operatorOrder is the scan order used to find a question's operator.
var operatorOrder = []string{"+", "-", "×", "*", "÷", "/"}

var operatorRules = map[string]operatorRule{
	"+": {
		verb:        "legger sammen",
		explanation: "Når vi legger sammen, starter vi med det første tallet og teller videre like mange steg som det andre tallet.",
		tips: []string{
			"Start med det største tallet og tell videre.",
			"Bruk fingrene eller tegn streker hvis det hjelper.",
		},
		example: "3 + 2 = 5",
	},
	"-": {
		verb:        "trekker fra",
		explanation: "Når vi trekker fra, starter vi med det første tallet og teller bakover like mange steg som det andre tallet.",
		tips: []string{
			"Tell bakover fra det første tallet.",
			"Sjekk svaret ved å legge det andre tallet til svaret ditt.",
		},
		example: "7 - 4 = 3",
	},
	"×": {
		verb:        "ganger",
		explanation: "Å gange er å legge sammen det samme tallet mange ganger. 4 × 3 betyr 4 + 4 + 4.",
		tips: []string{
			"Tenk på gangetabellen.",
			"Det spiller ingen rolle hvilken rekkefølge du ganger i.",
		},
		example: "4 × 3 = 12",
	},
	"÷": {
		verb:        "deler",
		explanation: "Å dele er å fordele likt. 12 ÷ 3 betyr at vi deler 12 i 3 like store grupper.",
		tips: []string{
			"Spør deg selv: hvilket tall ganger divisoren blir dividenden?",
			"Sjekk svaret ved å gange det med tallet du delte på.",
		},
		example: "12 ÷ 3 = 4",
	},
}

func init() {
	operatorRules["*"] = operatorRules["×"]
	operatorRules["/"] = operatorRules["÷"]
}

// operandsPattern extracts "a op b" from a basic question.
var operandsPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([+\-×*÷/])\s*(\d+(?:[.,]\d+)?)`)

var genericExplanation = generation.Explanation{
	Explanation: "La oss løse oppgaven steg for steg. Les oppgaven nøye og finn tallene du trenger. " +
		"Tenk så på hvilken regneart oppgaven spør om, og regn ut svaret.",
	Tips: []string{
		"Les oppgaven en gang til før du regner.",
		"Skriv ned tallene du finner i oppgaven.",
		"Sjekk om svaret ditt virker rimelig.",
	},
}

// explanationServiceImpl implements the ExplanationService interface
type explanationServiceImpl struct {
	remote generation.RemoteExplainer
	logger *slog.Logger
}

// NewExplanationService creates a new ExplanationService.
// A nil remote behaves like generation.DisabledRemote.
func NewExplanationService(remote generation.RemoteExplainer, logger *slog.Logger) ExplanationService {
	if remote == nil {
		remote = generation.DisabledRemote{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &explanationServiceImpl{
		remote: remote,
		logger: logger.With("component", "explanation_service"),
	}
}

// Explain implements ExplanationService.Explain
func (s *explanationServiceImpl) Explain(
	ctx context.Context,
	req generation.ExplanationRequest,
) (*generation.Explanation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.Type == domain.ProblemTypeBasic {
		if exp, ok := explainLocally(req); ok {
			return exp, nil
		}
		log.Debug("no operator found in basic question, asking remote", "type", req.Type)
	}

	exp, err := s.remote.Explain(ctx, req)
	if err != nil || exp == nil || strings.TrimSpace(exp.Explanation) == "" {
		if err != nil {
			log.Warn("remote explanation failed, using generic explanation",
				"error", redact.Error(err),
				"type", req.Type)
		}
		return fallbackExplanation(), nil
	}
	if exp.Tips == nil {
		exp.Tips = []string{}
	}
	return exp, nil
}

// explainLocally builds an explanation from the operator rule table.
func explainLocally(req generation.ExplanationRequest) (*generation.Explanation, bool) {
	op, ok := findOperator(req.Question)
	if !ok {
		return nil, false
	}
	rule := operatorRules[op]

	example := rule.example
	text := rule.explanation
	if m := operandsPattern.FindStringSubmatch(req.Question); m != nil {
		example = m[1] + " " + m[2] + " " + m[3] + " = " + domain.FormatAnswer(req.Answer)
		text = "I denne oppgaven " + rule.verb + " vi " + m[1] + " og " + m[3] + ". " + rule.explanation
	}

	tips := make([]string, len(rule.tips))
	copy(tips, rule.tips)

	return &generation.Explanation{
		Explanation: text,
		Tips:        tips,
		Example:     &example,
	}, true
}

// findOperator returns the first operator of operatorOrder contained in the question.
func findOperator(question string) (string, bool) {
	for _, op := range operatorOrder {
		if strings.Contains(question, op) {
			return op, true
		}
	}
	return "", false
}

func fallbackExplanation() *generation.Explanation {
	tips := make([]string, len(genericExplanation.Tips))
	copy(tips, genericExplanation.Tips)
	return &generation.Explanation{
		Explanation: genericExplanation.Explanation,
		Tips:        tips,
	}
}
