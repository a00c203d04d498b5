package generation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phrazzld/edu-api/internal/domain"
)

// Candidate is a problem as returned by an external source, before validation.
// Answer holds whatever JSON value was supplied.
type Candidate struct {
	Question string          `json:"question"`
	Answer   json.RawMessage `json:"answer"`
	Type     string          `json:"type"`
	SubType  string          `json:"sub_type"`
}

// AnswerBounds returns the accepted answer range for externally sourced problems.
func AnswerBounds(age int) (lo, hi float64) {
	switch {
	case age <= 6:
		return 0, 20
	case age == 7:
		return 0, 50
	case age <= 9:
		return 0, 100
	default:
		return 0, 10000
	}
}

// ParseNumber parses a numeric literal. It accepts a decimal comma ("2,5")
// and a slash fraction ("3/4").
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	s = strings.ReplaceAll(s, ",", ".")

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := parseFinite(num)
		if err != nil {
			return 0, err
		}
		d, err := parseFinite(den)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("%w: zero denominator in %q", ErrInvalidNumber, s)
		}
		return n / d, nil
	}

	return parseFinite(s)
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidNumber, s)
	}
	return v, nil
}

// ParseAnswerJSON decodes a JSON number or numeric string.
// The second return value reports whether the value was a fraction literal.
func ParseAnswerJSON(raw json.RawMessage) (float64, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, fmt.Errorf("%w: missing", ErrInvalidNumber)
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, false, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false, fmt.Errorf("%w: %s", ErrInvalidNumber, string(raw))
	}
	v, err := ParseNumber(s)
	if err != nil {
		return 0, false, err
	}
	return v, strings.Contains(s, "/"), nil
}

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCandidateRejected, fmt.Sprintf(format, args...))
}

// ValidateCandidate checks an externally sourced word problem against the
// age rules and converts it into a draft.
func ValidateCandidate(age int, c Candidate) (domain.ProblemDraft, error) {
	if strings.TrimSpace(c.Question) == "" {
		return domain.ProblemDraft{}, reject("missing question")
	}
	if len(c.Answer) == 0 {
		return domain.ProblemDraft{}, reject("missing answer")
	}
	if c.Type == "" {
		return domain.ProblemDraft{}, reject("missing type")
	}
	if c.SubType == "" {
		return domain.ProblemDraft{}, reject("missing sub_type")
	}

	if domain.ProblemType(c.Type) != domain.ProblemTypeWordProblem {
		return domain.ProblemDraft{}, reject("type %q is not word_problem", c.Type)
	}

	answer, fraction, err := ParseAnswerJSON(c.Answer)
	if err != nil {
		return domain.ProblemDraft{}, reject("answer not numeric: %v", err)
	}
	if fraction && age < 10 {
		return domain.ProblemDraft{}, reject("fraction answer not allowed for age %d", age)
	}

	lo, hi := AnswerBounds(age)
	if answer < lo || answer > hi {
		return domain.ProblemDraft{}, reject("answer %v outside [%v,%v] for age %d", answer, lo, hi, age)
	}

	if !fraction && !hasAtMostTwoDecimals(answer) {
		return domain.ProblemDraft{}, reject("answer %v has more than two decimals", answer)
	}
	if age < 10 && answer != math.Trunc(answer) {
		return domain.ProblemDraft{}, reject("answer %v must be whole for age %d", answer, age)
	}

	sub := domain.SubType(c.SubType)
	if !domain.SubTypeAllowed(age, sub) {
		return domain.ProblemDraft{}, reject("sub_type %q not allowed for age %d", c.SubType, age)
	}

	draft, err := domain.NewProblemDraft(c.Question, answer, age, domain.ProblemTypeWordProblem, sub)
	if err != nil {
		return domain.ProblemDraft{}, reject("%v", err)
	}
	return draft, nil
}

func hasAtMostTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
