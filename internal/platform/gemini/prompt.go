package gemini

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var templateFuncs = template.FuncMap{
	"join": func(items []string, sep string) string { return strings.Join(items, sep) },
}

// loadTemplate parses the template at path, or the embedded file when path is empty.
func loadTemplate(name, path string) (*template.Template, error) {
	var content []byte
	var err error
	if path != "" {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %w",
				generation.ErrInvalidConfig, path, err)
		}
	} else {
		content, err = promptFS.ReadFile("prompts/" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: missing embedded prompt %s: %w", generation.ErrInvalidConfig, name, err)
		}
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %w", generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

func newPromptData(req generation.WordProblemRequest) promptData {
	cal := domain.Calibrate(req.Age)
	lo, hi := generation.AnswerBounds(req.Age)

	ops := make([]string, 0, len(cal.Operations))
	for _, op := range cal.Operations {
		ops = append(ops, string(op))
	}

	subs := domain.SubTypesForAge(req.Age)
	subNames := make([]string, 0, len(subs))
	for _, s := range subs {
		subNames = append(subNames, string(s))
	}

	return promptData{
		Age:           req.Age,
		Count:         req.Count,
		Rules:         req.Rules,
		MinAnswer:     lo,
		MaxAnswer:     hi,
		Operations:    ops,
		SubTypes:      subNames,
		AllowDecimals: req.Age >= 10,
	}
}

func formatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stripCodeFences removes a surrounding ``` or ```json fence.
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
