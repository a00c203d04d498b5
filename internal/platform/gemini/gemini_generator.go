package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/edu-api/internal/config"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/generation"
	"github.com/phrazzld/edu-api/internal/redact"
)

const defaultRequestTimeout = 30 * time.Second

// GeminiGenerator implements generation.RemoteGenerator and
// generation.RemoteExplainer using Google's Gemini API.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// promptTemplate is the parsed template for word problem prompts
	promptTemplate *template.Template

	// explainTemplate is the parsed template for explanation prompts
	explainTemplate *template.Template

	// client makes the model call
	client contentClient

	model       string
	temperature float32
	timeout     time.Duration
}

var (
	_ generation.RemoteGenerator = (*GeminiGenerator)(nil)
	_ generation.RemoteExplainer = (*GeminiGenerator)(nil)
)

// NewGeminiGenerator creates a GeminiGenerator talking to the Gemini API.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := newGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	return newGenerator(logger, cfg, client)
}

// newGenerator wires a generator around any contentClient.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, client contentClient) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := loadTemplate("word_problems.tmpl", cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}
	explainTemplate, err := loadTemplate("explain.tmpl", "")
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &GeminiGenerator{
		logger:          logger.With("component", "gemini_generator"),
		promptTemplate:  promptTemplate,
		explainTemplate: explainTemplate,
		client:          client,
		model:           cfg.ModelName,
		temperature:     float32(cfg.Temperature),
		timeout:         timeout,
	}, nil
}

// createPrompt renders the word problem prompt for the request.
func (g *GeminiGenerator) createPrompt(ctx context.Context, req generation.WordProblemRequest) (string, error) {
	if req.Count <= 0 {
		return "", ErrInvalidCount
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, newPromptData(req)); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := buf.String()
	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"prompt_length", len(prompt),
		"custom_rules", len(req.Rules))
	return prompt, nil
}

// call makes one time-bounded model call. No retries are attempted.
func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.client.GenerateJSON(callCtx, g.model, prompt, g.temperature)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: request timed out after %s: %w", generation.ErrGenerationFailed, g.timeout, err)
		}
		g.logger.WarnContext(ctx, "Gemini API call failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return "", err
	}

	g.logger.InfoContext(ctx, "Gemini API call successful",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(text))
	return text, nil
}

// GenerateWordProblems requests word problems and returns the candidates
// that pass validation. Parse failures yield an empty result together with
// generation.ErrInvalidResponse.
func (g *GeminiGenerator) GenerateWordProblems(
	ctx context.Context,
	req generation.WordProblemRequest,
) ([]domain.ProblemDraft, error) {
	prompt, err := g.createPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := g.call(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, req.Age, text)
}

// parseResponse decodes the reply and validates every candidate.
func (g *GeminiGenerator) parseResponse(ctx context.Context, age int, text string) ([]domain.ProblemDraft, error) {
	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil {
		return []domain.ProblemDraft{}, fmt.Errorf("%w: failed to parse JSON response: %w",
			generation.ErrInvalidResponse, err)
	}

	drafts := make([]domain.ProblemDraft, 0, len(parsed.Problems))
	for i, c := range parsed.Problems {
		d, err := generation.ValidateCandidate(age, c)
		if err != nil {
			g.logger.DebugContext(ctx, "Dropping invalid candidate problem",
				"index", i,
				"reason", err.Error())
			continue
		}
		drafts = append(drafts, d)
	}

	g.logger.InfoContext(ctx, "Parsed word problems from Gemini response",
		"received", len(parsed.Problems),
		"accepted", len(drafts))
	return drafts, nil
}

// Explain asks the model for a child-friendly explanation of a problem.
func (g *GeminiGenerator) Explain(
	ctx context.Context,
	req generation.ExplanationRequest,
) (*generation.Explanation, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	var buf bytes.Buffer
	data := explainPromptData{
		Age:      req.Age,
		Question: req.Question,
		Answer:   formatAnswer(req.Answer),
		Type:     string(req.Type),
	}
	if err := g.explainTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute explanation template: %w", err)
	}

	text, err := g.call(ctx, buf.String())
	if err != nil {
		return nil, err
	}

	var parsed ExplanationSchema
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse explanation: %w", generation.ErrInvalidResponse, err)
	}
	if strings.TrimSpace(parsed.Explanation) == "" {
		return nil, fmt.Errorf("%w: explanation missing", generation.ErrInvalidResponse)
	}
	if parsed.Tips == nil {
		parsed.Tips = []string{}
	}

	return &generation.Explanation{
		Explanation: parsed.Explanation,
		Tips:        parsed.Tips,
		Example:     parsed.Example,
	}, nil
}
