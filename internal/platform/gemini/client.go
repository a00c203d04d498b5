package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/edu-api/internal/generation"
	"google.golang.org/genai"
)

// contentClient is the single call the generator makes against the model.
type contentClient interface {
	GenerateJSON(ctx context.Context, model, prompt string, temperature float32) (string, error)
}

// genaiClient adapts *genai.Client to contentClient.
type genaiClient struct {
	client *genai.Client
}

func newGenAIClient(ctx context.Context, apiKey string) (*genaiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %w", generation.ErrInvalidConfig, err)
	}
	return &genaiClient{client: client}, nil
}

// GenerateJSON asks the model for a JSON reply and returns its concatenated text.
func (c *genaiClient) GenerateJSON(ctx context.Context, model, prompt string, temperature float32) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
