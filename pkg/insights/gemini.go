// Package insights turns a fetched activity into a natural-language summary
// via Google Gemini.
package insights

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

// Summarizer produces the narrative insight text for a workout.
type Summarizer interface {
	Summarize(ctx context.Context, m Metrics) (string, error)
}

// GeminiSummarizer generates summaries using Google Gemini.
type GeminiSummarizer struct {
	APIKey string
	Model  string
}

func NewGeminiSummarizer(apiKey string) *GeminiSummarizer {
	return &GeminiSummarizer{APIKey: apiKey}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, m Metrics) (string, error) {
	if s.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	modelName := s.Model
	if modelName == "" {
		modelName = defaultModel
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(500)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(m)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	// The first text block is the summary, used verbatim.
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}
