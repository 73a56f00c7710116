package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrLLMParse is returned when the model output cannot be decoded as JSON.
	ErrLLMParse = errors.New("llm output is not valid json")

	// ErrLLMSchema is returned when decoded output is missing required fields.
	ErrLLMSchema = errors.New("llm output does not match expected schema")
)

// ContentGenerator produces text completions for a system/user prompt pair.
type ContentGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeminiGenerator calls the Gemini API through the official genai client.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator backed by the Gemini API. The model
// defaults to gemini-2.0-flash and can be overridden with GEMINI_MODEL.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt and returns the flattened text of the first
// candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}

// ExtractJSON strips markdown code fences the model sometimes wraps around
// JSON output and trims surrounding whitespace.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// decodeStrict unmarshals model output into v, mapping decode failures to
// ErrLLMParse so callers can report a consistent upstream error.
func decodeStrict(raw string, v any) error {
	cleaned := ExtractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrLLMParse, err)
	}
	return nil
}
