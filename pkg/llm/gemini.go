package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using Google GenAI Gemini.
type GeminiProvider struct {
	client *genai.Client
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey string // If empty, uses GOOGLE_API_KEY env var
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// ID identifies the provider in chain configuration.
func (p *GeminiProvider) ID() string { return "gemini" }

// Generate produces a response from the named Gemini model.
func (p *GeminiProvider) Generate(ctx context.Context, model, prompt string, params Params) (string, error) {
	config := &genai.GenerateContentConfig{}
	if params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(params.MaxTokens)
	}
	if params.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(params.Temperature))
	}
	if params.TopP > 0 {
		config.TopP = genai.Ptr(float32(params.TopP))
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", &CallError{Kind: classifyGenAIError(err), Provider: p.ID(), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &CallError{Kind: KindOther, Provider: p.ID(), Err: fmt.Errorf("no response from gemini")}
	}

	// Extract text from response
	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result += part.Text
		}
	}
	if result == "" {
		return "", &CallError{Kind: KindOther, Provider: p.ID(), Err: fmt.Errorf("empty gemini response")}
	}

	return result, nil
}

func classifyGenAIError(err error) ErrorKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindOther
}
