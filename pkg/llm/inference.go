package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InferenceProvider implements Provider against an OpenAI-compatible
// chat-completions endpoint. It covers hosted-inference services that
// expose many models behind one API.
type InferenceProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// InferenceConfig holds configuration for the inference provider.
type InferenceConfig struct {
	APIKey  string
	BaseURL string // e.g. "https://api-inference.example.com/v1"
}

// NewInferenceProvider creates a provider for a hosted-inference API.
func NewInferenceProvider(cfg InferenceConfig) (*InferenceProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("inference API key not set")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("inference base URL not set")
	}
	return &InferenceProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ID identifies the provider in chain configuration.
func (p *InferenceProvider) ID() string { return "inference" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate produces a response from the named hosted model.
func (p *InferenceProvider) Generate(ctx context.Context, model, prompt string, params Params) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &CallError{Kind: KindOther, Provider: p.ID(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		kind := KindTransient
		if ctx.Err() != nil {
			kind = KindTimeout
		}
		return "", &CallError{Kind: kind, Provider: p.ID(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("inference API %d: %s", resp.StatusCode, string(b))
		return "", &CallError{Kind: classifyStatus(resp.StatusCode), Provider: p.ID(), Err: err}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &CallError{Kind: KindOther, Provider: p.ID(), Err: err}
	}
	if len(cr.Choices) == 0 {
		return "", &CallError{Kind: KindOther, Provider: p.ID(), Err: fmt.Errorf("empty inference response")}
	}
	return cr.Choices[0].Message.Content, nil
}
