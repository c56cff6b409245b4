package summarize

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/threadwise/threadwise/pkg/llm"
)

// CallSpec describes one attempt in the fallback chain. Specs are tried
// in order; retries happen only inside a spec, for transient errors.
type CallSpec struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	MaxAttempts int     `yaml:"max_attempts"`
}

// Params converts the spec's generation knobs to adapter parameters.
func (s CallSpec) Params() llm.Params {
	return llm.Params{
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		TopP:        s.TopP,
	}
}

// CallOptions converts the spec's timing knobs to adapter call options.
func (s CallSpec) CallOptions() llm.CallOptions {
	opts := llm.DefaultCallOptions()
	if s.TimeoutMs > 0 {
		opts.Timeout = time.Duration(s.TimeoutMs) * time.Millisecond
	}
	if s.MaxAttempts > 0 {
		opts.MaxAttempts = s.MaxAttempts
	}
	return opts
}

type chainFile struct {
	Chain []CallSpec `yaml:"chain"`
}

// DefaultChain returns the compiled-in fallback chain: Gemini first,
// then two hosted models on the inference provider.
func DefaultChain() []CallSpec {
	return []CallSpec{
		{Provider: "gemini", Model: "gemini-2.0-flash", MaxTokens: 512, Temperature: 0.4, TimeoutMs: 15000, MaxAttempts: 3},
		{Provider: "inference", Model: "mistralai/Mistral-7B-Instruct-v0.3", MaxTokens: 512, Temperature: 0.5, TimeoutMs: 20000, MaxAttempts: 2},
		{Provider: "inference", Model: "meta-llama/Llama-3.1-8B-Instruct", MaxTokens: 512, Temperature: 0.5, TimeoutMs: 20000, MaxAttempts: 2},
	}
}

// LoadChain reads an ordered chain from a YAML file.
func LoadChain(path string) ([]CallSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chain file: %w", err)
	}
	var cf chainFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse chain file: %w", err)
	}
	if len(cf.Chain) == 0 {
		return nil, fmt.Errorf("chain file %s has no entries", path)
	}
	for i, spec := range cf.Chain {
		if spec.Provider == "" || spec.Model == "" {
			return nil, fmt.Errorf("chain entry %d missing provider or model", i)
		}
	}
	return cf.Chain, nil
}
