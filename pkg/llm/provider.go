// Package llm provides LLM provider adapters for the relay.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Params are per-call generation parameters. Zero values mean provider
// defaults.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Provider defines the interface for language model backends.
type Provider interface {
	// Generate produces raw text for a prompt against one model.
	Generate(ctx context.Context, model, prompt string, p Params) (string, error)
	// ID identifies the provider in chain configuration and logs.
	ID() string
}

// CallOptions bound a single chain attempt: one wall-clock budget plus a
// small local retry allowance for transient failures.
type CallOptions struct {
	Timeout     time.Duration
	MaxAttempts int           // total attempts, including the first
	BaseBackoff time.Duration // doubled per retry
}

// DefaultCallOptions returns the options used when a chain spec leaves
// them unset.
func DefaultCallOptions() CallOptions {
	return CallOptions{
		Timeout:     15 * time.Second,
		MaxAttempts: 3,
		BaseBackoff: 500 * time.Millisecond,
	}
}

// Call invokes provider.Generate with a hard wall-clock timeout and
// transient-error retries.
//
// The timeout is a race between the call and a timer, not a cooperative
// cancellation: the network call runs in its own goroutine and its late
// result is discarded if the timer wins. Only KindTransient failures are
// retried, with exponential backoff; quota, timeout, and unclassified
// failures return immediately so the orchestrator can advance the chain.
func Call(ctx context.Context, provider Provider, model, prompt string, p Params, opts CallOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCallOptions().Timeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultCallOptions().MaxAttempts
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = DefaultCallOptions().BaseBackoff
	}

	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := opts.BaseBackoff << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", &CallError{Kind: KindTimeout, Provider: provider.ID(), Err: ctx.Err()}
			}
		}

		text, err := callOnce(ctx, provider, model, prompt, p, opts.Timeout)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err
		if KindOf(err) != KindTransient {
			return "", err
		}
	}
	return "", lastErr
}

func callOnce(ctx context.Context, provider Provider, model, prompt string, p Params, timeout time.Duration) (string, error) {
	type result struct {
		text string
		err  error
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)

	// Buffered so a late result does not leak the goroutine.
	ch := make(chan result, 1)
	go func() {
		defer cancel()
		text, err := provider.Generate(callCtx, model, prompt, p)
		ch <- result{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return "", wrap(provider.ID(), res.err)
		}
		return res.text, nil
	case <-timer.C:
		return "", &CallError{Kind: KindTimeout, Provider: provider.ID(), Err: context.DeadlineExceeded}
	case <-ctx.Done():
		return "", &CallError{Kind: KindTimeout, Provider: provider.ID(), Err: ctx.Err()}
	}
}

// wrap ensures every provider failure surfaces as a *CallError.
func wrap(providerID string, err error) error {
	var ce *CallError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &CallError{Kind: KindTimeout, Provider: providerID, Err: err}
	}
	return &CallError{Kind: KindOther, Provider: providerID, Err: err}
}
