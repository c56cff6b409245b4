// Package summarize sequences LLM provider attempts for a thread and
// degrades to local heuristics when every attempt fails.
package summarize

import (
	"context"
	"log"

	"github.com/threadwise/threadwise/pkg/heuristic"
	"github.com/threadwise/threadwise/pkg/llm"
	"github.com/threadwise/threadwise/pkg/parse"
	"github.com/threadwise/threadwise/pkg/types"
)

// ReplyMaxLen is a hard safety cap on generated replies. The ~120-char
// budget itself is a prompt-only soft constraint.
const ReplyMaxLen = 280

// Meta reports which chain rung produced a result.
type Meta struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Fallback bool   `json:"fallback"`
}

// Orchestrator walks an ordered chain of provider call specs. It never
// surfaces a provider failure: summarize falls back to text heuristics
// and reply to a canned sentence.
type Orchestrator struct {
	chain     []CallSpec
	providers map[string]llm.Provider
}

// New creates an orchestrator over the given chain and providers.
// Chain entries naming an absent provider are skipped at call time.
func New(chain []CallSpec, providers ...llm.Provider) *Orchestrator {
	byID := make(map[string]llm.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID()] = p
	}
	return &Orchestrator{chain: chain, providers: byID}
}

// Summarize produces a structured summary for the thread. On total
// provider failure it returns a heuristic summary; it never errors.
func (o *Orchestrator) Summarize(ctx context.Context, thread types.ThreadContent) (types.SummaryResult, Meta) {
	prompt := buildSummaryPrompt(thread)

	raw, meta, ok := o.generate(ctx, prompt)
	if !ok {
		return heuristic.Summary(thread), Meta{Provider: "heuristic", Fallback: true}
	}

	result := parse.Summary(raw)
	result.WordCount = thread.WordCount()
	if result.TimeToRead == 0 {
		result.TimeToRead = heuristic.ReadingTime(thread.Text)
	}
	return result, meta
}

// Reply drafts a short reply to the thread. On total provider failure
// it returns a canned sentence; it never errors.
func (o *Orchestrator) Reply(ctx context.Context, thread types.ThreadContent, summary types.SummaryResult) (string, Meta) {
	prompt := buildReplyPrompt(thread, summary)

	raw, meta, ok := o.generate(ctx, prompt)
	if !ok {
		return heuristic.Reply(thread), Meta{Provider: "heuristic", Fallback: true}
	}
	if len(raw) > ReplyMaxLen {
		raw = raw[:ReplyMaxLen]
	}
	return raw, meta
}

// generate walks the chain until one spec succeeds. Transient failures
// are retried inside llm.Call; every failure kind advances the chain.
func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, Meta, bool) {
	for _, spec := range o.chain {
		provider, ok := o.providers[spec.Provider]
		if !ok {
			log.Printf("chain: provider %q not configured, skipping", spec.Provider)
			continue
		}

		text, err := llm.Call(ctx, provider, spec.Model, prompt, spec.Params(), spec.CallOptions())
		if err != nil {
			log.Printf("chain: %s/%s failed (%s): %v", spec.Provider, spec.Model, llm.KindOf(err), err)
			continue
		}
		return text, Meta{Provider: spec.Provider, Model: spec.Model}, true
	}
	log.Printf("chain: all provider attempts exhausted, using heuristics")
	return "", Meta{}, false
}
