// Command server runs the Threadwise relay: an HTTP service that
// summarizes social-media threads and drafts replies through a chain
// of LLM providers, with heuristic fallbacks, rate limiting and
// response caching.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/threadwise/threadwise/pkg/api"
	"github.com/threadwise/threadwise/pkg/cache"
	"github.com/threadwise/threadwise/pkg/config"
	"github.com/threadwise/threadwise/pkg/llm"
	"github.com/threadwise/threadwise/pkg/ratelimit"
	"github.com/threadwise/threadwise/pkg/summarize"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	cfg := config.FromEnv()

	addr := flag.String("addr", cfg.Addr, "Listen address")
	chainPath := flag.String("chain", cfg.ChainPath, "Fallback chain YAML file (optional)")
	flag.Parse()

	chain := summarize.DefaultChain()
	if *chainPath != "" {
		loaded, err := summarize.LoadChain(*chainPath)
		if err != nil {
			log.Fatalf("load chain: %v", err)
		}
		chain = loaded
	}

	ctx := context.Background()
	var providers []llm.Provider

	if cfg.GoogleAPIKey != "" {
		gemini, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{APIKey: cfg.GoogleAPIKey})
		if err != nil {
			log.Printf("gemini provider disabled: %v", err)
		} else {
			providers = append(providers, gemini)
		}
	}
	if cfg.InferenceAPIKey != "" {
		inference, err := llm.NewInferenceProvider(llm.InferenceConfig{
			APIKey:  cfg.InferenceAPIKey,
			BaseURL: cfg.InferenceBaseURL,
		})
		if err != nil {
			log.Printf("inference provider disabled: %v", err)
		} else {
			providers = append(providers, inference)
		}
	}
	if len(providers) == 0 {
		log.Printf("no providers configured, all requests will use heuristics")
	}

	orchestrator := summarize.New(chain, providers...)

	limiter := ratelimit.NewLimiter(cfg.RateQuota, cfg.RateWindow)
	responseCache := cache.New(cfg.CacheTTL)
	responseCache.StartJanitor(5 * time.Minute)
	defer responseCache.Stop()

	server := api.NewServer(orchestrator, limiter, responseCache, api.Options{
		MaxBodyBytes:  cfg.MaxBodyBytes,
		MaxThreadLen:  cfg.MaxThreadLen,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Relay listening on %s (%d chain entries, %d providers)", *addr, len(chain), len(providers))
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
