// Package config loads relay configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server binary needs at boot.
type Config struct {
	Addr string

	GoogleAPIKey     string
	InferenceAPIKey  string
	InferenceBaseURL string

	ChainPath string // optional YAML fallback-chain file

	RateQuota  int
	RateWindow time.Duration

	CacheTTL time.Duration

	MaxBodyBytes  int64
	MaxThreadLen  int
	AllowedOrigin string
}

// FromEnv builds a Config from environment variables, with defaults
// suitable for local development.
func FromEnv() Config {
	return Config{
		Addr:             envOr("ADDR", ":8080"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		InferenceAPIKey:  os.Getenv("INFERENCE_API_KEY"),
		InferenceBaseURL: envOr("INFERENCE_BASE_URL", "https://router.huggingface.co/v1"),
		ChainPath:        os.Getenv("CHAIN_FILE"),
		RateQuota:        envIntOr("RATE_QUOTA", 10),
		RateWindow:       envDurationOr("RATE_WINDOW", time.Hour),
		CacheTTL:         envDurationOr("CACHE_TTL", 30*time.Minute),
		MaxBodyBytes:     int64(envIntOr("MAX_BODY_BYTES", 64*1024)),
		MaxThreadLen:     envIntOr("MAX_THREAD_LEN", 10000),
		AllowedOrigin:    envOr("ALLOWED_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
