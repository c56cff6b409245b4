// Package api exposes the relay's HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/threadwise/threadwise/pkg/cache"
	"github.com/threadwise/threadwise/pkg/ratelimit"
	"github.com/threadwise/threadwise/pkg/summarize"
	"github.com/threadwise/threadwise/pkg/types"
)

// Summarizer is the orchestrator surface the API depends on. Both
// operations are total: they degrade instead of failing.
type Summarizer interface {
	Summarize(ctx context.Context, thread types.ThreadContent) (types.SummaryResult, summarize.Meta)
	Reply(ctx context.Context, thread types.ThreadContent, summary types.SummaryResult) (string, summarize.Meta)
}

// Options configure the HTTP server.
type Options struct {
	MaxBodyBytes  int64
	MaxThreadLen  int
	AllowedOrigin string
}

// DefaultOptions returns options suitable for local development.
func DefaultOptions() Options {
	return Options{
		MaxBodyBytes:  64 * 1024,
		MaxThreadLen:  10000,
		AllowedOrigin: "*",
	}
}

// Server wires the orchestrator, rate limiter and response cache
// behind the relay's routes.
type Server struct {
	summarizer Summarizer
	limiter    *ratelimit.Limiter
	cache      *cache.Cache
	opts       Options
	started    time.Time
}

// NewServer creates a Server. The limiter and cache are owned by the
// caller and torn down with the process.
func NewServer(s Summarizer, limiter *ratelimit.Limiter, c *cache.Cache, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultOptions().MaxBodyBytes
	}
	if opts.MaxThreadLen <= 0 {
		opts.MaxThreadLen = DefaultOptions().MaxThreadLen
	}
	return &Server{
		summarizer: s,
		limiter:    limiter,
		cache:      c,
		opts:       opts,
		started:    time.Now(),
	}
}

// Handler builds the route table with logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/summarize", withJSON(s.handleSummarize))
	mux.HandleFunc("/api/reply", withJSON(s.handleReply))
	mux.HandleFunc("/api/clear-cache", withJSON(s.handleClearCache))
	mux.HandleFunc("/health", withJSON(s.handleHealth))
	mux.HandleFunc("/cache-info", withJSON(s.handleCacheInfo))

	return logRequest(s.withCORS(mux))
}

type summarizeRequest struct {
	ThreadContent *types.ThreadContent `json:"threadContent"`
}

type summarizeResponse struct {
	Success   bool                `json:"success"`
	Summary   types.SummaryResult `json:"summary"`
	Source    summarize.Meta      `json:"source"`
	FromCache bool                `json:"fromCache,omitempty"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	if code, err := s.checkRate(w, r); err != nil {
		return nil, code, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("request body too large or unreadable")
	}

	var req summarizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, http.StatusBadRequest, errors.New("malformed JSON body")
	}
	if req.ThreadContent == nil || strings.TrimSpace(req.ThreadContent.Text) == "" {
		return nil, http.StatusBadRequest, errors.New("threadContent.text is required")
	}
	if len(req.ThreadContent.Text) > s.opts.MaxThreadLen {
		return nil, http.StatusBadRequest, fmt.Errorf("threadContent.text exceeds %d characters", s.opts.MaxThreadLen)
	}

	key := cache.Key("/api/summarize", body)
	if cached, ok := s.cache.Get(key); ok {
		var resp summarizeResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			resp.FromCache = true
			return resp, http.StatusOK, nil
		}
	}

	summary, meta := s.summarizer.Summarize(r.Context(), *req.ThreadContent)
	resp := summarizeResponse{Success: true, Summary: summary, Source: meta}
	if encoded, err := json.Marshal(resp); err == nil {
		s.cache.Set(key, encoded)
	}
	return resp, http.StatusOK, nil
}

type replyRequest struct {
	ThreadContent *types.ThreadContent `json:"threadContent"`
	Summary       *types.SummaryResult `json:"summary"`
}

type replyResponse struct {
	Success   bool           `json:"success"`
	Reply     string         `json:"reply"`
	Source    summarize.Meta `json:"source"`
	FromCache bool           `json:"fromCache,omitempty"`
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	if code, err := s.checkRate(w, r); err != nil {
		return nil, code, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("request body too large or unreadable")
	}

	var req replyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// Covers summary.keyPoints being a non-list as well.
		return nil, http.StatusBadRequest, errors.New("malformed JSON body")
	}
	if req.ThreadContent == nil || strings.TrimSpace(req.ThreadContent.Text) == "" {
		return nil, http.StatusBadRequest, errors.New("threadContent.text is required")
	}
	if req.Summary == nil || req.Summary.KeyPoints == nil {
		return nil, http.StatusBadRequest, errors.New("summary.keyPoints is required and must be a list")
	}

	key := cache.Key("/api/reply", body)
	if cached, ok := s.cache.Get(key); ok {
		var resp replyResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			resp.FromCache = true
			return resp, http.StatusOK, nil
		}
	}

	reply, meta := s.summarizer.Reply(r.Context(), *req.ThreadContent, *req.Summary)
	resp := replyResponse{Success: true, Reply: reply, Source: meta}
	if encoded, err := json.Marshal(resp); err == nil {
		s.cache.Set(key, encoded)
	}
	return resp, http.StatusOK, nil
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	s.cache.Flush()
	return map[string]any{"success": true}, http.StatusOK, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	return map[string]any{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(s.started).Seconds()),
	}, http.StatusOK, nil
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) (any, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}
	return map[string]any{
		"entries":    s.cache.Len(),
		"ttlSeconds": int(s.cache.TTL().Seconds()),
	}, http.StatusOK, nil
}

// checkRate applies the per-client fixed-window limit. The client key
// comes from X-Forwarded-For when present, else the connection address.
func (s *Server) checkRate(w http.ResponseWriter, r *http.Request) (int, error) {
	key := clientKey(r) + "|" + r.URL.Path
	ok, retryAfter := s.limiter.Allow(key)
	if !ok {
		seconds := int(retryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		return http.StatusTooManyRequests, errors.New("rate limit exceeded, try again later")
	}
	return 0, nil
}

func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withJSON adapts a (payload, status, error) handler to http.HandlerFunc
// and turns panics into a generic 500 so provider-level details never
// leak to callers.
func withJSON(handler func(http.ResponseWriter, *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   "internal server error",
				})
			}
		}()

		payload, status, err := handler(w, r)
		if err != nil {
			writeJSON(w, status, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		writeJSON(w, status, payload)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AllowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.opts.AllowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
