// Package http exposes the tracker as a JSON API: SMS parsing, transaction
// CRUD, budget configuration and insight evaluation.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/insight"
	applog "kharcha/internal/log"
	"kharcha/internal/middleware/ratelimit"
	"kharcha/internal/middleware/trace"
	"kharcha/internal/sms"
	"kharcha/internal/store"
)

// Store is the persistence surface the server works against. Any backend
// implementing the store ports fits.
type Store interface {
	store.TransactionWriter
	store.TransactionLister
	store.TransactionDeleter
	store.BudgetReader
	store.BudgetWriter
}

// Options tune server behavior; zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	InsightCacheTTL    time.Duration
}

const insightCacheKey = "insights"

type Server struct {
	http.Server

	store  Store
	parser *sms.Parser
	engine *insight.Engine

	rateLimiter  *ratelimit.Limiter
	insightCache *cache.LRUCache[[]core.Insight]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, st Store, opts Options) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = ratelimit.DefaultConfig().RequestsPerMinute
	}
	if opts.InsightCacheTTL <= 0 {
		opts.InsightCacheTTL = 30 * time.Second
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		store:  st,
		parser: sms.New(),
		engine: insight.NewEngine(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		insightCache:     cache.NewLRUCache[[]core.Insight](8, opts.InsightCacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/sms/parse", s.handleParsePreview)
	mux.HandleFunc("POST /api/sms", s.handleParseAndSave)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budget", s.handleReadBudget)
	mux.HandleFunc("PUT /api/budget", s.handleWriteBudget)

	mux.HandleFunc("GET /api/insights", s.handleInsights)

	// Middleware chain: trace first so every later log line carries the
	// request id.
	traceMW := trace.NewMiddleware(clientIP)
	logMW := applog.Middleware(applog.New(applog.Config{Component: applog.ComponentHTTP}))
	limitMW := s.rateLimiter.Middleware(clientIP)

	s.Handler = traceMW.Middleware(logMW(limitMW(mux)))

	go s.startCacheCleanup()

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// invalidateInsights drops the cached evaluation after any write that can
// change it.
func (s *Server) invalidateInsights() {
	s.insightCache.Delete(insightCacheKey)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.insightCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
