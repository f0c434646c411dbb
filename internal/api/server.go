// Package api provides the versefind REST and WebSocket API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FocuswithJustin/versefind/core/scripture"
	"github.com/FocuswithJustin/versefind/internal/cache"
	"github.com/FocuswithJustin/versefind/internal/config"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// Server serves the API over a matcher and an optional reference index.
type Server struct {
	cfg     config.ServerConfig
	version string
	matcher *scripture.Matcher
	index   *refindex.Index // nil when no index is configured
	lookups *cache.TTLCache[string, []refindex.Entry]
	ws      *liveDetect
	limiter *RateLimiter
	started time.Time
}

// NewServer creates a Server. idx may be nil, in which case the
// /references and /index endpoints answer 503.
func NewServer(cfg config.ServerConfig, version string, idx *refindex.Index) *Server {
	s := &Server{
		cfg:     cfg,
		version: version,
		matcher: scripture.DefaultMatcher(),
		index:   idx,
		lookups: cache.NewBounded[string, []refindex.Entry](cfg.CacheTTL, 1024),
		started: time.Now(),
	}
	s.ws = newLiveDetect(s)
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/detect", s.handleDetect)
	mux.HandleFunc("/normalize", s.handleNormalize)
	mux.HandleFunc("/format/display", s.handleFormatDisplay)
	mux.HandleFunc("/format/api", s.handleFormatAPI)
	mux.HandleFunc("/books", s.handleBooks)
	mux.HandleFunc("/references", s.handleReferences)
	mux.HandleFunc("/index/stats", s.handleIndexStats)
	mux.HandleFunc("/ws", s.ws.handle)

	return mux
}

// Handler returns the routes wrapped in the middleware chain:
// logging, CORS, rate limiting, security headers.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = securityHeaders(s.setupRoutes())

	if s.cfg.RateLimitRequests > 0 {
		rl := NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: s.cfg.RateLimitRequests,
			BurstSize:         s.cfg.RateLimitBurst,
		})
		handler = rl.Middleware(handler)
		if s.limiter != nil {
			s.limiter.Stop()
		}
		s.limiter = rl
		logging.Info("rate limiting enabled",
			"requests_per_minute", s.cfg.RateLimitRequests,
			"burst_size", rl.config.BurstSize)
	}

	handler = corsMiddleware(s.cfg.AllowedOrigins, handler)
	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	}

	return logging.CombinedMiddleware(handler)
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"websocket_path", "/ws",
		"index", s.index != nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logging.Info("server stopped")
		return nil
	}
}

// InvalidateLookups drops cached /references results, e.g. after the
// index was rebuilt.
func (s *Server) InvalidateLookups() {
	s.lookups.Invalidate()
}

// Close disconnects live-detection clients and stops background work.
func (s *Server) Close() {
	s.ws.closeAll()
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
