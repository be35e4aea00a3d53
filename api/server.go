// Package api provides the HTTP server for marketbrief.
//
// It exposes the aggregated market-data endpoint, a health check, a status
// endpoint and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/datasource"
	"github.com/seenimoa/marketbrief/internal/metrics"
	"github.com/seenimoa/marketbrief/pkg/models"
)

// FailureMessage is the only error text a caller sees for a 500.
const FailureMessage = "Failed to fetch all data"

// BriefBuilder produces the aggregated brief for one request.
type BriefBuilder interface {
	Build(ctx context.Context, opts datasource.Options) *models.Brief
}

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	agg     BriefBuilder
	log     zerolog.Logger
	metrics *metrics.Recorder
	version string
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// WithMetrics exposes rec at /metrics.
func WithMetrics(rec *metrics.Recorder) ServerOption {
	return func(s *Server) { s.metrics = rec }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, agg BriefBuilder, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		agg:     agg,
		log:     zerolog.Nop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if s.cfg != nil && len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/market-data", s.handleMarketData)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/market-data", s.handleMarketData)
		r.Get("/status", s.handleStatus)
	})

	return r
}

// requestLogger logs one line per request with zerolog.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// ── Handlers ──

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Time:    time.Now().UTC(),
	})
}

// marketQuery is the parsed query string of the market-data endpoint.
type marketQuery struct {
	opts   datasource.Options
	layout Layout
	debug  bool
}

func (s *Server) parseMarketQuery(r *http.Request) (marketQuery, error) {
	q := r.URL.Query()
	mq := marketQuery{layout: LayoutFlat}

	hours := 0
	if s.cfg != nil {
		hours = s.cfg.Brief.FreshnessHours
		mq.opts.SymbolSet = s.cfg.Brief.SymbolSet
	}
	if v := q.Get("freshnessHours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return mq, fmt.Errorf("freshnessHours must be a non-negative integer, got %q", v)
		}
		hours = n
	}
	mq.opts.FreshnessWindow = time.Duration(hours) * time.Hour

	if v := strings.TrimSpace(q.Get("symbolSet")); v != "" {
		mq.opts.SymbolSet = v
	}

	layout, err := ParseLayout(q.Get("layout"))
	if err != nil {
		return mq, err
	}
	mq.layout = layout

	if v := q.Get("debug"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return mq, fmt.Errorf("debug must be a boolean, got %q", v)
		}
		mq.debug = b
	}
	return mq, nil
}

// handleMarketData builds and returns the aggregated brief. Upstream
// failures are already folded into the brief; only a broken brief or a
// panic in the pipeline yields a 500.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	mq, err := s.parseMarketQuery(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	payload, err := s.buildPayload(r.Context(), mq)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("market data pipeline failed")
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: FailureMessage})
		return
	}

	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) buildPayload(ctx context.Context, mq marketQuery) (p *Payload, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()

	brief := s.agg.Build(ctx, mq.opts)
	p, err = Assemble(brief, mq.layout)
	if err != nil {
		return nil, err
	}
	if mq.debug {
		p.BriefID = brief.ID
		p.Sources = brief.Sources
	}
	return p, nil
}

// ── Helpers ──

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("failed to write JSON response")
	}
}
