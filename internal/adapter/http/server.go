// Package http exposes the proxy's HTTP surface: one handler per NOAA data
// family under /api, plus health, readiness, and metrics endpoints. Every
// family handler walks the same path — method check, rate limit, identifier
// validation, cached upstream fetch, reshape — with the differences between
// families held as data in the endpoint table.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/cache"
	"github.com/yarimitsu/boatsafe-sub000/internal/observability"
	"github.com/yarimitsu/boatsafe-sub000/internal/ratelimit"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to the ReadinessChecker interface.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// rateLimitWindow is the fixed window every family limit counts against.
const rateLimitWindow = time.Hour

// Options wire the server's collaborators.
type Options struct {
	Addr    string
	Fetcher noaa.Fetcher
	Cache   cache.Cache

	// CacheEnabled false keeps the fetch path but zeroes every TTL.
	CacheEnabled bool

	LimitStore ratelimit.Store

	// StandardLimit covers the forecast families; ObservationLimit covers
	// the lighter observation and prediction families. Both are requests
	// per client per hour.
	StandardLimit    int
	ObservationLimit int

	TrustProxyHeaders bool

	Ready   ReadinessChecker
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Server hosts the proxy API.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *slog.Logger
	metrics    *observability.Metrics

	trustProxyHeaders bool
	standardLimiter   *ratelimit.Limiter
	observationLimit  *ratelimit.Limiter
}

// NewServer creates the proxy server and mounts all routes.
func NewServer(opts Options) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:            router,
		logger:            opts.Logger,
		metrics:           opts.Metrics,
		trustProxyHeaders: opts.TrustProxyHeaders,
		standardLimiter:   ratelimit.New(opts.LimitStore, int64(opts.StandardLimit), rateLimitWindow, opts.Logger),
		observationLimit:  ratelimit.New(opts.LimitStore, int64(opts.ObservationLimit), rateLimitWindow, opts.Logger),
	}

	router.Use(s.recoverMiddleware)
	router.NotFoundHandler = s.recoverMiddleware(http.HandlerFunc(handleNotFound))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.requestIDMiddleware, s.accessLogMiddleware)

	for _, ep := range s.newEndpoints(opts) {
		h := s.endpointHandler(ep)
		api.HandleFunc("/"+ep.name, h)
		if ep.validate != nil {
			api.HandleFunc("/"+ep.name+"/{id}", h)
		}
	}

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", handleReady(opts.Ready)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	writeError(w, http.StatusNotFound, "Not found")
}
