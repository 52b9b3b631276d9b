// Package server exposes the diagram pipeline over HTTP.
//
// Two endpoints do real work: POST /api/v1/build runs the full pipeline on
// an uploaded inventory document, and POST /api/v1/layout recomputes
// positions for an uploaded diagram document. Health and version endpoints
// exist for load balancers and deploy tooling.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cloudweave/cloudweave/pkg/pipeline"
)

// Timeouts for the HTTP server. The handler timeout bounds a single layout
// solve; reads are bounded separately because inventory uploads can be
// large but must still arrive promptly.
const (
	DefaultAddr    = ":8080"
	handlerTimeout = 60 * time.Second
	readTimeout    = 30 * time.Second

	// maxBodyBytes bounds uploaded inventory documents. Real account
	// dumps run to a few megabytes; 32 MiB leaves generous headroom.
	maxBodyBytes = 32 << 20
)

// Server wires the pipeline runner into an HTTP surface.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	addr   string
	start  time.Time
}

// New creates a server around an existing runner. The runner's cache is
// shared across requests; the runner itself is safe for concurrent use.
func New(runner *pipeline.Runner, logger *log.Logger, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		logger: logger,
		addr:   addr,
		start:  time.Now(),
	}
}

// Router builds the chi router with middleware and all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handlerTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/build", s.handleBuild)
		r.Post("/layout", s.handleLayout)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully, letting in-flight layout solves finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request through the structured logger
// instead of chi's default stdlib logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
