package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudweave/cloudweave/pkg/buildinfo"
	"github.com/cloudweave/cloudweave/pkg/errors"
	pkgio "github.com/cloudweave/cloudweave/pkg/io"
	"github.com/cloudweave/cloudweave/pkg/layout"
	"github.com/cloudweave/cloudweave/pkg/pipeline"
)

// buildResponse is the envelope for build and layout results.
type buildResponse struct {
	ImportID string             `json:"import_id"`
	Shape    string             `json:"shape,omitempty"`
	Diagram  *pkgio.Document    `json:"diagram"`
	Warnings []errors.Warning   `json:"warnings,omitempty"`
	Cache    pipeline.CacheInfo `json:"cache"`
}

// errorResponse is the envelope for failures. Code carries the machine
// readable error code for programmatic handling.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleBuild runs the full pipeline on an uploaded inventory document.
// Layout options arrive as query parameters so the body stays the raw
// inventory, exactly as exported from the cloud account.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	input, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "read request body: %v", err))
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), input, opts)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	doc := pkgio.NewDocument(result.Graph, r.URL.Query().Get("name"), string(opts.Strategy))
	s.writeJSON(w, http.StatusOK, buildResponse{
		ImportID: result.ImportID.String(),
		Shape:    string(result.Shape),
		Diagram:  doc,
		Warnings: result.Warnings,
		Cache:    result.CacheInfo,
	})
}

// handleLayout recomputes positions for an uploaded diagram document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	input, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "read request body: %v", err))
		return
	}

	doc, err := pkgio.Decode(input)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Relayout(r.Context(), &doc.Graph, opts)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	out := pkgio.NewDocument(result.Graph, doc.Name, string(opts.Strategy))
	s.writeJSON(w, http.StatusOK, buildResponse{
		ImportID: result.ImportID.String(),
		Diagram:  out,
		Warnings: result.Warnings,
		Cache:    result.CacheInfo,
	})
}

// optionsFromQuery reads pipeline options from query parameters. Unset
// parameters fall through to the pipeline's own defaulting.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Strategy:      layout.Strategy(q.Get("strategy")),
		DefaultRegion: q.Get("region"),
		SkipCache:     q.Get("no_cache") == "true",
	}
	if opts.Strategy != "" {
		if err := pipeline.ValidateStrategy(opts.Strategy); err != nil {
			return opts, err
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("columns"); v != "" {
		columns, err := strconv.Atoi(v)
		if err != nil || columns <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid columns %q", v)
		}
		opts.Columns = columns
	}
	return opts, nil
}

// statusFor maps pipeline error codes onto HTTP statuses. Unknown codes
// read as internal errors.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStrategy, errors.ErrCodeInvalidGraph,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "err", err)
	s.writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

// Health check handlers for load balancers.

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "cloudweave",
		"version": buildinfo.Version,
		"uptime":  time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReadiness checks the cache backend, the only external dependency.
// A broken cache degrades to recomputation, so readiness reports it as a
// warning field rather than failing the probe.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ready"}
	if _, err := s.runner.Cache.Stats(r.Context()); err != nil {
		body["cache"] = err.Error()
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}
