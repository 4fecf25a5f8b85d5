// Package server exposes declared models over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/loamenum/pkg/core"
	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/schema"
)

// Config wires a Server.
type Config struct {
	Registry   *schema.Registry
	Repository core.Repository
	Logger     *slog.Logger
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
}

// Server serves the read and bang endpoints of a registry.
type Server struct {
	registry *schema.Registry
	repo     core.Repository
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// New creates a Server. A nil logger falls back to slog.Default().
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: cfg.Registry,
		repo:     cfg.Repository,
		logger:   logger,
		gatherer: cfg.Gatherer,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/models", s.listModels)
	r.Route("/models/{model}", func(r chi.Router) {
		r.Get("/", s.describeModel)
		r.Get("/scopes/{scope}", s.applyScope)
		r.Get("/documents/{id}", s.getDocument)
		r.Post("/documents/{id}/{member}", s.bang)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*schema.Entry, bool) {
	name := chi.URLParam(r, "model")
	e, ok := s.registry.Model(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown model "+name)
		return nil, false
	}
	return e, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrUnknownMember):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"errors": failures(verr.Failures),
		})
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
