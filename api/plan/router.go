// Package plan exposes the planner over HTTP: demand file upload, candidate
// download, column group summaries and the run history.
package plan

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/logger"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/runlog"
)

// Options carries the request defaults taken from configuration.
type Options struct {
	Ingest         config.IngestConfig
	Summary        config.SummaryConfig
	MaxUploadBytes int64
	// Token protects GET /api/runs when set.
	Token string
}

// Handler serves the planning API.
type Handler struct {
	planners *planner.Factory
	store    runlog.Store
	opts     Options
	log      logger.Logger
}

// NewHandler returns a Handler. A nil store disables the run history.
func NewHandler(planners *planner.Factory, store runlog.Store, opts Options, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop{}
	}
	if store == nil {
		store = runlog.NopStore{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Handler{planners: planners, store: store, opts: opts, log: log}
}

// NewRouter mounts the API routes behind the given middlewares.
func NewRouter(h *Handler, mws ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(mws...)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/plan", h.Plan)
		r.Get("/combinations", h.Combinations)
		r.Post("/summary", h.Summary)
		r.With(bearerAuth(h.opts.Token)).Get("/runs", h.Runs)
	})
	return r
}

// bearerAuth requires "Authorization: Bearer <token>" when token is non-empty.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
