// Package server exposes layout sessions over HTTP.
//
// A session is one [masonry.Session] held in memory: clients create it with an
// initial layout, re-run layouts against it, and ask it whether a new
// container size changes the grid. Every pass is persisted through a
// [store.Store] and can be fetched again by layout ID.
//
// # Routes
//
//	POST   /v1/sessions                   create a session and lay out
//	POST   /v1/sessions/{id}/layout       full re-layout
//	POST   /v1/sessions/{id}/resize       resize check, re-layout on change
//	DELETE /v1/sessions/{id}              drop a session and its layouts
//	GET    /v1/sessions/{id}/layouts      stored layouts, newest first
//	GET    /v1/layouts/{id}               one stored layout
//	GET    /healthz                       liveness
//
// Errors are JSON bodies of the form {"code": "...", "message": "..."}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brickwall/pkg/pipeline"
	"github.com/matzehuels/brickwall/pkg/store"
)

const (
	maxBodyBytes    = 8 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the layout API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	sessions *registry
	logger   *log.Logger
	router   chi.Router

	// defaults fills in container sizes missing from requests.
	defaults pipeline.Options
}

// New builds a server. A nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, defaults pipeline.Options) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	defaults.SetLayoutDefaults()
	defaults.Logger = logger

	s := &Server{
		runner:   runner,
		store:    st,
		sessions: newRegistry(),
		logger:   logger,
		defaults: defaults,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Post("/layout", s.handleLayout)
			r.Post("/resize", s.handleResize)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/layouts", s.handleListLayouts)
		})
		r.Get("/layouts/{id}", s.handleGetLayout)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
