// Package server is the HTTP host for swimlane.
//
// It stores diagrams, opens live editing sessions on them and accepts
// batches of pointer and keyboard input for a session, answering with the
// session snapshot. A browser client renders from the snapshot or fetches
// the session SVG directly.
//
//	GET    /healthz
//	GET    /metrics
//	GET    /diagrams
//	POST   /diagrams
//	GET    /diagrams/{id}
//	PUT    /diagrams/{id}
//	DELETE /diagrams/{id}
//	GET    /diagrams/{id}/dot.svg
//	POST   /diagrams/{id}/sessions
//	GET    /sessions/{sid}
//	POST   /sessions/{sid}/events
//	GET    /sessions/{sid}/svg
//	POST   /sessions/{sid}/save
//	DELETE /sessions/{sid}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/swimlane/pkg/observability"
	"github.com/matzehuels/swimlane/pkg/session"
	"github.com/matzehuels/swimlane/pkg/store"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

// Options configures a [Server].
type Options struct {
	Store    store.Store
	Sessions *session.Registry
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
	// NewID generates ids for diagrams created without one.
	NewID func() string
}

// Server routes HTTP requests to the store and the session registry.
type Server struct {
	store    store.Store
	sessions *session.Registry
	logger   *log.Logger
	newID    func() string
	router   chi.Router
}

// New creates a server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewRegistry(session.Options{Logger: opts.Logger})
	}
	s := &Server{
		store:    opts.Store,
		sessions: opts.Sessions,
		logger:   opts.Logger,
		newID:    opts.NewID,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.listDiagrams)
		r.Post("/", s.createDiagram)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDiagram)
			r.Put("/", s.putDiagram)
			r.Delete("/", s.deleteDiagram)
			r.Get("/dot.svg", s.diagramDOT)
			r.Post("/sessions", s.openSession)
		})
	})
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Post("/events", s.postEvents)
		r.Get("/svg", s.sessionSVG)
		r.Post("/save", s.saveSession)
		r.Delete("/", s.closeSession)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe reports each request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "elapsed", time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. The session registry is swept once a minute meanwhile.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go s.sessions.Run(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
