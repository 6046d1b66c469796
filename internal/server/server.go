package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/store"
)

// maxBodyBytes bounds PATCH request bodies.
const maxBodyBytes = 1 << 20

// Server serves a synchronized store.
type Server struct {
	store   *store.Synchronized
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New creates a Server over st.
func New(st *store.Synchronized, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/attributes", s.listAttributes)
	r.Patch("/attributes", s.setAttributes)
	r.Get("/attributes/{name}", s.getAttribute)
	r.Delete("/attributes/{name}", s.removeAttribute)
	r.Get("/order", s.order)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, logger := ctxlog.With(ctxlog.WithLogger(r.Context(), s.logger),
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", middleware.GetReqID(r.Context()),
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logger.Debug("Request served.", "status", ww.Status(), "took", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) listAttributes(w http.ResponseWriter, r *http.Request) {
	names, statuses := s.store.Entries()
	views := make([]AttributeView, 0, len(names))
	for _, name := range names {
		view, err := NewAttributeView(name, statuses[name])
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		views = append(views, view)
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) getAttribute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, err := s.store.Get(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := NewAttributeView(name, store.Status{State: store.StatePresent, Value: v})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// setAttributes applies the request body as one batch. With ?atomic=true a
// failing batch leaves the store untouched.
func (s *Server) setAttributes(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeBadRequest(w, fmt.Errorf("failed to read body: %w", err))
		return
	}
	assignments, err := config.DecodeJSONValues(body)
	if err != nil {
		s.writeBadRequest(w, err)
		return
	}

	atomic := false
	if raw := r.URL.Query().Get("atomic"); raw != "" {
		if atomic, err = strconv.ParseBool(raw); err != nil {
			s.writeBadRequest(w, fmt.Errorf("invalid atomic flag: %w", err))
			return
		}
	}

	if atomic {
		err = s.store.SetAtomic(assignments)
	} else {
		err = s.store.Set(assignments)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.listAttributes(w, r)
}

func (s *Server) removeAttribute(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) order(w http.ResponseWriter, r *http.Request) {
	order := s.store.RecalcOrder(r.URL.Query()["seed"]...)
	if order == nil {
		order = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"order": order})
}
