// Package server exposes the imposition pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/kinds
//	POST   /v1/impose            JSON options → JSON result, or one raw artifact with ?format=
//	GET    /v1/presets
//	GET    /v1/presets/{name}
//	PUT    /v1/presets/{name}
//	DELETE /v1/presets/{name}
//	GET    /v1/nets
//	GET    /v1/nets/{name}.{dot|svg}
//
// Every response carries an X-Request-ID header and is logged once.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/laidout/impose/pkg/buildinfo"
	"github.com/laidout/impose/pkg/observability"
	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/store"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds request bodies; a net or signature is a few kilobytes.
const maxBodyBytes = 1 << 20

// Server holds the shared state of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// New creates a server. A nil store becomes an empty memory store and a nil
// logger becomes log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Handler returns the routed handler with request ids, access logging and
// panic recovery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/impose", s.handleImpose)

		r.Get("/presets", s.handleListPresets)
		r.Get("/presets/{name}", s.handleGetPreset)
		r.Put("/presets/{name}", s.handlePutPreset)
		r.Delete("/presets/{name}", s.handleDeletePreset)

		r.Get("/nets", s.handleListNets)
		r.Get("/nets/{file}", s.handleNet)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr, "version", buildinfo.Version)
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
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.Logger.Info("server stopped")
	return ctx.Err()
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID reuses a caller's X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFrom returns the request id stored by the middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Microsecond),
			"request_id", RequestIDFrom(r.Context()))
	})
}
