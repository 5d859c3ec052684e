// Package rest serves the read-only HTTP API over plays and matches.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ewilliams-labs/trackmap/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	defaultHistoryWindow = time.Hour
	maxHistoryWindow     = 24 * time.Hour
	requestTimeout       = 30 * time.Second
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	history       ports.HistoryReader
	clock         clockwork.Clock
	defaultWindow time.Duration
	origins       []string
	router        chi.Router
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock sets the clock used for default history windows.
func WithClock(clock clockwork.Clock) Option {
	return func(h *Handler) { h.clock = clock }
}

// WithDefaultWindow sets the history window used when no start time is given.
func WithDefaultWindow(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxHistoryWindow {
			h.defaultWindow = d
		}
	}
}

// WithAllowedOrigins sets the CORS origin patterns allowed to read the API.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) { h.origins = origins }
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(history ports.HistoryReader, opts ...Option) *Handler {
	h := &Handler{
		history:       history,
		clock:         clockwork.NewRealClock(),
		defaultWindow: defaultHistoryWindow,
		router:        chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.NoCache)
	h.router.Use(middleware.Timeout(requestTimeout))
	h.router.Use(requestLogger)
	if len(h.origins) > 0 {
		h.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.origins,
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Accept"},
		}))
	}

	h.router.Get("/health", h.HealthCheck)
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/history/{market}", h.GetHistory)
		r.Get("/unmatched/{market}", h.GetUnmatched)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("rest: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeErrorWithCode(w, status, message, "")
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
