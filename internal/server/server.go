// Package server exposes the loaded dataset over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/KaramelBytes/sosdash/internal/middleware"
	"github.com/KaramelBytes/sosdash/internal/snapshot"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config controls the HTTP server.
type Config struct {
	Addr             string
	MaxUploadMB      int64
	AllowedOrigins   []string
	UploadsPerMinute int
}

// Server serves one snapshot store.
type Server struct {
	cfg   Config
	store *snapshot.Store
}

// New returns a server over store.
func New(cfg Config, store *snapshot.Store) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.MaxUploadMB < 1 {
		cfg.MaxUploadMB = 25
	}
	return &Server{cfg: cfg, store: store}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(s.cfg.AllowedOrigins))

	r.Get("/healthz", s.handleHealth)
	r.Mount("/api", s.apiRoutes())
	return r
}

func (s *Server) apiRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/status", s.handleStatus)
	r.With(middleware.RateLimit(middleware.UploadLimiter(s.cfg.UploadsPerMinute))).
		Post("/upload", s.handleUpload)

	r.Get("/summary", s.handleSummary)
	r.Get("/columns", s.handleColumns)
	r.Get("/filters", s.handleFilters)
	r.Get("/freq", s.handleFreq)
	r.Get("/crosstab", s.handleCrosstab)
	r.Get("/popstat", s.handlePopStat)
	r.Get("/ci", s.handleCI)
	r.Get("/activity", s.handleActivity)
	r.Get("/events", s.handleEvents)
	r.Get("/map", s.handleMap)
	r.Get("/survey", s.handleSurvey)
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("[server] listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("[server] shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, errorBody{Error: msg})
}
