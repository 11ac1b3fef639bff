// Package web serves a generated map document for local preview.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ErrNoDocument is returned when the document to serve does not exist.
var ErrNoDocument = errors.New("document not found")

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	DocumentPath string
	Logger       *zap.Logger
	Runs         RunReader // optional; enables /runs
}

// Server is the HTTP server for the preview page.
type Server struct {
	router  chi.Router
	server  *http.Server
	docPath string
	logger  *zap.Logger
	runs    RunReader
}

// NewServer creates a new preview server. The document must exist at start
// time; it is re-read on every request so a new run shows up on reload.
func NewServer(cfg ServerConfig) (*Server, error) {
	if _, err := os.Stat(cfg.DocumentPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, cfg.DocumentPath)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		router:  chi.NewRouter(),
		docPath: cfg.DocumentPath,
		logger:  cfg.Logger,
		runs:    cfg.Runs,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.document)
	s.router.Get("/healthz", s.health)

	if s.runs != nil {
		s.router.Get("/runs", s.listRuns)
		s.router.Get("/runs/{id}", s.getRun)
	}
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.docPath)
	if err != nil {
		s.logger.Error("reading document", zap.String("path", s.docPath), zap.Error(err))
		http.Error(w, "Document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// requestLogger logs each request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving map", zap.String("url", "http://"+s.server.Addr+"/"))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
