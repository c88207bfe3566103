// Package server is a local stand-in for the research analysis service.
// It accepts uploads and answers with the placeholder result so the remote
// analysis path can be exercised without a model.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yildizm/xraylab/internal/logger"
	"github.com/yildizm/xraylab/internal/monitor"
	"github.com/yildizm/xraylab/internal/preview"
)

const (
	// DefaultAddr matches the client's default base URL
	DefaultAddr = ":8000"

	// DefaultMaxUploadBytes mirrors the preview size limit
	DefaultMaxUploadBytes = preview.DefaultMaxBytes

	shutdownTimeout = 5 * time.Second
)

// Options configures the stub server
type Options struct {
	Addr           string
	MaxUploadBytes int64
	Version        string
}

// Server wraps the echo instance
type Server struct {
	opts  Options
	echo  *echo.Echo
	log   *logger.Logger
	stats *monitor.Stats
	now   func() time.Time
}

// New builds a server with routes and middleware registered
func New(opts Options, log *logger.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		opts:  opts,
		echo:  echo.New(),
		log:   log.WithComponent("server"),
		stats: monitor.NewStats(),
		now:   time.Now,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.errorHandler

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	// multipart overhead on top of the file itself
	s.echo.Use(middleware.BodyLimit(fmt.Sprintf("%dB", opts.MaxUploadBytes+64*1024)))
	s.echo.Use(s.requestLogger)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/api/analyze", s.handleAnalyze)
	s.echo.GET("/api/stats", s.handleStats)
}

// Stats returns the live analysis counters
func (s *Server) Stats() *monitor.Stats {
	return s.stats
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.opts.Addr)
		errCh <- s.echo.Start(s.opts.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.InfoWithFields("shutting down", statsFields(s.stats.Snapshot()))
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := s.now()
		err := next(c)
		s.log.DebugWithFields("request", []logger.Field{
			logger.F("method", c.Request().Method),
			logger.F("path", c.Request().URL.Path),
			logger.Duration(s.now().Sub(start)),
		})
		return err
	}
}

func requestFields(c echo.Context, apiErr *APIError) []logger.Field {
	return []logger.Field{
		logger.F("method", c.Request().Method),
		logger.F("path", c.Request().URL.Path),
		logger.F("status", apiErr.Status),
		logger.F("code", apiErr.Code),
	}
}

func statsFields(snap monitor.Snapshot) []logger.Field {
	return []logger.Field{
		logger.F("requests", snap.Requests),
		logger.F("completed", snap.Completed),
		logger.F("rejected", snap.Rejected),
		logger.F("failed", snap.Failed),
	}
}
