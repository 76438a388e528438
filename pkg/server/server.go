// Package server exposes the dashboard over HTTP.
//
// It serves the rendered chart page, JSON views of the latest refresh
// snapshot, a raw proxy of the upstream feed and endpoints to trigger a
// refresh or recreate the chart.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
	"github.com/0xmhha/landing-dashboard/pkg/source"
)

// Dashboard is the refresh controller as seen by the server.
type Dashboard interface {
	Snapshot() refresh.Snapshot
	Trigger()
	Recreate() error
}

// Page provides the last rendered HTML page.
type Page interface {
	HTML() []byte
}

// Config contains server settings.
type Config struct {
	// Listen is the address to bind, e.g. ":8080".
	Listen string

	// ShutdownTimeout bounds the graceful shutdown.
	// Default: 5s.
	ShutdownTimeout time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	app      *fiber.App
	config   Config
	dash     Dashboard
	page     Page
	upstream source.Source
	logger   logger.Logger
}

// New creates a server. page and upstream may be nil; the routes relying
// on them then answer 503.
func New(cfg Config, dash Dashboard, page Page, upstream source.Source, log logger.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}

	s := &Server{
		config:   cfg,
		dash:     dash,
		page:     page,
		upstream: upstream,
		logger:   log.Component("server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "landing-dashboard",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New(), s.logRequests)
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.getPage)
	s.app.Get("/healthz", s.getHealth)

	api := s.app.Group("/api")
	api.Get("/series", s.getSeries)
	api.Get("/records", s.getRecords)
	api.Get("/summary", s.getSummary)
	api.Get("/proxy", s.getProxy)
	api.Post("/refresh", s.postRefresh)
	api.Post("/recreate", s.postRecreate)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.config.Listen)
	}()

	s.logger.Info("server started", "listen", s.config.Listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start))

	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
