// Package server exposes the launch pipeline and lifecycle operations over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"brewboxes/internal/config"
	"brewboxes/internal/progress"
	"brewboxes/pkg/desktop"
	"brewboxes/pkg/runtime"
)

// Launcher is the orchestration surface the handlers drive.
type Launcher interface {
	ValidateSpec(spec desktop.LaunchSpec) error
	Launch(ctx context.Context, spec desktop.LaunchSpec, sink progress.Sink) (desktop.ContainerRecord, error)
	Stop(ctx context.Context, containerID string) error
	Delete(ctx context.Context, containerID string, force bool) error
}

// Lister lists managed containers.
type Lister interface {
	List(ctx context.Context) ([]desktop.ContainerSummary, error)
}

// EngineStatus reports the engine detected so far, if any.
type EngineStatus interface {
	Cached() (runtime.Kind, bool)
}

// Dependencies are the collaborators of a Server. Inventory, Engines and
// Metrics are optional.
type Dependencies struct {
	App       Launcher
	Inventory Lister
	Engines   EngineStatus
	Metrics   http.Handler
}

// Server is the HTTP surface.
type Server struct {
	echo   *echo.Echo
	deps   Dependencies
	listen string
}

// New builds the router for cfg.
func New(cfg config.ServerConfig, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, deps: deps, listen: cfg.Listen}

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.POST("/launch", s.handleLaunch)
	s.echo.POST("/stop", s.handleStop)
	s.echo.POST("/delete", s.handleDelete)
	s.echo.GET("/containers", s.handleContainers)
	s.echo.GET("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics))
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "address", s.listen)
	if err := s.echo.Start(s.listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests. Launch
// streams that outlive ctx are cut off but their pipelines keep running.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger logs every request through slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", c.RealIP(),
			)
			return nil
		},
	})
}
