package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/modernice/zipdoc"
	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
	"github.com/modernice/zipdoc/internal"
	"golang.org/x/exp/slog"
)

// FormField is the name of the multipart field that carries the upload.
const FormField = "file"

// Server serves the upload form and the JSON API.
type Server struct {
	echo        *echo.Echo
	docs        *zipdoc.Documenter
	extractOpts []archive.Option
	genOpts     []generate.Option
	version     string
	log         *slog.Logger
}

// Option is an option for a [Server].
type Option func(*Server)

// WithLogger returns an Option that sets the logger of the Server. Requests
// are logged at info level.
func WithLogger(h slog.Handler) Option {
	return func(s *Server) {
		s.log = slog.New(h)
	}
}

// ExtractWith returns an Option that passes opts to the extraction of every
// upload.
func ExtractWith(opts ...archive.Option) Option {
	return func(s *Server) {
		s.extractOpts = append(s.extractOpts, opts...)
	}
}

// GenerateWith returns an Option that passes opts to the generation of every
// upload.
func GenerateWith(opts ...generate.Option) Option {
	return func(s *Server) {
		s.genOpts = append(s.genOpts, opts...)
	}
}

// Version returns an Option that sets the version reported by /health.
func Version(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer returns a Server that documents uploads using docs.
func NewServer(docs *zipdoc.Documenter, opts ...Option) *Server {
	s := &Server{docs: docs, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = internal.NopLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newRenderer()
	e.HTTPErrorHandler = ErrorHandler(s.log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.logRequests)

	s.echo = e
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	s.echo.GET("/", s.handleForm)
	s.echo.POST("/", s.handleSubmit)

	api := s.echo.Group("/api")
	api.POST("/documentation", s.handleDocumentation)
	api.POST("/documentation/download", s.handleDownload)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.log.Info("HTTP request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", c.Response().Status,
			"duration", time.Since(start),
			"request_id", requestID(c),
		)

		return nil
	}
}

// Echo returns the underlying echo instance. It implements [http.Handler].
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start listens on addr and serves requests until the server is shut down.
func (s *Server) Start(addr string) error {
	s.log.Info("Starting HTTP server ...", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server ...")
	return s.echo.Shutdown(ctx)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
