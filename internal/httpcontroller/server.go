// internal/httpcontroller/server.go
package httpcontroller

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/culturalatlas/heritage-go/internal/api/v2"
	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/observability"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// Server encapsulates Echo server and related configurations.
type Server struct {
	Echo         *echo.Echo
	DS           datastore.Interface
	Settings     *conf.Settings
	Resolver     *content.Resolver
	Cache        *contentcache.Cache
	Translations *translation.Store
	Metrics      *observability.Metrics
	APIV2        *api.Controller

	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes a new HTTP server with the given datastore and resolver chain.
func New(settings *conf.Settings, ds datastore.Interface, resolver *content.Resolver,
	cache *contentcache.Cache, translations *translation.Store, m *observability.Metrics) *Server {
	configureDefaultSettings(settings)

	s := &Server{
		Echo:         echo.New(),
		DS:           ds,
		Settings:     settings,
		Resolver:     resolver,
		Cache:        cache,
		Translations: translations,
		Metrics:      m,
	}

	// Configure an IP extractor
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initializeServer()
	return s
}

// initializeServer configures and initializes the server.
func (s *Server) initializeServer() {
	s.Echo.HideBanner = true
	s.initLogger()
	s.configureMiddleware()

	s.Debug("Initializing JSON API v2")
	s.APIV2 = api.New(s.Echo, s.Settings, s.DS, s.Resolver, s.Cache, s.Translations, s.Metrics)
}

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 6,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	s.Echo.Use(middleware.CORS())
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() {
	errChan := make(chan error)

	go func() {
		if err := s.Echo.Start(":" + s.Settings.WebServer.Port); err != nil {
			errChan <- err
		}
	}()

	go handleServerError(errChan)

	fmt.Printf("HTTP server started on port %s\n", s.Settings.WebServer.Port)
}

// configureDefaultSettings sets default values for server settings.
func configureDefaultSettings(settings *conf.Settings) {
	if settings.WebServer.Port == "" {
		settings.WebServer.Port = "8080"
	}
}

// handleServerError listens for server errors and handles them.
func handleServerError(errChan chan error) {
	for err := range errChan {
		log.Printf("Server error: %v", err)
	}
}

// initLogger initializes the structured web request logger.
func (s *Server) initLogger() {
	webLogPath := "logs/web.log"
	webLogger, closeFunc, err := logging.NewFileLogger(webLogPath, "web", slog.LevelInfo)
	if err != nil {
		log.Printf("Warning: Failed to initialize web structured logger: %v", err)
		return
	}

	s.webLogger = webLogger
	s.webLoggerClose = closeFunc

	// Discard Echo's default log output, rely on structured logging
	s.Echo.Logger.SetOutput(io.Discard)
	s.Echo.Logger.SetLevel(99)
}

// Debug logs debug messages if debug mode is enabled
func (s *Server) Debug(format string, v ...any) {
	if !s.Settings.WebServer.Debug {
		return
	}
	msg := format
	if len(v) > 0 {
		msg = fmt.Sprintf(format, v...)
	}
	log.Print(msg)
	if s.webLogger != nil {
		s.webLogger.Debug(msg)
	}
}

// Shutdown performs cleanup operations and gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.webLoggerClose != nil {
		if err := s.webLoggerClose(); err != nil {
			log.Printf("Error closing web log file: %v", err)
		}
	}

	return s.Echo.Shutdown(ctx)
}
