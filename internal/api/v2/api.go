// internal/api/v2/api.go
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/observability"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo         *echo.Echo
	Group        *echo.Group
	Settings     *conf.Settings
	DS           datastore.Interface
	Resolver     *content.Resolver
	Cache        *contentcache.Cache
	Translations *translation.Store

	apiLogger *slog.Logger
	metrics   *observability.Metrics
	startTime time.Time
}

// New creates a new API controller and registers its routes.
func New(e *echo.Echo, settings *conf.Settings, ds datastore.Interface, resolver *content.Resolver,
	cache *contentcache.Cache, translations *translation.Store, m *observability.Metrics) *Controller {
	c := &Controller{
		Echo:         e,
		Settings:     settings,
		DS:           ds,
		Resolver:     resolver,
		Cache:        cache,
		Translations: translations,
		apiLogger:    logging.ForService("api"),
		metrics:      m,
		startTime:    time.Now(),
	}

	c.Group = e.Group("/api/v2")
	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)
	c.initLanguageRoutes()
	c.initCityRoutes()
	c.initHeritageRoutes()
	c.initMediaRoutes()
	c.initTranslationRoutes()

	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
}

// HealthCheck handles GET /api/v2/health
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":     "healthy",
		"version":    c.Settings.Version,
		"build_date": c.Settings.BuildDate,
		"uptime":     time.Since(c.startTime).Seconds(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// ErrorResponse is the JSON error payload of every failed request.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message, code string) *ErrorResponse {
	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a unique identifier for error tracking using
// cryptographic randomness.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "err-rand"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError maps an error from the resolver chain onto the HTTP surface
// using the stable machine-readable codes of the error taxonomy.
func (c *Controller) HandleError(ctx echo.Context, err error, message string) error {
	status := http.StatusInternalServerError
	code := "internal_error"

	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		code = enhanced.Code()
		switch {
		case errors.IsNotFound(err):
			status = http.StatusNotFound
		case errors.IsValidation(err):
			status = http.StatusBadRequest
		case errors.IsTimeout(err):
			status = http.StatusGatewayTimeout
		}
	}

	resp := NewErrorResponse(err, message, code)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}
		c.apiLogger.Error("API Error",
			"correlation_id", resp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"status", status,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(status, resp)
}

// requestLanguage validates and normalizes the language query parameter,
// defaulting to English. Unsupported and malformed codes are rejected here,
// before the resolver chain.
func (c *Controller) requestLanguage(ctx echo.Context) (string, error) {
	code := ctx.QueryParam("language")
	if code == "" {
		return c.Settings.Languages.Default, nil
	}
	normalized, err := conf.NormalizeLanguageCode(code)
	if err != nil {
		return "", errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Context("language", code).
			Build()
	}
	return normalized, nil
}
