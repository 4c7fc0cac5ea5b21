// internal/api/v2/languages.go
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/contentcache"
)

// initLanguageRoutes registers the language catalog endpoint
func (c *Controller) initLanguageRoutes() {
	c.Group.GET("/languages", c.GetLanguages)
}

// GetLanguages handles GET /api/v2/languages. The catalog changes only on
// deploy, so it carries the longest staleness window.
func (c *Controller) GetLanguages(ctx echo.Context) error {
	key := contentcache.Key(contentcache.ResourceLanguages, nil, "all")
	value, err := c.Cache.Get(ctx.Request().Context(), contentcache.ResourceLanguages, key,
		func(context.Context) (any, error) {
			return c.Resolver.Languages(), nil
		})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get language catalog")
	}
	return ctx.JSON(http.StatusOK, value)
}
