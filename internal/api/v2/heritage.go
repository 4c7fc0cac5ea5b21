// internal/api/v2/heritage.go
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
)

// initHeritageRoutes registers all heritage-related API endpoints
func (c *Controller) initHeritageRoutes() {
	c.Group.GET("/heritage/:id", c.GetHeritageDetail)
	c.Group.GET("/heritage/:id/images", c.GetHeritageImages)
}

// GetHeritageDetail handles GET /api/v2/heritage/:id
func (c *Controller) GetHeritageDetail(ctx echo.Context) error {
	heritageID := ctx.Param("id")
	if err := content.ValidateID(heritageID); err != nil {
		return c.HandleError(ctx, err, "Invalid heritage identifier")
	}
	language, err := c.requestLanguage(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid language code")
	}

	key := contentcache.Key(contentcache.ResourceHeritage,
		map[string]string{"detail": heritageID}, language)
	value, err := c.Cache.Get(ctx.Request().Context(), contentcache.ResourceHeritage, key,
		func(resolveCtx context.Context) (any, error) {
			return c.Resolver.HeritageDetail(resolveCtx, heritageID, language)
		})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get heritage detail")
	}
	return ctx.JSON(http.StatusOK, value)
}

// GetHeritageImages handles GET /api/v2/heritage/:id/images. A heritage item
// without images returns an empty array, not an error.
func (c *Controller) GetHeritageImages(ctx echo.Context) error {
	heritageID := ctx.Param("id")
	if err := content.ValidateID(heritageID); err != nil {
		return c.HandleError(ctx, err, "Invalid heritage identifier")
	}
	language, err := c.requestLanguage(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid language code")
	}

	key := contentcache.Key(contentcache.ResourceImages,
		map[string]string{"heritage": heritageID}, language)
	value, err := c.Cache.Get(ctx.Request().Context(), contentcache.ResourceImages, key,
		func(resolveCtx context.Context) (any, error) {
			return c.Resolver.HeritageImages(resolveCtx, heritageID, language)
		})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get heritage images")
	}
	return ctx.JSON(http.StatusOK, value)
}
