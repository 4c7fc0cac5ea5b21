// internal/api/v2/cities.go
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
)

// initCityRoutes registers all city-related API endpoints
func (c *Controller) initCityRoutes() {
	c.Group.GET("/cities", c.GetCities)
	c.Group.GET("/cities/:id/heritage", c.GetCityHeritage)
}

// queryFilters extracts the list filters from the request. The filters are
// owned by this layer; the resolver only sees pre-validated values.
func queryFilters(ctx echo.Context) content.Filters {
	return content.Filters{
		Category:   ctx.QueryParam("category"),
		State:      ctx.QueryParam("state"),
		Region:     ctx.QueryParam("region"),
		SearchTerm: ctx.QueryParam("search"),
	}
}

// cacheFilters normalizes the filter set into cache key segments.
func cacheFilters(filters content.Filters) map[string]string {
	return map[string]string{
		"category": filters.Category,
		"state":    filters.State,
		"region":   filters.Region,
		"search":   filters.SearchTerm,
	}
}

// GetCities handles GET /api/v2/cities
func (c *Controller) GetCities(ctx echo.Context) error {
	language, err := c.requestLanguage(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid language code")
	}
	filters := queryFilters(ctx)

	key := contentcache.Key(contentcache.ResourceCities, cacheFilters(filters), language)
	value, err := c.Cache.Get(ctx.Request().Context(), contentcache.ResourceCities, key,
		func(resolveCtx context.Context) (any, error) {
			return c.Resolver.Cities(resolveCtx, filters, language)
		})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get cities")
	}
	return ctx.JSON(http.StatusOK, value)
}

// GetCityHeritage handles GET /api/v2/cities/:id/heritage
func (c *Controller) GetCityHeritage(ctx echo.Context) error {
	cityID := ctx.Param("id")
	if err := content.ValidateID(cityID); err != nil {
		return c.HandleError(ctx, err, "Invalid city identifier")
	}
	language, err := c.requestLanguage(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid language code")
	}
	filters := queryFilters(ctx)

	keyFilters := cacheFilters(filters)
	keyFilters["city"] = cityID
	key := contentcache.Key(contentcache.ResourceHeritage, keyFilters, language)
	value, err := c.Cache.Get(ctx.Request().Context(), contentcache.ResourceHeritage, key,
		func(resolveCtx context.Context) (any, error) {
			return c.Resolver.CityHeritageItems(resolveCtx, cityID, filters, language)
		})
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get city heritage items")
	}
	return ctx.JSON(http.StatusOK, value)
}
