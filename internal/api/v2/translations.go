// internal/api/v2/translations.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/contentcache"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// initTranslationRoutes registers translation management endpoints
func (c *Controller) initTranslationRoutes() {
	c.Group.PUT("/translations", c.UpsertTranslation)
}

// UpsertTranslationRequest carries one localized field value. Writing the
// same (kind, entity, language, field) tuple twice overwrites the content.
type UpsertTranslationRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Language   string `json:"language"`
	Field      string `json:"field"`
	Content    string `json:"content"`
}

// UpsertTranslation handles PUT /api/v2/translations
func (c *Controller) UpsertTranslation(ctx echo.Context) error {
	var req UpsertTranslationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Build(), "Invalid request body")
	}
	if req.EntityID == "" {
		return c.HandleError(ctx, errors.Newf("entity_id is required").
			Component("api").
			Category(errors.CategoryValidation).
			Build(), "Missing entity identifier")
	}

	kind := translation.EntityKind(req.EntityKind)
	field := translation.Field(req.Field)
	err := c.Translations.Upsert(ctx.Request().Context(), kind, req.EntityID,
		req.Language, field, req.Content)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to store translation")
	}

	evicted := c.invalidateForKind(kind)

	if c.apiLogger != nil {
		c.apiLogger.Info("Translation stored",
			"entity_kind", req.EntityKind,
			"entity_id", req.EntityID,
			"language", req.Language,
			"field", req.Field,
			"evicted", evicted,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"evicted": evicted,
	})
}

// invalidateForKind drops every cached view that can embed translations of
// the given entity kind. Image captions surface inside heritage detail
// views, so image writes also evict the heritage namespace.
func (c *Controller) invalidateForKind(kind translation.EntityKind) int {
	switch kind {
	case translation.KindCity:
		return c.Cache.Invalidate(contentcache.ResourceCities)
	case translation.KindHeritage:
		return c.Cache.Invalidate(contentcache.ResourceHeritage)
	case translation.KindImage:
		return c.Cache.Invalidate(contentcache.ResourceImages) +
			c.Cache.Invalidate(contentcache.ResourceHeritage)
	default:
		return 0
	}
}
