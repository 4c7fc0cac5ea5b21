// internal/api/v2/media.go
package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/errors"
)

// initMediaRoutes registers image management endpoints
func (c *Controller) initMediaRoutes() {
	c.Group.POST("/heritage/:id/images", c.CreateHeritageImage)
	c.Group.DELETE("/images/:id", c.DeleteImage)
}

// CreateImageRequest is the payload for registering a new image record.
// Raw URLs are optional; a record without one is served with the
// configured placeholder.
type CreateImageRequest struct {
	RawURL          *string `json:"raw_url"`
	RawThumbnailURL *string `json:"raw_thumbnail_url"`
	DisplayOrder    int     `json:"display_order"`
}

// CreateImageResponse confirms the stored record and its assigned identifier.
type CreateImageResponse struct {
	ImageID      string `json:"image_id"`
	HeritageID   string `json:"heritage_id"`
	DisplayOrder int    `json:"display_order"`
}

// CreateHeritageImage handles POST /api/v2/heritage/:id/images
func (c *Controller) CreateHeritageImage(ctx echo.Context) error {
	heritageID := ctx.Param("id")
	if err := content.ValidateID(heritageID); err != nil {
		return c.HandleError(ctx, err, "Invalid heritage identifier")
	}

	var req CreateImageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Build(), "Invalid request body")
	}
	if req.DisplayOrder < 0 {
		return c.HandleError(ctx, errors.Newf("display_order must not be negative").
			Component("api").
			Category(errors.CategoryValidation).
			Context("display_order", req.DisplayOrder).
			Build(), "Invalid display order")
	}

	// The image must attach to an existing heritage item.
	item, err := c.DS.GetHeritageItem(ctx.Request().Context(), heritageID)
	if err != nil {
		if datastore.IsRecordNotFound(err) {
			return c.HandleError(ctx, errors.New(err).
				Component("api").
				Category(errors.CategoryNotFound).
				Context("heritage_id", heritageID).
				Build(), "Heritage item not found")
		}
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryDatabase).
			Build(), "Failed to look up heritage item")
	}

	record := &datastore.ImageRecord{
		ImageID:         uuid.NewString(),
		HeritageID:      item.ID,
		RawURL:          req.RawURL,
		RawThumbnailURL: req.RawThumbnailURL,
		DisplayOrder:    req.DisplayOrder,
	}
	if err := c.DS.SaveImage(ctx.Request().Context(), record); err != nil {
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryDatabase).
			Context("heritage_id", item.ID).
			Build(), "Failed to save image record")
	}

	c.invalidateMediaCaches()

	if c.apiLogger != nil {
		c.apiLogger.Info("Image record created",
			"image_id", record.ImageID,
			"heritage_id", item.ID,
			"display_order", record.DisplayOrder,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(http.StatusCreated, &CreateImageResponse{
		ImageID:      record.ImageID,
		HeritageID:   item.ID,
		DisplayOrder: record.DisplayOrder,
	})
}

// DeleteImage handles DELETE /api/v2/images/:id. Removing a record also
// removes its translations.
func (c *Controller) DeleteImage(ctx echo.Context) error {
	imageID := ctx.Param("id")
	if err := content.ValidateID(imageID); err != nil {
		return c.HandleError(ctx, err, "Invalid image identifier")
	}

	if err := c.DS.DeleteImage(ctx.Request().Context(), imageID); err != nil {
		if datastore.IsRecordNotFound(err) {
			return c.HandleError(ctx, errors.New(err).
				Component("api").
				Category(errors.CategoryNotFound).
				Context("image_id", imageID).
				Build(), "Image not found")
		}
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryDatabase).
			Context("image_id", imageID).
			Build(), "Failed to delete image record")
	}

	c.invalidateMediaCaches()

	if c.apiLogger != nil {
		c.apiLogger.Info("Image record deleted",
			"image_id", imageID,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// invalidateMediaCaches drops cached image collections and the heritage
// views whose lead thumbnails may have changed.
func (c *Controller) invalidateMediaCaches() {
	images := c.Cache.Invalidate(contentcache.ResourceImages)
	heritage := c.Cache.Invalidate(contentcache.ResourceHeritage)
	if c.apiLogger != nil {
		c.apiLogger.Debug("Invalidated media caches",
			"images_evicted", images,
			"heritage_evicted", heritage,
		)
	}
}
