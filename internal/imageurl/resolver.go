// Package imageurl constructs deterministic URLs for image variants, with a
// fixed placeholder substituted for missing images.
package imageurl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/errors"
)

// Variant selects which rendition of an image a URL points at.
type Variant string

const (
	VariantThumbnail Variant = "thumbnail"
	VariantFull      Variant = "full"
)

// urlShape is the contract every URL leaving this package must satisfy.
var urlShape = regexp.MustCompile(`^https?://\S+$`)

// Resolver builds image URLs from a configured base. It is independent of
// the translation layer and safe for concurrent use.
type Resolver struct {
	baseURL        string
	placeholderURL string
}

// NewResolver creates a resolver from the image settings. Both URLs must be
// absolute http(s) URLs; conf validation guarantees this for loaded settings,
// the check here covers resolvers built directly in tests or tools.
func NewResolver(settings *conf.ImageSettings) (*Resolver, error) {
	base := strings.TrimRight(settings.BaseURL, "/")
	if !urlShape.MatchString(base) {
		return nil, errors.Newf("image base URL %q is not an absolute http(s) URL", settings.BaseURL).
			Component("imageurl").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if !urlShape.MatchString(settings.PlaceholderURL) {
		return nil, errors.Newf("placeholder URL %q is not an absolute http(s) URL", settings.PlaceholderURL).
			Component("imageurl").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &Resolver{
		baseURL:        base,
		placeholderURL: settings.PlaceholderURL,
	}, nil
}

// ImageURL returns the URL of one variant of an image. An empty image ID
// yields the placeholder URL regardless of variant. The thumbnail and full
// variants of the same image never share a URL.
func (r *Resolver) ImageURL(imageID string, variant Variant) string {
	if imageID == "" {
		return r.placeholderURL
	}
	switch variant {
	case VariantThumbnail:
		return fmt.Sprintf("%s/images/%s/thumb", r.baseURL, imageID)
	default:
		return fmt.Sprintf("%s/images/%s/full", r.baseURL, imageID)
	}
}

// PlaceholderURL returns the fixed absolute URL used whenever a raw image
// URL is missing.
func (r *Resolver) PlaceholderURL() string {
	return r.placeholderURL
}

// ResolveRaw returns raw if it holds a well-formed URL and the placeholder
// otherwise. Used during composition for nullable raw URL columns.
func (r *Resolver) ResolveRaw(raw *string) string {
	if raw == nil || !urlShape.MatchString(*raw) {
		return r.placeholderURL
	}
	return *raw
}
