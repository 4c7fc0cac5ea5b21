// view.go: composed localized view models returned by the content resolver
package content

// CityView is a localized city record. Every textual field has been resolved
// through the fallback chain and is never left blank below the field default.
type CityView struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	Region      string `json:"region"`
}

// HeritageItemView is a localized heritage list entry.
type HeritageItemView struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Summary        string `json:"summary"`
	ThumbnailImage string `json:"thumbnailImage"`
}

// HeritageDetailView extends the list entry with long-form fields and the
// full ordered image set.
type HeritageDetailView struct {
	HeritageItemView
	DetailedDescription string      `json:"detailedDescription"`
	HistoricalPeriod    string      `json:"historicalPeriod"`
	Significance        string      `json:"significance"`
	Images              []ImageView `json:"images"`
}

// ImageView is a localized image record with resolved URLs. Location and
// period are optional fields, omitted when no translation exists.
type ImageView struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Caption         string `json:"caption"`
	AltText         string `json:"altText"`
	Description     string `json:"description"`
	CulturalContext string `json:"culturalContext"`
	Location        string `json:"location,omitempty"`
	Period          string `json:"period,omitempty"`
}

// Filters narrows list results. All values are optional; SearchTerm matches
// the resolved name case-insensitively as a substring.
type Filters struct {
	Category   string
	State      string
	Region     string
	SearchTerm string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}
