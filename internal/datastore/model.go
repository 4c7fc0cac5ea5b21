// model.go this code defines the data model for the application
package datastore

import "time"

// City represents a city whose heritage content is served. Textual fields
// live in the translations table, keyed by the city ID.
type City struct {
	ID           string `gorm:"primaryKey;size:36"`
	Slug         string `gorm:"uniqueIndex;not null;size:64"`
	State        string `gorm:"index;size:64"`
	Region       string `gorm:"index;size:64"`
	DisplayOrder int    `gorm:"index;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HeritageItem represents a single heritage entry attached to a city.
type HeritageItem struct {
	ID           string `gorm:"primaryKey;size:36"`
	CityID       string `gorm:"index;not null;size:36"`
	Slug         string `gorm:"uniqueIndex;not null;size:64"`
	Category     string `gorm:"index;size:64"`
	DisplayOrder int    `gorm:"index;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ImageRecord represents one image attached to a heritage item. The raw URL
// columns are nullable; a nil value resolves to the placeholder URL during
// composition. Presentation order is display_order ascending with the
// autoincrement ID as tie-break, so insertion order decides ties.
type ImageRecord struct {
	ID              uint    `gorm:"primaryKey"`
	ImageID         string  `gorm:"uniqueIndex;not null;size:36"`
	HeritageID      string  `gorm:"index;not null;size:36"`
	RawURL          *string `gorm:"size:512"`
	RawThumbnailURL *string `gorm:"size:512"`
	DisplayOrder    int     `gorm:"index;not null;default:0;check:display_order >= 0"`
	CreatedAt       time.Time
}

// Translation is one localized field value in the entity-attribute-value
// translations table. The composite unique index enforces at most one row
// per (kind, entity, language, field) tuple; upserts overwrite in place.
type Translation struct {
	ID           uint   `gorm:"primaryKey"`
	EntityKind   string `gorm:"uniqueIndex:idx_translations_tuple;not null;size:16"`
	EntityID     string `gorm:"uniqueIndex:idx_translations_tuple;not null;size:64"`
	LanguageCode string `gorm:"uniqueIndex:idx_translations_tuple;not null;size:8"`
	FieldName    string `gorm:"uniqueIndex:idx_translations_tuple;not null;size:32"`
	Content      string `gorm:"type:text"`
	UpdatedAt    time.Time
}
