// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/culturalatlas/heritage-go/internal/conf"
)

// Interface abstracts the underlying database implementation and defines the
// operations the resolution engine needs.
type Interface interface {
	Open() error
	Close() error

	// base records
	GetCity(ctx context.Context, id string) (City, error)
	GetCities(ctx context.Context) ([]City, error)
	SaveCity(ctx context.Context, city *City) error
	GetHeritageItem(ctx context.Context, id string) (HeritageItem, error)
	GetHeritageItemsByCity(ctx context.Context, cityID string) ([]HeritageItem, error)
	SaveHeritageItem(ctx context.Context, item *HeritageItem) error

	// images
	GetImagesByHeritage(ctx context.Context, heritageID string) ([]ImageRecord, error)
	GetImagesByHeritageIDs(ctx context.Context, heritageIDs []string) ([]ImageRecord, error)
	SaveImage(ctx context.Context, image *ImageRecord) error
	DeleteImage(ctx context.Context, imageID string) error

	// translations
	GetTranslations(ctx context.Context, entityKind string, entityIDs []string, languageCode string) ([]Translation, error)
	UpsertTranslation(ctx context.Context, translation *Translation) error
	DeleteTranslations(ctx context.Context, entityKind, entityID string) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Database.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Database.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// GetCity retrieves a city by its ID or slug.
func (ds *DataStore) GetCity(ctx context.Context, id string) (City, error) {
	var city City
	err := ds.DB.WithContext(ctx).
		Where("id = ? OR slug = ?", id, id).
		First(&city).Error
	if err != nil {
		return City{}, fmt.Errorf("getting city %s: %w", id, err)
	}
	return city, nil
}

// GetCities retrieves all cities in presentation order.
func (ds *DataStore) GetCities(ctx context.Context) ([]City, error) {
	var cities []City
	err := ds.DB.WithContext(ctx).
		Order("display_order ASC, slug ASC").
		Find(&cities).Error
	if err != nil {
		return nil, fmt.Errorf("getting cities: %w", err)
	}
	return cities, nil
}

// SaveCity inserts or updates a city base record.
func (ds *DataStore) SaveCity(ctx context.Context, city *City) error {
	if err := ds.DB.WithContext(ctx).Save(city).Error; err != nil {
		return fmt.Errorf("saving city %s: %w", city.Slug, err)
	}
	return nil
}

// GetHeritageItem retrieves a heritage item by its ID or slug.
func (ds *DataStore) GetHeritageItem(ctx context.Context, id string) (HeritageItem, error) {
	var item HeritageItem
	err := ds.DB.WithContext(ctx).
		Where("id = ? OR slug = ?", id, id).
		First(&item).Error
	if err != nil {
		return HeritageItem{}, fmt.Errorf("getting heritage item %s: %w", id, err)
	}
	return item, nil
}

// GetHeritageItemsByCity retrieves heritage items for a city in presentation order.
func (ds *DataStore) GetHeritageItemsByCity(ctx context.Context, cityID string) ([]HeritageItem, error) {
	var items []HeritageItem
	err := ds.DB.WithContext(ctx).
		Where("city_id = ?", cityID).
		Order("display_order ASC, slug ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("getting heritage items for city %s: %w", cityID, err)
	}
	return items, nil
}

// SaveHeritageItem inserts or updates a heritage item base record.
func (ds *DataStore) SaveHeritageItem(ctx context.Context, item *HeritageItem) error {
	if err := ds.DB.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("saving heritage item %s: %w", item.Slug, err)
	}
	return nil
}

// GetImagesByHeritage retrieves the images of a heritage item ordered by
// display_order ascending, ties broken by insertion ID ascending. A heritage
// item with no images yields an empty slice, not an error.
func (ds *DataStore) GetImagesByHeritage(ctx context.Context, heritageID string) ([]ImageRecord, error) {
	var images []ImageRecord
	err := ds.DB.WithContext(ctx).
		Where("heritage_id = ?", heritageID).
		Order("display_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("getting images for heritage %s: %w", heritageID, err)
	}
	return images, nil
}

// GetImagesByHeritageIDs retrieves the images of several heritage items with
// one query, preserving per-item presentation order. Used to avoid N+1
// lookups when composing list views.
func (ds *DataStore) GetImagesByHeritageIDs(ctx context.Context, heritageIDs []string) ([]ImageRecord, error) {
	if len(heritageIDs) == 0 {
		return nil, nil
	}
	var images []ImageRecord
	err := ds.DB.WithContext(ctx).
		Where("heritage_id IN ?", heritageIDs).
		Order("heritage_id ASC, display_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("getting images for %d heritage items: %w", len(heritageIDs), err)
	}
	return images, nil
}

// SaveImage inserts a new image record.
func (ds *DataStore) SaveImage(ctx context.Context, image *ImageRecord) error {
	if image.DisplayOrder < 0 {
		return fmt.Errorf("invalid display order %d: must not be negative", image.DisplayOrder)
	}
	if err := ds.DB.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("saving image %s: %w", image.ImageID, err)
	}
	return nil
}

// DeleteImage removes an image record and its translations in one transaction.
func (ds *DataStore) DeleteImage(ctx context.Context, imageID string) error {
	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("image_id = ?", imageID).Delete(&ImageRecord{})
		if result.Error != nil {
			return fmt.Errorf("deleting image %s: %w", imageID, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("deleting image %s: %w", imageID, gorm.ErrRecordNotFound)
		}
		if err := tx.Where("entity_kind = ? AND entity_id = ?", "image", imageID).
			Delete(&Translation{}).Error; err != nil {
			return fmt.Errorf("deleting translations for image %s: %w", imageID, err)
		}
		return nil
	})
}

// GetTranslations retrieves all translation rows for a set of entities in one
// language with a single query. Entities without translations simply have no
// rows in the result.
func (ds *DataStore) GetTranslations(ctx context.Context, entityKind string, entityIDs []string, languageCode string) ([]Translation, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	var translations []Translation
	err := ds.DB.WithContext(ctx).
		Where("entity_kind = ? AND language_code = ? AND entity_id IN ?", entityKind, languageCode, entityIDs).
		Find(&translations).Error
	if err != nil {
		return nil, fmt.Errorf("getting %s translations (%s): %w", entityKind, languageCode, err)
	}
	return translations, nil
}

// UpsertTranslation writes a translation row with last-write-wins semantics.
// The composite unique index on (kind, entity, language, field) guarantees a
// conflict instead of a duplicate row.
func (ds *DataStore) UpsertTranslation(ctx context.Context, translation *Translation) error {
	err := ds.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "entity_kind"},
			{Name: "entity_id"},
			{Name: "language_code"},
			{Name: "field_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(translation).Error
	if err != nil {
		return fmt.Errorf("upserting translation (%s, %s, %s, %s): %w",
			translation.EntityKind, translation.EntityID, translation.LanguageCode, translation.FieldName, err)
	}
	return nil
}

// DeleteTranslations removes every translation row of one entity across all
// languages and fields. Used when the entity itself is deleted.
func (ds *DataStore) DeleteTranslations(ctx context.Context, entityKind, entityID string) error {
	err := ds.DB.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", entityKind, entityID).
		Delete(&Translation{}).Error
	if err != nil {
		return fmt.Errorf("deleting translations for %s %s: %w", entityKind, entityID, err)
	}
	return nil
}

// IsRecordNotFound reports whether err stems from a missing database row.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&City{}, &HeritageItem{}, &ImageRecord{}, &Translation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
