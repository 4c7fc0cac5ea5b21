// Package content composes base records, translations and image URLs into
// localized view models.
package content

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/imageurl"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// slugPattern is the accepted shape for human-readable identifiers.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// ValidateID rejects identifiers that are neither UUID-shaped nor
// slug-shaped before they reach the resolver chain.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err == nil {
		return nil
	}
	if slugPattern.MatchString(id) {
		return nil
	}
	return errors.Newf("malformed identifier: %q", id).
		Component("content").
		Category(errors.CategoryValidation).
		Build()
}

// Resolver composes localized views. It holds no per-request state and is
// safe for concurrent use.
type Resolver struct {
	ds              datastore.Interface
	translations    *translation.Store
	images          *imageurl.Resolver
	defaultLanguage string
	logger          *slog.Logger
	debug           bool
}

// NewResolver creates a content resolver. defaultLanguage is the second tier
// of the fallback chain and must be a supported language (conf validation).
func NewResolver(ds datastore.Interface, ts *translation.Store, ir *imageurl.Resolver, settings *conf.Settings) *Resolver {
	return &Resolver{
		ds:              ds,
		translations:    ts,
		images:          ir,
		defaultLanguage: settings.Languages.Default,
		logger:          logging.ForService("content"),
		debug:           settings.Debug,
	}
}

// ComposeLocalized resolves every declared field through the strict fallback
// chain: requested language, then the default language, then the field
// default. The chain runs independently per field, so a record may mix
// sources but never carries an unresolved field.
func ComposeLocalized(requested, fallback map[translation.Field]string, specs []translation.FieldSpec) map[translation.Field]string {
	resolved := make(map[translation.Field]string, len(specs))
	for _, spec := range specs {
		if value, ok := requested[spec.Name]; ok && value != "" {
			resolved[spec.Name] = value
			continue
		}
		if value, ok := fallback[spec.Name]; ok && value != "" {
			resolved[spec.Name] = value
			continue
		}
		resolved[spec.Name] = spec.Default
	}
	return resolved
}

// fetchTranslations loads the requested-language and default-language
// translations for a set of entities. At most two storage queries are issued
// regardless of the number of entities; one when the requested language is
// the default.
func (r *Resolver) fetchTranslations(ctx context.Context, kind translation.EntityKind, ids []string, languageCode string) (requested, fallback translation.Translations, err error) {
	requested, err = r.translations.GetTranslations(ctx, kind, ids, languageCode)
	if err != nil {
		return nil, nil, err
	}
	if languageCode == r.defaultLanguage {
		return requested, requested, nil
	}
	fallback, err = r.translations.GetTranslations(ctx, kind, ids, r.defaultLanguage)
	if err != nil {
		return nil, nil, err
	}
	return requested, fallback, nil
}

// composeFor runs the fallback chain for one entity out of a batched result.
func composeFor(entityID string, kind translation.EntityKind, requested, fallback translation.Translations) map[translation.Field]string {
	return ComposeLocalized(requested[entityID], fallback[entityID], translation.FieldsFor(kind))
}

// Languages returns the supported language catalog.
func (r *Resolver) Languages() []conf.LanguageInfo {
	return conf.SupportedLanguages()
}

// Cities returns all cities as localized views in presentation order.
// State, region and search filters are applied after composition so the
// search term matches the resolved name.
func (r *Resolver) Cities(ctx context.Context, filters Filters, languageCode string) ([]CityView, error) {
	cities, err := r.ds.GetCities(ctx)
	if err != nil {
		return nil, databaseError(err, "list_cities")
	}

	ids := make([]string, len(cities))
	for i := range cities {
		ids[i] = cities[i].ID
	}
	requested, fallback, err := r.fetchTranslations(ctx, translation.KindCity, ids, languageCode)
	if err != nil {
		return nil, err
	}

	views := make([]CityView, 0, len(cities))
	for i := range cities {
		city := &cities[i]
		if filters.State != "" && !strings.EqualFold(city.State, filters.State) {
			continue
		}
		if filters.Region != "" && !strings.EqualFold(city.Region, filters.Region) {
			continue
		}
		fields := composeFor(city.ID, translation.KindCity, requested, fallback)
		if !matchesSearch(fields[translation.FieldName], filters.SearchTerm) {
			continue
		}
		views = append(views, CityView{
			ID:          city.ID,
			Slug:        city.Slug,
			Name:        fields[translation.FieldName],
			Description: fields[translation.FieldDescription],
			State:       city.State,
			Region:      city.Region,
		})
	}
	return views, nil
}

// CityHeritageItems returns the localized heritage items of one city in
// presentation order. A missing city is NotFound; a city without heritage
// items yields an empty slice.
func (r *Resolver) CityHeritageItems(ctx context.Context, cityID string, filters Filters, languageCode string) ([]HeritageItemView, error) {
	city, err := r.ds.GetCity(ctx, cityID)
	if err != nil {
		if datastore.IsRecordNotFound(err) {
			return nil, notFoundError(err, "city", cityID)
		}
		return nil, databaseError(err, "get_city")
	}

	items, err := r.ds.GetHeritageItemsByCity(ctx, city.ID)
	if err != nil {
		return nil, databaseError(err, "list_heritage_items")
	}
	if len(items) == 0 {
		return []HeritageItemView{}, nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	requested, fallback, err := r.fetchTranslations(ctx, translation.KindHeritage, ids, languageCode)
	if err != nil {
		return nil, err
	}

	thumbnails, err := r.leadThumbnails(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]HeritageItemView, 0, len(items))
	for i := range items {
		item := &items[i]
		if filters.Category != "" && !strings.EqualFold(item.Category, filters.Category) {
			continue
		}
		fields := composeFor(item.ID, translation.KindHeritage, requested, fallback)
		if !matchesSearch(fields[translation.FieldName], filters.SearchTerm) {
			continue
		}
		views = append(views, r.heritageItemView(item, fields, thumbnails))
	}
	return views, nil
}

// HeritageDetail returns the full localized view of one heritage item,
// including its ordered image set. A missing base record is NotFound.
func (r *Resolver) HeritageDetail(ctx context.Context, heritageID, languageCode string) (*HeritageDetailView, error) {
	item, err := r.ds.GetHeritageItem(ctx, heritageID)
	if err != nil {
		if datastore.IsRecordNotFound(err) {
			return nil, notFoundError(err, "heritage", heritageID)
		}
		return nil, databaseError(err, "get_heritage_item")
	}

	requested, fallback, err := r.fetchTranslations(ctx, translation.KindHeritage, []string{item.ID}, languageCode)
	if err != nil {
		return nil, err
	}
	fields := composeFor(item.ID, translation.KindHeritage, requested, fallback)

	images, err := r.HeritageImages(ctx, item.ID, languageCode)
	if err != nil {
		return nil, err
	}

	detail := &HeritageDetailView{
		HeritageItemView:    r.heritageItemView(&item, fields, nil),
		DetailedDescription: fields[translation.FieldDetailedDescription],
		HistoricalPeriod:    fields[translation.FieldHistoricalPeriod],
		Significance:        fields[translation.FieldSignificance],
		Images:              images,
	}
	if len(images) > 0 {
		detail.ThumbnailImage = images[0].ThumbnailURL
	}
	return detail, nil
}

// HeritageImages returns the localized, ordered image set of a heritage
// item. Zero attached images yield an empty slice. A heritage ID without a
// base record also yields an empty slice: when nested under a parent query
// the absence of children and the absence of the parent look the same, and
// the direct detail lookup is the place that raises NotFound.
func (r *Resolver) HeritageImages(ctx context.Context, heritageID, languageCode string) ([]ImageView, error) {
	records, err := r.ds.GetImagesByHeritage(ctx, heritageID)
	if err != nil {
		return nil, databaseError(err, "list_images")
	}
	if len(records) == 0 {
		return []ImageView{}, nil
	}

	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ImageID
	}
	requested, fallback, err := r.fetchTranslations(ctx, translation.KindImage, ids, languageCode)
	if err != nil {
		return nil, err
	}

	views := make([]ImageView, 0, len(records))
	for i := range records {
		record := &records[i]
		fields := composeFor(record.ImageID, translation.KindImage, requested, fallback)
		views = append(views, ImageView{
			ID:              record.ImageID,
			URL:             r.images.ResolveRaw(record.RawURL),
			ThumbnailURL:    r.images.ResolveRaw(record.RawThumbnailURL),
			Caption:         fields[translation.FieldCaption],
			AltText:         fields[translation.FieldAltText],
			Description:     fields[translation.FieldDescription],
			CulturalContext: fields[translation.FieldCulturalContext],
			Location:        fields[translation.FieldLocation],
			Period:          fields[translation.FieldPeriod],
		})
	}
	return views, nil
}

// leadThumbnails resolves the thumbnail URL of the first image of each
// heritage item with one batched query. Items without images fall back to
// the placeholder during view assembly.
func (r *Resolver) leadThumbnails(ctx context.Context, heritageIDs []string) (map[string]string, error) {
	records, err := r.ds.GetImagesByHeritageIDs(ctx, heritageIDs)
	if err != nil {
		return nil, databaseError(err, "list_lead_images")
	}
	thumbnails := make(map[string]string, len(heritageIDs))
	for i := range records {
		record := &records[i]
		if _, ok := thumbnails[record.HeritageID]; ok {
			continue // records arrive in presentation order, first wins
		}
		thumbnails[record.HeritageID] = r.images.ResolveRaw(record.RawThumbnailURL)
	}
	return thumbnails, nil
}

func (r *Resolver) heritageItemView(item *datastore.HeritageItem, fields map[translation.Field]string, thumbnails map[string]string) HeritageItemView {
	thumbnail, ok := thumbnails[item.ID]
	if !ok {
		thumbnail = r.images.PlaceholderURL()
	}
	return HeritageItemView{
		ID:             item.ID,
		Slug:           item.Slug,
		Name:           fields[translation.FieldName],
		Category:       item.Category,
		Summary:        fields[translation.FieldSummary],
		ThumbnailImage: thumbnail,
	}
}

func matchesSearch(name, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

func notFoundError(err error, kind, id string) error {
	return errors.New(err).
		Component("content").
		Category(errors.CategoryNotFound).
		Context("entity_kind", kind).
		Context("entity_id", id).
		Build()
}

func databaseError(err error, operation string) error {
	return errors.New(err).
		Component("content").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}
