package content

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/imageurl"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

const (
	mumbaiID  = "11111111-1111-4111-8111-111111111111"
	gatewayID = "22222222-2222-4222-8222-222222222222"
)

// testStore satisfies datastore.Interface for an already-open test database.
type testStore struct {
	datastore.DataStore
}

func (s *testStore) Open() error  { return nil }
func (s *testStore) Close() error { return nil }

// fixture is the resolver under test plus the stores needed to seed data.
type fixture struct {
	resolver *Resolver
	ds       *testStore
	store    *translation.Store
}

func strPtr(s string) *string { return &s }

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Languages.Default = "en"
	s.Images.BaseURL = "https://cdn.example.org"
	s.Images.PlaceholderURL = "https://cdn.example.org/images/placeholder.jpg"
	return s
}

func setupResolver(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&datastore.City{}, &datastore.HeritageItem{}, &datastore.ImageRecord{}, &datastore.Translation{}))

	ds := &testStore{DataStore: datastore.DataStore{DB: db}}
	settings := testSettings()
	store := translation.NewStore(ds, settings)

	images, err := imageurl.NewResolver(&settings.Images)
	require.NoError(t, err)

	return &fixture{
		resolver: NewResolver(ds, store, images, settings),
		ds:       ds,
		store:    store,
	}
}

// seedMumbai loads one city with one heritage item and two ordered images,
// translated fully in English and partially in Hindi.
func seedMumbai(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.ds.SaveCity(ctx, &datastore.City{
		ID: mumbaiID, Slug: "mumbai", State: "Maharashtra", Region: "West",
	}))
	require.NoError(t, f.ds.SaveHeritageItem(ctx, &datastore.HeritageItem{
		ID: gatewayID, CityID: mumbaiID, Slug: "gateway-of-india", Category: "monument",
	}))

	require.NoError(t, f.ds.SaveImage(ctx, &datastore.ImageRecord{
		ImageID: "img-front", HeritageID: gatewayID,
		RawURL:          strPtr("https://upload.example.org/front.jpg"),
		RawThumbnailURL: strPtr("https://upload.example.org/front-thumb.jpg"),
		DisplayOrder:    0,
	}))
	require.NoError(t, f.ds.SaveImage(ctx, &datastore.ImageRecord{
		ImageID: "img-side", HeritageID: gatewayID,
		RawURL:       strPtr("https://upload.example.org/side.jpg"),
		DisplayOrder: 1,
	}))

	rows := []struct {
		kind    translation.EntityKind
		id      string
		lang    string
		field   translation.Field
		content string
	}{
		{translation.KindCity, mumbaiID, "en", translation.FieldName, "Mumbai"},
		{translation.KindCity, mumbaiID, "en", translation.FieldDescription, "Financial capital of India."},
		{translation.KindCity, mumbaiID, "hi", translation.FieldName, "मुंबई"},

		{translation.KindHeritage, gatewayID, "en", translation.FieldName, "Gateway of India"},
		{translation.KindHeritage, gatewayID, "en", translation.FieldSummary, "Arch monument on the waterfront."},
		{translation.KindHeritage, gatewayID, "en", translation.FieldDetailedDescription, "Basalt arch completed in 1924."},
		{translation.KindHeritage, gatewayID, "en", translation.FieldHistoricalPeriod, "British colonial era"},
		{translation.KindHeritage, gatewayID, "hi", translation.FieldName, "गेटवे ऑफ़ इंडिया"},

		{translation.KindImage, "img-front", "en", translation.FieldCaption, "Gateway of India - Front View"},
		{translation.KindImage, "img-front", "en", translation.FieldAltText, "Front elevation"},
		{translation.KindImage, "img-side", "en", translation.FieldCaption, "Gateway of India - Side View"},
	}
	for _, row := range rows {
		require.NoError(t, f.store.Upsert(ctx, row.kind, row.id, row.lang, row.field, row.content))
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateID("11111111-1111-4111-8111-111111111111"))
	assert.NoError(t, ValidateID("gateway-of-india"))
	assert.NoError(t, ValidateID("mumbai"))

	for _, id := range []string{"", "Mumbai", "-leading-dash", "has space", "bad/slash"} {
		err := ValidateID(id)
		require.Error(t, err, "id %q", id)
		assert.True(t, errors.IsValidation(err))
	}
}

func TestComposeLocalizedFallbackChain(t *testing.T) {
	t.Parallel()

	specs := []translation.FieldSpec{
		{Name: translation.FieldName},
		{Name: translation.FieldSummary, Default: "No summary yet"},
		{Name: translation.FieldSignificance},
	}
	requested := map[translation.Field]string{
		translation.FieldName: "गेटवे ऑफ़ इंडिया",
	}
	fallback := map[translation.Field]string{
		translation.FieldName:    "Gateway of India",
		translation.FieldSummary: "",
	}

	resolved := ComposeLocalized(requested, fallback, specs)

	// tier 1: requested language wins when present
	assert.Equal(t, "गेटवे ऑफ़ इंडिया", resolved[translation.FieldName])
	// tier 3: empty fallback value falls through to the field default
	assert.Equal(t, "No summary yet", resolved[translation.FieldSummary])
	// tier 3: absent everywhere resolves to the zero default
	assert.Equal(t, "", resolved[translation.FieldSignificance])
}

func TestHeritageDetailFallbackPerField(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	detail, err := f.resolver.HeritageDetail(context.Background(), gatewayID, "hi")
	require.NoError(t, err)

	// name exists in Hindi, summary falls back to English per field
	assert.Equal(t, "गेटवे ऑफ़ इंडिया", detail.Name)
	assert.Equal(t, "Arch monument on the waterfront.", detail.Summary)
	assert.Equal(t, "Basalt arch completed in 1924.", detail.DetailedDescription)
	// significance has no translation in any language
	assert.Equal(t, "", detail.Significance)
}

func TestHeritageDetailBySlug(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	detail, err := f.resolver.HeritageDetail(context.Background(), "gateway-of-india", "en")
	require.NoError(t, err)
	assert.Equal(t, gatewayID, detail.ID)
	assert.Equal(t, "Gateway of India", detail.Name)
	assert.Equal(t, "https://upload.example.org/front-thumb.jpg", detail.ThumbnailImage)
}

func TestHeritageDetailNotFound(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	_, err := f.resolver.HeritageDetail(context.Background(), "no-such-item", "en")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestHeritageImagesOrderAndPlaceholders(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	images, err := f.resolver.HeritageImages(context.Background(), gatewayID, "en")
	require.NoError(t, err)
	require.Len(t, images, 2)

	// order follows display_order, captions align index for index
	assert.Equal(t, "Gateway of India - Front View", images[0].Caption)
	assert.Equal(t, "Gateway of India - Side View", images[1].Caption)

	assert.Equal(t, "https://upload.example.org/front.jpg", images[0].URL)
	assert.Equal(t, "https://upload.example.org/front-thumb.jpg", images[0].ThumbnailURL)
	// the side view record has no thumbnail, the placeholder substitutes
	assert.Equal(t, "https://upload.example.org/side.jpg", images[1].URL)
	assert.Equal(t, "https://cdn.example.org/images/placeholder.jpg", images[1].ThumbnailURL)
}

func TestHeritageImagesEmptyCases(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	ctx := context.Background()
	require.NoError(t, f.ds.SaveHeritageItem(ctx, &datastore.HeritageItem{
		ID: "33333333-3333-4333-8333-333333333333", CityID: mumbaiID, Slug: "bare-item",
	}))

	// heritage item without images
	images, err := f.resolver.HeritageImages(ctx, "33333333-3333-4333-8333-333333333333", "en")
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)

	// heritage ID without a base record behaves the same in the nested view
	images, err = f.resolver.HeritageImages(ctx, "44444444-4444-4444-8444-444444444444", "en")
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestCitiesLocalizedListAndFilters(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	ctx := context.Background()
	require.NoError(t, f.ds.SaveCity(ctx, &datastore.City{
		ID: "55555555-5555-4555-8555-555555555555", Slug: "chennai", State: "Tamil Nadu", Region: "South", DisplayOrder: 1,
	}))
	require.NoError(t, f.store.Upsert(ctx, translation.KindCity,
		"55555555-5555-4555-8555-555555555555", "en", translation.FieldName, "Chennai"))

	cities, err := f.resolver.Cities(ctx, Filters{}, "hi")
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "मुंबई", cities[0].Name)
	// description has no Hindi row, English fills in
	assert.Equal(t, "Financial capital of India.", cities[0].Description)
	// Chennai has no Hindi translations at all
	assert.Equal(t, "Chennai", cities[1].Name)

	filtered, err := f.resolver.Cities(ctx, Filters{State: "maharashtra"}, "en")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "mumbai", filtered[0].Slug)

	searched, err := f.resolver.Cities(ctx, Filters{SearchTerm: "chen"}, "en")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Chennai", searched[0].Name)
}

func TestCityHeritageItems(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	items, err := f.resolver.CityHeritageItems(context.Background(), "mumbai", Filters{}, "en")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Gateway of India", items[0].Name)
	assert.Equal(t, "https://upload.example.org/front-thumb.jpg", items[0].ThumbnailImage)

	// category filter is case-insensitive
	items, err = f.resolver.CityHeritageItems(context.Background(), "mumbai", Filters{Category: "Monument"}, "en")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = f.resolver.CityHeritageItems(context.Background(), "mumbai", Filters{Category: "temple"}, "en")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCityHeritageItemsMissingCity(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	_, err := f.resolver.CityHeritageItems(context.Background(), "atlantis", Filters{}, "en")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCityHeritageItemsPlaceholderThumbnail(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	seedMumbai(t, f)

	ctx := context.Background()
	require.NoError(t, f.ds.SaveHeritageItem(ctx, &datastore.HeritageItem{
		ID: "66666666-6666-4666-8666-666666666666", CityID: mumbaiID, Slug: "bare-fort", Category: "fort", DisplayOrder: 1,
	}))

	items, err := f.resolver.CityHeritageItems(ctx, "mumbai", Filters{}, "en")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://cdn.example.org/images/placeholder.jpg", items[1].ThumbnailImage)
}

func TestLanguagesCatalog(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)

	languages := f.resolver.Languages()
	assert.Len(t, languages, 23)
}

func TestImageOrderingAtScale(t *testing.T) {
	t.Parallel()
	f := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, f.ds.SaveCity(ctx, &datastore.City{ID: mumbaiID, Slug: "mumbai"}))
	require.NoError(t, f.ds.SaveHeritageItem(ctx, &datastore.HeritageItem{
		ID: gatewayID, CityID: mumbaiID, Slug: "gateway-of-india",
	}))

	// insert out of order, expect display_order to decide
	for _, order := range []int{3, 0, 4, 1, 2} {
		imageID := fmt.Sprintf("img-%d", order)
		require.NoError(t, f.ds.SaveImage(ctx, &datastore.ImageRecord{
			ImageID: imageID, HeritageID: gatewayID, DisplayOrder: order,
			RawURL: strPtr(fmt.Sprintf("https://upload.example.org/%d.jpg", order)),
		}))
		require.NoError(t, f.store.Upsert(ctx, translation.KindImage, imageID, "en",
			translation.FieldCaption, fmt.Sprintf("View %d", order)))
	}

	images, err := f.resolver.HeritageImages(ctx, gatewayID, "en")
	require.NoError(t, err)
	require.Len(t, images, 5)
	for i, image := range images {
		assert.Equal(t, fmt.Sprintf("img-%d", i), image.ID)
		assert.Equal(t, fmt.Sprintf("View %d", i), image.Caption)
	}
}
