package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// Command creates the command that loads a small demonstration dataset.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a demonstration dataset into the database",
		Long:  "Populate the configured database with a small set of cities, heritage items, images and translations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), settings)
		},
	}
}

type translationRow struct {
	kind     translation.EntityKind
	entityID string
	language string
	field    translation.Field
	content  string
}

func runSeed(ctx context.Context, settings *conf.Settings) error {
	logger := logging.ForService("seed")

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("Failed to close datastore", "error", err)
		}
	}()

	store := translation.NewStore(ds, settings)

	mumbai := &datastore.City{
		ID:           uuid.NewString(),
		Slug:         "mumbai",
		State:        "Maharashtra",
		Region:       "West",
		DisplayOrder: 0,
	}
	if err := ds.SaveCity(ctx, mumbai); err != nil {
		return fmt.Errorf("failed to save city: %w", err)
	}

	gateway := &datastore.HeritageItem{
		ID:           uuid.NewString(),
		CityID:       mumbai.ID,
		Slug:         "gateway-of-india",
		Category:     "monument",
		DisplayOrder: 0,
	}
	if err := ds.SaveHeritageItem(ctx, gateway); err != nil {
		return fmt.Errorf("failed to save heritage item: %w", err)
	}

	frontURL := "https://upload.example.org/gateway-front.jpg"
	frontThumb := "https://upload.example.org/gateway-front-thumb.jpg"
	sideURL := "https://upload.example.org/gateway-side.jpg"

	images := []*datastore.ImageRecord{
		{
			ImageID:         uuid.NewString(),
			HeritageID:      gateway.ID,
			RawURL:          &frontURL,
			RawThumbnailURL: &frontThumb,
			DisplayOrder:    0,
		},
		{
			// No thumbnail on record, served with the placeholder.
			ImageID:      uuid.NewString(),
			HeritageID:   gateway.ID,
			RawURL:       &sideURL,
			DisplayOrder: 1,
		},
	}
	for _, img := range images {
		if err := ds.SaveImage(ctx, img); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
	}

	rows := []translationRow{
		{translation.KindCity, mumbai.ID, "en", translation.FieldName, "Mumbai"},
		{translation.KindCity, mumbai.ID, "en", translation.FieldDescription, "Financial capital of India and home of colonial-era landmarks."},
		{translation.KindCity, mumbai.ID, "hi", translation.FieldName, "मुंबई"},
		{translation.KindCity, mumbai.ID, "mr", translation.FieldName, "मुंबई"},

		{translation.KindHeritage, gateway.ID, "en", translation.FieldName, "Gateway of India"},
		{translation.KindHeritage, gateway.ID, "en", translation.FieldSummary, "Arch monument on the Mumbai waterfront completed in 1924."},
		{translation.KindHeritage, gateway.ID, "en", translation.FieldDetailedDescription, "Built to commemorate the landing of King George V, the basalt arch blends Indo-Saracenic and Gujarati architectural styles."},
		{translation.KindHeritage, gateway.ID, "en", translation.FieldHistoricalPeriod, "British colonial era"},
		{translation.KindHeritage, gateway.ID, "en", translation.FieldSignificance, "Primary ceremonial entrance to India by sea during the colonial period."},
		{translation.KindHeritage, gateway.ID, "hi", translation.FieldName, "गेटवे ऑफ़ इंडिया"},
		{translation.KindHeritage, gateway.ID, "hi", translation.FieldSummary, "मुंबई तट पर स्थित स्मारक मेहराब।"},

		{translation.KindImage, images[0].ImageID, "en", translation.FieldCaption, "Gateway of India - Front View"},
		{translation.KindImage, images[0].ImageID, "en", translation.FieldAltText, "Front elevation of the Gateway of India arch"},
		{translation.KindImage, images[0].ImageID, "en", translation.FieldLocation, "Apollo Bunder, Mumbai"},
		{translation.KindImage, images[1].ImageID, "en", translation.FieldCaption, "Gateway of India - Side View"},
		{translation.KindImage, images[1].ImageID, "en", translation.FieldAltText, "Side elevation of the Gateway of India arch"},
	}
	for _, row := range rows {
		if err := store.Upsert(ctx, row.kind, row.entityID, row.language, row.field, row.content); err != nil {
			return fmt.Errorf("failed to store translation for %s/%s: %w", row.kind, row.field, err)
		}
	}

	logger.Info("Seed data loaded",
		"cities", 1,
		"heritage_items", 1,
		"images", len(images),
		"translations", len(rows),
	)
	fmt.Println("Seed data loaded")

	return nil
}
