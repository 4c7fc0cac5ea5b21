package translation

import (
	"context"
	"log/slog"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/errors"
	"github.com/culturalatlas/heritage-go/internal/logging"
)

// Translations maps entity IDs to their localized field values in one
// language. Entities without any translation simply have no entry.
type Translations map[string]map[Field]string

// Get returns the localized value of field for entityID, empty when absent.
func (t Translations) Get(entityID string, field Field) string {
	return t[entityID][field]
}

// Store provides batched translation lookups and validated upserts on top of
// the datastore.
type Store struct {
	ds     datastore.Interface
	logger *slog.Logger
	debug  bool
}

// NewStore creates a translation store backed by ds.
func NewStore(ds datastore.Interface, settings *conf.Settings) *Store {
	return &Store{
		ds:     ds,
		logger: logging.ForService("translation"),
		debug:  settings != nil && settings.Debug,
	}
}

// GetTranslations fetches the localized field values of a set of entities in
// one language using a single storage query. Missing rows are not an error;
// they are resolved later by the fallback chain.
func (s *Store) GetTranslations(ctx context.Context, kind EntityKind, entityIDs []string, languageCode string) (Translations, error) {
	if !IsValidKind(kind) {
		return nil, errors.Newf("unknown entity kind: %s", kind).
			Component("translation").
			Category(errors.CategoryValidation).
			Context("entity_kind", string(kind)).
			Build()
	}
	if len(entityIDs) == 0 {
		return Translations{}, nil
	}

	rows, err := s.ds.GetTranslations(ctx, string(kind), entityIDs, languageCode)
	if err != nil {
		return nil, errors.New(err).
			Component("translation").
			Category(errors.CategoryDatabase).
			Context("entity_kind", string(kind)).
			Context("language", languageCode).
			Context("entity_count", len(entityIDs)).
			Build()
	}

	result := make(Translations, len(entityIDs))
	for i := range rows {
		row := &rows[i]
		field := Field(row.FieldName)
		if !IsValidField(kind, field) {
			// Rows written before a field was retired are skipped, not fatal.
			if s.debug && s.logger != nil {
				s.logger.Debug("Skipping translation row with unknown field",
					"entity_kind", row.EntityKind,
					"entity_id", row.EntityID,
					"field", row.FieldName)
			}
			continue
		}
		fields, ok := result[row.EntityID]
		if !ok {
			fields = make(map[Field]string, len(fieldSpecs[kind]))
			result[row.EntityID] = fields
		}
		fields[field] = row.Content
	}
	return result, nil
}

// Upsert writes one localized field value with overwrite semantics. The
// (kind, field) combination and the language code are validated before the
// row reaches storage.
func (s *Store) Upsert(ctx context.Context, kind EntityKind, entityID, languageCode string, field Field, content string) error {
	if !IsValidKind(kind) {
		return errors.Newf("unknown entity kind: %s", kind).
			Component("translation").
			Category(errors.CategoryValidation).
			Build()
	}
	if !IsValidField(kind, field) {
		return errors.Newf("field %s is not valid for entity kind %s", field, kind).
			Component("translation").
			Category(errors.CategoryValidation).
			Context("entity_kind", string(kind)).
			Context("field", string(field)).
			Build()
	}
	normalized, err := conf.NormalizeLanguageCode(languageCode)
	if err != nil {
		return errors.New(err).
			Component("translation").
			Category(errors.CategoryValidation).
			Context("language", languageCode).
			Build()
	}

	row := &datastore.Translation{
		EntityKind:   string(kind),
		EntityID:     entityID,
		LanguageCode: normalized,
		FieldName:    string(field),
		Content:      content,
	}
	if err := s.ds.UpsertTranslation(ctx, row); err != nil {
		return errors.New(err).
			Component("translation").
			Category(errors.CategoryDatabase).
			Context("entity_kind", string(kind)).
			Context("entity_id", entityID).
			Build()
	}

	if s.debug && s.logger != nil {
		s.logger.Debug("Upserted translation",
			"entity_kind", string(kind),
			"entity_id", entityID,
			"language", normalized,
			"field", string(field))
	}
	return nil
}
