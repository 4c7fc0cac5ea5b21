// Package translation provides batched lookup and upsert of localized field
// values stored in the entity-attribute-value translations table.
package translation

// EntityKind identifies which kind of base record a translation belongs to.
// The set is closed: unknown kinds never reach the storage layer.
type EntityKind string

const (
	KindCity     EntityKind = "city"
	KindHeritage EntityKind = "heritage"
	KindImage    EntityKind = "image"
)

// Field identifies one translatable field of an entity kind.
type Field string

const (
	FieldName                Field = "name"
	FieldDescription         Field = "description"
	FieldSummary             Field = "summary"
	FieldDetailedDescription Field = "detailed_description"
	FieldHistoricalPeriod    Field = "historical_period"
	FieldSignificance        Field = "significance"
	FieldCaption             Field = "caption"
	FieldAltText             Field = "alt_text"
	FieldCulturalContext     Field = "cultural_context"
	FieldLocation            Field = "location"
	FieldPeriod              Field = "period"
)

// FieldSpec declares one translatable field and the default used when the
// fallback chain is exhausted. The default is empty unless declared.
type FieldSpec struct {
	Name    Field
	Default string
}

// fieldSpecs maps each entity kind to its allowed fields. Combinations
// outside this table are rejected before reaching storage.
var fieldSpecs = map[EntityKind][]FieldSpec{
	KindCity: {
		{Name: FieldName},
		{Name: FieldDescription},
	},
	KindHeritage: {
		{Name: FieldName},
		{Name: FieldSummary},
		{Name: FieldDetailedDescription},
		{Name: FieldHistoricalPeriod},
		{Name: FieldSignificance},
	},
	KindImage: {
		{Name: FieldCaption},
		{Name: FieldAltText},
		{Name: FieldDescription},
		{Name: FieldCulturalContext},
		{Name: FieldLocation},
		{Name: FieldPeriod},
	},
}

// FieldsFor returns the field specifications of an entity kind, nil for an
// unknown kind.
func FieldsFor(kind EntityKind) []FieldSpec {
	return fieldSpecs[kind]
}

// IsValidKind reports whether kind belongs to the closed entity kind set.
func IsValidKind(kind EntityKind) bool {
	_, ok := fieldSpecs[kind]
	return ok
}

// IsValidField reports whether field is an allowed field of kind.
func IsValidField(kind EntityKind, field Field) bool {
	for _, spec := range fieldSpecs[kind] {
		if spec.Name == field {
			return true
		}
	}
	return false
}
