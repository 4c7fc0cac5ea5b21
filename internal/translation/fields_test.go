package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsForKinds(t *testing.T) {
	t.Parallel()

	assert.Len(t, FieldsFor(KindCity), 2)
	assert.Len(t, FieldsFor(KindHeritage), 5)
	assert.Len(t, FieldsFor(KindImage), 6)
	assert.Nil(t, FieldsFor(EntityKind("monument")))
}

func TestIsValidField(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidField(KindCity, FieldName))
	assert.True(t, IsValidField(KindHeritage, FieldDetailedDescription))
	assert.True(t, IsValidField(KindImage, FieldCaption))

	// description belongs to cities and images but not heritage items
	assert.True(t, IsValidField(KindCity, FieldDescription))
	assert.True(t, IsValidField(KindImage, FieldDescription))
	assert.False(t, IsValidField(KindHeritage, FieldDescription))

	assert.False(t, IsValidField(KindCity, FieldCaption))
	assert.False(t, IsValidField(EntityKind("monument"), FieldName))
}
