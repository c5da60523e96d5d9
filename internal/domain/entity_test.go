package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntity(t *testing.T) {
	tests := []struct {
		input string
		want  Entity
	}{
		{"category", EntityCategory},
		{"categories", EntityCategory},
		{"Reference-Areas", EntityReferenceArea},
		{" periodicities ", EntityPeriodicity},
		{"time-series", EntityTimeSeries},
		{"time-series-list", EntityTimeSeries},
		{"units-of-measure", EntityUnitOfMeasure},
		{"data", EntityData},
		{"", EntityUnknown},
		{"scope", EntityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEntity(tt.input))
		})
	}
}

func TestEntityLabels(t *testing.T) {
	for _, e := range Entities() {
		assert.NotEmpty(t, e.Label(), "entity %d", e)
		assert.Equal(t, e, ParseEntity(e.Label()))
		if e.Listable() {
			assert.NotEmpty(t, e.Plural(), e.Label())
		}
	}

	assert.Len(t, Entities(), 18)
	assert.Equal(t, "unknown", EntityUnknown.String())
	assert.Equal(t, "unit-of-measure", EntityUnitOfMeasure.String())
	assert.False(t, EntityTimeSeries.Listable())
	assert.False(t, EntityMetadata.Listable())
	assert.True(t, EntitySection.Listable())
}
