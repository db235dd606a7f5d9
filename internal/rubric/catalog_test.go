package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogOrderAndWeights(t *testing.T) {
	catalog := New()

	require.Equal(t, 5, catalog.Len())
	assert.Equal(t, []string{
		DataCollection,
		DataSharing,
		DataRetentionSec,
		UserRightsControls,
		TransparencyClarity,
	}, catalog.Names())

	wantWeights := map[string]float64{
		DataCollection:      1.0,
		DataSharing:         1.5,
		DataRetentionSec:    1.2,
		UserRightsControls:  1.0,
		TransparencyClarity: 0.8,
	}
	for name, want := range wantWeights {
		got, err := catalog.Weight(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "weight for %s", name)
	}

	assert.InDelta(t, 5.5, catalog.TotalWeight(), 1e-9)
}

func TestCatalogUnknownCategory(t *testing.T) {
	catalog := New()

	_, err := catalog.Get("Cookie Banners")
	assert.Error(t, err)

	_, err = catalog.Weight("Cookie Banners")
	assert.Error(t, err)

	assert.False(t, catalog.Contains("Cookie Banners"))
	assert.True(t, catalog.Contains(DataSharing))
}

func TestCatalogRubricsAreGraduated(t *testing.T) {
	catalog := New()

	for _, category := range catalog.Categories() {
		require.Len(t, category.Rubric, 10, "rubric for %s", category.Name)
		for i, anchor := range category.Rubric {
			assert.Equal(t, float64(10-i), anchor.Score,
				"anchor %d for %s", i, category.Name)
			assert.NotEmpty(t, anchor.Description)
		}
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	catalog := New()

	names := catalog.Names()
	names[0] = "mutated"
	assert.Equal(t, DataCollection, catalog.Names()[0])
}
