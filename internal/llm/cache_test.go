package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

func TestMetadataCacheHit(t *testing.T) {
	cache := NewMetadataCache(time.Minute)
	defer cache.Close()

	meta := model.SiteMetadata{
		NormalizedBaseURL:  "https://www.example.com",
		SiteName:           "Example",
		PolicyDocumentURLs: []string{"https://www.example.com/privacy"},
	}
	cache.Set("example", meta)

	got, found := cache.Get("example")
	assert.True(t, found)
	assert.Equal(t, meta, got)
	assert.Equal(t, 1, cache.Size())
}

func TestMetadataCacheMiss(t *testing.T) {
	cache := NewMetadataCache(time.Minute)
	defer cache.Close()

	_, found := cache.Get("never-set")
	assert.False(t, found)
}

func TestMetadataCacheExpiry(t *testing.T) {
	cache := NewMetadataCache(10 * time.Millisecond)
	defer cache.Close()

	cache.Set("example", model.SiteMetadata{NormalizedBaseURL: "https://www.example.com"})

	time.Sleep(20 * time.Millisecond)

	_, found := cache.Get("example")
	assert.False(t, found)
}
