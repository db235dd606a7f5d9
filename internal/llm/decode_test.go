package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSiteMetadata(t *testing.T) {
	content := "```json\n" + `{
		"normalized_base_url": "https://www.example.com",
		"site_name": "Example",
		"tags": ["Example", "example.com"],
		"policy_documents_urls": ["https://www.example.com/privacy", "https://www.example.com/terms"]
	}` + "\n```"

	meta, err := parseSiteMetadata(content)
	require.NoError(t, err)

	assert.Equal(t, "https://www.example.com", meta.NormalizedBaseURL)
	assert.Equal(t, "Example", meta.SiteName)
	assert.Len(t, meta.Tags, 2)
	assert.Len(t, meta.PolicyDocumentURLs, 2)
}

func TestParseSiteMetadataErrors(t *testing.T) {
	_, err := parseSiteMetadata("not json at all")
	assert.Error(t, err)

	_, err = parseSiteMetadata(`{"site_name": "missing url"}`)
	assert.Error(t, err)
}

func TestParseScore(t *testing.T) {
	resp, err := parseScore(`{"score": 7, "reasoning": "limited sharing with partners"}`)
	require.NoError(t, err)
	assert.Equal(t, 7.0, resp.Score)
	assert.Equal(t, "limited sharing with partners", resp.Reasoning)
}

func TestParseScoreZeroIsValid(t *testing.T) {
	resp, err := parseScore(`{"score": 0, "reasoning": "no protections described"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Score)
}

func TestParseScoreStrictness(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing score", `{"reasoning": "no score given"}`},
		{"non-string reasoning", `{"score": 5, "reasoning": 42}`},
		{"object reasoning", `{"score": 5, "reasoning": {"text": "nested"}}`},
		{"empty reasoning", `{"score": 5, "reasoning": "  "}`},
		{"no json object", "just words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScore(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestParseScoreDoesNotClamp(t *testing.T) {
	// Out-of-range values decode fine here; the scorer enforces the
	// range so the violation carries the category name.
	resp, err := parseScore(`{"score": 12, "reasoning": "overenthusiastic"}`)
	require.NoError(t, err)
	assert.Equal(t, 12.0, resp.Score)
}
