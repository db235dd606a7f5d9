package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// parseSiteMetadata decodes a site metadata object from model output.
func parseSiteMetadata(content string) (model.SiteMetadata, error) {
	content = cleanMarkdownWrapper(content)

	payload := extractJSONObject(content)
	if payload == "" {
		return model.SiteMetadata{}, fmt.Errorf("no JSON object found in metadata response")
	}

	var meta model.SiteMetadata
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		return model.SiteMetadata{}, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	if meta.NormalizedBaseURL == "" {
		return model.SiteMetadata{}, fmt.Errorf("no normalized base URL in metadata response")
	}

	return meta, nil
}

// parseScore decodes a category scoring object. The decode is strict:
// a missing score, or a reasoning that is not a string, fails here so
// the caller can surface it as a contract violation rather than
// defaulting the category.
func parseScore(content string) (ScoreResponse, error) {
	content = cleanMarkdownWrapper(content)

	payload := extractJSONObject(content)
	if payload == "" {
		return ScoreResponse{}, fmt.Errorf("no JSON object found in scoring response")
	}

	var raw struct {
		Score     *float64        `json:"score"`
		Reasoning json.RawMessage `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return ScoreResponse{}, fmt.Errorf("failed to parse scoring response: %w", err)
	}

	if raw.Score == nil {
		return ScoreResponse{}, fmt.Errorf("no score in scoring response")
	}

	var reasoning string
	if err := json.Unmarshal(raw.Reasoning, &reasoning); err != nil {
		return ScoreResponse{}, fmt.Errorf("reasoning is not a string: %s", string(raw.Reasoning))
	}
	if strings.TrimSpace(reasoning) == "" {
		return ScoreResponse{}, fmt.Errorf("empty reasoning in scoring response")
	}

	return ScoreResponse{Score: *raw.Score, Reasoning: reasoning}, nil
}
