package llm

import (
	"context"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// Client defines the interface for LLM providers.
type Client interface {
	// ResolveSiteMetadata resolves a site's canonical identity and
	// policy document locations.
	ResolveSiteMetadata(ctx context.Context, prompt string) (model.SiteMetadata, error)
	// ExtractClauses extracts policy clauses for one (document,
	// category) pair. Malformed structured output decodes to an empty
	// slice, never a partial guess.
	ExtractClauses(ctx context.Context, prompt string) ([]model.Clause, error)
	// ScoreCategory scores one category against its rubric. The decode
	// is strict: shape violations are returned as errors so rubric
	// misbehavior stays visible to callers.
	ScoreCategory(ctx context.Context, prompt string) (ScoreResponse, error)
	// Explain generates a short natural-language explanation. Callers
	// treat failures as recoverable.
	Explain(ctx context.Context, prompt string) (string, error)
}

// ScoreResponse contains the LLM's category scoring result.
type ScoreResponse struct {
	Reasoning string  `json:"reasoning"`
	Score     float64 `json:"score"`
}
