package model

import (
	"fmt"
	"time"
)

// CategoryScore is the scored result for one rubric category.
//
// SupportingClauses holds the full original clause-text list for the
// category, not just the relevance-filtered subset the scorer saw.
// Insertion order matters for display, not for scoring.
type CategoryScore struct {
	CategoryName      string   `json:"category_name"`
	Score             float64  `json:"category_score"`
	Reasoning         string   `json:"reasoning"`
	SupportingClauses []string `json:"supporting_clauses"`
}

// Validate checks the scoring contract: score in [0,10] inclusive, and
// non-empty reasoning whenever the category had scoring evidence.
// Violations are hard errors, never clamped.
func (cs *CategoryScore) Validate() error {
	if cs.CategoryName == "" {
		return fmt.Errorf("category name is required")
	}
	if cs.Score < 0 || cs.Score > 10 {
		return fmt.Errorf("score for %s out of range: %g, expected between 0 and 10", cs.CategoryName, cs.Score)
	}
	return nil
}

// SiteAnalysis is the persisted unit of a finished analysis. Immutable
// once written; re-analysis inserts a replacement row and the newest
// row for a normalized URL is authoritative.
type SiteAnalysis struct {
	LastAnalyzed       time.Time       `json:"last_analyzed"`
	ID                 string          `json:"id"`
	NormalizedBaseURL  string          `json:"normalized_base_url"`
	SiteName           string          `json:"site_name"`
	Reasoning          string          `json:"reasoning"`
	PolicyDocumentURLs []string        `json:"policy_documents_urls"`
	Tags               []string        `json:"tags,omitempty"`
	CategoryScores     []CategoryScore `json:"category_scores"`
	OverallScore       float64         `json:"overall_score"`
}

// SiteMetadata is the resolved identity of a site: its canonical URL,
// display name, lookup tags, and policy document locations.
type SiteMetadata struct {
	NormalizedBaseURL  string   `json:"normalized_base_url"`
	SiteName           string   `json:"site_name"`
	Tags               []string `json:"tags"`
	PolicyDocumentURLs []string `json:"policy_documents_urls"`
}

// Validate ensures the metadata identifies an analyzable site.
func (m *SiteMetadata) Validate() error {
	if m.NormalizedBaseURL == "" {
		return fmt.Errorf("normalized base URL is required")
	}
	if len(m.PolicyDocumentURLs) == 0 {
		return fmt.Errorf("no policy document URLs resolved for %s", m.NormalizedBaseURL)
	}
	return nil
}
