// Package model defines the core domain types shared across the application.
package model

// PolicyType identifies which kind of policy document a clause came from.
type PolicyType string

const (
	// PolicyTypePrivacy is a privacy policy document.
	PolicyTypePrivacy PolicyType = "privacy"
	// PolicyTypeTerms is a terms of service document.
	PolicyTypeTerms PolicyType = "terms"
	// PolicyTypeDataHandling is a separate data-handling or cookie document.
	PolicyTypeDataHandling PolicyType = "data_handling"
)

// MinRelevance is the threshold below which extracted clauses are
// excluded from scoring input. Extraction output keeps them; the
// engine filters before invoking the scorer.
const MinRelevance = 0.3

// Clause is a verbatim excerpt from a policy document with an
// extractor-assigned relevance between 0.0 and 1.0. Clauses are never
// mutated after creation.
type Clause struct {
	Text      string  `json:"clause"`
	Relevance float64 `json:"relevance"`
}

// FilterRelevant returns the clauses at or above MinRelevance,
// preserving order.
func FilterRelevant(clauses []Clause) []Clause {
	filtered := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if c.Relevance >= MinRelevance {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// ClauseTexts returns the raw texts of the given clauses in order.
func ClauseTexts(clauses []Clause) []string {
	texts := make([]string, len(clauses))
	for i, c := range clauses {
		texts[i] = c.Text
	}
	return texts
}
