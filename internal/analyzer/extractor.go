package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// DefaultMinClauses is the per-category yield target passed to the
// extraction prompt. It is a target, not a guarantee: the extractor
// never fabricates clauses to reach it.
const DefaultMinClauses = 10

// PolicyDocument is one policy document location with its resolved type.
type PolicyDocument struct {
	URL  string
	Type model.PolicyType
}

// ClassifyDocuments assigns a policy type to each document URL and
// orders them so privacy-derived clauses precede terms-derived ones,
// with any remaining data-handling documents last.
func ClassifyDocuments(urls []string) []PolicyDocument {
	docs := make([]PolicyDocument, 0, len(urls))
	for _, u := range urls {
		docs = append(docs, PolicyDocument{URL: u, Type: classifyDocumentURL(u)})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return documentOrder(docs[i].Type) < documentOrder(docs[j].Type)
	})
	return docs
}

func classifyDocumentURL(u string) model.PolicyType {
	lower := strings.ToLower(u)
	switch {
	case strings.Contains(lower, "privacy"):
		return model.PolicyTypePrivacy
	case strings.Contains(lower, "terms"), strings.Contains(lower, "tos"), strings.Contains(lower, "conditions"):
		return model.PolicyTypeTerms
	default:
		return model.PolicyTypeDataHandling
	}
}

func documentOrder(t model.PolicyType) int {
	switch t {
	case model.PolicyTypePrivacy:
		return 0
	case model.PolicyTypeTerms:
		return 1
	default:
		return 2
	}
}

// Extractor produces clauses grouped by category from a site's policy
// documents.
type Extractor struct {
	client     llm.Client
	limiter    *llm.RateLimiter
	logger     *slog.Logger
	retryOpts  service.RetryOptions
	minClauses int
}

// NewExtractor creates a clause extractor.
func NewExtractor(client llm.Client, limiter *llm.RateLimiter, retryOpts service.RetryOptions, logger *slog.Logger) *Extractor {
	return &Extractor{
		client:     client,
		limiter:    limiter,
		logger:     logger,
		retryOpts:  retryOpts,
		minClauses: DefaultMinClauses,
	}
}

// Extract attempts extraction independently for every (document,
// category) pair, issuing the pairs concurrently and joining on an
// all-complete barrier. A failed pair degrades to an empty list for
// that pair only; it never aborts the others. Results are concatenated
// per category in document order, which ClassifyDocuments has already
// arranged as privacy before terms.
func (e *Extractor) Extract(ctx context.Context, docs []PolicyDocument, catalog *rubric.Catalog) (map[string][]model.Clause, error) {
	if len(docs) == 0 {
		return nil, common.ErrNoPolicyDocuments
	}

	names := catalog.Names()

	// results[d][c] holds the clauses for document d, category c.
	results := make([][][]model.Clause, len(docs))
	for i := range results {
		results[i] = make([][]model.Clause, len(names))
	}

	var wg sync.WaitGroup
	for d, doc := range docs {
		for c, name := range names {
			wg.Add(1)
			go func(d, c int, doc PolicyDocument, categoryName string) {
				defer wg.Done()
				clauses, err := e.extractPair(ctx, doc, categoryName)
				if err != nil {
					// Isolated failure: this pair yields nothing.
					e.logger.Warn("extraction pair failed",
						"document", doc.URL,
						"category", categoryName,
						"error", err)
					return
				}
				results[d][c] = clauses
			}(d, c, doc, name)
		}
	}
	wg.Wait()

	byCategory := make(map[string][]model.Clause, len(names))
	for c, name := range names {
		var merged []model.Clause
		for d := range docs {
			merged = append(merged, results[d][c]...)
		}
		byCategory[name] = merged

		if len(merged) < e.minClauses {
			e.logger.Debug("category below clause yield target",
				"category", name,
				"clauses", len(merged),
				"target", e.minClauses)
		}
	}

	return byCategory, nil
}

// extractPair runs the extraction call for one (document, category) pair.
func (e *Extractor) extractPair(ctx context.Context, doc PolicyDocument, categoryName string) ([]model.Clause, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	prompt := buildExtractionPrompt(doc.URL, categoryName, e.minClauses)

	var clauses []model.Clause
	err := common.WithRetry(ctx, func() error {
		response, err := e.client.ExtractClauses(ctx, prompt)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		clauses = response
		return nil
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s for %s: %v", common.ErrExtractionFailed, categoryName, doc.URL, err)
	}

	e.logger.Debug("extracted clauses",
		"document", doc.URL,
		"document_type", doc.Type,
		"category", categoryName,
		"clauses", len(clauses))

	return clauses, nil
}
