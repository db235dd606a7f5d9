// Package engine orchestrates the privacy analysis pipeline: cache
// check, metadata resolution, clause extraction, category scoring,
// aggregation, and persistence, tracked through a job state machine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/analyzer"
	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// DefaultFreshness is how long a stored analysis stays authoritative.
// A record is stale only when strictly older than this window.
const DefaultFreshness = 14 * 24 * time.Hour

// Config holds configuration options for the analysis engine.
type Config struct {
	Freshness time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Freshness: DefaultFreshness}
}

// AnalysisEngine runs analysis jobs end to end.
type AnalysisEngine struct {
	storage    service.Storage
	resolver   *analyzer.Resolver
	extractor  *analyzer.Extractor
	scorer     *analyzer.Scorer
	aggregator *analyzer.Aggregator
	catalog    *rubric.Catalog
	inflight   *inflightGate
	logger     *slog.Logger
	freshness  time.Duration
}

// New creates an analysis engine with the default configuration.
func New(storage service.Storage, resolver *analyzer.Resolver, extractor *analyzer.Extractor, scorer *analyzer.Scorer, aggregator *analyzer.Aggregator, catalog *rubric.Catalog, logger *slog.Logger) *AnalysisEngine {
	return NewWithConfig(storage, resolver, extractor, scorer, aggregator, catalog, logger, DefaultConfig())
}

// NewWithConfig creates an analysis engine with custom configuration.
func NewWithConfig(storage service.Storage, resolver *analyzer.Resolver, extractor *analyzer.Extractor, scorer *analyzer.Scorer, aggregator *analyzer.Aggregator, catalog *rubric.Catalog, logger *slog.Logger, config Config) *AnalysisEngine {
	freshness := config.Freshness
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &AnalysisEngine{
		storage:    storage,
		resolver:   resolver,
		extractor:  extractor,
		scorer:     scorer,
		aggregator: aggregator,
		catalog:    catalog,
		inflight:   newInflightGate(),
		logger:     logger,
		freshness:  freshness,
	}
}

// stale reports whether the record is strictly older than the
// freshness window.
func (e *AnalysisEngine) stale(analysis *model.SiteAnalysis, now time.Time) bool {
	return now.Sub(analysis.LastAnalyzed) > e.freshness
}

// Run executes the analysis job end to end and returns the resulting
// analysis record. On a cache hit the stored record is returned
// unmodified. On any failure the job is moved to the error state and
// nothing is persisted.
func (e *AnalysisEngine) Run(ctx context.Context, jobID, siteInput string) (*model.SiteAnalysis, error) {
	analysis, err := e.run(ctx, jobID, siteInput)
	if err != nil {
		if stateErr := e.storage.UpdateJobStatus(ctx, jobID, model.StatusError); stateErr != nil {
			e.logger.Error("failed to mark job as errored", "job_id", jobID, "error", stateErr)
		}
		e.logger.Error("analysis job failed",
			"job_id", jobID,
			"site_input", siteInput,
			"error", err)
		return nil, err
	}
	return analysis, nil
}

func (e *AnalysisEngine) run(ctx context.Context, jobID, siteInput string) (*model.SiteAnalysis, error) {
	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusCheckingRecent); err != nil {
		return nil, err
	}

	// Tag match first: a stored record whose tags contain the raw
	// input resolves the site without an LLM call.
	if hit := e.lookupByTag(ctx, siteInput); hit != nil {
		return e.finalizeCacheHit(ctx, jobID, hit)
	}

	meta, err := e.resolver.Resolve(ctx, siteInput)
	if err != nil {
		return nil, err
	}

	if hit := e.lookupByURL(ctx, meta.NormalizedBaseURL); hit != nil {
		return e.finalizeCacheHit(ctx, jobID, hit)
	}

	// Collapse concurrent duplicate runs for the same site. Followers
	// wait for the leader, then re-check the store.
	release, leader := e.inflight.acquire(ctx, meta.NormalizedBaseURL)
	if release == nil {
		return nil, ctx.Err()
	}
	defer release()

	if !leader {
		if hit := e.lookupByURL(ctx, meta.NormalizedBaseURL); hit != nil {
			return e.finalizeCacheHit(ctx, jobID, hit)
		}
		// Leader failed or the record is already stale again; fall
		// through and run the pipeline ourselves.
	}

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusGettingSiteInfo); err != nil {
		return nil, err
	}

	e.logger.Info("analyzing site",
		"job_id", jobID,
		"site_name", meta.SiteName,
		"normalized_base_url", meta.NormalizedBaseURL)

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusReadingPolicies); err != nil {
		return nil, err
	}

	docs := analyzer.ClassifyDocuments(meta.PolicyDocumentURLs)
	clausesByCategory, err := e.extractor.Extract(ctx, docs, e.catalog)
	if err != nil {
		return nil, err
	}

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusCategorizingScoring); err != nil {
		return nil, err
	}

	scores, err := e.scoreCategories(ctx, clausesByCategory)
	if err != nil {
		return nil, err
	}

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusComputingOverallScore); err != nil {
		return nil, err
	}

	overallScore, reasoning, err := e.aggregator.Aggregate(ctx, e.catalog, scores)
	if err != nil {
		return nil, err
	}

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusFinalizing); err != nil {
		return nil, err
	}

	// Registered tags must cover every string that can resolve this
	// record later: the model's aliases, the raw input, and the
	// normalized URL itself. The store ignores duplicates.
	tags := make([]string, 0, len(meta.Tags)+2)
	tags = append(tags, meta.Tags...)
	tags = append(tags, siteInput, meta.NormalizedBaseURL)

	analysis := &model.SiteAnalysis{
		NormalizedBaseURL:  meta.NormalizedBaseURL,
		SiteName:           meta.SiteName,
		Tags:               tags,
		PolicyDocumentURLs: meta.PolicyDocumentURLs,
		CategoryScores:     scores,
		OverallScore:       overallScore,
		Reasoning:          reasoning,
		LastAnalyzed:       time.Now().UTC(),
	}

	id, err := e.storage.InsertAnalysis(ctx, analysis, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}
	analysis.ID = id

	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusComplete); err != nil {
		return nil, err
	}

	e.logger.Info("analysis complete",
		"job_id", jobID,
		"site_name", analysis.SiteName,
		"overall_score", analysis.OverallScore)

	return analysis, nil
}

// scoreCategories scores every catalog category concurrently. Clauses
// below the relevance threshold are withheld from the model; a
// category with nothing left to show is recorded as an explicit zero
// without a scoring call. Any contract violation fails the whole run.
func (e *AnalysisEngine) scoreCategories(ctx context.Context, clausesByCategory map[string][]model.Clause) ([]model.CategoryScore, error) {
	categories := e.catalog.Categories()
	scores := make([]model.CategoryScore, len(categories))
	errs := make([]error, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		allClauses := clausesByCategory[category.Name]
		filtered := model.FilterRelevant(allClauses)

		if len(filtered) == 0 {
			scores[i] = analyzer.ZeroScore(category, allClauses)
			e.logger.Info("no relevant clauses for category, scoring 0",
				"category", category.Name,
				"clauses_total", len(allClauses))
			continue
		}

		wg.Add(1)
		go func(i int, category rubric.Category, filtered, allClauses []model.Clause) {
			defer wg.Done()
			scores[i], errs[i] = e.scorer.Score(ctx, category, filtered, allClauses)
		}(i, category, filtered, allClauses)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return scores, nil
}

// lookupByTag returns a fresh stored analysis whose tags contain the
// raw input, or nil.
func (e *AnalysisEngine) lookupByTag(ctx context.Context, siteInput string) *model.SiteAnalysis {
	sites, err := e.storage.GetSitesByTag(ctx, siteInput)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			e.logger.Warn("tag lookup failed", "tag", siteInput, "error", err)
		}
		return nil
	}
	now := time.Now().UTC()
	for i := range sites {
		if !e.stale(&sites[i], now) {
			return &sites[i]
		}
	}
	return nil
}

// lookupByURL returns the fresh stored analysis for the URL, or nil.
func (e *AnalysisEngine) lookupByURL(ctx context.Context, normalizedBaseURL string) *model.SiteAnalysis {
	analysis, err := e.storage.GetSiteByURL(ctx, normalizedBaseURL)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			e.logger.Warn("site lookup failed", "url", normalizedBaseURL, "error", err)
		}
		return nil
	}
	if e.stale(analysis, time.Now().UTC()) {
		return nil
	}
	return analysis
}

// finalizeCacheHit short-circuits the job to completion and returns
// the stored record exactly as persisted.
func (e *AnalysisEngine) finalizeCacheHit(ctx context.Context, jobID string, hit *model.SiteAnalysis) (*model.SiteAnalysis, error) {
	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusFinalizing); err != nil {
		return nil, err
	}
	if err := e.storage.UpdateJobStatus(ctx, jobID, model.StatusComplete); err != nil {
		return nil, err
	}

	e.logger.Info("recent analysis found, skipping pipeline",
		"job_id", jobID,
		"site_name", hit.SiteName,
		"last_analyzed", hit.LastAnalyzed)

	return hit, nil
}
