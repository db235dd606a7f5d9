package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KigoJomo/privacy-peek/internal/analyzer"
	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
	"github.com/KigoJomo/privacy-peek/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, client llm.Client) (*AnalysisEngine, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	logger := testLogger()
	retryOpts := service.RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2.0,
	}

	limiter := llm.NewRateLimiter(60000)
	t.Cleanup(limiter.Close)

	resolver := analyzer.NewResolver(client, limiter, time.Minute, retryOpts, logger)
	t.Cleanup(resolver.Close)
	extractor := analyzer.NewExtractor(client, limiter, retryOpts, logger)
	scorer := analyzer.NewScorer(client, limiter, retryOpts, logger)
	aggregator := analyzer.NewAggregator(client, limiter, retryOpts, logger)

	eng := New(store, resolver, extractor, scorer, aggregator, rubric.New(), logger)
	return eng, store
}

func createJob(t *testing.T, store *storage.SQLiteStorage, siteInput string) *model.AnalysisJob {
	t.Helper()
	job, err := store.CreateJob(context.Background(), siteInput)
	require.NoError(t, err)
	return job
}

func TestRunFullPipeline(t *testing.T) {
	client := NewMockClient()
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	analysis, err := eng.Run(ctx, job.ID, "example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://www.example.com", analysis.NormalizedBaseURL)
	assert.NotEmpty(t, analysis.ID)
	require.Len(t, analysis.CategoryScores, 5)
	for _, cs := range analysis.CategoryScores {
		assert.Equal(t, 6.0, cs.Score, "category %s", cs.CategoryName)
		// Supporting clauses keep the full unfiltered list.
		assert.Len(t, cs.SupportingClauses, 4)
	}
	// All categories at 6 gives a weighted overall of exactly 60.
	assert.Equal(t, 60.0, analysis.OverallScore)
	assert.Equal(t, "Middling scores across the board.", analysis.Reasoning)

	// 2 documents x 5 categories.
	_, extract, score, _ := client.Calls()
	assert.Equal(t, 10, extract)
	assert.Equal(t, 5, score)

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, got.Status)

	persisted, err := store.GetSiteByURL(ctx, "https://www.example.com")
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, persisted.ID)
}

func TestRunCacheHitReturnsStoredRecordUnmodified(t *testing.T) {
	client := NewMockClient()
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	first := createJob(t, store, "example.com")
	original, err := eng.Run(ctx, first.ID, "example.com")
	require.NoError(t, err)

	resolveBefore, extractBefore, scoreBefore, _ := client.Calls()

	second := createJob(t, store, "example.com")
	cached, err := eng.Run(ctx, second.ID, "example.com")
	require.NoError(t, err)

	assert.Equal(t, original.ID, cached.ID)
	assert.Equal(t, original.OverallScore, cached.OverallScore)

	// The tag lookup resolved the repeat without any model calls.
	resolveAfter, extractAfter, scoreAfter, _ := client.Calls()
	assert.Equal(t, resolveBefore, resolveAfter)
	assert.Equal(t, extractBefore, extractAfter)
	assert.Equal(t, scoreBefore, scoreAfter)

	got, err := store.GetJob(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, got.Status)
}

func TestRunRegistersInputAndURLAsTags(t *testing.T) {
	// The model's tag list carries neither the raw input nor the
	// normalized URL; both must still resolve the record afterwards.
	client := NewMockClient()
	client.ResolveFn = func(_ context.Context, _ string) (model.SiteMetadata, error) {
		return model.SiteMetadata{
			NormalizedBaseURL: "https://www.example.com",
			SiteName:          "Example",
			Tags:              []string{"Example", "Tech Company"},
			PolicyDocumentURLs: []string{
				"https://www.example.com/privacy",
				"https://www.example.com/terms",
			},
		}, nil
	}
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	analysis, err := eng.Run(ctx, job.ID, "example.com")
	require.NoError(t, err)

	for _, tag := range []string{"example.com", "https://www.example.com", "Example", "Tech Company"} {
		sites, err := store.GetSitesByTag(ctx, tag)
		require.NoError(t, err)
		require.Len(t, sites, 1, "tag %q must resolve the record", tag)
		assert.Equal(t, analysis.ID, sites[0].ID)
	}
}

func TestStaleBoundaryMillisecond(t *testing.T) {
	eng := &AnalysisEngine{freshness: DefaultFreshness}
	now := time.Now().UTC()

	// A record aged exactly the window is still fresh; staleness
	// requires strictly older.
	exact := &model.SiteAnalysis{LastAnalyzed: now.Add(-DefaultFreshness)}
	assert.False(t, eng.stale(exact, now))

	inside := &model.SiteAnalysis{LastAnalyzed: now.Add(-DefaultFreshness + time.Millisecond)}
	assert.False(t, eng.stale(inside, now))

	outside := &model.SiteAnalysis{LastAnalyzed: now.Add(-DefaultFreshness - time.Millisecond)}
	assert.True(t, eng.stale(outside, now))
}

// Seed offsets stay wide of the boundary: wall-clock time advances
// between seeding and the lookup, so a millisecond margin here would
// race. The exact boundary is pinned in TestStaleBoundaryMillisecond.
func TestRunStalenessBoundary(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *storage.SQLiteStorage, age time.Duration) {
		t.Helper()
		_, err := store.InsertAnalysis(ctx, &model.SiteAnalysis{
			NormalizedBaseURL: "https://www.example.com",
			SiteName:          "Example",
			CategoryScores: []model.CategoryScore{
				{CategoryName: rubric.DataSharing, Score: 9, Reasoning: "seeded"},
			},
			OverallScore:       90,
			PolicyDocumentURLs: []string{"https://www.example.com/privacy"},
			LastAnalyzed:       time.Now().UTC().Add(-age),
		}, []string{"example.com"})
		require.NoError(t, err)
	}

	t.Run("just inside the window is a hit", func(t *testing.T) {
		client := NewMockClient()
		eng, store := newTestEngine(t, client)
		seed(t, store, DefaultFreshness-time.Minute)

		job := createJob(t, store, "example.com")
		analysis, err := eng.Run(ctx, job.ID, "example.com")
		require.NoError(t, err)

		assert.Equal(t, 90.0, analysis.OverallScore)
		resolve, extract, score, _ := client.Calls()
		assert.Zero(t, resolve+extract+score)
	})

	t.Run("just past the window triggers a rerun", func(t *testing.T) {
		client := NewMockClient()
		eng, store := newTestEngine(t, client)
		seed(t, store, DefaultFreshness+time.Minute)

		job := createJob(t, store, "example.com")
		analysis, err := eng.Run(ctx, job.ID, "example.com")
		require.NoError(t, err)

		assert.Equal(t, 60.0, analysis.OverallScore)
		resolve, _, _, _ := client.Calls()
		assert.Equal(t, 1, resolve)
	})
}

func TestRunZeroRelevantClausesSkipsScorer(t *testing.T) {
	client := NewMockClient()
	client.ExtractFn = func(_ context.Context, _ string) ([]model.Clause, error) {
		return []model.Clause{{Text: "barely related", Relevance: 0.1}}, nil
	}
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	analysis, err := eng.Run(ctx, job.ID, "example.com")
	require.NoError(t, err)

	_, _, score, _ := client.Calls()
	assert.Zero(t, score, "scorer must not be invoked without relevant clauses")

	for _, cs := range analysis.CategoryScores {
		assert.Equal(t, 0.0, cs.Score)
		assert.Empty(t, cs.Reasoning)
		// The full clause list still appears for audit.
		assert.Equal(t, []string{"barely related", "barely related"}, cs.SupportingClauses)
	}
	assert.Equal(t, 0.0, analysis.OverallScore)
}

func TestRunScoringContractViolationFailsJob(t *testing.T) {
	client := NewMockClient()
	client.ScoreFn = FailingScoreFn(11)
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	_, err := eng.Run(ctx, job.ID, "example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrScoringContract)

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, got.Status)

	// Nothing persisted on failure.
	_, err = store.GetSiteByURL(ctx, "https://www.example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRunMetadataFailureFailsJob(t *testing.T) {
	client := NewMockClient()
	client.ResolveFn = func(_ context.Context, _ string) (model.SiteMetadata, error) {
		return model.SiteMetadata{NormalizedBaseURL: "https://www.example.com"}, nil
	}
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	_, err := eng.Run(ctx, job.ID, "example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoPolicyDocuments)

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, got.Status)
}

func TestRunExtractionTotalFailureStillCompletes(t *testing.T) {
	// Per-pair extraction failures are isolated; even if every pair
	// fails, the run completes with zero scores rather than erroring.
	client := NewMockClient()
	client.ExtractFn = ErroringExtractFn()
	eng, store := newTestEngine(t, client)
	ctx := context.Background()

	job := createJob(t, store, "example.com")
	analysis, err := eng.Run(ctx, job.ID, "example.com")
	require.NoError(t, err)

	assert.Equal(t, 0.0, analysis.OverallScore)
	for _, cs := range analysis.CategoryScores {
		assert.Empty(t, cs.SupportingClauses)
	}

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, got.Status)
}
