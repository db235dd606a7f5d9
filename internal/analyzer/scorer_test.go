package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
)

func newTestScorer(t *testing.T, scoreFn func(ctx context.Context, prompt string) (llm.ScoreResponse, error)) *Scorer {
	t.Helper()
	limiter := llm.NewRateLimiter(6000)
	t.Cleanup(limiter.Close)
	return NewScorer(&stubClient{scoreFn: scoreFn}, limiter, testRetryOpts(), testLogger())
}

func testCategory(t *testing.T) rubric.Category {
	t.Helper()
	category, err := rubric.New().Get(rubric.DataSharing)
	require.NoError(t, err)
	return category
}

func TestScoreCarriesFullClauseList(t *testing.T) {
	scorer := newTestScorer(t, func(_ context.Context, _ string) (llm.ScoreResponse, error) {
		return llm.ScoreResponse{Score: 7, Reasoning: "limited sharing"}, nil
	})

	all := []model.Clause{
		{Text: "relevant clause", Relevance: 0.8},
		{Text: "weakly related clause", Relevance: 0.1},
	}
	filtered := model.FilterRelevant(all)

	score, err := scorer.Score(context.Background(), testCategory(t), filtered, all)
	require.NoError(t, err)

	assert.Equal(t, rubric.DataSharing, score.CategoryName)
	assert.Equal(t, 7.0, score.Score)
	assert.Equal(t, "limited sharing", score.Reasoning)
	// The audit list keeps everything, including what the model never saw.
	assert.Equal(t, []string{"relevant clause", "weakly related clause"}, score.SupportingClauses)
}

func TestScoreOutOfRangeIsHardError(t *testing.T) {
	for _, bad := range []float64{10.5, 11, -1} {
		scorer := newTestScorer(t, func(_ context.Context, _ string) (llm.ScoreResponse, error) {
			return llm.ScoreResponse{Score: bad, Reasoning: "confident"}, nil
		})

		_, err := scorer.Score(context.Background(), testCategory(t),
			[]model.Clause{{Text: "c", Relevance: 0.9}},
			[]model.Clause{{Text: "c", Relevance: 0.9}})

		require.Error(t, err, "score %g", bad)
		assert.ErrorIs(t, err, common.ErrScoringContract)
	}
}

func TestScoreEmptyReasoningIsHardError(t *testing.T) {
	scorer := newTestScorer(t, func(_ context.Context, _ string) (llm.ScoreResponse, error) {
		return llm.ScoreResponse{Score: 5, Reasoning: "   "}, nil
	})

	_, err := scorer.Score(context.Background(), testCategory(t),
		[]model.Clause{{Text: "c", Relevance: 0.9}},
		[]model.Clause{{Text: "c", Relevance: 0.9}})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrScoringContract)
}

func TestScoreRejectsEmptyFilteredList(t *testing.T) {
	scorer := newTestScorer(t, func(_ context.Context, _ string) (llm.ScoreResponse, error) {
		t.Fatal("scoring call must not be made without clauses")
		return llm.ScoreResponse{}, nil
	})

	_, err := scorer.Score(context.Background(), testCategory(t), nil,
		[]model.Clause{{Text: "below threshold", Relevance: 0.1}})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrScoringContract)
}

func TestZeroScore(t *testing.T) {
	all := []model.Clause{
		{Text: "first", Relevance: 0.2},
		{Text: "second", Relevance: 0.1},
	}

	score := ZeroScore(testCategory(t), all)

	assert.Equal(t, rubric.DataSharing, score.CategoryName)
	assert.Equal(t, 0.0, score.Score)
	assert.Empty(t, score.Reasoning)
	assert.Equal(t, []string{"first", "second"}, score.SupportingClauses)
}
