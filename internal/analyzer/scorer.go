package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// Scorer scores one category's clauses against its rubric.
type Scorer struct {
	client    llm.Client
	limiter   *llm.RateLimiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewScorer creates a category scorer.
func NewScorer(client llm.Client, limiter *llm.RateLimiter, retryOpts service.RetryOptions, logger *slog.Logger) *Scorer {
	return &Scorer{
		client:    client,
		limiter:   limiter,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Score scores one category. filtered is the relevance-filtered clause
// list the model sees; allClauses is the full unfiltered list carried
// into SupportingClauses for audit display.
//
// The caller must not invoke Score with an empty filtered list; a
// scoreless category is represented by ZeroScore instead. A returned
// score outside [0, 10] or an empty reasoning is a hard error for the
// category, never clamped or defaulted, so rubric misbehavior stays
// visible.
func (s *Scorer) Score(ctx context.Context, category rubric.Category, filtered, allClauses []model.Clause) (model.CategoryScore, error) {
	if len(filtered) == 0 {
		return model.CategoryScore{}, fmt.Errorf("%w: no clauses to score for %s", common.ErrScoringContract, category.Name)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return model.CategoryScore{}, fmt.Errorf("rate limit error: %w", err)
	}

	prompt := buildScoringPrompt(category, filtered)

	var response llm.ScoreResponse
	err := common.WithRetry(ctx, func() error {
		resp, err := s.client.ScoreCategory(ctx, prompt)
		if err != nil {
			s.logger.Warn("category scoring attempt failed",
				"category", category.Name,
				"error", err)
			return &common.RetryableError{Err: err, Retryable: true}
		}
		response = resp
		return nil
	}, s.retryOpts)
	if err != nil {
		return model.CategoryScore{}, fmt.Errorf("scoring failed for %s: %w", category.Name, err)
	}

	if response.Score < 0 || response.Score > 10 {
		return model.CategoryScore{}, fmt.Errorf("%w: score out of range for %s: %g, expected between 0 and 10",
			common.ErrScoringContract, category.Name, response.Score)
	}
	if strings.TrimSpace(response.Reasoning) == "" {
		return model.CategoryScore{}, fmt.Errorf("%w: empty reasoning for %s", common.ErrScoringContract, category.Name)
	}

	score := model.CategoryScore{
		CategoryName:      category.Name,
		Score:             response.Score,
		Reasoning:         response.Reasoning,
		SupportingClauses: model.ClauseTexts(allClauses),
	}

	s.logger.Info("category scored",
		"category", category.Name,
		"score", score.Score,
		"clauses_scored", len(filtered),
		"clauses_total", len(allClauses))

	return score, nil
}

// ZeroScore is the explicit insufficient-evidence result for a
// category with no clauses at or above the relevance threshold. The
// scoring call is never made; the category still appears in the
// analysis with the full (unfiltered) clause list for audit.
func ZeroScore(category rubric.Category, allClauses []model.Clause) model.CategoryScore {
	return model.CategoryScore{
		CategoryName:      category.Name,
		Score:             0,
		Reasoning:         "",
		SupportingClauses: model.ClauseTexts(allClauses),
	}
}
