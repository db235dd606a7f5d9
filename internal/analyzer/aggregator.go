package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/rubric"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// ComputeOverallScore returns the deterministic weighted overall score
// on a 0-100 scale, rounded to 2 decimal places:
//
//	round2(10 * Σ weight(c)*score(c) / Σ weight(c))
//
// summed over every catalog category, with scoreless categories
// contributing 0. Code for the math, AI for the words: no model output
// ever touches this number. The result is invariant to the order of
// the scores slice.
func ComputeOverallScore(catalog *rubric.Catalog, scores []model.CategoryScore) (float64, error) {
	byName := make(map[string]model.CategoryScore, len(scores))
	for _, cs := range scores {
		if !catalog.Contains(cs.CategoryName) {
			return 0, fmt.Errorf("unknown category in scores: %q", cs.CategoryName)
		}
		if err := cs.Validate(); err != nil {
			return 0, err
		}
		byName[cs.CategoryName] = cs
	}

	var weightedSum float64
	// Iterate the catalog, not the input, so every category counts
	// exactly once and absent ones contribute 0.
	for _, cat := range catalog.Categories() {
		weightedSum += cat.Weight * byName[cat.Name].Score
	}

	result := 10 * (weightedSum / catalog.TotalWeight())
	return round2(result), nil
}

// round2 rounds to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Aggregator computes the overall score and requests a best-effort
// natural-language explanation for it.
type Aggregator struct {
	client    llm.Client
	limiter   *llm.RateLimiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewAggregator creates an overall score aggregator.
func NewAggregator(client llm.Client, limiter *llm.RateLimiter, retryOpts service.RetryOptions, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		client:    client,
		limiter:   limiter,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Aggregate computes the overall score and explanation. Explanation
// failure never blocks the score: the number is returned with an empty
// reasoning string instead of propagating the error.
func (a *Aggregator) Aggregate(ctx context.Context, catalog *rubric.Catalog, scores []model.CategoryScore) (float64, string, error) {
	overallScore, err := ComputeOverallScore(catalog, scores)
	if err != nil {
		return 0, "", err
	}

	reasoning := a.explain(ctx, catalog, scores, overallScore)

	a.logger.Info("overall score computed",
		"overall_score", overallScore,
		"has_reasoning", reasoning != "")

	return overallScore, reasoning, nil
}

// explain requests the explanation, falling back to "" on any failure.
func (a *Aggregator) explain(ctx context.Context, catalog *rubric.Catalog, scores []model.CategoryScore, overallScore float64) string {
	if err := a.limiter.Wait(ctx); err != nil {
		a.logger.Warn("skipping overall score explanation", "error", err)
		return ""
	}

	prompt := buildExplanationPrompt(catalog, scores, overallScore)

	var reasoning string
	err := common.WithRetry(ctx, func() error {
		response, err := a.client.Explain(ctx, prompt)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		reasoning = response
		return nil
	}, a.retryOpts)
	if err != nil {
		a.logger.Warn("overall score explanation failed, returning score without reasoning",
			"overall_score", overallScore,
			"error", err)
		return ""
	}

	return reasoning
}
