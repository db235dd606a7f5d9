package analyzer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// stubClient implements llm.Client with per-method hooks.
type stubClient struct {
	resolveFn func(ctx context.Context, prompt string) (model.SiteMetadata, error)
	extractFn func(ctx context.Context, prompt string) ([]model.Clause, error)
	scoreFn   func(ctx context.Context, prompt string) (llm.ScoreResponse, error)
	explainFn func(ctx context.Context, prompt string) (string, error)
}

func (s *stubClient) ResolveSiteMetadata(ctx context.Context, prompt string) (model.SiteMetadata, error) {
	return s.resolveFn(ctx, prompt)
}

func (s *stubClient) ExtractClauses(ctx context.Context, prompt string) ([]model.Clause, error) {
	return s.extractFn(ctx, prompt)
}

func (s *stubClient) ScoreCategory(ctx context.Context, prompt string) (llm.ScoreResponse, error) {
	return s.scoreFn(ctx, prompt)
}

func (s *stubClient) Explain(ctx context.Context, prompt string) (string, error) {
	return s.explainFn(ctx, prompt)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRetryOpts() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2.0,
	}
}
