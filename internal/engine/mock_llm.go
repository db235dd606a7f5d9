package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
)

// MockClient is a configurable llm.Client for tests. Zero-value hooks
// fall back to a plausible canned response so tests only wire the
// behavior they care about.
type MockClient struct {
	ResolveFn func(ctx context.Context, prompt string) (model.SiteMetadata, error)
	ExtractFn func(ctx context.Context, prompt string) ([]model.Clause, error)
	ScoreFn   func(ctx context.Context, prompt string) (llm.ScoreResponse, error)
	ExplainFn func(ctx context.Context, prompt string) (string, error)

	mu           sync.Mutex
	resolveCalls int
	extractCalls int
	scoreCalls   int
	explainCalls int
}

// NewMockClient creates a mock with canned defaults.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ResolveSiteMetadata implements llm.Client.
func (m *MockClient) ResolveSiteMetadata(ctx context.Context, prompt string) (model.SiteMetadata, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, prompt)
	}
	return model.SiteMetadata{
		NormalizedBaseURL:  "https://www.example.com",
		SiteName:           "Example",
		Tags:               []string{"Example", "example.com"},
		PolicyDocumentURLs: []string{"https://www.example.com/privacy", "https://www.example.com/terms"},
	}, nil
}

// ExtractClauses implements llm.Client.
func (m *MockClient) ExtractClauses(ctx context.Context, prompt string) ([]model.Clause, error) {
	m.mu.Lock()
	m.extractCalls++
	m.mu.Unlock()

	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, prompt)
	}
	return []model.Clause{
		{Text: "We collect your email address.", Relevance: 0.9},
		{Text: "The service is provided as is.", Relevance: 0.2},
	}, nil
}

// ScoreCategory implements llm.Client.
func (m *MockClient) ScoreCategory(ctx context.Context, prompt string) (llm.ScoreResponse, error) {
	m.mu.Lock()
	m.scoreCalls++
	m.mu.Unlock()

	if m.ScoreFn != nil {
		return m.ScoreFn(ctx, prompt)
	}
	return llm.ScoreResponse{Score: 6, Reasoning: "moderate practices"}, nil
}

// Explain implements llm.Client.
func (m *MockClient) Explain(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.explainCalls++
	m.mu.Unlock()

	if m.ExplainFn != nil {
		return m.ExplainFn(ctx, prompt)
	}
	return "Middling scores across the board.", nil
}

// Calls returns the per-method call counts.
func (m *MockClient) Calls() (resolve, extract, score, explain int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls, m.extractCalls, m.scoreCalls, m.explainCalls
}

// FailingScoreFn returns a hook that always violates the scoring
// contract with the given score.
func FailingScoreFn(score float64) func(ctx context.Context, prompt string) (llm.ScoreResponse, error) {
	return func(_ context.Context, _ string) (llm.ScoreResponse, error) {
		return llm.ScoreResponse{Score: score, Reasoning: "confidently wrong"}, nil
	}
}

// ErroringExtractFn returns a hook that always fails extraction.
func ErroringExtractFn() func(ctx context.Context, prompt string) ([]model.Clause, error) {
	return func(_ context.Context, _ string) ([]model.Clause, error) {
		return nil, fmt.Errorf("extraction unavailable")
	}
}
