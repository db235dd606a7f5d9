package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// anthropicClient implements the Client interface for the Anthropic API.
type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &anthropicClient{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// complete sends one messages request and returns the raw text content.
func (c *anthropicClient) complete(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": c.temperature,
		"system":      systemPrompt,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return response.Content[0].Text, nil
}

// ResolveSiteMetadata resolves a site's canonical identity via Anthropic.
func (c *anthropicClient) ResolveSiteMetadata(ctx context.Context, prompt string) (model.SiteMetadata, error) {
	const systemPrompt = "You are a privacy practices analyzer and researcher. Respond only with the requested JSON object, no additional text or formatting."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens*2)
	if err != nil {
		return model.SiteMetadata{}, err
	}

	return parseSiteMetadata(content)
}

// ExtractClauses extracts clauses for one (document, category) pair.
func (c *anthropicClient) ExtractClauses(ctx context.Context, prompt string) ([]model.Clause, error) {
	const systemPrompt = "You are a privacy policy analyzer. Your task is to extract the privacy practices of a website from its policy documents. Respond only with the requested JSON array, no additional text or formatting."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens*4)
	if err != nil {
		return nil, err
	}

	return DecodeClauses(content), nil
}

// ScoreCategory scores one category against its rubric.
func (c *anthropicClient) ScoreCategory(ctx context.Context, prompt string) (ScoreResponse, error) {
	const systemPrompt = "You are a privacy practices scorer. Respond only with the requested JSON object, no additional text or formatting."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens)
	if err != nil {
		return ScoreResponse{}, err
	}

	return parseScore(content)
}

// Explain generates a short natural-language explanation.
func (c *anthropicClient) Explain(ctx context.Context, prompt string) (string, error) {
	const systemPrompt = "You are a privacy practices analyzer. Respond with only the requested explanation text, no additional formatting."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(cleanMarkdownWrapper(content)), nil
}

// anthropicResponse represents the Anthropic API response structure.
type anthropicResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Role         string `json:"role"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence"`
	Content      []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
