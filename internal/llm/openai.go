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

// openAIClient implements the Client interface for the OpenAI API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &openAIClient{
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

// complete sends one chat completion request and returns the raw
// message content. Each completion is bounded by a token budget, which
// also bounds latency.
func (c *openAIClient) complete(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": systemPrompt,
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": c.temperature,
		"max_tokens":  maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return response.Choices[0].Message.Content, nil
}

// ResolveSiteMetadata resolves a site's canonical identity via OpenAI.
func (c *openAIClient) ResolveSiteMetadata(ctx context.Context, prompt string) (model.SiteMetadata, error) {
	const systemPrompt = "You are a privacy practices analyzer and researcher. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens*2)
	if err != nil {
		return model.SiteMetadata{}, err
	}

	return parseSiteMetadata(content)
}

// ExtractClauses extracts clauses for one (document, category) pair.
func (c *openAIClient) ExtractClauses(ctx context.Context, prompt string) ([]model.Clause, error) {
	const systemPrompt = "You are a privacy policy analyzer. Your task is to extract the privacy practices of a website from its policy documents. You MUST respond with ONLY a valid JSON array. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with [ and end with ]."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens*4)
	if err != nil {
		return nil, err
	}

	return DecodeClauses(content), nil
}

// ScoreCategory scores one category against its rubric.
func (c *openAIClient) ScoreCategory(ctx context.Context, prompt string) (ScoreResponse, error) {
	const systemPrompt = "You are a privacy practices scorer. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens)
	if err != nil {
		return ScoreResponse{}, err
	}

	return parseScore(content)
}

// Explain generates a short natural-language explanation.
func (c *openAIClient) Explain(ctx context.Context, prompt string) (string, error) {
	const systemPrompt = "You are a privacy practices analyzer. Respond with only the requested explanation text, no additional formatting."

	content, err := c.complete(ctx, systemPrompt, prompt, c.maxTokens)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(cleanMarkdownWrapper(content)), nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Created int64 `json:"created"`
}
