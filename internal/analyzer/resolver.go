package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/llm"
	"github.com/KigoJomo/privacy-peek/internal/model"
	"github.com/KigoJomo/privacy-peek/internal/service"
)

// Resolver resolves raw user input (a name, a domain, a pasted URL)
// into a site's canonical identity and policy document locations.
type Resolver struct {
	client    llm.Client
	cache     *llm.MetadataCache
	limiter   *llm.RateLimiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewResolver creates a resolver with a short-term metadata cache.
func NewResolver(client llm.Client, limiter *llm.RateLimiter, cacheTTL time.Duration, retryOpts service.RetryOptions, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:    client,
		cache:     llm.NewMetadataCache(cacheTTL),
		limiter:   limiter,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Resolve returns the site metadata for the given raw input.
func (r *Resolver) Resolve(ctx context.Context, siteInput string) (model.SiteMetadata, error) {
	siteInput = strings.TrimSpace(siteInput)
	if siteInput == "" {
		return model.SiteMetadata{}, common.ErrInvalidSiteInput
	}

	if meta, found := r.cache.Get(siteInput); found {
		r.logger.Debug("metadata cache hit", "site_input", siteInput)
		return meta, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return model.SiteMetadata{}, fmt.Errorf("rate limit error: %w", err)
	}

	prompt := buildMetadataPrompt(siteInput)

	var meta model.SiteMetadata
	err := common.WithRetry(ctx, func() error {
		response, err := r.client.ResolveSiteMetadata(ctx, prompt)
		if err != nil {
			r.logger.Warn("metadata resolution attempt failed",
				"error", err,
				"site_input", siteInput)
			return &common.RetryableError{Err: err, Retryable: true}
		}
		meta = response
		return nil
	}, r.retryOpts)
	if err != nil {
		return model.SiteMetadata{}, fmt.Errorf("metadata resolution failed: %w", err)
	}

	if err := meta.Validate(); err != nil {
		return model.SiteMetadata{}, fmt.Errorf("%w: %v", common.ErrNoPolicyDocuments, err)
	}

	r.cache.Set(siteInput, meta)

	r.logger.Info("site metadata resolved",
		"site_input", siteInput,
		"normalized_base_url", meta.NormalizedBaseURL,
		"policy_documents", len(meta.PolicyDocumentURLs),
		"tags", len(meta.Tags))

	return meta, nil
}

// Close releases the resolver's cache resources.
func (r *Resolver) Close() {
	r.cache.Close()
}
