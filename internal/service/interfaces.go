// Package service defines the interfaces between the pipeline core and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// Storage defines the contract for the site record store and job
// tracker. The core never performs partial updates of score data
// through this interface: finished analyses are insert-only, and the
// newest row per normalized URL is authoritative.
type Storage interface {
	// Site record operations
	GetSiteByURL(ctx context.Context, normalizedBaseURL string) (*model.SiteAnalysis, error)
	GetSitesByTag(ctx context.Context, tag string) ([]model.SiteAnalysis, error)
	GetRecentSites(ctx context.Context, limit int) ([]model.SiteAnalysis, error)
	InsertAnalysis(ctx context.Context, analysis *model.SiteAnalysis, tags []string) (string, error)

	// Job tracking operations
	CreateJob(ctx context.Context, siteInput string) (*model.AnalysisJob, error)
	GetJob(ctx context.Context, id string) (*model.AnalysisJob, error)
	UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// JobSnapshot is the wire representation of a job status query.
type JobSnapshot struct {
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ID        string          `json:"id"`
	SiteInput string          `json:"site_input"`
	Status    model.JobStatus `json:"status"`
}
