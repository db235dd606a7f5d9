package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KigoJomo/privacy-peek/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidAnalysis = errors.New("invalid site analysis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAnalysis validates a site analysis before insertion.
func validateAnalysis(analysis *model.SiteAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("%w: analysis", ErrNilParameter)
	}
	if strings.TrimSpace(analysis.NormalizedBaseURL) == "" {
		return fmt.Errorf("%w: missing normalized base URL", ErrInvalidAnalysis)
	}
	if strings.TrimSpace(analysis.SiteName) == "" {
		return fmt.Errorf("%w: missing site name", ErrInvalidAnalysis)
	}
	if analysis.LastAnalyzed.IsZero() {
		return fmt.Errorf("%w: missing last analyzed timestamp", ErrInvalidAnalysis)
	}
	if analysis.OverallScore < 0 || analysis.OverallScore > 100 {
		return fmt.Errorf("%w: overall score must be between 0 and 100", ErrInvalidAnalysis)
	}
	for i := range analysis.CategoryScores {
		if err := analysis.CategoryScores[i].Validate(); err != nil {
			return fmt.Errorf("category score at index %d: %w", i, err)
		}
	}
	return nil
}
