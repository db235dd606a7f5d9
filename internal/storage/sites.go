package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/model"
)

// InsertAnalysis stores a finished analysis as a new row. Analyses are
// insert-only: a re-analysis of the same site inserts a fresh row, and
// reads resolve the newest row per normalized URL. Returns the new
// record's ID.
func (s *SQLiteStorage) InsertAnalysis(ctx context.Context, analysis *model.SiteAnalysis, tags []string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateAnalysis(analysis); err != nil {
		return "", err
	}

	scoresJSON, err := json.Marshal(analysis.CategoryScores)
	if err != nil {
		return "", fmt.Errorf("failed to encode category scores: %w", err)
	}
	urlsJSON, err := json.Marshal(analysis.PolicyDocumentURLs)
	if err != nil {
		return "", fmt.Errorf("failed to encode policy document URLs: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := analysis.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sites (
			id, normalized_base_url, site_name, category_scores,
			overall_score, reasoning, policy_documents_urls, last_analyzed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		analysis.NormalizedBaseURL,
		analysis.SiteName,
		string(scoresJSON),
		analysis.OverallScore,
		analysis.Reasoning,
		string(urlsJSON),
		analysis.LastAnalyzed,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO site_tags (site_id, tag) VALUES (?, ?)
			ON CONFLICT(site_id, tag) DO NOTHING
		`, id, tag)
		if err != nil {
			return "", fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis: %w", err)
	}

	return id, nil
}

// GetSiteByURL returns the most recent analysis for a normalized base
// URL, or common.ErrNotFound if the site has never been analyzed.
func (s *SQLiteStorage) GetSiteByURL(ctx context.Context, normalizedBaseURL string) (*model.SiteAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(normalizedBaseURL, "normalizedBaseURL"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, normalized_base_url, site_name, category_scores,
		       overall_score, reasoning, policy_documents_urls, last_analyzed
		FROM sites
		WHERE normalized_base_url = ?
		ORDER BY last_analyzed DESC
		LIMIT 1
	`, normalizedBaseURL)

	analysis, err := scanSite(row)
	if err != nil {
		return nil, err
	}

	tags, err := s.getTags(ctx, analysis.ID)
	if err != nil {
		return nil, err
	}
	analysis.Tags = tags

	return analysis, nil
}

// GetSitesByTag returns the newest analysis of every site carrying the
// exact tag, most recently analyzed first.
func (s *SQLiteStorage) GetSitesByTag(ctx context.Context, tag string) ([]model.SiteAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tag, "tag"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.normalized_base_url, s.site_name, s.category_scores,
		       s.overall_score, s.reasoning, s.policy_documents_urls, s.last_analyzed
		FROM sites s
		JOIN site_tags t ON t.site_id = s.id
		WHERE t.tag = ?
		  AND s.last_analyzed = (
			SELECT MAX(last_analyzed) FROM sites s2
			WHERE s2.normalized_base_url = s.normalized_base_url
		  )
		ORDER BY s.last_analyzed DESC
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites by tag: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.collectSites(ctx, rows)
}

// GetRecentSites returns the newest analysis per site, most recently
// analyzed first, up to limit rows.
func (s *SQLiteStorage) GetRecentSites(ctx context.Context, limit int) ([]model.SiteAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.normalized_base_url, s.site_name, s.category_scores,
		       s.overall_score, s.reasoning, s.policy_documents_urls, s.last_analyzed
		FROM sites s
		WHERE s.last_analyzed = (
			SELECT MAX(last_analyzed) FROM sites s2
			WHERE s2.normalized_base_url = s.normalized_base_url
		)
		ORDER BY s.last_analyzed DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.collectSites(ctx, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (*model.SiteAnalysis, error) {
	var analysis model.SiteAnalysis
	var scoresJSON, urlsJSON string
	var reasoning sql.NullString

	err := row.Scan(
		&analysis.ID,
		&analysis.NormalizedBaseURL,
		&analysis.SiteName,
		&scoresJSON,
		&analysis.OverallScore,
		&reasoning,
		&urlsJSON,
		&analysis.LastAnalyzed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan site: %w", err)
	}

	analysis.Reasoning = reasoning.String
	if err := json.Unmarshal([]byte(scoresJSON), &analysis.CategoryScores); err != nil {
		return nil, fmt.Errorf("failed to decode category scores: %w", err)
	}
	if err := json.Unmarshal([]byte(urlsJSON), &analysis.PolicyDocumentURLs); err != nil {
		return nil, fmt.Errorf("failed to decode policy document URLs: %w", err)
	}

	return &analysis, nil
}

// collectSites drains rows fully before attaching tags. Tag queries
// must not run while rows is open: the pool holds a single connection.
func (s *SQLiteStorage) collectSites(ctx context.Context, rows *sql.Rows) ([]model.SiteAnalysis, error) {
	var sites []model.SiteAnalysis
	for rows.Next() {
		analysis, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close site rows: %w", err)
	}

	for i := range sites {
		tags, err := s.getTags(ctx, sites[i].ID)
		if err != nil {
			return nil, err
		}
		sites[i].Tags = tags
	}
	return sites, nil
}

func (s *SQLiteStorage) getTags(ctx context.Context, siteID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag FROM site_tags WHERE site_id = ? ORDER BY tag
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}
