package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultPageCacheTTL is how long a fetched job posting is reused.
const DefaultPageCacheTTL = 24 * time.Hour

// JobPage is the extracted text of a job posting fetched from a URL.
type JobPage struct {
	URL       string    `json:"url"`
	Platform  string    `json:"platform"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// GetFreshJobPage returns the cached page for url if it was fetched within ttl, or nil.
func (db *DB) GetFreshJobPage(ctx context.Context, url string, ttl time.Duration) (*JobPage, error) {
	var p JobPage
	err := db.pool.QueryRow(ctx,
		`SELECT url, platform, text, fetched_at FROM job_pages
		 WHERE url = $1 AND fetched_at > $2`,
		url, time.Now().Add(-ttl),
	).Scan(&p.URL, &p.Platform, &p.Text, &p.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job page: %w", err)
	}
	return &p, nil
}

// UpsertJobPage stores page, replacing any earlier fetch of the same URL.
func (db *DB) UpsertJobPage(ctx context.Context, page *JobPage) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_pages (url, platform, text)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (url) DO UPDATE
		 SET platform = EXCLUDED.platform, text = EXCLUDED.text, fetched_at = NOW()
		 RETURNING fetched_at`,
		page.URL, page.Platform, page.Text,
	).Scan(&page.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert job page: %w", err)
	}
	return nil
}
