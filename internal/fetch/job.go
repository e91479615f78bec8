package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/logger"
)

// PageCache stores extracted job posting text by URL.
type PageCache interface {
	GetFreshJobPage(ctx context.Context, url string, ttl time.Duration) (*db.JobPage, error)
	UpsertJobPage(ctx context.Context, page *db.JobPage) error
}

// JobPosting is the description text extracted from a job posting URL.
type JobPosting struct {
	URL       string
	Platform  Platform
	Text      string
	FromCache bool
	Rendered  bool // text came from a headless browser render
}

// JobFetcher fetches job postings and extracts their description text.
// Cache and Browser are optional.
type JobFetcher struct {
	Options  *Options
	Cache    PageCache
	CacheTTL time.Duration
	Browser  Renderer
}

// NewJobFetcher creates a JobFetcher. A nil cache or browser disables that step.
func NewJobFetcher(cache PageCache, browser Renderer) *JobFetcher {
	return &JobFetcher{
		Options:  DefaultOptions(),
		Cache:    cache,
		CacheTTL: db.DefaultPageCacheTTL,
		Browser:  browser,
	}
}

// JobDescription returns the description text of the posting at urlStr.
// A fresh cached copy is returned when available. When the plain HTTP fetch yields too
// little text and a browser is configured, the page is rendered and extracted again.
func (f *JobFetcher) JobDescription(ctx context.Context, urlStr string) (*JobPosting, error) {
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}
	log := logger.Ctx(ctx)
	platform := DetectPlatform(urlStr)

	if f.Cache != nil {
		cached, err := f.Cache.GetFreshJobPage(ctx, urlStr, f.ttl())
		if err != nil {
			// The cache is an optimization; fall through to a live fetch
			log.Warn().Err(err).Str("url", urlStr).Msg("job page cache lookup failed")
		} else if cached != nil {
			return &JobPosting{URL: urlStr, Platform: Platform(cached.Platform), Text: cached.Text, FromCache: true}, nil
		}
	}

	posting := &JobPosting{URL: urlStr, Platform: platform}

	result, fetchErr := URL(ctx, urlStr, f.Options)
	if fetchErr == nil {
		text, err := ExtractMainText(result.HTML, platform.ContentSelectors(), platform.NoiseSelectors()...)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
		}
		posting.Text = text
	}

	if errors.Is(fetchErr, ErrPrivateAddress) {
		return nil, fetchErr
	}

	if f.Browser != nil && (fetchErr != nil || ShouldUseBrowser(posting.Text)) {
		html, err := f.Browser.Render(ctx, urlStr)
		switch {
		case err == nil:
			text, exErr := ExtractMainText(html, platform.ContentSelectors(), platform.NoiseSelectors()...)
			if exErr == nil && len(text) > len(posting.Text) {
				posting.Text = text
				posting.Rendered = true
				fetchErr = nil
			}
		case fetchErr == nil:
			log.Warn().Err(err).Str("url", urlStr).Msg("browser fallback failed, using fetched text")
		}
	}

	if fetchErr != nil {
		return nil, fetchErr
	}
	if posting.Text == "" {
		return nil, &Error{URL: urlStr, Message: "no job description text found"}
	}

	if f.Cache != nil {
		page := &db.JobPage{URL: urlStr, Platform: string(platform), Text: posting.Text}
		if err := f.Cache.UpsertJobPage(ctx, page); err != nil {
			log.Warn().Err(err).Str("url", urlStr).Msg("failed to cache job page")
		}
	}

	log.Info().Str("url", urlStr).Str("platform", string(platform)).Bool("rendered", posting.Rendered).
		Int("chars", len(posting.Text)).Msg("fetched job description")
	return posting, nil
}

func (f *JobFetcher) ttl() time.Duration {
	if f.CacheTTL <= 0 {
		return db.DefaultPageCacheTTL
	}
	return f.CacheTTL
}
