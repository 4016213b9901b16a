package scraper

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"spacjobs/jobfeedworker/helpers"
	"spacjobs/jobfeedworker/logger"
	"spacjobs/jobfeedworker/pkg/errors"
	"spacjobs/jobfeedworker/services/cache"
)

// BaseScraper provides fetch and parse plumbing shared by scrapers
type BaseScraper struct {
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Source    string
	Retries   int
	Backoff   time.Duration
	limiter   *rate.Limiter
}

// newBaseScraper builds the shared plumbing from a scraper config. The
// limiter spaces every request (listing and detail alike) by PageDelay.
func newBaseScraper(config ScraperConfig, cacheSvc cache.CacheService) BaseScraper {
	limit := rate.Inf
	if config.PageDelay > 0 {
		limit = rate.Every(config.PageDelay)
	}
	return BaseScraper{
		CacheKey:  config.CacheKey,
		CacheSvc:  cacheSvc,
		BlockTime: time.Duration(config.BlockTime) * time.Second,
		Source:    config.Source,
		Retries:   config.FetchRetries,
		Backoff:   config.RetryBackoff,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// fetchWithRetry fetches a URL with rate limiting, a per-request delay, and
// a small fixed number of retry attempts. Exhausting the attempts surfaces a
// network error to the caller.
func (s *BaseScraper) fetchWithRetry(ctx context.Context, url string) (io.Reader, error) {
	// Check if the source is currently blocked after a rate-limit response
	if s.CacheSvc != nil && s.CacheKey != "" {
		if _, err := s.CacheSvc.Get(s.CacheKey); err == nil {
			return nil, errors.NewRateLimit(s.Source, s.BlockTime)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.Retries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, errors.NewNetwork(s.Source, "request cancelled", err)
		}

		body, err := helpers.FetchPage(url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// A rate-limit response blocks the source for BlockTime so later
		// runs back off too
		if stderrors.Is(err, helpers.ErrRateLimited) {
			if s.CacheSvc != nil && s.CacheKey != "" {
				if setErr := s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", s.BlockTime/time.Second)), s.BlockTime); setErr != nil {
					logger.ForScraper(s.Source).Warn().Err(setErr).Msg("Failed to set rate-limit block")
				}
			}
			return nil, errors.NewRateLimit(s.Source, s.BlockTime)
		}

		if attempt < s.Retries {
			logger.ForScraper(s.Source).Debug().
				Err(err).
				Int("attempt", attempt).
				Str("url", url).
				Msg("Fetch failed, retrying")
			select {
			case <-time.After(s.Backoff):
			case <-ctx.Done():
				return nil, errors.NewNetwork(s.Source, "request cancelled", ctx.Err())
			}
		}
	}

	return nil, errors.NewNetwork(s.Source, fmt.Sprintf("fetch failed after %d attempts: %s", s.Retries, url), lastErr)
}

// createDocument creates a goquery document from a reader
func (s *BaseScraper) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, errors.NewParsing(s.Source, "failed to parse HTML document", err)
	}
	return doc, nil
}
