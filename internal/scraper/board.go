package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"spacjobs/jobfeedworker/logger"
	"spacjobs/jobfeedworker/services/cache"
)

// BoardScraper scrapes a paginated job board: each listing page links to
// posting detail pages which carry the actual record fields
type BoardScraper struct {
	BaseScraper
	cfg           ScraperConfig
	detailPattern *regexp.Regexp
	log           *logger.Logger
}

// NewBoardScraper creates a new board scraper
func NewBoardScraper(config ScraperConfig, cacheSvc cache.CacheService) *BoardScraper {
	return &BoardScraper{
		BaseScraper:   newBaseScraper(config, cacheSvc),
		cfg:           config,
		detailPattern: regexp.MustCompile(config.List.DetailLinkPattern),
		log:           logger.ForScraper(config.Source),
	}
}

// GetName returns the scraper name
func (s *BoardScraper) GetName() string {
	return "BoardScraper"
}

// GetSource returns the source name
func (s *BoardScraper) GetSource() string {
	return s.cfg.Source
}

// pageURL builds the listing URL for a page number. Page 1 is the bare
// listing URL, matching what the site serves by default.
func (s *BoardScraper) pageURL(page int) string {
	if page <= 1 {
		return s.cfg.ListURL
	}
	sep := "?"
	if strings.Contains(s.cfg.ListURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=%d", s.cfg.ListURL, sep, url.QueryEscape(s.cfg.PageParam), page)
}

// detailURL builds the absolute detail URL for a posting ID
func (s *BoardScraper) detailURL(jobID string) string {
	return s.cfg.BaseURL + s.cfg.DetailPath + jobID
}

// FetchJobs walks listing pages in order and fetches one detail page per
// posting. It stops at the no-results marker, a page without posting links,
// a page repeating the previous page's postings, or the configured page cap.
//
// A failed listing page after the first is logged and skipped so the run
// keeps its partial results; a failed first page aborts the run.
func (s *BoardScraper) FetchJobs(ctx context.Context) ([]JobRecord, error) {
	var records []JobRecord
	seen := make(map[string]bool)
	var prevPageIDs map[string]bool

	for page := 1; page <= s.cfg.MaxPages; page++ {
		body, err := s.fetchWithRetry(ctx, s.pageURL(page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			s.log.Warn().Err(err).Int("page", page).Msg("Skipping listing page after fetch failure")
			continue
		}

		doc, err := s.createDocument(body)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			s.log.Warn().Err(err).Int("page", page).Msg("Skipping listing page after parse failure")
			continue
		}

		if s.cfg.List.NoResults != "" && doc.Find(s.cfg.List.NoResults).Length() > 0 {
			s.log.Debug().Int("page", page).Msg("No-results marker found, stopping pagination")
			break
		}

		jobIDs := s.parseJobIDs(doc)
		if len(jobIDs) == 0 {
			// The last page of a pager naturally yields nothing; worth a log
			// line but not an error
			s.log.Debug().Int("page", page).Msg("Listing page yielded no postings, stopping pagination")
			break
		}

		pageIDs := make(map[string]bool, len(jobIDs))
		for _, id := range jobIDs {
			pageIDs[id] = true
		}
		if sameIDSet(pageIDs, prevPageIDs) {
			s.log.Warn().Int("page", page).Msg("Listing page repeated previous postings, stopping pagination")
			break
		}
		prevPageIDs = pageIDs

		experience := s.parseListExperience(doc)

		for _, jobID := range jobIDs {
			if seen[jobID] {
				continue
			}
			seen[jobID] = true

			record, err := s.fetchJob(ctx, jobID)
			if err != nil {
				s.log.Warn().Err(err).Str("job_id", jobID).Msg("Skipping posting after detail fetch failure")
				continue
			}

			if listVal, ok := experience[jobID]; ok && listVal != "" {
				record.ExperienceText = listVal
				record.ExperienceRaw = listVal
			}
			records = append(records, record)
		}

		s.log.Info().Int("page", page).Int("postings", len(jobIDs)).Msg("Processed listing page")
	}

	return records, nil
}

// fetchJob fetches and parses one posting detail page
func (s *BoardScraper) fetchJob(ctx context.Context, jobID string) (JobRecord, error) {
	body, err := s.fetchWithRetry(ctx, s.detailURL(jobID))
	if err != nil {
		return JobRecord{}, err
	}
	doc, err := s.createDocument(body)
	if err != nil {
		return JobRecord{}, err
	}
	return s.parseDetail(jobID, doc), nil
}

// parseJobIDs extracts posting IDs from detail links in document order,
// de-duplicated preserving first occurrence
func (s *BoardScraper) parseJobIDs(doc *goquery.Document) []string {
	var jobIDs []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := s.detailPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			jobIDs = append(jobIDs, m[1])
		}
	})

	return jobIDs
}

// parseListExperience harvests the raw experience snippet shown on the
// listing rows. Each posting anchor's table row is followed by detail rows
// until the next posting anchor; the one whose cell carries the experience
// label holds the snippet, with the value after the colon when present.
func (s *BoardScraper) parseListExperience(doc *goquery.Document) map[string]string {
	mapping := make(map[string]string)
	label := s.cfg.List.ExperienceLabel
	if label == "" {
		return mapping
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := s.detailPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		jobID := m[1]
		if _, done := mapping[jobID]; done {
			return
		}

		for cursor := a.Closest("tr").Next(); cursor.Length() > 0; cursor = cursor.Next() {
			if s.rowLinksToPosting(cursor) {
				break
			}
			found := false
			cursor.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
				text := strings.Join(gatherStrings(td), " ")
				if !strings.Contains(text, label) {
					return true
				}
				if idx := strings.Index(text, ":"); idx >= 0 {
					mapping[jobID] = strings.TrimSpace(text[idx+1:])
				} else {
					mapping[jobID] = strings.TrimSpace(text)
				}
				found = true
				return false
			})
			if found {
				break
			}
		}
	})

	return mapping
}

// rowLinksToPosting reports whether a listing row contains a posting link,
// which marks the start of the next posting's block
func (s *BoardScraper) rowLinksToPosting(row *goquery.Selection) bool {
	links := false
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if s.detailPattern.MatchString(href) {
			links = true
			return false
		}
		return true
	})
	return links
}

// sameIDSet reports whether two posting ID sets are identical
func sameIDSet(a, b map[string]bool) bool {
	if b == nil || len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
