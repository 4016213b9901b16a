package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// untitledPlaceholder stands in for postings whose title cell is empty so
// the record is kept rather than rejected
const untitledPlaceholder = "(untitled posting)"

// gatherStrings collects the trimmed non-empty text nodes under a selection
// in document order
func gatherStrings(sel *goquery.Selection) []string {
	var parts []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return parts
}

// textFrom extracts single-line text for a selector, empty when absent
func textFrom(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(gatherStrings(sel), " ")
}

// multilineTextFrom extracts text for a selector preserving line structure
func multilineTextFrom(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(gatherStrings(sel), "\n")
}

// linkFrom extracts an absolute URL from the first anchor inside a selector,
// nil when absent
func (s *BoardScraper) linkFrom(doc *goquery.Document, selector string) *string {
	if selector == "" {
		return nil
	}
	container := doc.Find(selector)
	if container.Length() == 0 {
		return nil
	}
	href, exists := container.Find("a").First().Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return nil
	}
	abs := s.absoluteHref(strings.TrimSpace(href))
	return &abs
}

// absoluteHref resolves the site's relative (and occasionally
// backslash-separated) hrefs against the base URL
func (s *BoardScraper) absoluteHref(href string) string {
	normalized := strings.ReplaceAll(href, `\`, "/")
	if strings.HasPrefix(normalized, "http") {
		return normalized
	}
	normalized = strings.TrimPrefix(normalized, "../")
	normalized = strings.TrimLeft(normalized, "./")
	return s.cfg.BaseURL + "/" + normalized
}

// determineStatus classifies a posting by its end date relative to today
func determineStatus(endDate *string, now time.Time) string {
	if endDate == nil {
		return "unknown"
	}
	deadline, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		return "unknown"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !deadline.Before(today) {
		return "open"
	}
	return "closed"
}

// parseDetail extracts a full job record from a posting detail page. Missing
// elements yield empty or nil fields, never an error, so one broken posting
// cannot abort the run.
func (s *BoardScraper) parseDetail(jobID string, doc *goquery.Document) JobRecord {
	sel := s.cfg.Detail

	title := textFrom(doc, sel.Title)
	if title == "" {
		title = untitledPlaceholder
	}

	experience := textFrom(doc, sel.Experience)
	endDate := ParseDate(textFrom(doc, sel.EndDate))

	return JobRecord{
		JobID:           jobID,
		Title:           title,
		Organization:    strings.Trim(textFrom(doc, sel.Organization), " /"),
		VacancySpec:     textFrom(doc, sel.VacancySpec),
		ExperienceText:  experience,
		ExperienceRaw:   experience,
		StartDate:       ParseDate(textFrom(doc, sel.StartDate)),
		EndDate:         endDate,
		Qualification:   textFrom(doc, sel.Qualification),
		Location:        textFrom(doc, sel.Location),
		Gender:          textFrom(doc, sel.Gender),
		Age:             textFrom(doc, sel.Age),
		Vacancies:       ParseIntField(textFrom(doc, sel.Vacancies)),
		Salary:          ParseFloatField(textFrom(doc, sel.Salary)),
		Requirements:    multilineTextFrom(doc, sel.Requirements),
		AnnouncementPDF: s.linkFrom(doc, sel.AnnouncementPDF),
		DescriptionPDF:  s.linkFrom(doc, sel.DescriptionPDF),
		DetailURL:       s.detailURL(jobID),
		Status:          determineStatus(endDate, time.Now()),
		ScrapedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}
