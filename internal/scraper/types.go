package scraper

import (
	"context"
	"time"
)

// JobRecord represents a scraped job posting. The JSON field names are the
// contract with the static front end and must stay stable.
type JobRecord struct {
	JobID           string   `json:"job_id"`
	Title           string   `json:"title"`
	Organization    string   `json:"organization"`
	VacancySpec     string   `json:"vacancy_spec"`
	ExperienceText  string   `json:"experience_text"`
	ExperienceRaw   string   `json:"experience_raw"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	Qualification   string   `json:"qualification"`
	Location        string   `json:"location"`
	Gender          string   `json:"gender"`
	Age             string   `json:"age"`
	Vacancies       *int     `json:"vacancies"`
	Salary          *float64 `json:"salary"`
	Requirements    string   `json:"requirements"`
	AnnouncementPDF *string  `json:"announcement_pdf"`
	DescriptionPDF  *string  `json:"description_pdf"`
	DetailURL       string   `json:"detail_url"`
	Status          string   `json:"status"`
	ScrapedAt       string   `json:"scraped_at"`
}

// Scraper interface defines the contract for all scraper implementations
type Scraper interface {
	// FetchJobs retrieves job postings from a source
	FetchJobs(ctx context.Context) ([]JobRecord, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetSource returns the source name for the scraper
	GetSource() string
}

// ListSelectors describe how postings are located on a listing page
type ListSelectors struct {
	// DetailLinkPattern is a regex matched against anchor hrefs; its first
	// capture group is the posting ID
	DetailLinkPattern string
	// NoResults is a CSS selector whose presence marks an empty result page
	NoResults string
	// ExperienceLabel is the cell text marking the experience snippet row
	ExperienceLabel string
}

// DetailSelectors map CSS selectors to fields on the posting detail page.
// The source site renders each field in an element with a fixed ID, so
// these are ID selectors in practice.
type DetailSelectors struct {
	Title           string
	Organization    string
	VacancySpec     string
	Experience      string
	StartDate       string
	EndDate         string
	Qualification   string
	Location        string
	Gender          string
	Age             string
	Vacancies       string
	Salary          string
	Requirements    string
	AnnouncementPDF string
	DescriptionPDF  string
}

// ScraperConfig contains configuration for a board scraper
type ScraperConfig struct {
	BaseURL      string
	ListURL      string
	PageParam    string
	DetailPath   string
	MaxPages     int
	FetchRetries int
	RetryBackoff time.Duration
	PageDelay    time.Duration
	CacheKey     string
	BlockTime    int
	Source       string
	List         ListSelectors
	Detail       DetailSelectors
}
