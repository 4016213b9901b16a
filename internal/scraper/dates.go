package scraper

import (
	"strconv"
	"strings"
	"time"
)

// dateFormats lists the input layouts seen on the source site, most common
// first. The board renders dd/mm/yyyy; the rest are tolerated fallbacks.
var dateFormats = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2/1/2006",
}

// ParseDate normalizes a scraped date string to ISO 8601 (yyyy-mm-dd).
// Unrecognized input yields nil rather than an error.
func ParseDate(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}

	// Timestamped ISO input keeps its date part
	if len(value) > 10 {
		if t, err := time.Parse("2006-01-02", value[:10]); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}

	return nil
}

// ParseIntField parses a scraped integer field, returning nil on failure
func ParseIntField(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloatField parses a scraped decimal field, tolerating thousands
// separators, returning nil on failure
func ParseFloatField(value string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}
