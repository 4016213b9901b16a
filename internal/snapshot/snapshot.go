package snapshot

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"spacjobs/jobfeedworker/internal/scraper"
	"spacjobs/jobfeedworker/pkg/errors"
)

// Snapshot is the full feed document: the current set of known postings,
// fully rewritten on each run. Field names are the front-end contract.
type Snapshot struct {
	Source    string              `json:"source"`
	ScrapedAt string              `json:"scraped_at"`
	JobCount  int                 `json:"job_count"`
	Jobs      []scraper.JobRecord `json:"jobs"`
}

var jobIDPattern = regexp.MustCompile(`JobID=(\d+)`)

// DeriveID returns a stable identifier for a posting. The JobID digits from
// the detail link win when present; otherwise the ID is a digest over
// title, organization and start date so the same posting maps to the same
// ID on every run.
func DeriveID(link, title, organization, startDate string) string {
	if m := jobIDPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s", title, organization, startDate)))
	return hex.EncodeToString(sum[:])[:12]
}

// Load reads a previously written snapshot. A missing file yields (nil, nil)
// since the first run has nothing to merge against.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewWrite(path, "failed to read previous snapshot", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewParsing(path, "previous snapshot is not valid JSON", err)
	}
	return &snap, nil
}

// Merge combines freshly scraped records with the previous snapshot.
//
// Rules, in order:
//   - every record gets an ID (DeriveID) when the parser left it empty;
//   - duplicate IDs within the scrape keep the last-seen record;
//   - a record present in both keeps the freshly scraped version wholesale;
//   - a record only in the previous snapshot is retained with its status
//     forced to "closed" (the posting left the live listing);
//   - order is start date descending, records without a date last, ties
//     broken by ID ascending.
//
// Merging identical input twice produces identical output.
func Merge(prev *Snapshot, records []scraper.JobRecord, source string, now time.Time) *Snapshot {
	byID := make(map[string]scraper.JobRecord)
	var order []string

	for _, rec := range records {
		if rec.JobID == "" {
			rec.JobID = DeriveID(rec.DetailURL, rec.Title, rec.Organization, derefDate(rec.StartDate))
		}
		if _, exists := byID[rec.JobID]; !exists {
			order = append(order, rec.JobID)
		}
		// Last-seen wins for duplicate IDs within one run
		byID[rec.JobID] = rec
	}

	if prev != nil {
		for _, old := range prev.Jobs {
			if old.JobID == "" {
				continue
			}
			if _, exists := byID[old.JobID]; exists {
				continue
			}
			old.Status = "closed"
			byID[old.JobID] = old
			order = append(order, old.JobID)
		}
	}

	jobs := make([]scraper.JobRecord, 0, len(order))
	for _, id := range order {
		jobs = append(jobs, byID[id])
	}
	sortJobs(jobs)

	return &Snapshot{
		Source:    source,
		ScrapedAt: now.UTC().Format(time.RFC3339),
		JobCount:  len(jobs),
		Jobs:      jobs,
	}
}

// sortJobs orders records by start date descending with empty dates last,
// ties broken by ID ascending. ISO date strings compare lexicographically so
// plain string comparison is the date order.
func sortJobs(jobs []scraper.JobRecord) {
	sort.SliceStable(jobs, func(i, j int) bool {
		di, dj := derefDate(jobs[i].StartDate), derefDate(jobs[j].StartDate)
		if di != dj {
			if di == "" {
				return false
			}
			if dj == "" {
				return true
			}
			return di > dj
		}
		return jobs[i].JobID < jobs[j].JobID
	})
}

func derefDate(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}
