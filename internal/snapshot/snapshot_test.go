package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacjobs/jobfeedworker/internal/scraper"
)

func strPtr(v string) *string { return &v }

func record(id, startDate, status string) scraper.JobRecord {
	rec := scraper.JobRecord{
		JobID:     id,
		Title:     "وظيفة " + id,
		Status:    status,
		DetailURL: "https://jobs.example.gov/JobDet.aspx?JobID=" + id,
		ScrapedAt: "2026-08-29T10:00:00Z",
	}
	if startDate != "" {
		rec.StartDate = strPtr(startDate)
	}
	return rec
}

func TestDeriveID(t *testing.T) {
	assert.Equal(t, "42", DeriveID("https://jobs.example.gov/JobDet.aspx?JobID=42", "عنوان", "جهة", "2026-01-01"))

	// Without link digits the ID is a stable digest over the identifying fields
	first := DeriveID("", "محاسب", "وزارة المالية", "2026-01-01")
	second := DeriveID("", "محاسب", "وزارة المالية", "2026-01-01")
	assert.Equal(t, first, second)
	assert.Len(t, first, 12)

	other := DeriveID("", "محاسب", "وزارة المالية", "2026-02-01")
	assert.NotEqual(t, first, other)
}

func TestMergeFirstRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	records := []scraper.JobRecord{
		record("1", "2026-08-01", "open"),
		record("2", "2026-08-15", "open"),
	}

	snap := Merge(nil, records, "spac", now)

	assert.Equal(t, "spac", snap.Source)
	assert.Equal(t, "2026-08-29T12:00:00Z", snap.ScrapedAt)
	assert.Equal(t, 2, snap.JobCount)
	require.Len(t, snap.Jobs, 2)
	assert.Equal(t, "2", snap.Jobs[0].JobID)
	assert.Equal(t, "1", snap.Jobs[1].JobID)
}

func TestMergeAssignsMissingIDs(t *testing.T) {
	rec := record("", "2026-08-01", "open")
	rec.Title = "محاسب"
	rec.Organization = "وزارة المالية"
	rec.DetailURL = ""

	snap := Merge(nil, []scraper.JobRecord{rec}, "spac", time.Now())

	require.Len(t, snap.Jobs, 1)
	assert.Len(t, snap.Jobs[0].JobID, 12)
}

func TestMergeDuplicateIDsKeepLast(t *testing.T) {
	first := record("7", "2026-08-01", "open")
	first.Title = "قديم"
	second := record("7", "2026-08-01", "open")
	second.Title = "جديد"

	snap := Merge(nil, []scraper.JobRecord{first, second}, "spac", time.Now())

	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, "جديد", snap.Jobs[0].Title)
}

func TestMergeFreshRecordWins(t *testing.T) {
	prev := &Snapshot{
		Source: "spac",
		Jobs:   []scraper.JobRecord{record("1", "2026-08-01", "open")},
	}
	prev.Jobs[0].EndDate = strPtr("2026-08-20")

	fresh := record("1", "2026-08-01", "open")
	fresh.EndDate = strPtr("2026-09-30")

	snap := Merge(prev, []scraper.JobRecord{fresh}, "spac", time.Now())

	require.Len(t, snap.Jobs, 1)
	require.NotNil(t, snap.Jobs[0].EndDate)
	assert.Equal(t, "2026-09-30", *snap.Jobs[0].EndDate)
	assert.Equal(t, "open", snap.Jobs[0].Status)
}

func TestMergeRetainsDelistedAsClosed(t *testing.T) {
	prev := &Snapshot{
		Source: "spac",
		Jobs: []scraper.JobRecord{
			record("1", "2026-08-01", "open"),
			record("2", "2026-07-01", "open"),
		},
	}

	snap := Merge(prev, []scraper.JobRecord{record("1", "2026-08-01", "open")}, "spac", time.Now())

	require.Len(t, snap.Jobs, 2)
	assert.Equal(t, "1", snap.Jobs[0].JobID)
	assert.Equal(t, "open", snap.Jobs[0].Status)
	assert.Equal(t, "2", snap.Jobs[1].JobID)
	assert.Equal(t, "closed", snap.Jobs[1].Status)
}

func TestMergeSortOrder(t *testing.T) {
	records := []scraper.JobRecord{
		record("9", "", "open"),
		record("3", "2026-08-15", "open"),
		record("5", "2026-08-15", "open"),
		record("1", "2026-08-20", "open"),
		record("8", "", "open"),
	}

	snap := Merge(nil, records, "spac", time.Now())

	ids := make([]string, 0, len(snap.Jobs))
	for _, job := range snap.Jobs {
		ids = append(ids, job.JobID)
	}
	// Newest start date first, same-day ties by ID, undated postings last
	assert.Equal(t, []string{"1", "3", "5", "8", "9"}, ids)
}

func TestMergeIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	records := []scraper.JobRecord{
		record("2", "2026-08-15", "open"),
		record("1", "2026-08-01", "open"),
	}
	prev := &Snapshot{
		Source: "spac",
		Jobs:   []scraper.JobRecord{record("3", "2026-07-01", "open")},
	}

	first := Merge(prev, records, "spac", now)
	second := Merge(prev, records, "spac", now)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestLoadMissingFile(t *testing.T) {
	snap, err := Load(t.TempDir() + "/absent.json")
	assert.NoError(t, err)
	assert.Nil(t, snap)
}
