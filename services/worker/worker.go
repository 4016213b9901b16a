package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"spacjobs/jobfeedworker/internal/scraper"
	"spacjobs/jobfeedworker/internal/snapshot"
	"spacjobs/jobfeedworker/logger"
	"spacjobs/jobfeedworker/pkg/errors"
	"spacjobs/jobfeedworker/services/publisher"
)

// Worker runs the scrape-merge-write pipeline, once or on an interval
type Worker struct {
	ctx        context.Context
	scraper    scraper.Scraper
	publisher  publisher.Publisher
	outputPath string
	interval   time.Duration
	log        *logger.Logger
}

// NewWorker creates a new worker. The publisher may be nil, in which case
// newly discovered postings are not announced anywhere.
func NewWorker(
	ctx context.Context,
	scr scraper.Scraper,
	pub publisher.Publisher,
	outputPath string,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:        ctx,
		scraper:    scr,
		publisher:  pub,
		outputPath: outputPath,
		interval:   interval,
		log:        logger.ForWorker(),
	}
}

// RunOnce executes one full pipeline pass: scrape, merge against the
// previous snapshot, write atomically, announce new postings. On error no
// output is written and the previous snapshot survives untouched.
func (w *Worker) RunOnce() (*snapshot.Snapshot, error) {
	start := time.Now()

	records, err := w.scraper.FetchJobs(w.ctx)
	if err != nil {
		return nil, err
	}

	prev, err := snapshot.Load(w.outputPath)
	if err != nil {
		// A corrupt previous snapshot should not wedge the pipeline forever;
		// it gets rebuilt from this run's scrape
		w.log.Warn().Err(err).Msg("Ignoring unreadable previous snapshot")
		prev = nil
	}

	snap := snapshot.Merge(prev, records, w.scraper.GetSource(), time.Now())
	if err := snapshot.Write(snap, w.outputPath); err != nil {
		return nil, err
	}

	w.publishNew(prev, snap)

	w.log.Info().
		Int("scraped", len(records)).
		Int("total", snap.JobCount).
		Str("output", w.outputPath).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot written")

	return snap, nil
}

// Start runs the pipeline once, then keeps repeating on the configured
// interval until the context is cancelled. With no interval the first
// result is final. Scrape failures between intervals are logged and the
// next tick retries; a write failure is fatal in any mode since the
// snapshot on disk can no longer be refreshed.
func (w *Worker) Start() error {
	snap, err := w.RunOnce()
	if err != nil {
		if w.interval <= 0 || isWriteFailure(err) {
			return err
		}
		w.log.Error().Err(err).Bool("retryable", isRetryable(err)).Msg("Scrape run failed")
	} else {
		w.log.Info().Int("job_count", snap.JobCount).Msg("Scrape run complete")
	}

	if w.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return nil
		case <-ticker.C:
			if snap, err := w.RunOnce(); err != nil {
				if isWriteFailure(err) {
					return err
				}
				w.log.Error().Err(err).Bool("retryable", isRetryable(err)).Msg("Scrape run failed")
			} else {
				w.log.Info().Int("job_count", snap.JobCount).Msg("Scrape run complete")
			}
		}
	}
}

// isRetryable reports whether a failed run is worth retrying on the next tick
func isRetryable(err error) bool {
	var scrapeErr *errors.ScrapeError
	if stderrors.As(err, &scrapeErr) {
		return scrapeErr.IsRetryable()
	}
	return false
}

// isWriteFailure reports whether a failed run died writing the snapshot
func isWriteFailure(err error) bool {
	var scrapeErr *errors.ScrapeError
	return stderrors.As(err, &scrapeErr) && scrapeErr.Type == errors.ErrorTypeWrite
}

// publishNew announces postings absent from the previous snapshot. Publish
// failures are logged and never affect the pipeline result.
func (w *Worker) publishNew(prev *snapshot.Snapshot, snap *snapshot.Snapshot) {
	if w.publisher == nil {
		return
	}

	known := make(map[string]bool)
	if prev != nil {
		for _, job := range prev.Jobs {
			known[job.JobID] = true
		}
	}

	published := 0
	for _, job := range snap.Jobs {
		if known[job.JobID] {
			continue
		}
		data, err := json.Marshal(job)
		if err != nil {
			w.log.Error().Err(err).Str("job_id", job.JobID).Msg("Failed to marshal posting")
			continue
		}
		if err := w.publisher.Publish(w.scraper.GetSource(), data); err != nil {
			w.log.Error().Err(err).Str("job_id", job.JobID).Msg("Failed to publish posting")
			continue
		}
		published++
	}

	if published > 0 {
		w.log.Info().Int("published", published).Msg("Announced new postings")
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Failed to trim streams")
		}
	}
}
