package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventguard/deduplication"
	"eventguard/localisation"
	"eventguard/logging"
	"eventguard/metrics"
	"eventguard/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds RunAll when Options.Concurrency is not set
const DefaultConcurrency = 4

// SeenFilter remembers canonical events across runs. *deduplication.RedisBloom implements it.
type SeenFilter interface {
	Seen(ctx context.Context, fingerprint string) (bool, error)
	Mark(ctx context.Context, fingerprint string) error
}

// Archiver stores finished reports. *storage.ReportArchiver implements it.
type Archiver interface {
	Archive(ctx context.Context, id string, at time.Time, report any) (string, error)
}

// Batch is one unit of work: the events gathered for one target country
type Batch struct {
	CorrelationID   string              `json:"correlation_id"`
	ExpectedCountry string              `json:"expected_country" binding:"required"`
	Events          []types.EventRecord `json:"events"`
}

// QuarantinedEvent is a canonical event held back by the localisation guard
type QuarantinedEvent struct {
	Event     types.EventRecord      `json:"event"`
	Violation localisation.Violation `json:"violation"`
}

// Report is the outcome of running one batch
type Report struct {
	CorrelationID   string                                                 `json:"correlation_id"`
	ExpectedCountry string                                                 `json:"expected_country"`
	StartedAt       time.Time                                              `json:"started_at"`
	DurationMillis  int64                                                  `json:"duration_ms"`
	Accepted        []types.EventRecord                                    `json:"accepted"`
	Quarantined     []QuarantinedEvent                                     `json:"quarantined"`
	PreviouslySeen  []string                                               `json:"previously_seen"`
	Deduplication   deduplication.DeduplicationResult[types.EventRecord]   `json:"deduplication"`
	Speakers        deduplication.DeduplicationResult[types.SpeakerRecord] `json:"speakers"`
	Localisation    localisation.Result                                    `json:"localisation"`
	ArchiveKey      string                                                 `json:"archive_key,omitempty"`
}

// Options configures a Runner. Every collaborator is optional.
type Options struct {
	SeenFilter  SeenFilter
	Archiver    Archiver
	Metrics     *metrics.Metrics
	Concurrency int
}

// Runner runs batches through dedup then localisation
type Runner struct {
	seen        SeenFilter
	archiver    Archiver
	metrics     *metrics.Metrics
	concurrency int
	now         func() time.Time
}

// NewRunner creates a runner from opts
func NewRunner(opts Options) *Runner {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Runner{
		seen:        opts.SeenFilter,
		archiver:    opts.Archiver,
		metrics:     opts.Metrics,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run executes one batch:
// dedup, merge speakers of duplicates, localise canonicals, split accepted from
// quarantined, dedup the accepted speakers, remember accepted events, record
// metrics and archive the report.
//
// The seen filter and archive are best effort; their failures are logged and only
// context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, batch Batch) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := r.now()
	id := batch.CorrelationID
	if id == "" {
		id = uuid.New().String()
	}
	expected := localisation.NormalizeCountry(batch.ExpectedCountry)

	report := &Report{
		CorrelationID:   id,
		ExpectedCountry: expected,
		StartedAt:       started.UTC(),
		Accepted:        make([]types.EventRecord, 0),
		Quarantined:     make([]QuarantinedEvent, 0),
		PreviouslySeen:  make([]string, 0),
	}

	// Step 1: Deduplicate
	report.Deduplication = deduplication.DetectNearDuplicateEvents(batch.Events)
	canonical := MergeDuplicateSpeakers(report.Deduplication)

	// Step 2: Localise
	results := make([]types.SearchResult, len(canonical))
	for i, e := range canonical {
		results[i] = e.AsSearchResult()
	}
	loc, checks := localisation.AssertCountryChecks(results, expected, id)
	report.Localisation = loc

	for i, e := range canonical {
		if checks[i].Passed {
			report.Accepted = append(report.Accepted, e)
			continue
		}
		report.Quarantined = append(report.Quarantined, QuarantinedEvent{
			Event: e,
			Violation: localisation.Violation{
				URL:             e.SourceURL,
				ExpectedCountry: expected,
				DetectedCountry: checks[i].DetectedCountry,
				Confidence:      checks[i].Confidence,
				Reason:          checks[i].Reason,
			},
		})
	}

	// Step 3: Collapse speakers shared across accepted events
	var speakers []types.SpeakerRecord
	for _, e := range report.Accepted {
		speakers = append(speakers, e.SpeakerRecords()...)
	}
	report.Speakers = deduplication.DeduplicateSpeakers(speakers)

	// Step 4: Remember accepted events
	if err := r.markSeen(ctx, report); err != nil {
		return nil, fmt.Errorf("mark seen: %w", err)
	}

	report.DurationMillis = r.now().Sub(started).Milliseconds()
	r.metrics.ObserveDeduplication(report.Deduplication.Stats)
	r.metrics.ObserveLocalisation(expected, report.Localisation)
	r.metrics.ObservePipeline(r.now().Sub(started))

	// Step 5: Archive
	if r.archiver != nil {
		key, err := r.archiver.Archive(ctx, id, started, report)
		switch {
		case err == nil:
			report.ArchiveKey = key
		case isContextErr(err):
			return nil, fmt.Errorf("archive report: %w", err)
		default:
			logging.Warn("failed to archive report", "correlation_id", id, "err", err)
		}
	}

	logging.Debug("batch processed",
		"correlation_id", id,
		"expected_country", expected,
		"events", len(batch.Events),
		"accepted", len(report.Accepted),
		"quarantined", len(report.Quarantined),
		"duplicates", report.Deduplication.Stats.Duplicates,
	)
	return report, nil
}

// markSeen annotates accepted events already seen in earlier runs and marks all of them.
// The filter is abandoned for this batch after its first failure.
func (r *Runner) markSeen(ctx context.Context, report *Report) error {
	if r.seen == nil {
		return nil
	}

	for _, e := range report.Accepted {
		fp := deduplication.Fingerprint(e)

		seen, err := r.seen.Seen(ctx, fp)
		if err == nil && seen {
			report.PreviouslySeen = append(report.PreviouslySeen, e.SourceURL)
		}
		if err == nil {
			err = r.seen.Mark(ctx, fp)
		}
		if err != nil {
			if isContextErr(err) {
				return err
			}
			logging.Warn("seen filter unavailable, skipping", "correlation_id", report.CorrelationID, "err", err)
			return nil
		}
	}
	return nil
}

// RunAll runs independent batches concurrently and returns their reports in input order
func (r *Runner) RunAll(ctx context.Context, batches []Batch) ([]*Report, error) {
	reports := make([]*Report, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, b := range batches {
		g.Go(func() error {
			report, err := r.Run(gctx, b)
			if err != nil {
				return fmt.Errorf("batch %d (%s): %w", i, b.ExpectedCountry, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
