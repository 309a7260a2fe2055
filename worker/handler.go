package worker

import (
	"context"
	"fmt"

	"eventguard/localisation"
	"eventguard/logging"
	"eventguard/pipeline"
	"eventguard/shared/kafka"
)

// BatchRunner runs a single batch. *pipeline.Runner implements it.
type BatchRunner interface {
	Run(ctx context.Context, batch pipeline.Batch) (*pipeline.Report, error)
}

// ReportPublisher forwards finished reports. *kafka.Producer implements it.
type ReportPublisher interface {
	PublishJSON(key string, v any) error
}

// NewBatchHandler decodes pipeline batches from kafka and runs them.
// Batches without a supported country are skipped and marked; runs that fail are
// left unmarked so they are redelivered. publisher may be nil.
func NewBatchHandler(runner BatchRunner, publisher ReportPublisher) *kafka.TypedMessageHandler[pipeline.Batch] {
	log := logging.WithPrefix("worker")

	return &kafka.TypedMessageHandler[pipeline.Batch]{
		Validate: func(msg *pipeline.Batch) bool {
			if localisation.IsSupported(msg.ExpectedCountry) {
				return true
			}
			log.Warn("batch has unsupported expected country, skipping",
				"correlation_id", msg.CorrelationID,
				"expected_country", msg.ExpectedCountry,
			)
			return false
		},
		Process: func(ctx context.Context, msg *pipeline.Batch) error {
			report, err := runner.Run(ctx, *msg)
			if err != nil {
				return fmt.Errorf("run batch %s: %w", msg.CorrelationID, err)
			}
			log.Info("batch processed",
				"correlation_id", report.CorrelationID,
				"accepted", len(report.Accepted),
				"quarantined", len(report.Quarantined),
				"duplicates", report.Deduplication.Stats.Duplicates,
			)

			if publisher == nil {
				return nil
			}
			if err := publisher.PublishJSON(report.CorrelationID, report); err != nil {
				// the batch itself is done, a rerun would only duplicate side effects
				log.Error("failed to publish report", "correlation_id", report.CorrelationID, "err", err)
			}
			return nil
		},
		AlwaysMark: true,
	}
}
