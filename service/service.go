package service

import (
	"context"
	"errors"

	"eventguard/config"
	"eventguard/deduplication"
	"eventguard/logging"
	"eventguard/metrics"
	"eventguard/pipeline"
	"eventguard/storage"
)

// Service bundles the runner with the collaborators built from configuration
type Service struct {
	Runner  *pipeline.Runner
	Metrics *metrics.Metrics
	// Archiver is nil when S3 is not configured
	Archiver *storage.ReportArchiver

	closers []func() error
}

// Build initialises logging and the optional collaborators, then the runner.
// Redis and S3 failures are logged and leave that collaborator disabled.
func Build(ctx context.Context, cfg config.Config) (*Service, error) {
	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return nil, err
	}

	svc := &Service{Metrics: metrics.New()}
	opts := pipeline.Options{
		Metrics:     svc.Metrics,
		Concurrency: cfg.Pipeline.Concurrency,
	}

	if bloom := initializeBloom(ctx, cfg); bloom != nil {
		opts.SeenFilter = bloom
		svc.closers = append(svc.closers, bloom.Close)
	}
	if archiver := initializeArchiver(ctx, cfg); archiver != nil {
		opts.Archiver = archiver
		svc.Archiver = archiver
	}

	svc.Runner = pipeline.NewRunner(opts)
	return svc, nil
}

// initializeBloom returns the seen filter if redis is configured
func initializeBloom(ctx context.Context, cfg config.Config) *deduplication.RedisBloom {
	if !cfg.BloomEnabled() {
		logging.Info("redis not configured; seen filter disabled")
		return nil
	}
	bloom, err := deduplication.NewRedisBloom(ctx, cfg.BloomConfig())
	if err != nil {
		logging.Warn("failed to init seen filter, continuing without it", "addr", cfg.Redis.Addr, "err", err)
		return nil
	}
	logging.Info("seen filter ready", "addr", cfg.Redis.Addr, "key", cfg.Bloom.Key)
	return bloom
}

// initializeArchiver returns the report archiver if a bucket is configured
func initializeArchiver(ctx context.Context, cfg config.Config) *storage.ReportArchiver {
	if !cfg.S3Enabled() {
		logging.Info("S3 not configured; report archiving disabled")
		return nil
	}
	s3c, err := storage.NewS3(ctx, cfg.S3Config())
	if err != nil {
		logging.Warn("failed to init S3 client, archiving disabled", "bucket", cfg.S3.Bucket, "err", err)
		return nil
	}
	archiver, err := storage.NewReportArchiver(s3c, cfg.S3.Prefix)
	if err != nil {
		logging.Warn("failed to init report archiver", "err", err)
		return nil
	}
	logging.Info("report archiving enabled", "bucket", s3c.Bucket(), "prefix", cfg.S3.Prefix)
	return archiver
}

// Close releases every collaborator opened by Build
func (s *Service) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
