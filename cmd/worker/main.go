package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventguard/api"
	"eventguard/config"
	"eventguard/logging"
	"eventguard/service"
	"eventguard/shared/kafka"
	"eventguard/worker"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal("worker failed", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.KafkaEnabled() {
		return errors.New("KAFKA_BOOTSTRAP_SERVERS is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logging.Warn("failed to close collaborators", "err", err)
		}
	}()

	var publisher worker.ReportPublisher
	if cfg.Kafka.ReportTopic != "" {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.ReportTopic})
		if err != nil {
			return fmt.Errorf("failed to create report producer: %w", err)
		}
		defer producer.Close()
		publisher = producer
		logging.Info("publishing reports", "topic", cfg.Kafka.ReportTopic)
	}

	consumer, err := kafka.NewConsumer(cfg.ConsumerConfig(worker.NewBatchHandler(svc.Runner, publisher)))
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logging.Error("kafka consumer close error", "err", err)
		}
	}()
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start kafka consumer: %w", err)
	}

	// metrics only; the worker has no other HTTP surface
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewMetricsRouter(svc.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("metrics server error", "err", err)
		}
	}()

	logging.Info("worker running",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topic,
		"group", cfg.Kafka.GroupID,
		"oldest_offset", cfg.Kafka.OldestOffset,
		"metrics", cfg.Addr(),
	)

	<-ctx.Done()
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("metrics server shutdown error", "err", err)
	}
	logging.Info("worker stopped")
	return nil
}
