package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homestay/internal/app/outbox"
	"homestay/internal/app/policies"
	"homestay/internal/infra/bootstrap"
	"homestay/internal/infra/broker/kafka"
	"homestay/internal/infra/config"
	mongodb "homestay/internal/infra/db/mongo"
	"homestay/internal/infra/fixtures"
	ginserver "homestay/internal/infra/http/gin"
	"homestay/internal/infra/obs"
	outboxinfra "homestay/internal/infra/outbox"
	sitesettings "homestay/internal/infra/settings"
	"homestay/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod", "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("homestay stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("homestay stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var metrics *obs.Metrics
	if cfg.MetricsEnabled {
		metrics = obs.NewMetrics("homestay")
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("homestay"))
		if err != nil {
			return err
		}
		producer = p
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		}()
	}

	deps := bootstrap.Deps{
		Clock:   policies.SystemClock{Location: cfg.Timezone},
		Metrics: metrics,
		Logger:  logger,
		Encoder: outbox.JSONEventEncoder{Source: "homestay"},
	}
	var (
		target fixtures.Target
		ready  func(ctx context.Context) error
	)

	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}()
		listingRepo := mongodb.NewListingRepository(client.DB)
		availRepo := mongodb.NewAvailabilityRepository(client.DB)
		idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
		if err != nil {
			return fmt.Errorf("idempotency store: %w", err)
		}
		store, err := outboxinfra.NewStore(ctx, client.DB)
		if err != nil {
			return fmt.Errorf("outbox store: %w", err)
		}
		deps.Listings = listingRepo
		deps.Availability = availRepo
		deps.Settings = mongodb.NewSettingsRepository(client.DB)
		deps.Idempotency = idem
		deps.Outbox = store
		target = fixtures.Target{Listings: listingRepo, Availability: availRepo}
		ready = client.Ping

		worker := &outboxinfra.Worker{
			Store:     store,
			Publisher: outboxinfra.Relay{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix},
			Interval:  cfg.OutboxPollInterval,
			Backoff:   cfg.RetryBackoff,
			Logger:    logger,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()

	default:
		site, err := sitesettings.LoadFile(cfg.SettingsFile)
		if err != nil {
			return err
		}
		listingRepo := memory.NewListingRepository()
		availRepo := memory.NewAvailabilityRepository()
		var publisher outbox.Publisher
		if producer != nil {
			publisher = outboxinfra.Relay{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
		}
		deps.Listings = listingRepo
		deps.Availability = availRepo
		deps.Settings = memory.NewSettingsStore(site)
		deps.Idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		box := memory.NewOutbox(publisher)
		deps.Outbox = box
		target = fixtures.Target{Listings: listingRepo, Availability: availRepo}
		if publisher != nil {
			go retryFlush(ctx, box, cfg.OutboxPollInterval, logger)
		}
	}

	if cfg.ListingsFixtures != "" {
		n, err := fixtures.LoadFile(ctx, cfg.ListingsFixtures, target, time.Now())
		if err != nil {
			logger.Warn("listing fixtures load failed", "error", err, "path", cfg.ListingsFixtures)
		} else {
			logger.Info("listing fixtures loaded", "count", n, "path", cfg.ListingsFixtures)
		}
	}

	buses := bootstrap.NewBuses(deps)
	obsMW := obs.Middleware{Logger: logger, Metrics: metrics}
	server := ginserver.NewServer(cfg, obsMW, obs.HealthHandlers{Ready: ready}, bootstrap.HTTPHandlers(buses, logger, metrics))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// retryFlush republishes records a command-time flush could not deliver.
func retryFlush(ctx context.Context, box *memory.Outbox, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(box.Pending()) == 0 {
				continue
			}
			if err := box.Flush(ctx); err != nil {
				logger.Warn("outbox retry failed", "error", err)
			}
		}
	}
}
