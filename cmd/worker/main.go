package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stockalloc/pkg/app"
	"github.com/ghuser/stockalloc/pkg/cache"
	"github.com/ghuser/stockalloc/pkg/config"
	"github.com/ghuser/stockalloc/pkg/database"
	"github.com/ghuser/stockalloc/pkg/events"
	"github.com/ghuser/stockalloc/pkg/logger"
	"github.com/ghuser/stockalloc/pkg/telemetry"
	allocEvents "github.com/ghuser/stockalloc/services/allocation/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	// Drain the outbox queue alongside the API instances; the shared
	// consumer group load-balances forwarding across processes.
	fwdCtx, cancelForwarder := context.WithCancel(ctx)
	defer cancelForwarder()
	if err := eventBus.StartForwarder(fwdCtx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	//temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	//if err != nil {
	//	log.Error("failed to initialize temporal client", "error", err)
	//	os.Exit(1) //nolint:gocritic
	//}
	//defer temporalClient.Close()

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		//TemporalClient: temporalClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancelForwarder()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := map[string]func(context.Context, *message.Message) error{
		allocEvents.TopicBatchCreated:    handleBatchCreated(a),
		allocEvents.TopicLineAllocated:   handleAvailabilityChanged(a, allocEvents.TopicLineAllocated),
		allocEvents.TopicLineDeallocated: handleAvailabilityChanged(a, allocEvents.TopicLineDeallocated),
	}

	registered := make([]string, 0, len(topics))
	for topic, handler := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error",
					"topic", topic,
					"error", err,
				)
			}
		}(topic)
		registered = append(registered, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", registered)
	return nil
}

// handleBatchCreated returns a handler for batch.created events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Warms the Redis read-model cache so subsequent GetBatch calls are served from cache.
func handleBatchCreated(a *app.Application) func(context.Context, *message.Message) error {
	batchCache := cache.NewBatchCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt allocEvents.BatchCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		// A fresh batch has no allocations, so full quantity is available.
		if err := batchCache.Set(ctx, &cache.CachedBatch{
			ID:           evt.BatchID,
			SKU:          evt.SKU,
			Qty:          evt.Qty,
			AvailableQty: evt.Qty,
			ETA:          evt.ETA,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for batch.created",
				"batch_id", evt.BatchID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed",
				"batch_id", evt.BatchID, "sku", evt.SKU)
		}

		return nil
	}
}

// handleAvailabilityChanged returns a handler for allocation and
// deallocation events. The stale cache entry is dropped rather than patched:
// both event payloads carry the post-change availability, but the cached
// hash also holds fields this event does not, so the next read repopulates
// it from Postgres.
func handleAvailabilityChanged(a *app.Application, topic string) func(context.Context, *message.Message) error {
	batchCache := cache.NewBatchCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt allocEvents.LineAllocatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := batchCache.Delete(ctx, evt.BatchID); err != nil {
			a.Logger.WarnContext(ctx, "cache invalidation failed",
				"topic", topic, "batch_id", evt.BatchID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache invalidated",
				"topic", topic, "batch_id", evt.BatchID, "available_qty", evt.AvailableQty)
		}

		return nil
	}
}
