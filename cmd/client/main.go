package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-client/internal/api/http"
	"github.com/spec-kit/ticket-client/internal/api/http/handlers"
	"github.com/spec-kit/ticket-client/internal/config"
	"github.com/spec-kit/ticket-client/internal/coordinator"
	"github.com/spec-kit/ticket-client/internal/events"
	"github.com/spec-kit/ticket-client/internal/gateway"
	"github.com/spec-kit/ticket-client/internal/observability"
	"github.com/spec-kit/ticket-client/internal/persistence"
	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
	"github.com/spec-kit/ticket-client/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := persistence.NewSnapshotCache(cfg.Redis, logger)
	defer cache.Close()

	metrics := observability.NewMetrics()
	gw := gateway.NewClient(cfg.Gateway.BaseURL, logger)
	dispatcher := events.NewInMemoryDispatcher()
	ticketStore := store.NewStore(gw, dispatcher, logger)
	tracker := status.NewTracker()

	// write-through: every committed store state refreshes the cached
	// last-known-good snapshot
	dispatcher.SubscribeAll(func(ctx context.Context, _ events.Event) error {
		tickets, users := ticketStore.Snapshot()
		cache.Save(ctx, tickets, users)
		return nil
	})

	coord := coordinator.NewCoordinator(coordinator.Dependencies{
		Gateway:     gw,
		Store:       ticketStore,
		Tracker:     tracker,
		Metrics:     metrics,
		Logger:      logger,
		CallTimeout: cfg.Gateway.CallTimeout(),
	})

	if err := ticketStore.LoadAll(ctx); err != nil {
		logger.Warn("initial load failed, trying cached snapshot", zap.Error(err))
		snap, cacheErr := cache.Load(ctx)
		switch {
		case cacheErr == nil:
			ticketStore.Seed(ctx, snap.Tickets, snap.Users)
			logger.Info("warm start from cached snapshot",
				zap.Time("fetched_at", snap.FetchedAt),
				zap.Int("tickets", len(snap.Tickets)))
		case errors.Is(cacheErr, persistence.ErrNoSnapshot):
			logger.Warn("no cached snapshot, starting empty")
		default:
			logger.Warn("cached snapshot unavailable", zap.Error(cacheErr))
		}
	}

	if cfg.Refresh.Enabled {
		refresher := worker.NewRefreshWorker(ticketStore, tracker, cfg.Refresh.Interval(), logger)
		go refresher.Run(ctx)
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler()
	ticketsHandler := handlers.NewTicketsHandler(ticketStore, tracker, coord)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
