package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/ticketing/backend/internal/application/inventory"
	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/infrastructure/broker"
	"github.com/ticketing/backend/internal/infrastructure/cache"
	"github.com/ticketing/backend/internal/infrastructure/config"
	"github.com/ticketing/backend/internal/infrastructure/event"
	"github.com/ticketing/backend/internal/infrastructure/logger"
	"github.com/ticketing/backend/internal/infrastructure/persistence"
	"github.com/ticketing/backend/internal/interfaces/http/handler"
	"github.com/ticketing/backend/internal/interfaces/http/router"
)

const dedupTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	scope := persistence.NewGormInventoryTransactionScope(db.DB)
	inventoryService := inventoryapp.NewInventoryService(itemRepo, scope, log)

	serializer := event.NewDomainEventSerializer()

	conn := broker.NewConnection(cfg.Broker.URL, cfg.Broker.ReconnectDelay, cfg.Broker.MaxReconnectWait, log)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := conn.Connect(ctx); err != nil {
		log.Fatal("failed to connect to broker", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel(ctx)
	if err != nil {
		log.Fatal("failed to open broker channel", zap.Error(err))
	}
	topology := broker.Topology{
		Exchange:         cfg.Broker.Exchange,
		DeadLetterSuffix: cfg.Broker.DeadLetterSuffix,
		Queues: []broker.QueueSpec{{
			Name: "inventory",
			RoutingKeys: []string{
				reservation.EventTypeHoldExpired,
				order.EventTypeOrderConfirmed,
				order.EventTypeOrderCancelled,
			},
		}},
	}
	if err := topology.Declare(ch); err != nil {
		log.Fatal("failed to declare broker topology", zap.Error(err))
	}

	publisher := broker.NewAMQPPublisher(conn, cfg.Broker.Exchange, log)
	defer publisher.Close()

	if cfg.Event.RelayEnabled {
		relay := event.NewOutboxRelay(outboxRepo, publisher, serializer, event.RelayConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}, log)
		if err := relay.Start(ctx); err != nil {
			log.Fatal("failed to start outbox relay", zap.Error(err))
		}
		defer func() {
			if err := relay.Stop(context.Background()); err != nil {
				log.Error("error stopping outbox relay", zap.Error(err))
			}
		}()
	}

	// Fast dedup pre-filter in front of the transactional consumed_events check
	dedupStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}
	defer dedupStore.Close()
	dedup := broker.DedupMiddleware(dedupStore, dedupTTL, log)

	consumer := broker.NewConsumer(conn, serializer, broker.ConsumerConfig{
		Queue:      "inventory",
		Prefetch:   cfg.Broker.Prefetch,
		MaxRetries: cfg.Broker.MaxRetries,
	}, log)

	eventHandlers := []shared.EventHandler{
		inventoryapp.NewHoldExpiredHandler(inventoryService, log),
		inventoryapp.NewOrderConfirmedHandler(inventoryService, log),
		inventoryapp.NewOrderCancelledHandler(inventoryService, log),
	}
	for _, h := range eventHandlers {
		for _, eventType := range h.EventTypes() {
			consumer.Handle(eventType, dedup(h.Handle))
		}
	}

	if err := consumer.Start(ctx); err != nil {
		log.Fatal("failed to start consumer", zap.Error(err))
	}
	defer func() {
		if err := consumer.Stop(context.Background()); err != nil {
			log.Error("error stopping consumer", zap.Error(err))
		}
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	healthHandler := handler.NewHealthHandler(map[string]func() error{
		"database": db.Ping,
	})
	engine := router.NewInventoryRouter(log, inventoryHandler, healthHandler)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()
	log.Info("inventory service listening", zap.String("addr", srv.Addr))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
}
