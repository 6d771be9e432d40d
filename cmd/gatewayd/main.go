package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/ticketing/backend/internal/application/catalog"
	reservationapp "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/infrastructure/broker"
	"github.com/ticketing/backend/internal/infrastructure/cache"
	"github.com/ticketing/backend/internal/infrastructure/client"
	"github.com/ticketing/backend/internal/infrastructure/config"
	"github.com/ticketing/backend/internal/infrastructure/event"
	"github.com/ticketing/backend/internal/infrastructure/logger"
	"github.com/ticketing/backend/internal/infrastructure/persistence"
	"github.com/ticketing/backend/internal/interfaces/http/handler"
	"github.com/ticketing/backend/internal/interfaces/http/middleware"
	"github.com/ticketing/backend/internal/interfaces/http/router"
)

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

	log.Info("starting gateway",
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

	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	scope := persistence.NewGormReservationTransactionScope(db.DB)

	inventoryClient := client.NewInventoryHTTPClient(cfg.Inventory, log)
	orderClient := client.NewOrderHTTPClient(cfg.Order, log)
	reservationService := reservationapp.NewReservationService(inventoryClient, orderClient, scope, cfg.Hold.TTL, log)

	var readCache catalogapp.ReadCache
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			readCache = cache.NewRedisReadCache(redisClient, "catalog:")
		}
	}
	eventRepo := persistence.NewGormEventRepository(db.DB)
	catalogService := catalogapp.NewEventService(eventRepo, readCache, cfg.Catalog.CacheTTL, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn := broker.NewConnection(cfg.Broker.URL, cfg.Broker.ReconnectDelay, cfg.Broker.MaxReconnectWait, log)
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
	}
	if err := topology.Declare(ch); err != nil {
		log.Fatal("failed to declare broker topology", zap.Error(err))
	}

	publisher := broker.NewAMQPPublisher(conn, cfg.Broker.Exchange, log)
	defer publisher.Close()

	if cfg.Event.RelayEnabled {
		relay := event.NewOutboxRelay(outboxRepo, publisher, event.NewDomainEventSerializer(), event.RelayConfig{
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

	sweeper := reservationapp.NewExpirySweeper(scope, cfg.Hold.SweepInterval, cfg.Hold.SweepBatchSize, log)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	gatewayHandler := handler.NewGatewayHandler(reservationService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	healthHandler := handler.NewHealthHandler(map[string]func() error{
		"database": db.Ping,
	})
	engine := router.NewGatewayRouter(log, corsConfig, gatewayHandler, catalogHandler, healthHandler)
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
	log.Info("gateway listening", zap.String("addr", srv.Addr))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
}
