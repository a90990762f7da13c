package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/catalogkit/products/api/handler"
	"github.com/catalogkit/products/internal/config"
	"github.com/catalogkit/products/internal/infrastructure/monitor"
	"github.com/catalogkit/products/internal/infrastructure/outbox"
	pgInfra "github.com/catalogkit/products/internal/infrastructure/postgres"
	redisInfra "github.com/catalogkit/products/internal/infrastructure/redis"
	"github.com/catalogkit/products/internal/infrastructure/stream"
	"github.com/catalogkit/products/internal/middleware"
	"github.com/catalogkit/products/internal/router"
	"github.com/catalogkit/products/internal/services"
	"github.com/catalogkit/products/internal/services/lifecycle"
	"github.com/catalogkit/products/pkg/httpcontext"
	"github.com/catalogkit/products/pkg/logger"
	boltRepo "github.com/catalogkit/products/repository/bolt"
	"github.com/catalogkit/products/repository/postgres"
	redisRepo "github.com/catalogkit/products/repository/redis"
	"github.com/catalogkit/products/usecase"
	productUC "github.com/catalogkit/products/usecase/product"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	eventStore, err := boltRepo.Open(cfg.EventStore.Path, cfg.EventStore.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open event store", zap.Error(err))
	}
	manager.Register("event_store", func(ctx context.Context) error {
		return eventStore.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "outbox")
	if err != nil {
		zapLogger.Fatal("failed to open outbox store", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	productRepo := postgres.NewProductRepository(pool)
	lookupRepo := redisRepo.NewLookupRepository(redisClient)
	productCache := redisRepo.NewProductCache(redisClient, cfg.Cache.TTL)

	publisher := stream.NewPublisher(redisClient, cfg.Stream.Name, zapLogger)

	relay := services.NewOutboxRelay(
		outboxStore,
		mon,
		publisher,
		zapLogger,
		services.RelayConfig{
			Interval:   cfg.Outbox.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Outbox.MaxRetry,
		},
	)
	relay.Start()
	manager.Register("outbox_relay", func(ctx context.Context) error {
		relay.Stop(ctx)
		return nil
	})

	dispatcher := usecase.NewEventDispatcher(
		publisher,
		services.NewOutboxBridge(outboxStore),
		[]usecase.EventReactor{
			productUC.NewLookupWriter(lookupRepo, zapLogger),
			productUC.NewCacheInvalidator(productCache, zapLogger),
		},
		[]usecase.DispatchInterceptor{
			usecase.NewLoggingDispatchInterceptor(zapLogger),
		},
		zapLogger,
	)

	createHandler := productUC.NewCreateHandler(productRepo, lookupRepo, eventStore, dispatcher, zapLogger)
	updateHandler := productUC.NewUpdateHandler(productRepo, zapLogger)

	bus := usecase.NewCommandBus(zapLogger, usecase.NewLoggingCommandInterceptor(zapLogger))
	bus.Register(productUC.KindCreate, createHandler.Handle)
	bus.Register(productUC.KindUpdate, updateHandler.Handle)

	query := productUC.NewQuery(productRepo, productCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Product: apiHandler.NewProductHandler(bus, query, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
