package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/storelane/store-service/api/handler"
	"github.com/storelane/store-service/internal/config"
	"github.com/storelane/store-service/internal/infrastructure/monitor"
	"github.com/storelane/store-service/internal/infrastructure/outbox"
	pgInfra "github.com/storelane/store-service/internal/infrastructure/postgres"
	redisInfra "github.com/storelane/store-service/internal/infrastructure/redis"
	"github.com/storelane/store-service/internal/infrastructure/stream"
	"github.com/storelane/store-service/internal/middleware"
	"github.com/storelane/store-service/internal/router"
	"github.com/storelane/store-service/internal/services"
	"github.com/storelane/store-service/internal/services/lifecycle"
	"github.com/storelane/store-service/pkg/httpcontext"
	"github.com/storelane/store-service/pkg/logger"
	"github.com/storelane/store-service/repository/postgres"
	redisRepo "github.com/storelane/store-service/repository/redis"
	idemUC "github.com/storelane/store-service/usecase/idempotency"
	storeUC "github.com/storelane/store-service/usecase/store"
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

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
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

	broker := stream.NewBroker(redisClient, zapLogger)

	dispatcher := services.NewOutboxDispatcher(
		outboxStore,
		broker,
		mon,
		zapLogger,
		services.DispatcherConfig{
			Interval:   cfg.Outbox.DispatchInterval,
			BatchSize:  cfg.Outbox.BatchSize,
			MaxRetries: cfg.Outbox.MaxRetry,
		},
	)
	dispatcher.Start()
	manager.Register("outbox_dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	publisher := services.NewEventPublisher(outboxStore, cfg.Broker.Topic, zapLogger)

	storeRepo := postgres.NewStoreRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	identityRepo := postgres.NewIdentityResolver(pool)
	txManager := postgres.NewTxManager(pool)
	idemStore := redisRepo.NewIdempotencyStore(redisClient, cfg.Idempotency.TTL)

	storeUseCase := storeUC.New(storeRepo, auditRepo, identityRepo, txManager, publisher, zapLogger)
	idemService := idemUC.New(idemStore, cfg.Idempotency.TTL, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Store:  apiHandler.NewStoreHandler(storeUseCase, idemService, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
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
