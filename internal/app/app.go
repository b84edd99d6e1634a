package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/productspec/internal/config"
	"github.com/utafrali/productspec/internal/event"
	handler "github.com/utafrali/productspec/internal/handler/http"
	"github.com/utafrali/productspec/internal/pages"
	"github.com/utafrali/productspec/internal/repository"
	"github.com/utafrali/productspec/internal/repository/breaker"
	"github.com/utafrali/productspec/internal/repository/memory"
	redisrepo "github.com/utafrali/productspec/internal/repository/redis"
	"github.com/utafrali/productspec/internal/store"
	"github.com/utafrali/productspec/pkg/database"
	"github.com/utafrali/productspec/pkg/health"
	pkgkafka "github.com/utafrali/productspec/pkg/kafka"
	"github.com/utafrali/productspec/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "productspec"

// App wires together all dependencies and runs the productspec service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// Storage is an opened durable record plus whatever must be closed with it.
type Storage struct {
	Repo  repository.SnapshotRepository
	Redis *redis.Client
}

// Close releases the Redis client, if any.
func (s *Storage) Close() error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}

// OpenStorage builds the snapshot repository selected by cfg. The Redis
// backend is verified with PING before returning.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	var st Storage

	switch cfg.StoreBackend {
	case config.BackendMemory:
		st.Repo = memory.NewSnapshotRepository(cfg.StoreKey)
		logger.Warn("using in-memory storage, the session will not survive a restart")
	default:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB
		redisCfg.DialTimeout = cfg.StoreTimeout

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
			slog.String("key", cfg.StoreKey),
		)

		st.Redis = rdb
		st.Repo = redisrepo.NewSnapshotRepository(rdb, cfg.StoreKey)
	}

	if cfg.BreakerEnabled {
		st.Repo = breaker.Wrap(st.Repo, breaker.DefaultConfig("store-"+cfg.StoreBackend), logger)
	}

	return &st, nil
}

// NewApp creates a new application instance, initializing all dependencies.
// The store is hydrated from the durable record before NewApp returns.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig(ServiceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.Enabled = cfg.OTELEnabled
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Durable record.
	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, err
	}

	// Change feed.
	var (
		producer  *pkgkafka.Producer
		publisher store.Publisher = event.Nop{}
	)
	if cfg.EventsEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// release undoes everything built so far when a later step fails.
	release := func() {
		if producer != nil {
			_ = producer.Close()
		}
		_ = storage.Close()
		_ = tracerShutdown(ctx)
	}

	// Build the store; this reads the durable record.
	s, err := store.New(ctx, storage.Repo, publisher, logger)
	if err != nil {
		release()
		return nil, err
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register(cfg.StoreBackend, storage.Repo.Ping)
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// Page views.
	pageRouter, err := pages.NewRouter(pages.DefaultRoutes(), pages.NotFoundView)
	if err != nil {
		release()
		return nil, fmt.Errorf("build page routes: %w", err)
	}

	// HTTP router.
	router := handler.NewRouter(s, pageRouter, healthHandler, logger, cfg.CORSAllowedOrigins, handler.RateLimit{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            storage.Redis,
		producer:       producer,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
