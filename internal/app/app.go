package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/phamkhoa1373/E-commerce/internal/backend"
	"github.com/phamkhoa1373/E-commerce/internal/cart"
	"github.com/phamkhoa1373/E-commerce/internal/config"
	"github.com/phamkhoa1373/E-commerce/internal/event"
	handler "github.com/phamkhoa1373/E-commerce/internal/handler/http"
	"github.com/phamkhoa1373/E-commerce/internal/proxy"
	"github.com/phamkhoa1373/E-commerce/pkg/health"
	"github.com/phamkhoa1373/E-commerce/pkg/httpclient"
	pkgkafka "github.com/phamkhoa1373/E-commerce/pkg/kafka"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates an application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Shop backend client: retries inside a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.RequestTimeout
	httpCfg.MaxRetries = cfg.RequestRetries
	breaker := httpclient.NewBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultBreakerConfig("shop-api"),
		logger,
	)
	shopAPI := backend.NewClient(cfg.BackendBaseURL, breaker, logger)

	strategy, err := cart.ParseStrategy(cfg.RefreshStrategy)
	if err != nil {
		return nil, err
	}

	store := cart.NewRedisStore(rdb, cfg.CartTTL)
	eventProducer := event.NewProducer(producer, logger)
	cartService := cart.NewService(shopAPI, store, eventProducer, strategy, logger)

	shopProxy, err := proxy.New(cfg.BackendBaseURL, logger)
	if err != nil {
		return nil, err
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	healthHandler.Register("shop-api", func(ctx context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return fmt.Errorf("circuit breaker open")
		}
		return nil
	})

	router := handler.NewRouter(cfg, cartService, shopAPI, shopProxy, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
