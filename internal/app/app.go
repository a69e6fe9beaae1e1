package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/velora/storefront-cart/pkg/health"
	"github.com/velora/storefront-cart/pkg/httpclient"
	pkgkafka "github.com/velora/storefront-cart/pkg/kafka"
	"github.com/velora/storefront-cart/pkg/tracing"

	"github.com/velora/storefront-cart/internal/auth"
	"github.com/velora/storefront-cart/internal/catalog"
	"github.com/velora/storefront-cart/internal/config"
	"github.com/velora/storefront-cart/internal/event"
	handler "github.com/velora/storefront-cart/internal/handler/http"
	"github.com/velora/storefront-cart/internal/repository"
	mongorepo "github.com/velora/storefront-cart/internal/repository/mongo"
	redisrepo "github.com/velora/storefront-cart/internal/repository/redis"
	"github.com/velora/storefront-cart/internal/service"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	mongoClient     *mongodrv.Client
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates an application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "cart-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	repo, err := a.initStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	// Kafka producer for cart domain events.
	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Catalog client behind retries and a circuit breaker; stock ceilings
	// are skipped entirely when no base URL is configured.
	var productGetter service.ProductGetter
	if cfg.CatalogBaseURL != "" {
		retryClient := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(retryClient, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
		productGetter = catalog.NewClient(cbClient, cfg.CatalogBaseURL, logger)
		logger.Info("catalog client initialized", slog.String("base_url", cfg.CatalogBaseURL))
	}

	eventProducer := event.NewProducer(a.producer, logger)
	cartService := service.NewCartService(repo, productGetter, eventProducer, logger, cfg.Currency)

	routerOpts := handler.RouterOptions{
		PprofCIDRs:     cfg.PprofCIDRs,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
	if cfg.JWTSecret != "" {
		routerOpts.TokenValidator = auth.NewValidator(cfg.JWTSecret)
	}

	router := handler.NewRouter(cartService, healthHandler, logger, routerOpts)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// initStore connects the configured persistence backend and registers its
// readiness check.
func (a *App) initStore(ctx context.Context, healthHandler *health.Handler) (repository.CartRepository, error) {
	switch a.cfg.CartStore {
	case config.StoreMongo:
		db, err := mongorepo.Connect(ctx, a.cfg.MongoURI, a.cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.mongoClient = db.Client()

		repo := mongorepo.NewCartRepository(db)
		if err := repo.EnsureIndexes(ctx, time.Duration(a.cfg.CartTTL)*time.Hour); err != nil {
			return nil, err
		}
		a.logger.Info("connected to MongoDB", slog.String("database", a.cfg.MongoDatabase))

		healthHandler.Register("mongodb", func(ctx context.Context) error {
			return a.mongoClient.Ping(ctx, nil)
		})
		return repo, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)

		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		return redisrepo.NewCartRepository(rdb, time.Duration(a.cfg.CartTTL)*time.Hour), nil

	default:
		return nil, fmt.Errorf("unknown cart store: %q", a.cfg.CartStore)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
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

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
