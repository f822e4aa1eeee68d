package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/cache"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/commerce"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/config"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/domain"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/event"
	handler "github.com/YousefAboschwaly/ecommerce-V2/internal/handler/http"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/notify"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/service"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/database"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/health"
	pkgkafka "github.com/YousefAboschwaly/ecommerce-V2/pkg/kafka"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/middleware"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis backs the "redis" session store and the catalog cache.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		if cfg.SessionStore == "redis" {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		// Catalog caching degrades gracefully without Redis.
		logger.Warn("redis unreachable, catalog caching disabled",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		rdb = nil
	} else {
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	}

	// Session store.
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		store = session.NewRedisStore(rdb, sessionTTL)
	case "file":
		store, err = session.NewTOMLFileStore(cfg.SessionFilePath)
		if err != nil {
			return nil, fmt.Errorf("open session file: %w", err)
		}
	case "memory":
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store)

	// Kafka activity events, optional.
	var producer *pkgkafka.Producer
	var events event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, activity events are dropped")
	}

	// Commerce API client: retries wrapped in a circuit breaker.
	api := commerce.NewDefault(commerce.Config{
		BaseURL:     cfg.CommerceBaseURL,
		ServiceName: "commerce-api",
	}, logger)

	// Build the dependency graph.
	syncTTL := time.Duration(cfg.SyncCacheTTLSeconds) * time.Second
	bus := cache.NewInvalidationBus()
	notifier := notify.NewContextNotifier(logger)

	cartCache := cache.New[domain.Cart]("cart", syncTTL, logger)
	wishlistCache := cache.New[domain.Wishlist]("wishlist", syncTTL, logger)

	carts := service.NewCartService(api, cartCache, bus, sessions, events, notifier, logger)
	wishlists := service.NewWishlistService(api, wishlistCache, bus, events, notifier, logger)
	checkout := service.NewCheckoutService(api, carts, sessions, events, logger, cfg.CheckoutReturnURL)
	catalogTTL := time.Duration(cfg.CatalogTTLMinutes) * time.Minute
	catalog := service.NewCatalogService(api, rdb, catalogTTL, logger)
	auth := service.NewAuthService(api, sessions, logger, carts, wishlists)

	// Health checks.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterDeps{
		Auth:         auth,
		Carts:        carts,
		Wishlist:     wishlists,
		Checkout:     checkout,
		Catalog:      catalog,
		Sessions:     sessions,
		Health:       healthHandler,
		Logger:       logger,
		CORS:         corsCfg,
		SecureCookie: cfg.SecureCookie,
		SessionTTL:   sessionTTL,
		PprofCIDRs:   cfg.PprofCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
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

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
