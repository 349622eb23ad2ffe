package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/category"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/config"
	handler "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/handler/http"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/metrics"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/pricing"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/remote"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/session"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage"
	redisstore "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/storage/redis"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/database"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/health"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httpclient"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/middleware"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/tracing"
)

// App wires together all dependencies and runs the storefront BFF.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	sessions       *session.Manager
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	return newApp(cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis, home of the guest mirrors.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)
	if cfg.SlowCommandThresholdMs > 0 {
		database.SetSlowCommandLogging(time.Duration(cfg.SlowCommandThresholdMs)*time.Millisecond, logger)
	}

	// HTTP client with circuit breaker for the remote storefront API.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.RemoteTimeout(),
		MaxRetries:      cfg.RemoteMaxRetries,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 32,
		Logger:          logger,
	})
	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "storefront-remote",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Int("timeout_seconds", cfg.CBTimeout),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	api := remote.NewClient(cbClient, cfg.RemoteBaseURL, logger)

	// Build the dependency graph.
	sessions := session.NewManager(
		remote.NewWishlistClient(api),
		remote.NewCartClient(api),
		redisStores(rdb, cfg.LocalTTL()),
		logger,
		session.WithLoginPolicies(cfg.WishlistPolicy(), cfg.CartPolicy()),
		session.WithMetrics(metrics.New(reg)),
	)
	categories := category.NewCache(remote.NewCategoryClient(api), cfg.CategoryCacheTTL(), logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", database.RedisChecker(rdb))
	healthHandler.RegisterOptional("remote_api", breakerCheck(cbClient))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins
	cors.Environment = cfg.Environment

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Sessions:   sessions,
		Categories: categories,
		Prices:     pricing.NewResolver(cfg.PriceTier(), cfg.CurrencySymbol),
		Health:     healthHandler,
		Logger:     logger,
		CORS:       cors,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		Metrics:    promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		sessions:       sessions,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// redisStores keys each session's guest mirror under its own namespace.
func redisStores(rdb *redis.Client, ttl time.Duration) session.LocalStoreFactory {
	return func(sessionID string) storage.LocalStore {
		return redisstore.NewStore(rdb, sessionID, ttl)
	}
}

// breakerCheck reports the remote API as failing while its breaker is open.
func breakerCheck(cb *httpclient.CircuitBreakerClient) health.Checker {
	return func(context.Context) error {
		if cb.State() == gobreaker.StateOpen {
			return fmt.Errorf("circuit breaker %s is open", cb.Name())
		}
		return nil
	}
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

	go a.evictIdleSessions(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// evictIdleSessions drops idle in-memory sessions until ctx is done.
func (a *App) evictIdleSessions(ctx context.Context) {
	idle := a.cfg.SessionIdle()
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sessions.Evict(idle); n > 0 {
				a.logger.Info("evicted idle sessions",
					slog.Int("count", n),
					slog.Int("remaining", a.sessions.Len()),
				)
			}
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Redis client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
