package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hms-frontdesk/internal/adapters/backend"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/cache"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/events"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/session"
	"github.com/zatekoja/hms-frontdesk/internal/api/middleware"
	"github.com/zatekoja/hms-frontdesk/internal/api/routes"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	"github.com/zatekoja/hms-frontdesk/pkg/config"
	"github.com/zatekoja/hms-frontdesk/pkg/secrets"
)

func main() {
	// A missing .env is fine; the process environment is used as is
	_ = godotenv.Load()
	vault, vaultErr := secrets.Apply(context.Background(), secrets.ConfigFromEnv())

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	if vaultErr != nil {
		log.Fatal().Err(vaultErr).Str("path", vault.Path).Msg("Failed to load secrets from Vault")
	}
	if vault.Loaded > 0 {
		log.Info().Int("loaded", vault.Loaded).Int("skipped", vault.Skipped).Msg("Secrets loaded from Vault")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Query cache, event bus and session storage live in Redis when it is
	// reachable, in process memory otherwise
	var (
		cacheProvider providers.CacheProvider = cache.NewMemoryAdapter()
		eventBus      providers.EventBus      = events.NewMemoryEventBus()
		storage                               = func(string) providers.SessionStorage { return session.NewMemoryStorage() }
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, sessions are kept in memory")
		} else {
			defer redisClient.Close()
			_ = eventBus.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			storage = func(sessionID string) providers.SessionStorage {
				return session.NewRedisStorage(redisClient, sessionID, cfg.Session.TTL())
			}
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	backendClient := hmsapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), hmsapi.WithMetrics(metrics))

	policy := query.DefaultPolicy()
	policy.DefaultStale = cfg.Cache.DefaultStale()
	policy.DashboardStale = cfg.Cache.DashboardStale()
	policy.Retries = cfg.Cache.QueryRetries

	registry := workspace.NewRegistry(workspace.Options{
		Cache:        cacheProvider,
		Bus:          eventBus,
		Storage:      storage,
		Repositories: backend.NewRepositoryFactory(backendClient),
		Policy:       policy,
		Flags:        services.NewFeatureFlags(cfg.Features),
		Metrics:      metrics,
	})
	registry.StartSweeper(ctx, 10*time.Minute, cfg.Session.TTL())

	collector := observability.NewCollector(cfg.OTEL.ServiceName)
	collector.Gauge("hms_live_workspaces", "Session workspaces held in memory", func() float64 {
		return float64(registry.Len())
	})

	router := routes.NewRouter(routes.Options{
		Sessions: registry,
		Bus:      eventBus,
		Cookie: middleware.CookieConfig{
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL(),
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metrics,
		Prometheus:     collector,
	})

	server := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// no write timeout: the event stream stays open for the life of a page
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr()).
			Str("backend", backendClient.BaseURL()).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}
	log.Info().Msg("Server stopped")
}
