package cli

import (
	"context"
	"fmt"
	"log/slog"

	"ride-booking/internal/cache"
	"ride-booking/internal/config"
	"ride-booking/internal/database"
	"ride-booking/internal/logger"
	"ride-booking/internal/modules/assistant"
	"ride-booking/internal/modules/fleet"
	"ride-booking/internal/modules/location"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds the components shared by the serve and ask commands.
type app struct {
	cfg *config.Config
	log *slog.Logger

	pool  *pgxpool.Pool
	rdb   *redis.Client
	store cache.Store

	geocoder location.Geocoder
	router   location.Router
	fleet    fleet.ServiceInterface
	assist   *assistant.Orchestrator
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	a := &app{cfg: cfg, log: logger.New(cfg.ServiceName, cfg.LogLevel)}

	a.pool, err = database.NewPool(ctx, cfg.DatabaseURL, a.log)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		a.rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.store = cache.NewRedisStore(a.rdb, cfg.ServiceName+":")
	} else {
		a.log.Warn("REDIS_ADDR not set, caching in memory", "action", "cache_memory")
		a.store = cache.NewMemoryStore()
	}

	var geocoder location.Geocoder = location.NewNominatimGeocoder(
		cfg.NominatimURL, cfg.GeocodeCountryCodes, cfg.UserAgent, cfg.CollaboratorTimeout)
	a.geocoder = location.NewCachedGeocoder(geocoder, a.store, cfg.GeocodeCacheTTL, a.log)

	var router location.Router
	if cfg.OSRMURL != "" {
		router = location.NewOSRMRouter(cfg.OSRMURL, cfg.UserAgent, cfg.CollaboratorTimeout)
	}
	a.router = location.NewRouterChain(router, cfg.RouteFallback, a.store, cfg.GeocodeCacheTTL, a.log)

	a.fleet = fleet.NewService(fleet.NewRepository(a.pool), cfg.DispatchETAMinutes)
	a.assist = assistant.New(a.geocoder, a.router, a.fleet, assistant.Options{
		Timeout:    cfg.CollaboratorTimeout,
		ETAMinutes: cfg.DispatchETAMinutes,
		Logger:     a.log,
	})
	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
