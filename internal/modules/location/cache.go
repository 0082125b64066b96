package location

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"ride-booking/internal/cache"
	"ride-booking/internal/logger"
	"ride-booking/internal/models"
)

// routeCellPrecision keys cached routes by ~150m cells around each endpoint.
const routeCellPrecision = 7

// CachedGeocoder serves repeated queries from a cache.Store. Cache failures are
// logged and the lookup goes to the wrapped geocoder.
type CachedGeocoder struct {
	next  Geocoder
	store cache.Store
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedGeocoder(next Geocoder, store cache.Store, ttl time.Duration, log *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, store: store, ttl: ttl, log: log}
}

func geocodeKey(text string) string {
	return "geocode:" + strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func (g *CachedGeocoder) Geocode(ctx context.Context, text string) (models.Location, error) {
	key := geocodeKey(text)
	if raw, ok, err := g.store.Get(ctx, key); err != nil {
		logger.Warn(ctx, g.log, "geocode.cache", "cache read failed", "error", err.Error())
	} else if ok {
		var loc models.Location
		if err := json.Unmarshal(raw, &loc); err == nil {
			loc.Text = strings.TrimSpace(text)
			return loc, nil
		}
	}

	loc, err := g.next.Geocode(ctx, text)
	if err != nil {
		return models.Location{}, err
	}
	if raw, err := json.Marshal(loc); err == nil {
		if err := g.store.Set(ctx, key, raw, g.ttl); err != nil {
			logger.Warn(ctx, g.log, "geocode.cache", "cache write failed", "error", err.Error())
		}
	}
	return loc, nil
}

// CachedRouter memoises routes by the geohash cells of their endpoints.
type CachedRouter struct {
	next  Router
	store cache.Store
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedRouter(next Router, store cache.Store, ttl time.Duration, log *slog.Logger) *CachedRouter {
	return &CachedRouter{next: next, store: store, ttl: ttl, log: log}
}

func routeKey(pickup, dropoff models.Location) string {
	return "route:" + Cell(pickup, routeCellPrecision) + ":" + Cell(dropoff, routeCellPrecision)
}

func (r *CachedRouter) Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error) {
	key := routeKey(pickup, dropoff)
	if raw, ok, err := r.store.Get(ctx, key); err != nil {
		logger.Warn(ctx, r.log, "route.cache", "cache read failed", "error", err.Error())
	} else if ok {
		var route models.Route
		if err := json.Unmarshal(raw, &route); err == nil {
			return route, nil
		}
	}

	route, err := r.next.Route(ctx, pickup, dropoff)
	if err != nil {
		return models.Route{}, err
	}
	if raw, err := json.Marshal(route); err == nil {
		if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
			logger.Warn(ctx, r.log, "route.cache", "cache write failed", "error", err.Error())
		}
	}
	return route, nil
}

// NewRouterChain caches primary and, with fallback set, answers from a straight-line
// estimate when the cached primary fails. Estimates never reach the cache.
func NewRouterChain(primary Router, fallback bool, store cache.Store, ttl time.Duration, log *slog.Logger) Router {
	var r Router
	if primary != nil {
		r = NewCachedRouter(primary, store, ttl, log)
	}
	if fallback {
		return NewFallbackRouter(r, log)
	}
	return r
}
