package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ride-booking/internal/logger"
	"ride-booking/internal/models"
)

// Router computes a driving route between two resolved locations.
type Router interface {
	Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error)
}

// OSRMRouter queries an OSRM routing server.
type OSRMRouter struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewOSRMRouter(baseURL, userAgent string, timeout time.Duration) *OSRMRouter {
	return &OSRMRouter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // metres
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns distance in km (2 decimals), duration in minutes (1 decimal) and
// the polyline as [lat, lon] pairs.
func (r *OSRMRouter) Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=simplified&geometries=geojson",
		r.baseURL, pickup.Lon, pickup.Lat, dropoff.Lon, dropoff.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Route{}, fmt.Errorf("route: build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.Route{}, fmt.Errorf("route: %w", err)
	}
	defer resp.Body.Close()

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Route{}, fmt.Errorf("route: decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return models.Route{}, fmt.Errorf("route: osrm code %q: %w", out.Code, models.ErrRouteUnavailable)
	}

	best := out.Routes[0]
	polyline := make([][2]float64, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		polyline = append(polyline, [2]float64{c[1], c[0]})
	}
	return models.Route{
		Distance: round(best.Distance/1000, 2),
		Duration: round(best.Duration/60, 1),
		Polyline: polyline,
	}, nil
}

// fallbackSpeedKmh is the average speed assumed for straight-line estimates.
const fallbackSpeedKmh = 50.0

// StraightLine estimates a route as the great-circle segment between the endpoints.
func StraightLine(pickup, dropoff models.Location) models.Route {
	km := HaversineKm(pickup, dropoff)
	return models.Route{
		Distance: round(km, 2),
		Duration: round(km/fallbackSpeedKmh*60, 1),
		Polyline: [][2]float64{{pickup.Lat, pickup.Lon}, {dropoff.Lat, dropoff.Lon}},
	}
}

// FallbackRouter answers with a straight-line estimate when the primary router fails.
type FallbackRouter struct {
	primary Router
	log     *slog.Logger
}

// NewFallbackRouter wraps primary. A nil primary always answers with the estimate.
func NewFallbackRouter(primary Router, log *slog.Logger) *FallbackRouter {
	return &FallbackRouter{primary: primary, log: log}
}

func (f *FallbackRouter) Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error) {
	if f.primary != nil {
		route, err := f.primary.Route(ctx, pickup, dropoff)
		if err == nil {
			return route, nil
		}
		// The caller gave up; an estimate would be discarded anyway.
		if errors.Is(err, context.Canceled) {
			return models.Route{}, err
		}
		logger.Warn(ctx, f.log, "route.fallback", "primary router failed, using straight-line estimate",
			"error", err.Error())
	}
	return StraightLine(pickup, dropoff), nil
}
