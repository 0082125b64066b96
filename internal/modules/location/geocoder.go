package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ride-booking/internal/models"
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (models.Location, error)
}

// NominatimGeocoder queries an OpenStreetMap Nominatim instance.
type NominatimGeocoder struct {
	baseURL      string
	countryCodes string
	userAgent    string
	httpClient   *http.Client
}

// NewNominatimGeocoder builds a geocoder for baseURL. countryCodes may be empty to search worldwide.
func NewNominatimGeocoder(baseURL, countryCodes, userAgent string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:      strings.TrimRight(baseURL, "/"),
		countryCodes: countryCodes,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for text. The returned label is text itself.
func (g *NominatimGeocoder) Geocode(ctx context.Context, text string) (models.Location, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Location{}, fmt.Errorf("geocode: empty query: %w", models.ErrGeocodeNoMatch)
	}

	params := url.Values{}
	params.Set("q", text)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode %q: %w", text, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geocode %q: nominatim returned status %d", text, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return models.Location{}, fmt.Errorf("geocode %q: decode response: %w", text, err)
	}
	if len(places) == 0 {
		return models.Location{}, fmt.Errorf("geocode %q: %w", text, models.ErrGeocodeNoMatch)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode %q: bad latitude %q: %w", text, places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode %q: bad longitude %q: %w", text, places[0].Lon, err)
	}
	return models.Location{Text: text, Lat: lat, Lon: lon}, nil
}
