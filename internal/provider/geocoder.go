package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"courier/internal/config"
)

// ErrNoCredentials is returned when a provider is called without configured credentials.
// Providers fail closed rather than falling back to any default key.
var ErrNoCredentials = errors.New("provider credentials not configured")

// Geocoder resolves street addresses to coordinates via an external geocoding API.
type Geocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGeocoder creates a geocoder client from configuration.
func NewGeocoder(cfg config.GeocoderConfig) *Geocoder {
	return &Geocoder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// geocodeResponse is the geocoding API response envelope.
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode converts an address to coordinates. found is false when the provider
// recognizes the request but has no result for the address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (lat, lng float64, found bool, err error) {
	if g.apiKey == "" {
		return 0, 0, false, ErrNoCredentials
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false, fmt.Errorf("geocode API returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, false, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return 0, 0, false, nil
	}
	if body.Status != "OK" {
		return 0, 0, false, fmt.Errorf("geocode API returned status %q", body.Status)
	}

	loc := body.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, true, nil
}
