package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"core/internal/apperr"
	"core/internal/config"
)

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64
	Lng float64
}

// MapsAPI is the upstream places/directions provider. Implemented by
// GoogleMapsClient; tests substitute stubs.
type MapsAPI interface {
	// TextSearch returns provider place records in relevance order. Records
	// are raw JSON because the provider shape varies; the normalizer decodes
	// them.
	TextSearch(ctx context.Context, query string, origin *Coordinates, radiusM int) ([]json.RawMessage, error)
	// Directions checks that a route between two locations resolves upstream.
	Directions(ctx context.Context, origin, destination string) error
}

const (
	textSearchEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	directionsEndpoint = "https://maps.googleapis.com/maps/api/directions/json"
)

// GoogleMapsClient calls the Google Maps web services
type GoogleMapsClient struct {
	cfg        config.MapsConfig
	httpClient *http.Client
}

// NewGoogleMapsClient creates a new maps client with the configured timeout
func NewGoogleMapsClient(cfg config.MapsConfig) *GoogleMapsClient {
	return &GoogleMapsClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

type textSearchResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Results      []json.RawMessage `json:"results"`
}

type directionsAPIResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// TextSearch performs a Places text search. origin and radiusM are forwarded
// only when origin is non-nil.
func (c *GoogleMapsClient) TextSearch(ctx context.Context, query string, origin *Coordinates, radiusM int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	params.Set("region", c.cfg.Region)
	if origin != nil {
		params.Set("location", fmt.Sprintf("%v,%v", origin.Lat, origin.Lng))
		params.Set("radius", strconv.Itoa(radiusM))
	}

	var result textSearchResponse
	if err := c.get(ctx, textSearchEndpoint, params, &result); err != nil {
		return nil, err
	}

	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		return nil, apperr.Upstream(
			fmt.Sprintf("text search failed with status %s", result.Status),
			fmt.Errorf("%s", result.ErrorMessage))
	}

	return result.Results, nil
}

// Directions validates a route between two "lat,lng" locations upstream
func (c *GoogleMapsClient) Directions(ctx context.Context, origin, destination string) error {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	var result directionsAPIResponse
	if err := c.get(ctx, directionsEndpoint, params, &result); err != nil {
		return err
	}

	if result.Status != "OK" {
		return apperr.Upstream(
			fmt.Sprintf("directions request failed with status %s", result.Status),
			fmt.Errorf("%s", result.ErrorMessage))
	}

	return nil
}

// get performs a GET request and decodes the JSON body. Transport failures,
// including the client timeout, classify as upstream unavailability.
func (c *GoogleMapsClient) get(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return apperr.Internal("failed to create maps request", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperr.Upstream("maps api request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Upstream("failed to read maps response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apperr.Upstream(
			fmt.Sprintf("maps api returned status %d", resp.StatusCode),
			fmt.Errorf("%s", truncateBody(body)))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return apperr.Internal("failed to decode maps response", err)
	}

	return nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
