// Package geo resolves free-text addresses to coordinates using the
// OpenStreetMap Nominatim search API. For production scale, front it with
// your own proxy or a paid geocoder.
package geo

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Result is a resolved address: coordinates plus the provider's display name.
type Result struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

// Config holds explicit construction parameters (mostly for tests).
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client queries the geocoding service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New constructs a geocoding client from Config, applying defaults for any
// unset field.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "homagio"
	}
	return &Client{baseURL: base, httpClient: hc, userAgent: ua}
}

// nominatimHit is the subset of the provider response we read. Coordinates
// arrive as strings.
type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves addressText to the first search hit. It returns (nil, nil)
// when the input is blank, the service answers non-2xx, no results match, or
// the first result carries non-numeric coordinates; those are all treated as
// "did not resolve" rather than errors. Transport failures and context
// cancellation propagate.
func (c *Client) Geocode(ctx context.Context, addressText string) (*Result, error) {
	q := strings.TrimSpace(addressText)
	if q == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, nil
	}
	if len(hits) == 0 {
		return nil, nil
	}

	best := hits[0]
	lat, latErr := strconv.ParseFloat(best.Lat, 64)
	lng, lngErr := strconv.ParseFloat(best.Lon, 64)
	if latErr != nil || lngErr != nil ||
		math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, nil
	}

	formatted := best.DisplayName
	if formatted == "" {
		formatted = q
	}
	return &Result{Lat: lat, Lng: lng, Formatted: formatted}, nil
}
