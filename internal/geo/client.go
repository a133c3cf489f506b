// Package geo implements the mapping/places collaborator: forward place
// search and reverse geocoding against a Nominatim-compatible HTTP API.
// Geocoding is never load-bearing: callers that cannot get a label fall
// back to FallbackLabel, so every error here is recoverable.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/homiapp/planner-api/internal/domain"
)

// Place is one forward-search result: a display label, a coordinate, and an
// optional viewport for fitting the map to the place.
type Place struct {
	Label    string             `json:"label"`
	Position domain.GeoPosition `json:"position"`
	Bounds   *domain.GeoBounds  `json:"bounds,omitempty"`
}

// Client talks to a Nominatim-style geocoding service.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient returns a Client for the service at baseURL (no trailing slash
// required). A nil httpc gets a default client with a 10 second timeout.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpc: httpc}
}

// nominatimPlace is the wire shape shared by /search and /reverse responses.
// Coordinates and bounding boxes arrive as strings.
type nominatimPlace struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"` // south, north, west, east
}

// Search performs a forward place search and returns up to five results.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "5")

	body, err := c.get(ctx, "/search", q)
	if err != nil {
		return nil, fmt.Errorf("geo.Client.Search: %w", err)
	}

	var raw []nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("geo.Client.Search: decode: %w", err)
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		p, err := toPlace(r)
		if err != nil {
			continue // skip malformed entries, keep the rest
		}
		places = append(places, p)
	}
	return places, nil
}

// Reverse resolves a coordinate to a human-readable place label.
func (c *Client) Reverse(ctx context.Context, pos domain.GeoPosition) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(pos.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(pos.Lng, 'f', -1, 64))
	q.Set("format", "jsonv2")

	body, err := c.get(ctx, "/reverse", q)
	if err != nil {
		return "", fmt.Errorf("geo.Client.Reverse: %w", err)
	}

	var raw nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("geo.Client.Reverse: decode: %w", err)
	}
	if raw.DisplayName == "" {
		return "", fmt.Errorf("geo.Client.Reverse: empty label for %.4f,%.4f", pos.Lat, pos.Lng)
	}
	return raw.DisplayName, nil
}

// get issues the request, retrying transient failures (network errors and
// 5xx responses) twice with exponential backoff. Client errors (4xx) are
// returned immediately; retrying them would not help.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.baseURL + path + "?" + q.Encode()

	var body []byte
	backoff := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// FallbackLabel formats a coordinate as a deterministic stand-in label, used
// whenever reverse geocoding fails so drafting is never blocked.
func FallbackLabel(pos domain.GeoPosition) string {
	return fmt.Sprintf("%.4f, %.4f", pos.Lat, pos.Lng)
}

// toPlace converts a wire entry into a Place, parsing the string-typed
// coordinates and the optional bounding box.
func toPlace(r nominatimPlace) (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lon: %w", err)
	}

	p := Place{Label: r.DisplayName, Position: domain.GeoPosition{Lat: lat, Lng: lng}}

	if len(r.BoundingBox) == 4 {
		south, err1 := strconv.ParseFloat(r.BoundingBox[0], 64)
		north, err2 := strconv.ParseFloat(r.BoundingBox[1], 64)
		west, err3 := strconv.ParseFloat(r.BoundingBox[2], 64)
		east, err4 := strconv.ParseFloat(r.BoundingBox[3], 64)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			p.Bounds = &domain.GeoBounds{North: north, South: south, East: east, West: west}
		}
	}
	return p, nil
}
