// Package geocode resolves place names to coordinates with a Nominatim
// compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyQuery is returned for a blank search string.
var ErrEmptyQuery = errors.New("empty search query")

// Location is one search hit.
type Location struct {
	Name    string
	Lat     float64
	Lon     float64
	Country string
}

// Geocoder converts free text into candidate locations.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

// Config configures a NominatimClient.
type Config struct {
	Endpoint  string
	UserAgent string
	Language  string
	Limit     int
	Timeout   time.Duration
}

// NominatimClient queries the /search endpoint of a Nominatim server.
type NominatimClient struct {
	endpoint  string
	userAgent string
	language  string
	limit     int
	client    *http.Client
	logger    *zap.SugaredLogger
}

type nominatimPlace struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// NewNominatimClient creates a client. Nominatim's usage policy requires an
// identifying User-Agent, so an empty one is rejected.
func NewNominatimClient(cfg Config, logger *zap.SugaredLogger) (*NominatimClient, error) {
	if cfg.UserAgent == "" {
		return nil, errors.New("geocoder user agent is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid geocoder endpoint %q", cfg.Endpoint)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &NominatimClient{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		userAgent: cfg.UserAgent,
		language:  cfg.Language,
		limit:     cfg.Limit,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}, nil
}

// Search returns up to the configured number of matches for query. No match
// is an empty slice, not an error.
func (n *NominatimClient) Search(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("format", "jsonv2")
	v.Set("addressdetails", "1")
	v.Set("limit", strconv.Itoa(n.limit))
	if n.language != "" {
		v.Set("accept-language", n.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"/search?"+v.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	n.logger.Debugw("geocoder request", "query", query, "endpoint", n.endpoint)
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoder responded with %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("unable to decode geocoder response: %w", err)
	}

	locations := make([]Location, 0, len(places))
	for _, p := range places {
		loc, err := p.location()
		if err != nil {
			n.logger.Warnw("skipping geocoder result", "name", p.DisplayName, "error", err)
			continue
		}
		locations = append(locations, loc)
	}

	n.logger.Debugw("geocoder response", "query", query, "results", len(locations))
	return locations, nil
}

func (p nominatimPlace) location() (Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("bad latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("bad longitude %q: %w", p.Lon, err)
	}
	return Location{
		Name:    p.DisplayName,
		Lat:     lat,
		Lon:     lon,
		Country: p.Address["country"],
	}, nil
}
