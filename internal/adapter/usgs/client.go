// Package usgs fetches seismic events from the USGS Earthquake Hazards
// Program fdsnws query endpoint.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

const queryPath = "/fdsnws/event/1/query"

// timeLayout is ISO-8601 at second precision, as the fdsnws API expects.
const timeLayout = "2006-01-02T15:04:05"

// Client queries the USGS catalog. It implements monitor.EventFetcher: any
// transport, HTTP, or parse failure yields an empty batch plus a diagnostic,
// never an error. The poll loop continues with the next cycle and no retry
// is attempted.
type Client struct {
	httpClient *http.Client
	baseURL    string
	defaults   domain.FieldDefaults
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a catalog client with a fixed request timeout.
func NewClient(baseURL string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		defaults:   domain.DefaultFieldValues(),
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch returns events in [now-window, now] with magnitude >= minMagnitude,
// ordered by time ascending.
func (c *Client) Fetch(ctx context.Context, window time.Duration, minMagnitude float64) []domain.RawEvent {
	end := c.clock.Now().UTC()
	start := end.Add(-window)

	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {start.Format(timeLayout)},
		"endtime":      {end.Format(timeLayout)},
		"minmagnitude": {fmt.Sprintf("%g", minMagnitude)},
		"orderby":      {"time-asc"},
	}

	collection, err := c.query(ctx, params)
	if err != nil {
		c.logger.Warn("catalog fetch failed, continuing with empty batch",
			"window", window,
			"min_magnitude", minMagnitude,
			"error", err,
		)
		c.metrics.FetchErrors.Inc()
		return nil
	}

	events := make([]domain.RawEvent, 0, len(collection.Features))
	for _, f := range collection.Features {
		event, ok := c.mapFeature(f)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	c.metrics.EventsFetched.Add(float64(len(events)))
	return events
}

func (c *Client) query(ctx context.Context, params url.Values) (*featureCollection, error) {
	fullURL := c.baseURL + queryPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API error: status %d: %s", resp.StatusCode, body)
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &collection, nil
}

// mapFeature converts a GeoJSON feature into a RawEvent, substituting the
// documented defaults for absent optional properties. Features missing a
// magnitude or a [lon, lat, depth] coordinate triple are skipped.
func (c *Client) mapFeature(f feature) (domain.RawEvent, bool) {
	if f.Properties.Mag == nil || len(f.Geometry.Coordinates) < 3 {
		c.logger.Warn("skipping catalog feature with missing mandatory fields", "id", f.ID)
		return domain.RawEvent{}, false
	}

	event := domain.RawEvent{
		ID:        f.ID,
		Time:      time.UnixMilli(f.Properties.Time).UTC(),
		Magnitude: *f.Properties.Mag,
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
		DepthKM:   f.Geometry.Coordinates[2],

		Significance: domain.Resolve(f.Properties.Sig, c.defaults.Significance),
		MMI:          domain.Resolve(f.Properties.MMI, c.defaults.MMI),
		CDI:          domain.Resolve(f.Properties.CDI, c.defaults.CDI),
		StationCount: domain.Resolve(f.Properties.Nst, c.defaults.StationCount),
		MinDistance:  domain.Resolve(f.Properties.Dmin, c.defaults.MinDistance),
		AzimuthalGap: domain.Resolve(f.Properties.Gap, c.defaults.AzimuthalGap),

		Place:     f.Properties.Place,
		SourceURL: f.Properties.URL,
	}

	if err := event.Validate(); err != nil {
		c.logger.Warn("skipping invalid catalog feature", "id", f.ID, "error", err)
		return domain.RawEvent{}, false
	}
	return event, true
}

// USGS GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Time    int64    `json:"time"` // epoch milliseconds
	Mag     *float64 `json:"mag"`
	Place   string   `json:"place"`
	Sig     *float64 `json:"sig"`
	MMI     *float64 `json:"mmi"`
	CDI     *float64 `json:"cdi"`
	Nst     *float64 `json:"nst"`
	Dmin    *float64 `json:"dmin"`
	Gap     *float64 `json:"gap"`
	URL     string   `json:"url"`
	Tsunami int      `json:"tsunami"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth_km]
}
