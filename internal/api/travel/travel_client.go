package travel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// MaxDestinationsPerCall is the distance matrix limit for one origin.
const MaxDestinationsPerCall = 25

type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Language string
}

// Client looks up walking durations through the distance matrix API.
type Client struct {
	maps     *maps.Client
	language string
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
}

func NewClient(cfg Config, m *metrics.AppMetrics, logger *slog.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Client{maps: mc, language: cfg.Language, logger: logger, metrics: m}, nil
}

// Durations returns one result per destination, in input order. Destinations
// are sent in chunks of MaxDestinationsPerCall in parallel; a failed chunk or
// element leaves its entries unknown.
func (c *Client) Durations(ctx context.Context, origin types.LatLng, dests []types.LatLng) []types.Duration {
	ctx, span := otel.Tracer("TravelClient").Start(ctx, "Durations")
	defer span.End()
	span.SetAttributes(attribute.Int("destinations", len(dests)))

	out := make([]types.Duration, len(dests))
	var g errgroup.Group
	for start := 0; start < len(dests); start += MaxDestinationsPerCall {
		end := min(start+MaxDestinationsPerCall, len(dests))
		g.Go(func() error {
			res, err := c.batch(ctx, origin, dests[start:end])
			if err != nil {
				c.logger.WarnContext(ctx, "Distance matrix chunk failed, durations unknown",
					slog.Int("offset", start),
					slog.Int("size", end-start),
					slog.Any("error", err))
				return nil
			}
			copy(out[start:end], res)
			return nil
		})
	}
	_ = g.Wait()

	span.SetStatus(codes.Ok, "durations resolved")
	return out
}

func (c *Client) batch(ctx context.Context, origin types.LatLng, dests []types.LatLng) ([]types.Duration, error) {
	call := otelmetric.WithAttributes(attribute.String("call", "distance_matrix"))
	c.metrics.TravelRequestsTotal.Add(ctx, 1, call)

	req := &maps.DistanceMatrixRequest{
		Origins:      []string{formatLatLng(origin)},
		Destinations: make([]string, len(dests)),
		Mode:         maps.TravelModeWalking,
		Units:        maps.UnitsMetric,
		Language:     c.language,
	}
	for i, d := range dests {
		req.Destinations[i] = formatLatLng(d)
	}

	resp, err := c.maps.DistanceMatrix(ctx, req)
	if err != nil {
		c.metrics.TravelErrorsTotal.Add(ctx, 1, call)
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 {
		c.metrics.TravelErrorsTotal.Add(ctx, 1, call)
		return nil, errors.New("distance matrix returned no rows")
	}

	out := make([]types.Duration, len(dests))
	elements := resp.Rows[0].Elements
	for i := range dests {
		if i >= len(elements) || elements[i] == nil || elements[i].Status != "OK" {
			continue
		}
		secs := int(elements[i].Duration / time.Second)
		out[i] = types.Duration{Known: true, Seconds: secs, Text: FormatDuration(secs)}
	}
	return out, nil
}

// FormatDuration renders seconds the way the directions UI does ("1 min", "1 hour 5 mins").
func FormatDuration(seconds int) string {
	mins := int(math.Round(float64(seconds) / 60))
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return plural(mins, "min")
	}
	h, m := mins/60, mins%60
	if m == 0 {
		return plural(h, "hour")
	}
	return plural(h, "hour") + " " + plural(m, "min")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

func formatLatLng(p types.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
