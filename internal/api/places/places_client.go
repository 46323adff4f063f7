package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	DefaultBaseURL = "https://places.googleapis.com/v1"
	DefaultTimeout = 10 * time.Second
)

// Field masks requested per call. Discovery stays on the cheaper fields;
// photos and reviews are only asked for by the detail fetch.
var (
	SearchFields = []string{
		"places.id", "places.displayName", "places.formattedAddress",
		"places.rating", "places.userRatingCount", "places.types",
		"places.priceLevel", "places.businessStatus", "places.location",
		"places.regularOpeningHours", "places.currentOpeningHours.openNow",
		"places.utcOffsetMinutes",
	}
	DetailFields = []string{
		"id", "displayName", "formattedAddress", "nationalPhoneNumber",
		"websiteUri", "googleMapsUri", "photos", "reviews",
		"regularOpeningHours", "utcOffsetMinutes",
	}
	liveStatusFields = []string{"id", "currentOpeningHours.openNow"}
)

var (
	ErrNoLiveStatus = errors.New("provider returned no live open status")
	ErrMissingKey   = errors.New("places api key is not configured")
)

type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	Language     string
	Placeholders Placeholders
}

// Client talks to the Places (New) REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

type latLngBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchNearbyBody struct {
	IncludedTypes       []string `json:"includedTypes,omitempty"`
	MaxResultCount      int      `json:"maxResultCount,omitempty"`
	RankPreference      string   `json:"rankPreference,omitempty"`
	LanguageCode        string   `json:"languageCode,omitempty"`
	LocationRestriction struct {
		Circle struct {
			Center latLngBody `json:"center"`
			Radius float64    `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type searchNearbyResponse struct {
	Places  []json.RawMessage `json:"places"`
	Results []json.RawMessage `json:"results"`
}

// SearchNearby runs one nearby search. Records that fail to decode are skipped.
func (c *Client) SearchNearby(ctx context.Context, req types.NearbyRequest) ([]types.Restaurant, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "SearchNearby")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("radius_m", req.RadiusMeters),
		attribute.Int("included_types", len(req.IncludedTypes)),
	)

	body := searchNearbyBody{
		IncludedTypes:  req.IncludedTypes,
		MaxResultCount: req.MaxResults,
		RankPreference: string(req.RankBy),
		LanguageCode:   firstNonEmpty(req.Language, c.cfg.Language),
	}
	body.LocationRestriction.Circle.Center = latLngBody{Latitude: req.Center.Lat, Longitude: req.Center.Lng}
	body.LocationRestriction.Circle.Radius = req.RadiusMeters

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode nearby request: %w", err)
	}

	var resp searchNearbyResponse
	if err := c.do(ctx, http.MethodPost, "/places:searchNearby", bytes.NewReader(payload), SearchFields, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		return nil, err
	}

	raw := resp.Places
	if len(raw) == 0 {
		raw = resp.Results
	}
	out := make([]types.Restaurant, 0, len(raw))
	for _, msg := range raw {
		r, err := Decode(msg, c.cfg.Placeholders)
		if err != nil {
			c.logger.WarnContext(ctx, "Skipping undecodable place", slog.Any("error", err))
			continue
		}
		out = append(out, r)
	}
	span.SetAttributes(attribute.Int("results", len(out)))
	span.SetStatus(codes.Ok, "nearby search completed")
	return out, nil
}

// FetchDetails loads the expensive detail fields of one place.
func (c *Client) FetchDetails(ctx context.Context, placeID string) (types.Restaurant, error) {
	ctx, span := otel.Tracer("PlacesClient").Start(ctx, "FetchDetails")
	defer span.End()
	span.SetAttributes(attribute.String("place.id", placeID))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(placeID), nil, DetailFields, &raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail fetch failed")
		return types.Restaurant{}, err
	}
	r, err := Decode(raw, c.cfg.Placeholders)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail decode failed")
		return types.Restaurant{}, err
	}
	if r.ID == "" {
		r.ID = placeID
	}
	span.SetStatus(codes.Ok, "details fetched")
	return r, nil
}

// IsOpenNow asks the provider for the current open state of one place.
func (c *Client) IsOpenNow(ctx context.Context, placeID string) (bool, error) {
	var raw struct {
		CurrentOpeningHours *struct {
			OpenNow *bool `json:"openNow"`
		} `json:"currentOpeningHours"`
	}
	if err := c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(placeID), nil, liveStatusFields, &raw); err != nil {
		return false, err
	}
	if raw.CurrentOpeningHours == nil || raw.CurrentOpeningHours.OpenNow == nil {
		return false, ErrNoLiveStatus
	}
	return *raw.CurrentOpeningHours.OpenNow, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, fields []string, out any) error {
	if c.cfg.APIKey == "" {
		return ErrMissingKey
	}

	endpoint := c.cfg.BaseURL + path
	if method == http.MethodGet && c.cfg.Language != "" {
		endpoint += "?languageCode=" + url.QueryEscape(c.cfg.Language)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Goog-FieldMask", strings.Join(fields, ","))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call places api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("places api %s: %w", path, types.ErrNotFound)
		}
		return fmt.Errorf("places api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}
