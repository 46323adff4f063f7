package metrics

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PlacesRequestsTotal    metric.Int64Counter
	PlacesErrorsTotal      metric.Int64Counter
	CandidatesCollected    metric.Int64Histogram
	TravelRequestsTotal    metric.Int64Counter
	TravelErrorsTotal      metric.Int64Counter
	DetailCacheHitsTotal   metric.Int64Counter
	DetailCacheMissesTotal metric.Int64Counter
	SearchesTotal          metric.Int64Counter
	SearchDurationSeconds  metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// NewAppMetrics creates every instrument on the given meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.PlacesRequestsTotal, err = meter.Int64Counter(
		"places_requests_total",
		metric.WithDescription("Total number of places provider calls"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("places_requests_total: %w", err)
	}

	if m.PlacesErrorsTotal, err = meter.Int64Counter(
		"places_errors_total",
		metric.WithDescription("Places provider calls that failed and were treated as empty"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("places_errors_total: %w", err)
	}

	if m.CandidatesCollected, err = meter.Int64Histogram(
		"search_candidates_collected",
		metric.WithDescription("Distinct candidates collected per search"),
		metric.WithUnit("{place}"),
	); err != nil {
		return nil, fmt.Errorf("search_candidates_collected: %w", err)
	}

	if m.TravelRequestsTotal, err = meter.Int64Counter(
		"travel_requests_total",
		metric.WithDescription("Total number of travel-time lookups"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("travel_requests_total: %w", err)
	}

	if m.TravelErrorsTotal, err = meter.Int64Counter(
		"travel_errors_total",
		metric.WithDescription("Travel-time lookups that failed"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("travel_errors_total: %w", err)
	}

	if m.DetailCacheHitsTotal, err = meter.Int64Counter(
		"detail_cache_hits_total",
		metric.WithDescription("Place detail lookups served from cache"),
	); err != nil {
		return nil, fmt.Errorf("detail_cache_hits_total: %w", err)
	}

	if m.DetailCacheMissesTotal, err = meter.Int64Counter(
		"detail_cache_misses_total",
		metric.WithDescription("Place detail lookups that missed or found an expired entry"),
	); err != nil {
		return nil, fmt.Errorf("detail_cache_misses_total: %w", err)
	}

	if m.SearchesTotal, err = meter.Int64Counter(
		"roulette_searches_total",
		metric.WithDescription("Completed searches by outcome"),
		metric.WithUnit("{search}"),
	); err != nil {
		return nil, fmt.Errorf("roulette_searches_total: %w", err)
	}

	if m.SearchDurationSeconds, err = meter.Float64Histogram(
		"roulette_search_duration_seconds",
		metric.WithDescription("Duration of a full discovery and filtering run"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("roulette_search_duration_seconds: %w", err)
	}

	return m, nil
}

// NewNoop returns instruments that record nothing. Used by tests.
func NewNoop() *AppMetrics {
	m, err := NewAppMetrics(noop.NewMeterProvider().Meter("noop"))
	if err != nil {
		panic(err)
	}
	return m
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("LunchRoulette")
		m, err := NewAppMetrics(meter)
		if err != nil {
			log.Fatalf("Metrics: failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordSearch counts a finished search under its outcome label.
func (m *AppMetrics) RecordSearch(ctx context.Context, outcome string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.SearchesTotal.Add(ctx, 1, attrs)
	m.SearchDurationSeconds.Record(ctx, seconds, attrs)
}
