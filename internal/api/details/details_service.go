package details

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Fetcher loads one place with its detail fields from the provider.
type Fetcher interface {
	FetchDetails(ctx context.Context, placeID string) (types.Restaurant, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Enrich fills the detail fields of a winner, from cache when possible.
	// A failed fetch leaves the record as it was.
	Enrich(ctx context.Context, r *types.Restaurant)
	// Fetch loads a full record by id, warming the cache with its details.
	Fetch(ctx context.Context, placeID string) (types.Restaurant, error)
}

type ServiceImpl struct {
	cache   *Cache
	fetcher Fetcher
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewServiceImpl(cache *Cache, fetcher Fetcher, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{cache: cache, fetcher: fetcher, metrics: m, logger: logger}
}

func (s *ServiceImpl) Enrich(ctx context.Context, r *types.Restaurant) {
	ctx, span := otel.Tracer("DetailsService").Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("place.id", r.ID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Enrich"), slog.String("place_id", r.ID))

	if d, ok := s.cache.Get(ctx, r.ID); ok {
		s.metrics.DetailCacheHitsTotal.Add(ctx, 1)
		r.ApplyDetails(d)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Details served from cache")
		return
	}
	s.metrics.DetailCacheMissesTotal.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	full, err := s.fetch(ctx, r.ID)
	if err != nil {
		l.WarnContext(ctx, "Detail fetch failed, showing basic record", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Detail fetch failed")
		return
	}
	r.ApplyDetails(full.DetailFields())
	span.SetStatus(codes.Ok, "Details fetched")
}

func (s *ServiceImpl) Fetch(ctx context.Context, placeID string) (types.Restaurant, error) {
	ctx, span := otel.Tracer("DetailsService").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	r, err := s.fetch(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return types.Restaurant{}, fmt.Errorf("error fetching place %s: %w", placeID, err)
	}
	span.SetStatus(codes.Ok, "Place fetched")
	return r, nil
}

func (s *ServiceImpl) fetch(ctx context.Context, placeID string) (types.Restaurant, error) {
	r, err := s.fetcher.FetchDetails(ctx, placeID)
	if err != nil {
		return types.Restaurant{}, err
	}
	if err := s.cache.Set(ctx, placeID, r.DetailFields()); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache details", slog.String("place_id", placeID), slog.Any("error", err))
	}
	return r, nil
}
