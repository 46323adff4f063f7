package search

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	DefaultMaxCandidates     = 60
	DefaultMaxResultsPerCall = 20
	DefaultCornerMinRadius   = 300
)

// NearbySearcher is the places provider's nearby search.
type NearbySearcher interface {
	SearchNearby(ctx context.Context, req types.NearbyRequest) ([]types.Restaurant, error)
}

type RunnerConfig struct {
	MaxCandidates     int
	MaxResultsPerCall int
	RankBy            types.RankBy
	Language          string
}

// RunStats summarises what a run spent and found.
type RunStats struct {
	Calls           int  `json:"calls"`
	FailedCalls     int  `json:"failed_calls"`
	BatchesQueried  int  `json:"batches_queried"`
	CornersExpanded bool `json:"corners_expanded"`
	Saturated       bool `json:"saturated"`
}

// Runner executes a Plan against the provider with the early-exit rules:
// corners are only tried for the first batch when the centre page is full,
// the anti-diagonal only when the diagonal found something new, and every
// remaining batch is skipped once the candidate cap is reached.
type Runner struct {
	searcher NearbySearcher
	logger   *slog.Logger
	metrics  *metrics.AppMetrics
	cfg      RunnerConfig
}

func NewRunner(searcher NearbySearcher, cfg RunnerConfig, m *metrics.AppMetrics, logger *slog.Logger) *Runner {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	if cfg.MaxResultsPerCall <= 0 {
		cfg.MaxResultsPerCall = DefaultMaxResultsPerCall
	}
	if cfg.RankBy == "" {
		cfg.RankBy = types.RankByPopularity
	}
	return &Runner{searcher: searcher, logger: logger, metrics: m, cfg: cfg}
}

func (r *Runner) Run(ctx context.Context, plan Plan) ([]types.Restaurant, RunStats, error) {
	ctx, span := otel.Tracer("SearchRunner").Start(ctx, "Run")
	defer span.End()

	var stats RunStats
	agg := NewAggregator(r.cfg.MaxCandidates)

	for i, batch := range plan.Batches {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "search cancelled")
			return nil, stats, err
		}
		if agg.Full() {
			stats.Saturated = true
			r.logger.DebugContext(ctx, "Candidate cap reached, skipping remaining batches",
				slog.Int("skipped_batches", len(plan.Batches)-i))
			break
		}
		stats.BatchesQueried++

		center := r.query(ctx, plan, plan.Grid.Center, batch, &stats)
		agg.Add(center)

		if i != 0 || !plan.CornersEligible || len(center) < r.cfg.MaxResultsPerCall || agg.Full() {
			continue
		}

		stats.CornersExpanded = true
		added := agg.Add(r.queryAll(ctx, plan, plan.Grid.Diagonal(), batch, &stats))
		if added == 0 || agg.Full() {
			r.logger.DebugContext(ctx, "Diagonal corners saturated, skipping anti-diagonal",
				slog.Int("added", added), slog.Bool("cap_reached", agg.Full()))
			continue
		}
		agg.Add(r.queryAll(ctx, plan, plan.Grid.AntiDiagonal(), batch, &stats))
	}
	if agg.Full() {
		stats.Saturated = true
	}

	results := agg.Results()
	r.metrics.CandidatesCollected.Record(ctx, int64(len(results)))
	span.SetAttributes(
		attribute.Int("search.calls", stats.Calls),
		attribute.Int("search.failed_calls", stats.FailedCalls),
		attribute.Int("search.candidates", len(results)),
		attribute.Bool("search.corners_expanded", stats.CornersExpanded),
	)
	span.SetStatus(codes.Ok, "search completed")
	return results, stats, nil
}

// queryAll fans out over points and joins; a failed branch contributes nothing.
func (r *Runner) queryAll(ctx context.Context, plan Plan, points []types.LatLng, batch []string, stats *RunStats) []types.Restaurant {
	results := make([][]types.Restaurant, len(points))
	failed := make([]bool, len(points))

	var g errgroup.Group
	for i, pt := range points {
		g.Go(func() error {
			res, err := r.call(ctx, plan, pt, batch)
			if err != nil {
				failed[i] = true
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var merged []types.Restaurant
	for i := range points {
		stats.Calls++
		if failed[i] {
			stats.FailedCalls++
		}
		merged = append(merged, results[i]...)
	}
	return merged
}

func (r *Runner) query(ctx context.Context, plan Plan, point types.LatLng, batch []string, stats *RunStats) []types.Restaurant {
	stats.Calls++
	res, err := r.call(ctx, plan, point, batch)
	if err != nil {
		stats.FailedCalls++
		return nil
	}
	return res
}

func (r *Runner) call(ctx context.Context, plan Plan, point types.LatLng, batch []string) ([]types.Restaurant, error) {
	req := types.NearbyRequest{
		Center:        point,
		RadiusMeters:  plan.RadiusMeters,
		IncludedTypes: batch,
		MaxResults:    r.cfg.MaxResultsPerCall,
		RankBy:        r.cfg.RankBy,
		Language:      r.cfg.Language,
	}
	r.metrics.PlacesRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("call", "search_nearby")))
	res, err := r.searcher.SearchNearby(ctx, req)
	if err != nil {
		r.metrics.PlacesErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("call", "search_nearby")))
		r.logger.WarnContext(ctx, "Nearby search failed, treating as empty",
			slog.Float64("lat", point.Lat),
			slog.Float64("lng", point.Lng),
			slog.Int("types", len(batch)),
			slog.Any("error", err))
		return nil, err
	}
	return res, nil
}
