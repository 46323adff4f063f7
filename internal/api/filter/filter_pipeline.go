package filter

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/category"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geo"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	// DefaultFallbackKeep is how many of the nearest candidates survive when
	// the walking budget would eliminate everyone.
	DefaultFallbackKeep = 3
	defaultConcurrency  = 8
)

// StatusResolver computes the open status of a record.
type StatusResolver interface {
	Resolve(ctx context.Context, r types.Restaurant) types.OpenStatus
}

// TravelTimer returns one walking duration per destination, in input order.
type TravelTimer interface {
	Durations(ctx context.Context, origin types.LatLng, dests []types.LatLng) []types.Duration
}

type Config struct {
	FallbackKeep int
	// Concurrency bounds parallel open-status checks.
	Concurrency int
}

// Pipeline narrows raw candidates to the eligible set: operational and open,
// within walking budget, then user preferences and price.
type Pipeline struct {
	resolver StatusResolver
	travel   TravelTimer
	matcher  *category.Matcher
	cfg      Config
	logger   *slog.Logger
}

// NewPipeline builds a pipeline. travel may be nil, in which case every
// duration is unknown and the distance stage keeps everything.
func NewPipeline(resolver StatusResolver, travel TravelTimer, matcher *category.Matcher, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.FallbackKeep <= 0 {
		cfg.FallbackKeep = DefaultFallbackKeep
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Pipeline{resolver: resolver, travel: travel, matcher: matcher, cfg: cfg, logger: logger}
}

// Filter never fails; an empty result is a valid outcome. The input slice is
// not modified.
func (p *Pipeline) Filter(ctx context.Context, origin types.LatLng, candidates []types.Restaurant, sc types.SearchConfig) ([]types.Restaurant, types.FilterStats) {
	ctx, span := otel.Tracer("FilterPipeline").Start(ctx, "Filter")
	defer span.End()

	stats := types.FilterStats{Raw: len(candidates)}
	out := slices.Clone(candidates)

	out = p.availability(ctx, out, sc.IncludeClosed)
	stats.AfterOpen = len(out)

	out, stats.DistFallback = p.distance(ctx, origin, out, sc.WalkMinutes)
	stats.AfterDist = len(out)

	out = p.Preferences(out, sc)
	stats.AfterPrefs = len(out)

	p.logger.DebugContext(ctx, "Filter pipeline finished",
		slog.Int("raw", stats.Raw),
		slog.Int("after_open", stats.AfterOpen),
		slog.Int("after_distance", stats.AfterDist),
		slog.Int("after_preferences", stats.AfterPrefs),
		slog.Bool("distance_fallback", stats.DistFallback))
	span.SetAttributes(
		attribute.Int("filter.raw", stats.Raw),
		attribute.Int("filter.eligible", stats.AfterPrefs),
		attribute.Bool("filter.distance_fallback", stats.DistFallback),
	)
	span.SetStatus(codes.Ok, "Filter completed")
	return out, stats
}

// availability drops non-operational records, stamps IsOpen on the rest and,
// unless includeClosed, drops those known to be closed. Unknown is kept.
func (p *Pipeline) availability(ctx context.Context, in []types.Restaurant, includeClosed bool) []types.Restaurant {
	operational := make([]types.Restaurant, 0, len(in))
	for _, r := range in {
		if r.BusinessStatus.IsOperational() {
			operational = append(operational, r)
		}
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i := range operational {
		g.Go(func() error {
			operational[i].IsOpen = p.resolver.Resolve(ctx, operational[i])
			return nil
		})
	}
	_ = g.Wait()

	if includeClosed {
		return operational
	}
	out := operational[:0]
	for _, r := range operational {
		if r.IsOpen != types.ClosedNow {
			out = append(out, r)
		}
	}
	return out
}

// distance attaches straight-line distance and walking duration, then keeps
// candidates within budget or of unknown duration. When that would leave
// nothing, the nearest FallbackKeep by known duration are kept instead.
func (p *Pipeline) distance(ctx context.Context, origin types.LatLng, in []types.Restaurant, walkMinutes int) ([]types.Restaurant, bool) {
	if len(in) == 0 {
		return in, false
	}

	var (
		dests []types.LatLng
		index []int
	)
	for i := range in {
		in[i].DurationSeconds = nil
		in[i].DurationText = ""
		if in[i].Location == nil {
			continue
		}
		d := geo.DistanceMeters(origin, *in[i].Location)
		in[i].DistanceMeters = &d
		dests = append(dests, *in[i].Location)
		index = append(index, i)
	}

	if p.travel != nil && len(dests) > 0 {
		durations := p.travel.Durations(ctx, origin, dests)
		for j, d := range durations {
			if j >= len(index) || !d.Known {
				continue
			}
			secs := d.Seconds
			in[index[j]].DurationSeconds = &secs
			in[index[j]].DurationText = d.Text
		}
	}

	budget := walkMinutes * 60
	kept := make([]types.Restaurant, 0, len(in))
	for _, r := range in {
		if r.DurationSeconds == nil || *r.DurationSeconds <= budget {
			kept = append(kept, r)
		}
	}
	if len(kept) > 0 {
		return kept, false
	}

	p.logger.InfoContext(ctx, "Walking budget eliminated every candidate, keeping the nearest",
		slog.Int("budget_minutes", walkMinutes), slog.Int("candidates", len(in)))
	nearest := slices.Clone(in)
	slices.SortStableFunc(nearest, compareDuration)
	return nearest[:min(p.cfg.FallbackKeep, len(nearest))], true
}

// compareDuration orders by known duration ascending, unknown last.
func compareDuration(a, b types.Restaurant) int {
	switch {
	case a.DurationSeconds == nil && b.DurationSeconds == nil:
		return 0
	case a.DurationSeconds == nil:
		return 1
	case b.DurationSeconds == nil:
		return -1
	default:
		return cmp.Compare(*a.DurationSeconds, *b.DurationSeconds)
	}
}

// Preferences applies the category whitelist/blacklist and then the price filter.
func (p *Pipeline) Preferences(in []types.Restaurant, sc types.SearchConfig) []types.Restaurant {
	out := make([]types.Restaurant, 0, len(in))
	for _, r := range in {
		if len(sc.Categories) > 0 {
			matched := p.matcher.MatchesAny(r, sc.Categories)
			if sc.FilterMode == types.FilterModeWhitelist && !matched {
				continue
			}
			if sc.FilterMode != types.FilterModeWhitelist && matched {
				continue
			}
		}
		if r.PriceLevel != nil && !sc.AcceptsPrice(*r.PriceLevel) {
			continue
		}
		out = append(out, r)
	}
	return out
}
