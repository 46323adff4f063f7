package roulette

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/details"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geo"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geolocation"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/search"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Runner collects raw candidates for a plan.
type Runner interface {
	Run(ctx context.Context, plan search.Plan) ([]types.Restaurant, search.RunStats, error)
}

// Filter narrows raw candidates to the eligible set.
type Filter interface {
	Filter(ctx context.Context, origin types.LatLng, candidates []types.Restaurant, sc types.SearchConfig) ([]types.Restaurant, types.FilterStats)
}

// ConfigSource yields the search config for an owner: the stored one, or the
// given override once validated.
type ConfigSource interface {
	Resolve(ctx context.Context, owner uuid.UUID, override *types.SearchConfig) (types.SearchConfig, error)
}

type Config struct {
	ShareBaseURL string
	Radius       search.RadiusConfig
	Geolocation  geolocation.Options
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// FindBestMatch runs discovery and filtering around the reported location
	// and draws a winner. An empty outcome is a result, not an error.
	FindBestMatch(ctx context.Context, owner uuid.UUID, req types.SearchRequest) (*types.MatchResult, error)
	// Reroll draws another winner from a session without repeating ids until
	// the pool is exhausted.
	Reroll(ctx context.Context, owner, sessionID uuid.UUID) (*types.MatchResult, error)
	// RestoreFromShareLink rebuilds a session around a shared restaurant.
	RestoreFromShareLink(ctx context.Context, owner uuid.UUID, target ShareTarget, override *types.SearchConfig) (*types.MatchResult, error)
}

type ServiceImpl struct {
	planner  *search.Planner
	runner   Runner
	filter   Filter
	details  details.Service
	settings ConfigSource
	sessions *SessionStore
	gens     *Generations
	cfg      Config
	metrics  *metrics.AppMetrics
	logger   *slog.Logger

	rngMu sync.Mutex
	rng   Rand
	now   func() time.Time
}

func NewServiceImpl(
	planner *search.Planner,
	runner Runner,
	filter Filter,
	detailSvc details.Service,
	settings ConfigSource,
	sessions *SessionStore,
	cfg Config,
	m *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		planner:  planner,
		runner:   runner,
		filter:   filter,
		details:  detailSvc,
		settings: settings,
		sessions: sessions,
		gens:     NewGenerations(),
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		now:      time.Now,
	}
}

// WithRand replaces the random source. Used by tests.
func (s *ServiceImpl) WithRand(rng Rand) *ServiceImpl {
	s.rng = rng
	return s
}

func (s *ServiceImpl) pick(candidates []types.Restaurant, history []string) (types.Restaurant, []string, bool) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return PickWinner(candidates, history, s.rng)
}

func (s *ServiceImpl) FindBestMatch(ctx context.Context, owner uuid.UUID, req types.SearchRequest) (*types.MatchResult, error) {
	ctx, span := otel.Tracer("RouletteService").Start(ctx, "FindBestMatch", trace.WithAttributes(
		attribute.String("owner.id", owner.String()),
	))
	defer span.End()

	start := s.now()
	l := s.logger.With(slog.String("method", "FindBestMatch"), slog.String("owner", owner.String()))

	origin, err := geolocation.Acquire(ctx, geolocation.ReportProvider{Report: req.Location, MaxAge: s.cfg.Geolocation.MaxAge}, s.cfg.Geolocation)
	if err != nil {
		l.InfoContext(ctx, "Location unavailable, search aborted", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Location acquisition failed")
		s.metrics.RecordSearch(ctx, "location_error", s.since(start))
		return nil, err
	}

	sc, err := s.settings.Resolve(ctx, owner, req.Config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Config unavailable")
		return nil, fmt.Errorf("error resolving search config: %w", err)
	}

	ctx, gen := s.gens.Begin(ctx, owner)
	defer s.gens.End(owner, gen)

	eligible, stats, reason, err := s.discover(ctx, origin, sc)
	if cur := s.checkCurrent(ctx, owner, gen); cur != nil {
		err = cur
	}
	if err != nil {
		s.recordFailure(ctx, span, err, start)
		return nil, err
	}

	if reason != types.EmptyReasonNone {
		l.InfoContext(ctx, "Search produced no eligible candidates", slog.String("reason", string(reason)))
		span.SetStatus(codes.Ok, "Empty result")
		s.metrics.RecordSearch(ctx, string(reason), s.since(start))
		return &types.MatchResult{Empty: true, EmptyReason: reason, Stats: stats}, nil
	}

	winner, history, _ := s.pick(eligible, nil)
	s.details.Enrich(ctx, &winner)

	if err := s.checkCurrent(ctx, owner, gen); err != nil {
		s.recordFailure(ctx, span, err, start)
		return nil, err
	}

	sess := &Session{
		ID:         uuid.New(),
		Owner:      owner,
		Origin:     &origin,
		Config:     sc,
		Candidates: eligible,
		History:    history,
		Winner:     winner,
		Stats:      stats,
		CreatedAt:  s.now(),
	}
	s.sessions.Put(sess)

	l.InfoContext(ctx, "Winner drawn",
		slog.String("session_id", sess.ID.String()),
		slog.String("winner_id", winner.ID),
		slog.Int("eligible", len(eligible)))
	span.SetAttributes(attribute.Int("roulette.eligible", len(eligible)))
	span.SetStatus(codes.Ok, "Winner drawn")
	s.metrics.RecordSearch(ctx, "winner", s.since(start))
	return s.result(sess), nil
}

func (s *ServiceImpl) Reroll(ctx context.Context, owner, sessionID uuid.UUID) (*types.MatchResult, error) {
	ctx, span := otel.Tracer("RouletteService").Start(ctx, "Reroll", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
	))
	defer span.End()

	sess, err := s.sessions.Update(owner, sessionID, func(sess *Session) error {
		winner, history, ok := s.pick(sess.Candidates, sess.History)
		if !ok {
			return fmt.Errorf("session %s has no candidates: %w", sessionID, types.ErrSessionNotFound)
		}
		sess.Winner = winner
		sess.History = history
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reroll failed")
		return nil, err
	}

	s.details.Enrich(ctx, &sess.Winner)

	s.logger.DebugContext(ctx, "Rerolled",
		slog.String("session_id", sessionID.String()),
		slog.String("winner_id", sess.Winner.ID),
		slog.Int("shown", len(sess.History)))
	span.SetStatus(codes.Ok, "Rerolled")
	return s.result(sess), nil
}

func (s *ServiceImpl) RestoreFromShareLink(ctx context.Context, owner uuid.UUID, target ShareTarget, override *types.SearchConfig) (*types.MatchResult, error) {
	ctx, span := otel.Tracer("RouletteService").Start(ctx, "RestoreFromShareLink", trace.WithAttributes(
		attribute.String("place.id", target.ResID),
	))
	defer span.End()

	start := s.now()
	l := s.logger.With(slog.String("method", "RestoreFromShareLink"), slog.String("res_id", target.ResID))

	sc, err := s.settings.Resolve(ctx, owner, override)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Config unavailable")
		return nil, fmt.Errorf("error resolving search config: %w", err)
	}

	ctx, gen := s.gens.Begin(ctx, owner)
	defer s.gens.End(owner, gen)

	winner, err := s.details.Fetch(ctx, target.ResID)
	if err != nil {
		l.WarnContext(ctx, "Shared restaurant could not be loaded", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, err
	}

	origin := target.Location
	if origin == nil && winner.Location != nil {
		origin = winner.Location
	}

	candidates := []types.Restaurant{winner}
	var stats types.FilterStats
	if origin != nil {
		if winner.Location != nil {
			d := geo.DistanceMeters(*origin, *winner.Location)
			winner.DistanceMeters = &d
		}
		eligible, st, _, err := s.discover(ctx, *origin, sc)
		if cur := s.checkCurrent(ctx, owner, gen); cur != nil {
			err = cur
		}
		if err != nil {
			s.recordFailure(ctx, span, err, start)
			return nil, err
		}
		stats = st
		candidates = mergeWinner(winner, eligible)
		winner = candidates[0]
	}

	sess := &Session{
		ID:         uuid.New(),
		Owner:      owner,
		Origin:     origin,
		Config:     sc,
		Candidates: candidates,
		History:    []string{winner.ID},
		Winner:     winner,
		Stats:      stats,
		CreatedAt:  s.now(),
	}
	s.sessions.Put(sess)

	l.InfoContext(ctx, "Shared session restored",
		slog.String("session_id", sess.ID.String()),
		slog.Int("candidates", len(candidates)))
	span.SetStatus(codes.Ok, "Restored")
	s.metrics.RecordSearch(ctx, "restored", s.since(start))
	return s.result(sess), nil
}

// discover plans, runs and filters one search.
func (s *ServiceImpl) discover(ctx context.Context, origin types.LatLng, sc types.SearchConfig) ([]types.Restaurant, types.FilterStats, types.EmptyReason, error) {
	radius := s.cfg.Radius.RadiusFor(sc.WalkMinutes)
	plan := s.planner.Plan(origin, radius, sc)

	raw, runStats, err := s.runner.Run(ctx, plan)
	if err != nil {
		return nil, types.FilterStats{}, types.EmptyReasonNone, err
	}
	s.logger.DebugContext(ctx, "Discovery finished",
		slog.Float64("radius_m", radius),
		slog.Int("raw", len(raw)),
		slog.Int("calls", runStats.Calls),
		slog.Int("failed_calls", runStats.FailedCalls))
	if len(raw) == 0 {
		return nil, types.FilterStats{}, types.EmptyReasonNoNearbyResults, nil
	}

	eligible, stats := s.filter.Filter(ctx, origin, raw, sc)
	if err := ctx.Err(); err != nil {
		return nil, stats, types.EmptyReasonNone, err
	}
	if len(eligible) == 0 {
		return nil, stats, types.EmptyReasonFilteredTooStrict, nil
	}
	return eligible, stats, types.EmptyReasonNone, nil
}

// checkCurrent turns a cancelled or outdated generation into an error.
func (s *ServiceImpl) checkCurrent(ctx context.Context, owner uuid.UUID, gen uint64) error {
	if !s.gens.Current(owner, gen) {
		return types.ErrSearchSuperseded
	}
	return ctx.Err()
}

func (s *ServiceImpl) recordFailure(ctx context.Context, span trace.Span, err error, start time.Time) {
	outcome := "error"
	if errors.Is(err, types.ErrSearchSuperseded) || errors.Is(err, context.Canceled) {
		outcome = "superseded"
		s.logger.InfoContext(ctx, "Search abandoned", slog.Any("error", err))
	} else {
		s.logger.ErrorContext(ctx, "Search failed", slog.Any("error", err))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	s.metrics.RecordSearch(context.WithoutCancel(ctx), outcome, s.since(start))
}

func (s *ServiceImpl) since(start time.Time) float64 {
	return s.now().Sub(start).Seconds()
}

func (s *ServiceImpl) result(sess *Session) *types.MatchResult {
	winner := sess.Winner
	return &types.MatchResult{
		SessionID:  sess.ID,
		Winner:     &winner,
		Candidates: sess.Candidates,
		Stats:      sess.Stats,
		ShareLink:  BuildShareLink(s.cfg.ShareBaseURL, winner.ID, sess.Origin),
	}
}

// mergeWinner puts the shared restaurant first. If discovery also found it,
// the freshly derived copy is used with the fetched details applied.
func mergeWinner(winner types.Restaurant, eligible []types.Restaurant) []types.Restaurant {
	out := make([]types.Restaurant, 0, len(eligible)+1)
	for _, c := range eligible {
		if c.ID == winner.ID {
			c.ApplyDetails(winner.DetailFields())
			winner = c
			continue
		}
		out = append(out, c)
	}
	return append([]types.Restaurant{winner}, out...)
}
