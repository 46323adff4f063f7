package availability

import (
	"context"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * minutesPerDay
)

// IsOpenAt evaluates a weekly schedule at the given wall-clock time.
// An empty schedule is unknown; a single open period without a close is
// always open. Periods missing either end are skipped.
func IsOpenAt(periods []types.OpeningPeriod, now time.Time) types.OpenStatus {
	if len(periods) == 0 {
		return types.OpenUnknown
	}
	if len(periods) == 1 && periods[0].Open != nil && periods[0].Close == nil {
		return types.OpenNow
	}

	current := int(now.Weekday())*minutesPerDay + now.Hour()*60 + now.Minute()
	evaluated := false
	for _, p := range periods {
		if p.Open == nil || p.Close == nil {
			continue
		}
		evaluated = true

		open := weekMinute(*p.Open)
		closeAt := weekMinute(*p.Close)
		if closeAt <= open {
			closeAt += minutesPerWeek
		}

		if (current >= open && current < closeAt) ||
			(current+minutesPerWeek >= open && current+minutesPerWeek < closeAt) {
			return types.OpenNow
		}
	}

	if evaluated {
		return types.ClosedNow
	}
	return types.OpenUnknown
}

// IsOpenNow evaluates periods at the current time in the given location.
func IsOpenNow(periods []types.OpeningPeriod, loc *time.Location) types.OpenStatus {
	now := time.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return IsOpenAt(periods, now)
}

func weekMinute(dt types.DayTime) int {
	return dt.Day*minutesPerDay + dt.Hour*60 + dt.Minute
}

// LocalTime converts now into the restaurant's local wall clock when the
// provider reported an offset.
func LocalTime(r types.Restaurant, now time.Time) time.Time {
	if r.UTCOffsetMinutes == nil {
		return now
	}
	return now.In(time.FixedZone("", *r.UTCOffsetMinutes*60))
}

// LiveChecker asks the provider whether a place is open right now. Calls may fail.
type LiveChecker interface {
	IsOpenNow(ctx context.Context, placeID string) (bool, error)
}

// Resolver applies the open-status fallback chain: live provider check,
// then the weekly schedule, then the provider's boolean hint.
type Resolver struct {
	live   LiveChecker
	logger *slog.Logger
	now    func() time.Time
}

// NewResolver builds a resolver. live may be nil when live checks are disabled.
func NewResolver(live LiveChecker, logger *slog.Logger) *Resolver {
	return &Resolver{live: live, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve returns the record's open status: live check first, then opening
// periods, then the provider flag.
func (r *Resolver) Resolve(ctx context.Context, rec types.Restaurant) types.OpenStatus {
	if r.live != nil && rec.ID != "" {
		open, err := r.live.IsOpenNow(ctx, rec.ID)
		if err == nil {
			if open {
				return types.OpenNow
			}
			return types.ClosedNow
		}
		r.logger.DebugContext(ctx, "Live open check failed, using schedule",
			slog.String("place_id", rec.ID), slog.Any("error", err))
	}

	if status := IsOpenAt(rec.OpeningPeriods, LocalTime(rec, r.now())); status != types.OpenUnknown {
		return status
	}

	if rec.OpenNowHint != nil {
		if *rec.OpenNowHint {
			return types.OpenNow
		}
		return types.ClosedNow
	}
	return types.OpenUnknown
}
