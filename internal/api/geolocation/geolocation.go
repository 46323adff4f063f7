package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geo"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultMaxAge  = 5 * time.Minute
)

// Error codes a client reports when its own position lookup failed.
const (
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodePositionUnavailable = "POSITION_UNAVAILABLE"
	CodeTimeout             = "TIMEOUT"
	CodeUnsupported         = "UNSUPPORTED"
)

// Provider yields the user's current position.
type Provider interface {
	CurrentPosition(ctx context.Context) (types.LatLng, error)
}

type Options struct {
	Timeout time.Duration
	// MaxAge is the oldest cached fix still accepted.
	MaxAge time.Duration
}

// Acquire asks p for a position, bounded by opts.Timeout. Failures are one of
// the types.ErrLocation* sentinels.
func Acquire(ctx context.Context, p Provider, opts Options) (types.LatLng, error) {
	if p == nil {
		return types.LatLng{}, types.ErrLocationUnsupported
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	type result struct {
		pos types.LatLng
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := p.CurrentPosition(ctx)
		done <- result{pos, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return types.LatLng{}, types.ErrLocationTimeout
		}
		return types.LatLng{}, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return types.LatLng{}, res.err
		}
		if !geo.Valid(res.pos) {
			return types.LatLng{}, fmt.Errorf("position %v out of range: %w", res.pos, types.ErrLocationUnavailable)
		}
		return res.pos, nil
	}
}

// ReportProvider serves the position (or failure) a client already measured.
type ReportProvider struct {
	Report types.LocationReport
	MaxAge time.Duration
}

func (r ReportProvider) CurrentPosition(_ context.Context) (types.LatLng, error) {
	switch r.Report.Error {
	case "":
	case CodePermissionDenied:
		return types.LatLng{}, types.ErrLocationPermissionDenied
	case CodeTimeout:
		return types.LatLng{}, types.ErrLocationTimeout
	case CodeUnsupported:
		return types.LatLng{}, types.ErrLocationUnsupported
	default:
		return types.LatLng{}, types.ErrLocationUnavailable
	}

	if r.Report.Lat == nil || r.Report.Lng == nil {
		return types.LatLng{}, types.ErrLocationUnavailable
	}
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if time.Duration(r.Report.AgeMs)*time.Millisecond > maxAge {
		return types.LatLng{}, fmt.Errorf("fix is %dms old: %w", r.Report.AgeMs, types.ErrLocationUnavailable)
	}
	return types.LatLng{Lat: *r.Report.Lat, Lng: *r.Report.Lng}, nil
}

// IsLocationError reports whether err is an acquisition failure that should be
// shown to the user rather than retried.
func IsLocationError(err error) bool {
	return errors.Is(err, types.ErrLocationPermissionDenied) ||
		errors.Is(err, types.ErrLocationUnavailable) ||
		errors.Is(err, types.ErrLocationUnsupported) ||
		errors.Is(err, types.ErrLocationTimeout)
}
