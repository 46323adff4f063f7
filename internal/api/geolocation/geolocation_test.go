package geolocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

func ptr(f float64) *float64 { return &f }

type blockingProvider struct{}

func (blockingProvider) CurrentPosition(ctx context.Context) (types.LatLng, error) {
	<-ctx.Done()
	return types.LatLng{}, ctx.Err()
}

func TestAcquire_FromReport(t *testing.T) {
	tests := []struct {
		name    string
		report  types.LocationReport
		want    types.LatLng
		wantErr error
	}{
		{
			name:   "valid fix",
			report: types.LocationReport{Lat: ptr(25.03), Lng: ptr(121.56), AgeMs: 1000},
			want:   types.LatLng{Lat: 25.03, Lng: 121.56},
		},
		{name: "permission denied", report: types.LocationReport{Error: CodePermissionDenied}, wantErr: types.ErrLocationPermissionDenied},
		{name: "unavailable", report: types.LocationReport{Error: CodePositionUnavailable}, wantErr: types.ErrLocationUnavailable},
		{name: "client timeout", report: types.LocationReport{Error: CodeTimeout}, wantErr: types.ErrLocationTimeout},
		{name: "unsupported", report: types.LocationReport{Error: CodeUnsupported}, wantErr: types.ErrLocationUnsupported},
		{name: "unknown code", report: types.LocationReport{Error: "WEIRD"}, wantErr: types.ErrLocationUnavailable},
		{name: "missing coordinates", report: types.LocationReport{Lat: ptr(1)}, wantErr: types.ErrLocationUnavailable},
		{
			name:    "stale fix",
			report:  types.LocationReport{Lat: ptr(1), Lng: ptr(1), AgeMs: (10 * time.Minute).Milliseconds()},
			wantErr: types.ErrLocationUnavailable,
		},
		{
			name:    "out of range",
			report:  types.LocationReport{Lat: ptr(91), Lng: ptr(0)},
			wantErr: types.ErrLocationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Acquire(context.Background(), ReportProvider{Report: tt.report}, Options{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsLocationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAcquire_Timeout(t *testing.T) {
	_, err := Acquire(context.Background(), blockingProvider{}, Options{Timeout: 10 * time.Millisecond})

	assert.ErrorIs(t, err, types.ErrLocationTimeout)
}

func TestAcquire_NilProvider(t *testing.T) {
	_, err := Acquire(context.Background(), nil, Options{})

	assert.ErrorIs(t, err, types.ErrLocationUnsupported)
}
