package travel

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

type element struct {
	Status   string         `json:"status"`
	Duration map[string]any `json:"duration,omitempty"`
	Distance map[string]any `json:"distance,omitempty"`
}

// matrixServer answers with duration = (latitude+1) minutes for each
// destination, ZERO_RESULTS for latitudes in noRoute, and a request-level
// error for any chunk containing a latitude in failChunk.
func matrixServer(t *testing.T, calls *atomic.Int32, noRoute, failChunk map[int]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Equal(t, "metric", q.Get("units"))

		dests := strings.Split(q.Get("destinations"), "|")
		assert.LessOrEqual(t, len(dests), MaxDestinationsPerCall)

		elements := make([]element, 0, len(dests))
		for _, d := range dests {
			lat, err := strconv.ParseFloat(strings.Split(d, ",")[0], 64)
			require.NoError(t, err)
			i := int(lat)
			if failChunk[i] {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "INVALID_REQUEST"})
				return
			}
			if noRoute[i] {
				elements = append(elements, element{Status: "ZERO_RESULTS"})
				continue
			}
			secs := (i + 1) * 60
			elements = append(elements, element{
				Status:   "OK",
				Duration: map[string]any{"value": secs, "text": "ignored"},
				Distance: map[string]any{"value": secs, "text": "ignored"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":                "OK",
			"origin_addresses":      []string{"origin"},
			"destination_addresses": dests,
			"rows":                  []map[string]any{{"elements": elements}},
		})
	}))
}

func setupTravelClientTest(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, metrics.NewNoop(), logger)
	require.NoError(t, err)
	return c
}

func destinations(n int) []types.LatLng {
	out := make([]types.LatLng, n)
	for i := range out {
		out[i] = types.LatLng{Lat: float64(i), Lng: 0}
	}
	return out
}

func TestClient_DurationsChunksAndKeepsOrder(t *testing.T) {
	var calls atomic.Int32
	client := setupTravelClientTest(t, matrixServer(t, &calls, map[int]bool{27: true}, nil))

	got := client.Durations(context.Background(), types.LatLng{}, destinations(30))

	require.Len(t, got, 30)
	assert.Equal(t, int32(2), calls.Load())
	for i, d := range got {
		if i == 27 {
			assert.False(t, d.Known, "no route is unknown")
			continue
		}
		assert.True(t, d.Known, "destination %d", i)
		assert.Equal(t, (i+1)*60, d.Seconds, "destination %d", i)
	}
	assert.Equal(t, "1 min", got[0].Text)
	assert.Equal(t, "30 mins", got[29].Text)
}

func TestClient_DurationsFailedChunkIsUnknown(t *testing.T) {
	var calls atomic.Int32
	client := setupTravelClientTest(t, matrixServer(t, &calls, nil, map[int]bool{26: true}))

	got := client.Durations(context.Background(), types.LatLng{}, destinations(30))

	require.Len(t, got, 30)
	for i := 0; i < 25; i++ {
		assert.True(t, got[i].Known)
	}
	for i := 25; i < 30; i++ {
		assert.False(t, got[i].Known)
	}
}

func TestClient_DurationsEmpty(t *testing.T) {
	var calls atomic.Int32
	client := setupTravelClientTest(t, matrixServer(t, &calls, nil, nil))

	assert.Empty(t, client.Durations(context.Background(), types.LatLng{}, nil))
	assert.Zero(t, calls.Load())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "1 min"},
		{59, "1 min"},
		{150, "3 mins"},
		{3600, "1 hour"},
		{3900, "1 hour 5 mins"},
		{7260, "2 hours 1 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}
