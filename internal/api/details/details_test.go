package details

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupCacheTest() (*Cache, kvstore.Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := kvstore.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewCache(store, DefaultTTL, DefaultSweepInterval, logger).WithClock(clock.Now)
	return c, store, clock
}

func TestCache_GetSet(t *testing.T) {
	c, _, clock := setupCacheTest()
	ctx := context.Background()

	_, ok := c.Get(ctx, "p1")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "p1", types.Details{Phone: "123"}))
	clock.Advance(DefaultTTL)

	d, ok := c.Get(ctx, "p1")
	require.True(t, ok, "entry exactly TTL old is still fresh")
	assert.Equal(t, "123", d.Phone)
}

func TestCache_ExpiredEntryIsAbsentAndEvicted(t *testing.T) {
	c, store, clock := setupCacheTest()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "p1", types.Details{Phone: "123"}))
	clock.Advance(DefaultTTL + time.Millisecond)

	_, ok := c.Get(ctx, "p1")
	assert.False(t, ok)

	_, err := store.Get(ctx, "details:p1")
	assert.ErrorIs(t, err, types.ErrNotFound, "expired read evicts the entry")
}

func TestCache_OpportunisticSweep(t *testing.T) {
	c, store, clock := setupCacheTest()
	ctx := context.Background()

	// The first write triggers a sweep; the next ones are inside the interval.
	require.NoError(t, c.Set(ctx, "old-1", types.Details{}))
	require.NoError(t, c.Set(ctx, "old-2", types.Details{}))
	require.NoError(t, store.Set(ctx, "settings:u", kvstore.Entry{Value: []byte("{}"), WrittenAt: clock.Now()}))

	clock.Advance(DefaultTTL + time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", types.Details{}))

	keys, err := store.Keys(ctx, "details:")
	require.NoError(t, err)
	assert.Equal(t, []string{"details:fresh"}, keys)

	_, err = store.Get(ctx, "settings:u")
	assert.NoError(t, err, "sweep only touches detail entries")
}

func TestCache_Sweep(t *testing.T) {
	c, _, clock := setupCacheTest()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", types.Details{}))
	clock.Advance(20 * time.Hour)
	require.NoError(t, c.Set(ctx, "b", types.Details{}))
	clock.Advance(5 * time.Hour)

	removed, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := c.Get(ctx, "b")
	assert.True(t, ok)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchDetails(ctx context.Context, placeID string) (types.Restaurant, error) {
	args := m.Called(ctx, placeID)
	return args.Get(0).(types.Restaurant), args.Error(1)
}

func setupDetailsServiceTest() (*ServiceImpl, *MockFetcher, *Cache) {
	c, _, _ := setupCacheTest()
	fetcher := new(MockFetcher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(c, fetcher, metrics.NewNoop(), logger), fetcher, c
}

func TestServiceImpl_Enrich(t *testing.T) {
	ctx := context.Background()

	t.Run("miss fetches and caches", func(t *testing.T) {
		svc, fetcher, cache := setupDetailsServiceTest()
		fetcher.On("FetchDetails", mock.Anything, "p1").Return(types.Restaurant{
			ID:      "p1",
			Phone:   "555",
			Photos:  []types.Photo{{Name: "ph"}},
			Reviews: []types.Review{{Author: "a", Rating: 4}},
		}, nil).Once()

		r := types.Restaurant{ID: "p1", Name: "Winner", IsOpen: types.OpenNow}
		svc.Enrich(ctx, &r)

		assert.Equal(t, "555", r.Phone)
		assert.Len(t, r.Photos, 1)
		assert.Equal(t, "Winner", r.Name)
		assert.Equal(t, types.OpenNow, r.IsOpen, "derived fields are untouched")
		_, ok := cache.Get(ctx, "p1")
		assert.True(t, ok)
		fetcher.AssertExpectations(t)
	})

	t.Run("hit skips the provider", func(t *testing.T) {
		svc, fetcher, cache := setupDetailsServiceTest()
		require.NoError(t, cache.Set(ctx, "p1", types.Details{Phone: "cached"}))

		r := types.Restaurant{ID: "p1"}
		svc.Enrich(ctx, &r)

		assert.Equal(t, "cached", r.Phone)
		fetcher.AssertNotCalled(t, "FetchDetails", mock.Anything, mock.Anything)
	})

	t.Run("fetch failure keeps basic record", func(t *testing.T) {
		svc, fetcher, _ := setupDetailsServiceTest()
		fetcher.On("FetchDetails", mock.Anything, "p1").
			Return(types.Restaurant{}, errors.New("quota exceeded")).Once()

		r := types.Restaurant{ID: "p1", Name: "Basic", Phone: "orig"}
		svc.Enrich(ctx, &r)

		assert.Equal(t, types.Restaurant{ID: "p1", Name: "Basic", Phone: "orig"}, r)
		fetcher.AssertExpectations(t)
	})
}

func TestServiceImpl_Fetch(t *testing.T) {
	ctx := context.Background()
	svc, fetcher, cache := setupDetailsServiceTest()

	fetcher.On("FetchDetails", mock.Anything, "p1").Return(types.Restaurant{ID: "p1", Name: "Shared", Phone: "1"}, nil).Once()
	fetcher.On("FetchDetails", mock.Anything, "gone").Return(types.Restaurant{}, types.ErrNotFound).Once()

	r, err := svc.Fetch(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Shared", r.Name)
	d, ok := cache.Get(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, "1", d.Phone)

	_, err = svc.Fetch(ctx, "gone")
	assert.ErrorIs(t, err, types.ErrNotFound)
	fetcher.AssertExpectations(t)
}
