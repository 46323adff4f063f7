package details

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = time.Hour
	keyPrefix            = "details:"
)

// Cache is a TTL cache of place details on top of a kvstore.Store. An entry
// older than the TTL reads as absent and is evicted on that read.
type Cache struct {
	store         kvstore.Store
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu        sync.Mutex
	lastSweep time.Time
}

func NewCache(store kvstore.Store, ttl, sweepInterval time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Cache{
		store:         store,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		now:           time.Now,
		logger:        logger,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func key(placeID string) string {
	return keyPrefix + placeID
}

// Get returns the cached details of placeID, or false when absent or expired.
func (c *Cache) Get(ctx context.Context, placeID string) (types.Details, bool) {
	e, err := c.store.Get(ctx, key(placeID))
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			c.logger.WarnContext(ctx, "Detail cache read failed", slog.String("place_id", placeID), slog.Any("error", err))
		}
		return types.Details{}, false
	}

	if c.expired(e) {
		if err := c.store.Delete(ctx, key(placeID)); err != nil {
			c.logger.WarnContext(ctx, "Failed to evict expired detail entry", slog.String("place_id", placeID), slog.Any("error", err))
		}
		return types.Details{}, false
	}

	var d types.Details
	if err := json.Unmarshal(e.Value, &d); err != nil {
		c.logger.WarnContext(ctx, "Dropping undecodable detail entry", slog.String("place_id", placeID), slog.Any("error", err))
		_ = c.store.Delete(ctx, key(placeID))
		return types.Details{}, false
	}
	return d, true
}

// Set stores details stamped with the current time, then sweeps if one is due.
func (c *Cache) Set(ctx context.Context, placeID string, d types.Details) error {
	value, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	if err := c.store.Set(ctx, key(placeID), kvstore.Entry{Value: value, WrittenAt: c.now()}); err != nil {
		return fmt.Errorf("store details for %s: %w", placeID, err)
	}
	c.maybeSweep(ctx)
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, fmt.Errorf("list detail keys: %w", err)
	}
	removed := 0
	for _, k := range keys {
		e, err := c.store.Get(ctx, k)
		if err != nil {
			continue
		}
		if !c.expired(e) {
			continue
		}
		if err := c.store.Delete(ctx, k); err != nil {
			c.logger.WarnContext(ctx, "Sweep failed to delete entry",
				slog.String("place_id", strings.TrimPrefix(k, keyPrefix)), slog.Any("error", err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) expired(e kvstore.Entry) bool {
	return c.now().Sub(e.WrittenAt) > c.ttl
}

func (c *Cache) maybeSweep(ctx context.Context) {
	c.mu.Lock()
	now := c.now()
	if !c.lastSweep.IsZero() && now.Sub(c.lastSweep) < c.sweepInterval {
		c.mu.Unlock()
		return
	}
	c.lastSweep = now
	c.mu.Unlock()

	removed, err := c.Sweep(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Detail cache sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		c.logger.DebugContext(ctx, "Detail cache swept", slog.Int("removed", removed))
	}
}
