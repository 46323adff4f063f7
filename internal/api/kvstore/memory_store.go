package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps entries in process. Entries never expire on their own;
// expiry is decided by the callers from WrittenAt.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return Entry{}, fmt.Errorf("key %s: %w", key, types.ErrNotFound)
	}
	return v.(Entry), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	s.c.Set(key, e, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	items := s.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
