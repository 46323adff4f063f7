package kvstore

import (
	"context"
	"fmt"
	"time"
)

// Entry is a stored value plus the time it was written.
type Entry struct {
	Value     []byte
	WrittenAt time.Time
}

// Store is a string-keyed value store. Get returns types.ErrNotFound for a
// missing key. Writes are last-writer-wins; no locking is offered.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ValidateBackend rejects unknown backend names from configuration.
func ValidateBackend(name string) error {
	switch name {
	case BackendMemory, BackendPostgres, BackendRedis:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", name)
	}
}
