package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

var _ Store = (*RedisStore)(nil)

const (
	fieldValue     = "v"
	fieldWrittenAt = "t"
	scanBatch      = 200
)

// RedisStore keeps each entry as a hash {v: value, t: unix nanos} under a
// namespace prefix.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	res, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	raw, ok := res[fieldValue]
	if !ok {
		return Entry{}, fmt.Errorf("key %s: %w", key, types.ErrNotFound)
	}
	nanos, err := strconv.ParseInt(res[fieldWrittenAt], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("corrupt timestamp for %s: %w", key, err)
	}
	return Entry{Value: []byte(raw), WrittenAt: time.Unix(0, nanos).UTC()}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	err := s.client.HSet(ctx, s.key(key),
		fieldValue, e.Value,
		fieldWrittenAt, strconv.FormatInt(e.WrittenAt.UnixNano(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.key(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to scan redis keys: %w", err)
	}
	return keys, nil
}
