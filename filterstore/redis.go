package filterstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore keeps snapshots in Redis string values. A SET is atomic on the
// Redis side, which gives the same no-partial-snapshot guarantee as the file
// store's rename.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreWithTTL expires snapshots after ttl, for caches that are
// rebuilt from their source of truth anyway.
func NewRedisStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	return errors.Wrapf(s.client.Set(ctx, key, data, s.ttl).Err(), "snapshot save under %q failed", key)
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot load under %q failed", key)
	}
	return data, nil
}

var _ Store = &RedisStore{}
