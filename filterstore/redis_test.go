package filterstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	requireLib "github.com/stretchr/testify/require"
	"syreclabs.com/go/faker"

	"github.com/urlguard/bloom/filterstore"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis is not available: %v", err)
	}
	return client
}

func TestRedisStoreSaveLoad(t *testing.T) {
	require := requireLib.New(t)
	client := redisClient(t)

	store := filterstore.NewRedisStore(client)
	key := "test-bloom-" + faker.RandomString(5)
	payload := []byte("snapshot-bytes-" + faker.RandomString(20))

	require.NoError(store.Save(context.Background(), key, payload))
	defer client.Del(context.Background(), key)

	loaded, err := store.Load(context.Background(), key)
	require.NoError(err)
	require.Equal(payload, loaded)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	require := requireLib.New(t)
	client := redisClient(t)

	store := filterstore.NewRedisStore(client)
	_, err := store.Load(context.Background(), "test-bloom-missing-"+faker.RandomString(8))
	require.ErrorIs(err, filterstore.ErrNotFound)
}

func TestRedisStoreTTL(t *testing.T) {
	require := requireLib.New(t)
	client := redisClient(t)

	store := filterstore.NewRedisStoreWithTTL(client, time.Hour)
	key := "test-bloom-ttl-" + faker.RandomString(5)

	require.NoError(store.Save(context.Background(), key, []byte("expiring")))
	defer client.Del(context.Background(), key)

	ttl, err := client.TTL(context.Background(), key).Result()
	require.NoError(err)
	require.Greater(ttl, time.Duration(0), "snapshot should carry the configured TTL")
}
