package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/db/dbtest"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) AdminKey(name string) string { return "c122:admin:" + name }

func stores(t *testing.T) map[string]Store {
	t.Helper()
	redisStore, err := NewRedisStore(&fakeRedis{data: map[string]string{}})
	require.NoError(t, err)
	dbStore, err := NewDBStore(dbtest.New(t))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemory(),
		"redis":  redisStore,
		"db":     dbStore,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "chamber122_users")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "chamber122_users", `[{"id":"u1"}]`))
			require.NoError(t, store.Set(ctx, "chamber122_users", `[{"id":"u2"}]`))

			v, ok, err := store.Get(ctx, "chamber122_users")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"u2"}]`, v)

			require.NoError(t, store.Delete(ctx, "chamber122_users"))
			_, ok, err = store.Get(ctx, "chamber122_users")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var dst map[string]string
	found, err := GetJSON(ctx, store, "missing", &dst)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, store, "state", map[string]string{"u1": "approved"}))
	found, err = GetJSON(ctx, store, "state", &dst)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "approved", dst["u1"])

	require.NoError(t, store.Set(ctx, "broken", "{not json"))
	_, err = GetJSON(ctx, store, "broken", &dst)
	require.Error(t, err)
}

func TestConstructorsRejectNil(t *testing.T) {
	_, err := NewRedisStore(nil)
	require.Error(t, err)
	_, err = NewDBStore(nil)
	require.Error(t, err)
}
