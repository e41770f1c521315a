package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/posematch/pkg/adapters/redis"
	"github.com/aretw0/posematch/pkg/ports"
	contract "github.com/aretw0/posematch/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := newStore(t)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_LoaderContract(t *testing.T) {
	mr, store := newStore(t)
	require.NoError(t, mr.Set("posematch:Matrices/model", "[]"))
	require.NoError(t, mr.Set("posematch:Matrices/space", `[{"m00":1}]`))

	contract.ResourceLoaderContractTest(t, store, map[string]string{
		"Matrices/model": "[]",
		"Matrices/space": `[{"m00":1}]`,
	})
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, store := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.WriteText(ctx, "out/matching", `{"datas":[]}`)
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:out/matching"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"out/matching"}, list)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, store := newStore(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.WriteText(ctx, "result", "x"))
	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "result")

	mr.FastForward(2 * time.Second)

	_, err = store.LoadText(ctx, "result")
	assert.Error(t, err)

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// An emptied set disappears, so the lookup error is irrelevant here.
	members, _ := mr.Members("posematch:index")
	assert.Empty(t, members)
}
