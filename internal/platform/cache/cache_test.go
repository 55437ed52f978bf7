package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]int{"total": 42}, nil
	}

	key, err := c.BuildKey(ctx, "reports", "kpi")
	require.NoError(t, err)

	var first map[string]int
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 42, first["total"])

	var second map[string]int
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 42, second["total"])
	require.Equal(t, 1, calls, "second fetch must hit the cache")
}

func TestBumpChangesKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	before, err := c.BuildKey(ctx, "reports", "kpi")
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx))

	after, err := c.BuildKey(ctx, "reports", "kpi")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestFetchJSONPropagatesLoaderError(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	sentinel := errors.New("load failed")
	var out map[string]int
	err := c.FetchJSON(ctx, "some-key", &out, func(context.Context) (interface{}, error) {
		return nil, sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

func TestNilCachePassesThrough(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	var out map[string]int
	err := c.FetchJSON(ctx, "key", &out, func(context.Context) (interface{}, error) {
		return map[string]int{"v": 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, out["v"])
	require.NoError(t, c.Bump(ctx))
}
