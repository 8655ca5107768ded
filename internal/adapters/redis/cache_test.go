package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/tessera/internal/adapters/redis"
	"github.com/aretw0/tessera/pkg/domain"
)

func newTestCache(t *testing.T, opts ...redis.Option) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...), mr
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	exp := domain.Expansion{
		Text: "expanded body",
		Diagnostics: []domain.Diagnostic{
			{Kind: domain.DiagFileReadFailure, Source: "intro.md", Path: "missing.md"},
		},
	}
	require.NoError(t, cache.Set(ctx, "guide/intro.md", exp))

	got, ok, err := cache.Get(ctx, "guide/intro.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, exp, got)
}

func TestCache_MissReturnsFalse(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), "never-stored.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "page.md", domain.Expansion{Text: "x"}))
	mr.FastForward(2 * time.Second)

	_, ok, err := cache.Get(ctx, "page.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "page.md", domain.Expansion{Text: "x"}))
	require.NoError(t, cache.Invalidate(ctx, "page.md"))

	_, ok, err := cache.Get(ctx, "page.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PrefixKeepsPathsSeparate(t *testing.T) {
	cache, mr := newTestCache(t, redis.WithPrefix("docs:"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a.md", domain.Expansion{Text: "a"}))
	assert.True(t, mr.Exists("docs:a.md"))
}
