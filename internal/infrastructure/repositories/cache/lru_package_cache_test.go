//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/infrastructure/repositories/cache"
)

func TestLRUPackageCache(t *testing.T) {
	t.Parallel()

	t.Run("should return stored packages", func(t *testing.T) {
		t.Parallel()

		// given
		c := cache.NewLRUPackageCache(10, time.Hour)
		pkg := entities.NewPackage("django", []string{"1.0", "2.0"})
		require.NoError(t, c.Set(context.Background(), "pypi|django", pkg, 0))

		// when
		got, ok := c.Get(context.Background(), "pypi|django")

		// then
		assert.True(t, ok)
		assert.Same(t, pkg, got)
		assert.Equal(t, "memory", c.Name())
	})

	t.Run("should miss unknown keys", func(t *testing.T) {
		t.Parallel()

		// given
		c := cache.NewLRUPackageCache(10, time.Hour)

		// when
		got, ok := c.Get(context.Background(), "pypi|flask")

		// then
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("should evict the least recently used entry", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		c := cache.NewLRUPackageCache(2, time.Hour)
		require.NoError(t, c.Set(ctx, "a", entities.NewPackage("a", nil), 0))
		require.NoError(t, c.Set(ctx, "b", entities.NewPackage("b", nil), 0))
		_, _ = c.Get(ctx, "a")

		// when
		require.NoError(t, c.Set(ctx, "c", entities.NewPackage("c", nil), 0))

		// then
		assert.Equal(t, 2, c.Len())
		_, hasA := c.Get(ctx, "a")
		_, hasB := c.Get(ctx, "b")
		assert.True(t, hasA)
		assert.False(t, hasB)
	})

	t.Run("should expire entries after the ttl", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		c := cache.NewLRUPackageCache(10, 20*time.Millisecond)
		require.NoError(t, c.Set(ctx, "a", entities.NewPackage("a", nil), 0))

		// when
		time.Sleep(60 * time.Millisecond)
		_, ok := c.Get(ctx, "a")

		// then
		assert.False(t, ok)
	})
}

func TestNullPackageCache(t *testing.T) {
	t.Parallel()

	t.Run("should never hold anything", func(t *testing.T) {
		t.Parallel()

		// given
		c := cache.NullPackageCache{}
		require.NoError(t, c.Set(context.Background(), "a", entities.NewPackage("a", nil), time.Hour))

		// when
		_, ok := c.Get(context.Background(), "a")

		// then
		assert.False(t, ok)
		assert.Equal(t, "none", c.Name())
	})
}
