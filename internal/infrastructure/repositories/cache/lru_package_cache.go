package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const (
	memoryCacheName   = "memory"
	defaultMemorySize = 1024
	defaultMemoryTTL  = time.Hour
)

// LRUPackageCache keeps packages in process memory with a bounded size.
// Entries expire after the TTL given at construction.
type LRUPackageCache struct {
	entries *expirable.LRU[string, *entities.Package]
}

var _ repositories.PackageCache = (*LRUPackageCache)(nil)

// NewLRUPackageCache creates a cache holding at most size packages.
func NewLRUPackageCache(size int, ttl time.Duration) *LRUPackageCache {
	if size <= 0 {
		size = defaultMemorySize
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	return &LRUPackageCache{
		entries: expirable.NewLRU[string, *entities.Package](size, nil, ttl),
	}
}

func (c *LRUPackageCache) Name() string { return memoryCacheName }

func (c *LRUPackageCache) Get(_ context.Context, key string) (*entities.Package, bool) {
	return c.entries.Get(key)
}

// Set stores pkg. The per-call ttl is ignored in favour of the cache TTL.
func (c *LRUPackageCache) Set(_ context.Context, key string, pkg *entities.Package, _ time.Duration) error {
	c.entries.Add(key, pkg)
	return nil
}

// Len returns the number of live entries.
func (c *LRUPackageCache) Len() int {
	return c.entries.Len()
}
