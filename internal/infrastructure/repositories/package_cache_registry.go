package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/requpdate/internal/domain/repositories"
)

// PackageCacheFactory builds a cache from the cache settings.
type PackageCacheFactory func(settings entities.CacheSettings) domainRepos.PackageCache

// PackageCacheRegistry manages the registered cache backends.
type PackageCacheRegistry struct {
	factories map[string]PackageCacheFactory
}

// NewPackageCacheRegistry creates an empty registry.
func NewPackageCacheRegistry() *PackageCacheRegistry {
	return &PackageCacheRegistry{
		factories: make(map[string]PackageCacheFactory),
	}
}

// Register adds a factory under the cache type it serves.
func (r *PackageCacheRegistry) Register(cacheType string, factory PackageCacheFactory) {
	r.factories[cacheType] = factory
}

// Get builds the cache selected by settings.Type. An empty type selects
// the in-memory cache.
func (r *PackageCacheRegistry) Get(settings entities.CacheSettings) (domainRepos.PackageCache, error) {
	cacheType := settings.Type
	if cacheType == "" {
		cacheType = entities.CacheMemory
	}
	factory, ok := r.factories[cacheType]
	if !ok {
		return nil, fmt.Errorf("unknown cache type: %q", cacheType)
	}
	return factory(settings), nil
}

// Names returns the registered cache types, sorted.
func (r *PackageCacheRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
