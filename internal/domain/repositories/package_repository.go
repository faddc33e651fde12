package repositories

import (
	"context"
	"time"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// PackageRepository abstracts a Python package index (PyPI or a PEP 503
// simple index). An empty indexServer selects the default index.
type PackageRepository interface {
	FetchPackage(ctx context.Context, name, indexServer string) (*entities.Package, error)
}

// PackageCache keeps fetched packages between lookups, optionally shared
// across processes.
type PackageCache interface {
	// Name returns the cache identifier (e.g. "memory", "redis").
	Name() string

	// Get returns the cached package and whether it was found.
	Get(ctx context.Context, key string) (*entities.Package, bool)

	// Set stores pkg under key for at most ttl. A zero ttl keeps the
	// backend default.
	Set(ctx context.Context, key string, pkg *entities.Package, ttl time.Duration) error
}

// PackageRepositoryProvider builds a package repository backed by the
// cache the settings select.
type PackageRepositoryProvider interface {
	Get(settings entities.CacheSettings) (PackageRepository, error)
}
