package repositories

import (
	"fmt"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/requpdate/internal/domain/repositories"
	pypiRepo "github.com/rios0rios0/requpdate/internal/infrastructure/repositories/pypi"
)

// PackageRepositoryProvider builds PyPI repositories over the registered
// caches.
type PackageRepositoryProvider struct {
	caches *PackageCacheRegistry
}

var _ domainRepos.PackageRepositoryProvider = (*PackageRepositoryProvider)(nil)

// NewPackageRepositoryProvider creates a provider over caches.
func NewPackageRepositoryProvider(caches *PackageCacheRegistry) *PackageRepositoryProvider {
	return &PackageRepositoryProvider{caches: caches}
}

// Get returns a PyPI repository using the cache selected by settings.
func (p *PackageRepositoryProvider) Get(settings entities.CacheSettings) (domainRepos.PackageRepository, error) {
	cache, err := p.caches.Get(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build package cache: %w", err)
	}
	//nolint:exhaustruct // remaining options take their defaults
	return pypiRepo.NewPackageRepository(cache, pypiRepo.Options{CacheTTL: settings.TTL}), nil
}
