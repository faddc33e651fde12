//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"time"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

// StubPackageRepository implements repositories.PackageRepository from a
// fixed set of release lists.
type StubPackageRepository struct {
	Versions map[string][]string // name -> versions
	FetchErr error
	// spy: lookups received
	Calls []FetchCall
}

// FetchCall records a single invocation of FetchPackage.
type FetchCall struct {
	Name        string
	IndexServer string
}

var _ repositories.PackageRepository = (*StubPackageRepository)(nil)

func (r *StubPackageRepository) FetchPackage(
	_ context.Context,
	name, indexServer string,
) (*entities.Package, error) {
	r.Calls = append(r.Calls, FetchCall{Name: name, IndexServer: indexServer})
	if r.FetchErr != nil {
		return nil, r.FetchErr
	}
	versions, ok := r.Versions[name]
	if !ok {
		return nil, fmt.Errorf("package not found: %s", name)
	}
	return entities.NewPackage(name, versions), nil
}

// StubPackageRepositoryProvider implements repositories.PackageRepositoryProvider.
type StubPackageRepositoryProvider struct {
	Repository repositories.PackageRepository
	GetErr     error
	// spy: cache settings received
	Settings []entities.CacheSettings
}

var _ repositories.PackageRepositoryProvider = (*StubPackageRepositoryProvider)(nil)

func (p *StubPackageRepositoryProvider) Get(
	settings entities.CacheSettings,
) (repositories.PackageRepository, error) {
	p.Settings = append(p.Settings, settings)
	if p.GetErr != nil {
		return nil, p.GetErr
	}
	return p.Repository, nil
}

// SpyPackageCache implements repositories.PackageCache with a plain map.
type SpyPackageCache struct {
	Entries map[string]*entities.Package
	SetErr  error
	// spy: keys looked up and stored
	GetKeys []string
	SetKeys []string
}

var _ repositories.PackageCache = (*SpyPackageCache)(nil)

func (c *SpyPackageCache) Name() string { return "spy" }

func (c *SpyPackageCache) Get(_ context.Context, key string) (*entities.Package, bool) {
	c.GetKeys = append(c.GetKeys, key)
	pkg, ok := c.Entries[key]
	return pkg, ok
}

func (c *SpyPackageCache) Set(_ context.Context, key string, pkg *entities.Package, _ time.Duration) error {
	c.SetKeys = append(c.SetKeys, key)
	if c.SetErr != nil {
		return c.SetErr
	}
	if c.Entries == nil {
		c.Entries = make(map[string]*entities.Package)
	}
	c.Entries[key] = pkg
	return nil
}
