package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/requpdate/internal/domain/repositories"
	cacheRepo "github.com/rios0rios0/requpdate/internal/infrastructure/repositories/cache"
	fsRepo "github.com/rios0rios0/requpdate/internal/infrastructure/repositories/filesystem"
	gitRepo "github.com/rios0rios0/requpdate/internal/infrastructure/repositories/git"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewDefaultFileRepositoryRegistry); err != nil {
		return err
	}
	if err := container.Provide(NewDefaultPackageCacheRegistry); err != nil {
		return err
	}
	if err := container.Provide(NewPackageRepositoryProvider); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *FileRepositoryRegistry) domainRepos.FileRepositoryOpener {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *PackageRepositoryProvider) domainRepos.PackageRepositoryProvider {
		return impl
	}); err != nil {
		return err
	}
	return nil
}

// NewDefaultFileRepositoryRegistry registers the filesystem and git backends.
func NewDefaultFileRepositoryRegistry() *FileRepositoryRegistry {
	reg := NewFileRepositoryRegistry()
	reg.Register(FileRepositoryFilesystem, func(root, _ string) (domainRepos.FileRepository, error) {
		return fsRepo.NewFileRepository(root), nil
	})
	reg.Register(FileRepositoryGit, func(root, revision string) (domainRepos.FileRepository, error) {
		return gitRepo.NewFileRepository(root, revision)
	})
	return reg
}

// NewDefaultPackageCacheRegistry registers the memory, redis and null caches.
func NewDefaultPackageCacheRegistry() *PackageCacheRegistry {
	reg := NewPackageCacheRegistry()
	reg.Register(entities.CacheMemory, func(settings entities.CacheSettings) domainRepos.PackageCache {
		return cacheRepo.NewLRUPackageCache(settings.Size, settings.TTL)
	})
	reg.Register(entities.CacheRedis, func(settings entities.CacheSettings) domainRepos.PackageCache {
		return cacheRepo.NewRedisPackageCache(settings)
	})
	reg.Register(entities.CacheNone, func(entities.CacheSettings) domainRepos.PackageCache {
		return cacheRepo.NullPackageCache{}
	})
	return reg
}
