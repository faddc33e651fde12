package cache

import (
	"context"
	"time"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

// NullPackageCache never stores anything.
type NullPackageCache struct{}

var _ repositories.PackageCache = NullPackageCache{}

func (NullPackageCache) Name() string { return "none" }

func (NullPackageCache) Get(context.Context, string) (*entities.Package, bool) { return nil, false }

func (NullPackageCache) Set(context.Context, string, *entities.Package, time.Duration) error {
	return nil
}
