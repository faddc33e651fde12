//go:build integration || unit || test

package entitydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// SpyPackageCatalog implements entities.PackageCatalog from a fixed set of
// packages and records every lookup.
type SpyPackageCatalog struct {
	// --- FetchPackage ---
	Packages map[string]*entities.Package // name -> package
	FetchErr error
	// spy: lookups received
	Calls []FetchCall
}

// FetchCall records a single invocation of FetchPackage.
type FetchCall struct {
	Name        string
	IndexServer string
}

var _ entities.PackageCatalog = (*SpyPackageCatalog)(nil)

// NewSpyPackageCatalog creates a catalog serving the given versions per name.
func NewSpyPackageCatalog(versions map[string][]string) *SpyPackageCatalog {
	packages := make(map[string]*entities.Package, len(versions))
	for name, list := range versions {
		packages[name] = entities.NewPackage(name, list)
	}
	return &SpyPackageCatalog{Packages: packages}
}

func (c *SpyPackageCatalog) FetchPackage(name, indexServer string) (*entities.Package, error) {
	c.Calls = append(c.Calls, FetchCall{Name: name, IndexServer: indexServer})
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	if pkg, ok := c.Packages[name]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("package not found: %s", name)
}

// CallCount returns the number of lookups of name.
func (c *SpyPackageCatalog) CallCount(name string) int {
	count := 0
	for _, call := range c.Calls {
		if call.Name == name {
			count++
		}
	}
	return count
}
