package entities

// Package is the release history of a package as published by an index.
type Package struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"` // newest first
}

// NewPackage builds a Package, ordering versions by precedence.
func NewPackage(name string, versions []string) *Package {
	return &Package{
		Name:     name,
		Versions: sortVersionsDescending(versions),
	}
}

// LatestVersion returns the newest published version, skipping pre-releases
// unless prereleases is true. It returns "" when nothing qualifies.
func (p *Package) LatestVersion(prereleases bool) string {
	if p == nil {
		return ""
	}
	for _, v := range p.Versions {
		if !IsValidVersion(v) {
			continue
		}
		if prereleases || !IsPreRelease(v) {
			return v
		}
	}
	return ""
}

// PackageCatalog looks packages up by name on an index server. An empty
// indexServer means the default public index.
type PackageCatalog interface {
	FetchPackage(name, indexServer string) (*Package, error)
}

// PackageCatalogFunc adapts a function to PackageCatalog.
type PackageCatalogFunc func(name, indexServer string) (*Package, error)

// FetchPackage calls f(name, indexServer).
func (f PackageCatalogFunc) FetchPackage(name, indexServer string) (*Package, error) {
	return f(name, indexServer)
}
