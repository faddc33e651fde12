//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// RequirementFileBuilder helps create requirement files with a fluent interface.
type RequirementFileBuilder struct {
	*testkit.BaseBuilder
	path    string
	lines   []string
	sha     string
	catalog entities.PackageCatalog
}

// NewRequirementFileBuilder creates a new builder with sensible defaults.
func NewRequirementFileBuilder() *RequirementFileBuilder {
	return &RequirementFileBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		path:        "requirements.txt",
		sha:         "abc123",
	}
}

// WithPath sets the file path.
func (b *RequirementFileBuilder) WithPath(path string) *RequirementFileBuilder {
	b.path = path
	return b
}

// WithLines appends content lines.
func (b *RequirementFileBuilder) WithLines(lines ...string) *RequirementFileBuilder {
	b.lines = append(b.lines, lines...)
	return b
}

// WithSHA sets the revision marker.
func (b *RequirementFileBuilder) WithSHA(sha string) *RequirementFileBuilder {
	b.sha = sha
	return b
}

// WithCatalog sets the catalog used to resolve versions.
func (b *RequirementFileBuilder) WithCatalog(catalog entities.PackageCatalog) *RequirementFileBuilder {
	b.catalog = catalog
	return b
}

// Build creates the file (satisfies testkit.Builder interface).
func (b *RequirementFileBuilder) Build() interface{} {
	return b.BuildRequirementFile()
}

// BuildRequirementFile creates the file with a concrete return type.
func (b *RequirementFileBuilder) BuildRequirementFile() *entities.RequirementFile {
	return entities.NewRequirementFile(b.path, strings.Join(b.lines, "\n"), b.sha, b.catalog)
}

// Reset clears the builder state, allowing it to be reused.
func (b *RequirementFileBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = "requirements.txt"
	b.lines = nil
	b.sha = "abc123"
	b.catalog = nil
	return b
}

// Clone creates a deep copy of the RequirementFileBuilder.
func (b *RequirementFileBuilder) Clone() testkit.Builder {
	return &RequirementFileBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:        b.path,
		lines:       append([]string{}, b.lines...),
		sha:         b.sha,
		catalog:     b.catalog,
	}
}
