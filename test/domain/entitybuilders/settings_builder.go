//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// SettingsBuilder helps create settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	settings entities.Settings
}

// NewSettingsBuilder starts from the default settings with caching off.
func NewSettingsBuilder() *SettingsBuilder {
	b := &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.settings = defaultTestSettings()
	return b
}

func defaultTestSettings() entities.Settings {
	settings := *entities.DefaultSettings()
	settings.Cache.Type = entities.CacheNone
	return settings
}

// WithUpdate sets the global update policy.
func (b *SettingsBuilder) WithUpdate(update string) *SettingsBuilder {
	b.settings.Update = update
	return b
}

// WithPin sets whether unpinned requirements are pinned.
func (b *SettingsBuilder) WithPin(pin bool) *SettingsBuilder {
	b.settings.Pin = pin
	return b
}

// WithSearch sets whether requirement files are discovered.
func (b *SettingsBuilder) WithSearch(search bool) *SettingsBuilder {
	b.settings.Search = search
	return b
}

// WithIndexURL sets the default index server.
func (b *SettingsBuilder) WithIndexURL(url string) *SettingsBuilder {
	b.settings.IndexURL = url
	return b
}

// WithChangelog sets whether CHANGELOG.md receives entries.
func (b *SettingsBuilder) WithChangelog(changelog bool) *SettingsBuilder {
	b.settings.Changelog = changelog
	return b
}

// WithRequirement adds a per-file override.
func (b *SettingsBuilder) WithRequirement(req entities.RequirementSettings) *SettingsBuilder {
	b.settings.Requirements = append(b.settings.Requirements, req)
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := b.settings
	settings.Requirements = append([]entities.RequirementSettings{}, b.settings.Requirements...)
	return &settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.settings = defaultTestSettings()
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	clone := &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		settings:    b.settings,
	}
	clone.settings.Requirements = append([]entities.RequirementSettings{}, b.settings.Requirements...)
	return clone
}
