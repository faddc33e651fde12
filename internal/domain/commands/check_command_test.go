//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/requpdate/internal/domain/commands"
	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/test/domain/entitybuilders"
	"github.com/rios0rios0/requpdate/test/infrastructure/repositorydoubles"
)

// fixture wires an in-memory checkout and package index into the commands.
type fixture struct {
	files    *repositorydoubles.SpyFileRepository
	packages *repositorydoubles.StubPackageRepository
	opener   *repositorydoubles.StubFileRepositoryOpener
	provider *repositorydoubles.StubPackageRepositoryProvider
}

func newFixture(files map[string]string, versions map[string][]string) *fixture {
	f := &fixture{
		files:    repositorydoubles.NewSpyFileRepository(files),
		packages: &repositorydoubles.StubPackageRepository{Versions: versions},
	}
	f.opener = &repositorydoubles.StubFileRepositoryOpener{Repository: f.files}
	f.provider = &repositorydoubles.StubPackageRepositoryProvider{Repository: f.packages}
	return f
}

func (f *fixture) checkCommand() *commands.CheckCommand {
	return commands.NewCheckCommand(f.opener, f.provider, entities.DefaultUpdateStrategies())
}

func TestCheckCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should report every requirement of discovered and included files", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{
			"requirements.txt":      "-r requirements/base.txt\nDjango==1.11\nrequests>=2.0,<3.0\nflask\n",
			"requirements/base.txt": "six==1.0\n",
		}, map[string][]string{
			"Django":   {"1.11", "2.0"},
			"requests": {"2.0", "2.5", "3.0"},
			"flask":    {"1.0"},
			"six":      {"1.0"},
		})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		report, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{RepoDir: "/repo"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requirements.txt", "requirements/base.txt"}, report.Files)
		require.Len(t, report.Requirements, 4)

		django := report.Requirements[0]
		assert.Equal(t, "Django", django.Name)
		assert.Equal(t, 2, django.Line)
		assert.Equal(t, "pinned", django.Classification)
		assert.Equal(t, "1.11", django.Current)
		assert.Equal(t, "2.0", django.LatestWithinSpecs)
		assert.True(t, django.NeedsUpdate)
		assert.Equal(t, entities.UpdateKindMajor, django.UpdateKind)

		requests := report.Requirements[1]
		assert.Equal(t, "ranged", requests.Classification)
		assert.Equal(t, "2.5", requests.Current)
		assert.Equal(t, "3.0", requests.Latest)

		flask := report.Requirements[2]
		assert.Equal(t, "loose", flask.Classification)
		assert.True(t, flask.NeedsUpdate)

		six := report.Requirements[3]
		assert.Equal(t, "requirements/base.txt", six.File)
		assert.False(t, six.NeedsUpdate)

		assert.Len(t, report.Outdated(), 3)
		assert.Equal(t, []string{"/repo"}, f.opener.Roots)
	})

	t.Run("should skip missing explicit files", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{"requirements.txt": "six==1.0\n"}, map[string][]string{"six": {"1.0"}})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		report, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{
			Paths: []string{"missing.txt", "./requirements.txt", "requirements.txt"},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requirements.txt"}, report.Files)
		assert.Equal(t, []string{"missing.txt", "requirements.txt"}, f.files.ReadPaths)
	})

	t.Run("should only read requirements.txt when search is off", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{
			"requirements.txt":     "six==1.0\n",
			"requirements-dev.txt": "flask==1.0\n",
		}, map[string][]string{"six": {"1.0"}, "flask": {"1.0"}})
		settings := entitybuilders.NewSettingsBuilder().WithSearch(false).BuildSettings()

		// when
		report, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requirements.txt"}, report.Files)
	})

	t.Run("should skip ignored files", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{
			"requirements.txt":     "# pyup: ignore file\nsix==1.0\n",
			"requirements-dev.txt": "flask==1.0\n",
		}, map[string][]string{"six": {"1.0"}, "flask": {"1.0"}})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		report, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"requirements-dev.txt"}, report.Files)
	})

	t.Run("should query the configured index unless a file names its own", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{
			"requirements.txt": "six==1.0\n-i https://private.example.com/simple\nprivate==1.0\n",
		}, map[string][]string{"six": {"1.0"}, "private": {"1.0"}})
		settings := entitybuilders.NewSettingsBuilder().
			WithIndexURL("https://mirror.example.com/simple/").
			BuildSettings()

		// when
		_, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, f.packages.Calls, 2)
		assert.Equal(t, "https://mirror.example.com/simple/", f.packages.Calls[0].IndexServer)
		assert.Equal(t, "https://private.example.com/simple/", f.packages.Calls[1].IndexServer)
		assert.Equal(t, []entities.CacheSettings{settings.Cache}, f.provider.Settings)
	})

	t.Run("should pass the revision to the opener", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(map[string]string{"requirements.txt": "six==1.0\n"}, map[string][]string{"six": {"1.0"}})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		_, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{Revision: "main"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, f.opener.Revisions)
	})

	t.Run("should fail when the checkout cannot be opened", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(nil, nil)
		f.opener.OpenErr = errors.New("not a repository")
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		_, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{RepoDir: "/repo"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a repository")
	})

	t.Run("should fail when the package repository cannot be built", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(nil, nil)
		f.provider.GetErr = errors.New("bad cache")
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		_, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{})

		// then
		require.EqualError(t, err, "bad cache")
	})

	t.Run("should fail when discovery fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(nil, nil)
		f.files.FindErr = errors.New("walk failed")
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()

		// when
		_, err := f.checkCommand().Execute(context.Background(), settings, commands.CheckOptions{})

		// then
		require.EqualError(t, err, "walk failed")
	})
}

func TestShortSHA(t *testing.T) {
	t.Parallel()

	t.Run("should keep the first seven characters", func(t *testing.T) {
		t.Parallel()

		// when, then
		assert.Equal(t, "e69de29", commands.ShortSHA("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"))
		assert.Equal(t, "abc", commands.ShortSHA("abc"))
	})
}
