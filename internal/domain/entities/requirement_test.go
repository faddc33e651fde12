//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/test/domain/entitydoubles"
)

func TestParseRequirement(t *testing.T) {
	t.Parallel()

	t.Run("should parse a pinned declaration", func(t *testing.T) {
		t.Parallel()

		// given
		line := "Django==1.11"

		// when
		req, err := entities.ParseRequirement(line, 3, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Django", req.Name)
		assert.Equal(t, "django", req.Key)
		assert.Equal(t, []entities.Spec{{Operator: "==", Version: "1.11"}}, req.Specs)
		assert.Equal(t, line, req.Line)
		assert.Equal(t, 3, req.Lineno)
		assert.True(t, req.IsPinned())
		assert.False(t, req.IsRanged())
		assert.False(t, req.IsLoose())
	})

	t.Run("should parse extras, ranges and markers", func(t *testing.T) {
		t.Parallel()

		// given
		line := `requests[socks,security]>=2.0,<3.0; python_version >= "3.8"`

		// when
		req, err := entities.ParseRequirement(line, 1, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "requests", req.Name)
		assert.Equal(t, []string{"socks", "security"}, req.Extras)
		assert.Equal(t, `python_version >= "3.8"`, req.Marker)
		assert.Len(t, req.Specs, 2)
		assert.True(t, req.IsRanged())
	})

	t.Run("should normalise unsafe characters in names", func(t *testing.T) {
		t.Parallel()

		// given, when
		req, err := entities.ParseRequirement("zope_interface==4.0", 1, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "zope-interface", req.Name)
	})

	t.Run("should parse a direct URL reference", func(t *testing.T) {
		t.Parallel()

		// given, when
		req, err := entities.ParseRequirement("pip @ https://example.com/pip-1.0.zip", 1, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/pip-1.0.zip", req.URL)
		assert.True(t, req.IsLoose())
	})

	t.Run("should reject a line without a package name", func(t *testing.T) {
		t.Parallel()

		// given, when
		_, err := entities.ParseRequirement("==1.0", 1, "", nil)

		// then
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrInvalidRequirement))
	})

	t.Run("should reject a malformed specifier", func(t *testing.T) {
		t.Parallel()

		// given, when
		_, err := entities.ParseRequirement("django=>1.0", 1, "", nil)

		// then
		assert.ErrorIs(t, err, entities.ErrInvalidRequirement)
	})

	t.Run("should reject a compatible release with a single segment", func(t *testing.T) {
		t.Parallel()

		// given, when
		_, err := entities.ParseRequirement("pkg~=1", 1, "", nil)

		// then
		assert.ErrorIs(t, err, entities.ErrInvalidRequirement)
	})

	t.Run("should accept a compatible release with two segments", func(t *testing.T) {
		t.Parallel()

		// given, when
		req, err := entities.ParseRequirement("pkg~=1.4", 1, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.Spec{{Operator: "~=", Version: "1.4"}}, req.Specs)
	})

	t.Run("should keep a URL fragment out of the comment", func(t *testing.T) {
		t.Parallel()

		// given, when
		req, err := entities.ParseRequirement("pkg @ https://example.com/pkg-1.0.tar.gz#sha256=abc", 1, "", nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/pkg-1.0.tar.gz#sha256=abc", req.URL)
	})

	t.Run("should render like the declaration it came from", func(t *testing.T) {
		t.Parallel()

		// given
		req, err := entities.ParseRequirement("Django==1.11", 3, "", nil)
		require.NoError(t, err)

		// when
		text := req.String()

		// then
		assert.Equal(t, "Requirement.parse(Django==1.11, 3)", text)
	})
}

func TestRequirement_Equal(t *testing.T) {
	t.Parallel()

	t.Run("should ignore line number, index server, case and spec order", func(t *testing.T) {
		t.Parallel()

		// given
		first, err := entities.ParseRequirement("Django>=1.0,<2.0", 1, "", nil)
		require.NoError(t, err)
		second, err := entities.ParseRequirement("django <2.0, >=1.0", 9, "https://example.com/simple/", nil)
		require.NoError(t, err)

		// when
		equal := first.Equal(second)

		// then
		assert.True(t, equal)
		assert.True(t, second.Equal(first))
	})

	t.Run("should tell different pins apart", func(t *testing.T) {
		t.Parallel()

		// given
		first, err := entities.ParseRequirement("Django==1.11", 1, "", nil)
		require.NoError(t, err)
		second, err := entities.ParseRequirement("Django==1.12", 1, "", nil)
		require.NoError(t, err)

		// when, then
		assert.False(t, first.Equal(second))
	})
}

func TestRequirement_Filter(t *testing.T) {
	t.Parallel()

	t.Run("should read the current marker", func(t *testing.T) {
		t.Parallel()

		// given
		req, err := entities.ParseRequirement("django==1.11  # pyup: <2.0,>=1.11", 1, "", nil)
		require.NoError(t, err)

		// when
		filter := req.Filter()

		// then
		assert.Equal(t, []entities.Spec{{Operator: "<", Version: "2.0"}, {Operator: ">=", Version: "1.11"}}, filter)
	})

	t.Run("should read the legacy marker", func(t *testing.T) {
		t.Parallel()

		// given
		req, err := entities.ParseRequirement("django==1.11 # rq.filter: <2.0", 1, "", nil)
		require.NoError(t, err)

		// when
		filter := req.Filter()

		// then
		assert.Equal(t, []entities.Spec{{Operator: "<", Version: "2.0"}}, filter)
	})

	t.Run("should treat malformed filter text as absent", func(t *testing.T) {
		t.Parallel()

		// given
		req, err := entities.ParseRequirement("django==1.11 # pyup: whatever", 1, "", nil)
		require.NoError(t, err)

		// when, then
		assert.Nil(t, req.Filter())
	})
}

func TestRequirement_Versions(t *testing.T) {
	t.Parallel()

	t.Run("should report the pin as the current version", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"django": {"1.11", "2.0"}})
		req, err := entities.ParseRequirement("django==1.11", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.Equal(t, "1.11", req.Version())
		assert.Equal(t, "2.0", req.LatestVersion())
		assert.Equal(t, "2.0", req.LatestVersionWithinSpecs())
		assert.True(t, req.IsOutdated())
		assert.True(t, req.NeedsUpdate())
		assert.Equal(t, entities.UpdateKindMajor, req.UpdateKind())
	})

	t.Run("should resolve the current version of a range", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"requests": {"2.0", "2.9", "3.1"}})
		req, err := entities.ParseRequirement("requests>=2.0,<3.0", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.Equal(t, "2.9", req.Version())
		assert.Equal(t, "3.1", req.LatestVersionWithinSpecs())
		assert.True(t, req.NeedsUpdate())
	})

	t.Run("should cap the update target with the filter", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"django": {"1.11", "1.11.5", "2.0"}})
		req, err := entities.ParseRequirement("django==1.11  # pyup: <2.0", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.Equal(t, "1.11.5", req.LatestVersionWithinSpecs())
		assert.Equal(t, entities.UpdateKindPatch, req.UpdateKind())
	})

	t.Run("should not mutate specs when a filter applies", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"django": {"1.11", "1.12"}})
		req, err := entities.ParseRequirement("django>=1.0 # pyup: <1.12", 1, "", catalog)
		require.NoError(t, err)

		// when
		_ = req.Version()
		_ = req.Version()

		// then
		assert.Equal(t, []entities.Spec{{Operator: ">=", Version: "1.0"}}, req.Specs)
		assert.Equal(t, "1.11", req.Version())
	})

	t.Run("should move a pinned pre-release to the next pre-release", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"pkg": {"0.9", "1.0b1", "1.0b2"}})
		req, err := entities.ParseRequirement("pkg==1.0b1", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.True(t, req.Prereleases())
		assert.Equal(t, "1.0b2", req.LatestVersionWithinSpecs())
		assert.True(t, req.NeedsUpdate())
	})

	t.Run("should not move a pinned pre-release past an exclusive filter bound", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"pkg": {"1.0b1", "1.0", "2.0a1"}})
		req, err := entities.ParseRequirement("pkg==1.0b1  # pyup: <2.0", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.True(t, req.Prereleases())
		assert.Equal(t, "1.0", req.LatestVersionWithinSpecs())
	})

	t.Run("should skip pre-releases for stable pins", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"pkg": {"1.0", "1.1rc1"}})
		req, err := entities.ParseRequirement("pkg==1.0", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.False(t, req.Prereleases())
		assert.Equal(t, "1.0", req.LatestVersion())
		assert.False(t, req.NeedsUpdate())
	})

	t.Run("should always need an update when loose", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"flask": {"1.0"}})
		req, err := entities.ParseRequirement("flask", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.True(t, req.IsLoose())
		assert.Equal(t, "1.0", req.Version())
		assert.False(t, req.IsOutdated())
		assert.True(t, req.NeedsUpdate())
	})

	t.Run("should fetch the package once per requirement", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"django": {"1.11", "2.0"}})
		req, err := entities.ParseRequirement("django==1.11", 1, "https://example.com/simple/", catalog)
		require.NoError(t, err)

		// when
		_ = req.Version()
		_ = req.LatestVersion()
		_ = req.NeedsUpdate()
		_ = req.Package()

		// then
		require.Len(t, catalog.Calls, 1)
		assert.Equal(t, "https://example.com/simple/", catalog.Calls[0].IndexServer)
	})

	t.Run("should report unknown versions when the catalog fails", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := &entitydoubles.SpyPackageCatalog{FetchErr: errors.New("index unreachable")}
		req, err := entities.ParseRequirement("requests>=2.0", 1, "", catalog)
		require.NoError(t, err)

		// when, then
		assert.Empty(t, req.Version())
		assert.Empty(t, req.LatestVersion())
		assert.False(t, req.IsOutdated())
		assert.Equal(t, "requests", req.Package().Name)
		assert.Len(t, catalog.Calls, 1)
	})
}

func TestRequirement_UpdateContent(t *testing.T) {
	t.Parallel()

	newRequirement := func(t *testing.T, line string, versions ...string) *entities.Requirement {
		t.Helper()
		catalog := entitydoubles.NewSpyPackageCatalog(map[string][]string{"package": versions})
		req, err := entities.ParseRequirement(line, 1, "", catalog)
		require.NoError(t, err)
		return req
	}

	t.Run("should pin the line to the latest version", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0", "1.0.0", "1.2.0")
		content := "other==2.0\npackage==1.0.0\n"

		// when
		updated := req.UpdateContent(content)

		// then
		assert.Equal(t, "other==2.0\npackage==1.2.0\n", updated)
	})

	t.Run("should keep a trailing comment", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0  # comment", "1.0.0", "1.2.0")

		// when
		updated := req.UpdateContent("package==1.0.0  # comment")

		// then
		assert.Equal(t, "package==1.2.0  # comment", updated)
	})

	t.Run("should leave a direct URL reference untouched", func(t *testing.T) {
		t.Parallel()

		// given
		line := "package @ https://example.com/package-1.0.tar.gz#sha256=abc"
		req := newRequirement(t, line, "1.0", "1.2.0")
		content := line + "\n"

		// when
		updated := req.UpdateContent(content)

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should keep a comment introduced by a tab", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0\t# comment", "1.0.0", "1.2.0")

		// when
		updated := req.UpdateContent("package==1.0.0\t# comment")

		// then
		assert.Equal(t, "package==1.2.0\t# comment", updated)
	})

	t.Run("should only replace full-line matches", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package", "1.0")
		content := "my-package\npackage\npackage[extra]\n"

		// when
		updated := req.UpdateContent(content)

		// then
		assert.Equal(t, "my-package\npackage==1.0\npackage[extra]\n", updated)
	})

	t.Run("should preserve CRLF line endings", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0", "1.0.0", "1.2.0")

		// when
		updated := req.UpdateContent("package==1.0.0\r\nother\r\n")

		// then
		assert.Equal(t, "package==1.2.0\r\nother\r\n", updated)
	})

	t.Run("should leave content untouched when the line is missing", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0", "1.0.0", "1.2.0")
		content := "package==0.9\n"

		// when
		updated := req.UpdateContent(content)

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should leave content untouched without a target version", func(t *testing.T) {
		t.Parallel()

		// given
		req := newRequirement(t, "package==1.0.0")
		content := "package==1.0.0\n"

		// when
		updated := req.UpdateContent(content)

		// then
		assert.Equal(t, content, updated)
	})
}
