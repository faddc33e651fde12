package entities

import (
	"fmt"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const (
	legacyFilterMarker = "rq.filter:"
	filterMarker       = "pyup:"
)

// Requirement is one package constraint declared on a line of a requirement
// file. Package data is fetched from the catalog on first use and kept for
// the lifetime of the instance.
type Requirement struct {
	Name        string // declared name in safe form, case preserved
	Key         string // lower-cased Name
	Specs       []Spec
	Extras      []string
	Marker      string
	URL         string
	Line        string // source line, stripped
	Lineno      int    // 1-based
	IndexServer string // "" means the default index

	// PullRequest is set by the update orchestration once a change for this
	// requirement has been proposed.
	PullRequest *PullRequest

	comparator string
	catalog    PackageCatalog
	resolved   bool
	pkg        *Package
}

// ParseRequirement parses a single requirement line. The catalog is used
// lazily when version information is requested and may be nil for callers
// that only need the syntax.
func ParseRequirement(line string, lineno int, indexServer string, catalog PackageCatalog) (*Requirement, error) {
	decl, err := parseDeclaration(line)
	if err != nil {
		return nil, err
	}

	name := safeName(decl.name)
	return &Requirement{
		Name:        name,
		Key:         strings.ToLower(name),
		Specs:       decl.specs,
		Extras:      decl.extras,
		Marker:      decl.marker,
		URL:         decl.url,
		Line:        line,
		Lineno:      lineno,
		IndexServer: indexServer,
		comparator:  decl.comparator(),
		catalog:     catalog,
	}, nil
}

// Equal reports whether both requirements were parsed from equivalent
// declarations.
func (r *Requirement) Equal(other *Requirement) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.comparator == other.comparator
}

func (r *Requirement) String() string {
	return fmt.Sprintf("Requirement.parse(%s, %d)", r.Line, r.Lineno)
}

// IsPinned reports an exact "==" constraint and nothing else.
func (r *Requirement) IsPinned() bool {
	return len(r.Specs) == 1 && r.Specs[0].Operator == "=="
}

// IsRanged reports any constraint that is not a pin.
func (r *Requirement) IsRanged() bool {
	return len(r.Specs) >= 1 && !r.IsPinned()
}

// IsLoose reports a requirement without any version constraint.
func (r *Requirement) IsLoose() bool {
	return len(r.Specs) == 0
}

// Filter returns the specs of an inline "# pyup: <spec>" (or legacy
// "# rq.filter: <spec>") override, or nil when there is none.
func (r *Requirement) Filter() []Spec {
	var raw string
	switch {
	case strings.Contains(r.Line, legacyFilterMarker):
		raw = strings.SplitN(r.Line, legacyFilterMarker, 2)[1]
	case strings.Contains(r.Line, filterMarker):
		raw = strings.SplitN(r.Line, filterMarker, 2)[1]
	default:
		return nil
	}

	token := strings.SplitN(strings.TrimSpace(raw), " ", 2)[0]
	if token == "" {
		return nil
	}
	decl, err := parseDeclaration("filter " + token)
	if err != nil || len(decl.specs) == 0 {
		return nil
	}
	return decl.specs
}

// Prereleases is true when the requirement pins a pre-release, in which case
// newer pre-releases are acceptable update targets.
func (r *Requirement) Prereleases() bool {
	return r.IsPinned() && IsPreRelease(r.Specs[0].Version)
}

// Version returns the version currently in effect: the pinned version, or
// the newest published version allowed by the specs and filter.
func (r *Requirement) Version() string {
	if r.IsPinned() {
		return r.Specs[0].Version
	}

	specs := make([]Spec, 0, len(r.Specs))
	specs = append(specs, r.Specs...)
	specs = append(specs, r.Filter()...)
	return LatestVersionWithinSpecs(specs, r.Package().Versions, r.Prereleases())
}

// LatestVersion returns the newest published version regardless of specs.
func (r *Requirement) LatestVersion() string {
	return r.Package().LatestVersion(r.Prereleases())
}

// LatestVersionWithinSpecs returns the newest version allowed by the inline
// filter, or LatestVersion when there is no filter.
func (r *Requirement) LatestVersionWithinSpecs() string {
	if filter := r.Filter(); len(filter) > 0 {
		return LatestVersionWithinSpecs(filter, r.Package().Versions, r.Prereleases())
	}
	return r.LatestVersion()
}

// IsOutdated reports whether Version is strictly older than
// LatestVersionWithinSpecs. Unknown versions are never outdated.
func (r *Requirement) IsOutdated() bool {
	current := r.Version()
	latest := r.LatestVersionWithinSpecs()
	if current == "" || latest == "" {
		return false
	}
	cmp, ok := CompareVersions(current, latest)
	return ok && cmp < 0
}

// NeedsUpdate is always true for loose requirements, which are eligible for
// an initial pin; otherwise it follows IsOutdated.
func (r *Requirement) NeedsUpdate() bool {
	if r.IsPinned() || r.IsRanged() {
		return r.IsOutdated()
	}
	return true
}

// UpdateKind classifies the move from Version to LatestVersionWithinSpecs.
func (r *Requirement) UpdateKind() UpdateKind {
	return ClassifyUpdate(r.Version(), r.LatestVersionWithinSpecs())
}

// UpdateContent rewrites every full line of content equal to Line into
// "<name>==<latest>" followed by the original trailing comment. Content is
// returned untouched when the line is absent, no target version exists or
// the requirement is a direct URL reference.
func (r *Requirement) UpdateContent(content string) string {
	if r.URL != "" {
		return content
	}
	target := r.LatestVersionWithinSpecs()
	if target == "" {
		return content
	}

	replacement := r.Name + "==" + target + trailingComment(r.Line)
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(r.Line) + `\r?$`)
	return pattern.ReplaceAllStringFunc(content, func(match string) string {
		if strings.HasSuffix(match, "\r") {
			return replacement + "\r"
		}
		return replacement
	})
}

// trailingComment returns the comment of a line together with the
// whitespace in front of it. A comment starts at the first "#" preceded by
// a space or tab, so URL fragments stay part of the declaration.
func trailingComment(line string) string {
	idx := strings.Index(strings.ReplaceAll(line, "\t#", " #"), " #")
	if idx < 0 {
		return ""
	}
	start := idx
	for start > 0 && (line[start-1] == ' ' || line[start-1] == '\t') {
		start--
	}
	return line[start:]
}

// Package returns the catalog entry for this requirement, fetching it once.
func (r *Requirement) Package() *Package {
	r.ensureResolved()
	if r.pkg == nil {
		return &Package{Name: r.Name}
	}
	return r.pkg
}

func (r *Requirement) ensureResolved() {
	if r.resolved {
		return
	}
	r.resolved = true
	if r.catalog == nil {
		return
	}

	pkg, err := r.catalog.FetchPackage(r.Name, r.IndexServer)
	if err != nil {
		logger.Warnf("Failed to fetch package %q: %v", r.Name, err)
		return
	}
	r.pkg = pkg
}
