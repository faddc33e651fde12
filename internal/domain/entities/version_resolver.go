package entities

import (
	"sort"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// Spec is a single version constraint such as (">=", "1.0").
type Spec struct {
	Operator string
	Version  string
}

// String renders the constraint the way it appears in a requirement line.
func (s Spec) String() string {
	return s.Operator + s.Version
}

// joinSpecs renders specs as a comma separated specifier set.
func joinSpecs(specs []Spec) string {
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		parts = append(parts, spec.String())
	}
	return strings.Join(parts, ",")
}

// LatestVersionWithinSpecs returns the highest version satisfying every spec,
// or "" when no candidate qualifies. Pre-releases are only considered when
// prereleases is true, and even then an exclusive upper bound such as <2.0
// rejects pre-releases of 2.0 itself. Candidates that do not parse never match.
func LatestVersionWithinSpecs(specs []Spec, versions []string, prereleases bool) string {
	var constraint *pep440.Specifiers
	if len(specs) > 0 {
		parsed, err := pep440.NewSpecifiers(joinSpecs(specs))
		if err != nil {
			return ""
		}
		constraint = &parsed
	}

	type candidate struct {
		raw    string
		parsed pep440.Version
	}
	var candidates []candidate
	for _, raw := range versions {
		parsed, err := pep440.Parse(raw)
		if err != nil {
			continue
		}
		if !prereleases && parsed.IsPreRelease() {
			continue
		}
		if constraint != nil && !constraint.Check(parsed) {
			continue
		}
		candidates = append(candidates, candidate{raw: raw, parsed: parsed})
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].parsed.GreaterThan(candidates[j].parsed)
	})
	return candidates[0].raw
}

// CompareVersions compares two PEP 440 versions. The boolean is false when
// either side cannot be parsed, in which case the result is meaningless.
func CompareVersions(a, b string) (int, bool) {
	va, err := pep440.Parse(a)
	if err != nil {
		return 0, false
	}
	vb, err := pep440.Parse(b)
	if err != nil {
		return 0, false
	}
	return va.Compare(vb), true
}

// IsPreRelease reports whether v is an alpha, beta, candidate or dev release.
// Unparseable versions are not pre-releases.
func IsPreRelease(v string) bool {
	parsed, err := pep440.Parse(v)
	if err != nil {
		return false
	}
	return parsed.IsPreRelease()
}

// IsValidVersion reports whether v parses as a PEP 440 version.
func IsValidVersion(v string) bool {
	_, err := pep440.Parse(v)
	return err == nil
}

// sortVersionsDescending orders versions newest first; unparseable entries
// keep their relative order at the end.
func sortVersionsDescending(versions []string) []string {
	sorted := make([]string, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, errI := pep440.Parse(sorted[i])
		vj, errJ := pep440.Parse(sorted[j])
		switch {
		case errI != nil:
			return false
		case errJ != nil:
			return true
		default:
			return vi.GreaterThan(vj)
		}
	})
	return sorted
}
