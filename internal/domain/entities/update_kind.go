package entities

import (
	"regexp"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"golang.org/x/mod/semver"
)

var releaseSegmentPattern = regexp.MustCompile(`^[vV]?(\d+(?:\.\d+)*)`)

// UpdateKind describes how far an update moves a requirement.
type UpdateKind string

const (
	UpdateKindMajor   UpdateKind = "major"
	UpdateKindMinor   UpdateKind = "minor"
	UpdateKindPatch   UpdateKind = "patch"
	UpdateKindUnknown UpdateKind = "unknown"
)

// ClassifyUpdate compares the release segments of two versions. Versions
// that cannot be mapped onto MAJOR.MINOR.PATCH, or that do not move forward,
// are UpdateKindUnknown.
func ClassifyUpdate(current, latest string) UpdateKind {
	currentNorm, ok := semverOf(current)
	if !ok {
		return UpdateKindUnknown
	}
	latestNorm, ok := semverOf(latest)
	if !ok || semver.Compare(latestNorm, currentNorm) <= 0 {
		return UpdateKindUnknown
	}

	if semver.Major(currentNorm) != semver.Major(latestNorm) {
		return UpdateKindMajor
	}
	if semver.MajorMinor(currentNorm) != semver.MajorMinor(latestNorm) {
		return UpdateKindMinor
	}
	return UpdateKindPatch
}

// semverOf maps the release segment of a PEP 440 version onto a canonical
// "vMAJOR.MINOR.PATCH" string. Epochs and fourth segments are not mapped.
func semverOf(v string) (string, bool) {
	if _, err := pep440.Parse(v); err != nil || strings.Contains(v, "!") {
		return "", false
	}
	match := releaseSegmentPattern.FindStringSubmatch(strings.TrimSpace(v))
	if match == nil {
		return "", false
	}

	release := strings.Split(match[1], ".")
	if len(release) > 3 {
		return "", false
	}
	for len(release) < 3 {
		release = append(release, "0")
	}

	norm := "v" + strings.Join(release, ".")
	if !semver.IsValid(norm) {
		return "", false
	}
	return norm, true
}
