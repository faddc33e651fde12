package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releaseHeading    = "## ["
	bulletPrefix      = "- "
)

// ChangelogEntries returns one Keep-a-Changelog bullet per updated package,
// in update order.
func ChangelogEntries(updates []Update) []string {
	seen := make(map[string]bool)
	var entries []string
	for _, update := range updates {
		for _, change := range update.Changes {
			key := change.Requirement.Key + "@" + change.Target
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, fmt.Sprintf(
				"- changed the `%s` dependency to `%s`", change.Requirement.Name, change.Target,
			))
		}
	}
	return entries
}

// InsertChangelogEntries adds entries to the "### Changed" list of the
// "## [Unreleased]" section, creating the list when missing. Content without
// an Unreleased section is returned unchanged.
func InsertChangelogEntries(content string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	section := sectionBounds(lines)
	if section.start < 0 {
		return content
	}

	var insertAt int
	var block []string
	if section.changed >= 0 {
		insertAt = lastBulletAfter(lines, section.changed, section.end) + 1
		block = entries
	} else {
		insertAt = section.start + 1
		block = append([]string{"", changedHeading, ""}, entries...)
	}

	result := make([]string, 0, len(lines)+len(block))
	result = append(result, lines[:insertAt]...)
	result = append(result, block...)
	result = append(result, lines[insertAt:]...)
	return strings.Join(result, "\n")
}

// unreleasedSection locates the Unreleased heading, its "### Changed"
// subsection and the next release heading. Missing parts are -1.
type unreleasedSection struct {
	start   int
	changed int
	end     int
}

func sectionBounds(lines []string) unreleasedSection {
	section := unreleasedSection{start: -1, changed: -1, end: len(lines)}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case section.start < 0:
			if trimmed == unreleasedHeading {
				section.start = i
			}
		case strings.HasPrefix(trimmed, releaseHeading):
			section.end = i
			return section
		case trimmed == changedHeading && section.changed < 0:
			section.changed = i
		}
	}
	return section
}

// lastBulletAfter returns the index of the last bullet of the list that
// starts below heading, or heading itself for an empty list.
func lastBulletAfter(lines []string, heading, end int) int {
	last := heading
	for i := heading + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, bulletPrefix) {
			break
		}
		last = i
	}
	return last
}
