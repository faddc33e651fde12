package entities

import (
	"path"
	"strings"
)

const requirementsDirectory = "requirements"

var ignoredDirectories = map[string]bool{ //nolint:gochecknoglobals // read-only set
	".git":          true,
	".hg":           true,
	".tox":          true,
	".nox":          true,
	".venv":         true,
	"venv":          true,
	"node_modules":  true,
	"__pycache__":   true,
	"site-packages": true,
	".mypy_cache":   true,
}

// IsIgnoredDirectory reports whether discovery skips a directory name.
func IsIgnoredDirectory(name string) bool {
	return ignoredDirectories[name]
}

// IsRequirementFilePath reports whether a slash separated path names a
// requirements file: requirements*.txt anywhere, or any .txt file below a
// "requirements" directory. Paths crossing an ignored directory never match.
func IsRequirementFilePath(filePath string) bool {
	base := path.Base(filePath)
	if !strings.HasSuffix(base, ".txt") {
		return false
	}

	dirs := strings.Split(path.Dir(filePath), "/")
	inRequirementsDir := false
	for _, dir := range dirs {
		if IsIgnoredDirectory(dir) {
			return false
		}
		if dir == requirementsDirectory {
			inRequirementsDir = true
		}
	}
	return inRequirementsDir || strings.HasPrefix(base, requirementsDirectory)
}
