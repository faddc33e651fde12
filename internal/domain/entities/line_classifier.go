package entities

import "strings"

// LineKind tags what a physical line of a requirement file is.
type LineKind int

const (
	LineBlank LineKind = iota
	LineIgnoreFileMarker
	LineComment
	LineIndexDirective
	LineIncludeDirective
	LineNoOpDirective
	LineIgnoreLineMarker
	LineDeclaration
	LineUnparseable
)

const (
	ignoreFileMarker = "pyup: ignore file"
	ignoreLineMarker = "pyup: ignore"
)

//nolint:gochecknoglobals // fixed directive vocabulary
var (
	indexFlags   = []string{"-i", "--index-url", "--extra-index-url"}
	includeFlags = []string{"-r", "--requirement"}
	noOpFlags    = []string{
		"-f", "--find-links", "--no-index", "--allow-external",
		"--allow-unverified", "-Z", "--always-unzip",
	}
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineIgnoreFileMarker:
		return "ignore-file"
	case LineComment:
		return "comment"
	case LineIndexDirective:
		return "index"
	case LineIncludeDirective:
		return "include"
	case LineNoOpDirective:
		return "no-op"
	case LineIgnoreLineMarker:
		return "ignore-line"
	case LineUnparseable:
		return "unparseable"
	default:
		return "declaration"
	}
}

// ClassifyLine applies the directive rules in priority order to a stripped
// line. index is the 0-based physical line number; the ignore-file marker
// only counts on the first two lines.
func ClassifyLine(line string, index int) LineKind {
	switch {
	case line == "":
		return LineBlank
	case strings.Contains(line, ignoreFileMarker) && index <= 1:
		return LineIgnoreFileMarker
	case strings.HasPrefix(line, "#"):
		return LineComment
	case hasAnyPrefix(line, indexFlags):
		return LineIndexDirective
	case hasAnyPrefix(line, includeFlags):
		return LineIncludeDirective
	case hasAnyPrefix(line, noOpFlags):
		return LineNoOpDirective
	case strings.Contains(line, ignoreLineMarker):
		return LineIgnoreLineMarker
	}
	if _, err := parseDeclaration(line); err != nil {
		return LineUnparseable
	}
	return LineDeclaration
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// ParseIndexServer extracts the URL of an index directive and makes sure it
// ends with "/". Both "-i URL" and "--index-url=URL" are understood. It
// returns "" when the directive carries no URL.
func ParseIndexServer(line string) string {
	line = strings.SplitN(line, "#", 2)[0]
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	var url string
	if flag, value, found := strings.Cut(fields[0], "="); found && strings.HasPrefix(flag, "-") {
		url = value
	} else if len(fields) > 1 {
		url = fields[1]
	}
	if url == "" {
		return ""
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}

// ResolveFile resolves the target of an include directive found in the file
// at filePath. The referenced name replaces the last path component.
func ResolveFile(filePath, line string) string {
	target := strings.TrimSpace(line)
	for _, flag := range []string{"--requirement", "-r"} {
		if strings.HasPrefix(target, flag) {
			target = strings.TrimPrefix(target, flag)
			break
		}
	}
	target = strings.TrimLeft(target, " \t=")
	if strings.Contains(target, " #") || strings.Contains(target, "\t#") {
		target = strings.TrimSpace(target[:strings.Index(target, "#")])
	}

	parts := strings.Split(filePath, "/")
	if len(parts) == 1 {
		return target
	}
	return strings.Join(parts[:len(parts)-1], "/") + "/" + target
}
