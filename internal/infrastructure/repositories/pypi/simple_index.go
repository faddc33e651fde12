package pypi

import (
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// distributionSuffixes are stripped from anchor texts, longest first.
var distributionSuffixes = []string{ //nolint:gochecknoglobals // read-only table
	".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".zip", ".whl", ".egg", ".exe",
}

// parseSimplePage extracts the distinct versions named by the distribution
// links of a PEP 503 project page.
func parseSimplePage(r io.Reader, normalized string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	versions := []string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if version := distributionVersion(anchorFilename(n), normalized); version != "" && !seen[version] {
				seen[version] = true
				versions = append(versions, version)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return versions, nil
}

// anchorFilename prefers the link text and falls back to the href path.
func anchorFilename(n *html.Node) string {
	if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
		if text := strings.TrimSpace(n.FirstChild.Data); text != "" {
			return text
		}
	}
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href, _, _ := strings.Cut(attr.Val, "#")
			return path.Base(href)
		}
	}
	return ""
}

// distributionVersion reads the version out of an sdist or wheel file name
// of the given project. Files of other projects yield "".
func distributionVersion(filename, normalized string) string {
	stem := ""
	for _, suffix := range distributionSuffixes {
		if strings.HasSuffix(strings.ToLower(filename), suffix) {
			stem = filename[:len(filename)-len(suffix)]
			if suffix == ".whl" || suffix == ".egg" {
				return wheelVersion(stem, normalized)
			}
			break
		}
	}
	if stem == "" {
		return ""
	}

	idx := strings.LastIndex(stem, "-")
	if idx <= 0 || NormalizeName(stem[:idx]) != normalized {
		return ""
	}
	return validVersion(stem[idx+1:])
}

// wheelVersion handles "<name>-<version>-<tags>" where name has no dashes.
func wheelVersion(stem, normalized string) string {
	parts := strings.Split(stem, "-")
	if len(parts) < 2 || NormalizeName(parts[0]) != normalized {
		return ""
	}
	return validVersion(parts[1])
}

func validVersion(version string) string {
	if !entities.IsValidVersion(version) {
		return ""
	}
	return version
}
