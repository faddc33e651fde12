package entities

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ErrInvalidRequirement is returned when a line is not a valid requirement
// declaration.
var ErrInvalidRequirement = errors.New("invalid requirement")

var (
	declaredNamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	extraPattern        = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	specPattern         = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)\s*(\S+)$`)
	unsafeNamePattern   = regexp.MustCompile(`[^A-Za-z0-9.]+`)
)

// declaration is the syntactic content of a requirement line.
type declaration struct {
	name   string
	extras []string
	specs  []Spec
	url    string
	marker string
}

// parseDeclaration parses one requirement line. Comments start at the
// first " #"; a tab before "#" counts as whitespace.
func parseDeclaration(line string) (*declaration, error) {
	text := strings.ReplaceAll(line, "\t#", "\t #")
	if idx := strings.Index(text, " #"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil, fmt.Errorf("%w: empty declaration", ErrInvalidRequirement)
	}
	if strings.HasSuffix(text, "\\") {
		return nil, fmt.Errorf("%w: dangling line continuation", ErrInvalidRequirement)
	}

	name := declaredNamePattern.FindString(text)
	if name == "" {
		return nil, fmt.Errorf("%w: %q has no package name", ErrInvalidRequirement, text)
	}
	decl := &declaration{name: name}
	rest := strings.TrimSpace(text[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated extras in %q", ErrInvalidRequirement, text)
		}
		extras, err := parseExtras(rest[1:end])
		if err != nil {
			return nil, err
		}
		decl.extras = extras
		rest = strings.TrimSpace(rest[end+1:])
	}

	if strings.HasPrefix(rest, "@") {
		fields := strings.Fields(strings.TrimSpace(rest[1:]))
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: missing URL in %q", ErrInvalidRequirement, text)
		}
		decl.url = fields[0]
		rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[1:]), decl.url))
		if rest != "" && !strings.HasPrefix(rest, ";") {
			return nil, fmt.Errorf("%w: unexpected %q after URL", ErrInvalidRequirement, rest)
		}
	}

	if idx := strings.Index(rest, ";"); idx >= 0 {
		decl.marker = strings.TrimSpace(rest[idx+1:])
		if decl.marker == "" {
			return nil, fmt.Errorf("%w: empty environment marker in %q", ErrInvalidRequirement, text)
		}
		rest = strings.TrimSpace(rest[:idx])
	}

	if decl.url != "" {
		return decl, nil
	}

	specs, err := parseSpecs(rest)
	if err != nil {
		return nil, err
	}
	decl.specs = specs
	return decl, nil
}

func parseExtras(raw string) ([]string, error) {
	var extras []string
	for _, part := range strings.Split(raw, ",") {
		extra := strings.TrimSpace(part)
		if extra == "" {
			continue
		}
		if !extraPattern.MatchString(extra) {
			return nil, fmt.Errorf("%w: bad extra %q", ErrInvalidRequirement, extra)
		}
		extras = append(extras, extra)
	}
	return extras, nil
}

func parseSpecs(raw string) ([]Spec, error) {
	if strings.HasPrefix(raw, "(") {
		if !strings.HasSuffix(raw, ")") {
			return nil, fmt.Errorf("%w: unbalanced parenthesis in %q", ErrInvalidRequirement, raw)
		}
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	if raw == "" {
		return nil, nil
	}

	var specs []Spec
	for _, part := range strings.Split(raw, ",") {
		match := specPattern.FindStringSubmatch(strings.TrimSpace(part))
		if match == nil {
			return nil, fmt.Errorf("%w: bad version specifier %q", ErrInvalidRequirement, part)
		}
		spec := Spec{Operator: match[1], Version: match[2]}
		if !isValidSpecVersion(spec) {
			return nil, fmt.Errorf("%w: bad version in %q", ErrInvalidRequirement, spec)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// isValidSpecVersion applies the PEP 440 rules on which operators accept
// wildcards, local versions and short releases ("~=" needs two segments).
// Arbitrary equality accepts any string.
func isValidSpecVersion(spec Spec) bool {
	if spec.Operator == "===" {
		return true
	}
	_, err := pep440.NewSpecifiers(spec.String())
	return err == nil
}

// safeName replaces every run of characters outside [A-Za-z0-9.] with "-".
func safeName(name string) string {
	return unsafeNamePattern.ReplaceAllString(name, "-")
}

// comparator builds the canonical equality key of a declaration. It ignores
// spec order, extras order and case, line numbers and index servers.
func (d *declaration) comparator() string {
	specs := make([]string, 0, len(d.specs))
	for _, spec := range d.specs {
		specs = append(specs, spec.String())
	}
	sort.Strings(specs)

	extras := make([]string, 0, len(d.extras))
	for _, extra := range d.extras {
		extras = append(extras, strings.ToLower(safeName(extra)))
	}
	sort.Strings(extras)

	return strings.Join([]string{
		strings.ToLower(safeName(d.name)),
		d.url,
		strings.Join(specs, ","),
		strings.Join(extras, ","),
		d.marker,
	}, "|")
}
