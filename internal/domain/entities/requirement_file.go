package entities

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const contentPreviewLength = 30

// RequirementFile is a pip requirements file. Requirements, included files
// and validity are derived together by a single parse on first access.
type RequirementFile struct {
	Path    string // slash separated, used to resolve includes
	Content string
	SHA     string // revision marker, opaque to parsing

	catalog      PackageCatalog
	parsed       bool
	requirements []*Requirement
	otherFiles   []string
	valid        bool
}

// NewRequirementFile creates a file whose requirements resolve versions
// through catalog.
func NewRequirementFile(path, content, sha string, catalog PackageCatalog) *RequirementFile {
	return &RequirementFile{
		Path:    path,
		Content: content,
		SHA:     sha,
		catalog: catalog,
	}
}

func (f *RequirementFile) String() string {
	content := f.Content
	if len(content) > contentPreviewLength {
		content = content[:contentPreviewLength] + "[truncated]"
	}
	return fmt.Sprintf("RequirementFile(path='%s', sha='%s', content='%s')", f.Path, f.SHA, content)
}

// Requirements returns the declarations of the file in line order.
func (f *RequirementFile) Requirements() []*Requirement {
	f.ensureParsed()
	return f.requirements
}

// OtherFiles returns the resolved paths of files included with -r.
func (f *RequirementFile) OtherFiles() []string {
	f.ensureParsed()
	return f.otherFiles
}

// IsValid is false for files opted out with "pyup: ignore file" and for
// files that neither declare requirements nor include other files.
func (f *RequirementFile) IsValid() bool {
	f.ensureParsed()
	return f.valid
}

func (f *RequirementFile) ensureParsed() {
	if f.parsed {
		return
	}
	f.parsed = true
	f.parse()
}

func (f *RequirementFile) parse() {
	f.requirements, f.otherFiles = []*Requirement{}, []string{}
	indexServer := ""

	for num, raw := range strings.Split(f.Content, "\n") {
		line := strings.TrimSpace(raw)

		switch ClassifyLine(line, num) {
		case LineIgnoreFileMarker:
			f.requirements, f.otherFiles = []*Requirement{}, []string{}
			f.valid = false
			return
		case LineIndexDirective:
			indexServer = ParseIndexServer(line)
		case LineIncludeDirective:
			f.otherFiles = append(f.otherFiles, ResolveFile(f.Path, line))
		case LineDeclaration:
			req, err := ParseRequirement(line, num+1, indexServer, f.catalog)
			if err != nil {
				logger.Debugf("Skipping %s:%d: %v", f.Path, num+1, err)
				continue
			}
			if req.Name == "" {
				continue
			}
			f.requirements = append(f.requirements, req)
		case LineUnparseable:
			logger.Debugf("Skipping unparseable line %s:%d", f.Path, num+1)
		case LineBlank, LineComment, LineNoOpDirective, LineIgnoreLineMarker:
		}
	}

	f.valid = len(f.requirements) > 0 || len(f.otherFiles) > 0
}
