//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rios0rios0/requpdate/internal/domain/repositories"
	"github.com/rios0rios0/requpdate/internal/infrastructure/repositories/filesystem"
)

// SpyFileRepository implements repositories.FileRepository in memory.
type SpyFileRepository struct {
	// --- ReadFile ---
	Files   map[string]string // path -> content
	ReadErr error
	// spy: paths read
	ReadPaths []string

	// --- WriteFile ---
	WriteErr error
	// spy: writes received
	Writes []WriteCall

	// --- FindRequirementFiles ---
	Found   []string // nil lists every file ending in .txt
	FindErr error
}

// WriteCall records a single invocation of WriteFile.
type WriteCall struct {
	Path    string
	Content string
}

var _ repositories.FileRepository = (*SpyFileRepository)(nil)

// NewSpyFileRepository creates a repository holding files.
func NewSpyFileRepository(files map[string]string) *SpyFileRepository {
	return &SpyFileRepository{Files: files}
}

func (r *SpyFileRepository) Name() string { return "spy" }

func (r *SpyFileRepository) ReadFile(_ context.Context, path string) (string, string, error) {
	r.ReadPaths = append(r.ReadPaths, path)
	if r.ReadErr != nil {
		return "", "", r.ReadErr
	}
	content, ok := r.Files[path]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", repositories.ErrFileNotFound, path)
	}
	return content, filesystem.BlobSHA(content), nil
}

func (r *SpyFileRepository) WriteFile(_ context.Context, path, content string) (string, error) {
	r.Writes = append(r.Writes, WriteCall{Path: path, Content: content})
	if r.WriteErr != nil {
		return "", r.WriteErr
	}
	if r.Files == nil {
		r.Files = make(map[string]string)
	}
	r.Files[path] = content
	return filesystem.BlobSHA(content), nil
}

func (r *SpyFileRepository) FindRequirementFiles(_ context.Context) ([]string, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	if r.Found != nil {
		return r.Found, nil
	}
	var found []string
	for path := range r.Files {
		if strings.HasSuffix(path, ".txt") {
			found = append(found, path)
		}
	}
	sort.Strings(found)
	return found, nil
}

// StubFileRepositoryOpener implements repositories.FileRepositoryOpener.
type StubFileRepositoryOpener struct {
	Repository repositories.FileRepository
	OpenErr    error
	// spy: arguments received
	Roots     []string
	Revisions []string
}

var _ repositories.FileRepositoryOpener = (*StubFileRepositoryOpener)(nil)

func (o *StubFileRepositoryOpener) Open(root, revision string) (repositories.FileRepository, error) {
	o.Roots = append(o.Roots, root)
	o.Revisions = append(o.Revisions, revision)
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	return o.Repository, nil
}
