package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const (
	repositoryName  = "filesystem"
	defaultFileMode = 0o644
)

// FileRepository implements repositories.FileRepository over a directory
// tree on disk.
type FileRepository struct {
	root string
}

var _ repositories.FileRepository = (*FileRepository)(nil)

// NewFileRepository creates a repository rooted at root.
func NewFileRepository(root string) *FileRepository {
	return &FileRepository{root: root}
}

// BlobSHA returns the git blob hash of content, matching what git would
// record for the file.
func BlobSHA(content string) string {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(content)).String()
}

func (r *FileRepository) Name() string { return repositoryName }

func (r *FileRepository) ReadFile(_ context.Context, path string) (string, string, error) {
	data, err := os.ReadFile(r.abs(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", repositories.ErrFileNotFound, path)
		}
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	return content, BlobSHA(content), nil
}

// WriteFile keeps the mode of an existing file.
func (r *FileRepository) WriteFile(_ context.Context, path, content string) (string, error) {
	target := r.abs(path)
	mode := fs.FileMode(defaultFileMode)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(target, []byte(content), mode); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return BlobSHA(content), nil
}

func (r *FileRepository) FindRequirementFiles(ctx context.Context) ([]string, error) {
	var found []string
	err := filepath.WalkDir(r.root, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			if current != r.root && entities.IsIgnoredDirectory(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(r.root, current)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if entities.IsRequirementFilePath(rel) {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", r.root, err)
	}

	sort.Strings(found)
	return found, nil
}

func (r *FileRepository) abs(path string) string {
	return filepath.Join(r.root, filepath.FromSlash(path))
}
