package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
	"github.com/rios0rios0/requpdate/internal/infrastructure/repositories/filesystem"
)

const (
	repositoryName  = "git"
	defaultRevision = "HEAD"
)

// FileRepository reads requirement files as committed at a revision and
// writes updates to the working tree.
type FileRepository struct {
	repo     *gogit.Repository
	revision string
	worktree *filesystem.FileRepository
}

var _ repositories.FileRepository = (*FileRepository)(nil)

// NewFileRepository opens the repository whose top level is root. An
// empty revision reads HEAD.
func NewFileRepository(root, revision string) (*FileRepository, error) {
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository %s: %w", root, err)
	}
	if revision == "" {
		revision = defaultRevision
	}
	return &FileRepository{
		repo:     repo,
		revision: revision,
		worktree: filesystem.NewFileRepository(root),
	}, nil
}

func (r *FileRepository) Name() string { return repositoryName }

func (r *FileRepository) ReadFile(_ context.Context, path string) (string, string, error) {
	tree, err := r.tree()
	if err != nil {
		return "", "", err
	}

	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", "", fmt.Errorf("%w: %s at %s", repositories.ErrFileNotFound, path, r.revision)
		}
		return "", "", fmt.Errorf("failed to look up %s at %s: %w", path, r.revision, err)
	}

	content, err := file.Contents()
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s at %s: %w", path, r.revision, err)
	}
	return content, file.Hash.String(), nil
}

func (r *FileRepository) WriteFile(ctx context.Context, path, content string) (string, error) {
	return r.worktree.WriteFile(ctx, path, content)
}

func (r *FileRepository) FindRequirementFiles(ctx context.Context) ([]string, error) {
	tree, err := r.tree()
	if err != nil {
		return nil, err
	}

	var found []string
	iterErr := tree.Files().ForEach(func(file *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entities.IsRequirementFilePath(file.Name) {
			found = append(found, file.Name)
		}
		return nil
	})
	if iterErr != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", r.revision, iterErr)
	}

	sort.Strings(found)
	logger.Debugf("[git] %d requirement files at %s", len(found), r.revision)
	return found, nil
}

func (r *FileRepository) tree() (*object.Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(r.revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", r.revision, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", hash, err)
	}
	return tree, nil
}
