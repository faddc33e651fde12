package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const (
	FileRepositoryFilesystem = "filesystem"
	FileRepositoryGit        = "git"
)

// FileRepositoryFactory opens a checkout rooted at root. Implementations
// that do not track revisions ignore revision.
type FileRepositoryFactory func(root, revision string) (domainRepos.FileRepository, error)

// FileRepositoryRegistry manages the registered checkout backends.
type FileRepositoryRegistry struct {
	factories map[string]FileRepositoryFactory
}

// NewFileRepositoryRegistry creates an empty registry.
func NewFileRepositoryRegistry() *FileRepositoryRegistry {
	return &FileRepositoryRegistry{
		factories: make(map[string]FileRepositoryFactory),
	}
}

// Register adds a factory under the given name (e.g. "git").
func (r *FileRepositoryRegistry) Register(name string, factory FileRepositoryFactory) {
	r.factories[name] = factory
}

// Get opens the checkout with the named backend.
func (r *FileRepositoryRegistry) Get(name, root, revision string) (domainRepos.FileRepository, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown file repository type: %q", name)
	}
	return factory(root, revision)
}

// Open picks the git backend when a revision is requested and the
// filesystem backend otherwise.
func (r *FileRepositoryRegistry) Open(root, revision string) (domainRepos.FileRepository, error) {
	if revision != "" {
		return r.Get(FileRepositoryGit, root, revision)
	}
	return r.Get(FileRepositoryFilesystem, root, revision)
}

// Names returns the registered backend names, sorted.
func (r *FileRepositoryRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
