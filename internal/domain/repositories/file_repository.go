package repositories

import (
	"context"
	"errors"
)

// FileRepository reads and writes requirement files of one checkout. Paths
// are slash separated and relative to the checkout root.
type FileRepository interface {
	// Name returns the repository identifier (e.g. "filesystem", "git").
	Name() string

	// ReadFile returns the file content and its git blob SHA.
	ReadFile(ctx context.Context, path string) (string, string, error)

	// WriteFile replaces the file content in the working tree and returns
	// the new blob SHA.
	WriteFile(ctx context.Context, path, content string) (string, error)

	// FindRequirementFiles lists requirement files in a stable order.
	FindRequirementFiles(ctx context.Context) ([]string, error)
}

// ErrFileNotFound is returned when a path does not exist in the checkout.
var ErrFileNotFound = errors.New("file not found")

// FileRepositoryOpener opens a checkout, reading committed content when a
// revision is given and the working tree otherwise.
type FileRepositoryOpener interface {
	Open(root, revision string) (FileRepository, error)
}
