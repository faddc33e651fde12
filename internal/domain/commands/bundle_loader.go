package commands

import (
	"context"
	"errors"
	"fmt"
	"path"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const defaultRequirementsFile = "requirements.txt"

// sources bundles the repositories one invocation works against.
type sources struct {
	files   repositories.FileRepository
	catalog entities.PackageCatalog
}

func openSources(
	ctx context.Context,
	opener repositories.FileRepositoryOpener,
	provider repositories.PackageRepositoryProvider,
	settings *entities.Settings,
	repoDir, revision string,
) (*sources, error) {
	files, err := opener.Open(repoDir, revision)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", repoDir, err)
	}
	packages, err := provider.Get(settings.Cache)
	if err != nil {
		return nil, err
	}
	return &sources{
		files:   files,
		catalog: newCatalog(ctx, packages, settings.IndexURL),
	}, nil
}

// newCatalog binds ctx to the package repository. Requirements without an
// index directive use defaultIndex.
func newCatalog(
	ctx context.Context,
	packages repositories.PackageRepository,
	defaultIndex string,
) entities.PackageCatalog {
	return entities.PackageCatalogFunc(func(name, indexServer string) (*entities.Package, error) {
		if indexServer == "" {
			indexServer = defaultIndex
		}
		return packages.FetchPackage(ctx, name, indexServer)
	})
}

// loadBundle reads the requested files, or the discovered ones when none are
// given, and follows include directives. Every path is read once; missing
// and invalid files are skipped.
func loadBundle(
	ctx context.Context,
	src *sources,
	paths []string,
	search bool,
	strategies entities.UpdateStrategies,
) (*entities.RequirementsBundle, error) {
	queue, err := initialPaths(ctx, src.files, paths, search)
	if err != nil {
		return nil, err
	}

	bundle := entities.NewRequirementsBundle(strategies)
	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := path.Clean(queue[0])
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		content, sha, readErr := src.files.ReadFile(ctx, current)
		if readErr != nil {
			if errors.Is(readErr, repositories.ErrFileNotFound) {
				logger.Warnf("[bundle] %s not found, skipping", current)
				continue
			}
			return nil, readErr
		}

		file := entities.NewRequirementFile(current, content, sha, src.catalog)
		if !file.IsValid() {
			logger.Infof("[bundle] %s has no requirements or is ignored, skipping", current)
			continue
		}
		bundle.Append(file)
		queue = append(queue, file.OtherFiles()...)
	}

	logger.Debugf("[bundle] Loaded %d requirement files", len(bundle.Files()))
	return bundle, nil
}

func initialPaths(
	ctx context.Context,
	files repositories.FileRepository,
	paths []string,
	search bool,
) ([]string, error) {
	if len(paths) > 0 {
		return append([]string{}, paths...), nil
	}
	if !search {
		return []string{defaultRequirementsFile}, nil
	}

	found, err := files.FindRequirementFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return []string{defaultRequirementsFile}, nil
	}
	return found, nil
}
