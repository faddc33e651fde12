package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const changelogFile = "CHANGELOG.md"

// ErrRevisionNotWritable is returned when an update that writes files is
// asked to read them from a git revision instead of the worktree.
var ErrRevisionNotWritable = errors.New("a revision can only be updated as a dry run")

// Update is the interface for the update command.
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) ([]entities.Update, error)
}

// UpdateOptions holds runtime options for a single update.
type UpdateOptions struct {
	RepoDir  string
	Revision string   // read committed files at this revision, dry runs only
	Paths    []string // explicit files, discovery otherwise
	Initial  bool     // one update for everything instead of one per package
	DryRun   bool
}

// UpdateCommand plans updates, rewrites requirement files and records the
// pull request each change belongs to.
type UpdateCommand struct {
	opener     repositories.FileRepositoryOpener
	packages   repositories.PackageRepositoryProvider
	strategies entities.UpdateStrategies
	now        func() time.Time
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	opener repositories.FileRepositoryOpener,
	packages repositories.PackageRepositoryProvider,
	strategies entities.UpdateStrategies,
) *UpdateCommand {
	return &UpdateCommand{
		opener:     opener,
		packages:   packages,
		strategies: strategies,
		now:        time.Now,
	}
}

// Execute runs the update cycle and returns the planned updates.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) ([]entities.Update, error) {
	if opts.Revision != "" && !opts.DryRun {
		return nil, fmt.Errorf("%w: %s", ErrRevisionNotWritable, opts.Revision)
	}
	src, err := openSources(ctx, it.opener, it.packages, settings, opts.RepoDir, opts.Revision)
	if err != nil {
		return nil, err
	}
	loaded, err := loadBundle(ctx, src, opts.Paths, settings.Search, it.strategies)
	if err != nil {
		return nil, err
	}

	bundle := updatableBundle(loaded, settings, it.strategies)
	updates := allowedUpdates(bundle.GetUpdates(opts.Initial, true), settings)
	if len(updates) == 0 {
		logger.Info("[update] All requirements are up to date")
		return updates, nil
	}

	contents := it.applyUpdates(bundle, updates)
	changes := collectChanges(bundle, contents)
	if opts.DryRun {
		for _, change := range changes {
			logger.Infof("[update] [DRY RUN] Would rewrite %s", change.Path)
		}
	} else if writeErr := writeChanges(ctx, src.files, changes); writeErr != nil {
		return nil, writeErr
	}

	if settings.Changelog {
		if changelogErr := updateChangelog(ctx, src.files, updates, opts.DryRun); changelogErr != nil {
			logger.Warnf("[update] Failed to update %s: %v", changelogFile, changelogErr)
		}
	}
	return updates, nil
}

// updatableBundle drops the files the settings exclude from updates.
func updatableBundle(
	bundle *entities.RequirementsBundle,
	settings *entities.Settings,
	strategies entities.UpdateStrategies,
) *entities.RequirementsBundle {
	filtered := entities.NewRequirementsBundle(strategies)
	for _, file := range bundle.Files() {
		if !settings.CanUpdate(file.Path) {
			logger.Infof("[update] Updates disabled for %s", file.Path)
			continue
		}
		filtered.Append(file)
	}
	return filtered
}

// allowedUpdates removes pin changes for files where pinning is disabled,
// dropping updates left empty.
func allowedUpdates(updates []entities.Update, settings *entities.Settings) []entities.Update {
	result := []entities.Update{}
	for _, update := range updates {
		var kept []entities.RequirementUpdate
		for _, change := range update.Changes {
			if change.Requirement.IsPinned() || settings.CanPin(change.File.Path) {
				kept = append(kept, change)
			}
		}
		if len(kept) == 0 {
			continue
		}
		update.Changes = kept
		result = append(result, update)
	}
	return result
}

// applyUpdates rewrites the running content of every touched file and
// attaches one pull request proposal per update.
func (it *UpdateCommand) applyUpdates(
	bundle *entities.RequirementsBundle,
	updates []entities.Update,
) map[string]string {
	contents := make(map[string]string, len(bundle.Files()))
	for _, file := range bundle.Files() {
		contents[file.Path] = file.Content
	}

	for _, update := range updates {
		pr := &entities.PullRequest{
			Title:     update.Title,
			Branch:    update.Branch,
			CreatedAt: it.now(),
		}
		for _, change := range update.Changes {
			path := change.File.Path
			rewritten := change.Requirement.UpdateContent(contents[path])
			if rewritten != contents[path] {
				logger.Infof("[update] %s: %s", path, change.CommitMessage)
				contents[path] = rewritten
			}
			change.Requirement.PullRequest = pr
		}
	}
	return contents
}

func collectChanges(bundle *entities.RequirementsBundle, contents map[string]string) []entities.FileChange {
	var changes []entities.FileChange
	for _, file := range bundle.Files() {
		if contents[file.Path] == file.Content {
			continue
		}
		changes = append(changes, entities.FileChange{
			Path:        file.Path,
			Content:     contents[file.Path],
			PreviousSHA: file.SHA,
		})
	}
	return changes
}

func writeChanges(
	ctx context.Context,
	files repositories.FileRepository,
	changes []entities.FileChange,
) error {
	for _, change := range changes {
		sha, err := files.WriteFile(ctx, change.Path, change.Content)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", change.Path, err)
		}
		logger.Infof("[update] Wrote %s (%s -> %s)", change.Path, shortSHA(change.PreviousSHA), shortSHA(sha))
	}
	return nil
}

func updateChangelog(
	ctx context.Context,
	files repositories.FileRepository,
	updates []entities.Update,
	dryRun bool,
) error {
	content, _, err := files.ReadFile(ctx, changelogFile)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			logger.Debugf("[update] No %s, skipping changelog entries", changelogFile)
			return nil
		}
		return err
	}

	updated := entities.InsertChangelogEntries(content, entities.ChangelogEntries(updates))
	if updated == content {
		return nil
	}
	if dryRun {
		logger.Infof("[update] [DRY RUN] Would add changelog entries to %s", changelogFile)
		return nil
	}
	_, err = files.WriteFile(ctx, changelogFile, updated)
	return err
}

func shortSHA(sha string) string {
	const length = 7
	if len(sha) > length {
		return sha[:length]
	}
	return sha
}
