package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

// Check is the interface for the check command (read-only report).
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*CheckReport, error)
}

// CheckOptions holds runtime options for a check.
type CheckOptions struct {
	RepoDir  string
	Revision string   // read committed files at this revision when set
	Paths    []string // explicit files, discovery otherwise
}

// RequirementStatus is the resolved state of one declaration.
type RequirementStatus struct {
	File              string
	Line              int
	Name              string
	Key               string
	Classification    string // "pinned", "ranged" or "loose"
	Current           string
	Latest            string
	LatestWithinSpecs string
	NeedsUpdate       bool
	UpdateKind        entities.UpdateKind
}

// CheckReport lists every requirement of the loaded files.
type CheckReport struct {
	Files        []string
	Requirements []RequirementStatus
}

// Outdated returns the requirements that need an update.
func (r *CheckReport) Outdated() []RequirementStatus {
	var outdated []RequirementStatus
	for _, status := range r.Requirements {
		if status.NeedsUpdate {
			outdated = append(outdated, status)
		}
	}
	return outdated
}

// CheckCommand resolves requirements against the package index without
// touching any file.
type CheckCommand struct {
	opener     repositories.FileRepositoryOpener
	packages   repositories.PackageRepositoryProvider
	strategies entities.UpdateStrategies
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	opener repositories.FileRepositoryOpener,
	packages repositories.PackageRepositoryProvider,
	strategies entities.UpdateStrategies,
) *CheckCommand {
	return &CheckCommand{opener: opener, packages: packages, strategies: strategies}
}

// Execute loads the bundle and reports one status per requirement.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*CheckReport, error) {
	src, err := openSources(ctx, it.opener, it.packages, settings, opts.RepoDir, opts.Revision)
	if err != nil {
		return nil, err
	}
	bundle, err := loadBundle(ctx, src, opts.Paths, settings.Search, it.strategies)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{}
	for _, file := range bundle.Files() {
		report.Files = append(report.Files, file.Path)
		for _, req := range file.Requirements() {
			report.Requirements = append(report.Requirements, newRequirementStatus(file, req))
		}
	}

	logger.Infof("[check] %d requirements, %d outdated", len(report.Requirements), len(report.Outdated()))
	return report, nil
}

func newRequirementStatus(file *entities.RequirementFile, req *entities.Requirement) RequirementStatus {
	return RequirementStatus{
		File:              file.Path,
		Line:              req.Lineno,
		Name:              req.Name,
		Key:               req.Key,
		Classification:    classification(req),
		Current:           req.Version(),
		Latest:            req.LatestVersion(),
		LatestWithinSpecs: req.LatestVersionWithinSpecs(),
		NeedsUpdate:       req.NeedsUpdate(),
		UpdateKind:        req.UpdateKind(),
	}
}

func classification(req *entities.Requirement) string {
	switch {
	case req.IsPinned():
		return "pinned"
	case req.IsRanged():
		return "ranged"
	default:
		return "loose"
	}
}
