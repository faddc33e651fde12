package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/requpdate/internal/domain/commands"
	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update [path]",
		Short: "Pin and update requirements in place",
		Long: `Rewrite the pip requirements files of a repository so that every
updatable requirement is pinned to the latest version its specifiers allow.

By default one update is planned per package and version. Use --initial to
group every change into a single update.`,
	}
}

// Execute runs the update and logs the planned pull requests.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	revision, _ := cmd.Flags().GetString("revision")
	files, _ := cmd.Flags().GetStringSlice("file")
	initial, _ := cmd.Flags().GetBool("initial")
	enableVerbose(verbose)

	repoDir := repoDirFromArgs(args)
	settings, err := loadSettings(configPath, repoDir)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	updates, err := it.command.Execute(ctx, settings, commands.UpdateOptions{
		RepoDir:  repoDir,
		Revision: revision,
		Paths:    files,
		Initial:  initial,
		DryRun:   dryRun,
	})
	if err != nil {
		logger.Errorf("Update failed: %v", err)
		return
	}

	for _, update := range updates {
		logger.Infof("%s (branch %s, %d changes)", update.Title, update.Branch, len(update.Changes))
	}
	logger.Infof("Planned %d updates", len(updates))
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("revision", "", "Plan from requirement files committed at this git revision (requires --dry-run)")
	cmd.Flags().StringSlice("file", nil, "Requirement file to update (repeatable, default: discover)")
	cmd.Flags().Bool("initial", false, "Group every change into a single initial update")
}
