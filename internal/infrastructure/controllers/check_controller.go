package controllers

import (
	"context"
	"fmt"
	"text/tabwriter"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/requpdate/internal/domain/commands"
	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check [path]",
		Short: "Report outdated requirements",
		Long: `Parse the pip requirements files of a repository, resolve every
requirement against its package index and print the installed version,
the latest version and the latest version allowed by the specifiers.

No file is modified.`,
	}
}

// Execute runs the check and prints the report.
func (it *CheckController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	revision, _ := cmd.Flags().GetString("revision")
	files, _ := cmd.Flags().GetStringSlice("file")
	outdatedOnly, _ := cmd.Flags().GetBool("outdated")
	enableVerbose(verbose)

	repoDir := repoDirFromArgs(args)
	settings, err := loadSettings(configPath, repoDir)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	report, err := it.command.Execute(ctx, settings, commands.CheckOptions{
		RepoDir:  repoDir,
		Revision: revision,
		Paths:    files,
	})
	if err != nil {
		logger.Errorf("Check failed: %v", err)
		return
	}

	statuses := report.Requirements
	if outdatedOnly {
		statuses = report.Outdated()
	}
	printReport(cmd, statuses)
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("revision", "", "Read requirement files committed at this git revision")
	cmd.Flags().StringSlice("file", nil, "Requirement file to check (repeatable, default: discover)")
	cmd.Flags().Bool("outdated", false, "Only list requirements that need an update")
}

func printReport(cmd *cobra.Command, statuses []commands.RequirementStatus) {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	fmt.Fprintln(writer, "FILE\tLINE\tPACKAGE\tSPEC\tCURRENT\tLATEST\tWANTED\tUPDATE")
	for _, status := range statuses {
		update := "-"
		if status.NeedsUpdate {
			update = string(status.UpdateKind)
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			status.File, status.Line, status.Name, status.Classification,
			orDash(status.Current), orDash(status.Latest), orDash(status.LatestWithinSpecs), update,
		)
	}
	_ = writer.Flush()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
