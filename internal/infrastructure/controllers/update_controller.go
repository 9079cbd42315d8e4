package controllers

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/commands"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command   commands.Update
	workspace repositories.WorkspaceRepository
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(
	command commands.Update,
	workspace repositories.WorkspaceRepository,
) *UpdateController {
	return &UpdateController{command: command, workspace: workspace}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update",
		Short: "Update one NuGet dependency across a .NET build graph",
		Long: `Bump a single NuGet dependency from one version to another in every
project reachable from a solution (.sln, .slnx), a traversal .proj or a
single project file.

Repository-wide pins in .config/dotnet-tools.json and global.json are
updated first unless the dependency is transitive. Each project is then
updated once, through packages.config and/or PackageReference items.

When --result-output-path is given, the outcome is written there as JSON:
{} on success, or {"errorType": ..., "errorDetails": ...} when a package
source rejected our credentials or a required file was missing.`,
	}
}

// Execute runs one update. Classified failures are reported through the
// result file; anything else terminates the process.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) {
	if err := it.run(cmd); err != nil {
		logger.Fatalf("Update failed: %v", err)
	}
}

func (it *UpdateController) run(cmd *cobra.Command) error {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	repoRoot, _ := cmd.Flags().GetString("repo-root")
	workspacePath, _ := cmd.Flags().GetString("workspace")
	dependency, _ := cmd.Flags().GetString("dependency")
	previousVersion, _ := cmd.Flags().GetString("previous-version")
	newVersion, _ := cmd.Flags().GetString("new-version")
	transitive, _ := cmd.Flags().GetBool("transitive")
	resultOutputPath, _ := cmd.Flags().GetString("result-output-path")

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if workspacePath == "" || dependency == "" || previousVersion == "" || newVersion == "" {
		return errors.New("--workspace, --dependency, --previous-version and --new-version are required")
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	if repoRoot == "" {
		repoRoot = it.detectRepositoryRoot(workspacePath)
	}

	logger.Infof("Updating %s from %s to %s in [%s]", dependency, previousVersion, newVersion, workspacePath)

	_, err = it.command.Execute(ctx, settings, entities.UpdateRequest{
		RepoRootPath:     repoRoot,
		WorkspacePath:    workspacePath,
		DependencyName:   dependency,
		PreviousVersion:  previousVersion,
		NewVersion:       newVersion,
		IsTransitive:     transitive,
		ResultOutputPath: resultOutputPath,
	})
	return err
}

// detectRepositoryRoot falls back to the git work tree holding the
// workspace, then to the current directory.
func (it *UpdateController) detectRepositoryRoot(workspacePath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	root, err := it.workspace.FindRepositoryRoot(workspacePath)
	if err != nil {
		logger.Debugf("No git repository around [%s], using [%s] as repository root: %v", workspacePath, cwd, err)
		return cwd
	}
	logger.Debugf("Using repository root [%s]", root)
	return root
}

func loadSettings(configPath string) (*entities.Settings, error) {
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			return entities.DefaultSettings(), nil
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo-root", "", "Repository root (default: the enclosing git work tree)")
	cmd.Flags().String("workspace", "", "Solution, .proj or project file to start from")
	cmd.Flags().String("dependency", "", "Name of the NuGet package to update")
	cmd.Flags().String("previous-version", "", "Version the dependency is currently at")
	cmd.Flags().String("new-version", "", "Version to update the dependency to")
	cmd.Flags().Bool("transitive", false, "The dependency is transitive; skip repository-wide pins and pin it where absent")
	cmd.Flags().String("result-output-path", "", "Write the JSON result to this file")
}
