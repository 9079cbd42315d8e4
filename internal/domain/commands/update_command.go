package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	infraRepos "github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories"
)

// Update is the interface for the update command.
type Update interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		request entities.UpdateRequest,
	) (entities.UpdateOperationResult, error)
}

// UpdateCommand orchestrates a single dependency bump across a build graph:
// repository-level pins -> entry expansion -> per-project manifest updates.
// Failures that can be classified become the run's result; any other error
// is returned to the caller untouched and no result artifact is written.
type UpdateCommand struct {
	updaterRegistry  *infraRepos.UpdaterRegistry
	graphExpander    repositories.GraphExpanderRepository
	projectInspector repositories.ProjectInspectorRepository
	packageSources   repositories.PackageSourceRepository
	results          repositories.ResultRepository
}

// NewUpdateCommand creates a new UpdateCommand with the given collaborators.
func NewUpdateCommand(
	updaterRegistry *infraRepos.UpdaterRegistry,
	graphExpander repositories.GraphExpanderRepository,
	projectInspector repositories.ProjectInspectorRepository,
	packageSources repositories.PackageSourceRepository,
	results repositories.ResultRepository,
) *UpdateCommand {
	return &UpdateCommand{
		updaterRegistry:  updaterRegistry,
		graphExpander:    graphExpander,
		projectInspector: projectInspector,
		packageSources:   packageSources,
		results:          results,
	}
}

// Execute runs one update and, when the request names an output path,
// persists the classified outcome there.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	request = request.ResolveWorkspacePath()
	if request.IsDowngrade() {
		logger.Warnf(
			"Updating %s from %s to an older version %s",
			request.DependencyName, request.PreviousVersion, request.NewVersion,
		)
	}

	logger.Debugf("Updaters in run order: %v", it.updaterRegistry.Names())

	run := &updateRun{
		command:  it,
		settings: settings,
		request:  request,
		visited:  entities.NewVisitedSet(),
	}
	runErr := run.execute(ctx)
	logger.Debugf("Visited %d project(s) for %s", run.visited.Len(), request.DependencyName)
	run.visited.Clear()

	result, classifyErr := it.classify(runErr, request.WorkspacePath, settings)
	if classifyErr != nil {
		return entities.UpdateOperationResult{}, classifyErr
	}

	if result.IsSuccess() {
		logger.Info("Update complete.")
	} else {
		logger.Warnf("Update failed with %s: %s", result.ErrorType, result.ErrorDetails)
	}

	if request.ResultOutputPath != "" {
		logger.Infof("  Writing update result to [%s].", request.ResultOutputPath)
		if writeErr := it.results.Write(result, request.ResultOutputPath); writeErr != nil {
			return result, fmt.Errorf("failed to write result file: %w", writeErr)
		}
	}

	return result, nil
}

// classify turns a run error into a result. A nil error is a success; an
// error matching neither known shape is returned as is.
func (it *UpdateCommand) classify(
	runErr error,
	workspacePath string,
	settings *entities.Settings,
) (entities.UpdateOperationResult, error) {
	if runErr == nil {
		return entities.UpdateOperationResult{}, nil
	}

	var statusErr *entities.HTTPStatusError
	if errors.As(runErr, &statusErr) && statusErr.IsAuthenticationFailure() {
		urls, sourceErr := it.packageSources.SourceURLs(workspacePath)
		if sourceErr != nil {
			return entities.UpdateOperationResult{}, fmt.Errorf(
				"failed to list package sources for %q: %w (while handling: %w)",
				workspacePath, sourceErr, runErr,
			)
		}
		if len(urls) == 0 && settings.PackageSources.Default != "" {
			urls = []string{settings.PackageSources.Default}
		}
		return entities.NewAuthenticationFailureResult("(" + strings.Join(urls, "|") + ")"), nil
	}

	var missingErr *entities.MissingFileError
	if errors.As(runErr, &missingErr) {
		return entities.NewMissingFileResult(missingErr.FilePath), nil
	}

	return entities.UpdateOperationResult{}, runErr
}

// updateRun holds the state of one Execute call. The visited set belongs to
// the run, never to the command, so concurrent or repeated runs never share it.
type updateRun struct {
	command  *UpdateCommand
	settings *entities.Settings
	request  entities.UpdateRequest
	visited  *entities.VisitedSet
}

func (r *updateRun) execute(ctx context.Context) error {
	if !r.request.IsTransitive {
		if err := r.updateRepository(ctx); err != nil {
			return err
		}
	}

	workspacePath := r.request.WorkspacePath
	switch kind := r.settings.Extensions.Classify(workspacePath); kind {
	case entities.ProjectKindSolution:
		return r.runForSolution(ctx, workspacePath)
	case entities.ProjectKindAggregator:
		return r.runForAggregator(ctx, workspacePath)
	case entities.ProjectKindProject:
		return r.runForProject(ctx, workspacePath)
	default:
		logger.Infof("File extension [%s] is not supported.", strings.ToLower(filepath.Ext(workspacePath)))
		return nil
	}
}

// updateRepository applies the repository-level pins in registration order.
// The first failure aborts the run before any later pin is attempted.
func (r *updateRun) updateRepository(ctx context.Context) error {
	for _, updater := range r.command.updaterRegistry.RepositoryUpdaters() {
		if !r.settings.IsUpdaterEnabled(updater.Name()) {
			logger.Debugf("[%s] Disabled by configuration, skipping", updater.Name())
			continue
		}
		if err := updater.Update(ctx, r.request); err != nil {
			return fmt.Errorf("[%s] failed to update repository pins: %w", updater.Name(), err)
		}
	}
	return nil
}

func (r *updateRun) runForSolution(ctx context.Context, solutionPath string) error {
	logger.Infof("Running for solution [%s]", r.request.RelativePath(solutionPath))

	projectPaths, err := r.command.graphExpander.ProjectsFromSolution(solutionPath)
	if err != nil {
		return fmt.Errorf("failed to read solution %q: %w", solutionPath, err)
	}

	for _, projectPath := range projectPaths {
		if projectErr := r.runForProject(ctx, projectPath); projectErr != nil {
			return projectErr
		}
	}
	return nil
}

func (r *updateRun) runForAggregator(ctx context.Context, aggregatorPath string) error {
	logger.Infof("Running for proj file [%s]", r.request.RelativePath(aggregatorPath))
	if !fileExists(aggregatorPath) {
		logger.Infof("File [%s] does not exist.", aggregatorPath)
		return nil
	}

	projectPaths, err := r.command.graphExpander.ProjectsFromProject(aggregatorPath)
	if err != nil {
		return fmt.Errorf("failed to read proj file %q: %w", aggregatorPath, err)
	}

	for _, projectPath := range projectPaths {
		// Paths that need MSBuild evaluation to resolve never exist as written.
		if !fileExists(projectPath) {
			continue
		}
		if projectErr := r.runForProject(ctx, projectPath); projectErr != nil {
			return projectErr
		}
	}

	return r.updateProject(ctx, aggregatorPath, true)
}

// runForProject updates the projects referenced by projectPath and then the
// project itself, so referenced projects are settled before their referrer.
func (r *updateRun) runForProject(ctx context.Context, projectPath string) error {
	logger.Infof("Running for project file [%s]", r.request.RelativePath(projectPath))
	if !fileExists(projectPath) {
		logger.Infof("File [%s] does not exist.", projectPath)
		return nil
	}

	referencedPaths, err := r.command.graphExpander.ProjectsFromProject(projectPath)
	if err != nil {
		return fmt.Errorf("failed to read project %q: %w", projectPath, err)
	}

	for _, path := range append(slices.Clone(referencedPaths), projectPath) {
		if !fileExists(path) {
			continue
		}
		if updateErr := r.updateProject(ctx, path, false); updateErr != nil {
			return updateErr
		}
	}
	return nil
}

// updateProject runs the project updaters against path unless it was already
// handled in this run. With onlyIfConcrete the file is skipped, and left
// unvisited, when it carries no manifest style.
func (r *updateRun) updateProject(ctx context.Context, path string, onlyIfConcrete bool) error {
	if r.visited.Contains(path) {
		logger.Debugf("Project [%s] already updated, skipping", path)
		return nil
	}

	project, err := r.command.projectInspector.Inspect(path)
	if err != nil {
		return fmt.Errorf("failed to inspect project %q: %w", path, err)
	}
	if onlyIfConcrete && !project.IsConcrete() {
		logger.Debugf("File [%s] declares no packages, skipping", path)
		return nil
	}

	r.visited.Add(path)
	logger.Infof("Updating project [%s]", path)

	for _, updater := range r.command.updaterRegistry.ProjectUpdaters() {
		if !r.settings.IsUpdaterEnabled(updater.Name()) || !updater.Detect(project) {
			continue
		}
		if updateErr := updater.Update(ctx, r.request, project); updateErr != nil {
			return fmt.Errorf("[%s] failed to update %q: %w", updater.Name(), path, updateErr)
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
