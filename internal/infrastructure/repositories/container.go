package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/dotnettools"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/gitworkspace"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/globaljson"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/msbuild"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/nugetconfig"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/nugetfeed"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/packagereference"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/packagesconfig"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/resultfile"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		msbuild.NewGraphExpanderRepository,
		msbuild.NewProjectInspectorRepository,
		nugetconfig.NewPackageSourceRepository,
		nugetfeed.NewPackageFeedRepository,
		resultfile.NewResultRepository,
		gitworkspace.NewWorkspaceRepository,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register updater registry; registration order is execution order
	if err := container.Provide(func(
		sources domainRepos.PackageSourceRepository,
		feed domainRepos.PackageFeedRepository,
	) *UpdaterRegistry {
		reg := NewUpdaterRegistry()
		reg.RegisterRepositoryUpdater(dotnettools.NewDotnetToolsUpdaterRepository())
		reg.RegisterRepositoryUpdater(globaljson.NewGlobalJSONUpdaterRepository())
		reg.RegisterProjectUpdater(packagesconfig.NewPackagesConfigUpdaterRepository())
		reg.RegisterProjectUpdater(packagereference.NewPackageReferenceUpdaterRepository(sources, feed))
		return reg
	}); err != nil {
		return err
	}

	return nil
}
