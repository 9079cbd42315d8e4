//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/dig"

	domainRepos "github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories"
	doubles "github.com/khulnasoft/dependency-toolkit/test/infrastructure/repositorydoubles"
)

func TestUpdaterRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should keep registration order within each stage", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewUpdaterRegistry()
		registry.RegisterProjectUpdater(&doubles.SpyProjectUpdaterRepository{UpdaterName: "packages-config"})
		registry.RegisterRepositoryUpdater(&doubles.SpyRepositoryUpdaterRepository{UpdaterName: "dotnet-tools"})
		registry.RegisterProjectUpdater(&doubles.SpyProjectUpdaterRepository{UpdaterName: "package-reference"})
		registry.RegisterRepositoryUpdater(&doubles.SpyRepositoryUpdaterRepository{UpdaterName: "global-json"})

		// when
		names := registry.Names()

		// then
		assert.Equal(t, []string{"dotnet-tools", "global-json", "packages-config", "package-reference"}, names)
		assert.Len(t, registry.RepositoryUpdaters(), 2)
		assert.Len(t, registry.ProjectUpdaters(), 2)
	})
}

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should wire the updaters in execution order", func(t *testing.T) {
		t.Parallel()

		// given
		container := dig.New()

		// when
		err := repositories.RegisterProviders(container)

		// then
		assert.NoError(t, err)
		invokeErr := container.Invoke(func(
			registry *repositories.UpdaterRegistry,
			_ domainRepos.GraphExpanderRepository,
			_ domainRepos.ProjectInspectorRepository,
			_ domainRepos.ResultRepository,
			_ domainRepos.WorkspaceRepository,
		) {
			assert.Equal(t, []string{"dotnet-tools", "global-json", "packages-config", "package-reference"}, registry.Names())
		})
		assert.NoError(t, invokeErr)
	})
}
