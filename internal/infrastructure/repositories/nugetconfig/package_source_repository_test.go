//go:build unit

package nugetconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/nugetconfig"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestPackageSourceRepository_SourceURLs(t *testing.T) {
	t.Parallel()

	t.Run("should merge configs from the closest directory outwards", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeConfig(t, filepath.Join(root, "NuGet.Config"), `<configuration>
  <packageSources>
    <add key="nuget.org" value="https://api.nuget.org/v3/index.json" />
    <add key="company" value="https://outer.example.com/v3/index.json" />
  </packageSources>
</configuration>`)
		writeConfig(t, filepath.Join(root, "src", "nuget.config"), `<configuration>
  <packageSources>
    <add key="company" value="https://pkgs.example.com/v3/index.json" />
  </packageSources>
</configuration>`)
		repo := &nugetconfig.PackageSourceRepository{}

		// when
		urls, err := repo.SourceURLs(filepath.Join(root, "src", "All.sln"))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://pkgs.example.com/v3/index.json",
			"https://api.nuget.org/v3/index.json",
		}, urls)
	})

	t.Run("should stop at a clear element", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		userConfig := filepath.Join(root, "user", "NuGet.Config")
		writeConfig(t, userConfig, `<configuration>
  <packageSources>
    <add key="nuget.org" value="https://api.nuget.org/v3/index.json" />
  </packageSources>
</configuration>`)
		writeConfig(t, filepath.Join(root, "repo", "NuGet.Config"), `<configuration>
  <packageSources>
    <clear />
    <add key="mirror" value="https://mirror.example.com/v3/index.json" />
  </packageSources>
</configuration>`)
		repo := &nugetconfig.PackageSourceRepository{UserConfigPath: userConfig}

		// when
		urls, err := repo.SourceURLs(filepath.Join(root, "repo", "App.csproj"))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"https://mirror.example.com/v3/index.json"}, urls)
	})

	t.Run("should drop disabled sources and resolve folder sources", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeConfig(t, filepath.Join(root, "NuGet.Config"), `<configuration>
  <packageSources>
    <add key="local" value="packages/local" />
    <add key="legacy" value="https://legacy.example.com/v3/index.json" />
  </packageSources>
  <disabledPackageSources>
    <add key="legacy" value="true" />
  </disabledPackageSources>
</configuration>`)
		repo := &nugetconfig.PackageSourceRepository{}

		// when
		urls, err := repo.SourceURLs(filepath.Join(root, "All.sln"))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "packages", "local")}, urls)
	})

	t.Run("should fail on a malformed config", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeConfig(t, filepath.Join(root, "NuGet.Config"), `<configuration><packageSources>`)
		repo := &nugetconfig.PackageSourceRepository{}

		// when
		_, err := repo.SourceURLs(filepath.Join(root, "All.sln"))

		// then
		require.Error(t, err)
	})
}

func TestPackageSourceRepository_Sources(t *testing.T) {
	t.Run("should attach credentials to their source", func(t *testing.T) {
		// given
		t.Setenv("DEPENDENCY_TOOLKIT_FEED_TOKEN", "s3cret")
		root := t.TempDir()
		writeConfig(t, filepath.Join(root, "NuGet.Config"), `<configuration>
  <packageSources>
    <add key="nuget.org" value="https://api.nuget.org/v3/index.json" />
    <add key="Company Feed" value="https://pkgs.example.com/v3/index.json" />
  </packageSources>
  <packageSourceCredentials>
    <Company_x0020_Feed>
      <add key="Username" value="build" />
      <add key="ClearTextPassword" value="%DEPENDENCY_TOOLKIT_FEED_TOKEN%" />
    </Company_x0020_Feed>
  </packageSourceCredentials>
</configuration>`)
		repo := &nugetconfig.PackageSourceRepository{}

		// when
		sources, err := repo.Sources(filepath.Join(root, "All.sln"))

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.PackageSource{
			{Name: "nuget.org", URL: "https://api.nuget.org/v3/index.json"},
			{
				Name:     "Company Feed",
				URL:      "https://pkgs.example.com/v3/index.json",
				Username: "build",
				Password: "s3cret",
			},
		}, sources)
	})

	t.Run("should prefer the closest credentials and keep unset variables as written", func(t *testing.T) {
		// given
		root := t.TempDir()
		userConfig := filepath.Join(root, "user", "NuGet.Config")
		writeConfig(t, userConfig, `<configuration>
  <packageSourceCredentials>
    <company>
      <add key="Username" value="someone-else" />
      <add key="ClearTextPassword" value="outer" />
    </company>
  </packageSourceCredentials>
</configuration>`)
		writeConfig(t, filepath.Join(root, "repo", "NuGet.Config"), `<configuration>
  <packageSources>
    <add key="company" value="https://pkgs.example.com/v3/index.json" />
  </packageSources>
  <packageSourceCredentials>
    <Company>
      <add key="Username" value="build" />
      <add key="ClearTextPassword" value="%DEPENDENCY_TOOLKIT_UNSET_TOKEN%" />
    </Company>
  </packageSourceCredentials>
</configuration>`)
		repo := &nugetconfig.PackageSourceRepository{UserConfigPath: userConfig}

		// when
		sources, err := repo.Sources(filepath.Join(root, "repo", "App.csproj"))

		// then
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "build", sources[0].Username)
		assert.Equal(t, "%DEPENDENCY_TOOLKIT_UNSET_TOKEN%", sources[0].Password)
	})
}
