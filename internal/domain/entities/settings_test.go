//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dependency-toolkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should fill defaults for an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, "")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultExtensionSettings(), settings.Extensions)
		assert.Equal(t, "https://api.nuget.org/v3/index.json", settings.PackageSources.Default)
		assert.True(t, settings.IsUpdaterEnabled("packages-config"))
	})

	t.Run("should read custom extensions and disabled updaters", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, `
extensions:
  project: [".csproj", ".sqlproj"]
updaters:
  global-json:
    enabled: false
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{".csproj", ".sqlproj"}, settings.Extensions.Project)
		assert.Equal(t, []string{".sln", ".slnx"}, settings.Extensions.Solution)
		assert.False(t, settings.IsUpdaterEnabled("global-json"))
		assert.True(t, settings.IsUpdaterEnabled("dotnet-tools"))
	})

	t.Run("should expand environment variable references", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_PRIVATE_FEED", "https://pkgs.example.com/nuget/v3/index.json")
		path := writeSettingsFile(t, "package_sources:\n  default: ${TEST_PRIVATE_FEED}\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://pkgs.example.com/nuget/v3/index.json", settings.PackageSources.Default)
	})

	t.Run("should reject a suffix listed under two kinds", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, `
extensions:
  aggregator: [".proj"]
  project: [".csproj", ".proj"]
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already listed")
	})

	t.Run("should reject a suffix listed under two kinds in different case", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, `
extensions:
  solution: [".sln"]
  project: [".csproj", ".SLN"]
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `".SLN" is already listed under extensions.solution`)
	})

	t.Run("should reject a suffix without a leading dot", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeSettingsFile(t, "extensions:\n  solution: [\"sln\"]\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with a dot")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "absent.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("should fall back to the home directory", func(t *testing.T) {
		// given
		home := t.TempDir()
		t.Chdir(t.TempDir())
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)
		homedir.DisableCache = true
		t.Cleanup(func() { homedir.DisableCache = false })
		expected := filepath.Join(home, ".config", "dependency-toolkit.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(expected), 0o755))
		require.NoError(t, os.WriteFile(expected, []byte("updaters: {}\n"), 0o600))

		// when
		path, err := entities.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})
}
