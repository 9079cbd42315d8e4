//go:build unit

package msbuild //nolint:testpackage // tests unexported functions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classicSolution = `
Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "App", "src\App\App.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "tests", "tests", "{22222222-2222-2222-2222-222222222222}"
EndProject
Project("{F2A71F9B-5D33-465A-A702-920D77279786}") = "Lib", "src\Lib\Lib.fsproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
Project("{E24C65DC-7377-472B-9ABA-BC803B73C61A}") = "Site", "http://localhost/Site", "{44444444-4444-4444-4444-444444444444}"
EndProject
Global
EndGlobal
`

func TestParseSolution(t *testing.T) {
	t.Parallel()

	t.Run("should list MSBuild projects in file order", func(t *testing.T) {
		t.Parallel()

		// given
		dir := "/repo"

		// when
		paths, err := parseSolution([]byte(classicSolution), dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "src", "App", "App.csproj"),
			filepath.Join(dir, "src", "Lib", "Lib.fsproj"),
		}, paths)
	})

	t.Run("should return nothing for a solution without projects", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte("Global\nEndGlobal\n")

		// when
		paths, err := parseSolution(content, "/repo")

		// then
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}

func TestParseSolutionXML(t *testing.T) {
	t.Parallel()

	t.Run("should list projects from folders and the root", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`<Solution>
  <Folder Name="/src/">
    <Project Path="src/App/App.csproj" />
    <File Path="README.md" />
  </Folder>
  <Project Path="build\Build.proj" />
</Solution>`)

		// when
		paths, err := parseSolutionXML(content, "/repo")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join("/repo", "src", "App", "App.csproj"),
			filepath.Join("/repo", "build", "Build.proj"),
		}, paths)
	})

	t.Run("should fail on malformed XML", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte(`<Solution><Project Path="a.csproj">`)

		// when
		_, err := parseSolutionXML(content, "/repo")

		// then
		require.Error(t, err)
	})
}

func TestIsMSBuildProjectFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "should accept csproj", path: "App.csproj", expected: true},
		{name: "should accept upper case vbproj", path: `src\Legacy.VBPROJ`, expected: true},
		{name: "should accept aggregators", path: "Build.proj", expected: true},
		{name: "should reject folders", path: "tests", expected: false},
		{name: "should reject web site entries", path: "http://localhost/Site", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			path := tt.path

			// when
			result := isMSBuildProjectFile(path)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExpandInclude(t *testing.T) {
	t.Parallel()

	t.Run("should return a plain include only when it exists", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "src", "App", "App.csproj"), "<Project />")

		// when
		existing, existingErr := expandInclude(root, `src\App\App.csproj`)
		missing, missingErr := expandInclude(root, `src\Gone\Gone.csproj`)

		// then
		require.NoError(t, existingErr)
		require.NoError(t, missingErr)
		assert.Equal(t, []string{filepath.Join(root, "src", "App", "App.csproj")}, existing)
		assert.Empty(t, missing)
	})

	t.Run("should match recursive wildcards regardless of case", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "src", "App.csproj"), "<Project />")
		writeFile(t, filepath.Join(root, "src", "deep", "Lib", "LIB.CSPROJ"), "<Project />")
		writeFile(t, filepath.Join(root, "src", "deep", "Lib", "notes.txt"), "")

		// when
		matches, err := expandInclude(root, `src\**\*.csproj`)

		// then
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "src", "App.csproj"),
			filepath.Join(root, "src", "deep", "Lib", "LIB.CSPROJ"),
		}, matches)
	})

	t.Run("should return nothing when the wildcard root is missing", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()

		// when
		matches, err := expandInclude(root, "missing/*.csproj")

		// then
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestMatchSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  []string
		segments []string
		expected bool
	}{
		{name: "should let ** match zero segments", pattern: []string{"**", "*.proj"}, segments: []string{"a.proj"}, expected: true},
		{name: "should let ** match many segments", pattern: []string{"**", "*.proj"}, segments: []string{"x", "y", "a.proj"}, expected: true},
		{name: "should not let * cross directories", pattern: []string{"*.proj"}, segments: []string{"x", "a.proj"}, expected: false},
		{name: "should require every segment to match", pattern: []string{"src", "*.csproj"}, segments: []string{"test", "a.csproj"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			pattern, segments := tt.pattern, tt.segments

			// when
			result := matchSegments(pattern, segments)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
