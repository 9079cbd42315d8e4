//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

func TestExtensionSettingsClassify(t *testing.T) {
	t.Parallel()

	cases := map[string]entities.ProjectKind{
		"/repo/All.sln":               entities.ProjectKindSolution,
		"/repo/All.slnx":              entities.ProjectKindSolution,
		"/repo/Build.proj":            entities.ProjectKindAggregator,
		"/repo/src/App/App.csproj":    entities.ProjectKindProject,
		"/repo/src/App/App.CSPROJ":    entities.ProjectKindProject,
		"/repo/src/Lib/Lib.fsproj":    entities.ProjectKindProject,
		"/repo/src/Old/Old.vbproj":    entities.ProjectKindProject,
		"/repo/Directory.Build.props": entities.ProjectKindUnknown,
		"/repo/README":                entities.ProjectKindUnknown,
	}

	for path, expected := range cases {
		t.Run("should classify "+path, func(t *testing.T) {
			t.Parallel()

			// given
			extensions := entities.DefaultExtensionSettings()

			// when
			kind := extensions.Classify(path)

			// then
			assert.Equal(t, expected, kind)
		})
	}

	t.Run("should honour custom extension lists", func(t *testing.T) {
		t.Parallel()

		// given
		extensions := entities.ExtensionSettings{
			Project: []string{".sqlproj"},
		}

		// when
		kind := extensions.Classify("/repo/db/Db.sqlproj")

		// then
		assert.Equal(t, entities.ProjectKindProject, kind)
		assert.Equal(t, entities.ProjectKindUnknown, extensions.Classify("/repo/App.csproj"))
	})
}
