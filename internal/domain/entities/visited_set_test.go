//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

func TestVisitedSet(t *testing.T) {
	t.Parallel()

	t.Run("should report newly added paths", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewVisitedSet()

		// when
		added := set.Add("/repo/src/App/App.csproj")

		// then
		assert.True(t, added)
		assert.True(t, set.Contains("/repo/src/App/App.csproj"))
		assert.Equal(t, 1, set.Len())
	})

	t.Run("should treat paths differing only in case as the same project", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewVisitedSet()
		set.Add("/repo/src/App/App.csproj")

		// when
		added := set.Add("/REPO/src/app/APP.CSPROJ")

		// then
		assert.False(t, added)
		assert.True(t, set.Contains("/repo/SRC/app/app.csproj"))
		assert.Equal(t, 1, set.Len())
	})

	t.Run("should treat uncleaned paths as the same project", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewVisitedSet()
		set.Add("/repo/src/Lib/Lib.csproj")

		// when
		contains := set.Contains("/repo/src/App/../Lib/Lib.csproj")

		// then
		assert.True(t, contains)
	})

	t.Run("should forget everything after Clear", func(t *testing.T) {
		t.Parallel()

		// given
		set := entities.NewVisitedSet()
		set.Add("/repo/a.csproj")
		set.Add("/repo/b.csproj")

		// when
		set.Clear()

		// then
		assert.Zero(t, set.Len())
		assert.False(t, set.Contains("/repo/a.csproj"))
	})
}
