//go:build unit

package packagereference //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

func newtonsoftRequest() entities.UpdateRequest {
	return entities.UpdateRequest{
		DependencyName:  "Newtonsoft.Json",
		PreviousVersion: "12.0.1",
		NewVersion:      "13.0.3",
	}
}

func TestBumpItems(t *testing.T) {
	t.Parallel()

	t.Run("should bump attribute, child element and exact range versions", func(t *testing.T) {
		t.Parallel()

		// given
		content := `<Project>
  <ItemGroup>
    <PackageReference Include="newtonsoft.json" Version="12.0.1" />
    <PackageVersion Include="Newtonsoft.Json">
      <Version>12.0.1</Version>
    </PackageVersion>
    <PackageReference Update="Newtonsoft.Json" VersionOverride="[12.0.1]" />
    <PackageReference Include="Serilog" Version="12.0.1" />
  </ItemGroup>
</Project>`

		// when
		updated, scan := bumpItems(content, newtonsoftRequest())

		// then
		assert.True(t, scan.referenced)
		assert.True(t, scan.versioned)
		assert.Empty(t, scan.properties)
		assert.Contains(t, updated, `<PackageReference Include="newtonsoft.json" Version="13.0.3" />`)
		assert.Contains(t, updated, `<Version>13.0.3</Version>`)
		assert.Contains(t, updated, `VersionOverride="[13.0.3]"`)
		assert.Contains(t, updated, `<PackageReference Include="Serilog" Version="12.0.1" />`)
	})

	t.Run("should report property-based versions instead of editing them", func(t *testing.T) {
		t.Parallel()

		// given
		content := `<PackageReference Include="Newtonsoft.Json" Version="$(NewtonsoftVersion)" />`

		// when
		updated, scan := bumpItems(content, newtonsoftRequest())

		// then
		assert.True(t, scan.referenced)
		assert.Equal(t, []string{"NewtonsoftVersion"}, scan.properties)
		assert.Equal(t, content, updated)
	})

	t.Run("should leave entries at another version untouched", func(t *testing.T) {
		t.Parallel()

		// given
		content := `<PackageReference Include="Newtonsoft.Json" Version="11.0.2" />`

		// when
		updated, scan := bumpItems(content, newtonsoftRequest())

		// then
		assert.True(t, scan.referenced)
		assert.Equal(t, content, updated)
	})
}

func TestBumpItems_CentralVersionOnly(t *testing.T) {
	t.Parallel()

	t.Run("should not count a central version as a reference", func(t *testing.T) {
		t.Parallel()

		// given
		content := `<PackageVersion Include="Newtonsoft.Json" Version="13.0.3" />`

		// when
		_, scan := bumpItems(content, newtonsoftRequest())

		// then
		assert.False(t, scan.referenced)
		assert.True(t, scan.versioned)
	})
}

func TestBumpProperties(t *testing.T) {
	t.Parallel()

	t.Run("should follow property indirection across documents", func(t *testing.T) {
		t.Parallel()

		// given
		props := `<Project>
  <PropertyGroup>
    <NewtonsoftVersion>$(JsonStackVersion)</NewtonsoftVersion>
    <jsonstackversion Condition="'$(Os)' == ''"> 12.0.1 </jsonstackversion>
  </PropertyGroup>
</Project>`
		properties := resolveProperties([]string{props}, []string{"NewtonsoftVersion"})

		// when
		updated, changed := bumpProperties(props, properties, newtonsoftRequest())

		// then
		assert.Equal(t, []string{"NewtonsoftVersion", "JsonStackVersion"}, properties)
		assert.True(t, changed)
		assert.Contains(t, updated, `<jsonstackversion Condition="'$(Os)' == ''"> 13.0.3 </jsonstackversion>`)
		assert.Contains(t, updated, `<NewtonsoftVersion>$(JsonStackVersion)</NewtonsoftVersion>`)
	})
}

func TestInsertItem(t *testing.T) {
	t.Parallel()

	t.Run("should add the item after the last item of the same type", func(t *testing.T) {
		t.Parallel()

		// given
		content := "<Project>\r\n  <ItemGroup>\r\n    <PackageReference Include=\"A\">\r\n      <Version>1.0.0</Version>\r\n" +
			"    </PackageReference>\r\n  </ItemGroup>\r\n</Project>\r\n"

		// when
		updated, err := insertItem(content, "PackageReference", `<PackageReference Include="B" />`)

		// then
		require.NoError(t, err)
		assert.Equal(t, "<Project>\r\n  <ItemGroup>\r\n    <PackageReference Include=\"A\">\r\n      <Version>1.0.0</Version>\r\n"+
			"    </PackageReference>\r\n    <PackageReference Include=\"B\" />\r\n  </ItemGroup>\r\n</Project>\r\n", updated)
	})

	t.Run("should open a new item group when the type is absent", func(t *testing.T) {
		t.Parallel()

		// given
		content := "<Project Sdk=\"Microsoft.NET.Sdk\">\n  <PropertyGroup />\n</Project>\n"

		// when
		updated, err := insertItem(content, "PackageReference", `<PackageReference Include="B" Version="2.0.0" />`)

		// then
		require.NoError(t, err)
		assert.Equal(t, "<Project Sdk=\"Microsoft.NET.Sdk\">\n  <PropertyGroup />\n  <ItemGroup>\n"+
			"    <PackageReference Include=\"B\" Version=\"2.0.0\" />\n  </ItemGroup>\n</Project>\n", updated)
	})

	t.Run("should fail without a project element", func(t *testing.T) {
		t.Parallel()

		// given
		content := "<packages />"

		// when
		_, err := insertItem(content, "PackageReference", `<PackageReference Include="B" />`)

		// then
		require.Error(t, err)
	})
}
