package msbuild

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

const packagesConfigFileName = "packages.config"

// packageItemTypes are the item types that pin package versions inline.
var packageItemTypes = map[string]bool{
	"PackageReference":       true,
	"PackageVersion":         true,
	"GlobalPackageReference": true,
}

// ProjectInspectorRepository detects which manifest styles a project uses.
type ProjectInspectorRepository struct{}

// NewProjectInspectorRepository creates a new project inspector.
func NewProjectInspectorRepository() repositories.ProjectInspectorRepository {
	return &ProjectInspectorRepository{}
}

// Inspect reads projectPath and looks for a packages.config sidecar.
func (r *ProjectInspectorRepository) Inspect(projectPath string) (entities.ConcreteProject, error) {
	content, err := readManifest(projectPath)
	if err != nil {
		return entities.ConcreteProject{}, err
	}

	hasReferences, parseErr := declaresPackages(content)
	if parseErr != nil {
		return entities.ConcreteProject{}, fmt.Errorf("failed to parse %q: %w", projectPath, parseErr)
	}

	return entities.ConcreteProject{
		Path:                projectPath,
		LegacyManifestPath:  findPackagesConfig(projectPath),
		HasReferenceSection: hasReferences,
	}, nil
}

func declaresPackages(content []byte) (bool, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if start, ok := token.(xml.StartElement); ok && packageItemTypes[start.Name.Local] {
			return true, nil
		}
	}
}

// findPackagesConfig returns the project's packages.config, accepting the
// per-project `packages.<ProjectName>.config` form too. File names are
// compared without regard to case.
func findPackagesConfig(projectPath string) string {
	dir := filepath.Dir(projectPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	projectName := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	candidates := []string{
		"packages." + projectName + ".config",
		packagesConfigFileName,
	}

	for _, candidate := range candidates {
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(entry.Name(), candidate) {
				return filepath.Join(dir, entry.Name())
			}
		}
	}
	return ""
}
