package msbuild

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

const aggregatorExtension = ".proj"

// projectItemTypes are the item types whose Include names another project.
var projectItemTypes = map[string]bool{
	"ProjectReference": true,
	"ProjectFile":      true,
}

// GraphExpanderRepository reads solution and project files directly from
// disk. It does not evaluate MSBuild: includes that depend on properties are
// dropped, exactly like paths that do not exist.
type GraphExpanderRepository struct{}

// NewGraphExpanderRepository creates a new MSBuild graph expander.
func NewGraphExpanderRepository() repositories.GraphExpanderRepository {
	return &GraphExpanderRepository{}
}

// ProjectsFromSolution returns the MSBuild projects listed in a .sln or .slnx.
func (r *GraphExpanderRepository) ProjectsFromSolution(solutionPath string) ([]string, error) {
	content, err := readManifest(solutionPath)
	if err != nil {
		return nil, err
	}

	solutionDir := filepath.Dir(solutionPath)
	if strings.EqualFold(filepath.Ext(solutionPath), ".slnx") {
		return parseSolutionXML(content, solutionDir)
	}
	return parseSolution(content, solutionDir)
}

// ProjectsFromProject returns the project files referenced from projectPath
// through ProjectReference or ProjectFile items. Referenced .proj aggregators
// are opened and expanded in turn, each at most once; other project files
// are returned as found, without following their own references.
func (r *GraphExpanderRepository) ProjectsFromProject(projectPath string) ([]string, error) {
	content, err := readManifest(projectPath)
	if err != nil {
		return nil, err
	}

	type pending struct {
		dir     string
		content []byte
	}

	stack := []pending{{dir: filepath.Dir(projectPath), content: content}}
	expanded := entities.NewVisitedSet()
	expanded.Add(projectPath)

	var result []string
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		includes, parseErr := projectIncludes(current.content)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse project references: %w", parseErr)
		}

		for _, include := range includes {
			files, globErr := expandInclude(current.dir, include)
			if globErr != nil {
				return nil, fmt.Errorf("failed to expand %q: %w", include, globErr)
			}

			for _, file := range files {
				if !strings.EqualFold(filepath.Ext(file), aggregatorExtension) {
					if isMSBuildProjectFile(file) {
						result = append(result, file)
					}
					continue
				}
				if !expanded.Add(file) {
					continue
				}
				nested, readErr := os.ReadFile(file)
				if readErr != nil {
					logger.Debugf("Skipping unreadable proj file [%s]: %v", file, readErr)
					continue
				}
				stack = append(stack, pending{dir: filepath.Dir(file), content: nested})
			}
		}
	}

	return result, nil
}

// projectIncludes lists the Include values of project-referencing items, in
// document order. Semicolon-separated lists are split and includes that need
// property evaluation are dropped.
func projectIncludes(content []byte) ([]string, error) {
	var includes []string

	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok || !projectItemTypes[start.Name.Local] {
			continue
		}

		for _, include := range strings.Split(attributeValue(start, "Include"), ";") {
			include = strings.TrimSpace(include)
			if include == "" || strings.Contains(include, "$(") || strings.Contains(include, "@(") {
				continue
			}
			includes = append(includes, include)
		}
	}

	return includes, nil
}

// readManifest reads a solution or project file, reporting absence as a
// MissingFileError so the run can classify it.
func readManifest(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &entities.MissingFileError{FilePath: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return content, nil
}
