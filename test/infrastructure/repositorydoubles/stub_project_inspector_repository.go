//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// StubProjectInspectorRepository implements
// repositories.ProjectInspectorRepository. Paths without a configured entry
// are reported as projects with an inline reference section.
type StubProjectInspectorRepository struct {
	Projects   map[string]entities.ConcreteProject
	InspectErr error
	Inspected  []string
}

var _ repositories.ProjectInspectorRepository = (*StubProjectInspectorRepository)(nil)

func (s *StubProjectInspectorRepository) Inspect(projectPath string) (entities.ConcreteProject, error) {
	s.Inspected = append(s.Inspected, projectPath)
	if s.InspectErr != nil {
		return entities.ConcreteProject{}, s.InspectErr
	}
	if project, ok := s.Projects[projectPath]; ok {
		project.Path = projectPath
		return project, nil
	}
	return entities.ConcreteProject{Path: projectPath, HasReferenceSection: true}, nil
}
