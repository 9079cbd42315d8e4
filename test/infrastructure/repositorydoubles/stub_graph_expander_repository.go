//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// StubGraphExpanderRepository implements repositories.GraphExpanderRepository
// from fixed path maps and records which files were expanded.
type StubGraphExpanderRepository struct {
	// --- ProjectsFromSolution ---
	SolutionProjects  map[string][]string // solution path -> project paths
	SolutionErr       error
	ExpandedSolutions []string

	// --- ProjectsFromProject ---
	ProjectReferences map[string][]string // project path -> referenced paths
	ProjectErrs       map[string]error
	ExpandedProjects  []string
}

var _ repositories.GraphExpanderRepository = (*StubGraphExpanderRepository)(nil)

func (s *StubGraphExpanderRepository) ProjectsFromSolution(solutionPath string) ([]string, error) {
	s.ExpandedSolutions = append(s.ExpandedSolutions, solutionPath)
	if s.SolutionErr != nil {
		return nil, s.SolutionErr
	}
	return s.SolutionProjects[solutionPath], nil
}

func (s *StubGraphExpanderRepository) ProjectsFromProject(projectPath string) ([]string, error) {
	s.ExpandedProjects = append(s.ExpandedProjects, projectPath)
	if err, ok := s.ProjectErrs[projectPath]; ok {
		return nil, err
	}
	return s.ProjectReferences[projectPath], nil
}
