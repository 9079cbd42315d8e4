//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// StubPackageSourceRepository implements repositories.PackageSourceRepository.
// Each URL becomes an anonymous source unless Credentials holds one for it.
type StubPackageSourceRepository struct {
	URLs                []string
	Credentials         map[string]entities.PackageSource
	SourceErr           error
	RequestedWorkspaces []string
}

var _ repositories.PackageSourceRepository = (*StubPackageSourceRepository)(nil)

func (s *StubPackageSourceRepository) Sources(workspacePath string) ([]entities.PackageSource, error) {
	s.RequestedWorkspaces = append(s.RequestedWorkspaces, workspacePath)
	if s.SourceErr != nil {
		return nil, s.SourceErr
	}
	sources := make([]entities.PackageSource, 0, len(s.URLs))
	for _, url := range s.URLs {
		source, ok := s.Credentials[url]
		if !ok {
			source = entities.PackageSource{Name: url}
		}
		source.URL = url
		sources = append(sources, source)
	}
	return sources, nil
}

func (s *StubPackageSourceRepository) SourceURLs(workspacePath string) ([]string, error) {
	s.RequestedWorkspaces = append(s.RequestedWorkspaces, workspacePath)
	return s.URLs, s.SourceErr
}
