//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// StubWorkspaceRepository implements repositories.WorkspaceRepository.
type StubWorkspaceRepository struct {
	Root      string
	RootErr   error
	Requested []string
}

var _ repositories.WorkspaceRepository = (*StubWorkspaceRepository)(nil)

func (s *StubWorkspaceRepository) FindRepositoryRoot(path string) (string, error) {
	s.Requested = append(s.Requested, path)
	return s.Root, s.RootErr
}
