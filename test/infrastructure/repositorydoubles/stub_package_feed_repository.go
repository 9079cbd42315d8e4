//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// StubPackageFeedRepository implements repositories.PackageFeedRepository.
// Published maps a source URL to the versions it serves; SourceErrs makes a
// source fail instead.
type StubPackageFeedRepository struct {
	Published  map[string][]string
	SourceErrs map[string]error
	Queried    []entities.PackageSource
}

var _ repositories.PackageFeedRepository = (*StubPackageFeedRepository)(nil)

func (s *StubPackageFeedRepository) HasVersion(
	_ context.Context,
	source entities.PackageSource,
	_, version string,
) (bool, error) {
	s.Queried = append(s.Queried, source)
	if err, ok := s.SourceErrs[source.URL]; ok {
		return false, err
	}
	for _, published := range s.Published[source.URL] {
		if published == version {
			return true, nil
		}
	}
	return false, nil
}
