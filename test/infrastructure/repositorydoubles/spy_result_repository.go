//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// SpyResultRepository implements repositories.ResultRepository as a spy.
type SpyResultRepository struct {
	WriteErr    error
	Written     []entities.UpdateOperationResult
	OutputPaths []string
}

var _ repositories.ResultRepository = (*SpyResultRepository)(nil)

func (s *SpyResultRepository) Write(result entities.UpdateOperationResult, outputPath string) error {
	s.Written = append(s.Written, result)
	s.OutputPaths = append(s.OutputPaths, outputPath)
	return s.WriteErr
}
