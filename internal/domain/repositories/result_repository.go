package repositories

import "github.com/khulnasoft/dependency-toolkit/internal/domain/entities"

// ResultRepository persists the outcome of a run.
type ResultRepository interface {
	Write(result entities.UpdateOperationResult, outputPath string) error
}
