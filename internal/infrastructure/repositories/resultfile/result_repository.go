package resultfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

const (
	resultFileMode = 0o644
	resultDirMode  = 0o755
)

// ResultRepository writes the run outcome as indented JSON.
type ResultRepository struct{}

// NewResultRepository creates a new JSON result writer.
func NewResultRepository() repositories.ResultRepository {
	return &ResultRepository{}
}

// Write serializes result to outputPath, creating parent directories.
func (r *ResultRepository) Write(result entities.UpdateOperationResult, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(outputPath), resultDirMode); mkdirErr != nil {
		return fmt.Errorf("failed to create result directory: %w", mkdirErr)
	}
	if writeErr := os.WriteFile(outputPath, data, resultFileMode); writeErr != nil {
		return fmt.Errorf("failed to write result to %q: %w", outputPath, writeErr)
	}
	return nil
}
