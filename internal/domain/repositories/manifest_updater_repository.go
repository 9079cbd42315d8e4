package repositories

import (
	"context"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

// RepositoryUpdaterRepository rewrites a repository-wide pin file (tool
// manifest, SDK pin). It runs at most once per run and is a no-op when the
// dependency does not appear in its file.
type RepositoryUpdaterRepository interface {
	// Name returns the updater identifier (e.g. "dotnet-tools").
	Name() string

	// Update applies the version change to the repository-level file.
	Update(ctx context.Context, request entities.UpdateRequest) error
}

// ProjectUpdaterRepository rewrites one manifest style of a single project.
type ProjectUpdaterRepository interface {
	// Name returns the updater identifier (e.g. "packages-config").
	Name() string

	// Detect returns true if the project carries this updater's manifest style.
	Detect(project entities.ConcreteProject) bool

	// Update applies the version change to the project.
	Update(ctx context.Context, request entities.UpdateRequest, project entities.ConcreteProject) error
}
