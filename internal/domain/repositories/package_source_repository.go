package repositories

import "github.com/khulnasoft/dependency-toolkit/internal/domain/entities"

// PackageSourceRepository lists the package sources configured for a
// workspace, in the order NuGet would consult them.
type PackageSourceRepository interface {
	// Sources returns the enabled sources with their credentials.
	Sources(workspacePath string) ([]entities.PackageSource, error)
	// SourceURLs returns the URLs of Sources.
	SourceURLs(workspacePath string) ([]string, error)
}
