package repositories

import (
	"context"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

// PackageFeedRepository queries a package source for published versions.
type PackageFeedRepository interface {
	// HasVersion reports whether the source publishes version of packageID.
	// A source the implementation cannot query returns
	// entities.ErrUnsupportedPackageSource; a source that refuses the request
	// returns an *entities.HTTPStatusError.
	HasVersion(ctx context.Context, source entities.PackageSource, packageID, version string) (bool, error)
}
