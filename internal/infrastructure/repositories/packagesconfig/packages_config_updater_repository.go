package packagesconfig

import (
	"context"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/manifestfile"
)

const updaterName = "packages-config"

var (
	packageElementPattern = regexp.MustCompile(`<package\s[^>]*>`)
	idAttributePattern    = regexp.MustCompile(`\bid\s*=\s*"([^"]*)"`)
	versionAttrPattern    = regexp.MustCompile(`\bversion\s*=\s*"([^"]*)"`)
)

// PackagesConfigUpdaterRepository updates projects that restore through a
// packages.config file. Besides the manifest entry it moves the HintPath
// references in the project file to the new package folder.
type PackagesConfigUpdaterRepository struct{}

// NewPackagesConfigUpdaterRepository creates a new packages.config updater.
func NewPackagesConfigUpdaterRepository() repositories.ProjectUpdaterRepository {
	return &PackagesConfigUpdaterRepository{}
}

func (u *PackagesConfigUpdaterRepository) Name() string { return updaterName }

// Detect returns true if the project has a packages.config next to it.
func (u *PackagesConfigUpdaterRepository) Detect(project entities.ConcreteProject) bool {
	return project.HasLegacyManifest()
}

// Update bumps the package entry in packages.config and the matching
// HintPath folders in the project file.
func (u *PackagesConfigUpdaterRepository) Update(
	_ context.Context,
	request entities.UpdateRequest,
	project entities.ConcreteProject,
) error {
	logger.Infof("[%s] Updating [%s]", updaterName, project.LegacyManifestPath)

	manifest, err := manifestfile.Read(project.LegacyManifestPath)
	if err != nil {
		return err
	}

	updatedManifest, found := bumpPackageEntry(manifest, request)
	if !found {
		logger.Debugf(
			"[%s] %s %s not listed in [%s]",
			updaterName, request.DependencyName, request.PreviousVersion, project.LegacyManifestPath,
		)
		return nil
	}
	if _, err = manifestfile.Write(updaterName, project.LegacyManifestPath, manifest, updatedManifest); err != nil {
		return err
	}

	projectContent, err := manifestfile.Read(project.Path)
	if err != nil {
		return err
	}
	_, err = manifestfile.Write(updaterName, project.Path, projectContent, bumpHintPaths(projectContent, request))
	return err
}

// bumpPackageEntry rewrites the version of every <package> element whose id
// is the dependency and whose version is the previous one.
func bumpPackageEntry(content string, request entities.UpdateRequest) (string, bool) {
	found := false
	updated := packageElementPattern.ReplaceAllStringFunc(content, func(element string) string {
		id := idAttributePattern.FindStringSubmatch(element)
		if id == nil || !strings.EqualFold(id[1], request.DependencyName) {
			return element
		}
		loc := versionAttrPattern.FindStringSubmatchIndex(element)
		if loc == nil || !strings.EqualFold(element[loc[2]:loc[3]], request.PreviousVersion) {
			return element
		}
		found = true
		return element[:loc[2]] + request.NewVersion + element[loc[3]:]
	})
	return updated, found
}

// bumpHintPaths moves `<id>.<previous>` package folder segments, as used by
// HintPath and Import elements, to the new version.
func bumpHintPaths(content string, request entities.UpdateRequest) string {
	folderPattern := regexp.MustCompile(
		`([\\/](?i:` + regexp.QuoteMeta(request.DependencyName) + `)\.)` +
			`(?i:` + regexp.QuoteMeta(request.PreviousVersion) + `)([\\/])`,
	)
	return folderPattern.ReplaceAllString(content, "${1}"+strings.ReplaceAll(request.NewVersion, "$", "$$")+"${2}")
}
