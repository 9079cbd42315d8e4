package packagereference

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/manifestfile"
)

const (
	updaterName         = "package-reference"
	centralPackagesFile = "Directory.Packages.props"
)

// buildFiles are the MSBuild files imported implicitly into every project
// below them. Only the closest of each name is considered.
var buildFiles = []string{
	"Directory.Build.props",
	"Directory.Build.targets",
	centralPackagesFile,
}

type document struct {
	path     string
	original string
	updated  string
	scan     itemScan
}

// PackageReferenceUpdaterRepository updates SDK-style package references:
// inline PackageReference items, central PackageVersion entries and the
// properties either of them take their version from. When no item references
// a transitive dependency it is pinned explicitly.
type PackageReferenceUpdaterRepository struct {
	sources repositories.PackageSourceRepository
	feed    repositories.PackageFeedRepository
}

// NewPackageReferenceUpdaterRepository creates a new package reference updater.
func NewPackageReferenceUpdaterRepository(
	sources repositories.PackageSourceRepository,
	feed repositories.PackageFeedRepository,
) repositories.ProjectUpdaterRepository {
	return &PackageReferenceUpdaterRepository{sources: sources, feed: feed}
}

func (u *PackageReferenceUpdaterRepository) Name() string { return updaterName }

// Detect always returns true: any project may carry package references
// through its imported build files even when it declares none itself.
func (u *PackageReferenceUpdaterRepository) Detect(entities.ConcreteProject) bool {
	return true
}

// Update bumps every matching entry in the project and its imported build
// files, then pins the dependency when it is transitive and still absent.
func (u *PackageReferenceUpdaterRepository) Update(
	ctx context.Context,
	request entities.UpdateRequest,
	project entities.ConcreteProject,
) error {
	documents, err := loadDocuments(request, project)
	if err != nil {
		return err
	}

	referenced := false
	var properties []string
	for _, doc := range documents {
		doc.updated, doc.scan = bumpItems(doc.updated, request)
		referenced = referenced || doc.scan.referenced
		properties = append(properties, doc.scan.properties...)
	}

	if len(properties) > 0 {
		contents := make([]string, 0, len(documents))
		for _, doc := range documents {
			contents = append(contents, doc.updated)
		}
		properties = resolveProperties(contents, properties)
		logger.Debugf("[%s] %s takes its version from %v", updaterName, request.DependencyName, properties)
		for _, doc := range documents {
			doc.updated, _ = bumpProperties(doc.updated, properties, request)
		}
	}

	if !referenced && request.IsTransitive && !project.HasLegacyManifest() {
		if pinErr := u.pinTransitive(ctx, request, project, documents); pinErr != nil {
			return pinErr
		}
	} else if !referenced {
		logger.Debugf("[%s] %s is not referenced by [%s]", updaterName, request.DependencyName, project.Path)
	}

	return writeDocuments(documents)
}

// pinTransitive adds an explicit reference so the new version wins over the
// one pulled in transitively. Under central package management the version
// goes to Directory.Packages.props and the project gets a versionless item;
// a PackageVersion already there, usually added for a sibling project, is
// reused as is.
func (u *PackageReferenceUpdaterRepository) pinTransitive(
	ctx context.Context,
	request entities.UpdateRequest,
	project entities.ConcreteProject,
	documents []*document,
) error {
	projectDoc := documents[0]
	versionless := fmt.Sprintf(`<PackageReference Include="%s" />`, request.DependencyName)
	contents := make([]string, 0, len(documents))
	for _, doc := range documents {
		contents = append(contents, doc.updated)
	}
	centrallyManaged := isCentrallyManaged(contents)
	centralDoc := findDocument(documents, centralPackagesFile)

	if centrallyManaged && centralDoc != nil && centralDoc.scan.versioned {
		logger.Infof("[%s] Referencing centrally versioned %s in [%s]",
			updaterName, request.DependencyName, project.Path)
		return insertInto(projectDoc, "PackageReference", versionless)
	}

	published, err := u.isPublished(ctx, request)
	if err != nil {
		return err
	}
	if !published {
		logger.Warnf(
			"[%s] %s %s is not published on any package source, not pinning it in [%s]",
			updaterName, request.DependencyName, request.NewVersion, project.Path,
		)
		return nil
	}

	if !centrallyManaged {
		logger.Infof("[%s] Pinning transitive %s to %s in [%s]",
			updaterName, request.DependencyName, request.NewVersion, project.Path)
		return insertInto(projectDoc, "PackageReference", fmt.Sprintf(
			`<PackageReference Include="%s" Version="%s" />`, request.DependencyName, request.NewVersion))
	}
	if centralDoc == nil {
		return &entities.MissingFileError{FilePath: filepath.Join(request.RepoRootPath, centralPackagesFile)}
	}

	logger.Infof("[%s] Pinning transitive %s to %s in [%s]",
		updaterName, request.DependencyName, request.NewVersion, centralDoc.path)
	if err = insertInto(centralDoc, "PackageVersion", fmt.Sprintf(
		`<PackageVersion Include="%s" Version="%s" />`, request.DependencyName, request.NewVersion)); err != nil {
		return err
	}
	return insertInto(projectDoc, "PackageReference", versionless)
}

// isPublished checks the workspace's package sources for the new version.
// Sources that cannot be queried are ignored; when none can be, the version
// is assumed to exist.
func (u *PackageReferenceUpdaterRepository) isPublished(ctx context.Context, request entities.UpdateRequest) (bool, error) {
	sources, err := u.sources.Sources(request.WorkspacePath)
	if err != nil {
		return false, fmt.Errorf("failed to list package sources: %w", err)
	}

	checked := 0
	for _, source := range sources {
		found, lookupErr := u.feed.HasVersion(ctx, source, request.DependencyName, request.NewVersion)
		if errors.Is(lookupErr, entities.ErrUnsupportedPackageSource) {
			logger.Debugf("[%s] Cannot query [%s], skipping it", updaterName, source.URL)
			continue
		}
		if lookupErr != nil {
			return false, lookupErr
		}
		checked++
		if found {
			return true, nil
		}
	}
	return checked == 0, nil
}

// loadDocuments reads the project and the closest of each implicitly
// imported build file between the project and the repository root. The
// project always comes first.
func loadDocuments(request entities.UpdateRequest, project entities.ConcreteProject) ([]*document, error) {
	content, err := manifestfile.Read(project.Path)
	if err != nil {
		return nil, err
	}
	documents := []*document{{path: project.Path, original: content, updated: content}}

	projectDir := filepath.Dir(project.Path)
	for _, name := range buildFiles {
		path := manifestfile.FindNearest(projectDir, request.RepoRootPath, name)
		if path == "" || path == project.Path {
			continue
		}
		buildContent, readErr := manifestfile.Read(path)
		if readErr != nil {
			return nil, readErr
		}
		documents = append(documents, &document{path: path, original: buildContent, updated: buildContent})
	}
	return documents, nil
}

func writeDocuments(documents []*document) error {
	for _, doc := range documents {
		if _, err := manifestfile.Write(updaterName, doc.path, doc.original, doc.updated); err != nil {
			return err
		}
	}
	return nil
}

func insertInto(doc *document, itemType, element string) error {
	updated, err := insertItem(doc.updated, itemType, element)
	if err != nil {
		return fmt.Errorf("failed to add %s to %q: %w", itemType, doc.path, err)
	}
	doc.updated = updated
	return nil
}

func findDocument(documents []*document, name string) *document {
	for _, doc := range documents[1:] {
		if strings.EqualFold(filepath.Base(doc.path), name) {
			return doc
		}
	}
	return nil
}
