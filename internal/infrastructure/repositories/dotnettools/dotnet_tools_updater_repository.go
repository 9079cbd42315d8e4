package dotnettools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/manifestfile"
)

const (
	updaterName      = "dotnet-tools"
	toolManifestPath = ".config/dotnet-tools.json"
)

type toolManifest struct {
	Tools map[string]struct {
		Version string `json:"version"`
	} `json:"tools"`
}

// DotnetToolsUpdaterRepository bumps a local tool pinned in the repository's
// .config/dotnet-tools.json manifest.
type DotnetToolsUpdaterRepository struct{}

// NewDotnetToolsUpdaterRepository creates a new tool manifest updater.
func NewDotnetToolsUpdaterRepository() repositories.RepositoryUpdaterRepository {
	return &DotnetToolsUpdaterRepository{}
}

func (u *DotnetToolsUpdaterRepository) Name() string { return updaterName }

// Update rewrites the tool's version in the manifest closest to the
// workspace, searching up to the repository root. A missing manifest or an
// absent tool leaves everything untouched.
func (u *DotnetToolsUpdaterRepository) Update(_ context.Context, request entities.UpdateRequest) error {
	path := manifestfile.FindNearest(filepath.Dir(request.WorkspacePath), request.RepoRootPath, toolManifestPath)
	if path == "" {
		logger.Debugf("[%s] No tool manifest found, skipping", updaterName)
		return nil
	}

	content, err := manifestfile.Read(path)
	if err != nil {
		return err
	}

	var manifest toolManifest
	if unmarshalErr := json.Unmarshal([]byte(content), &manifest); unmarshalErr != nil {
		return fmt.Errorf("failed to parse %q: %w", path, unmarshalErr)
	}

	toolName, version, ok := findTool(manifest, request.DependencyName)
	if !ok {
		logger.Debugf("[%s] %s is not a local tool, skipping", updaterName, request.DependencyName)
		return nil
	}
	if !strings.EqualFold(version, request.PreviousVersion) {
		logger.Infof(
			"[%s] %s is pinned at %s, expected %s; leaving it alone",
			updaterName, toolName, version, request.PreviousVersion,
		)
		return nil
	}

	pattern := regexp.MustCompile(
		`("` + regexp.QuoteMeta(toolName) + `"\s*:\s*\{[^{}]*?"version"\s*:\s*")` +
			`(?i:` + regexp.QuoteMeta(version) + `)(")`,
	)
	updated := replaceFirst(pattern, content, request.NewVersion)

	_, err = manifestfile.Write(updaterName, path, content, updated)
	return err
}

func findTool(manifest toolManifest, name string) (string, string, bool) {
	for toolName, tool := range manifest.Tools {
		if strings.EqualFold(toolName, name) {
			return toolName, tool.Version, true
		}
	}
	return "", "", false
}

// replaceFirst puts value between the two capture groups of the first match.
func replaceFirst(pattern *regexp.Regexp, content, value string) string {
	loc := pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[3]] + value + content[loc[4]:]
}
