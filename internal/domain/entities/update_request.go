package entities

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// UpdateRequest describes a single dependency bump. It is built once per
// invocation and never mutated afterwards.
type UpdateRequest struct {
	RepoRootPath     string
	WorkspacePath    string // solution, aggregator or project file where traversal begins
	DependencyName   string
	PreviousVersion  string
	NewVersion       string
	IsTransitive     bool   // suppresses the repository-level updaters
	ResultOutputPath string // optional, empty means no artifact is written
}

// ResolveWorkspacePath returns a copy of the request whose workspace path is
// absolute. A path that is not rooted, or does not exist as given, is joined
// to the repository root.
func (r UpdateRequest) ResolveWorkspacePath() UpdateRequest {
	if filepath.IsAbs(r.WorkspacePath) {
		if _, err := os.Stat(r.WorkspacePath); err == nil {
			return r
		}
	}

	resolved := filepath.Join(r.RepoRootPath, r.WorkspacePath)
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	r.WorkspacePath = resolved
	return r
}

// RelativePath renders path relative to the repository root for log output,
// falling back to the path itself when it lies elsewhere.
func (r UpdateRequest) RelativePath(path string) string {
	rel, err := filepath.Rel(r.RepoRootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// IsDowngrade reports whether the new version sorts before the previous one.
// Versions that are not semver-comparable (e.g. four-part NuGet versions) are
// never considered downgrades.
func (r UpdateRequest) IsDowngrade() bool {
	previous := normalizeVersion(r.PreviousVersion)
	next := normalizeVersion(r.NewVersion)
	if !semver.IsValid(previous) || !semver.IsValid(next) {
		return false
	}
	return semver.Compare(next, previous) < 0
}

// normalizeVersion ensures version has a 'v' prefix for semver compatibility.
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
