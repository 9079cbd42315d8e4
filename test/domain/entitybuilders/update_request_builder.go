//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

// UpdateRequestBuilder helps create test update requests with a fluent interface.
type UpdateRequestBuilder struct {
	*testkit.BaseBuilder
	repoRootPath     string
	workspacePath    string
	dependencyName   string
	previousVersion  string
	newVersion       string
	isTransitive     bool
	resultOutputPath string
}

// NewUpdateRequestBuilder creates a new update request builder with sensible defaults.
func NewUpdateRequestBuilder() *UpdateRequestBuilder {
	return &UpdateRequestBuilder{
		BaseBuilder:     testkit.NewBaseBuilder(),
		repoRootPath:    "/repo",
		workspacePath:   "/repo/All.sln",
		dependencyName:  "Newtonsoft.Json",
		previousVersion: "12.0.1",
		newVersion:      "13.0.3",
	}
}

// WithRepoRootPath sets the repository root.
func (b *UpdateRequestBuilder) WithRepoRootPath(path string) *UpdateRequestBuilder {
	b.repoRootPath = path
	return b
}

// WithWorkspacePath sets the entry path.
func (b *UpdateRequestBuilder) WithWorkspacePath(path string) *UpdateRequestBuilder {
	b.workspacePath = path
	return b
}

// WithDependencyName sets the dependency name.
func (b *UpdateRequestBuilder) WithDependencyName(name string) *UpdateRequestBuilder {
	b.dependencyName = name
	return b
}

// WithPreviousVersion sets the previous version.
func (b *UpdateRequestBuilder) WithPreviousVersion(version string) *UpdateRequestBuilder {
	b.previousVersion = version
	return b
}

// WithNewVersion sets the new version.
func (b *UpdateRequestBuilder) WithNewVersion(version string) *UpdateRequestBuilder {
	b.newVersion = version
	return b
}

// WithTransitive marks the dependency as transitive.
func (b *UpdateRequestBuilder) WithTransitive(isTransitive bool) *UpdateRequestBuilder {
	b.isTransitive = isTransitive
	return b
}

// WithResultOutputPath sets where the result artifact is written.
func (b *UpdateRequestBuilder) WithResultOutputPath(path string) *UpdateRequestBuilder {
	b.resultOutputPath = path
	return b
}

// Build creates the request (satisfies testkit.Builder interface).
func (b *UpdateRequestBuilder) Build() interface{} {
	return b.BuildUpdateRequest()
}

// BuildUpdateRequest creates the request with a concrete return type.
func (b *UpdateRequestBuilder) BuildUpdateRequest() entities.UpdateRequest {
	return entities.UpdateRequest{
		RepoRootPath:     b.repoRootPath,
		WorkspacePath:    b.workspacePath,
		DependencyName:   b.dependencyName,
		PreviousVersion:  b.previousVersion,
		NewVersion:       b.newVersion,
		IsTransitive:     b.isTransitive,
		ResultOutputPath: b.resultOutputPath,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateRequestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.repoRootPath = "/repo"
	b.workspacePath = "/repo/All.sln"
	b.dependencyName = "Newtonsoft.Json"
	b.previousVersion = "12.0.1"
	b.newVersion = "13.0.3"
	b.isTransitive = false
	b.resultOutputPath = ""
	return b
}

// Clone creates a deep copy of the UpdateRequestBuilder.
func (b *UpdateRequestBuilder) Clone() testkit.Builder {
	return &UpdateRequestBuilder{
		BaseBuilder:      b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		repoRootPath:     b.repoRootPath,
		workspacePath:    b.workspacePath,
		dependencyName:   b.dependencyName,
		previousVersion:  b.previousVersion,
		newVersion:       b.newVersion,
		isTransitive:     b.isTransitive,
		resultOutputPath: b.resultOutputPath,
	}
}
