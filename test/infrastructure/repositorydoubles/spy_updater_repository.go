//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// SpyRepositoryUpdaterRepository implements
// repositories.RepositoryUpdaterRepository as a configurable spy.
type SpyRepositoryUpdaterRepository struct {
	// --- identity ---
	UpdaterName string

	// --- Update ---
	UpdateErr   error
	UpdateCalls []entities.UpdateRequest
	Recorder    *CallRecorder
}

var _ repositories.RepositoryUpdaterRepository = (*SpyRepositoryUpdaterRepository)(nil)

func (u *SpyRepositoryUpdaterRepository) Name() string { return u.UpdaterName }

func (u *SpyRepositoryUpdaterRepository) Update(_ context.Context, request entities.UpdateRequest) error {
	u.UpdateCalls = append(u.UpdateCalls, request)
	u.Recorder.Record(u.UpdaterName)
	return u.UpdateErr
}

// SpyProjectUpdaterRepository implements repositories.ProjectUpdaterRepository
// as a configurable spy.
type SpyProjectUpdaterRepository struct {
	// --- identity ---
	UpdaterName string

	// --- Detect ---
	DetectFunc    func(project entities.ConcreteProject) bool // nil means always true
	DetectedPaths []string

	// --- Update ---
	UpdateErrs  map[string]error // project path -> error
	UpdateCalls []ProjectUpdateCall
	Recorder    *CallRecorder
}

// ProjectUpdateCall records a single invocation of Update.
type ProjectUpdateCall struct {
	Request entities.UpdateRequest
	Project entities.ConcreteProject
}

var _ repositories.ProjectUpdaterRepository = (*SpyProjectUpdaterRepository)(nil)

func (u *SpyProjectUpdaterRepository) Name() string { return u.UpdaterName }

func (u *SpyProjectUpdaterRepository) Detect(project entities.ConcreteProject) bool {
	u.DetectedPaths = append(u.DetectedPaths, project.Path)
	if u.DetectFunc == nil {
		return true
	}
	return u.DetectFunc(project)
}

func (u *SpyProjectUpdaterRepository) Update(
	_ context.Context,
	request entities.UpdateRequest,
	project entities.ConcreteProject,
) error {
	u.UpdateCalls = append(u.UpdateCalls, ProjectUpdateCall{Request: request, Project: project})
	u.Recorder.Record(u.UpdaterName + ":" + project.Path)
	return u.UpdateErrs[project.Path]
}

// UpdatedPaths returns the project paths passed to Update, in call order.
func (u *SpyProjectUpdaterRepository) UpdatedPaths() []string {
	paths := make([]string, 0, len(u.UpdateCalls))
	for _, call := range u.UpdateCalls {
		paths = append(paths, call.Project.Path)
	}
	return paths
}
