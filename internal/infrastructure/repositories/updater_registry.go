package repositories

import (
	domainRepos "github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// UpdaterRegistry manages all registered manifest updater implementations.
// Registration order is the order updaters run in.
type UpdaterRegistry struct {
	repositoryUpdaters []domainRepos.RepositoryUpdaterRepository
	projectUpdaters    []domainRepos.ProjectUpdaterRepository
}

// NewUpdaterRegistry creates an empty updater registry.
func NewUpdaterRegistry() *UpdaterRegistry {
	return &UpdaterRegistry{}
}

// RegisterRepositoryUpdater appends a repository-level updater.
func (r *UpdaterRegistry) RegisterRepositoryUpdater(u domainRepos.RepositoryUpdaterRepository) {
	r.repositoryUpdaters = append(r.repositoryUpdaters, u)
}

// RegisterProjectUpdater appends a per-project updater.
func (r *UpdaterRegistry) RegisterProjectUpdater(u domainRepos.ProjectUpdaterRepository) {
	r.projectUpdaters = append(r.projectUpdaters, u)
}

// RepositoryUpdaters returns the repository-level updaters in run order.
func (r *UpdaterRegistry) RepositoryUpdaters() []domainRepos.RepositoryUpdaterRepository {
	return r.repositoryUpdaters
}

// ProjectUpdaters returns the per-project updaters in run order.
func (r *UpdaterRegistry) ProjectUpdaters() []domainRepos.ProjectUpdaterRepository {
	return r.projectUpdaters
}

// Names returns the names of every registered updater in run order.
func (r *UpdaterRegistry) Names() []string {
	names := make([]string, 0, len(r.repositoryUpdaters)+len(r.projectUpdaters))
	for _, u := range r.repositoryUpdaters {
		names = append(names, u.Name())
	}
	for _, u := range r.projectUpdaters {
		names = append(names, u.Name())
	}
	return names
}
