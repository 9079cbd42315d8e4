package repositories

import "github.com/khulnasoft/dependency-toolkit/internal/domain/entities"

// ProjectInspectorRepository reports which manifest styles a project file
// carries.
type ProjectInspectorRepository interface {
	Inspect(projectPath string) (entities.ConcreteProject, error)
}
