package repositories

// WorkspaceRepository locates the repository that contains a path.
type WorkspaceRepository interface {
	// FindRepositoryRoot returns the top-level directory of the repository
	// containing path.
	FindRepositoryRoot(path string) (string, error)
}
