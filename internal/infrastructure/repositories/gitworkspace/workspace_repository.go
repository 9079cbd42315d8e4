package gitworkspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

// WorkspaceRepository finds repository roots by opening the enclosing git
// repository.
type WorkspaceRepository struct{}

// NewWorkspaceRepository creates a new git-backed workspace locator.
func NewWorkspaceRepository() repositories.WorkspaceRepository {
	return &WorkspaceRepository{}
}

// FindRepositoryRoot returns the work tree root of the git repository
// containing path. path may name a file.
func (r *WorkspaceRepository) FindRepositoryRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}
