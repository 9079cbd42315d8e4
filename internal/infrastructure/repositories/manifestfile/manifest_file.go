package manifestfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

const defaultFileMode = 0o644

// Read returns the content of a manifest. A file that does not exist is
// reported as a MissingFileError.
func Read(path string) (string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &entities.MissingFileError{FilePath: path}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(content), nil
}

// Write stores updated over path when it differs from original, keeping the
// file's permissions. The change is logged as a unified diff at debug level.
// It reports whether the file was rewritten.
func Write(updaterName, path, original, updated string) (bool, error) {
	if original == updated {
		return false, nil
	}

	mode := os.FileMode(defaultFileMode)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if logger.IsLevelEnabled(logger.DebugLevel) {
		name := filepath.Base(path)
		diff := strings.TrimSpace(udiff.Unified(name+" (current)", name+" (updated)", original, updated))
		logger.Debugf("[%s] Changes to [%s]:\n%s", updaterName, path, diff)
	}

	if err := os.WriteFile(path, []byte(updated), mode); err != nil {
		return false, fmt.Errorf("failed to write %q: %w", path, err)
	}
	logger.Infof("[%s] Updated [%s]", updaterName, path)
	return true, nil
}

// FindNearest looks for relativeName in startDir and each parent directory,
// stopping after stopDir. Names are compared without regard to case. It
// returns an empty string when nothing is found.
func FindNearest(startDir, stopDir, relativeName string) string {
	dir := filepath.Clean(startDir)
	stop := filepath.Clean(stopDir)

	for {
		if found := lookupFold(dir, relativeName); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if strings.EqualFold(dir, stop) || parent == dir {
			return ""
		}
		dir = parent
	}
}

// LineEnding returns the line terminator content already uses.
func LineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// lookupFold resolves relativeName under dir, matching each path segment
// case-insensitively against the directory entries.
func lookupFold(dir, relativeName string) string {
	current := dir
	for _, segment := range strings.Split(filepath.ToSlash(relativeName), "/") {
		entries, err := os.ReadDir(current)
		if err != nil {
			return ""
		}
		next := ""
		for _, entry := range entries {
			if strings.EqualFold(entry.Name(), segment) {
				next = filepath.Join(current, entry.Name())
				break
			}
		}
		if next == "" {
			return ""
		}
		current = next
	}

	if info, err := os.Stat(current); err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return current
}
