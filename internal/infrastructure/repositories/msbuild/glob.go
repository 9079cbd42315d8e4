package msbuild

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// hasWildcard reports whether an MSBuild include needs glob expansion.
func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// expandInclude returns the existing files an include resolves to. Plain
// paths yield themselves when they exist; wildcard includes support `*`, `?`
// and the recursive `**` segment, matched segment by segment.
func expandInclude(baseDir, include string) ([]string, error) {
	resolved := resolveInclude(baseDir, include)
	if !hasWildcard(resolved) {
		if isRegularFile(resolved) {
			return []string{resolved}, nil
		}
		return nil, nil
	}

	segments := strings.Split(filepath.ToSlash(resolved), "/")
	firstWildcard := 0
	for i, segment := range segments {
		if hasWildcard(segment) {
			firstWildcard = i
			break
		}
	}

	root := filepath.FromSlash(strings.Join(segments[:firstWildcard], "/"))
	if root == "" {
		root = string(filepath.Separator)
	}
	patternSegments := segments[firstWildcard:]

	var matches []string
	walkErr := filepath.WalkDir(root, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			if current == root {
				return fs.SkipDir
			}
			return nil // unreadable subtrees cannot contribute matches
		}
		if entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, current)
		if relErr != nil {
			return nil //nolint:nilerr // files outside root cannot match
		}
		if matchSegments(patternSegments, strings.Split(filepath.ToSlash(rel), "/")) {
			matches = append(matches, current)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}

// matchSegments matches path segments against pattern segments, letting `**`
// stand for zero or more whole segments. Matching ignores case, as MSBuild
// does on every platform.
func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	if pattern[0] == "**" {
		for skip := 0; skip <= len(segments); skip++ {
			if matchSegments(pattern[1:], segments[skip:]) {
				return true
			}
		}
		return false
	}

	if len(segments) == 0 {
		return false
	}
	ok, err := path.Match(strings.ToLower(pattern[0]), strings.ToLower(segments[0]))
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
