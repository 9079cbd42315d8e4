package entities

import (
	"path/filepath"
	"strings"
)

// VisitedSet tracks the project paths already updated during one run.
// Membership ignores case so that the same file reached through differently
// cased references is only updated once.
type VisitedSet struct {
	paths map[string]string
}

// NewVisitedSet creates an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{paths: make(map[string]string)}
}

// Contains reports whether path was already added.
func (s *VisitedSet) Contains(path string) bool {
	_, ok := s.paths[visitKey(path)]
	return ok
}

// Add records path and reports whether it was newly added.
func (s *VisitedSet) Add(path string) bool {
	key := visitKey(path)
	if _, ok := s.paths[key]; ok {
		return false
	}
	s.paths[key] = path
	return true
}

// Len returns the number of distinct paths recorded.
func (s *VisitedSet) Len() int {
	return len(s.paths)
}

// Clear forgets every recorded path.
func (s *VisitedSet) Clear() {
	clear(s.paths)
}

func visitKey(path string) string {
	return strings.ToUpper(filepath.Clean(path))
}
