package entities

import (
	"path/filepath"
	"slices"
	"strings"
)

// ProjectKind classifies an entry path by its manifest suffix.
type ProjectKind string

const (
	ProjectKindSolution   ProjectKind = "solution"
	ProjectKindAggregator ProjectKind = "aggregator"
	ProjectKindProject    ProjectKind = "project"
	ProjectKindUnknown    ProjectKind = "unknown"
)

// ExtensionSettings lists the file suffixes recognized for each ProjectKind.
type ExtensionSettings struct {
	Solution   []string `yaml:"solution"`
	Aggregator []string `yaml:"aggregator"`
	Project    []string `yaml:"project"`
}

// DefaultExtensionSettings returns the suffixes MSBuild itself understands.
func DefaultExtensionSettings() ExtensionSettings {
	return ExtensionSettings{
		Solution:   []string{".sln", ".slnx"},
		Aggregator: []string{".proj"},
		Project:    []string{".csproj", ".fsproj", ".vbproj"},
	}
}

// Classify returns the ProjectKind for path. Suffix comparison ignores case.
func (e ExtensionSettings) Classify(path string) ProjectKind {
	extension := strings.ToLower(filepath.Ext(path))
	if extension == "" {
		return ProjectKindUnknown
	}

	switch {
	case containsFold(e.Solution, extension):
		return ProjectKindSolution
	case containsFold(e.Aggregator, extension):
		return ProjectKindAggregator
	case containsFold(e.Project, extension):
		return ProjectKindProject
	default:
		return ProjectKindUnknown
	}
}

func containsFold(values []string, needle string) bool {
	return slices.ContainsFunc(values, func(value string) bool {
		return strings.EqualFold(value, needle)
	})
}
