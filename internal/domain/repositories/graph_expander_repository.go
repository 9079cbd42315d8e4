package repositories

// GraphExpanderRepository turns a solution, aggregator or project file into
// the ordered list of project files it declares. Implementations must be
// deterministic for a given file content and return absolute paths. An empty
// result is valid.
type GraphExpanderRepository interface {
	// ProjectsFromSolution returns the MSBuild projects listed in a solution.
	ProjectsFromSolution(solutionPath string) ([]string, error)

	// ProjectsFromProject returns the project files referenced by a project
	// or aggregator file. Nested aggregators are expanded; project files are
	// returned without following their own references.
	ProjectsFromProject(projectPath string) ([]string, error)
}
