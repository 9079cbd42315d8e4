package entities

// ConcreteProject is an existing project file together with the manifest
// styles it carries. A project may carry both styles at once, or neither.
type ConcreteProject struct {
	Path                string
	LegacyManifestPath  string // packages.config next to the project, empty when absent
	HasReferenceSection bool   // PackageReference/PackageVersion items declared inline
}

// HasLegacyManifest reports whether the project has a packages.config sidecar.
func (p ConcreteProject) HasLegacyManifest() bool {
	return p.LegacyManifestPath != ""
}

// IsConcrete reports whether the file carries any manifest style at all.
func (p ConcreteProject) IsConcrete() bool {
	return p.HasLegacyManifest() || p.HasReferenceSection
}
