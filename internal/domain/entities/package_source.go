package entities

// PackageSource is one enabled package feed together with the credentials
// NuGet.Config holds for it.
type PackageSource struct {
	Name     string
	URL      string
	Username string
	Password string
}

// HasCredentials reports whether requests to the source authenticate.
func (s PackageSource) HasCredentials() bool {
	return s.Username != "" || s.Password != ""
}
