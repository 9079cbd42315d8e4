package entities

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupportedPackageSource is returned for package sources that cannot be
// queried, such as v2 OData feeds.
var ErrUnsupportedPackageSource = errors.New("unsupported package source")

// HTTPStatusError is returned by collaborators when a package source answers
// with a non-success status.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("package source %s responded with %d %s",
		e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsAuthenticationFailure reports whether the status means the caller was not
// allowed to read the source.
func (e *HTTPStatusError) IsAuthenticationFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MissingFileError is returned when a file an updater requires does not exist.
type MissingFileError struct {
	FilePath string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required file %q does not exist", e.FilePath)
}
