package nugetfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

const (
	packageBaseAddressType = "PackageBaseAddress/3.0.0"
	maxRetries             = 2
	retryWaitMin           = 200 * time.Millisecond
	retryWaitMax           = 2 * time.Second
)

type serviceIndex struct {
	Resources []struct {
		ID   string `json:"@id"`
		Type string `json:"@type"`
	} `json:"resources"`
}

type versionIndex struct {
	Versions []string `json:"versions"`
}

// PackageFeedRepository answers version lookups against NuGet v3 feeds and
// local folder feeds.
type PackageFeedRepository struct {
	client *retryablehttp.Client

	mu            sync.Mutex
	baseAddresses map[string]string
}

// NewPackageFeedRepository creates a feed client with a small retry budget
// for transient server errors.
func NewPackageFeedRepository() repositories.PackageFeedRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = leveledLogger{}

	return &PackageFeedRepository{
		client:        client,
		baseAddresses: make(map[string]string),
	}
}

// HasVersion reports whether source publishes version of packageID. Requests
// to an HTTP source carry its credentials as basic authentication.
func (r *PackageFeedRepository) HasVersion(
	ctx context.Context,
	source entities.PackageSource,
	packageID, version string,
) (bool, error) {
	if !isHTTPSource(source.URL) {
		return hasLocalVersion(source.URL, packageID, version)
	}
	if !strings.HasSuffix(strings.ToLower(source.URL), ".json") {
		return false, fmt.Errorf("%w: %s", entities.ErrUnsupportedPackageSource, source.URL)
	}

	baseAddress, err := r.packageBaseAddress(ctx, source)
	if err != nil {
		return false, err
	}

	id := strings.ToLower(packageID)
	var index versionIndex
	found, err := r.getJSON(ctx, source, strings.TrimSuffix(baseAddress, "/")+"/"+id+"/index.json", &index)
	if err != nil || !found {
		return false, err
	}

	wanted := normalizeVersion(version)
	for _, published := range index.Versions {
		if normalizeVersion(published) == wanted {
			return true, nil
		}
	}
	return false, nil
}

func (r *PackageFeedRepository) packageBaseAddress(ctx context.Context, source entities.PackageSource) (string, error) {
	sourceURL := source.URL
	r.mu.Lock()
	cached, ok := r.baseAddresses[sourceURL]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	var index serviceIndex
	found, err := r.getJSON(ctx, source, sourceURL, &index)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &entities.HTTPStatusError{StatusCode: http.StatusNotFound, URL: sourceURL}
	}

	for _, resource := range index.Resources {
		if resource.Type == packageBaseAddressType {
			r.mu.Lock()
			r.baseAddresses[sourceURL] = resource.ID
			r.mu.Unlock()
			return resource.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s has no %s resource", entities.ErrUnsupportedPackageSource, sourceURL, packageBaseAddressType)
}

// getJSON fetches url, a resource of source, into target. A 404 is reported
// as not found; any other non-success status becomes an HTTPStatusError.
func (r *PackageFeedRepository) getJSON(
	ctx context.Context,
	source entities.PackageSource,
	url string,
	target any,
) (bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if source.HasCredentials() {
		req.SetBasicAuth(source.Username, source.Password)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, &entities.HTTPStatusError{StatusCode: resp.StatusCode, URL: url}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(target); decodeErr != nil {
		return false, fmt.Errorf("failed to decode %s: %w", url, decodeErr)
	}
	return true, nil
}

// hasLocalVersion looks in a folder feed for either the flat
// `<id>.<version>.nupkg` layout or the hierarchical `<id>/<version>/` one.
func hasLocalVersion(source, packageID, version string) (bool, error) {
	dir := filepath.FromSlash(strings.TrimPrefix(source, "file://"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("Local package source [%s] does not exist", dir)
			return false, nil
		}
		return false, fmt.Errorf("failed to read package source %q: %w", dir, err)
	}

	wanted := normalizeVersion(version)
	flatName := strings.ToLower(packageID) + "." + wanted + ".nupkg"
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if !entry.IsDir() && name == flatName {
			return true, nil
		}
		if entry.IsDir() && name == strings.ToLower(packageID) {
			versions, readErr := os.ReadDir(filepath.Join(dir, entry.Name()))
			if readErr != nil {
				return false, fmt.Errorf("failed to read package folder: %w", readErr)
			}
			for _, v := range versions {
				if v.IsDir() && normalizeVersion(v.Name()) == wanted {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func isHTTPSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}

// normalizeVersion applies NuGet's version normalization: build metadata is
// dropped, missing minor/patch parts become zero, a zero revision is removed
// and the result is lower case.
func normalizeVersion(version string) string {
	version = strings.ToLower(strings.TrimSpace(version))
	if i := strings.Index(version, "+"); i >= 0 {
		version = version[:i]
	}

	release, prerelease, hasPrerelease := strings.Cut(version, "-")
	parts := strings.Split(release, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	if len(parts) == 4 && parts[3] == "0" {
		parts = parts[:3]
	}

	normalized := strings.Join(parts, ".")
	if hasPrerelease {
		normalized += "-" + prerelease
	}
	return normalized
}

// leveledLogger routes the HTTP client's logging through logrus.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Error(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Trace(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...any) {
	logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []any) logger.Fields {
	result := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		result[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return result
}
