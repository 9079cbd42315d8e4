package globaljson

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/manifestfile"
)

const (
	updaterName    = "global-json"
	globalJSONName = "global.json"
)

type globalJSON struct {
	MSBuildSDKs map[string]string `json:"msbuild-sdks"`
}

// sdkSectionPattern locates the msbuild-sdks object; SDK pins never nest.
var sdkSectionPattern = regexp.MustCompile(`"msbuild-sdks"\s*:\s*\{[^{}]*}`)

// GlobalJSONUpdaterRepository bumps an MSBuild project SDK pinned in the
// msbuild-sdks section of global.json.
type GlobalJSONUpdaterRepository struct{}

// NewGlobalJSONUpdaterRepository creates a new global.json updater.
func NewGlobalJSONUpdaterRepository() repositories.RepositoryUpdaterRepository {
	return &GlobalJSONUpdaterRepository{}
}

func (u *GlobalJSONUpdaterRepository) Name() string { return updaterName }

// Update rewrites the SDK pin in the global.json closest to the workspace,
// searching up to the repository root. The .NET SDK version itself is never
// touched.
func (u *GlobalJSONUpdaterRepository) Update(_ context.Context, request entities.UpdateRequest) error {
	path := manifestfile.FindNearest(filepath.Dir(request.WorkspacePath), request.RepoRootPath, globalJSONName)
	if path == "" {
		logger.Debugf("[%s] No global.json found, skipping", updaterName)
		return nil
	}

	content, err := manifestfile.Read(path)
	if err != nil {
		return err
	}

	var pins globalJSON
	if unmarshalErr := json.Unmarshal([]byte(content), &pins); unmarshalErr != nil {
		return fmt.Errorf("failed to parse %q: %w", path, unmarshalErr)
	}

	sdkName, version, ok := findSDK(pins, request.DependencyName)
	if !ok {
		logger.Debugf("[%s] %s is not an MSBuild SDK pin, skipping", updaterName, request.DependencyName)
		return nil
	}
	if !strings.EqualFold(version, request.PreviousVersion) {
		logger.Infof(
			"[%s] %s is pinned at %s, expected %s; leaving it alone",
			updaterName, sdkName, version, request.PreviousVersion,
		)
		return nil
	}

	section := sdkSectionPattern.FindStringIndex(content)
	if section == nil {
		return nil
	}
	pinPattern := regexp.MustCompile(
		`("` + regexp.QuoteMeta(sdkName) + `"\s*:\s*")(?i:` + regexp.QuoteMeta(version) + `)(")`,
	)
	sectionText := content[section[0]:section[1]]
	loc := pinPattern.FindStringSubmatchIndex(sectionText)
	if loc == nil {
		return nil
	}
	updated := content[:section[0]] +
		sectionText[:loc[3]] + request.NewVersion + sectionText[loc[4]:] +
		content[section[1]:]

	_, err = manifestfile.Write(updaterName, path, content, updated)
	return err
}

func findSDK(pins globalJSON, name string) (string, string, bool) {
	for sdkName, version := range pins.MSBuildSDKs {
		if strings.EqualFold(sdkName, name) {
			return sdkName, version, true
		}
	}
	return "", "", false
}
