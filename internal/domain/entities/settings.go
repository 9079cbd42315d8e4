package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultPackageSourceURL = "https://api.nuget.org/v3/index.json"

// Settings is the top-level configuration for dependency-toolkit.
type Settings struct {
	Extensions     ExtensionSettings        `yaml:"extensions"`
	Updaters       map[string]UpdaterConfig `yaml:"updaters"`
	PackageSources PackageSourceSettings    `yaml:"package_sources"`
}

// UpdaterConfig holds per-updater settings.
type UpdaterConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PackageSourceSettings configures how source URLs are reported when a
// package feed rejects our credentials.
type PackageSourceSettings struct {
	Default string `yaml:"default"` // used when no NuGet.Config declares a source
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no config file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Extensions:     DefaultExtensionSettings(),
		Updaters:       map[string]UpdaterConfig{},
		PackageSources: PackageSourceSettings{Default: defaultPackageSourceURL},
	}
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and filling unset sections with defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	expanded := envVarPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal([]byte(expanded), settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	settings.applyDefaults()

	if validateErr := validateSettings(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// IsUpdaterEnabled reports whether the named updater may run. Updaters absent
// from the config are enabled.
func (s *Settings) IsUpdaterEnabled(name string) bool {
	cfg, ok := s.Updaters[name]
	if !ok {
		return true
	}
	return cfg.Enabled
}

func (s *Settings) applyDefaults() {
	defaults := DefaultExtensionSettings()
	if len(s.Extensions.Solution) == 0 {
		s.Extensions.Solution = defaults.Solution
	}
	if len(s.Extensions.Aggregator) == 0 {
		s.Extensions.Aggregator = defaults.Aggregator
	}
	if len(s.Extensions.Project) == 0 {
		s.Extensions.Project = defaults.Project
	}
	if s.Updaters == nil {
		s.Updaters = map[string]UpdaterConfig{}
	}
	if s.PackageSources.Default == "" {
		s.PackageSources.Default = defaultPackageSourceURL
	}
}

// validateSettings rejects extension lists that would route one suffix to
// two different kinds. Suffixes compare without case, as in Classify.
func validateSettings(settings *Settings) error {
	seen := make(map[string]string)
	groups := []struct {
		name   string
		values []string
	}{
		{"solution", settings.Extensions.Solution},
		{"aggregator", settings.Extensions.Aggregator},
		{"project", settings.Extensions.Project},
	}

	for _, group := range groups {
		for _, extension := range group.values {
			if len(extension) < 2 || extension[0] != '.' {
				return fmt.Errorf("extensions.%s: %q must start with a dot", group.name, extension)
			}
			key := strings.ToLower(extension)
			if previous, ok := seen[key]; ok && previous != group.name {
				return fmt.Errorf(
					"extensions.%s: %q is already listed under extensions.%s",
					group.name, extension, previous,
				)
			}
			seen[key] = group.name
		}
	}

	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		logger.Debugf("Cannot locate the home directory: %v", err)
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".dependency-toolkit.yaml",
		".dependency-toolkit.yml",
		"dependency-toolkit.yaml",
		"dependency-toolkit.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}
