package nugetconfig

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	logger "github.com/sirupsen/logrus"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/repositories"
)

const configFileName = "nuget.config"

var (
	encodedCharPattern = regexp.MustCompile(`_x([0-9A-Fa-f]{4})_`)
	envVarPattern      = regexp.MustCompile(`%([^%]+)%`)
)

type configFile struct {
	PackageSources struct {
		Entries []sourceEntry `xml:",any"`
	} `xml:"packageSources"`
	DisabledPackageSources struct {
		Entries []sourceEntry `xml:"add"`
	} `xml:"disabledPackageSources"`
	PackageSourceCredentials struct {
		Sources []credentialEntry `xml:",any"`
	} `xml:"packageSourceCredentials"`
}

// credentialEntry is named after the source it applies to, with characters
// that are not valid in an element name encoded as `_xHHHH_`.
type credentialEntry struct {
	XMLName xml.Name
	Entries []sourceEntry `xml:"add"`
}

type credential struct {
	username string
	password string
}

type sourceEntry struct {
	XMLName xml.Name
	Key     string `xml:"key,attr"`
	Value   string `xml:"value,attr"`
}

// PackageSourceRepository resolves package sources the way NuGet does: every
// NuGet.Config from the workspace directory up to the file system root, then
// the user-wide config. Closer files win and a `<clear />` hides everything
// farther away.
type PackageSourceRepository struct {
	// UserConfigPath overrides the per-user NuGet.Config location.
	UserConfigPath string
}

// NewPackageSourceRepository creates a resolver using the current user's
// NuGet.Config.
func NewPackageSourceRepository() repositories.PackageSourceRepository {
	return &PackageSourceRepository{UserConfigPath: userConfigPath()}
}

// SourceURLs returns the enabled source URLs visible from workspacePath.
func (r *PackageSourceRepository) SourceURLs(workspacePath string) ([]string, error) {
	sources, err := r.Sources(workspacePath)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(sources))
	for _, source := range sources {
		urls = append(urls, source.URL)
	}
	return urls, nil
}

// Sources returns the enabled sources visible from workspacePath along with
// the credentials configured for them. Only clear-text passwords are
// supported; `%NAME%` references are expanded from the environment.
func (r *PackageSourceRepository) Sources(workspacePath string) ([]entities.PackageSource, error) {
	var configs []string
	dir := workspacePath
	if info, err := os.Stat(workspacePath); err != nil || !info.IsDir() {
		dir = filepath.Dir(workspacePath)
	}
	for {
		if path := findConfig(dir); path != "" {
			configs = append(configs, path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if r.UserConfigPath != "" {
		if _, err := os.Stat(r.UserConfigPath); err == nil {
			configs = append(configs, r.UserConfigPath)
		}
	}

	var (
		entries     []sourceEntry
		seen        = make(map[string]bool)
		disabled    = make(map[string]bool)
		credentials = make(map[string]credential)
		cleared     bool
	)
	for _, path := range configs {
		parsed, err := readConfig(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range parsed.DisabledPackageSources.Entries {
			if strings.EqualFold(strings.TrimSpace(entry.Value), "true") {
				disabled[strings.ToLower(entry.Key)] = true
			}
		}
		for _, entry := range parsed.PackageSourceCredentials.Sources {
			key := strings.ToLower(decodeElementName(entry.XMLName.Local))
			if _, ok := credentials[key]; !ok {
				credentials[key] = readCredential(path, entry)
			}
		}
		if cleared {
			continue
		}

		for _, entry := range parsed.PackageSources.Entries {
			switch strings.ToLower(entry.XMLName.Local) {
			case "clear":
				cleared = true
			case "add":
				key := strings.ToLower(entry.Key)
				if entry.Value == "" || seen[key] {
					continue
				}
				seen[key] = true
				entry.Value = resolveSource(filepath.Dir(path), entry.Value)
				entries = append(entries, entry)
			}
		}
	}

	sources := make([]entities.PackageSource, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Key)
		if disabled[key] {
			continue
		}
		cred := credentials[key]
		sources = append(sources, entities.PackageSource{
			Name:     entry.Key,
			URL:      entry.Value,
			Username: cred.username,
			Password: cred.password,
		})
	}
	logger.Debugf("Package sources for [%s]: %v", workspacePath, sourceNames(sources))
	return sources, nil
}

func readCredential(path string, entry credentialEntry) credential {
	var cred credential
	for _, item := range entry.Entries {
		switch strings.ToLower(item.Key) {
		case "username":
			cred.username = expandEnv(item.Value)
		case "cleartextpassword":
			cred.password = expandEnv(item.Value)
		case "password":
			logger.Warnf("Encrypted password for source [%s] in [%s] is not supported, ignoring it",
				decodeElementName(entry.XMLName.Local), path)
		}
	}
	return cred
}

// decodeElementName undoes the `_xHHHH_` escaping NuGet applies to source
// names used as element names, such as `_x0020_` for a space.
func decodeElementName(name string) string {
	return encodedCharPattern.ReplaceAllStringFunc(name, func(match string) string {
		code, err := strconv.ParseUint(match[2:6], 16, 32)
		if err != nil {
			return match
		}
		return string(rune(code))
	})
}

// expandEnv replaces `%NAME%` with the variable's value; unset variables are
// left as written.
func expandEnv(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		if resolved, ok := os.LookupEnv(match[1 : len(match)-1]); ok {
			return resolved
		}
		return match
	})
}

func sourceNames(sources []entities.PackageSource) []string {
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, source.Name+"="+source.URL)
	}
	return names
}

func readConfig(path string) (*configFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	var parsed configFile
	if unmarshalErr := xml.Unmarshal(content, &parsed); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, unmarshalErr)
	}
	return &parsed, nil
}

// findConfig returns the NuGet.Config in dir, whatever its casing.
func findConfig(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), configFileName) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// resolveSource makes folder sources absolute relative to the config that
// declares them; URLs are returned unchanged.
func resolveSource(configDir, value string) string {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "://") || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(configDir, filepath.FromSlash(strings.ReplaceAll(value, `\`, "/")))
}

func userConfigPath() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "NuGet", "NuGet.Config")
		}
	}
	home, err := homedir.Dir()
	if err != nil {
		logger.Debugf("Cannot locate the user NuGet.Config: %v", err)
		return ""
	}
	return filepath.Join(home, ".nuget", "NuGet", "NuGet.Config")
}
