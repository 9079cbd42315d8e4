package packagereference

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
	"github.com/khulnasoft/dependency-toolkit/internal/infrastructure/repositories/manifestfile"
)

var (
	itemPattern          = regexp.MustCompile(`<(PackageReference|PackageVersion|GlobalPackageReference)\b([^>]*?)(/?)>`)
	identityAttrPattern  = regexp.MustCompile(`\b(?:Include|Update)\s*=\s*"([^"]*)"`)
	versionAttrPattern   = regexp.MustCompile(`\b(?:Version|VersionOverride)\s*=\s*"([^"]*)"`)
	versionChildPattern  = regexp.MustCompile(`<(?:Version|VersionOverride)>([^<]*)</(?:Version|VersionOverride)>`)
	propertyRefPattern   = regexp.MustCompile(`^\$\(([A-Za-z_][\w.-]*)\)$`)
	centralTogglePattern = regexp.MustCompile(`(?i)<ManagePackageVersionsCentrally>\s*true\s*</ManagePackageVersionsCentrally>`)
)

type edit struct {
	start, end int
	text       string
}

// itemScan is what bumpItems learned about one document.
type itemScan struct {
	referenced bool     // a PackageReference or GlobalPackageReference names the dependency
	versioned  bool     // a PackageVersion names the dependency
	properties []string // properties the item versions point at
}

// bumpItems rewrites the version of every package item for the dependency
// that is at the previous version, whether set as an attribute or a child
// element. Versions given as `$(Property)` are reported instead.
func bumpItems(content string, request entities.UpdateRequest) (string, itemScan) {
	var (
		edits []edit
		scan  itemScan
	)

	for _, m := range itemPattern.FindAllStringSubmatchIndex(content, -1) {
		attributes := content[m[4]:m[5]]
		identity := identityAttrPattern.FindStringSubmatch(attributes)
		if identity == nil || !strings.EqualFold(strings.TrimSpace(identity[1]), request.DependencyName) {
			continue
		}
		if content[m[2]:m[3]] == "PackageVersion" {
			scan.versioned = true
		} else {
			scan.referenced = true
		}

		for _, v := range versionAttrPattern.FindAllStringSubmatchIndex(attributes, -1) {
			start, end := m[4]+v[2], m[4]+v[3]
			edits, scan.properties = collectVersion(content, start, end, request, edits, scan.properties)
		}

		selfClosing := m[7] > m[6]
		if selfClosing {
			continue
		}
		closing := "</" + content[m[2]:m[3]] + ">"
		bodyEnd := strings.Index(content[m[1]:], closing)
		if bodyEnd < 0 {
			continue
		}
		body := content[m[1] : m[1]+bodyEnd]
		for _, v := range versionChildPattern.FindAllStringSubmatchIndex(body, -1) {
			start, end := m[1]+v[2], m[1]+v[3]
			edits, scan.properties = collectVersion(content, start, end, request, edits, scan.properties)
		}
	}

	return applyEdits(content, edits), scan
}

func collectVersion(
	content string,
	start, end int,
	request entities.UpdateRequest,
	edits []edit,
	properties []string,
) ([]edit, []string) {
	value := content[start:end]
	if ref := propertyRefPattern.FindStringSubmatch(strings.TrimSpace(value)); ref != nil {
		if !slices.Contains(properties, ref[1]) {
			properties = append(properties, ref[1])
		}
		return edits, properties
	}
	if replaced, ok := replaceVersion(value, request); ok {
		edits = append(edits, edit{start: start, end: end, text: replaced})
	}
	return edits, properties
}

// replaceVersion swaps the previous version for the new one in an exact
// version or an exact-match range such as `[1.2.3]`.
func replaceVersion(value string, request entities.UpdateRequest) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, request.PreviousVersion) {
		return strings.Replace(value, trimmed, request.NewVersion, 1), true
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") &&
		strings.EqualFold(strings.TrimSpace(trimmed[1:len(trimmed)-1]), request.PreviousVersion) {
		return strings.Replace(value, trimmed, "["+request.NewVersion+"]", 1), true
	}
	return value, false
}

// propertyPattern matches the definitions of a property, capturing its value.
func propertyPattern(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`<(?i:` + quoted + `)(?:\s[^>]*)?>([^<]*)</(?i:` + quoted + `)>`)
}

// resolveProperties follows property-to-property indirection across the
// documents and returns every property name the versions depend on.
func resolveProperties(contents []string, properties []string) []string {
	resolved := slices.Clone(properties)
	for i := 0; i < len(resolved); i++ {
		pattern := propertyPattern(resolved[i])
		for _, content := range contents {
			for _, m := range pattern.FindAllStringSubmatch(content, -1) {
				ref := propertyRefPattern.FindStringSubmatch(strings.TrimSpace(m[1]))
				if ref != nil && !slices.ContainsFunc(resolved, func(p string) bool { return strings.EqualFold(p, ref[1]) }) {
					resolved = append(resolved, ref[1])
				}
			}
		}
	}
	return resolved
}

// bumpProperties rewrites property definitions that hold the previous version.
func bumpProperties(content string, properties []string, request entities.UpdateRequest) (string, bool) {
	var edits []edit
	for _, name := range properties {
		for _, m := range propertyPattern(name).FindAllStringSubmatchIndex(content, -1) {
			if replaced, ok := replaceVersion(content[m[2]:m[3]], request); ok {
				edits = append(edits, edit{start: m[2], end: m[3], text: replaced})
			}
		}
	}
	return applyEdits(content, edits), len(edits) > 0
}

func applyEdits(content string, edits []edit) string {
	if len(edits) == 0 {
		return content
	}
	slices.SortFunc(edits, func(a, b edit) int { return b.start - a.start })

	result := content
	for _, e := range edits {
		result = result[:e.start] + e.text + result[e.end:]
	}
	return result
}

func isCentrallyManaged(contents []string) bool {
	for _, content := range contents {
		if centralTogglePattern.MatchString(content) {
			return true
		}
	}
	return false
}

// insertItem adds element next to the last item of the same type, or in a
// new ItemGroup at the end of the project when there is none.
func insertItem(content, itemType, element string) (string, error) {
	eol := manifestfile.LineEnding(content)

	lastEnd, lastStart := -1, -1
	for _, m := range itemPattern.FindAllStringSubmatchIndex(content, -1) {
		if content[m[2]:m[3]] != itemType {
			continue
		}
		lastStart, lastEnd = m[0], m[1]
		if m[7] == m[6] {
			closing := "</" + itemType + ">"
			if i := strings.Index(content[m[1]:], closing); i >= 0 {
				lastEnd = m[1] + i + len(closing)
			}
		}
	}

	if lastStart >= 0 {
		lineStart := strings.LastIndex(content[:lastStart], "\n") + 1
		indent := leadingWhitespace(content[lineStart:lastStart])
		insertAt := len(content)
		if i := strings.Index(content[lastEnd:], "\n"); i >= 0 {
			insertAt = lastEnd + i + 1
		}
		return content[:insertAt] + indent + element + eol + content[insertAt:], nil
	}

	projectEnd := strings.LastIndex(content, "</Project>")
	if projectEnd < 0 {
		return "", errors.New("no closing </Project> element")
	}
	block := "  <ItemGroup>" + eol + "    " + element + eol + "  </ItemGroup>" + eol
	lineStart := strings.LastIndex(content[:projectEnd], "\n") + 1
	if strings.TrimSpace(content[lineStart:projectEnd]) == "" {
		return content[:lineStart] + block + content[lineStart:], nil
	}
	return content[:projectEnd] + eol + block + content[projectEnd:], nil
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
