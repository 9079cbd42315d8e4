package msbuild

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// solutionFolderTypeID marks virtual folders in a .sln; they own no file.
const solutionFolderTypeID = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

// solutionProjectPattern matches `Project("{type}") = "Name", "rel\path.csproj", "{id}"`.
var solutionProjectPattern = regexp.MustCompile(
	`^Project\("\{([0-9A-Fa-f-]+)\}"\)\s*=\s*"[^"]*"\s*,\s*"([^"]+)"\s*,\s*"\{[0-9A-Fa-f-]+\}"`,
)

// parseSolution returns the project paths a classic .sln lists, in file order,
// resolved against the solution directory.
func parseSolution(content []byte, solutionDir string) ([]string, error) {
	var paths []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		match := solutionProjectPattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		if strings.EqualFold(match[1], solutionFolderTypeID) {
			continue
		}
		if !isMSBuildProjectFile(match[2]) {
			continue // web sites, shared folders and other non-MSBuild entries
		}
		paths = append(paths, resolveInclude(solutionDir, match[2]))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan solution: %w", err)
	}
	return paths, nil
}

// parseSolutionXML returns the project paths an XML (.slnx) solution lists,
// in document order.
func parseSolutionXML(content []byte, solutionDir string) ([]string, error) {
	var paths []string

	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse solution XML: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Project" {
			continue
		}
		path := attributeValue(start, "Path")
		if path == "" || !isMSBuildProjectFile(path) {
			continue
		}
		paths = append(paths, resolveInclude(solutionDir, path))
	}

	return paths, nil
}

// isMSBuildProjectFile reports whether path names an MSBuild project such as
// .csproj, .fsproj, .vbproj, .sqlproj or a .proj aggregator.
func isMSBuildProjectFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Ext(normalizeSeparators(path))), "proj")
}

// resolveInclude turns an MSBuild path (which may use backslashes) into a
// clean absolute path relative to baseDir.
func resolveInclude(baseDir, include string) string {
	include = normalizeSeparators(strings.TrimSpace(include))
	if filepath.IsAbs(include) {
		return filepath.Clean(include)
	}
	return filepath.Join(baseDir, include)
}

func normalizeSeparators(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}

func attributeValue(element xml.StartElement, name string) string {
	for _, attr := range element.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value
		}
	}
	return ""
}
