// Package config holds the filter settings shared by every traversal and the
// application configuration that supplies command defaults.
package config

import (
	"sort"
	"strings"

	"github.com/tyemirov/folder2chat/internal/utils"
)

const extensionSeparator = "."

// DefaultRecognizedExtensions lists the extensions treated as text when no settings file exists.
var DefaultRecognizedExtensions = []string{
	".txt", ".md", ".py", ".html", ".css", ".js",
	".json", ".csv", ".ts", ".java", ".c", ".cpp",
	".cs", ".php", ".sh", ".jsx",
}

// DefaultExcludedNames lists the entry names skipped when no settings file exists.
var DefaultExcludedNames = []string{
	".git", "__pycache__", ".vscode", ".idea", ".venv",
	"node_modules", "dist", "build", ".next",
}

// Filters is an immutable snapshot of the recognized extensions and excluded names.
// A zero Filters recognizes nothing and excludes nothing.
type Filters struct {
	extensions    map[string]struct{}
	excludedNames map[string]struct{}
}

// NewFilters normalizes the provided lists into a Filters snapshot.
// Extensions are trimmed, lower-cased and given a leading dot. Excluded names
// are kept verbatim; only empty names are dropped.
func NewFilters(recognizedExtensions []string, excludedNames []string) Filters {
	filters := Filters{
		extensions:    make(map[string]struct{}, len(recognizedExtensions)),
		excludedNames: make(map[string]struct{}, len(excludedNames)),
	}
	for _, extension := range utils.DeduplicateStrings(recognizedExtensions) {
		filters.extensions[normalizeExtension(extension)] = struct{}{}
	}
	for _, name := range excludedNames {
		if name == "" {
			continue
		}
		filters.excludedNames[name] = struct{}{}
	}
	return filters
}

// DefaultFilters returns the built-in filter snapshot.
func DefaultFilters() Filters {
	return NewFilters(DefaultRecognizedExtensions, DefaultExcludedNames)
}

func normalizeExtension(extension string) string {
	lowered := strings.ToLower(extension)
	if !strings.HasPrefix(lowered, extensionSeparator) {
		lowered = extensionSeparator + lowered
	}
	return lowered
}

// IsRecognized reports whether the lowercase extension of name is a recognized text extension.
func (filters Filters) IsRecognized(name string) bool {
	extension := strings.ToLower(utils.FileExtension(name))
	if extension == "" {
		return false
	}
	_, recognized := filters.extensions[extension]
	return recognized
}

// IsExcluded reports whether name exactly matches an excluded entry name.
func (filters Filters) IsExcluded(name string) bool {
	_, excluded := filters.excludedNames[name]
	return excluded
}

// Extensions returns the recognized extensions in ascending order.
func (filters Filters) Extensions() []string {
	return sortedKeys(filters.extensions)
}

// ExcludedNames returns the excluded names in ascending order.
func (filters Filters) ExcludedNames() []string {
	return sortedKeys(filters.excludedNames)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
