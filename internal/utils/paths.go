// Package utils contains general helper functions used across folder2chat.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	parentDirectoryPrefix   = ".." + string(filepath.Separator)
	errorAbsolutePathFormat = "resolve absolute path for %s: %w"
)

// ResolveAbsolutePath returns the cleaned absolute form of inputPath.
func ResolveAbsolutePath(inputPath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(inputPath)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absoluteError)
	}
	return filepath.Clean(absolutePath), nil
}

// IsDirectory reports whether path refers to an existing directory, following symlinks.
func IsDirectory(path string) bool {
	if path == "" {
		return false
	}
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}

// RegularFileSize returns the size of path and true when it is an existing regular file.
func RegularFileSize(path string) (int64, bool) {
	if path == "" {
		return 0, false
	}
	info, statError := os.Stat(path)
	if statError != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return info.Size(), true
}

// RelativeLabel returns filePath relative to rootPath using forward slashes
// when rootPath is set and contains filePath. Otherwise it returns the base name.
func RelativeLabel(filePath, rootPath string) string {
	baseName := filepath.Base(filePath)
	if rootPath == "" {
		return baseName
	}
	relativePath, relativeError := filepath.Rel(filepath.Clean(rootPath), filepath.Clean(filePath))
	if relativeError != nil || relativePath == "." || relativePath == ".." || strings.HasPrefix(relativePath, parentDirectoryPrefix) {
		return baseName
	}
	return filepath.ToSlash(relativePath)
}

// FileExtension returns the extension of the base name of path including the dot.
// Leading dots are part of the stem, so ".env" and "..md" have no extension.
func FileExtension(path string) string {
	stem := strings.TrimLeft(filepath.Base(path), ".")
	separatorIndex := strings.LastIndex(stem, ".")
	if separatorIndex < 0 {
		return ""
	}
	return stem[separatorIndex:]
}

// LanguageTag derives a fenced block tag from the lowercase extension of name,
// falling back to defaultTag when name has no extension.
func LanguageTag(name, defaultTag string) string {
	extension := strings.TrimPrefix(strings.ToLower(FileExtension(name)), ".")
	if extension == "" {
		return defaultTag
	}
	return extension
}

// DeduplicateStrings trims values, drops empty ones and removes duplicates while preserving order.
func DeduplicateStrings(values []string) []string {
	encountered := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := encountered[trimmed]; exists {
			continue
		}
		encountered[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
