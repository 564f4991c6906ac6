package utils

import (
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develVersionMarker = "(devel)"
)

// applicationVersion can be set at link time with -ldflags "-X".
var applicationVersion = ""

// GetApplicationVersion reports the link-time version, the module version from
// build info, or a git description of the checkout the binary runs from.
func GetApplicationVersion() string {
	if applicationVersion != "" {
		return applicationVersion
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersionMarker {
		return buildInfo.Main.Version
	}

	repositoryRoot, found := findRepositoryRoot(".")
	if !found {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		gitCommand := exec.Command("git", describeArguments...)
		gitCommand.Dir = repositoryRoot
		gitOutput, gitError := gitCommand.Output()
		if gitError == nil && len(gitOutput) > 0 {
			return strings.TrimSpace(string(gitOutput))
		}
	}
	return unknownVersion
}

// findRepositoryRoot walks upward from startDirectory looking for a .git directory.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, resolveError := ResolveAbsolutePath(startDirectory)
	if resolveError != nil {
		return "", false
	}
	for {
		if IsDirectory(filepath.Join(currentDirectory, GitDirectoryName)) {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}
