package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// Version is injected at build time with -ldflags "-X .../utils.Version=v1.2.3".
var Version = EmptyString

// GetApplicationVersion reports the linker-provided version, then the module
// build info, then `git describe` for development checkouts.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	repositoryRoot := findRepositoryRoot(".")
	if repositoryRoot == EmptyString {
		return unknownVersion
	}
	describeArguments := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeArguments {
		// #nosec G204
		gitCommand := exec.Command("git", arguments...)
		gitCommand.Dir = repositoryRoot
		gitOutput, gitError := gitCommand.Output()
		if gitError == nil && len(gitOutput) > 0 {
			return strings.TrimSpace(string(gitOutput))
		}
	}
	return unknownVersion
}

// findRepositoryRoot walks upward from startDirectory to the first directory
// containing a .git folder.
func findRepositoryRoot(startDirectory string) string {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return EmptyString
	}
	for {
		if fileInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && fileInformation.IsDir() {
			return currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return EmptyString
		}
		currentDirectory = parentDirectory
	}
}
