package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codegather/internal/types"
	"github.com/temirov/codegather/internal/utils"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

func testDependencies(testingHandle *testing.T, workingDirectory string, copier *recordingCopier) commandDependencies {
	testingHandle.Helper()
	return commandDependencies{
		copier:                copier,
		globalConfigDirectory: testingHandle.TempDir(),
		workingDirectory:      func() (string, error) { return workingDirectory, nil },
	}
}

func writeProjectFiles(testingHandle *testing.T, root string, files map[string]string) {
	testingHandle.Helper()
	for relativePath, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(filePath), 0o755); mkdirError != nil {
			testingHandle.Fatalf("mkdir: %v", mkdirError)
		}
		if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
			testingHandle.Fatalf("write %s: %v", relativePath, writeError)
		}
	}
}

func executeCommand(testingHandle *testing.T, dependencies commandDependencies, input string, arguments ...string) (string, string, error) {
	testingHandle.Helper()
	rootCommand := createRootCommand(dependencies)
	var standardOutput, standardError bytes.Buffer
	rootCommand.SetOut(&standardOutput)
	rootCommand.SetErr(&standardError)
	rootCommand.SetIn(strings.NewReader(input))
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	executionError := rootCommand.Execute()
	return standardOutput.String(), standardError.String(), executionError
}

func TestVersionFlag(testingHandle *testing.T) {
	previousVersion := utils.Version
	utils.Version = "v9.9.9"
	defer func() { utils.Version = previousVersion }()

	standardOutput, _, executionError := executeCommand(testingHandle, testDependencies(testingHandle, testingHandle.TempDir(), &recordingCopier{}), "", "--version")
	if executionError != nil {
		testingHandle.Fatalf("--version failed: %v", executionError)
	}
	if standardOutput != "codegather version: v9.9.9\n" {
		testingHandle.Fatalf("unexpected version output %q", standardOutput)
	}
}

func TestRunCommandWritesArtifact(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	writeProjectFiles(testingHandle, workingDirectory, map[string]string{
		".codegatherignore": "session_prompt_file: prompt.txt\n[include]\n*.go\n[exclude]\nvendor/\n",
		"prompt.txt":        "Project [root directory name]",
		"main.go":           "package main",
		"pkg/lib.go":        "package pkg",
		"vendor/dep/dep.go": "package dep",
		"README.md":         "# readme",
	})
	copier := &recordingCopier{}

	standardOutput, _, executionError := executeCommand(testingHandle, testDependencies(testingHandle, workingDirectory, copier), "", "run", "--no-header", "--copy")
	if executionError != nil {
		testingHandle.Fatalf("run failed: %v", executionError)
	}

	artifactPath := filepath.Join(workingDirectory, utils.DefaultOutputFileName)
	artifact, readError := os.ReadFile(artifactPath)
	if readError != nil {
		testingHandle.Fatalf("read artifact: %v", readError)
	}
	expectedArtifact := "Project " + filepath.Base(workingDirectory) +
		"\n\n--> code files combine starts here: <--\n\n" +
		"package main\n\npackage pkg"
	if string(artifact) != expectedArtifact {
		testingHandle.Fatalf("artifact mismatch:\n got %q\nwant %q", artifact, expectedArtifact)
	}
	if !strings.Contains(standardOutput, "Wrote "+artifactPath) || !strings.Contains(standardOutput, "Summary: 2 files") {
		testingHandle.Fatalf("unexpected output %q", standardOutput)
	}
	if len(copier.copied) != 1 || copier.copied[0] != expectedArtifact {
		testingHandle.Fatalf("clipboard received %q", copier.copied)
	}
}

func TestRunCommandFlagPrecedence(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	projectRoot := filepath.Join(workingDirectory, "project")
	writeProjectFiles(testingHandle, projectRoot, map[string]string{
		".codegatherignore": "output_file: from_config.txt\nno_header: true\n[include]\n*.txt\n",
		"note.txt":          "note",
	})
	dependencies := testDependencies(testingHandle, workingDirectory, &recordingCopier{})

	_, _, executionError := executeCommand(testingHandle, dependencies, "", "run", "project", "-o", "flag.txt", "--no-header", "false")
	if executionError != nil {
		testingHandle.Fatalf("run failed: %v", executionError)
	}
	artifact, readError := os.ReadFile(filepath.Join(workingDirectory, "flag.txt"))
	if readError != nil {
		testingHandle.Fatalf("flag output path was not used: %v", readError)
	}
	if !strings.Contains(string(artifact), "--- START FILE: note.txt ---") {
		testingHandle.Fatalf("expected headers from --no-header false, got %q", artifact)
	}
	if _, statError := os.Stat(filepath.Join(projectRoot, "from_config.txt")); !os.IsNotExist(statError) {
		testingHandle.Fatalf("configuration output path should be overridden")
	}

	_, _, executionError = executeCommand(testingHandle, dependencies, "", "run", "project")
	if executionError != nil {
		testingHandle.Fatalf("second run failed: %v", executionError)
	}
	configured, readError := os.ReadFile(filepath.Join(projectRoot, "from_config.txt"))
	if readError != nil {
		testingHandle.Fatalf("configuration output path was not used: %v", readError)
	}
	if string(configured) != "note" {
		testingHandle.Fatalf("expected header-less artifact, got %q", configured)
	}
}

func TestRunCommandLargeSelectionPrompt(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		input         string
		extraFlags    []string
		expectedError error
	}{
		{name: "declined", input: "n\n", expectedError: types.ErrAborted},
		{name: "end of input", input: "", expectedError: types.ErrAborted},
		{name: "accepted", input: "yes\n"},
		{name: "assume yes", extraFlags: []string{"--yes"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			workingDirectory := subTest.TempDir()
			writeProjectFiles(subTest, workingDirectory, map[string]string{
				".codegatherignore": "[include]\n*.go\n",
				"a.go":              "a",
				"b.go":              "b",
			})
			arguments := append([]string{"run", "--threshold", "1"}, testCase.extraFlags...)
			_, standardError, executionError := executeCommand(subTest, testDependencies(subTest, workingDirectory, &recordingCopier{}), testCase.input, arguments...)
			if testCase.expectedError == nil {
				if executionError != nil {
					subTest.Fatalf("run failed: %v", executionError)
				}
				return
			}
			if !errors.Is(executionError, testCase.expectedError) {
				subTest.Fatalf("expected %v, got %v", testCase.expectedError, executionError)
			}
			if !strings.Contains(standardError, "2 files selected (threshold 1). Continue? [y/N]: ") {
				subTest.Fatalf("missing confirmation prompt in %q", standardError)
			}
		})
	}
}

func TestRunCommandErrors(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	writeProjectFiles(testingHandle, workingDirectory, map[string]string{
		"broken/.codegatherignore": "[include\n",
	})
	testCases := []struct {
		name          string
		arguments     []string
		expectedError error
	}{
		{name: "missing root", arguments: []string{"run", "absent"}, expectedError: types.ErrRootNotFound},
		{name: "explicit config missing", arguments: []string{"run", "-c", "nope.cfg"}, expectedError: types.ErrConfigParse},
		{name: "unparsable config", arguments: []string{"run", "broken"}, expectedError: types.ErrConfigParse},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			_, _, executionError := executeCommand(subTest, testDependencies(subTest, workingDirectory, &recordingCopier{}), "", testCase.arguments...)
			if !errors.Is(executionError, testCase.expectedError) {
				subTest.Fatalf("expected %v, got %v", testCase.expectedError, executionError)
			}
		})
	}
}

func TestRunCommandRejectsConflictingPromptFlags(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	_, _, executionError := executeCommand(testingHandle, testDependencies(testingHandle, workingDirectory, &recordingCopier{}), "", "run", "--session-prompt", "p.txt", "--no-session-prompt")
	if executionError == nil {
		testingHandle.Fatalf("expected mutually exclusive flag error")
	}
}

func TestInitCommand(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	dependencies := testDependencies(testingHandle, workingDirectory, &recordingCopier{})

	standardOutput, _, executionError := executeCommand(testingHandle, dependencies, "", "init", "service")
	if executionError != nil {
		testingHandle.Fatalf("init failed: %v", executionError)
	}
	configPath := filepath.Join(workingDirectory, "service", utils.ConfigFileName)
	if !strings.Contains(standardOutput, "created config: "+configPath) {
		testingHandle.Fatalf("unexpected init output %q", standardOutput)
	}

	if writeError := os.WriteFile(configPath, []byte("custom"), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}
	standardOutput, standardError, executionError := executeCommand(testingHandle, dependencies, "n\ny\n", "init", "service")
	if executionError != nil {
		testingHandle.Fatalf("second init failed: %v", executionError)
	}
	if !strings.Contains(standardOutput, "skipped config") || !strings.Contains(standardOutput, "overwritten session prompt") {
		testingHandle.Fatalf("unexpected init output %q", standardOutput)
	}
	if strings.Count(standardError, "Overwrite? [y/N]: ") != 2 {
		testingHandle.Fatalf("expected two overwrite questions, got %q", standardError)
	}
	kept, _ := os.ReadFile(configPath)
	if string(kept) != "custom" {
		testingHandle.Fatalf("declined overwrite replaced the file")
	}

	standardOutput, _, executionError = executeCommand(testingHandle, dependencies, "", "init", "service", "--force")
	if executionError != nil {
		testingHandle.Fatalf("forced init failed: %v", executionError)
	}
	if strings.Count(standardOutput, "overwritten") != 2 {
		testingHandle.Fatalf("expected both files overwritten, got %q", standardOutput)
	}
}
