package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codegather/internal/utils"
)

func TestInitializeProjectCreatesFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	results, err := InitializeProject(InitOptions{Root: root})
	if err != nil {
		t.Fatalf("InitializeProject error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, result := range results {
		if result.Action != InitActionCreated {
			t.Fatalf("expected %s to be created, got %s", result.Path, result.Action)
		}
	}
	content, readErr := os.ReadFile(filepath.Join(root, utils.SessionPromptFileName))
	if readErr != nil {
		t.Fatalf("read prompt: %v", readErr)
	}
	if !strings.Contains(string(content), "[root directory name]") {
		t.Fatalf("prompt template lost its placeholder: %s", content)
	}
}

func TestInitializeProjectTemplateParses(t *testing.T) {
	root := t.TempDir()
	if _, err := InitializeProject(InitOptions{Root: root}); err != nil {
		t.Fatalf("InitializeProject error: %v", err)
	}
	settings, err := LoadConfigurationFile(filepath.Join(root, utils.ConfigFileName))
	if err != nil {
		t.Fatalf("scaffolded configuration does not parse: %v", err)
	}
	if settings.SessionPromptFile == nil || *settings.SessionPromptFile != utils.SessionPromptFileName {
		t.Fatalf("unexpected session prompt setting: %v", settings.SessionPromptFile)
	}
	if len(settings.IncludePatterns) != 2 || len(settings.ExcludePatterns) != 9 {
		t.Fatalf("unexpected patterns include=%v exclude=%v", settings.IncludePatterns, settings.ExcludePatterns)
	}
}

func TestInitializeProjectPreventsOverwriteWithoutForce(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, utils.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	results, err := InitializeProject(InitOptions{Root: root, ConfirmOverwrite: func(string) (bool, error) { return false, nil }})
	if err != nil {
		t.Fatalf("InitializeProject error: %v", err)
	}
	if results[0].Action != InitActionSkipped {
		t.Fatalf("expected config to be skipped, got %s", results[0].Action)
	}
	content, _ := os.ReadFile(configPath)
	if string(content) != "existing" {
		t.Fatalf("existing configuration was modified")
	}
}

func TestInitializeProjectForceOverwrites(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, utils.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	confirmCalled := false
	results, err := InitializeProject(InitOptions{Root: root, Force: true, ConfirmOverwrite: func(string) (bool, error) {
		confirmCalled = true
		return false, nil
	}})
	if err != nil {
		t.Fatalf("InitializeProject error: %v", err)
	}
	if confirmCalled {
		t.Fatalf("force must not ask for confirmation")
	}
	if results[0].Action != InitActionOverwritten {
		t.Fatalf("expected overwrite, got %s", results[0].Action)
	}
}

func TestInitializeProjectPropagatesConfirmationError(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, utils.ConfigFileName), []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	inputError := errors.New("stdin closed")
	_, err := InitializeProject(InitOptions{Root: root, ConfirmOverwrite: func(string) (bool, error) { return false, inputError }})
	if !errors.Is(err, inputError) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
}
