package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/codegather/internal/utils"
)

// InitAction describes what happened to one scaffolded file.
type InitAction string

const (
	// InitActionCreated means the file did not exist and was written.
	InitActionCreated InitAction = "created"
	// InitActionOverwritten means an existing file was replaced.
	InitActionOverwritten InitAction = "overwritten"
	// InitActionSkipped means an existing file was kept.
	InitActionSkipped InitAction = "skipped"

	defaultConfigurationTemplate = `# codegather configuration (.codegatherignore)
# Settings below can be overridden by command-line flags.

# output_file: combined_project_code.txt
session_prompt_file: .codegather_session_prompt.txt
# no_header: false
# default_extensions: py, ts

# Files to include, one glob per line. When present they replace default_extensions.
[include]
*.js
*.jsx
# *.py
# *.ts

# Files and directories to exclude. A trailing "/" marks a directory.
[exclude]
node_modules/
.git/
dist/
build/
venv/
__pycache__/
*.log
*.tmp
.DS_Store
`

	defaultSessionPromptTemplate = `Hello,

This file contains the combined code and configuration files of a project I am working on. Familiarize yourself with its functionality, configuration, imports, logic and styling.

Project Context:

Name: [root directory name]
Stack: # e.g., react native, firebase, expo
Configuration: # e.g., developer build, JS files

Rules for this session:
When outputting code, provide full files so I can paste them directly into my editor. If a change touches several parts of a file, output the whole file; for isolated changes a snippet is fine. Spell out any additional implementation steps.

Keep the existing styling and logic unless a change is required for the requested functionality. Ask for any additional files you need. Keep responses concise unless I ask for an opinion.
I will describe my request in the chat.
`
)

// InitOptions controls project scaffolding.
type InitOptions struct {
	Root  string
	Force bool
	// ConfirmOverwrite is consulted for existing files when Force is false.
	// A nil function keeps existing files.
	ConfirmOverwrite func(path string) (bool, error)
}

// InitResult reports the outcome for one scaffolded file.
type InitResult struct {
	Path   string
	Label  string
	Action InitAction
}

// InitializeProject writes the default configuration and session prompt into
// the root directory, creating the directory when needed.
func InitializeProject(options InitOptions) ([]InitResult, error) {
	root := options.Root
	if root == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory for initialization: %w", err)
		}
		root = workingDirectory
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create root directory %s: %w", root, err)
	}

	scaffoldFiles := []struct {
		name    string
		label   string
		content string
	}{
		{name: utils.ConfigFileName, label: "config", content: defaultConfigurationTemplate},
		{name: utils.SessionPromptFileName, label: "session prompt", content: defaultSessionPromptTemplate},
	}

	results := make([]InitResult, 0, len(scaffoldFiles))
	for _, scaffoldFile := range scaffoldFiles {
		destinationPath := filepath.Join(root, scaffoldFile.name)
		action := InitActionCreated

		if _, err := os.Stat(destinationPath); err == nil {
			action = InitActionOverwritten
			if !options.Force {
				overwrite := false
				if options.ConfirmOverwrite != nil {
					confirmed, confirmErr := options.ConfirmOverwrite(destinationPath)
					if confirmErr != nil {
						return results, fmt.Errorf("confirm overwrite of %s: %w", destinationPath, confirmErr)
					}
					overwrite = confirmed
				}
				if !overwrite {
					results = append(results, InitResult{Path: destinationPath, Label: scaffoldFile.label, Action: InitActionSkipped})
					continue
				}
			}
		} else if !os.IsNotExist(err) {
			return results, fmt.Errorf("inspect %s path %s: %w", scaffoldFile.label, destinationPath, err)
		}

		if err := os.WriteFile(destinationPath, []byte(scaffoldFile.content), 0o644); err != nil {
			return results, fmt.Errorf("write %s file %s: %w", scaffoldFile.label, destinationPath, err)
		}
		results = append(results, InitResult{Path: destinationPath, Label: scaffoldFile.label, Action: action})
	}
	return results, nil
}
