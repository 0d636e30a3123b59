package config

import (
	"path/filepath"

	"github.com/temirov/codegather/internal/utils"
)

// Overrides carries command-line values. Nil pointers leave lower layers in effect.
// Paths are relative to the working directory.
type Overrides struct {
	OutputPath           *string
	SessionPromptPath    *string
	DisableSessionPrompt bool
	NoHeader             *bool
	FileCountThreshold   *int
	Workers              *int
}

// ResolveInput gathers every configuration layer for one run.
type ResolveInput struct {
	Root             string
	WorkingDirectory string
	File             FileSettings
	Defaults         RunConfiguration
	Overrides        Overrides
}

// Resolve merges flags, the configuration file, application defaults and
// built-in defaults, in that order of precedence, into a Configuration.
// Paths from the configuration file are relative to the root; paths from flags
// and the built-in output name are relative to the working directory.
func Resolve(input ResolveInput) Configuration {
	workingDirectory := input.WorkingDirectory
	root := filepath.Clean(input.Root)

	configuration := Configuration{
		EmitHeaders:              true,
		DefaultExtensionPatterns: utils.DeduplicatePatterns(input.File.DefaultExtensions),
		IncludePatterns:          utils.DeduplicatePatterns(input.File.IncludePatterns),
		ExcludePatterns:          utils.DeduplicatePatterns(input.File.ExcludePatterns),
		FileCountThreshold:       DefaultFileCountThreshold,
		Workers:                  DefaultWorkers,
	}
	if input.File.Found {
		configuration.ConfigFilePath = utils.ResolveAgainst(workingDirectory, input.File.SourcePath)
	}

	switch {
	case input.Overrides.OutputPath != nil && *input.Overrides.OutputPath != "":
		configuration.OutputPath = utils.ResolveAgainst(workingDirectory, *input.Overrides.OutputPath)
	case input.File.OutputFile != nil && *input.File.OutputFile != "":
		configuration.OutputPath = utils.ResolveAgainst(root, *input.File.OutputFile)
	default:
		configuration.OutputPath = utils.ResolveAgainst(workingDirectory, utils.DefaultOutputFileName)
	}

	if !input.Overrides.DisableSessionPrompt {
		switch {
		case input.Overrides.SessionPromptPath != nil && *input.Overrides.SessionPromptPath != "":
			configuration.SessionPromptPath = utils.ResolveAgainst(workingDirectory, *input.Overrides.SessionPromptPath)
		case input.File.SessionPromptFile != nil && *input.File.SessionPromptFile != "":
			configuration.SessionPromptPath = utils.ResolveAgainst(root, *input.File.SessionPromptFile)
		}
	}

	switch {
	case input.Overrides.NoHeader != nil:
		configuration.EmitHeaders = !*input.Overrides.NoHeader
	case input.File.NoHeader != nil:
		configuration.EmitHeaders = !*input.File.NoHeader
	case input.Defaults.Headers != nil:
		configuration.EmitHeaders = *input.Defaults.Headers
	}

	switch {
	case input.Overrides.FileCountThreshold != nil:
		configuration.FileCountThreshold = *input.Overrides.FileCountThreshold
	case input.Defaults.Threshold != nil:
		configuration.FileCountThreshold = *input.Defaults.Threshold
	}

	switch {
	case input.Overrides.Workers != nil:
		configuration.Workers = *input.Overrides.Workers
	case input.Defaults.Workers != nil:
		configuration.Workers = *input.Defaults.Workers
	}

	return configuration
}
