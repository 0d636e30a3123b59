// Package config holds the resolved selection configuration, parses
// .codegatherignore files, loads application defaults and scaffolds new projects.
package config

import (
	"fmt"

	"github.com/temirov/codegather/internal/patterns"
	"github.com/temirov/codegather/internal/types"
)

const (
	// DefaultFileCountThreshold is the selection size above which callers are warned.
	DefaultFileCountThreshold = 2000
	// DefaultWorkers is the number of concurrent file reads during assembly.
	DefaultWorkers = 8

	invalidPatternMessageFormat = "%s pattern %q: %v"
	missingOutputPathMessage    = "output path is empty"
)

// Configuration is the immutable, fully-resolved input of one run.
type Configuration struct {
	OutputPath               string
	SessionPromptPath        string
	EmitHeaders              bool
	DefaultExtensionPatterns []string
	IncludePatterns          []string
	ExcludePatterns          []string
	FileCountThreshold       int
	Workers                  int
	ConfigFilePath           string
}

// Rules returns copies of the pattern sets for matching.
func (configuration Configuration) Rules() patterns.Rules {
	return patterns.Rules{
		Include:  cloneStrings(configuration.IncludePatterns),
		Defaults: cloneStrings(configuration.DefaultExtensionPatterns),
		Exclude:  cloneStrings(configuration.ExcludePatterns),
	}
}

// PromptEnabled reports whether a session prompt is prepended.
func (configuration Configuration) PromptEnabled() bool {
	return configuration.SessionPromptPath != ""
}

// EffectiveThreshold returns the threshold, substituting the default for non-positive values.
func (configuration Configuration) EffectiveThreshold() int {
	if configuration.FileCountThreshold <= 0 {
		return DefaultFileCountThreshold
	}
	return configuration.FileCountThreshold
}

// EffectiveWorkers returns the worker count, substituting the default for non-positive values.
func (configuration Configuration) EffectiveWorkers() int {
	if configuration.Workers <= 0 {
		return DefaultWorkers
	}
	return configuration.Workers
}

// EffectiveIncludePatterns returns the include list that selection actually uses:
// explicit includes when present, the defaults otherwise.
func (configuration Configuration) EffectiveIncludePatterns() []string {
	if len(configuration.IncludePatterns) > 0 {
		return cloneStrings(configuration.IncludePatterns)
	}
	return cloneStrings(configuration.DefaultExtensionPatterns)
}

// Validate checks that every pattern is well formed and an output path is set.
func (configuration Configuration) Validate() error {
	patternGroups := []struct {
		name     string
		patterns []string
	}{
		{name: "default extension", patterns: configuration.DefaultExtensionPatterns},
		{name: "include", patterns: configuration.IncludePatterns},
		{name: "exclude", patterns: configuration.ExcludePatterns},
	}
	for _, group := range patternGroups {
		for _, pattern := range group.patterns {
			if validationError := patterns.Validate(pattern); validationError != nil {
				return &types.GatherError{
					Code:    types.ErrorCodeConfigParse,
					Path:    configuration.ConfigFilePath,
					Message: fmt.Sprintf(invalidPatternMessageFormat, group.name, pattern, validationError),
				}
			}
		}
	}
	if configuration.OutputPath == "" {
		return &types.GatherError{Code: types.ErrorCodeConfigParse, Path: configuration.ConfigFilePath, Message: missingOutputPathMessage}
	}
	return nil
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
