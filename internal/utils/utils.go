// Package utils contains general helper functions used across codegather.
package utils

import (
	"path/filepath"
	"strings"
)

// DeduplicatePatterns removes blank entries and duplicates while preserving
// order. Entries are trimmed; the first occurrence of each pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == EmptyString {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// ResolveAgainst returns path unchanged when absolute, otherwise joined onto base.
// The result is cleaned.
func ResolveAgainst(base string, path string) string {
	if path == EmptyString {
		return EmptyString
	}
	if filepath.IsAbs(path) || base == EmptyString {
		absolutePath, absoluteError := filepath.Abs(path)
		if absoluteError != nil {
			return filepath.Clean(path)
		}
		return absolutePath
	}
	return filepath.Clean(filepath.Join(base, path))
}
