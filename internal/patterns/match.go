// Package patterns implements the glob grammar used by codegather include and
// exclude rules.
//
// Grammar:
//   - "*" matches any run of characters except "/"
//   - "?" matches exactly one character except "/"
//   - "[...]" matches one character from a class; ranges ("a-z") and negation
//     ("[!...]" or "[^...]") are supported
//   - a segment consisting of "**" matches zero or more whole segments
//   - a trailing "/" marks a directory pattern, matching the directory and
//     everything beneath it
//
// A pattern without "/" matches the last path segment at any depth. A pattern
// with "/" is anchored at the root. A single-segment directory pattern such as
// "node_modules/" matches that directory component at any depth.
package patterns

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	segmentSeparator = "/"
	anySegments      = "**"
	currentDirPrefix = "./"
)

// ErrInvalidPattern indicates a malformed glob pattern.
var ErrInvalidPattern = errors.New("invalid pattern")

// compiledPattern is the normalized form of one pattern.
type compiledPattern struct {
	segments  []string
	directory bool
	anchored  bool
}

// NormalizePath converts a relative path to forward-slash form and strips a
// leading "./". A trailing "/" is preserved because it marks a directory.
func NormalizePath(relativePath string) string {
	normalized := strings.ReplaceAll(relativePath, "\\", segmentSeparator)
	for strings.HasPrefix(normalized, currentDirPrefix) {
		normalized = strings.TrimPrefix(normalized, currentDirPrefix)
	}
	return normalized
}

func compile(pattern string) (compiledPattern, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", segmentSeparator)
	for strings.HasPrefix(normalized, currentDirPrefix) {
		normalized = strings.TrimPrefix(normalized, currentDirPrefix)
	}
	compiled := compiledPattern{
		directory: strings.HasSuffix(normalized, segmentSeparator),
		anchored:  strings.HasPrefix(normalized, segmentSeparator),
	}
	normalized = strings.Trim(normalized, segmentSeparator)
	if normalized == "" {
		return compiledPattern{}, false
	}
	compiled.segments = strings.Split(normalized, segmentSeparator)
	if len(compiled.segments) > 1 {
		compiled.anchored = true
	}
	return compiled, true
}

// Validate reports whether pattern is well formed.
func Validate(pattern string) error {
	compiled, ok := compile(pattern)
	if !ok {
		return fmt.Errorf("%w: empty pattern %q", ErrInvalidPattern, pattern)
	}
	for _, segment := range compiled.segments {
		if segment == "" {
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, pattern)
		}
		if !classesTerminated(segment) {
			return fmt.Errorf("%w: unterminated character class in %q", ErrInvalidPattern, pattern)
		}
	}
	return nil
}

// Match reports whether relativePath matches pattern. A relativePath ending in
// "/" is treated as a directory. Malformed patterns never match.
func Match(relativePath string, pattern string) bool {
	compiled, ok := compile(pattern)
	if !ok {
		return false
	}
	normalizedPath := NormalizePath(relativePath)
	isDirectory := strings.HasSuffix(normalizedPath, segmentSeparator)
	normalizedPath = strings.Trim(normalizedPath, segmentSeparator)
	if normalizedPath == "" {
		return false
	}
	pathSegments := strings.Split(normalizedPath, segmentSeparator)

	if compiled.directory {
		directorySegments := pathSegments
		if !isDirectory {
			directorySegments = pathSegments[:len(pathSegments)-1]
		}
		if !compiled.anchored {
			for _, directorySegment := range directorySegments {
				if matchSegment(compiled.segments[0], directorySegment) {
					return true
				}
			}
			return false
		}
		return matchSegmentPrefix(compiled.segments, directorySegments)
	}

	if !compiled.anchored {
		return matchSegment(compiled.segments[0], pathSegments[len(pathSegments)-1])
	}
	return matchSegments(compiled.segments, pathSegments)
}

// MatchAny reports whether relativePath matches at least one pattern.
func MatchAny(relativePath string, patternList []string) bool {
	for _, pattern := range patternList {
		if Match(relativePath, pattern) {
			return true
		}
	}
	return false
}

// matchSegmentPrefix reports whether the pattern matches some non-empty
// leading run of pathSegments.
func matchSegmentPrefix(patternSegments []string, pathSegments []string) bool {
	for prefixLength := 1; prefixLength <= len(pathSegments); prefixLength++ {
		if matchSegments(patternSegments, pathSegments[:prefixLength]) {
			return true
		}
	}
	return false
}

func matchSegments(patternSegments []string, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	if patternSegments[0] == anySegments {
		for skipped := 0; skipped <= len(pathSegments); skipped++ {
			if matchSegments(patternSegments[1:], pathSegments[skipped:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	return matchSegment(patternSegments[0], pathSegments[0]) && matchSegments(patternSegments[1:], pathSegments[1:])
}

// matchSegment matches one path segment against one pattern segment using
// "*" backtracking.
func matchSegment(pattern string, name string) bool {
	patternIndex := 0
	nameIndex := 0
	starPatternIndex := -1
	starNameIndex := 0

	for nameIndex < len(name) {
		if patternIndex < len(pattern) {
			if pattern[patternIndex] == '*' {
				starPatternIndex = patternIndex
				starNameIndex = nameIndex
				patternIndex++
				continue
			}
			nextPatternIndex, nextNameIndex, matched, valid := matchSingle(pattern, patternIndex, name, nameIndex)
			if !valid {
				return false
			}
			if matched {
				patternIndex = nextPatternIndex
				nameIndex = nextNameIndex
				continue
			}
		}
		if starPatternIndex < 0 {
			return false
		}
		_, width := utf8.DecodeRuneInString(name[starNameIndex:])
		starNameIndex += width
		nameIndex = starNameIndex
		patternIndex = starPatternIndex + 1
	}

	for patternIndex < len(pattern) && pattern[patternIndex] == '*' {
		patternIndex++
	}
	return patternIndex == len(pattern)
}

// matchSingle matches one non-star pattern token against one rune of name.
func matchSingle(pattern string, patternIndex int, name string, nameIndex int) (int, int, bool, bool) {
	nameRune, nameWidth := utf8.DecodeRuneInString(name[nameIndex:])
	switch pattern[patternIndex] {
	case '?':
		return patternIndex + 1, nameIndex + nameWidth, true, true
	case '[':
		matched, next, valid := matchClass(pattern, patternIndex, nameRune)
		if !valid {
			return 0, 0, false, false
		}
		return next, nameIndex + nameWidth, matched, true
	default:
		patternRune, patternWidth := utf8.DecodeRuneInString(pattern[patternIndex:])
		return patternIndex + patternWidth, nameIndex + nameWidth, patternRune == nameRune, true
	}
}

// matchClass evaluates the class starting at pattern[start] == '[' and returns
// whether candidate is a member, the index after the closing ']' and whether
// the class is well formed.
func matchClass(pattern string, start int, candidate rune) (bool, int, bool) {
	index := start + 1
	negated := false
	if index < len(pattern) && (pattern[index] == '!' || pattern[index] == '^') {
		negated = true
		index++
	}
	member := false
	first := true
	for index < len(pattern) {
		if pattern[index] == ']' && !first {
			return member != negated, index + 1, true
		}
		first = false
		low, lowWidth := utf8.DecodeRuneInString(pattern[index:])
		index += lowWidth
		high := low
		if index+1 < len(pattern) && pattern[index] == '-' && pattern[index+1] != ']' {
			upper, upperWidth := utf8.DecodeRuneInString(pattern[index+1:])
			high = upper
			index += 1 + upperWidth
		}
		if low <= candidate && candidate <= high {
			member = true
		}
	}
	return false, 0, false
}

func classesTerminated(segment string) bool {
	for index := 0; index < len(segment); index++ {
		if segment[index] != '[' {
			continue
		}
		_, next, valid := matchClass(segment, index, utf8.RuneError)
		if !valid {
			return false
		}
		index = next - 1
	}
	return true
}
