package patterns

import "strings"

// Decision is the selection outcome for one path.
type Decision int

const (
	// DecisionExclude keeps the path out of the selection.
	DecisionExclude Decision = iota
	// DecisionInclude adds the path to the selection.
	DecisionInclude
)

// String returns the decision name.
func (decision Decision) String() string {
	if decision == DecisionInclude {
		return "include"
	}
	return "exclude"
}

// Rules groups the three pattern sets that drive selection.
type Rules struct {
	Include  []string
	Defaults []string
	Exclude  []string
}

// Decide applies the precedence rules to a file path relative to the scan root:
// exclude patterns win, then a non-empty include list is authoritative, then the
// default extension list applies. Empty lists match nothing.
func Decide(relativePath string, rules Rules) Decision {
	if Excluded(relativePath, rules.Exclude) {
		return DecisionExclude
	}
	if len(rules.Include) > 0 {
		if MatchAny(relativePath, rules.Include) {
			return DecisionInclude
		}
		return DecisionExclude
	}
	if MatchAny(relativePath, rules.Defaults) {
		return DecisionInclude
	}
	return DecisionExclude
}

// Excluded reports whether relativePath or one of its ancestor directories
// matches an exclude pattern.
func Excluded(relativePath string, excludePatterns []string) bool {
	if len(excludePatterns) == 0 {
		return false
	}
	if MatchAny(relativePath, excludePatterns) {
		return true
	}
	normalizedPath := strings.Trim(NormalizePath(relativePath), segmentSeparator)
	pathSegments := strings.Split(normalizedPath, segmentSeparator)
	for ancestorLength := 1; ancestorLength < len(pathSegments); ancestorLength++ {
		ancestor := strings.Join(pathSegments[:ancestorLength], segmentSeparator) + segmentSeparator
		if MatchAny(ancestor, excludePatterns) {
			return true
		}
	}
	return false
}

// DirectoryExcluded reports whether the directory at relativeDirectory must be
// pruned. The path is tested with a trailing separator.
func DirectoryExcluded(relativeDirectory string, excludePatterns []string) bool {
	normalized := strings.TrimSuffix(NormalizePath(relativeDirectory), segmentSeparator)
	if normalized == "" || normalized == "." {
		return false
	}
	return MatchAny(normalized+segmentSeparator, excludePatterns)
}
