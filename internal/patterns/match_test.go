package patterns_test

import (
	"errors"
	"testing"

	"github.com/temirov/codegather/internal/patterns"
)

func TestMatch(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		path     string
		pattern  string
		expected bool
	}{
		{name: "basename star", path: "sub/c.txt", pattern: "*.txt", expected: true},
		{name: "basename star mismatch", path: "b.md", pattern: "*.txt", expected: false},
		{name: "star does not cross separator", path: "src/a/b.go", pattern: "src/*.go", expected: false},
		{name: "anchored full path", path: "src/b.go", pattern: "src/*.go", expected: true},
		{name: "leading slash anchors", path: "a.log", pattern: "/a.log", expected: true},
		{name: "leading slash anchors at root only", path: "x/a.log", pattern: "/a.log", expected: false},
		{name: "question mark", path: "a1.txt", pattern: "a?.txt", expected: true},
		{name: "question mark needs one char", path: "a.txt", pattern: "a?.txt", expected: false},
		{name: "character class", path: "file_b.go", pattern: "file_[abc].go", expected: true},
		{name: "character range", path: "v7.txt", pattern: "v[0-9].txt", expected: true},
		{name: "negated class", path: "v7.txt", pattern: "v[!0-9].txt", expected: false},
		{name: "caret negation", path: "vx.txt", pattern: "v[^0-9].txt", expected: true},
		{name: "case sensitive", path: "README.MD", pattern: "*.md", expected: false},
		{name: "directory pattern matches directory", path: "node_modules/", pattern: "node_modules/", expected: true},
		{name: "directory pattern matches descendant", path: "node_modules/pkg/index.js", pattern: "node_modules/", expected: true},
		{name: "directory pattern matches nested component", path: "web/node_modules/pkg/index.js", pattern: "node_modules/", expected: true},
		{name: "directory pattern ignores same-named file", path: "web/node_modules", pattern: "node_modules/", expected: false},
		{name: "multi segment directory pattern anchored", path: "src/gen/types.go", pattern: "src/gen/", expected: true},
		{name: "multi segment directory pattern not floating", path: "lib/src/gen/types.go", pattern: "src/gen/", expected: false},
		{name: "double star any depth", path: "a/b/c/d.go", pattern: "a/**/d.go", expected: true},
		{name: "double star zero segments", path: "a/d.go", pattern: "a/**/d.go", expected: true},
		{name: "windows separators normalized", path: "sub\\c.txt", pattern: "sub/*.txt", expected: true},
		{name: "windows pattern separators normalized", path: "build/out.bin", pattern: "build\\", expected: true},
		{name: "dot slash prefix stripped", path: "./a.txt", pattern: "a.txt", expected: true},
		{name: "unterminated class never matches", path: "a[", pattern: "a[", expected: false},
		{name: "empty pattern never matches", path: "a.txt", pattern: "  ", expected: false},
		{name: "unicode question mark", path: "ü.txt", pattern: "?.txt", expected: true},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			result := patterns.Match(testCase.path, testCase.pattern)
			if result != testCase.expected {
				subTest.Fatalf("Match(%q, %q) = %v, want %v", testCase.path, testCase.pattern, result, testCase.expected)
			}
		})
	}
}

func TestValidate(testingHandle *testing.T) {
	validPatterns := []string{"*.go", "node_modules/", "src/**/gen/", "[a-z]*.txt", "[]]x"}
	for _, pattern := range validPatterns {
		if err := patterns.Validate(pattern); err != nil {
			testingHandle.Fatalf("Validate(%q) unexpected error: %v", pattern, err)
		}
	}
	invalidPatterns := []string{"", "/", "a[bc", "src//x"}
	for _, pattern := range invalidPatterns {
		err := patterns.Validate(pattern)
		if !errors.Is(err, patterns.ErrInvalidPattern) {
			testingHandle.Fatalf("Validate(%q) expected ErrInvalidPattern, got %v", pattern, err)
		}
	}
}
