package utils_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/codegather/internal/utils"
)

func TestDeduplicatePatterns(testingHandle *testing.T) {
	result := utils.DeduplicatePatterns([]string{"*.go", " *.go ", "", "vendor/", "*.md", "vendor/"})
	expected := []string{"*.go", "vendor/", "*.md"}
	if !reflect.DeepEqual(result, expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, result)
	}
}

func TestResolveAgainst(testingHandle *testing.T) {
	base := testingHandle.TempDir()
	if result := utils.ResolveAgainst(base, "out/combined.txt"); result != filepath.Join(base, "out", "combined.txt") {
		testingHandle.Fatalf("unexpected relative resolution %s", result)
	}
	absolute := filepath.Join(base, "abs.txt")
	if result := utils.ResolveAgainst("/elsewhere", absolute); result != absolute {
		testingHandle.Fatalf("absolute path changed to %s", result)
	}
	if result := utils.ResolveAgainst(base, ""); result != "" {
		testingHandle.Fatalf("expected empty result, got %s", result)
	}
}

func TestIsBinary(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "text", data: []byte("package main\n"), expected: false},
		{name: "nul byte", data: []byte{'a', 0, 'b'}, expected: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			if result := utils.IsBinary(testCase.data); result != testCase.expected {
				subTest.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestDetectMimeTypeBytes(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected string
	}{
		{name: "text", data: []byte("plain text"), expected: "text/plain; charset=utf-8"},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), expected: "image/png"},
		{name: "empty", data: nil, expected: "text/plain; charset=utf-8"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			if mimeType := utils.DetectMimeTypeBytes(testCase.data); mimeType != testCase.expected {
				subTest.Fatalf("expected %q, got %q", testCase.expected, mimeType)
			}
		})
	}
}

func TestFormatFileSize(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			if result := utils.FormatFileSize(testCase.bytes); result != testCase.expected {
				subTest.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
