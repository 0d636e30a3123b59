package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name             string
		defaultValue     bool
		arguments        []string
		expected         bool
		expectChanged    bool
		expectPositional []string
		expectError      bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
		},
		{
			name:          "sets_true_without_value",
			defaultValue:  false,
			arguments:     []string{"--copy"},
			expected:      true,
			expectChanged: true,
		},
		{
			name:          "sets_false_with_equals",
			defaultValue:  true,
			arguments:     []string{"--copy=false"},
			expected:      false,
			expectChanged: true,
		},
		{
			name:          "sets_false_with_separate_literal",
			defaultValue:  true,
			arguments:     []string{"--copy", "no"},
			expected:      false,
			expectChanged: true,
		},
		{
			name:             "keeps_following_path_positional",
			defaultValue:     false,
			arguments:        []string{"--copy", "./project"},
			expected:         true,
			expectChanged:    true,
			expectPositional: []string{"./project"},
		},
		{
			name:         "rejects_unknown_literal",
			defaultValue: false,
			arguments:    []string{"--copy=maybe"},
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			flagValue := !testCase.defaultValue
			registerToggleFlag(command.Flags(), &flagValue, "copy", "", testCase.defaultValue, "copy the artifact")
			parseErr := command.ParseFlags(normalizeToggleArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
			if command.Flags().Changed("copy") != testCase.expectChanged {
				t.Fatalf("expected changed=%t", testCase.expectChanged)
			}
			positional := command.Flags().Args()
			if len(testCase.expectPositional) > 0 && !reflect.DeepEqual(positional, testCase.expectPositional) {
				t.Fatalf("expected positional %v, got %v", testCase.expectPositional, positional)
			}
		})
	}
}

func TestNormalizeToggleArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{Use: "toggle-test"}
	var enabled bool
	registerToggleFlag(command.Flags(), &enabled, "tokens", "", false, "count tokens")
	normalized := normalizeToggleArguments(command, []string{"--tokens", "yes", "--", "--tokens", "no"})
	expected := []string{"--tokens=yes", "--", "--tokens", "no"}
	if !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
