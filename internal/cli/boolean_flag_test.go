package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--tree"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--tree=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--tree", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--tree", "on"}, expected: true},
		{name: "leaves_positional_argument", arguments: []string{"--tree", "main.go"}, expected: true},
		{name: "rejects_unknown_literal", arguments: []string{"--tree=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			var flagValue bool
			registerToggleFlag(command.Flags(), &flagValue, "tree", testCase.defaultValue, "include tree")
			parseErr := command.ParseFlags(joinToggleFlagValues(command, testCase.arguments))
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
				t.Fatalf("flag value = %v, want %v", flagValue, testCase.expected)
			}
		})
	}
}

func TestJoinToggleFlagValuesCoversSubcommands(t *testing.T) {
	rootCommand := &cobra.Command{Use: "root"}
	childCommand := &cobra.Command{Use: "report"}
	var clipboardEnabled bool
	var rootPath string
	registerToggleFlag(childCommand.Flags(), &clipboardEnabled, "clipboard", false, "copy")
	childCommand.Flags().StringVar(&rootPath, "root", "", "root")
	rootCommand.AddCommand(childCommand)

	arguments := []string{"report", "--clipboard", "yes", "--root", "no", "--", "--clipboard", "no"}
	expected := []string{"report", "--clipboard=yes", "--root", "no", "--", "--clipboard", "no"}
	if joined := joinToggleFlagValues(rootCommand, arguments); !reflect.DeepEqual(joined, expected) {
		t.Fatalf("joined = %v, want %v", joined, expected)
	}
}
