package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func newToggleTestCommand(target *bool, defaultValue bool) *cobra.Command {
	command := &cobra.Command{
		Use:  "toggle",
		Args: cobra.ArbitraryArgs,
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	addToggleFlag(command.Flags(), target, "feature", defaultValue, "feature toggle")
	return command
}

func TestToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "default_kept", defaultValue: true, arguments: nil, expected: true},
		{name: "bare_flag_sets_true", arguments: []string{"--feature"}, expected: true},
		{name: "inline_false", defaultValue: true, arguments: []string{"--feature=false"}, expected: false},
		{name: "separate_no", defaultValue: true, arguments: []string{"--feature", "no"}, expected: false},
		{name: "separate_on", arguments: []string{"--feature", "on"}, expected: true},
		{name: "positional_not_consumed", arguments: []string{"--feature", "src"}, expected: true},
		{name: "invalid_inline", arguments: []string{"--feature=maybe"}, expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var value bool
			command := newToggleTestCommand(&value, testCase.defaultValue)
			command.SetArgs(expandToggleArguments(command, testCase.arguments))
			err := command.Execute()
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if value != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, value)
			}
		})
	}
}

func TestExpandToggleArguments(t *testing.T) {
	var value bool
	command := newToggleTestCommand(&value, false)
	command.Flags().String("output", "", "output file")

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{name: "joins_literal", arguments: []string{"--feature", "yes", "src"}, expected: []string{"--feature=yes", "src"}},
		{name: "ignores_string_flags", arguments: []string{"--output", "no"}, expected: []string{"--output", "no"}},
		{name: "keeps_inline", arguments: []string{"--feature=off"}, expected: []string{"--feature=off"}},
		{name: "stops_at_terminator", arguments: []string{"--", "--feature", "no"}, expected: []string{"--", "--feature", "no"}},
		{name: "leaves_following_flag", arguments: []string{"--feature", "--output", "x"}, expected: []string{"--feature", "--output", "x"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := expandToggleArguments(command, testCase.arguments)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}
