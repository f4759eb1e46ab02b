package merge

import (
	"path/filepath"
	"testing"
)

func TestJoinTraversalPathKeepsRootAsGiven(t *testing.T) {
	separator := string(filepath.Separator)
	testCases := []struct {
		name          string
		directoryPath string
		entryName     string
		expected      string
	}{
		{name: "dot_root", directoryPath: ".", entryName: "src", expected: "." + separator + "src"},
		{name: "dot_slash_root", directoryPath: "." + separator, entryName: "src", expected: "." + separator + "src"},
		{name: "nested_relative", directoryPath: "." + separator + "src", entryName: "a.c", expected: "." + separator + "src" + separator + "a.c"},
		{name: "unclean_root", directoryPath: "a" + separator + ".." + separator + "b", entryName: "c", expected: "a" + separator + ".." + separator + "b" + separator + "c"},
		{name: "absolute_root", directoryPath: separator + "project", entryName: "main.go", expected: separator + "project" + separator + "main.go"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := joinTraversalPath(testCase.directoryPath, testCase.entryName); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}
