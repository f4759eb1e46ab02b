package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(t *testing.T, fileSystem afero.Fs, filePath string, content string) {
	t.Helper()
	if writeError := afero.WriteFile(fileSystem, filePath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

type deniedFileSystem struct {
	afero.Fs
}

func (deniedFileSystem) Open(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
}

func TestLoadExclusionFileSections(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	exclusionFilePath := filepath.Join("/tree", IgnoreFileName)
	writeTestFile(t, fileSystem, exclusionFilePath, "# directories first\nvendor\n\n  node_modules  \n[FILES]\ngo.sum\n[directories]\ntestdata\n")

	exclusions, found, err := LoadExclusionFile(fileSystem, exclusionFilePath)
	if err != nil || !found {
		t.Fatalf("LoadExclusionFile found=%t error: %v", found, err)
	}
	if strings.Join(exclusions.DirectorySubstrings, ",") != "vendor,node_modules,testdata" {
		t.Fatalf("unexpected directory substrings %v", exclusions.DirectorySubstrings)
	}
	if strings.Join(exclusions.FileNames, ",") != "go.sum" {
		t.Fatalf("unexpected file names %v", exclusions.FileNames)
	}
}

func TestLoadExclusionFileMissingIsEmpty(t *testing.T) {
	exclusions, found, err := LoadExclusionFile(afero.NewMemMapFs(), filepath.Join("/tree", IgnoreFileName))
	if err != nil || found {
		t.Fatalf("LoadExclusionFile found=%t error: %v", found, err)
	}
	if len(exclusions.DirectorySubstrings) != 0 || len(exclusions.FileNames) != 0 {
		t.Fatalf("expected empty exclusions, got %+v", exclusions)
	}
}

func TestLoadRootExclusionsExcludesIgnoreFileItself(t *testing.T) {
	rootDirectory := t.TempDir()
	fileSystem := afero.NewOsFs()
	writeTestFile(t, fileSystem, filepath.Join(rootDirectory, IgnoreFileName), "[files]\nsecrets.env\n")

	exclusions, err := LoadRootExclusions(fileSystem, rootDirectory)
	if err != nil {
		t.Fatalf("LoadRootExclusions error: %v", err)
	}
	if strings.Join(exclusions.FileNames, ",") != "secrets.env,"+IgnoreFileName {
		t.Fatalf("unexpected file names %v", exclusions.FileNames)
	}
}

func TestLoadRootExclusionsAddsIgnoreFileOnlyWhenFound(t *testing.T) {
	testCases := []struct {
		name              string
		ignoreFileContent *string
		expectedFileNames string
	}{
		{name: "missing_file", ignoreFileContent: nil, expectedFileNames: ""},
		{name: "empty_file", ignoreFileContent: new(string), expectedFileNames: IgnoreFileName},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fileSystem := afero.NewMemMapFs()
			if err := fileSystem.MkdirAll("/tree", 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if testCase.ignoreFileContent != nil {
				writeTestFile(t, fileSystem, filepath.Join("/tree", IgnoreFileName), *testCase.ignoreFileContent)
			}
			exclusions, err := LoadRootExclusions(fileSystem, "/tree")
			if err != nil {
				t.Fatalf("LoadRootExclusions error: %v", err)
			}
			if strings.Join(exclusions.FileNames, ",") != testCase.expectedFileNames {
				t.Fatalf("expected file names %q, got %v", testCase.expectedFileNames, exclusions.FileNames)
			}
		})
	}
}

func TestLoadRootExclusionsReportsUnreadableFile(t *testing.T) {
	_, err := LoadRootExclusions(deniedFileSystem{Fs: afero.NewMemMapFs()}, "/tree")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}
