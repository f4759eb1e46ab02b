package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/treemerge/internal/utils"
)

const (
	// DefaultRootPath is traversed when no root is configured.
	DefaultRootPath = "."
	// DefaultOutputFileName receives the merged blocks when no output is configured.
	DefaultOutputFileName = "merged_project.txt"
	// DefaultTokenizerModel is used for token estimates when no model is configured.
	DefaultTokenizerModel = "gpt-4o"
	// DefaultExecutableName stands in for the running binary when it cannot be resolved.
	DefaultExecutableName = "treemerge"
)

// ReferenceExcludedDirectorySubstrings returns a fresh copy of the directory
// substrings excluded by the reference configuration.
func ReferenceExcludedDirectorySubstrings() []string {
	return []string{
		"build",
		"bin",
		"out",
		".idea",
		".vscode",
		"cmake-build-debug",
		"resources",
	}
}

// ReferenceExcludedFileNames returns a fresh copy of the file names excluded by the
// reference configuration, including the tool's own executable name.
func ReferenceExcludedFileNames(executableName string) []string {
	if strings.TrimSpace(executableName) == "" {
		executableName = DefaultExecutableName
	}
	return []string{
		"CMakeLists.txt",
		"Makefile",
		executableName,
		DefaultOutputFileName,
		"ReadMe.md",
		"settings.cpp",
		"settings.h",
		"timer.cpp",
		"timer.h",
		"mainwindow.cpp",
		"mainwindow.h",
	}
}

// CurrentExecutableName returns the base name of the running binary.
func CurrentExecutableName() string {
	executablePath, executableError := os.Executable()
	if executableError != nil || executablePath == "" {
		return DefaultExecutableName
	}
	return filepath.Base(executablePath)
}

// ExclusionSets are the effective exclusion lists for a run.
type ExclusionSets struct {
	DirectorySubstrings []string
	FileNames           []string
}

// ResolveExclusions combines the reference exclusions (unless disabled), the configured
// lists and any additional entries, preserving order and dropping duplicates.
func (config ApplicationConfiguration) ResolveExclusions(executableName string, useDefaults bool, additional ExclusionSets) ExclusionSets {
	var directorySubstrings []string
	var fileNames []string
	if useDefaults {
		directorySubstrings = append(directorySubstrings, ReferenceExcludedDirectorySubstrings()...)
		fileNames = append(fileNames, ReferenceExcludedFileNames(executableName)...)
	}
	directorySubstrings = append(directorySubstrings, config.ExcludeDirs...)
	directorySubstrings = append(directorySubstrings, additional.DirectorySubstrings...)
	fileNames = append(fileNames, config.ExcludeFiles...)
	fileNames = append(fileNames, additional.FileNames...)
	return ExclusionSets{
		DirectorySubstrings: utils.DeduplicatePatterns(directorySubstrings),
		FileNames:           utils.DeduplicatePatterns(fileNames),
	}
}
