// Package config loads configuration defaults, the reference exclusion sets and
// per-tree exclusion files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// IgnoreFileName names the optional exclusion file read from the traversal root.
	IgnoreFileName = ".treemergeignore"
	// directoriesSectionHeader starts the list of excluded directory substrings. It is the default section.
	directoriesSectionHeader = "[directories]"
	// filesSectionHeader starts the list of excluded file names.
	filesSectionHeader = "[files]"
)

// LoadExclusionFile reads an exclusion file and returns its directory substrings and file names.
// A missing file yields empty lists and found set to false. Blank lines and lines starting
// with # are ignored.
func LoadExclusionFile(fileSystem afero.Fs, exclusionFilePath string) (exclusionSets ExclusionSets, found bool, err error) {
	fileHandle, openFileError := fileSystem.Open(exclusionFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return ExclusionSets{}, false, nil
		}
		return ExclusionSets{}, false, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	var exclusions ExclusionSets
	currentSectionHeader := directoriesSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		if strings.EqualFold(trimmedLine, filesSectionHeader) {
			currentSectionHeader = filesSectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, directoriesSectionHeader) {
			currentSectionHeader = directoriesSectionHeader
			continue
		}
		if currentSectionHeader == filesSectionHeader {
			exclusions.FileNames = append(exclusions.FileNames, trimmedLine)
			continue
		}
		exclusions.DirectorySubstrings = append(exclusions.DirectorySubstrings, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return ExclusionSets{}, true, scanError
	}
	return exclusions, true, nil
}

// LoadRootExclusions reads IgnoreFileName from rootDirectoryPath. The ignore file itself is
// always added to the excluded file names when it exists so it never appears in the output.
func LoadRootExclusions(fileSystem afero.Fs, rootDirectoryPath string) (ExclusionSets, error) {
	exclusionFilePath := filepath.Join(rootDirectoryPath, IgnoreFileName)
	exclusions, found, loadError := LoadExclusionFile(fileSystem, exclusionFilePath)
	if loadError != nil {
		return ExclusionSets{}, fmt.Errorf("loading %s from %s: %w", IgnoreFileName, rootDirectoryPath, loadError)
	}
	if found {
		exclusions.FileNames = append(exclusions.FileNames, IgnoreFileName)
	}
	return exclusions, nil
}
