package merge

import (
	"errors"

	"github.com/temirov/treemerge/internal/utils"
)

// ErrRootNotDirectory indicates that the traversal root exists but is not a directory.
var ErrRootNotDirectory = errors.New("root path is not a directory")

// Options selects which parts of the tree are merged and how file bytes become text.
// The zero value merges every file with replace-mode decoding.
type Options struct {
	// ExcludedDirectorySubstrings skips any directory whose traversal path contains one of the entries.
	ExcludedDirectorySubstrings []string
	// ExcludedFileNames skips files whose base name equals one of the entries.
	ExcludedFileNames []string
	// DecodeMode controls how invalid UTF-8 is handled. Empty means DecodeReplace.
	DecodeMode DecodeMode
}

// normalized returns a copy of options with deduplicated exclusion lists and an
// explicit decode mode so the caller's slices are never retained.
func (options Options) normalized() (Options, error) {
	decodeMode, decodeModeError := ParseDecodeMode(string(options.DecodeMode))
	if decodeModeError != nil {
		return Options{}, decodeModeError
	}
	return Options{
		ExcludedDirectorySubstrings: utils.DeduplicatePatterns(options.ExcludedDirectorySubstrings),
		ExcludedFileNames:           utils.DeduplicatePatterns(options.ExcludedFileNames),
		DecodeMode:                  decodeMode,
	}, nil
}

// excludesDirectory reports whether directoryPath contains an excluded substring anywhere in it.
func (options Options) excludesDirectory(directoryPath string) bool {
	return utils.ContainsAnySubstring(directoryPath, options.ExcludedDirectorySubstrings)
}

// excludesFileName reports whether fileName exactly equals an excluded name.
func (options Options) excludesFileName(fileName string) bool {
	return utils.ContainsString(options.ExcludedFileNames, fileName)
}

// Result summarizes a completed merge.
type Result struct {
	FilesMerged         int
	FilesFailed         int
	FilesExcluded       int
	DirectoriesExcluded int
	DirectoriesFailed   int
	BytesWritten        int64
}
