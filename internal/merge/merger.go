// Package merge concatenates the text files of a directory tree into a single output file.
//
// The traversal is depth first and deterministic: each directory contributes its
// files in lexicographic order before its subdirectories are visited, also in
// lexicographic order. Paths are built by appending entry names to the root exactly
// as given, so a root of "." yields "./src/a.c". A directory is skipped, together
// with everything below it, when its traversal path contains any excluded
// substring. The match is plain substring containment over the whole path, so
// excluding "bin" also skips "binary_data".
package merge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/treemerge/internal/output"
)

const (
	warningSkipFileFormat        = "Skipping %s due to error: %v"
	warningSkipDirectoryFormat   = "Skipping directory %s due to error: %v"
	warningIrregularFileFormat   = "Skipping %s: not a regular file"
	debugExcludedDirectoryFormat = "excluding directory %s"
	debugExcludedFileFormat      = "excluding file %s"

	errorRootAccessFormat     = "access root %s: %w"
	errorRootNotDirectory     = "%w: %s"
	errorReadRootFormat       = "read root directory %s: %w"
	errorCreateOutputFormat   = "create output %s: %w"
	errorCloseOutputFormat    = "close output %s: %w"
	errorWriteOutputFormat    = "write output %s: %w"
	errorResolveOutputFormat  = "resolve output path %s: %w"
	outputFilePermissionsMode = 0o644
)

// Merger walks a directory tree and writes the contents of each selected file into one output file.
type Merger struct {
	fileSystem afero.Fs
	logger     *zap.Logger
}

// MergerOption customizes a Merger.
type MergerOption func(*Merger)

// WithFileSystem sets the filesystem used for both traversal and output.
func WithFileSystem(fileSystem afero.Fs) MergerOption {
	return func(merger *Merger) {
		if fileSystem != nil {
			merger.fileSystem = fileSystem
		}
	}
}

// WithLogger sets the logger receiving per-file diagnostics.
func WithLogger(logger *zap.Logger) MergerOption {
	return func(merger *Merger) {
		if logger != nil {
			merger.logger = logger
		}
	}
}

// NewMerger constructs a Merger backed by the operating system filesystem and a no-op logger.
func NewMerger(mergerOptions ...MergerOption) *Merger {
	merger := &Merger{
		fileSystem: afero.NewOsFs(),
		logger:     zap.NewNop(),
	}
	for _, applyOption := range mergerOptions {
		applyOption(merger)
	}
	return merger
}

// mergeRun holds the state of a single Merge invocation.
type mergeRun struct {
	merger             *Merger
	options            Options
	outputPath         string
	absoluteOutputPath string
	blockWriter        *output.BlockWriter
	result             Result
}

// Merge writes one block per selected file under rootPath into outputPath, which is
// truncated first. Failing to access the root or to create or write the output is
// fatal. Files that cannot be read are logged and skipped.
func (merger *Merger) Merge(rootPath string, outputPath string, options Options) (result Result, err error) {
	normalizedOptions, optionsError := options.normalized()
	if optionsError != nil {
		return Result{}, optionsError
	}

	rootInfo, rootStatError := merger.fileSystem.Stat(rootPath)
	if rootStatError != nil {
		return Result{}, fmt.Errorf(errorRootAccessFormat, rootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return Result{}, fmt.Errorf(errorRootNotDirectory, ErrRootNotDirectory, rootPath)
	}

	absoluteOutputPath, absoluteOutputError := filepath.Abs(outputPath)
	if absoluteOutputError != nil {
		return Result{}, fmt.Errorf(errorResolveOutputFormat, outputPath, absoluteOutputError)
	}

	outputFile, createError := merger.fileSystem.OpenFile(outputPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, outputFilePermissionsMode)
	if createError != nil {
		return Result{}, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
	}()

	run := &mergeRun{
		merger:             merger,
		options:            normalizedOptions,
		outputPath:         outputPath,
		absoluteOutputPath: absoluteOutputPath,
		blockWriter:        output.NewBlockWriter(outputFile),
	}

	walkError := run.visitDirectory(rootPath, true)
	flushError := run.blockWriter.Flush()
	run.result.BytesWritten = run.blockWriter.BytesWritten()
	if walkError != nil {
		return run.result, walkError
	}
	if flushError != nil {
		return run.result, fmt.Errorf(errorWriteOutputFormat, outputPath, flushError)
	}
	return run.result, nil
}

// visitDirectory merges the files of directoryPath and then recurses into its subdirectories.
func (run *mergeRun) visitDirectory(directoryPath string, isRoot bool) error {
	if run.options.excludesDirectory(directoryPath) {
		run.result.DirectoriesExcluded++
		run.merger.logger.Debug(fmt.Sprintf(debugExcludedDirectoryFormat, directoryPath))
		return nil
	}

	directoryEntries, readDirectoryError := afero.ReadDir(run.merger.fileSystem, directoryPath)
	if readDirectoryError != nil {
		if isRoot {
			return fmt.Errorf(errorReadRootFormat, directoryPath, readDirectoryError)
		}
		run.result.DirectoriesFailed++
		run.merger.logger.Warn(fmt.Sprintf(warningSkipDirectoryFormat, directoryPath, readDirectoryError))
		return nil
	}

	var subdirectoryPaths []string
	for _, directoryEntry := range directoryEntries {
		entryPath := joinTraversalPath(directoryPath, directoryEntry.Name())
		if directoryEntry.IsDir() {
			subdirectoryPaths = append(subdirectoryPaths, entryPath)
			continue
		}
		if run.isSymlinkToDirectory(directoryEntry, entryPath) {
			continue
		}
		if mergeError := run.mergeFile(entryPath, directoryEntry); mergeError != nil {
			return mergeError
		}
	}

	for _, subdirectoryPath := range subdirectoryPaths {
		if visitError := run.visitDirectory(subdirectoryPath, false); visitError != nil {
			return visitError
		}
	}
	return nil
}

// joinTraversalPath appends name to directoryPath without cleaning, so a root given as
// "." or "./" keeps its prefix in headers and in directory exclusion checks.
func joinTraversalPath(directoryPath string, name string) string {
	if directoryPath == "" || os.IsPathSeparator(directoryPath[len(directoryPath)-1]) {
		return directoryPath + name
	}
	return directoryPath + string(filepath.Separator) + name
}

// mergeFile appends the block for a single file. Only output failures are returned.
func (run *mergeRun) mergeFile(filePath string, fileInfo os.FileInfo) error {
	if run.options.excludesFileName(fileInfo.Name()) || run.isOutputFile(filePath) {
		run.result.FilesExcluded++
		run.merger.logger.Debug(fmt.Sprintf(debugExcludedFileFormat, filePath))
		return nil
	}

	fileMode := fileInfo.Mode()
	if !fileMode.IsRegular() && fileMode&os.ModeSymlink == 0 {
		run.result.FilesFailed++
		run.merger.logger.Warn(fmt.Sprintf(warningIrregularFileFormat, filePath))
		return nil
	}

	contents, readError := run.readText(filePath)
	if readError != nil {
		run.result.FilesFailed++
		run.merger.logger.Warn(fmt.Sprintf(warningSkipFileFormat, filePath, readError))
		return nil
	}

	if writeError := run.blockWriter.WriteBlock(filePath, contents); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, run.outputPath, writeError)
	}
	run.result.FilesMerged++
	return nil
}

// readText reads filePath completely and decodes it; a failed read contributes nothing to the output.
func (run *mergeRun) readText(filePath string) (string, error) {
	rawBytes, readError := afero.ReadFile(run.merger.fileSystem, filePath)
	if readError != nil {
		return "", readError
	}
	return DecodeText(rawBytes, run.options.DecodeMode)
}

// isOutputFile reports whether filePath refers to the file currently being written.
func (run *mergeRun) isOutputFile(filePath string) bool {
	absoluteFilePath, absoluteError := filepath.Abs(filePath)
	if absoluteError != nil {
		return false
	}
	return absoluteFilePath == run.absoluteOutputPath
}

// isSymlinkToDirectory reports whether the entry is a symbolic link resolving to a directory.
// Such links are listed but never followed.
func (run *mergeRun) isSymlinkToDirectory(fileInfo os.FileInfo, entryPath string) bool {
	if fileInfo.Mode()&os.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := run.merger.fileSystem.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}
