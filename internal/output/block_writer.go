// Package output renders merged file blocks into the output sink.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/temirov/treemerge/internal/utils"
)

const (
	// fileHeaderFormat introduces a block with the path of the merged file.
	fileHeaderFormat = "\n--- FILE: %s ---\n\n"
	// blockTerminator separates the contents of one block from the next header.
	blockTerminator = "\n\n"

	errorWriteBlockFormat = "write block for %s: %w"
	errorFlushFormat      = "flush merged output: %w"
)

// FormatBlock returns the textual block for a merged file.
func FormatBlock(path string, contents string) string {
	return fmt.Sprintf(fileHeaderFormat, path) + contents + blockTerminator
}

// BlockWriter appends file blocks to a buffered sink and tracks how many bytes were produced.
type BlockWriter struct {
	writer       *bufio.Writer
	bytesWritten int64
	blocks       int
}

// NewBlockWriter wraps destination in a buffered block writer.
func NewBlockWriter(destination io.Writer) *BlockWriter {
	return &BlockWriter{writer: bufio.NewWriter(destination)}
}

// WriteBlock writes the header, contents and terminator for a single file.
func (blockWriter *BlockWriter) WriteBlock(path string, contents string) error {
	written, writeError := blockWriter.writer.WriteString(FormatBlock(path, contents))
	blockWriter.bytesWritten += int64(written)
	if writeError != nil {
		return fmt.Errorf(errorWriteBlockFormat, path, writeError)
	}
	blockWriter.blocks++
	return nil
}

// Flush forces buffered blocks into the underlying sink.
func (blockWriter *BlockWriter) Flush() error {
	if flushError := blockWriter.writer.Flush(); flushError != nil {
		return fmt.Errorf(errorFlushFormat, flushError)
	}
	return nil
}

// BytesWritten reports the number of bytes accepted so far.
func (blockWriter *BlockWriter) BytesWritten() int64 {
	return blockWriter.bytesWritten
}

// Blocks reports the number of complete blocks written.
func (blockWriter *BlockWriter) Blocks() int {
	return blockWriter.blocks
}

// Summary describes a finished merge for the closing summary line.
type Summary struct {
	MergedFiles  int
	SkippedFiles int
	TotalBytes   int64
	TotalTokens  int
	Model        string
}

// FormatSummaryLine renders a single human-readable summary of a merge.
func FormatSummaryLine(summary Summary) string {
	label := "files"
	if summary.MergedFiles == 1 {
		label = "file"
	}
	skipped := utils.EmptyString
	if summary.SkippedFiles > 0 {
		skipped = fmt.Sprintf(", %d skipped", summary.SkippedFiles)
	}
	extra := utils.EmptyString
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := utils.EmptyString
	if summary.Model != utils.EmptyString {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s%s", summary.MergedFiles, label, utils.FormatFileSize(summary.TotalBytes), skipped, extra, modelSuffix)
}
