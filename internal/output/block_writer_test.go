package output_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/temirov/treemerge/internal/output"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteBlockUsesFileTemplate(t *testing.T) {
	var buffer bytes.Buffer
	blockWriter := output.NewBlockWriter(&buffer)
	if err := blockWriter.WriteBlock("src/main.cpp", "int main() {}"); err != nil {
		t.Fatalf("WriteBlock error: %v", err)
	}
	if err := blockWriter.WriteBlock("src/empty.h", ""); err != nil {
		t.Fatalf("WriteBlock error: %v", err)
	}
	if err := blockWriter.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	expected := "\n--- FILE: src/main.cpp ---\n\nint main() {}\n\n" +
		"\n--- FILE: src/empty.h ---\n\n\n\n"
	if buffer.String() != expected {
		t.Fatalf("unexpected output:\n%q\nexpected:\n%q", buffer.String(), expected)
	}
	if blockWriter.BytesWritten() != int64(len(expected)) {
		t.Fatalf("expected %d bytes, got %d", len(expected), blockWriter.BytesWritten())
	}
	if blockWriter.Blocks() != 2 {
		t.Fatalf("expected 2 blocks, got %d", blockWriter.Blocks())
	}
}

func TestFlushReportsSinkFailure(t *testing.T) {
	blockWriter := output.NewBlockWriter(failingWriter{})
	if err := blockWriter.WriteBlock("a.txt", "a"); err != nil {
		t.Fatalf("buffered write should not fail: %v", err)
	}
	if err := blockWriter.Flush(); err == nil {
		t.Fatalf("expected flush error")
	}
}

func TestFormatSummaryLine(t *testing.T) {
	testCases := []struct {
		name     string
		summary  output.Summary
		expected string
	}{
		{
			name:     "single file",
			summary:  output.Summary{MergedFiles: 1, TotalBytes: 512},
			expected: "Summary: 1 file, 512b",
		},
		{
			name:     "skipped and tokens",
			summary:  output.Summary{MergedFiles: 3, SkippedFiles: 1, TotalBytes: 2048, TotalTokens: 42, Model: "gpt-4o"},
			expected: "Summary: 3 files, 2kb, 1 skipped, 42 tokens (model: gpt-4o)",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := output.FormatSummaryLine(testCase.summary); result != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}
