package tokenizer

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesInvalidUTF8(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte{0xff, 0xfe})
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected invalid UTF-8 to be skipped")
	}
}

func TestCountBytesRequiresCounter(t *testing.T) {
	if _, err := CountBytes(nil, []byte("text")); !errors.Is(err, ErrNilCounter) {
		t.Fatalf("expected ErrNilCounter, got %v", err)
	}
}

func TestCountFileReadsFromFileSystem(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	if err := afero.WriteFile(fileSystem, "/merged.txt", []byte("merged text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result, err := CountFile(testCounter{}, fileSystem, "/merged.txt")
	if err != nil {
		t.Fatalf("CountFile error: %v", err)
	}
	if result.Tokens != len("merged text") {
		t.Fatalf("expected %d tokens, got %d", len("merged text"), result.Tokens)
	}
	if _, missingErr := CountFile(testCounter{}, fileSystem, "/missing.txt"); missingErr == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIsEncodingName(t *testing.T) {
	testCases := map[string]bool{
		"cl100k_base": true,
		"o200k_base":  true,
		"gpt-4o":      false,
		"llama-3":     false,
	}
	for name, expected := range testCases {
		if isEncodingName(name) != expected {
			t.Fatalf("isEncodingName(%q) expected %t", name, expected)
		}
	}
}

// TestNewCounterDefault downloads encodings on first use, so it only runs when explicitly enabled.
func TestNewCounterDefault(t *testing.T) {
	if os.Getenv("TREEMERGE_TOKENIZER_TESTS") == "" {
		t.Skip("set TREEMERGE_TOKENIZER_TESTS=1 to exercise tiktoken encodings")
	}
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}
