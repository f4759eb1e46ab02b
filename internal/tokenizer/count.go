package tokenizer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// ErrNilCounter is returned when counting without a Counter.
var ErrNilCounter = errors.New("nil tokenizer counter")

// CountResult is the outcome of a count. Counted is false for content that is not valid UTF-8.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates the tokens in data.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	switch {
	case counter == nil:
		return CountResult{}, ErrNilCounter
	case !utf8.Valid(data):
		return CountResult{}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, fmt.Errorf("%s: %w", counter.Name(), countError)
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountFile estimates the tokens in the file at filePath.
func CountFile(counter Counter, fileSystem afero.Fs, filePath string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, ErrNilCounter
	}
	contents, readError := afero.ReadFile(fileSystem, filePath)
	if readError != nil {
		return CountResult{}, fmt.Errorf("read %s: %w", filePath, readError)
	}
	return CountBytes(counter, contents)
}
