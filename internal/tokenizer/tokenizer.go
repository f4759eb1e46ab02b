// Package tokenizer estimates how many model tokens the merged output occupies.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config selects the tokenizer. Model is either a model name such as gpt-4o or a
// tiktoken encoding name such as cl100k_base.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when Config.Model is blank.
	DefaultModel         = "gpt-4o"
	fallbackEncodingName = "cl100k_base"
)

var encodingNames = map[string]struct{}{
	"o200k_base":  {},
	"cl100k_base": {},
	"p50k_base":   {},
	"p50k_edit":   {},
	"r50k_base":   {},
}

// NewCounter returns a Counter for cfg and the name token counts should be reported under.
// Models unknown to tiktoken are counted with cl100k_base and reported under that name.
func NewCounter(cfg Config) (Counter, string, error) {
	requested := strings.TrimSpace(cfg.Model)
	if requested == "" {
		requested = DefaultModel
	}
	key := strings.ToLower(requested)

	if isEncodingName(key) {
		encoding, encodingError := tiktoken.GetEncoding(key)
		if encodingError != nil {
			return nil, "", fmt.Errorf("load encoding %s: %w", key, encodingError)
		}
		return tiktokenCounter{encoding: encoding, name: key}, key, nil
	}

	if encoding, modelError := tiktoken.EncodingForModel(key); modelError == nil {
		return tiktokenCounter{encoding: encoding, name: key}, requested, nil
	}

	encoding, fallbackError := tiktoken.GetEncoding(fallbackEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("load fallback encoding %s: %w", fallbackEncodingName, fallbackError)
	}
	return tiktokenCounter{encoding: encoding, name: fallbackEncodingName}, fallbackEncodingName, nil
}

func isEncodingName(name string) bool {
	_, known := encodingNames[name]
	return known
}
