package merge

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeMode names a best-effort strategy for turning file bytes into UTF-8 text.
// Neither mode fails on malformed input; both can silently alter binary or
// non-UTF-8 files.
type DecodeMode string

const (
	// DecodeReplace substitutes U+FFFD for every invalid UTF-8 sequence.
	DecodeReplace DecodeMode = "replace"
	// DecodeDrop removes invalid UTF-8 sequences.
	DecodeDrop DecodeMode = "drop"

	errorUnknownDecodeModeFormat = "unknown decode mode %q (expected %s or %s)"
	errorDecodeFormat            = "decode text: %w"
)

// ParseDecodeMode converts a configuration value into a DecodeMode. An empty value selects DecodeReplace.
func ParseDecodeMode(value string) (DecodeMode, error) {
	switch DecodeMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", DecodeReplace:
		return DecodeReplace, nil
	case DecodeDrop:
		return DecodeDrop, nil
	default:
		return "", fmt.Errorf(errorUnknownDecodeModeFormat, value, DecodeReplace, DecodeDrop)
	}
}

// DecodeText converts raw file bytes into text according to mode.
func DecodeText(rawBytes []byte, mode DecodeMode) (string, error) {
	switch mode {
	case DecodeDrop:
		return string(bytes.ToValidUTF8(rawBytes, nil)), nil
	case DecodeReplace, "":
		decodedBytes, _, decodeError := transform.Bytes(unicode.UTF8.NewDecoder(), rawBytes)
		if decodeError != nil {
			return "", fmt.Errorf(errorDecodeFormat, decodeError)
		}
		return string(decodedBytes), nil
	default:
		return "", fmt.Errorf(errorUnknownDecodeModeFormat, mode, DecodeReplace, DecodeDrop)
	}
}
