package merge_test

import (
	"testing"

	"github.com/temirov/treemerge/internal/merge"
)

func TestParseDecodeMode(t *testing.T) {
	testCases := []struct {
		name        string
		value       string
		expected    merge.DecodeMode
		expectError bool
	}{
		{name: "empty defaults to replace", value: "", expected: merge.DecodeReplace},
		{name: "replace", value: "replace", expected: merge.DecodeReplace},
		{name: "drop is case insensitive", value: " DROP ", expected: merge.DecodeDrop},
		{name: "unknown", value: "strict", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			mode, err := merge.ParseDecodeMode(testCase.value)
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", testCase.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecodeMode error: %v", err)
			}
			if mode != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, mode)
			}
		})
	}
}

func TestDecodeTextKeepsValidUTF8Intact(t *testing.T) {
	source := "héllo, 世界\n\ttabs and � literal"
	for _, mode := range []merge.DecodeMode{merge.DecodeReplace, merge.DecodeDrop} {
		decoded, err := merge.DecodeText([]byte(source), mode)
		if err != nil {
			t.Fatalf("DecodeText(%s) error: %v", mode, err)
		}
		if decoded != source {
			t.Fatalf("DecodeText(%s) altered valid text: %q", mode, decoded)
		}
	}
}

func TestDecodeTextHandlesBinaryBytes(t *testing.T) {
	binary := []byte{0x00, 0xfe, 'a', 0xc3}
	replaced, err := merge.DecodeText(binary, merge.DecodeReplace)
	if err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if replaced != "\x00\ufffda\ufffd" {
		t.Fatalf("unexpected replace result %q", replaced)
	}
	dropped, err := merge.DecodeText(binary, merge.DecodeDrop)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}
	if dropped != "\x00a" {
		t.Fatalf("unexpected drop result %q", dropped)
	}
}
