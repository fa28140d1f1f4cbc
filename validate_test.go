package mdview

import (
	"strings"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := []byte(strings.Repeat("ab\x01", 30))
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsText(t *testing.T) {
	if err := ValidateInput([]byte("# héllo\n\twörld\r\n")); err != nil {
		t.Fatalf("expected text to pass, got %v", err)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"a\x1b[2Jb", "a[2Jb"},
		{"bell\x07", "bell"},
		{"c1\u009bx", "c1x"},
		{"bad\xffbyte", "badbyte"},
	}
	for _, tc := range tests {
		if got := sanitizeText(tc.in); got != tc.want {
			t.Fatalf("sanitizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
