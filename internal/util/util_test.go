// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	data := []byte("test payload")

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("unexpected file contents: got %q want %q", got, data)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestBoolToInt(t *testing.T) {
	t.Parallel()

	if BoolToInt(true) != 1 {
		t.Fatalf("BoolToInt(true) != 1")
	}
	if BoolToInt(false) != 0 {
		t.Fatalf("BoolToInt(false) != 0")
	}
}
