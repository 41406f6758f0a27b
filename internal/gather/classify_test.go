package gather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTextFile(t *testing.T) {
	exts := DefaultTextExtensions()

	cases := []struct {
		path string
		want bool
	}{
		// Allow-listed extensions match regardless of content.
		{"main.py", true},
		{"README.md", true},
		{"config.json", true},
		{"deep/nested/dir/script.sh", true},
		{"Setup.PY", true}, // case-insensitive
		// Not allow-listed but guessed as text/ by content type.
		{"page.htm", true},
		// Binary or unknown.
		{"book.m4b", false},
		{"image.png", false},
		{"archive.tar.gz", false},
		{"binary.exe", false},
		{"noextension", false},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTextFile(tc.path, exts))
		})
	}
}

func TestIsTextFileCustomExtensions(t *testing.T) {
	exts := map[string]struct{}{".go": {}}
	assert.True(t, IsTextFile("main.go", exts))
	assert.False(t, IsTextFile("main.py", exts))
}
