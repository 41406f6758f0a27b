// Package gather walks a source tree, selects text-like files, and writes
// their contents into one delimited aggregate file.
package gather

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultTextExtensions returns the extension allow-list used when the
// caller does not supply one. Matching is case-insensitive.
func DefaultTextExtensions() map[string]struct{} {
	exts := []string{
		".h", ".cpp", ".cs", ".py", ".json", ".xml", ".txt", ".md",
		".ini", ".config", ".yaml", ".yml", ".uplugin", ".build",
		".html", ".css", ".js", ".java", ".swift", ".m", ".mm",
		".sh", ".bat", ".cmd", ".ps1", ".gradle", ".properties",
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}
	return set
}

// IsTextFile decides whether a path names a text file: first by the
// extension allow-list, then by a path-based content-type guess. File
// contents are never inspected.
func IsTextFile(path string, textExtensions map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := textExtensions[ext]; ok {
		return true
	}

	mimeType := mime.TypeByExtension(ext)
	return strings.HasPrefix(mimeType, "text/")
}
