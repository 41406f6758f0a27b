package gather

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// CollectFiles recursively enumerates all text files under root and returns
// their paths in lexicographic order for deterministic output. Entries that
// cannot be visited are skipped; only a failure on root itself is an error.
func CollectFiles(root string, textExtensions map[string]struct{}) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walk %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsTextFile(path, textExtensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
