package gather

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"
)

// Aggregate writes the contents of each file to w, each wrapped in a header
// line and a fenced block. Files that cannot be read or do not decode as
// UTF-8 are logged and skipped; a write failure on w itself is fatal since
// the output stream is broken.
func Aggregate(w io.Writer, files []string, logger *slog.Logger) (written, skipped int, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, path := range files {
		data, readErr := os.ReadFile(path) // #nosec G304 - paths come from the walked tree
		if readErr != nil {
			skipped++
			logger.Warn("skipping unreadable file",
				slog.String("path", path),
				slog.String("error", readErr.Error()),
			)
			continue
		}
		if !utf8.Valid(data) {
			skipped++
			logger.Warn("skipping non-text content",
				slog.String("path", path),
			)
			continue
		}

		if _, err = fmt.Fprintf(w, "// Filepath: %s\n\n\n", path); err != nil {
			return written, skipped, fmt.Errorf("write header for %s: %w", path, err)
		}
		if _, err = io.WriteString(w, "```\n"); err != nil {
			return written, skipped, fmt.Errorf("write fence for %s: %w", path, err)
		}
		if _, err = w.Write(data); err != nil {
			return written, skipped, fmt.Errorf("write content for %s: %w", path, err)
		}
		if _, err = io.WriteString(w, "\n```\n\n\n"); err != nil {
			return written, skipped, fmt.Errorf("write fence for %s: %w", path, err)
		}
		written++
	}

	return written, skipped, nil
}
