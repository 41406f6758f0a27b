// Package storage provides archival of produced artifacts. It defines the
// Storage port with a local-directory implementation and an S3 one; the CLI
// picks a backend from configuration.
package storage

import (
	"context"
	"io"
)

// Storage archives run artifacts (encoded chunks, combined source files).
type Storage interface {
	// Upload stores data under key and returns a location string: a URL for
	// remote backends, an absolute file path for the local one.
	Upload(ctx context.Context, key string, data io.Reader) (location string, err error)
}
