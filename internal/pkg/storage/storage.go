package storage

import (
	"context"
	"io"
)

// FileStorage stores reply attachments. The returned path is relative to the
// storage root; PublicURL turns it into a client-reachable URL.
type FileStorage interface {
	// Upload writes a file and returns its storage path.
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Delete removes a stored file.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the URL clients use to fetch the file.
	PublicURL(path string) string
}
