// Package storage provides avatar blob storage backends. The service
// persists only the reference string returned by Save; the backing file
// is owned by the storage backend.
package storage

import (
	"context"
	"io"
)

// AvatarStorage stores avatar images and returns an opaque reference that
// can later be handed back to Delete.
type AvatarStorage interface {
	// Save writes the image and returns its reference (a URL or path).
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	// Delete removes the image behind a previously returned reference.
	Delete(ctx context.Context, ref string) error
}
