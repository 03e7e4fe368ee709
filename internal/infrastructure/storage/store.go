package storage

import (
	"context"
	"io"
)

// Store persists uploaded meeting recordings. Keys are scoped per owner and
// prefixed with a random UUID so concurrent uploads of the same filename
// never collide.
type Store interface {
	// Save writes the recording and returns the stored path, which is later
	// handed to the analysis peer
	Save(ctx context.Context, userID string, filename string, reader io.Reader, size int64, contentType string) (string, error)

	// Delete removes a stored recording. Callers treat failures as
	// best-effort cleanup.
	Delete(ctx context.Context, path string) error
}
