package port

import (
	"context"
	"io"
)

// File categories accepted by FileStore
const (
	CategoryResume       = "resumes"
	CategoryPaymentProof = "payments"
)

// FileStore keeps uploaded documents. The workflow core only handles the
// returned relative paths and never reads file bytes.
type FileStore interface {
	// Store saves content and returns the relative path to reference it by
	Store(ctx context.Context, category, filename string, content io.Reader) (string, error)

	// Resolve maps a stored relative path to a readable absolute path
	Resolve(path string) (string, error)

	// Remove deletes a stored file that no record references
	Remove(ctx context.Context, path string) error
}

// Upload is a file received from a client, not yet stored
type Upload struct {
	Filename string
	Content  io.Reader
}
