package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnsupportedFormat indicates a file extension with no registered loader.
	// Raised before any vector-store mutation occurs.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrLoad indicates the loader could not read or decode a document.
	ErrLoad = errors.New("document load failed")

	// ErrEmbedding indicates the embedding backend failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStorage indicates the vector store rejected an operation.
	// A failed batch commit leaves no partial records behind.
	ErrStorage = errors.New("vector storage failed")

	// ErrBackendUnavailable indicates the generation backend could not be
	// reached, timed out, or returned a non-success status.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrMalformedResponse indicates the generation backend returned a
	// payload missing an expected field.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
