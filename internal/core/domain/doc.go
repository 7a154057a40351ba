// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Raw text produced by a loader, with source metadata
//   - Chunk: A bounded slice of a document, the atomic retrieval unit
//   - VectorRecord: A persisted chunk with its embedding
//   - SearchResult: A ranked similarity hit
//   - ChatResponse: The outcome of one retrieve-then-generate call
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
