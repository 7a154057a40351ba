package domain

// Metadata keys stamped onto chunks during ingestion.
const (
	MetaSourceFile = "source_file"
	MetaFileType   = "file_type"
	MetaChunkIndex = "chunk_index"
	MetaCharLength = "char_length"
)

// Document represents raw text extracted from a source file.
// It is transient: produced by a loader, consumed by the splitter,
// and discarded once chunks exist.
type Document struct {
	// Path is the original file location.
	Path string

	// Format is the file extension that selected the loader (e.g. ".pdf").
	Format string

	// Segments are the text units the loader produced. A plain text file
	// yields one segment; a PDF yields one per page.
	Segments []Segment
}

// Segment is one unit of loader output: text plus loader-specific metadata.
type Segment struct {
	// Text is the extracted content.
	Text string

	// Metadata carries loader-specific keys (e.g. page number).
	Metadata map[string]string
}

// Chunk is a bounded contiguous slice of a document, the atomic unit of
// indexing and retrieval. Content is never empty.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Metadata carries source_file, file_type, chunk_index and char_length,
	// plus any keys inherited from the loader segment.
	Metadata map[string]string
}

// VectorRecord is a chunk re-materialised for persistence: the same content
// and metadata plus a unique ID and its embedding. Records live in the
// vector store until explicitly deleted.
type VectorRecord struct {
	// ID is the unique identifier within the collection.
	ID string

	// Embedding is the vector representation. Its dimensionality is fixed
	// across all records in a collection.
	Embedding []float32

	// Content is the chunk text.
	Content string

	// Metadata is carried over from the chunk.
	Metadata map[string]string
}
