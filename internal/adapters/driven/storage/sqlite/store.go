// Package sqlite provides the disk-backed vector store.
//
// Records are kept in a single SQLite file per data directory, addressed
// by a fixed collection name, so an index built in one process run is
// available to the next without re-embedding. Batches commit inside one
// transaction, and WAL mode lets searches run concurrently against the
// last committed snapshot.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "documents"

// Store is a SQLite-backed vector store.
type Store struct {
	db         *sql.DB
	path       string
	collection string
}

// NewStore opens (or creates) the vector database under dataDir.
// If dataDir is empty, defaults to ~/.docchat/data.
func NewStore(dataDir, collection string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// Open database with WAL mode for concurrent reads during writes
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: collection,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Name identifies the backend.
func (s *Store) Name() string {
	return "sqlite"
}

// Add commits the records as one atomic batch. The collection's embedding
// dimensionality is fixed by its first batch; a mismatch rolls the whole
// batch back with domain.ErrStorage.
func (s *Store) Add(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	dim := len(records[0].Embedding)
	for _, r := range records {
		if len(r.Embedding) != dim {
			return fmt.Errorf("%w: batch mixes dimensionalities %d and %d",
				domain.ErrStorage, dim, len(r.Embedding))
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	var existingDim sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT dimensions FROM records WHERE collection = ? LIMIT 1
	`, s.collection).Scan(&existingDim)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("%w: checking dimensionality: %v", domain.ErrStorage, err)
	}
	if existingDim.Valid && int(existingDim.Int64) != dim {
		return fmt.Errorf("%w: collection %q holds %d-dimensional vectors, batch has %d",
			domain.ErrStorage, s.collection, existingDim.Int64, dim)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, collection, content, embedding, dimensions, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for _, r := range records {
		metadataJSON, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("%w: encoding metadata: %v", domain.ErrStorage, err)
		}

		_, err = stmt.ExecContext(ctx,
			r.ID,
			s.collection,
			r.Content,
			float32SliceToBytes(r.Embedding),
			dim,
			string(metadataJSON),
		)
		if err != nil {
			return fmt.Errorf("%w: inserting record %s: %v", domain.ErrStorage, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing batch: %v", domain.ErrStorage, err)
	}
	return nil
}

// Query returns the k nearest neighbours to the vector by cosine distance.
// Records are scanned in insertion order, so equal distances keep a stable
// insertion-order tie-break.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]driven.Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, embedding, metadata
		FROM records
		WHERE collection = ?
		ORDER BY seq
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var neighbors []driven.Neighbor
	for rows.Next() {
		var rec domain.VectorRecord
		var embeddingBlob []byte
		var metadataJSON string

		if err := rows.Scan(&rec.ID, &rec.Content, &embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", domain.ErrStorage, err)
		}

		rec.Embedding = bytesToFloat32Slice(embeddingBlob)
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("%w: decoding metadata: %v", domain.ErrStorage, err)
			}
		}

		neighbors = append(neighbors, driven.Neighbor{
			Record:   rec,
			Distance: 1 - cosineSimilarity(vector, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", domain.ErrStorage, err)
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM records WHERE collection = ?
	`, s.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting records: %v", domain.ErrStorage, err)
	}
	return count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
