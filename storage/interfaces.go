package storage

import (
	"context"

	"github.com/poiesic/genie/core"
)

// DefaultChunkSize is the number of records per query chunk when the
// caller does not ask for a specific size.
const DefaultChunkSize = 10000

// Repository persists and queries record batches for a single table.
// It is the only component that owns persisted storage.
type Repository interface {
	// Save persists every record of the batch, keyed by digest. A
	// record whose digest already exists is overwritten, so saves are
	// idempotent per digest. Records without a digest are rejected.
	Save(ctx context.Context, batch core.Batch) error

	// Query returns a cursor over records matching expr (empty expr
	// matches everything), delivered in chunks of at most chunkSize
	// records. chunkSize < 1 falls back to DefaultChunkSize. The
	// returned sequence is finite; restart by issuing a fresh Query.
	Query(ctx context.Context, expr string, chunkSize int) (Cursor, error)

	// DeleteAll removes every record in the table. Idempotent.
	DeleteAll(ctx context.Context) error

	// Tablename returns the table identifier.
	Tablename() string

	// Close releases resources held by the repository.
	Close() error
}

// Cursor is a pull-based iterator over query result chunks. Typical
// use:
//
//	cur, err := repo.Query(ctx, "", 500)
//	...
//	for cur.Next(ctx) {
//		batch := cur.Chunk()
//		...
//	}
//	if err := cur.Err(); err != nil {
//		...
//	}
type Cursor interface {
	// Next advances to the next chunk. It returns false when the
	// sequence is exhausted or an error occurred.
	Next(ctx context.Context) bool

	// Chunk returns the chunk produced by the last successful Next.
	Chunk() core.Batch

	// Err returns the first error encountered while iterating, or nil.
	Err() error
}
