package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/genie/core"
	"github.com/poiesic/genie/storage"
)

// TableRepository implements storage.Repository on BadgerDB. Records
// are keyed by digest inside a per-table keyspace, so saving the same
// digest twice overwrites rather than duplicates.
type TableRepository struct {
	backend *Backend
	table   string
}

var _ storage.Repository = (*TableRepository)(nil)

// NewTableRepository creates a repository bound to one table.
func NewTableRepository(backend *Backend, table string) (*TableRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	if table == "" {
		return nil, errors.New("table name required")
	}
	return &TableRepository{backend: backend, table: table}, nil
}

// Tablename returns the table identifier.
func (r *TableRepository) Tablename() string {
	return r.table
}

// Close releases repository resources. The underlying backend stays
// open; it may serve other tables.
func (r *TableRepository) Close() error {
	return nil
}

// Save persists every record of the batch, keyed by digest.
func (r *TableRepository) Save(ctx context.Context, batch core.Batch) error {
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i, rec := range batch {
			digest := rec.Digest()
			if digest == "" {
				return fmt.Errorf("%w: record %d", storage.ErrMissingDigest, i)
			}
			if err := tx.Set(makeRecordKey(r.table, digest), storage.MarshalRecord(rec)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns a cursor over records matching expr, chunked at
// chunkSize records. Chunks are produced lazily, one read transaction
// per pull, in stable key order.
func (r *TableRepository) Query(ctx context.Context, expr string, chunkSize int) (storage.Cursor, error) {
	parsed, err := storage.ParseExpr(expr)
	if err != nil {
		return nil, err
	}
	if chunkSize < 1 {
		chunkSize = storage.DefaultChunkSize
	}
	return &tableCursor{
		repo:      r,
		expr:      parsed,
		chunkSize: chunkSize,
	}, nil
}

// DeleteAll removes every record in the table.
func (r *TableRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.backend.DropPrefix(makeTablePrefix(r.table))
}

// tableCursor pulls chunks from a table scan. It remembers the key to
// resume from, so each Next call opens a fresh read transaction and
// reads at most one chunk's worth of matching records.
type tableCursor struct {
	repo      *TableRepository
	expr      storage.Expr
	chunkSize int
	seekKey   []byte
	chunk     core.Batch
	done      bool
	err       error
}

var _ storage.Cursor = (*tableCursor)(nil)

func (c *tableCursor) Next(ctx context.Context) bool {
	if c.done || c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}

	var chunk core.Batch
	err := c.repo.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTablePrefix(c.repo.table)
		it := tx.NewIterator(opts)
		defer it.Close()

		if c.seekKey == nil {
			it.Rewind()
		} else {
			it.Seek(c.seekKey)
		}
		for ; it.Valid(); it.Next() {
			item := it.Item()

			var rec core.Record
			err := item.Value(func(val []byte) error {
				var err error
				rec, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			if c.expr.Matches(rec) {
				chunk = append(chunk, rec)
			}
			if len(chunk) == c.chunkSize {
				// Resume strictly after this key on the next pull.
				c.seekKey = append(item.KeyCopy(nil), 0)
				return nil
			}
		}
		c.done = true
		return nil
	}, false)
	if err != nil {
		c.err = err
		return false
	}

	c.chunk = chunk
	return len(chunk) > 0
}

func (c *tableCursor) Chunk() core.Batch {
	return c.chunk
}

func (c *tableCursor) Err() error {
	return c.err
}
