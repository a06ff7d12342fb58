package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/genie/core"
	"github.com/poiesic/genie/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) storage.Repository {
	t.Helper()
	repo, backend, err := NewMemoryRepository("ctd")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func assocRecord(i int) core.Record {
	content := fmt.Sprintf("GENE%d|%d", i, i)
	return core.Record{
		"GeneSymbol":      core.String(fmt.Sprintf("GENE%d", i)),
		"GeneID":          core.Int(int64(i)),
		"DiseaseName":     core.String("Some Disease"),
		"DiseaseID":       core.String(fmt.Sprintf("D%06d", i)),
		"PubMedIDs":       core.Ints(int64(i * 100)),
		core.DigestColumn: core.String(core.DigestFromContent(content)),
	}
}

func assocBatch(n int) core.Batch {
	batch := make(core.Batch, n)
	for i := range batch {
		batch[i] = assocRecord(i)
	}
	return batch
}

// collect drains a cursor, asserting every chunk respects maxChunk.
func collect(t *testing.T, cur storage.Cursor, maxChunk int) []core.Record {
	t.Helper()
	var out []core.Record
	for cur.Next(context.Background()) {
		chunk := cur.Chunk()
		assert.LessOrEqual(t, len(chunk), maxChunk)
		assert.NotEmpty(t, chunk)
		out = append(out, chunk...)
	}
	require.NoError(t, cur.Err())
	return out
}

func TestSaveAndQueryAll(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	batch := assocBatch(5)
	require.NoError(t, repo.Save(ctx, batch))

	cur, err := repo.Query(ctx, "", 2)
	require.NoError(t, err)
	records := collect(t, cur, 2)

	require.Len(t, records, 5, "every saved record exactly once")
	seen := make(map[string]bool)
	for _, rec := range records {
		assert.False(t, seen[rec.Digest()], "digest %s returned twice", rec.Digest())
		seen[rec.Digest()] = true
	}
}

func TestQueryChunkPartition(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, assocBatch(5)))

	cur, err := repo.Query(ctx, "", 2)
	require.NoError(t, err)

	var sizes []int
	for cur.Next(ctx) {
		sizes = append(sizes, len(cur.Chunk()))
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, []int{2, 2, 1}, sizes, "final partial chunk holds the remainder")
}

func TestQueryByDigest(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	batch := assocBatch(3)
	require.NoError(t, repo.Save(ctx, batch))

	want := batch[1]
	cur, err := repo.Query(ctx, "Digest="+want.Digest(), 10)
	require.NoError(t, err)
	records := collect(t, cur, 10)

	require.Len(t, records, 1)
	assert.True(t, want.Equal(records[0]))
}

func TestQueryByIntColumn(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, assocBatch(3)))

	cur, err := repo.Query(ctx, "GeneID=2", 10)
	require.NoError(t, err)
	records := collect(t, cur, 10)

	require.Len(t, records, 1)
	assert.Equal(t, core.String("GENE2"), records[0]["GeneSymbol"])
}

func TestQueryNonExistent(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, assocBatch(3)))

	cur, err := repo.Query(ctx, "Digest=nonesuch", 10)
	require.NoError(t, err)
	assert.False(t, cur.Next(ctx))
	assert.NoError(t, cur.Err())
}

func TestQueryInvalidExpression(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Query(context.Background(), "not an expression", 10)
	require.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestQueryRestartable(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, assocBatch(4)))

	for i := 0; i < 2; i++ {
		cur, err := repo.Query(ctx, "", 3)
		require.NoError(t, err)
		assert.Len(t, collect(t, cur, 3), 4, "fresh query %d returns the full sequence", i)
	}
}

func TestSaveIdempotentPerDigest(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	batch := assocBatch(2)
	require.NoError(t, repo.Save(ctx, batch))
	require.NoError(t, repo.Save(ctx, batch))

	cur, err := repo.Query(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, collect(t, cur, 10), 2, "one digest inserted at most once")
}

func TestSaveMissingDigest(t *testing.T) {
	repo := setupTestRepository(t)

	rec := assocRecord(0)
	delete(rec, core.DigestColumn)
	err := repo.Save(context.Background(), core.Batch{rec})
	require.ErrorIs(t, err, storage.ErrMissingDigest)
}

func TestDeleteAll(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, assocBatch(3)))
	require.NoError(t, repo.DeleteAll(ctx))

	cur, err := repo.Query(ctx, "", 10)
	require.NoError(t, err)
	assert.False(t, cur.Next(ctx), "query after purge yields an empty sequence")

	// Idempotent, and the table keeps working afterwards.
	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.Save(ctx, assocBatch(2)))

	cur, err = repo.Query(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, collect(t, cur, 10), 2)
}

func TestTablename(t *testing.T) {
	repo := setupTestRepository(t)
	assert.Equal(t, "ctd", repo.Tablename())
}

func TestTablesAreIsolated(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ctd, err := NewTableRepository(backend, "ctd")
	require.NoError(t, err)
	pubmed, err := NewTableRepository(backend, "pubmed")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ctd.Save(ctx, assocBatch(3)))
	require.NoError(t, pubmed.Save(ctx, assocBatch(1)))

	require.NoError(t, ctd.DeleteAll(ctx))

	cur, err := pubmed.Query(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, collect(t, cur, 10), 1, "purging one table must not touch siblings")
}
