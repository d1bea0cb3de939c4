package tablix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablix/tablix/index/partialhash"
	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/storage"
	"github.com/tablix/tablix/testutil"
	"github.com/tablix/tablix/value"
)

func orderChunks(t *testing.T) []partialhash.ChunkRef {
	t.Helper()
	return []partialhash.ChunkRef{
		{ID: 0, Chunk: testutil.Int64Chunk(t, testutil.I64(10), testutil.I64(20), testutil.I64(10))},
		{ID: 1, Chunk: testutil.Int64Chunk(t, testutil.I64(30), nil)},
	}
}

func TestCatalog_CreateAndQuery(t *testing.T) {
	c := NewCatalog()
	_, err := c.CreateIndex("orders", 0, value.DataTypeInt64, orderChunks(t))
	require.NoError(t, err)
	assert.Equal(t, 1, c.IndexCount())

	rows, err := c.Equals("orders", 0, value.Int64(10))
	require.NoError(t, err)
	assert.Equal(t, []model.RowID{
		{ChunkID: 0, ChunkOffset: 0},
		{ChunkID: 0, ChunkOffset: 2},
	}, rows)

	rows, err = c.NotEquals("orders", 0, value.Int64(10))
	require.NoError(t, err)
	assert.Equal(t, []model.RowID{
		{ChunkID: 0, ChunkOffset: 1},
		{ChunkID: 1, ChunkOffset: 0},
	}, rows)
}

func TestCatalog_CreateDuplicate(t *testing.T) {
	c := NewCatalog()
	_, err := c.CreateIndex("orders", 0, value.DataTypeInt64, nil)
	require.NoError(t, err)

	_, err = c.CreateIndex("orders", 0, value.DataTypeInt64, nil)
	assert.ErrorIs(t, err, ErrIndexExists)

	// Same column on another table is a distinct index.
	_, err = c.CreateIndex("customers", 0, value.DataTypeInt64, nil)
	assert.NoError(t, err)
}

func TestCatalog_CreateUnindexableColumn(t *testing.T) {
	c := NewCatalog()
	_, err := c.CreateIndex("orders", 0, value.DataTypeInvalid, nil)
	require.Error(t, err)

	var typeErr *ErrColumnType
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "orders", typeErr.Table)
	assert.ErrorIs(t, typeErr.Unwrap(), partialhash.ErrUnsupportedType)
}

func TestCatalog_LookupAndDrop(t *testing.T) {
	c := NewCatalog()
	_, err := c.Index("orders", 0)
	assert.ErrorIs(t, err, ErrIndexNotFound)

	_, err = c.CreateIndex("orders", 0, value.DataTypeInt64, nil)
	require.NoError(t, err)

	g, err := c.Index("orders", 0)
	require.NoError(t, err)
	assert.NotNil(t, g)

	require.NoError(t, c.DropIndex("orders", 0))
	assert.ErrorIs(t, c.DropIndex("orders", 0), ErrIndexNotFound)
	assert.Equal(t, 0, c.IndexCount())
}

func TestCatalog_ChunkLifecycleFanOut(t *testing.T) {
	c := NewCatalog(WithLogger(NoopLogger()))

	// Two indexes over different columns of the same table.
	chunkOf := func(id model.ChunkID, key int64, label string) partialhash.ChunkRef {
		b := storage.NewChunkBuilder([]value.DataType{value.DataTypeInt64, value.DataTypeString})
		require.NoError(t, b.AppendRow(value.Int64(key), value.String(label)))
		chunk, err := b.Seal()
		require.NoError(t, err)
		return partialhash.ChunkRef{ID: id, Chunk: chunk}
	}

	_, err := c.CreateIndex("orders", 0, value.DataTypeInt64, nil)
	require.NoError(t, err)
	_, err = c.CreateIndex("orders", 1, value.DataTypeString, nil)
	require.NoError(t, err)
	_, err = c.CreateIndex("other", 0, value.DataTypeInt64, nil)
	require.NoError(t, err)

	refs := []partialhash.ChunkRef{
		chunkOf(0, 10, "a"),
		chunkOf(1, 20, "b"),
	}
	total, err := c.OnChunksSealed(context.Background(), "orders", refs)
	require.NoError(t, err)
	assert.Equal(t, 4, total) // 2 chunks x 2 "orders" indexes

	// The "other" table was not touched.
	g, err := c.Index("other", 0)
	require.NoError(t, err)
	assert.Empty(t, g.IndexedChunkIDs())

	byLabel, err := c.Equals("orders", 1, value.String("b"))
	require.NoError(t, err)
	assert.Equal(t, []model.RowID{{ChunkID: 1, ChunkOffset: 0}}, byLabel)

	total, err = c.OnChunksRemoved(context.Background(), "orders", []model.ChunkID{0, 1, 9})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	byKey, err := c.Equals("orders", 0, value.Int64(10))
	require.NoError(t, err)
	assert.Empty(t, byKey)
}

func TestCatalog_CreateIndexCountsDistinctChunks(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := NewCatalog(WithMetrics(metrics))

	refs := orderChunks(t)
	refs = append(refs, refs[0]) // duplicate chunk id, skipped on add

	_, err := c.CreateIndex("orders", 0, value.DataTypeInt64, refs)
	require.NoError(t, err)
	assert.Equal(t, int64(2), metrics.ChunksIndexed.Load())
}

func TestCatalog_MetricsAndMemory(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := NewCatalog(WithMetrics(metrics))

	_, err := c.CreateIndex("orders", 0, value.DataTypeInt64, orderChunks(t))
	require.NoError(t, err)

	_, err = c.Equals("orders", 0, value.Int64(10))
	require.NoError(t, err)
	_, err = c.NotEquals("orders", 0, value.Int64(10))
	require.NoError(t, err)

	assert.Equal(t, int64(2), metrics.QueryCalls.Load())
	assert.Equal(t, int64(4), metrics.QueryRows.Load())
	assert.Greater(t, c.MemoryUsage("orders"), 0)
	assert.Equal(t, 0, c.MemoryUsage("nope"))
}
