package partialhash

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/testutil"
	"github.com/tablix/tablix/value"
)

func TestGuarded_Basics(t *testing.T) {
	idx, _ := twoChunkIndex(t)
	g := Guard(idx)

	assert.Equal(t, []model.RowID{rowID(0, 0), rowID(0, 2)}, g.Equals(value.Int64(10)))
	assert.Equal(t, []model.RowID{rowID(0, 1), rowID(1, 0)}, g.NotEquals(value.Int64(10)))
	assert.Equal(t, []model.RowID{rowID(1, 1)}, g.Nulls())
	assert.Equal(t, []model.ChunkID{0, 1}, g.IndexedChunkIDs())
	assert.Equal(t, value.DataTypeInt64, g.DataType())
	assert.Equal(t, model.ColumnID(0), g.ColumnID())
	assert.Greater(t, g.MemoryUsage(), 0)

	assert.Equal(t, 1, g.Remove([]model.ChunkID{0}))
	assert.Empty(t, g.Equals(value.Int64(10)))
}

func TestGuarded_View(t *testing.T) {
	idx, _ := twoChunkIndex(t)
	g := Guard(idx)

	var n int
	g.View(func(idx *Index) {
		n = idx.All().Len()
	})
	assert.Equal(t, 4, n)

	g.Update(func(idx *Index) {
		idx.Remove([]model.ChunkID{0, 1})
	})
	g.View(func(idx *Index) {
		assert.Empty(t, idx.IndexedChunkIDs())
	})
}

// TestGuarded_ConcurrentMutationAndQueries drives mutations against
// queries; run with -race to verify the lock discipline.
func TestGuarded_ConcurrentMutationAndQueries(t *testing.T) {
	idx, err := New(value.DataTypeInt64, 0, nil)
	require.NoError(t, err)
	g := Guard(idx)

	chunks := make([]ChunkRef, 8)
	for i := range chunks {
		chunks[i] = ChunkRef{
			ID:    model.ChunkID(i),
			Chunk: testutil.Int64Chunk(t, testutil.I64(int64(i%3)), nil, testutil.I64(7)),
		}
	}

	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(ref ChunkRef) {
			defer wg.Done()
			g.Add([]ChunkRef{ref})
		}(chunks[i])
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				g.Equals(value.Int64(7))
				g.NotEquals(value.Int64(0))
				g.Nulls()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, g.IndexedChunkIDs(), len(chunks))
	assert.Len(t, g.Equals(value.Int64(7)), len(chunks))
	assert.Len(t, g.Nulls(), len(chunks))
}
