package partialhash

import (
	"sync"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

// Guarded enforces the reader/writer discipline the bare Index leaves to
// its caller: Add and Remove are exclusive (structural mutation
// invalidates outstanding iterators), queries share. Query helpers
// materialize their results while holding the read lock, so no iterator
// ever escapes across a mutation boundary.
type Guarded struct {
	mu  sync.RWMutex
	idx *Index
}

// Guard wraps an index. The caller must not use the bare index afterwards.
func Guard(idx *Index) *Guarded {
	return &Guarded{idx: idx}
}

// Add indexes chunks under the write lock.
func (g *Guarded) Add(refs []ChunkRef) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.idx.Add(refs)
}

// Remove drops chunks under the write lock.
func (g *Guarded) Remove(chunkIDs []model.ChunkID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.idx.Remove(chunkIDs)
}

// Equals collects the rows equal to v.
func (g *Guarded) Equals(v value.Value) []model.RowID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.idx.Equals(v).Collect()
}

// NotEquals collects the rows not equal to v (nulls excluded).
func (g *Guarded) NotEquals(v value.Value) []model.RowID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	lo, hi := g.idx.NotEquals(v)
	out := lo.Collect()
	return append(out, hi.Collect()...)
}

// Nulls collects the rows whose cell is null.
func (g *Guarded) Nulls() []model.RowID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.idx.Nulls().Collect()
}

// IndexedChunkIDs returns a snapshot of the covered chunk ids.
func (g *Guarded) IndexedChunkIDs() []model.ChunkID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.idx.IndexedChunkIDs()
}

// MemoryUsage reports the index footprint under the read lock.
func (g *Guarded) MemoryUsage() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.idx.MemoryUsage()
}

// DataType returns the indexed column's declared type.
func (g *Guarded) DataType() value.DataType {
	return g.idx.DataType()
}

// ColumnID returns the indexed column.
func (g *Guarded) ColumnID() model.ColumnID {
	return g.idx.ColumnID()
}

// View runs fn with shared access to the index. Iterators obtained inside
// fn must not be retained past its return.
func (g *Guarded) View(fn func(*Index)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.idx)
}

// Update runs fn with exclusive access to the index.
func (g *Guarded) Update(fn func(*Index)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.idx)
}
