package partialhash

import (
	"errors"
	"fmt"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

// ErrUnsupportedType is returned when creating an index over a column type
// no hash index core exists for.
var ErrUnsupportedType = errors.New("unsupported column data type for hash index")

// typedCore is the contract every scalar instantiation of the index core
// satisfies. The facade narrows tagged query values and delegates here.
type typedCore interface {
	add(refs []ChunkRef, columnID model.ColumnID) int
	remove(chunkIDs []model.ChunkID) int
	equals(v value.Value) Range
	notEquals(v value.Value) (Range, Range)
	begin() Iterator
	end() Iterator
	nullBegin() Iterator
	nullEnd() Iterator
	memoryUsage() int
	indexedChunkIDs() []model.ChunkID
	chunkCount() int
}

// Index is a chunk-granular partial hash index over one column.
//
// It covers only the chunks it has been given; chunks can be added as the
// table grows and removed when chunks are deleted or re-encoded. Lookups
// return RowID ranges over the covered chunks only.
//
// Index performs no synchronization; wrap it in Guarded (or equivalent)
// when mutations can race queries.
type Index struct {
	columnID model.ColumnID
	dataType value.DataType
	core     typedCore
}

// New creates an index over columnID with the given declared type and
// indexes the initial chunk set.
func New(dt value.DataType, columnID model.ColumnID, refs []ChunkRef) (*Index, error) {
	var c typedCore
	switch dt {
	case value.DataTypeInt32:
		c = newCore(dt, value.Value.AsInt32)
	case value.DataTypeInt64:
		c = newCore(dt, value.Value.AsInt64)
	case value.DataTypeFloat32:
		c = newCore(dt, value.Value.AsFloat32)
	case value.DataTypeFloat64:
		c = newCore(dt, value.Value.AsFloat64)
	case value.DataTypeString:
		c = newCore(dt, value.Value.AsString)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
	}

	idx := &Index{columnID: columnID, dataType: dt, core: c}
	idx.Add(refs)
	return idx, nil
}

// ColumnID returns the indexed column.
func (idx *Index) ColumnID() model.ColumnID { return idx.columnID }

// DataType returns the indexed column's declared scalar type.
func (idx *Index) DataType() value.DataType { return idx.dataType }

// Add indexes the given chunks. Chunks already covered are skipped; the
// return value is the number of chunks newly indexed, not len(refs).
func (idx *Index) Add(refs []ChunkRef) int {
	return idx.core.add(refs, idx.columnID)
}

// Remove drops the given chunks from the index, purging their RowIDs from
// every bucket. Unknown chunk ids are ignored; the return value is the
// number of chunks actually removed.
func (idx *Index) Remove(chunkIDs []model.ChunkID) int {
	return idx.core.remove(chunkIDs)
}

// Equals returns the range of rows whose cell equals v. An unindexed value
// yields an empty range. Querying with a value whose type tag does not
// match the column type panics.
func (idx *Index) Equals(v value.Value) Range {
	return idx.core.equals(v)
}

// NotEquals returns two disjoint ranges that together cover every non-null
// indexed row except those equal to v.
func (idx *Index) NotEquals(v value.Value) (Range, Range) {
	return idx.core.notEquals(v)
}

// Begin returns the start of the full non-null index, ordered by key and
// by insertion order within a key.
func (idx *Index) Begin() Iterator { return idx.core.begin() }

// End returns the end bound of the full non-null index.
func (idx *Index) End() Iterator { return idx.core.end() }

// All returns the full non-null index as a range.
func (idx *Index) All() Range {
	return Range{Begin: idx.core.begin(), End: idx.core.end()}
}

// NullBegin returns the start of the null bucket.
func (idx *Index) NullBegin() Iterator { return idx.core.nullBegin() }

// NullEnd returns the end bound of the null bucket.
func (idx *Index) NullEnd() Iterator { return idx.core.nullEnd() }

// Nulls returns the null bucket as a range.
func (idx *Index) Nulls() Range {
	return Range{Begin: idx.core.nullBegin(), End: idx.core.nullEnd()}
}

// MemoryUsage estimates the index footprint in bytes: chunk set, bucket
// overhead, and RowID storage across value and null buckets.
func (idx *Index) MemoryUsage() int {
	return idx.core.memoryUsage()
}

// IndexedChunkIDs returns a snapshot of the covered chunk ids in
// ascending order.
func (idx *Index) IndexedChunkIDs() []model.ChunkID {
	return idx.core.indexedChunkIDs()
}

// ChunkCount returns the number of covered chunks.
func (idx *Index) ChunkCount() int {
	return idx.core.chunkCount()
}
