package partialhash

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/exp/constraints"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/storage"
	"github.com/tablix/tablix/value"
)

// perBucketOverhead estimates the bytes a bucket costs beyond its RowIDs:
// the hashed key slot plus the slice header.
const perBucketOverhead = 8 + 24

// core is the typed heart of the partial hash index for one scalar type.
//
// The bucket map carries the values; keys mirrors the map's key set in
// sorted order. Keeping the two in lockstep gives the value store a
// genuine total order with equal keys contiguous (each key is exactly one
// bucket), which is what makes the two-range decomposition of notEquals
// sound. valueRows and the null slice length are maintained incrementally
// so size and memory reporting stay O(1).
//
// Invariants:
//   - a RowID is in some bucket iff its chunk is in chunks and the cell is
//     non-null (value bucket) or null (null bucket)
//   - buckets never holds an empty bucket; keys is exactly the sorted key
//     set of buckets
//   - row order within a bucket is chunk scan order
type core[T constraints.Ordered] struct {
	dataType value.DataType
	narrow   func(value.Value) (T, bool)

	buckets map[T][]model.RowID
	keys    []T
	nulls   []model.RowID
	chunks  *roaring.Bitmap

	valueRows int
}

func newCore[T constraints.Ordered](dt value.DataType, narrow func(value.Value) (T, bool)) *core[T] {
	return &core[T]{
		dataType: dt,
		narrow:   narrow,
		buckets:  make(map[T][]model.RowID),
		chunks:   roaring.New(),
	}
}

// mustNarrow converts an untyped query value to the core's scalar type.
// A tag mismatch is a caller bug (querying an int64 column with a string,
// say), never a legitimate "not found", so it aborts.
func (c *core[T]) mustNarrow(v value.Value) T {
	key, ok := c.narrow(v)
	if !ok {
		panic(fmt.Sprintf("partialhash: query value %s does not match indexed column type %s", v, c.dataType))
	}
	return key
}

func (c *core[T]) add(refs []ChunkRef, columnID model.ColumnID) int {
	added := 0
	for _, ref := range refs {
		if c.chunks.Contains(uint32(ref.ID)) {
			// already indexed, add is idempotent per chunk
			continue
		}

		seg, err := ref.Chunk.Segment(columnID)
		if err != nil {
			panic(fmt.Sprintf("partialhash: chunk %d: %v", ref.ID, err))
		}
		if seg.DataType() != c.dataType {
			panic(fmt.Sprintf("partialhash: chunk %d column %d is %s, index is %s",
				ref.ID, columnID, seg.DataType(), c.dataType))
		}

		c.chunks.Add(uint32(ref.ID))
		added++

		chunkID := ref.ID
		seg.Scan(func(offset model.ChunkOffset, v value.Value) {
			rid := model.RowID{ChunkID: chunkID, ChunkOffset: offset}
			if v.IsNull() {
				c.nulls = append(c.nulls, rid)
				return
			}
			key := c.mustNarrow(v)
			bucket, ok := c.buckets[key]
			if !ok {
				c.insertKey(key)
			}
			c.buckets[key] = append(bucket, rid)
			c.valueRows++
		})
	}
	return added
}

func (c *core[T]) remove(chunkIDs []model.ChunkID) int {
	removed := 0
	for _, chunkID := range chunkIDs {
		if !c.chunks.Contains(uint32(chunkID)) {
			continue
		}
		c.chunks.Remove(uint32(chunkID))
		removed++

		for ki := 0; ki < len(c.keys); {
			key := c.keys[ki]
			bucket := c.buckets[key]
			kept := bucket[:0]
			for _, rid := range bucket {
				if rid.ChunkID != chunkID {
					kept = append(kept, rid)
				}
			}
			c.valueRows -= len(bucket) - len(kept)
			if len(kept) == 0 {
				delete(c.buckets, key)
				c.keys = append(c.keys[:ki], c.keys[ki+1:]...)
				continue
			}
			c.buckets[key] = kept
			ki++
		}

		keptNulls := c.nulls[:0]
		for _, rid := range c.nulls {
			if rid.ChunkID != chunkID {
				keptNulls = append(keptNulls, rid)
			}
		}
		c.nulls = keptNulls
	}
	return removed
}

// insertKey places key into the sorted key slice. Called only when the
// key's bucket is being created.
func (c *core[T]) insertKey(key T) {
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i] >= key })
	c.keys = append(c.keys, key)
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = key
}

// keyIndex returns the position of an existing key in the sorted slice.
func (c *core[T]) keyIndex(key T) int {
	return sort.Search(len(c.keys), func(i int) bool { return c.keys[i] >= key })
}

func (c *core[T]) cursorAt(ki int) Iterator {
	return &bucketCursor[T]{keys: c.keys, buckets: c.buckets, ki: ki}
}

func (c *core[T]) equals(v value.Value) Range {
	key := c.mustNarrow(v)
	if _, ok := c.buckets[key]; !ok {
		end := c.end()
		return Range{Begin: end, End: end}
	}
	ki := c.keyIndex(key)
	return Range{Begin: c.cursorAt(ki), End: c.cursorAt(ki + 1)}
}

func (c *core[T]) notEquals(v value.Value) (Range, Range) {
	key := c.mustNarrow(v)
	if _, ok := c.buckets[key]; !ok {
		end := c.end()
		return Range{Begin: c.begin(), End: end}, Range{Begin: end, End: end}
	}
	ki := c.keyIndex(key)
	// (begin -> eqBegin) + (eqEnd -> end); sound because equal keys occupy
	// exactly one bucket of the ordered key slice.
	return Range{Begin: c.begin(), End: c.cursorAt(ki)},
		Range{Begin: c.cursorAt(ki + 1), End: c.end()}
}

func (c *core[T]) begin() Iterator {
	return c.cursorAt(0)
}

func (c *core[T]) end() Iterator {
	return c.cursorAt(len(c.keys))
}

func (c *core[T]) nullBegin() Iterator {
	return &nullCursor{rows: c.nulls}
}

func (c *core[T]) nullEnd() Iterator {
	return &nullCursor{rows: c.nulls, pos: len(c.nulls)}
}

func (c *core[T]) memoryUsage() int {
	bytes := int(c.chunks.GetSizeInBytes())
	bytes += len(c.buckets) * perBucketOverhead
	bytes += c.valueRows * model.RowIDSize
	if len(c.nulls) > 0 {
		bytes += perBucketOverhead
	}
	bytes += len(c.nulls) * model.RowIDSize
	return bytes
}

func (c *core[T]) indexedChunkIDs() []model.ChunkID {
	ids := make([]model.ChunkID, 0, c.chunks.GetCardinality())
	it := c.chunks.Iterator()
	for it.HasNext() {
		ids = append(ids, model.ChunkID(it.Next()))
	}
	return ids
}

func (c *core[T]) chunkCount() int {
	return int(c.chunks.GetCardinality())
}

var _ typedCore = (*core[int64])(nil)

// ChunkRef pairs a chunk id with its sealed chunk.
type ChunkRef struct {
	ID    model.ChunkID
	Chunk *storage.Chunk
}
