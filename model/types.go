package model

import (
	"fmt"
)

// ChunkID identifies one chunk of a column-store table.
// Chunks are append-ordered but IDs are not required to be dense:
// recompaction may retire a chunk and introduce a new one with a fresh ID.
type ChunkID uint32

// ChunkOffset is a row position within a single chunk.
type ChunkOffset uint32

// ColumnID identifies a column within a table.
type ColumnID uint16

// RowID identifies one row of a table as a (chunk, in-chunk offset) pair.
// It is a plain value: copied, compared and hashed by value, never a
// reference into chunk storage.
type RowID struct {
	ChunkID     ChunkID
	ChunkOffset ChunkOffset
}

// Less reports whether r orders before other (chunk id major, offset minor).
func (r RowID) Less(other RowID) bool {
	if r.ChunkID != other.ChunkID {
		return r.ChunkID < other.ChunkID
	}
	return r.ChunkOffset < other.ChunkOffset
}

// String returns a string representation of the RowID.
func (r RowID) String() string {
	return fmt.Sprintf("RowID(%d:%d)", r.ChunkID, r.ChunkOffset)
}

// RowIDSize is the in-memory footprint of one RowID in bytes.
// Used by index memory accounting.
const RowIDSize = 8
