package testutil

import (
	"testing"

	"github.com/tablix/tablix/storage"
	"github.com/tablix/tablix/value"
)

// Int64Chunk builds a sealed single-column int64 chunk from cells.
// A nil cell entry becomes a null.
func Int64Chunk(t *testing.T, cells ...*int64) *storage.Chunk {
	t.Helper()
	b := storage.NewChunkBuilder([]value.DataType{value.DataTypeInt64})
	for _, c := range cells {
		var v value.Value
		if c == nil {
			v = value.Null()
		} else {
			v = value.Int64(*c)
		}
		if err := b.AppendRow(v); err != nil {
			t.Fatalf("append row: %v", err)
		}
	}
	chunk, err := b.Seal()
	if err != nil {
		t.Fatalf("seal chunk: %v", err)
	}
	return chunk
}

// StringChunk builds a sealed single-column string chunk from cells.
// A nil cell entry becomes a null.
func StringChunk(t *testing.T, opts []storage.BuilderOption, cells ...*string) *storage.Chunk {
	t.Helper()
	b := storage.NewChunkBuilder([]value.DataType{value.DataTypeString}, opts...)
	for _, c := range cells {
		var v value.Value
		if c == nil {
			v = value.Null()
		} else {
			v = value.String(*c)
		}
		if err := b.AppendRow(v); err != nil {
			t.Fatalf("append row: %v", err)
		}
	}
	chunk, err := b.Seal()
	if err != nil {
		t.Fatalf("seal chunk: %v", err)
	}
	return chunk
}

// I64 returns a pointer to v, for use as a non-null Int64Chunk cell.
func I64(v int64) *int64 { return &v }

// Str returns a pointer to v, for use as a non-null StringChunk cell.
func Str(v string) *string { return &v }
