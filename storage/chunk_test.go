package storage

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

type cell struct {
	offset model.ChunkOffset
	v      value.Value
}

func scanAll(t *testing.T, s Segment) []cell {
	t.Helper()
	var out []cell
	s.Scan(func(offset model.ChunkOffset, v value.Value) {
		out = append(out, cell{offset: offset, v: v})
	})
	return out
}

func TestChunkBuilder_ScalarColumns(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeInt64, value.DataTypeFloat64})
	require.NoError(t, b.AppendRow(value.Int64(1), value.Float64(1.5)))
	require.NoError(t, b.AppendRow(value.Null(), value.Float64(2.5)))
	require.NoError(t, b.AppendRow(value.Int64(3), value.Null()))

	chunk, err := b.Seal()
	require.NoError(t, err)
	assert.Equal(t, 3, chunk.Rows())
	assert.Equal(t, 2, chunk.ColumnCount())

	ints, err := chunk.Segment(0)
	require.NoError(t, err)
	assert.Equal(t, value.DataTypeInt64, ints.DataType())
	assert.Equal(t, []cell{
		{0, value.Int64(1)},
		{1, value.Null()},
		{2, value.Int64(3)},
	}, scanAll(t, ints))

	floats, err := chunk.Segment(1)
	require.NoError(t, err)
	assert.Equal(t, []cell{
		{0, value.Float64(1.5)},
		{1, value.Float64(2.5)},
		{2, value.Null()},
	}, scanAll(t, floats))
}

func TestChunkBuilder_RowValidation(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeInt64, value.DataTypeString})

	err := b.AppendRow(value.Int64(1))
	assert.ErrorIs(t, err, ErrArityMismatch)

	err = b.AppendRow(value.String("x"), value.String("y"))
	assert.ErrorIs(t, err, ErrCellType)

	require.NoError(t, b.AppendRow(value.Int64(1), value.String("y")))
	_, err = b.Seal()
	require.NoError(t, err)

	err = b.AppendRow(value.Int64(2), value.String("z"))
	assert.ErrorIs(t, err, ErrSealed)
	_, err = b.Seal()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestChunkBuilder_RejectsNaN(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeFloat64})
	err := b.AppendRow(value.Float64(math.NaN()))
	assert.ErrorIs(t, err, ErrNaNCell)

	b32 := NewChunkBuilder([]value.DataType{value.DataTypeFloat32})
	err = b32.AppendRow(value.Float32(float32(math.NaN())))
	assert.ErrorIs(t, err, ErrNaNCell)

	// A rejected row leaves the builder usable; nulls stand in for
	// absent floats.
	require.NoError(t, b.AppendRow(value.Null()))
	require.NoError(t, b.AppendRow(value.Float64(1.5)))
	chunk, err := b.Seal()
	require.NoError(t, err)
	assert.Equal(t, 2, chunk.Rows())
}

func TestChunk_NoSuchColumn(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeInt32})
	require.NoError(t, b.AppendRow(value.Int32(1)))
	chunk, err := b.Seal()
	require.NoError(t, err)

	_, err = chunk.Segment(3)
	assert.ErrorIs(t, err, ErrNoSuchColumn)
}

func TestStringSegment_CompressedRoundTrip(t *testing.T) {
	for _, codec := range []CompressionType{CompressionZSTD, CompressionLZ4} {
		t.Run(fmt.Sprintf("codec_%d", codec), func(t *testing.T) {
			b := NewChunkBuilder([]value.DataType{value.DataTypeString},
				WithStringCompression(codec), WithCompressionThreshold(1))

			want := make([]value.Value, 0, 64)
			for i := 0; i < 64; i++ {
				if i%7 == 0 {
					want = append(want, value.Null())
				} else {
					want = append(want, value.String(strings.Repeat("cell-", i%5+1)+fmt.Sprint(i)))
				}
			}
			for _, v := range want {
				require.NoError(t, b.AppendRow(v))
			}

			chunk, err := b.Seal()
			require.NoError(t, err)
			seg, err := chunk.Segment(0)
			require.NoError(t, err)

			got := scanAll(t, seg)
			require.Len(t, got, len(want))
			for i, c := range got {
				assert.Equal(t, model.ChunkOffset(i), c.offset)
				assert.Equal(t, want[i], c.v)
			}

			// Scans are repeatable; decompression happens per Scan call.
			again := scanAll(t, seg)
			assert.Equal(t, got, again)
		})
	}
}

func TestStringSegment_SmallStaysRaw(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeString})
	require.NoError(t, b.AppendRow(value.String("tiny")))
	chunk, err := b.Seal()
	require.NoError(t, err)

	seg, err := chunk.Segment(0)
	require.NoError(t, err)
	ss, ok := seg.(*stringSegment)
	require.True(t, ok)
	assert.NotNil(t, ss.raw)
	assert.Nil(t, ss.payload)
}

func TestChunk_MemoryUsage(t *testing.T) {
	b := NewChunkBuilder([]value.DataType{value.DataTypeInt64, value.DataTypeString})
	for i := 0; i < 10; i++ {
		require.NoError(t, b.AppendRow(value.Int64(int64(i)), value.String("abc")))
	}
	chunk, err := b.Seal()
	require.NoError(t, err)

	assert.Greater(t, chunk.MemoryUsage(), 10*8)
}
