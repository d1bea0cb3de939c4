package storage

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

// Segment is the per-column physical storage within one sealed chunk.
//
// Scan is the contract the index subsystem builds on: it visits every cell
// in row order exactly once, yielding either a null Value or a scalar of
// the segment's data type.
type Segment interface {
	// DataType returns the declared scalar type of the column.
	DataType() value.DataType

	// Len returns the number of rows in the segment.
	Len() int

	// Scan visits all cells in row order.
	Scan(fn func(offset model.ChunkOffset, v value.Value))

	// MemoryUsage estimates the segment footprint in bytes.
	MemoryUsage() int
}

// scalarSegment is the dense storage for fixed-width scalar columns.
// Null positions keep a zero value in data and are tracked in the nulls
// bitmap, so data stays a contiguous, cache-friendly slice.
type scalarSegment[T int32 | int64 | float32 | float64] struct {
	dataType value.DataType
	data     []T
	nulls    *roaring.Bitmap
	wrap     func(T) value.Value
}

func (s *scalarSegment[T]) DataType() value.DataType { return s.dataType }

func (s *scalarSegment[T]) Len() int { return len(s.data) }

func (s *scalarSegment[T]) Scan(fn func(offset model.ChunkOffset, v value.Value)) {
	for i, v := range s.data {
		if s.nulls != nil && s.nulls.Contains(uint32(i)) {
			fn(model.ChunkOffset(i), value.Null())
			continue
		}
		fn(model.ChunkOffset(i), s.wrap(v))
	}
}

func (s *scalarSegment[T]) MemoryUsage() int {
	var zero T
	bytes := len(s.data) * scalarWidth(zero)
	if s.nulls != nil {
		bytes += int(s.nulls.GetSizeInBytes())
	}
	return bytes
}

func scalarWidth[T int32 | int64 | float32 | float64](v T) int {
	switch any(v).(type) {
	case int32, float32:
		return 4
	default:
		return 8
	}
}

// stringSegment stores variable-length string cells. Small segments keep
// the raw slice; sealing large segments concatenates all cells into one
// payload, compresses it, and keeps prefix offsets for slicing. Scan
// decompresses the payload once per call, not per cell.
type stringSegment struct {
	rows  int
	nulls *roaring.Bitmap

	// Exactly one of raw or payload is set.
	raw     []string
	payload []byte
	offsets []uint32 // rows+1 prefix offsets into the uncompressed payload
	codec   CompressionType
}

func (s *stringSegment) DataType() value.DataType { return value.DataTypeString }

func (s *stringSegment) Len() int { return s.rows }

func (s *stringSegment) Scan(fn func(offset model.ChunkOffset, v value.Value)) {
	if s.raw != nil {
		for i, v := range s.raw {
			if s.nulls != nil && s.nulls.Contains(uint32(i)) {
				fn(model.ChunkOffset(i), value.Null())
				continue
			}
			fn(model.ChunkOffset(i), value.String(v))
		}
		return
	}

	decoded, err := decompressPayload(s.payload, s.codec)
	if err != nil {
		// Sealed payloads are written by this package; a decode failure
		// means the segment memory was corrupted.
		panic("storage: corrupt sealed string segment: " + err.Error())
	}
	for i := 0; i < s.rows; i++ {
		if s.nulls != nil && s.nulls.Contains(uint32(i)) {
			fn(model.ChunkOffset(i), value.Null())
			continue
		}
		cell := decoded[s.offsets[i]:s.offsets[i+1]]
		fn(model.ChunkOffset(i), value.String(string(cell)))
	}
}

func (s *stringSegment) MemoryUsage() int {
	bytes := 0
	if s.raw != nil {
		for _, v := range s.raw {
			bytes += len(v) + 16 // string header
		}
	} else {
		bytes += len(s.payload) + len(s.offsets)*4
	}
	if s.nulls != nil {
		bytes += int(s.nulls.GetSizeInBytes())
	}
	return bytes
}
