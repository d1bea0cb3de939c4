package storage

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

var (
	// ErrSealed is returned when appending to an already sealed builder.
	ErrSealed = errors.New("chunk builder is sealed")
	// ErrArityMismatch is returned when a row has the wrong column count.
	ErrArityMismatch = errors.New("row arity does not match chunk schema")
	// ErrCellType is returned when a cell value does not match the column type.
	ErrCellType = errors.New("cell value does not match column data type")
	// ErrNaNCell is returned for a NaN float cell. NaN compares unequal to
	// itself, so it can neither be bucketed under a hash key nor looked up
	// again; use null for an absent float instead.
	ErrNaNCell = errors.New("NaN cell values cannot be stored")
	// ErrNoSuchColumn is returned for an out-of-range column id.
	ErrNoSuchColumn = errors.New("no such column")
)

// Chunk is a contiguous, immutable block of rows. Chunks are produced by a
// ChunkBuilder and sealed before they become visible to the index
// subsystem; nothing mutates a Chunk after Seal.
type Chunk struct {
	segments []Segment
	rows     int
}

// Rows returns the number of rows in the chunk.
func (c *Chunk) Rows() int { return c.rows }

// ColumnCount returns the number of columns.
func (c *Chunk) ColumnCount() int { return len(c.segments) }

// Segment returns the per-column storage for the given column.
func (c *Chunk) Segment(columnID model.ColumnID) (Segment, error) {
	if int(columnID) >= len(c.segments) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrNoSuchColumn, columnID, len(c.segments))
	}
	return c.segments[columnID], nil
}

// MemoryUsage estimates the chunk footprint in bytes.
func (c *Chunk) MemoryUsage() int {
	bytes := 0
	for _, s := range c.segments {
		bytes += s.MemoryUsage()
	}
	return bytes
}

// BuilderOption configures a ChunkBuilder.
type BuilderOption func(*ChunkBuilder)

// WithStringCompression selects the codec for sealed string segments.
// Default is zstd.
func WithStringCompression(ct CompressionType) BuilderOption {
	return func(b *ChunkBuilder) {
		b.codec = ct
	}
}

// WithCompressionThreshold sets the total-payload size in bytes above which
// a string segment is compressed on Seal. Default 4096.
func WithCompressionThreshold(n int) BuilderOption {
	return func(b *ChunkBuilder) {
		b.compressAt = n
	}
}

// ChunkBuilder accumulates rows and seals them into an immutable Chunk.
// It is not safe for concurrent use.
type ChunkBuilder struct {
	types      []value.DataType
	columns    []columnBuffer
	rows       int
	sealed     bool
	codec      CompressionType
	compressAt int
}

// NewChunkBuilder creates a builder for a chunk with the given column types.
func NewChunkBuilder(types []value.DataType, opts ...BuilderOption) *ChunkBuilder {
	b := &ChunkBuilder{
		types:      types,
		columns:    make([]columnBuffer, len(types)),
		codec:      CompressionZSTD,
		compressAt: 4096,
	}
	for i, dt := range types {
		b.columns[i] = newColumnBuffer(dt)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AppendRow appends one row; cells must match the schema positionally.
// Null cells are allowed in any column; NaN float cells are rejected.
func (b *ChunkBuilder) AppendRow(cells ...value.Value) error {
	if b.sealed {
		return ErrSealed
	}
	if len(cells) != len(b.types) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrArityMismatch, len(cells), len(b.types))
	}
	for i, cell := range cells {
		if cell.IsNull() {
			continue
		}
		if cell.DataType() != b.types[i] {
			return fmt.Errorf("%w: column %d is %s, got %s", ErrCellType, i, b.types[i], cell.DataType())
		}
		if cell.IsNaN() {
			return fmt.Errorf("%w: column %d", ErrNaNCell, i)
		}
	}
	for i, cell := range cells {
		b.columns[i].append(cell)
	}
	b.rows++
	return nil
}

// Seal freezes the builder and returns the immutable chunk.
func (b *ChunkBuilder) Seal() (*Chunk, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	b.sealed = true

	segments := make([]Segment, len(b.columns))
	for i, col := range b.columns {
		seg, err := col.seal(b.codec, b.compressAt)
		if err != nil {
			return nil, err
		}
		segments[i] = seg
	}
	return &Chunk{segments: segments, rows: b.rows}, nil
}

// columnBuffer is the mutable staging area for one column of a chunk
// under construction.
type columnBuffer interface {
	append(v value.Value)
	seal(codec CompressionType, compressAt int) (Segment, error)
}

type scalarBuffer[T int32 | int64 | float32 | float64] struct {
	dataType value.DataType
	data     []T
	nulls    *roaring.Bitmap
	unwrap   func(value.Value) T
	wrap     func(T) value.Value
}

func (b *scalarBuffer[T]) append(v value.Value) {
	if v.IsNull() {
		if b.nulls == nil {
			b.nulls = roaring.New()
		}
		b.nulls.Add(uint32(len(b.data)))
		var zero T
		b.data = append(b.data, zero)
		return
	}
	b.data = append(b.data, b.unwrap(v))
}

func (b *scalarBuffer[T]) seal(CompressionType, int) (Segment, error) {
	return &scalarSegment[T]{
		dataType: b.dataType,
		data:     b.data,
		nulls:    b.nulls,
		wrap:     b.wrap,
	}, nil
}

type stringBuffer struct {
	data  []string
	bytes int
	nulls *roaring.Bitmap
}

func (b *stringBuffer) append(v value.Value) {
	if v.IsNull() {
		if b.nulls == nil {
			b.nulls = roaring.New()
		}
		b.nulls.Add(uint32(len(b.data)))
		b.data = append(b.data, "")
		return
	}
	s, _ := v.AsString()
	b.data = append(b.data, s)
	b.bytes += len(s)
}

func (b *stringBuffer) seal(codec CompressionType, compressAt int) (Segment, error) {
	if codec == CompressionNone || b.bytes < compressAt {
		return &stringSegment{rows: len(b.data), nulls: b.nulls, raw: b.data}, nil
	}

	offsets := make([]uint32, len(b.data)+1)
	payload := make([]byte, 0, b.bytes)
	for i, s := range b.data {
		offsets[i] = uint32(len(payload))
		payload = append(payload, s...)
	}
	offsets[len(b.data)] = uint32(len(payload))

	compressed, err := compressPayload(payload, codec)
	if err != nil {
		return nil, err
	}
	return &stringSegment{
		rows:    len(b.data),
		nulls:   b.nulls,
		payload: compressed,
		offsets: offsets,
		codec:   codec,
	}, nil
}

func newColumnBuffer(dt value.DataType) columnBuffer {
	switch dt {
	case value.DataTypeInt32:
		return &scalarBuffer[int32]{
			dataType: dt,
			unwrap:   func(v value.Value) int32 { x, _ := v.AsInt32(); return x },
			wrap:     value.Int32,
		}
	case value.DataTypeInt64:
		return &scalarBuffer[int64]{
			dataType: dt,
			unwrap:   func(v value.Value) int64 { x, _ := v.AsInt64(); return x },
			wrap:     value.Int64,
		}
	case value.DataTypeFloat32:
		return &scalarBuffer[float32]{
			dataType: dt,
			unwrap:   func(v value.Value) float32 { x, _ := v.AsFloat32(); return x },
			wrap:     value.Float32,
		}
	case value.DataTypeFloat64:
		return &scalarBuffer[float64]{
			dataType: dt,
			unwrap:   func(v value.Value) float64 { x, _ := v.AsFloat64(); return x },
			wrap:     value.Float64,
		}
	case value.DataTypeString:
		return &stringBuffer{}
	default:
		panic(fmt.Sprintf("storage: unsupported column data type %d", dt))
	}
}
