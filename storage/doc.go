// Package storage provides the minimal in-memory chunk and segment
// representation the index subsystem consumes.
//
// # Chunks and Segments
//
// A table is partitioned into chunks; a chunk holds one segment per
// column. Chunks are built row-by-row through a ChunkBuilder and become
// immutable when sealed. Only sealed chunks are handed to indexes.
//
// # Cell Iteration
//
// Segment.Scan is the one contract indexes rely on: every cell visited in
// row order, each either null or a scalar of the column's type. Index
// correctness (the membership bijection between buckets and indexed
// chunks) depends on Scan being exhaustive and ordered.
//
// # Layout
//
//   - Fixed-width scalars: dense value slice + roaring validity bitmap
//   - Strings: raw slice while small; large segments seal into a single
//     compressed payload (zstd or lz4) with prefix offsets
package storage
