// Package partialhash implements a chunk-granular partial hash index over
// one column of a column-store table.
//
// # Partial Indexing
//
// The index covers an explicit subset of a table's chunks. Sealed chunks
// are added incrementally as the table grows; deleted or re-encoded chunks
// are removed, which purges their RowIDs from every bucket and drops
// buckets left empty. Add is idempotent per chunk and both mutations
// report how many chunks they actually touched.
//
// # Structure
//
// One typed core exists per indexed column, selected by the column's
// declared DataType (int32, int64, float32, float64, string). Each core
// owns three things:
//
//   - a value -> RowID-bucket map, with a sorted key slice mirroring the
//     map's key set
//   - a null bucket of RowIDs for null cells
//   - a roaring bitmap of the covered chunk ids
//
// # Lookups
//
// Equals returns the half-open range spanning exactly the queried value's
// bucket, or an empty range when the value is absent. NotEquals returns
// the two ranges on either side of that bucket; the decomposition relies
// on the sorted key slice giving the value store a genuine total order
// with equal keys contiguous. A query value whose type tag does not match
// the indexed column's type is a caller bug and panics; it is never
// reported as "not found".
//
// # Concurrency
//
// Index itself is synchronization-free. Guarded wraps it with the
// intended discipline: exclusive Add/Remove, shared queries, results
// materialized under the read lock.
package partialhash
