// Package model defines the core identity types used throughout tablix.
//
// # Identity Types
//
//   - ChunkID: Identifier of one chunk of a table (uint32)
//   - ChunkOffset: Row position within a chunk (uint32)
//   - ColumnID: Column position within a table (uint16)
//   - RowID: Physical row address (ChunkID, ChunkOffset)
//
// RowID is the currency of the index subsystem: indexes store RowIDs by
// value and hand them back to query operators, which resolve them against
// chunk storage. A RowID never dangles because it carries no pointer into
// the chunk it names.
package model
