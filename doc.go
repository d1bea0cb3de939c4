// Package tablix provides chunk-granular secondary indexing for an
// in-memory column store.
//
// A table's rows live in sealed, immutable chunks; a partial hash index
// covers an explicit subset of those chunks for one column and answers
// equality and inequality lookups with row positions. Indexes grow and
// shrink with the table: sealing new chunks extends them, deleting or
// re-encoding chunks shrinks them.
//
// # Usage
//
//	catalog := tablix.NewCatalog(
//	    tablix.WithLogger(tablix.NewTextLogger(slog.LevelInfo)),
//	)
//
//	idx, err := catalog.CreateIndex("orders", 2, value.DataTypeInt64, chunks)
//	if err != nil { ... }
//
//	rows := idx.Equals(value.Int64(42))
//
//	// Storage layer lifecycle hooks:
//	catalog.OnChunksSealed(ctx, "orders", newChunks)
//	catalog.OnChunksRemoved(ctx, "orders", retiredIDs)
//
// # Packages
//
//   - model: chunk/column/row identity types
//   - value: the tagged scalar variant and column data types
//   - storage: sealed chunks and per-column segments
//   - index/partialhash: the index core, iterators, and guard
//
// The catalog is the convenience surface; the index machinery in
// index/partialhash is fully usable on its own.
package tablix
