package tablix

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tablix/tablix/index/partialhash"
	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

type indexKey struct {
	Table    string
	ColumnID model.ColumnID
}

// Catalog owns one guarded partial hash index per (table, column) pair and
// relays chunk lifecycle events from the storage layer to every index of
// the affected table.
//
// The catalog itself is safe for concurrent use; the per-index
// reader/writer discipline is enforced by partialhash.Guarded.
type Catalog struct {
	indexes *xsync.MapOf[indexKey, *partialhash.Guarded]
	logger  *Logger
	metrics MetricsCollector
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog logger. Default is a noop logger.
func WithLogger(l *Logger) Option {
	return func(c *Catalog) {
		c.logger = l
	}
}

// WithMetrics sets the metrics collector. Default is a noop collector.
func WithMetrics(m MetricsCollector) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// NewCatalog creates an empty index catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		indexes: xsync.NewMapOf[indexKey, *partialhash.Guarded](),
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateIndex builds a partial hash index over the given column, seeded
// with the chunks in refs, and registers it under (table, columnID).
func (c *Catalog) CreateIndex(table string, columnID model.ColumnID, dt value.DataType, refs []partialhash.ChunkRef) (*partialhash.Guarded, error) {
	key := indexKey{Table: table, ColumnID: columnID}
	if _, ok := c.indexes.Load(key); ok {
		return nil, fmt.Errorf("%w: table %q column %d", ErrIndexExists, table, columnID)
	}

	start := time.Now()
	idx, err := partialhash.New(dt, columnID, refs)
	if err != nil {
		return nil, &ErrColumnType{Table: table, ColumnID: columnID, DataType: dt, cause: err}
	}

	// Duplicate chunk ids in refs are skipped by Add, so report the
	// covered count, not len(refs).
	indexed := idx.ChunkCount()
	guarded := partialhash.Guard(idx)
	if _, loaded := c.indexes.LoadOrStore(key, guarded); loaded {
		return nil, fmt.Errorf("%w: table %q column %d", ErrIndexExists, table, columnID)
	}

	c.metrics.RecordAdd(indexed, time.Since(start))
	c.logger.WithTable(table).WithColumn(uint16(columnID)).Info("index created",
		"data_type", dt.String(), "chunks", indexed)
	return guarded, nil
}

// Index returns the index registered for (table, columnID).
func (c *Catalog) Index(table string, columnID model.ColumnID) (*partialhash.Guarded, error) {
	g, ok := c.indexes.Load(indexKey{Table: table, ColumnID: columnID})
	if !ok {
		return nil, fmt.Errorf("%w: table %q column %d", ErrIndexNotFound, table, columnID)
	}
	return g, nil
}

// DropIndex removes the index for (table, columnID) from the catalog.
func (c *Catalog) DropIndex(table string, columnID model.ColumnID) error {
	key := indexKey{Table: table, ColumnID: columnID}
	if _, ok := c.indexes.LoadAndDelete(key); !ok {
		return fmt.Errorf("%w: table %q column %d", ErrIndexNotFound, table, columnID)
	}
	c.logger.WithTable(table).WithColumn(uint16(columnID)).Info("index dropped")
	return nil
}

// IndexCount returns the number of registered indexes.
func (c *Catalog) IndexCount() int {
	return c.indexes.Size()
}

// OnChunksSealed notifies every index of the table that chunks have been
// sealed. Indexes of distinct columns are independent, so the fan-out runs
// them in parallel. Returns the total number of (index, chunk) additions.
func (c *Catalog) OnChunksSealed(ctx context.Context, table string, refs []partialhash.ChunkRef) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	var total atomic.Int64

	start := time.Now()
	c.forTable(table, func(guarded *partialhash.Guarded) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			total.Add(int64(guarded.Add(refs)))
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}

	c.metrics.RecordAdd(int(total.Load()), time.Since(start))
	c.logger.WithTable(table).Debug("chunks sealed", "chunks", len(refs), "indexed", total.Load())
	return int(total.Load()), nil
}

// OnChunksRemoved notifies every index of the table that chunks have been
// deleted or re-encoded. Returns the total number of (index, chunk)
// removals.
func (c *Catalog) OnChunksRemoved(ctx context.Context, table string, chunkIDs []model.ChunkID) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	var total atomic.Int64

	start := time.Now()
	c.forTable(table, func(guarded *partialhash.Guarded) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			total.Add(int64(guarded.Remove(chunkIDs)))
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}

	c.metrics.RecordRemove(int(total.Load()), time.Since(start))
	c.logger.WithTable(table).Debug("chunks removed", "chunks", len(chunkIDs), "purged", total.Load())
	return int(total.Load()), nil
}

// Equals runs an equality lookup against the (table, columnID) index.
func (c *Catalog) Equals(table string, columnID model.ColumnID, v value.Value) ([]model.RowID, error) {
	g, err := c.Index(table, columnID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows := g.Equals(v)
	c.metrics.RecordQuery("equals", len(rows), time.Since(start))
	return rows, nil
}

// NotEquals runs an inequality lookup against the (table, columnID) index.
// Null rows are excluded, matching SQL's <> semantics.
func (c *Catalog) NotEquals(table string, columnID model.ColumnID, v value.Value) ([]model.RowID, error) {
	g, err := c.Index(table, columnID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows := g.NotEquals(v)
	c.metrics.RecordQuery("not_equals", len(rows), time.Since(start))
	return rows, nil
}

// MemoryUsage sums the estimated footprint of every index of the table.
func (c *Catalog) MemoryUsage(table string) int {
	total := 0
	c.forTable(table, func(g *partialhash.Guarded) {
		total += g.MemoryUsage()
	})
	return total
}

func (c *Catalog) forTable(table string, fn func(*partialhash.Guarded)) {
	c.indexes.Range(func(k indexKey, g *partialhash.Guarded) bool {
		if k.Table == table {
			fn(g)
		}
		return true
	})
}
