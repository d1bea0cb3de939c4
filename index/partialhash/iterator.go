package partialhash

import (
	"iter"

	"golang.org/x/exp/constraints"

	"github.com/tablix/tablix/model"
)

// Iterator is a lazy, restartable cursor over RowIDs.
//
// Two iterators compare Equal when they address the same underlying
// position, regardless of which call produced them. Structural mutation of
// the index (Add/Remove) invalidates all outstanding iterators; see the
// concurrency discipline on Guarded.
type Iterator interface {
	// Valid reports whether the iterator addresses a row (false at a range end).
	Valid() bool

	// RowID returns the row at the current position. Only legal while Valid.
	RowID() model.RowID

	// Next advances to the following position.
	Next()

	// Equal reports whether the other iterator addresses the same position.
	Equal(other Iterator) bool

	// Clone returns an independent iterator at the same position.
	Clone() Iterator
}

// Range is a half-open [Begin, End) span of index positions.
type Range struct {
	Begin Iterator
	End   Iterator
}

// All returns a lazy sequence of the RowIDs in the range.
func (r Range) All() iter.Seq[model.RowID] {
	return func(yield func(model.RowID) bool) {
		for it := r.Begin.Clone(); !it.Equal(r.End); it.Next() {
			if !yield(it.RowID()) {
				return
			}
		}
	}
}

// Collect materializes the range into a slice.
func (r Range) Collect() []model.RowID {
	var out []model.RowID
	for rid := range r.All() {
		out = append(out, rid)
	}
	return out
}

// Len counts the rows in the range by walking it.
func (r Range) Len() int {
	return Distance(r.Begin, r.End)
}

// Distance walks begin forward until it meets end and returns the number
// of steps. Both iterators must belong to the same index and ordering of
// begin before end is the caller's responsibility.
func Distance(begin, end Iterator) int {
	n := 0
	for it := begin.Clone(); !it.Equal(end); it.Next() {
		n++
	}
	return n
}

// bucketCursor walks the value map bucket-by-bucket in key order and
// within a bucket in insertion order. Position (ki, pos) is normalized so
// the slot past the last row of bucket ki is (ki+1, 0); the overall end is
// (len(keys), 0). Buckets are never empty (empty buckets are deleted on
// remove), so normalization is unambiguous.
type bucketCursor[T constraints.Ordered] struct {
	keys    []T
	buckets map[T][]model.RowID
	ki      int
	pos     int
}

func (c *bucketCursor[T]) Valid() bool {
	return c.ki < len(c.keys)
}

func (c *bucketCursor[T]) RowID() model.RowID {
	return c.buckets[c.keys[c.ki]][c.pos]
}

func (c *bucketCursor[T]) Next() {
	if c.ki >= len(c.keys) {
		return
	}
	c.pos++
	if c.pos >= len(c.buckets[c.keys[c.ki]]) {
		c.ki++
		c.pos = 0
	}
}

func (c *bucketCursor[T]) Equal(other Iterator) bool {
	o, ok := other.(*bucketCursor[T])
	if !ok {
		return false
	}
	return c.ki == o.ki && c.pos == o.pos
}

func (c *bucketCursor[T]) Clone() Iterator {
	cp := *c
	return &cp
}

// nullCursor walks the null bucket in insertion order.
type nullCursor struct {
	rows []model.RowID
	pos  int
}

func (c *nullCursor) Valid() bool {
	return c.pos < len(c.rows)
}

func (c *nullCursor) RowID() model.RowID {
	return c.rows[c.pos]
}

func (c *nullCursor) Next() {
	if c.pos < len(c.rows) {
		c.pos++
	}
}

func (c *nullCursor) Equal(other Iterator) bool {
	o, ok := other.(*nullCursor)
	if !ok {
		return false
	}
	return c.pos == o.pos
}

func (c *nullCursor) Clone() Iterator {
	cp := *c
	return &cp
}
