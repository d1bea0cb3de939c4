package tablix

import (
	"errors"
	"fmt"

	"github.com/tablix/tablix/model"
	"github.com/tablix/tablix/value"
)

var (
	// ErrIndexExists is returned when creating an index that already exists
	// for the (table, column) pair.
	ErrIndexExists = errors.New("index already exists")

	// ErrIndexNotFound is returned when looking up or dropping an index
	// that was never created.
	ErrIndexNotFound = errors.New("index not found")
)

// ErrColumnType indicates that an index could not be created because the
// column's declared type is not indexable.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrColumnType struct {
	Table    string
	ColumnID model.ColumnID
	DataType value.DataType
	cause    error
}

func (e *ErrColumnType) Error() string {
	return fmt.Sprintf("column %d of table %q has unindexable type %s", e.ColumnID, e.Table, e.DataType)
}

func (e *ErrColumnType) Unwrap() error { return e.cause }
