// Package value provides the tagged scalar variant exchanged between
// untyped callers and the typed column machinery.
//
// A column is declared with one of five scalar DataTypes (int32, int64,
// float32, float64, string). Cells of the column are either null or a
// scalar of that type; both states are carried by Value, with Kind
// distinguishing them.
//
// Query values travel as Value through the type-dispatching index facade,
// which narrows them to the concrete Go type of the indexed column. A
// narrow failure is a caller bug, not a data condition; see package
// partialhash for the contract.
package value
