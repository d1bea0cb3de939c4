package value

import (
	"fmt"
	"math"
	"strconv"
)

// DataType enumerates the scalar types a table column can carry.
type DataType uint8

const (
	// DataTypeInvalid represents an unconfigured data type.
	DataTypeInvalid DataType = iota
	// DataTypeInt32 is a 32-bit signed integer column.
	DataTypeInt32
	// DataTypeInt64 is a 64-bit signed integer column.
	DataTypeInt64
	// DataTypeFloat32 is a 32-bit float column.
	DataTypeFloat32
	// DataTypeFloat64 is a 64-bit float column.
	DataTypeFloat64
	// DataTypeString is a variable-length string column.
	DataTypeString
)

// String returns the lowercase name of the data type.
func (dt DataType) String() string {
	switch dt {
	case DataTypeInt32:
		return "int32"
	case DataTypeInt64:
		return "int64"
	case DataTypeFloat32:
		return "float32"
	case DataTypeFloat64:
		return "float64"
	case DataTypeString:
		return "string"
	default:
		return "invalid"
	}
}

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null cell.
	KindNull
	// KindInt32 represents an int32 value.
	KindInt32
	// KindInt64 represents an int64 value.
	KindInt64
	// KindFloat32 represents a float32 value.
	KindFloat32
	// KindFloat64 represents a float64 value.
	KindFloat64
	// KindString represents a string value.
	KindString
)

// Value is a small tagged scalar used at the boundary between untyped
// callers (query plans, segment scans) and the typed index cores.
//
// The representation is designed to keep dispatch cheap and predictable:
// no reflection, no interface boxing of numeric payloads.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	S    string
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// Int32 wraps an int32.
func Int32(v int32) Value {
	return Value{Kind: KindInt32, I64: int64(v)}
}

// Int64 wraps an int64.
func Int64(v int64) Value {
	return Value{Kind: KindInt64, I64: v}
}

// Float32 wraps a float32.
func Float32(v float32) Value {
	return Value{Kind: KindFloat32, F64: float64(v)}
}

// Float64 wraps a float64.
func Float64(v float64) Value {
	return Value{Kind: KindFloat64, F64: v}
}

// String wraps a string.
func String(v string) Value {
	return Value{Kind: KindString, S: v}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// IsNaN reports whether the value is a float carrying NaN.
func (v Value) IsNaN() bool {
	return (v.Kind == KindFloat32 || v.Kind == KindFloat64) && math.IsNaN(v.F64)
}

// AsInt32 returns the int32 payload if Kind is KindInt32.
func (v Value) AsInt32() (int32, bool) {
	if v.Kind != KindInt32 {
		return 0, false
	}
	return int32(v.I64), true
}

// AsInt64 returns the int64 payload if Kind is KindInt64.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt64 {
		return 0, false
	}
	return v.I64, true
}

// AsFloat32 returns the float32 payload if Kind is KindFloat32.
func (v Value) AsFloat32() (float32, bool) {
	if v.Kind != KindFloat32 {
		return 0, false
	}
	return float32(v.F64), true
}

// AsFloat64 returns the float64 payload if Kind is KindFloat64.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat64 {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string payload if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// DataType returns the column data type matching the value's kind, or
// DataTypeInvalid for null (null carries no type of its own).
func (v Value) DataType() DataType {
	switch v.Kind {
	case KindInt32:
		return DataTypeInt32
	case KindInt64:
		return DataTypeInt64
	case KindFloat32:
		return DataTypeFloat32
	case KindFloat64:
		return DataTypeFloat64
	case KindString:
		return DataTypeString
	default:
		return DataTypeInvalid
	}
}

// String returns a debug representation.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.F64, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return fmt.Sprintf("%q", v.S)
	default:
		return "invalid"
	}
}
