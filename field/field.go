// Package field details the scalar type categories a layout leaf can hold.
package field

//go:generate stringer -type=Type -linecomment

// Type represents the category of data held by a field.
type Type uint8

const (
	FTUnknown Type = 0  // Unknown
	FTBool    Type = 1  // bool
	FTInt8    Type = 2  // int8
	FTInt16   Type = 3  // int16
	FTInt32   Type = 4  // int32
	FTInt64   Type = 5  // int64
	FTUint8   Type = 6  // uint8
	FTUint16  Type = 7  // uint16
	FTUint32  Type = 8  // uint32
	FTUint64  Type = 9  // uint64
	FTFloat32 Type = 10 // float32
	FTFloat64 Type = 11 // float64
	FTStruct  Type = 14 // struct
)

// Padding is the category that represents unreserved bytes when comparing layouts
// for binary compatibility. Descriptions carry no explicit padding marker, so any
// uint8 leaf is a candidate.
const Padding = FTUint8

// IsScalar reports if t can be read or written by a scalar accessor.
func IsScalar(t Type) bool {
	switch t {
	case FTBool, FTInt8, FTInt16, FTInt32, FTInt64, FTUint8, FTUint16, FTUint32, FTUint64, FTFloat32, FTFloat64:
		return true
	}
	return false
}

// IsSigned reports if t is a signed integer.
func IsSigned(t Type) bool {
	switch t {
	case FTInt8, FTInt16, FTInt32, FTInt64:
		return true
	}
	return false
}

// IsUnsigned reports if t is an unsigned integer.
func IsUnsigned(t Type) bool {
	switch t {
	case FTUint8, FTUint16, FTUint32, FTUint64:
		return true
	}
	return false
}

// IsFloat reports if t is a floating point number.
func IsFloat(t Type) bool {
	return t == FTFloat32 || t == FTFloat64
}

// BitSize is the natural size in bits of a scalar Type. Non scalar types return 0.
func BitSize(t Type) uint64 {
	switch t {
	case FTBool, FTInt8, FTUint8:
		return 8
	case FTInt16, FTUint16:
		return 16
	case FTInt32, FTUint32, FTFloat32:
		return 32
	case FTInt64, FTUint64, FTFloat64:
		return 64
	}
	return 0
}
