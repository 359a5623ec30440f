// Package layout holds the coordinates of a field in the two representations a record can
// have and the metadata shared by every layout that references the same type.
//
// The serialized representation is bit-packed and each field has an explicit byte order. The
// deserialized representation is the native, alignment-padded representation. Both are
// expressed in bits so they can be handled alike, but deserialized offsets and sizes are
// always multiples of 8.
package layout

import (
	"fmt"

	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/mapping"
)

// Serialized is the position of a field in the serialized representation.
type Serialized struct {
	// BitOffset is the offset of the first bit of the field.
	BitOffset uint64
	// BitSize is the size of the whole field including all array elements.
	BitSize uint64
	// TypeBitSize is the size of one array element.
	TypeBitSize uint64
	// UsedBitSize is the number of bits of an element holding data. It is the lesser of the
	// declared number of bits and the size of the type.
	UsedBitSize uint64
}

// End is the bit after the field.
func (s Serialized) End() uint64 {
	return s.BitOffset + s.BitSize
}

// Deserialized is the position of a field in the deserialized representation.
type Deserialized struct {
	// BitOffset is the offset of the first bit of the field.
	BitOffset uint64
	// BitSize is the size of the whole field including all array elements.
	BitSize uint64
	// TypeBitSize is the unaligned size of one array element.
	TypeBitSize uint64
	// AlignedTypeBitSize is the size of one array element padded to its alignment. This is
	// the distance between two array elements.
	AlignedTypeBitSize uint64
}

// End is the bit after the field.
func (d Deserialized) End() uint64 {
	return d.BitOffset + d.BitSize
}

// Element is a fully resolved layout of a field (or an element of an array field). All
// offsets are absolute, counted from the start of the record.
type Element struct {
	Serialized   Serialized
	Deserialized Deserialized

	// ArraySize is the number of array elements covered by the layout. It is 1 if the layout
	// is for a single array element.
	ArraySize uint64
	// ChildCount is the number of direct children: array elements for a whole array, fields
	// for a struct, 0 for a scalar.
	ChildCount uint64
	// LeafCount is the number of scalar leaves covered by the layout.
	LeafCount uint64
	// ByteOrder is the serialized byte order.
	ByteOrder mapping.ByteOrder

	// Type is the type of the field. It is shared by all layouts of the same type.
	Type *TypeInfo
	// Constant is set if the field is fixed to an enum value.
	Constant *ConstantInfo
	// Default is set if the field has a default value.
	Default *DefaultInfo
}

// Category is the type category of the field.
func (e Element) Category() field.Type {
	if e.Type == nil {
		return field.FTUnknown
	}
	return e.Type.Category
}

// IsStruct reports if the layout is of a nested struct.
func (e Element) IsStruct() bool {
	return e.Category() == field.FTStruct
}

func (e Element) String() string {
	name := "<nil>"
	if e.Type != nil {
		name = e.Type.Name
	}
	return fmt.Sprintf(
		"%s[%d] ser(off: %d, size: %d, used: %d) des(off: %d, size: %d, type: %d/%d)",
		name, e.ArraySize,
		e.Serialized.BitOffset, e.Serialized.BitSize, e.Serialized.UsedBitSize,
		e.Deserialized.BitOffset, e.Deserialized.BitSize, e.Deserialized.TypeBitSize, e.Deserialized.AlignedTypeBitSize,
	)
}

// AlignUp rounds v up to a multiple of align. An align of 0 or 1 returns v.
func AlignUp(v, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
