// Package testdesc builds record descriptions for tests.
package testdesc

import (
	"github.com/bearlytools/ddlcodec/mapping"
)

// Field is a field of data type t.
func Field(name string, t *mapping.DataType) *mapping.FieldDescr {
	return &mapping.FieldDescr{Name: name, DataType: t}
}

// Array is a field holding n elements of data type t.
func Array(name string, t *mapping.DataType, n uint64) *mapping.FieldDescr {
	return &mapping.FieldDescr{Name: name, DataType: t, ArraySize: mapping.Fixed(n)}
}

// DynArray is a field holding elements of data type t. The number of elements is the value of
// the sibling called ref.
func DynArray(name string, t *mapping.DataType, ref string) *mapping.FieldDescr {
	return &mapping.FieldDescr{Name: name, DataType: t, ArraySize: mapping.Ref(ref)}
}

// Struct is a field holding struct m.
func Struct(name string, m *mapping.Map) *mapping.FieldDescr {
	return &mapping.FieldDescr{Name: name, Struct: m}
}

// Enum is a field of enum e.
func Enum(name string, e *mapping.EnumType) *mapping.FieldDescr {
	return &mapping.FieldDescr{Name: name, Enum: e}
}

// Map is a struct called name using the latest description language version.
func Map(name string, fields ...*mapping.FieldDescr) *mapping.Map {
	return &mapping.Map{Name: name, Version: mapping.V41, Fields: fields}
}

// Color is an enum over a uint8.
func Color() *mapping.EnumType {
	return &mapping.EnumType{
		Name:     "Color",
		DataType: mapping.TUint8,
		Elements: []mapping.EnumElement{
			{Name: "Red", Value: "1"},
			{Name: "Green", Value: "2"},
			{Name: "Blue", Value: "0x10"},
		},
	}
}

// AB is {uint8 a; uint32 b}.
func AB() *mapping.Map {
	return Map(
		"AB",
		Field("a", mapping.TUint8),
		Field("b", mapping.TUint32),
	)
}

// PaddedAB is {uint8 a; uint8 pad[3]; uint32 b}, which has the same deserialized layout as AB.
func PaddedAB() *mapping.Map {
	return Map(
		"PaddedAB",
		Field("a", mapping.TUint8),
		Array("pad", mapping.TUint8, 3),
		Field("b", mapping.TUint32),
	)
}

// Padding is a struct of n padding bytes.
func Padding(n uint64) *mapping.Map {
	return Map("Padding", Array("pad", mapping.TUint8, n))
}

// CountItems is {uint32 count; int32 items[count]}.
func CountItems() *mapping.Map {
	return Map(
		"CountItems",
		Field("count", mapping.TUint32),
		DynArray("items", mapping.TInt32, "count"),
	)
}

// Point is {int16 x; int16 y}.
func Point() *mapping.Map {
	return Map(
		"Point",
		Field("x", mapping.TInt16),
		Field("y", mapping.TInt16),
	)
}

// Mixed is a static record with nested structs, arrays, enums and both byte orders:
//
//	{
//		bool flag;
//		Color color = Green;
//		uint16 be (big endian);
//		Point points[2];
//		int64 big;
//		float32 ratio;
//		float64 precise (big endian);
//		uint16 small : 12 bits;
//		int8 tail[3];
//	}
func Mixed() *mapping.Map {
	color := Enum("color", Color())
	color.Default = "Green"

	be := Field("be", mapping.TUint16)
	be.ByteOrder = mapping.BigEndian

	points := Struct("points", Point())
	points.ArraySize = mapping.Fixed(2)

	precise := Field("precise", mapping.TFloat64)
	precise.ByteOrder = mapping.BigEndian

	small := Field("small", mapping.TUint16)
	small.NumBits = 12

	return Map(
		"Mixed",
		Field("flag", mapping.TBool),
		color,
		be,
		points,
		Field("big", mapping.TInt64),
		Field("ratio", mapping.TFloat32),
		precise,
		small,
		Array("tail", mapping.TInt8, 3),
	)
}

// Nested is a record with a dynamic array inside an array of structs:
//
//	{
//		uint8 n;
//		Inner inner[2] { uint16 count; uint8 data[count]; };
//		uint32 after;
//	}
func Nested() *mapping.Map {
	inner := Map(
		"Inner",
		Field("count", mapping.TUint16),
		DynArray("data", mapping.TUint8, "count"),
	)
	innerField := Struct("inner", inner)
	innerField.ArraySize = mapping.Fixed(2)

	return Map(
		"Nested",
		Field("n", mapping.TUint8),
		innerField,
		Field("after", mapping.TUint32),
	)
}
