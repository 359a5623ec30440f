// Package mapping holds the structural description of a record that the codec computes its
// layouts from. A description names the fields of a struct in order, the type of each field,
// its array size, byte order and alignment.
//
// Descriptions are produced elsewhere (a DDL parser, a builder, generated code). The codec only
// reads them and never keeps a reference past the construction of a layout tree.
package mapping

import (
	"fmt"
	"strconv"

	"github.com/bearlytools/ddlcodec/field"
)

// ByteOrder is the byte order a field uses in the serialized representation.
type ByteOrder uint8

const (
	// LittleEndian stores the least significant byte first.
	LittleEndian ByteOrder = 0
	// BigEndian stores the most significant byte first.
	BigEndian ByteOrder = 1
)

func (b ByteOrder) String() string {
	switch b {
	case LittleEndian:
		return "LE"
	case BigEndian:
		return "BE"
	}
	return "ByteOrder(" + strconv.Itoa(int(b)) + ")"
}

// Version is the version of the description language. It changes how the size of a
// struct is computed in the deserialized representation.
type Version uint16

const (
	V20 Version = 0x0200
	V30 Version = 0x0300
	V40 Version = 0x0400
	V41 Version = 0x0401
)

// AlignsStructs reports if the deserialized size of a struct is rounded up to the struct's
// alignment. Before 4.0 the unaligned sum of the members is the size.
func (v Version) AlignsStructs() bool {
	return v >= V40
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v>>8, v&0xFF)
}

// DataType is a scalar type.
type DataType struct {
	// Name is the name of the type, like "tUInt32".
	Name string
	// Type is the category of the type.
	Type field.Type
	// BitSize is the size of the type in the serialized representation. 0 means the natural
	// size of Type.
	BitSize uint64
}

// Bits is the serialized size of the type in bits.
func (d *DataType) Bits() uint64 {
	if d.BitSize != 0 {
		return d.BitSize
	}
	return field.BitSize(d.Type)
}

// The predefined data types.
var (
	TBool    = &DataType{Name: "tBool", Type: field.FTBool}
	TChar    = &DataType{Name: "tChar", Type: field.FTInt8}
	TInt8    = &DataType{Name: "tInt8", Type: field.FTInt8}
	TUint8   = &DataType{Name: "tUInt8", Type: field.FTUint8}
	TInt16   = &DataType{Name: "tInt16", Type: field.FTInt16}
	TUint16  = &DataType{Name: "tUInt16", Type: field.FTUint16}
	TInt32   = &DataType{Name: "tInt32", Type: field.FTInt32}
	TUint32  = &DataType{Name: "tUInt32", Type: field.FTUint32}
	TInt64   = &DataType{Name: "tInt64", Type: field.FTInt64}
	TUint64  = &DataType{Name: "tUInt64", Type: field.FTUint64}
	TFloat32 = &DataType{Name: "tFloat32", Type: field.FTFloat32}
	TFloat64 = &DataType{Name: "tFloat64", Type: field.FTFloat64}
)

// EnumElement is a named value of an enumeration.
type EnumElement struct {
	Name  string
	Value string
}

// EnumType is an enumeration over a scalar DataType.
type EnumType struct {
	Name     string
	DataType *DataType
	Elements []EnumElement
}

// Element returns the element named name.
func (e *EnumType) Element(name string) (EnumElement, bool) {
	for _, el := range e.Elements {
		if el.Name == name {
			return el, true
		}
	}
	return EnumElement{}, false
}

// ArraySize is the number of elements of a field. Either Fixed is used or Ref names a sibling
// field whose runtime value is the size.
type ArraySize struct {
	// Fixed is the static size. 0 is treated as 1 when Ref is not set.
	Fixed uint64
	// Ref is the name of a sibling scalar field that holds the size.
	Ref string
}

// Fixed returns a static ArraySize.
func Fixed(n uint64) ArraySize {
	return ArraySize{Fixed: n}
}

// Ref returns an ArraySize that is read at runtime from the sibling called name.
func Ref(name string) ArraySize {
	return ArraySize{Ref: name}
}

// IsDynamic reports if the size is read at runtime.
func (a ArraySize) IsDynamic() bool {
	return a.Ref != ""
}

// Size is the static size.
func (a ArraySize) Size() uint64 {
	if a.Fixed == 0 && a.Ref == "" {
		return 1
	}
	return a.Fixed
}

// SerializedPos is an explicit position in the serialized representation.
type SerializedPos struct {
	BytePos uint64
	BitPos  uint64
}

// Bits is the position in bits.
func (s SerializedPos) Bits() uint64 {
	return s.BytePos*8 + s.BitPos
}

// FieldDescr describes a field.
type FieldDescr struct {
	// Name is the name of the field.
	Name string

	// Exactly one of DataType, Enum and Struct must be set.

	// DataType is set for scalar fields.
	DataType *DataType
	// Enum is set for enumeration fields.
	Enum *EnumType
	// Struct is set for nested structs.
	Struct *Map

	// ArraySize is the number of elements. The zero value means 1.
	ArraySize ArraySize
	// ByteOrder is the byte order in the serialized representation.
	ByteOrder ByteOrder
	// Alignment is the deserialized alignment in bytes. 0 means the natural alignment of the type.
	Alignment uint64
	// NumBits is the number of serialized bits per element. 0 means the size of the type.
	NumBits uint64
	// Serialized is an explicit serialized position. If nil, the field is packed directly
	// after the previous field.
	Serialized *SerializedPos

	// Constant is the name of the enum element this field is fixed to.
	Constant string
	// Default is the default value of the field.
	Default string
}

// TypeName is the name of the type of the field.
func (f *FieldDescr) TypeName() string {
	switch {
	case f.DataType != nil:
		return f.DataType.Name
	case f.Enum != nil:
		return f.Enum.Name
	case f.Struct != nil:
		return f.Struct.Name
	}
	return ""
}

// Validate checks that the description of the field is structurally sound.
func (f *FieldDescr) Validate() error {
	return f.validate(map[*Map]bool{})
}

func (f *FieldDescr) validate(seen map[*Map]bool) error {
	set := 0
	for _, b := range []bool{f.DataType != nil, f.Enum != nil, f.Struct != nil} {
		if b {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf(".%s: must reference exactly one of DataType, Enum or Struct, had %d", f.Name, set)
	}

	switch {
	case f.DataType != nil:
		if !field.IsScalar(f.DataType.Type) {
			return fmt.Errorf(".%s: data type %q has non-scalar type %v", f.Name, f.DataType.Name, f.DataType.Type)
		}
	case f.Enum != nil:
		if f.Enum.DataType == nil || !field.IsScalar(f.Enum.DataType.Type) {
			return fmt.Errorf(".%s: enum %q must have a scalar data type", f.Name, f.Enum.Name)
		}
		if f.Constant != "" {
			if _, ok := f.Enum.Element(f.Constant); !ok {
				return fmt.Errorf(".%s: constant %q is not an element of enum %q", f.Name, f.Constant, f.Enum.Name)
			}
		}
	case f.Struct != nil:
		if seen[f.Struct] {
			return fmt.Errorf(".%s: struct %q contains itself", f.Name, f.Struct.Name)
		}
		seen[f.Struct] = true
		defer delete(seen, f.Struct)
		if err := f.Struct.validate(seen); err != nil {
			return fmt.Errorf(".%s%w", f.Name, err)
		}
	}
	if f.Constant != "" && f.Enum == nil {
		return fmt.Errorf(".%s: only enum fields can be constant", f.Name)
	}
	if f.Alignment != 0 && f.Alignment&(f.Alignment-1) != 0 {
		return fmt.Errorf(".%s: alignment %d is not a power of 2", f.Name, f.Alignment)
	}
	return nil
}

// Map describes a struct type as an ordered list of fields.
type Map struct {
	// Name of the struct type.
	Name string
	// Version is the version of the description language.
	Version Version
	// Alignment is the alignment of the struct in bytes. 0 means the largest alignment of
	// its fields.
	Alignment uint64
	// Fields are the field descriptions in order.
	Fields []*FieldDescr
}

// Validate checks that the description is structurally sound. It does not check semantics
// a description parser is responsible for, such as type name uniqueness.
func (m *Map) Validate() error {
	if m == nil {
		return fmt.Errorf("nil Map")
	}
	return m.validate(map[*Map]bool{m: true})
}

func (m *Map) validate(seen map[*Map]bool) error {
	if m.Alignment != 0 && m.Alignment&(m.Alignment-1) != 0 {
		return fmt.Errorf("struct %q: alignment %d is not a power of 2", m.Name, m.Alignment)
	}
	names := make(map[string]int, len(m.Fields))
	for i, f := range m.Fields {
		if f == nil {
			return fmt.Errorf("struct %q: field %d is nil", m.Name, i)
		}
		if f.Name == "" {
			return fmt.Errorf("struct %q: field %d has no name", m.Name, i)
		}
		if _, ok := names[f.Name]; ok {
			return fmt.Errorf("struct %q: duplicate field %q", m.Name, f.Name)
		}
		names[f.Name] = i
		if err := f.validate(seen); err != nil {
			return err
		}
	}
	for j, f := range m.Fields {
		if !f.ArraySize.IsDynamic() {
			continue
		}
		i, ok := names[f.ArraySize.Ref]
		if !ok {
			return fmt.Errorf("struct %q: field %q has array size %q which is not a field", m.Name, f.Name, f.ArraySize.Ref)
		}
		if i >= j {
			return fmt.Errorf("struct %q: field %q has array size %q which must come before it", m.Name, f.Name, f.ArraySize.Ref)
		}
		ref := m.Fields[i]
		if ref.Struct != nil || ref.ArraySize.IsDynamic() || ref.ArraySize.Size() != 1 {
			return fmt.Errorf("struct %q: field %q has array size %q which is not a scalar", m.Name, f.Name, ref.Name)
		}
	}
	return nil
}
