// Package accessor reads and writes scalar values at a resolved layout.Element of a buffer.
//
// There is one Accessor per representation. Deserialized copies whole bytes in host byte
// order. Serialized reads and writes at any bit offset and honors the byte order of the field.
// Buffers are only used for the duration of a call.
package accessor

import (
	"fmt"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/value"
)

// Accessor gets and sets scalars in a buffer.
type Accessor interface {
	// Get reads the value at l. For an array layout, this is the first element.
	Get(buf []byte, l layout.Element) (value.Value, error)
	// Set writes v at l, converting it to the type of l. For an array layout, this is the first element.
	Set(buf []byte, l layout.Element, v value.Value) error
	// GetRaw copies the field at l into dst. dst must be at least RawSize(l) bytes.
	GetRaw(buf []byte, l layout.Element, dst []byte) error
	// SetRaw copies src into the field at l. src must be at least RawSize(l) bytes.
	SetRaw(buf []byte, l layout.Element, src []byte) error
}

// For returns the Accessor of representation r.
func For(r access.Representation) Accessor {
	if r == access.Serialized {
		return Serialized{}
	}
	return Deserialized{}
}

// RawSize is the number of bytes GetRaw() and SetRaw() use for l: the deserialized size of
// the whole layout.
func RawSize(l layout.Element) uint64 {
	return l.Deserialized.BitSize / 8
}

// scalarType returns the category of l if it is a scalar.
func scalarType(l layout.Element) (field.Type, error) {
	t := l.Category()
	if !field.IsScalar(t) {
		name := "<nil>"
		if l.Type != nil {
			name = l.Type.Name
		}
		return t, errors.Newf(errors.CatUser, errors.TypeUnsupportedType, "type %s (%v) has no scalar accessor", name, t)
	}
	return t, nil
}

func tooSmall(what string, have, need uint64) error {
	return errors.Newf(errors.CatUser, errors.TypeBufferTooSmall, "%s has %d bytes, need %d", what, have, need)
}

// GetString returns the value at l as a string. Enum values that name an element of the enum
// are returned as the name of the element.
func GetString(a Accessor, buf []byte, l layout.Element) (string, error) {
	v, err := a.Get(buf, l)
	if err != nil {
		return "", err
	}
	if l.Type != nil && l.Type.IsEnum() {
		if s, ok := l.Type.SymbolOf(v); ok {
			return s, nil
		}
	}
	return v.String(), nil
}

// SetString sets the value at l from s. If l is an enum and s is the name of one of its
// elements (case sensitive), that element is written. Otherwise s is parsed as an unsigned,
// signed or floating point number, in that order.
func SetString(a Accessor, buf []byte, l layout.Element, s string) error {
	t, err := scalarType(l)
	if err != nil {
		return err
	}
	if l.Type.IsEnum() {
		if v, ok := l.Type.Symbol(s); ok {
			return a.Set(buf, l, v)
		}
	}

	v, err := value.ParseAny(s)
	if err != nil {
		// Not a number, but bool fields also take "true" and "false".
		var perr error
		v, perr = value.Parse(t, s)
		if perr != nil {
			return fmt.Errorf("field of type %s: %w", l.Type.Name, err)
		}
	}
	return a.Set(buf, l, v)
}
