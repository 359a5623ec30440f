// Package value provides Value, a scalar tagged with its field.Type. Accessors read and write
// Values so callers don't need to know the exact type of a field to use it.
package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/internal/bits"
)

// Scalar are the Go types that can be stored in a Value.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Value is a scalar tagged with its type. The zero Value is invalid.
type Value struct {
	t field.Type
	// raw holds integers as two's complement sign extended to 64 bits, floats as their IEEE 754
	// bits and bools as 0 or 1.
	raw uint64
}

// Of returns the Value holding v.
func Of[S Scalar](v S) Value {
	switch x := any(v).(type) {
	case bool:
		if x {
			return Value{t: field.FTBool, raw: 1}
		}
		return Value{t: field.FTBool}
	case int8:
		return Value{t: field.FTInt8, raw: uint64(int64(x))}
	case int16:
		return Value{t: field.FTInt16, raw: uint64(int64(x))}
	case int32:
		return Value{t: field.FTInt32, raw: uint64(int64(x))}
	case int64:
		return Value{t: field.FTInt64, raw: uint64(x)}
	case uint8:
		return Value{t: field.FTUint8, raw: uint64(x)}
	case uint16:
		return Value{t: field.FTUint16, raw: uint64(x)}
	case uint32:
		return Value{t: field.FTUint32, raw: uint64(x)}
	case uint64:
		return Value{t: field.FTUint64, raw: x}
	case float32:
		return Value{t: field.FTFloat32, raw: uint64(math.Float32bits(x))}
	case float64:
		return Value{t: field.FTFloat64, raw: math.Float64bits(x)}
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", v))
}

// FromBits creates a Value of type t from the lowest field.BitSize(t) bits of raw, as they are
// stored in memory. Signed integers are sign extended.
func FromBits(t field.Type, raw uint64) Value {
	size := field.BitSize(t)
	raw = bits.Truncate(raw, size)
	switch {
	case t == field.FTBool:
		if raw != 0 {
			raw = 1
		}
	case field.IsSigned(t):
		if size < 64 && raw&(1<<(size-1)) != 0 {
			raw |= ^uint64(0) << size
		}
	}
	return Value{t: t, raw: raw}
}

// Type is the type of the Value.
func (v Value) Type() field.Type {
	return v.t
}

// IsValid reports if the Value holds anything.
func (v Value) IsValid() bool {
	return v.t != field.FTUnknown
}

// Bits returns the value as it is stored in memory in field.BitSize(v.Type()) bits.
func (v Value) Bits() uint64 {
	return bits.Truncate(v.raw, field.BitSize(v.t))
}

// Bool returns the value as a bool. Numbers are true if they are not 0.
func (v Value) Bool() bool {
	switch {
	case field.IsFloat(v.t):
		return v.Float64() != 0
	}
	return v.raw != 0
}

// Int64 returns the value converted to an int64.
func (v Value) Int64() int64 {
	switch v.t {
	case field.FTFloat32, field.FTFloat64:
		return int64(v.Float64())
	}
	return int64(v.raw)
}

// Uint64 returns the value converted to a uint64.
func (v Value) Uint64() uint64 {
	switch v.t {
	case field.FTFloat32, field.FTFloat64:
		f := v.Float64()
		if f < 0 {
			return uint64(int64(f))
		}
		return uint64(f)
	}
	return v.raw
}

// Float64 returns the value converted to a float64.
func (v Value) Float64() float64 {
	switch {
	case v.t == field.FTFloat32:
		return float64(math.Float32frombits(uint32(v.raw)))
	case v.t == field.FTFloat64:
		return math.Float64frombits(v.raw)
	case field.IsSigned(v.t):
		return float64(int64(v.raw))
	}
	return float64(v.raw)
}

// Convert converts the Value to type t, truncating integers that don't fit.
func (v Value) Convert(t field.Type) (Value, error) {
	if !v.IsValid() {
		return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "cannot convert an invalid Value")
	}
	if v.t == t {
		return v, nil
	}

	switch {
	case t == field.FTBool:
		return Of(v.Bool()), nil
	case t == field.FTFloat32:
		return Of(float32(v.Float64())), nil
	case t == field.FTFloat64:
		return Of(v.Float64()), nil
	case field.IsSigned(t):
		return FromBits(t, uint64(v.Int64())), nil
	case field.IsUnsigned(t):
		return FromBits(t, v.Uint64()), nil
	}
	return Value{}, errors.Newf(errors.CatUser, errors.TypeUnsupportedType, "cannot convert %v to %v", v.t, t)
}

// Equal reports if both Values have the same type and value.
func (v Value) Equal(o Value) bool {
	return v.t == o.t && v.raw == o.raw
}

// String returns the value formatted as a string.
func (v Value) String() string {
	switch {
	case v.t == field.FTBool:
		return strconv.FormatBool(v.raw != 0)
	case v.t == field.FTFloat32:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case v.t == field.FTFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case field.IsSigned(v.t):
		return strconv.FormatInt(int64(v.raw), 10)
	case field.IsUnsigned(v.t):
		return strconv.FormatUint(v.raw, 10)
	}
	return "<invalid>"
}

// Parse parses s as a value of type t.
func Parse(t field.Type, s string) (Value, error) {
	switch {
	case t == field.FTBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return Of(b), nil
		}
		// Descriptions often write bools as numbers.
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "%q is not a bool", s)
		}
		return Of(n != 0), nil
	case field.IsFloat(t):
		f, err := strconv.ParseFloat(s, int(field.BitSize(t)))
		if err != nil {
			return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "%q is not a %v", s, t)
		}
		return Of(f).Convert(t)
	case field.IsSigned(t):
		n, err := strconv.ParseInt(s, 0, int(field.BitSize(t)))
		if err != nil {
			return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "%q is not a %v", s, t)
		}
		return FromBits(t, uint64(n)), nil
	case field.IsUnsigned(t):
		n, err := strconv.ParseUint(s, 0, int(field.BitSize(t)))
		if err != nil {
			return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "%q is not a %v", s, t)
		}
		return FromBits(t, n), nil
	}
	return Value{}, errors.Newf(errors.CatUser, errors.TypeUnsupportedType, "cannot parse a value of type %v", t)
}

// ParseAny parses s without knowing its type. It tries an unsigned integer, then a signed
// integer and last a floating point number, returning a 64 bit Value of the first that works.
func ParseAny(s string) (Value, error) {
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return Of(n), nil
	}
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return Of(n), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Of(f), nil
	}
	return Value{}, errors.Newf(errors.CatUser, errors.TypeParameter, "%q is not a number", s)
}
