// Package binary wraps the encoding/binary package in the standard library with generic integer
// access that honors a chosen byte order.
package binary

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Native is the byte order of the host. The deserialized representation always uses it.
var Native binary.ByteOrder = binary.NativeEndian

// Little and Big are the two explicit byte orders a serialized field can use.
var (
	Little binary.ByteOrder = binary.LittleEndian
	Big    binary.ByteOrder = binary.BigEndian
)

// Get gets any integer size from a []byte slice using byte order "order". len(b) must be at
// least the size of T.
func Get[T constraints.Integer](b []byte, order binary.ByteOrder) T {
	var r T // This is only used for type detection.
	switch any(r).(type) {
	case int8:
		return T(int8(b[0]))
	case uint8:
		return T(b[0])
	case int16:
		return T(int16(order.Uint16(b)))
	case uint16:
		return T(order.Uint16(b))
	case int32:
		return T(int32(order.Uint32(b)))
	case uint32:
		return T(order.Uint32(b))
	case int64:
		return T(int64(order.Uint64(b)))
	case uint64:
		return T(order.Uint64(b))
	}
	panic(fmt.Sprintf("unsupported type that passed the type constraint %T", r))
}

// Put puts any integer size into a []byte slice using byte order "order". len(b) must be at
// least the size of T.
func Put[T constraints.Integer](b []byte, order binary.ByteOrder, v T) {
	switch any(v).(type) {
	case int8, uint8:
		b[0] = byte(v)
	case int16, uint16:
		order.PutUint16(b, uint16(v))
	case int32, uint32:
		order.PutUint32(b, uint32(v))
	case int64, uint64:
		order.PutUint64(b, uint64(v))
	default:
		panic(fmt.Sprintf("unsupported type that passed the type constraint %T", v))
	}
}

// Uint reads an unsigned number of len(b) bytes (1 to 8). When big is set, b[0] holds the most
// significant byte, otherwise b[0] holds the least significant byte.
func Uint(b []byte, big bool) uint64 {
	if len(b) > 8 {
		panic(fmt.Sprintf("binary.Uint() cannot decode %d bytes into a uint64", len(b)))
	}
	var v uint64
	for i := range b {
		if big {
			v = v<<8 | uint64(b[i])
			continue
		}
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// PutUint is the reverse of Uint(). Bytes of v that don't fit in b are discarded.
func PutUint(b []byte, big bool, v uint64) {
	if len(b) > 8 {
		panic(fmt.Sprintf("binary.PutUint() cannot encode a uint64 into %d bytes", len(b)))
	}
	n := len(b)
	for i := range b {
		if big {
			b[n-1-i] = byte(v >> (8 * i))
			continue
		}
		b[i] = byte(v >> (8 * i))
	}
}
