package accessor

import (
	"fmt"

	ibinary "github.com/bearlytools/ddlcodec/internal/binary"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/value"
)

// Deserialized is the Accessor of the deserialized representation. Every field is byte
// aligned and stored in the natural size of its type in host byte order.
type Deserialized struct{}

// byteRange returns the byte range of the first element of l.
func (Deserialized) byteRange(l layout.Element) (start, end uint64) {
	d := l.Deserialized
	if d.BitOffset%8 != 0 || d.TypeBitSize%8 != 0 || d.BitSize%8 != 0 {
		panic(fmt.Sprintf("bug: deserialized layout is not byte aligned: %s", l))
	}
	return d.BitOffset / 8, (d.BitOffset + d.TypeBitSize) / 8
}

// Get implements Accessor.Get().
func (d Deserialized) Get(buf []byte, l layout.Element) (value.Value, error) {
	t, err := scalarType(l)
	if err != nil {
		return value.Value{}, err
	}
	start, end := d.byteRange(l)
	if end > uint64(len(buf)) {
		return value.Value{}, tooSmall("buffer", uint64(len(buf)), end)
	}
	return value.FromBits(t, getNative(buf[start:end])), nil
}

// Set implements Accessor.Set().
func (d Deserialized) Set(buf []byte, l layout.Element, v value.Value) error {
	t, err := scalarType(l)
	if err != nil {
		return err
	}
	v, err = v.Convert(t)
	if err != nil {
		return err
	}
	start, end := d.byteRange(l)
	if end > uint64(len(buf)) {
		return tooSmall("buffer", uint64(len(buf)), end)
	}
	putNative(buf[start:end], v.Bits())
	return nil
}

// GetRaw implements Accessor.GetRaw(). It copies the bytes of the whole layout, which works for
// structs and arrays as well.
func (d Deserialized) GetRaw(buf []byte, l layout.Element, dst []byte) error {
	start, _ := d.byteRange(l)
	size := RawSize(l)
	if start+size > uint64(len(buf)) {
		return tooSmall("buffer", uint64(len(buf)), start+size)
	}
	if size > uint64(len(dst)) {
		return tooSmall("destination", uint64(len(dst)), size)
	}
	copy(dst, buf[start:start+size])
	return nil
}

// SetRaw implements Accessor.SetRaw().
func (d Deserialized) SetRaw(buf []byte, l layout.Element, src []byte) error {
	start, _ := d.byteRange(l)
	size := RawSize(l)
	if start+size > uint64(len(buf)) {
		return tooSmall("buffer", uint64(len(buf)), start+size)
	}
	if size > uint64(len(src)) {
		return tooSmall("source", uint64(len(src)), size)
	}
	copy(buf[start:start+size], src[:size])
	return nil
}

// getNative reads an unsigned number of len(b) bytes in host byte order.
func getNative(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(ibinary.Get[uint8](b, ibinary.Native))
	case 2:
		return uint64(ibinary.Get[uint16](b, ibinary.Native))
	case 4:
		return uint64(ibinary.Get[uint32](b, ibinary.Native))
	case 8:
		return ibinary.Get[uint64](b, ibinary.Native)
	}
	panic(fmt.Sprintf("bug: no native integer of %d bytes", len(b)))
}

// putNative is the reverse of getNative().
func putNative(b []byte, v uint64) {
	switch len(b) {
	case 1:
		ibinary.Put(b, ibinary.Native, uint8(v))
	case 2:
		ibinary.Put(b, ibinary.Native, uint16(v))
	case 4:
		ibinary.Put(b, ibinary.Native, uint32(v))
	case 8:
		ibinary.Put(b, ibinary.Native, v)
	default:
		panic(fmt.Sprintf("bug: no native integer of %d bytes", len(b)))
	}
}

// nativeSize is the number of bytes a scalar of type t has in the deserialized representation.
func nativeSize(t field.Type) uint64 {
	return field.BitSize(t) / 8
}
