package accessor

import (
	ibinary "github.com/bearlytools/ddlcodec/internal/binary"
	"github.com/bearlytools/ddlcodec/internal/bits"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/mapping"
	"github.com/bearlytools/ddlcodec/value"
)

// Serialized is the Accessor of the serialized representation. Fields start at any bit and
// only their used bits are stored.
//
// Bits are numbered from the least significant bit of each byte. A little endian field is
// stored least significant bit first. A big endian field of n bytes is stored most significant
// byte first: the first byte only holds the bits of the value above the last n-1 full bytes,
// followed by the other bytes. For fields that are a multiple of 8 bits, this is the usual
// big endian layout.
//
// Values are zero extended when read and truncated to the used bits when written.
type Serialized struct{}

// Get implements Accessor.Get().
func (Serialized) Get(buf []byte, l layout.Element) (value.Value, error) {
	t, err := scalarType(l)
	if err != nil {
		return value.Value{}, err
	}
	s := l.Serialized
	if !bits.Fits(buf, s.BitOffset, s.UsedBitSize) {
		return value.Value{}, tooSmall("buffer", uint64(len(buf)), bytesOf(s.BitOffset+s.UsedBitSize))
	}
	return value.FromBits(t, readBits(buf, s.BitOffset, s.UsedBitSize, l.ByteOrder)), nil
}

// Set implements Accessor.Set().
func (Serialized) Set(buf []byte, l layout.Element, v value.Value) error {
	t, err := scalarType(l)
	if err != nil {
		return err
	}
	v, err = v.Convert(t)
	if err != nil {
		return err
	}
	s := l.Serialized
	if !bits.Fits(buf, s.BitOffset, s.UsedBitSize) {
		return tooSmall("buffer", uint64(len(buf)), bytesOf(s.BitOffset+s.UsedBitSize))
	}
	writeBits(buf, s.BitOffset, s.UsedBitSize, l.ByteOrder, v.Bits())
	return nil
}

// GetRaw implements Accessor.GetRaw(). Every element of l is decoded into dst in its
// deserialized form, so dst is laid out like the field in the deserialized representation.
func (Serialized) GetRaw(buf []byte, l layout.Element, dst []byte) error {
	t, err := scalarType(l)
	if err != nil {
		return err
	}
	size, stride := RawSize(l), l.Deserialized.AlignedTypeBitSize/8
	if size > uint64(len(dst)) {
		return tooSmall("destination", uint64(len(dst)), size)
	}
	s := l.Serialized
	if !bits.Fits(buf, s.BitOffset, s.BitSize) {
		return tooSmall("buffer", uint64(len(buf)), bytesOf(s.End()))
	}

	n := nativeSize(t)
	for i := uint64(0); i < l.ArraySize; i++ {
		raw := readBits(buf, s.BitOffset+i*s.TypeBitSize, s.UsedBitSize, l.ByteOrder)
		putNative(dst[i*stride:i*stride+n], value.FromBits(t, raw).Bits())
	}
	return nil
}

// SetRaw implements Accessor.SetRaw(). src is laid out like the field in the deserialized
// representation.
func (Serialized) SetRaw(buf []byte, l layout.Element, src []byte) error {
	t, err := scalarType(l)
	if err != nil {
		return err
	}
	size, stride := RawSize(l), l.Deserialized.AlignedTypeBitSize/8
	if size > uint64(len(src)) {
		return tooSmall("source", uint64(len(src)), size)
	}
	s := l.Serialized
	if !bits.Fits(buf, s.BitOffset, s.BitSize) {
		return tooSmall("buffer", uint64(len(buf)), bytesOf(s.End()))
	}

	n := nativeSize(t)
	for i := uint64(0); i < l.ArraySize; i++ {
		raw := getNative(src[i*stride : i*stride+n])
		writeBits(buf, s.BitOffset+i*s.TypeBitSize, s.UsedBitSize, l.ByteOrder, raw)
	}
	return nil
}

func bytesOf(n uint64) uint64 {
	return (n + 7) / 8
}

// readBits reads a count bit number at bit offset off of buf in byte order bo.
func readBits(buf []byte, off, count uint64, bo mapping.ByteOrder) uint64 {
	if bo != mapping.BigEndian || count <= 8 {
		return bits.Read(buf, off, count)
	}

	n := bytesOf(count)
	first := count - 8*(n-1)
	var tmp [8]byte
	tmp[0] = byte(bits.Read(buf, off, first))
	for i := uint64(1); i < n; i++ {
		tmp[i] = byte(bits.Read(buf, off+first+8*(i-1), 8))
	}
	return ibinary.Uint(tmp[:n], true)
}

// writeBits writes the lowest count bits of v at bit offset off of buf in byte order bo.
func writeBits(buf []byte, off, count uint64, bo mapping.ByteOrder, v uint64) {
	if bo != mapping.BigEndian || count <= 8 {
		bits.Write(buf, off, count, v)
		return
	}

	n := bytesOf(count)
	first := count - 8*(n-1)
	var tmp [8]byte
	ibinary.PutUint(tmp[:n], true, v)
	bits.Write(buf, off, first, uint64(tmp[0]))
	for i := uint64(1); i < n; i++ {
		bits.Write(buf, off+first+8*(i-1), 8, uint64(tmp[i]))
	}
}
