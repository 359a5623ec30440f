// Package bits provides bit manipulation utilities over unsigned numbers and byte slices.
// This is not a replacement for math/bits.
//
// Bits inside a byte slice are numbered least-significant-bit first: bit 0 is the lowest bit
// of b[0], bit 8 is the lowest bit of b[1].
package bits

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Mask creates a mask for setting, getting and clearing a set of bits.
// start is the bit location you wish to start at and end is the bit you wish to end at (exclusive).
// Index starts at 0.  So Mask(1, 4) will create a mask that includes bits at location 1 to 3.
// If start >= end, this will panic.
func Mask[U constraints.Unsigned](start, end uint64) U {
	if start >= end {
		panic("start cannot be >= end")
	}
	width := end - start
	if width >= 64 {
		// Avoid shifting by 64 (illegal in Go)
		return U(^uint64(0) << start)
	}
	return U((uint64(1)<<width - 1) << start)
}

// ClearBits clears all bits from "from" until "to".
func ClearBits[U constraints.Unsigned](store U, from, to uint64) U {
	if from >= to {
		return store
	}
	return store &^ Mask[U](from, to)
}

// Truncate returns the lowest "count" bits of v.
func Truncate(v uint64, count uint64) uint64 {
	if count >= 64 {
		return v
	}
	if count == 0 {
		return 0
	}
	return v & Mask[uint64](0, count)
}

// Fits reports if the bit range [offset, offset+count) is inside of b.
func Fits(b []byte, offset, count uint64) bool {
	end := offset + count
	if end < offset {
		return false
	}
	return end <= uint64(len(b))*8
}

// Read reads "count" bits (up to 64) from b starting at bit "offset". The first bit read
// becomes the least significant bit of the result. The caller must check Fits().
func Read(b []byte, offset, count uint64) uint64 {
	if count > 64 {
		panic(fmt.Sprintf("bits.Read() cannot read %d bits into a uint64", count))
	}

	var val, got uint64
	for got < count {
		pos := offset + got
		byteIdx, bitIdx := pos/8, pos%8
		n := min(8-bitIdx, count-got)

		chunk := (uint64(b[byteIdx]) >> bitIdx) & (1<<n - 1)
		val |= chunk << got
		got += n
	}
	return val
}

// Write writes the lowest "count" bits (up to 64) of val into b starting at bit "offset".
// Bits outside of the range are left untouched. The caller must check Fits().
func Write(b []byte, offset, count uint64, val uint64) {
	if count > 64 {
		panic(fmt.Sprintf("bits.Write() cannot write %d bits from a uint64", count))
	}

	var put uint64
	for put < count {
		pos := offset + put
		byteIdx, bitIdx := pos/8, pos%8
		n := min(8-bitIdx, count-put)

		mask := byte((1<<n - 1) << bitIdx)
		b[byteIdx] = (b[byteIdx] &^ mask) | (byte((val>>put)<<bitIdx) & mask)
		put += n
	}
}

// Copy copies "count" bits from src at bit "srcOff" into dst at bit "dstOff". The caller must
// check Fits() on both slices.
func Copy(dst []byte, dstOff uint64, src []byte, srcOff uint64, count uint64) {
	if dstOff%8 == 0 && srcOff%8 == 0 && count%8 == 0 {
		copy(dst[dstOff/8:(dstOff+count)/8], src[srcOff/8:(srcOff+count)/8])
		return
	}
	for done := uint64(0); done < count; {
		n := min(64, count-done)
		Write(dst, dstOff+done, n, Read(src, srcOff+done, n))
		done += n
	}
}

// BytesInBinary renders bs as space separated groups of 8 bits, which is handy in test output.
func BytesInBinary(bs []byte) string {
	buff := strings.Builder{}
	for i, n := range bs {
		if i > 0 {
			buff.WriteByte(' ')
		}
		buff.WriteString(fmt.Sprintf("%08b", n))
	}
	return buff.String()
}
