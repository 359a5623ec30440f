package binary

import (
	"math"
	"testing"
)

func TestGetPut(t *testing.T) {
	b := make([]byte, 8)

	Put(b, Big, int16(-2))
	if b[0] != 0xFF || b[1] != 0xFE {
		t.Fatalf("TestGetPut(int16 big): got % x, want ff fe", b[:2])
	}
	if got := Get[int16](b, Big); got != -2 {
		t.Fatalf("TestGetPut(int16 big): got %d, want -2", got)
	}

	Put(b, Little, uint32(0x01020304))
	if b[0] != 0x04 || b[3] != 0x01 {
		t.Fatalf("TestGetPut(uint32 little): got % x", b[:4])
	}
	if got := Get[uint32](b, Little); got != 0x01020304 {
		t.Fatalf("TestGetPut(uint32 little): got %x", got)
	}

	Put(b, Native, int64(math.MinInt64))
	if got := Get[int64](b, Native); got != math.MinInt64 {
		t.Fatalf("TestGetPut(int64 native): got %d", got)
	}

	Put(b, Little, int8(-1))
	if got := Get[int8](b, Little); got != -1 {
		t.Fatalf("TestGetPut(int8): got %d", got)
	}
}

func TestUint(t *testing.T) {
	tests := []struct {
		desc string
		size int
		big  bool
		v    uint64
		want []byte
	}{
		{desc: "3 bytes little", size: 3, v: 0x0A0B0C, want: []byte{0x0C, 0x0B, 0x0A}},
		{desc: "3 bytes big", size: 3, big: true, v: 0x0A0B0C, want: []byte{0x0A, 0x0B, 0x0C}},
		{desc: "truncated", size: 1, big: true, v: 0x0102, want: []byte{0x02}},
		{desc: "8 bytes big", size: 8, big: true, v: 0x0102030405060708, want: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, test := range tests {
		b := make([]byte, test.size)
		PutUint(b, test.big, test.v)
		for i := range b {
			if b[i] != test.want[i] {
				t.Errorf("TestUint(%s): PutUint() got % x, want % x", test.desc, b, test.want)
				break
			}
		}
		want := test.v
		if test.size < 8 {
			want &= 1<<(8*test.size) - 1
		}
		if got := Uint(b, test.big); got != want {
			t.Errorf("TestUint(%s): Uint() got %x, want %x", test.desc, got, want)
		}
	}
}
