package layout

import "testing"

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, align, want uint64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 32, 32},
		{33, 32, 64},
		{7, 0, 7},
		{7, 1, 7},
	}

	for _, test := range tests {
		if got := AlignUp(test.v, test.align); got != test.want {
			t.Errorf("TestAlignUp(%d, %d): got %d, want %d", test.v, test.align, got, test.want)
		}
	}
}

func TestEnds(t *testing.T) {
	e := Element{
		Serialized:   Serialized{BitOffset: 4, BitSize: 12},
		Deserialized: Deserialized{BitOffset: 32, BitSize: 64},
	}
	if e.Serialized.End() != 16 || e.Deserialized.End() != 96 {
		t.Errorf("TestEnds: got %d and %d, want 16 and 96", e.Serialized.End(), e.Deserialized.End())
	}
	if e.Category() != 0 || e.IsStruct() {
		t.Errorf("TestEnds: an Element without a type has a category")
	}
}
