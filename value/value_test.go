package value

import (
	"math"
	"testing"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
)

func TestOfAndBits(t *testing.T) {
	tests := []struct {
		desc     string
		v        Value
		wantType field.Type
		wantBits uint64
		wantStr  string
	}{
		{desc: "bool", v: Of(true), wantType: field.FTBool, wantBits: 1, wantStr: "true"},
		{desc: "int8 negative", v: Of(int8(-1)), wantType: field.FTInt8, wantBits: 0xFF, wantStr: "-1"},
		{desc: "int16", v: Of(int16(-2)), wantType: field.FTInt16, wantBits: 0xFFFE, wantStr: "-2"},
		{desc: "uint32", v: Of(uint32(7)), wantType: field.FTUint32, wantBits: 7, wantStr: "7"},
		{desc: "uint64 max", v: Of(uint64(math.MaxUint64)), wantType: field.FTUint64, wantBits: math.MaxUint64, wantStr: "18446744073709551615"},
		{desc: "float32", v: Of(float32(1.5)), wantType: field.FTFloat32, wantBits: uint64(math.Float32bits(1.5)), wantStr: "1.5"},
		{desc: "float64", v: Of(-0.25), wantType: field.FTFloat64, wantBits: math.Float64bits(-0.25), wantStr: "-0.25"},
	}

	for _, test := range tests {
		if test.v.Type() != test.wantType {
			t.Errorf("TestOfAndBits(%s): Type() got %v, want %v", test.desc, test.v.Type(), test.wantType)
		}
		if test.v.Bits() != test.wantBits {
			t.Errorf("TestOfAndBits(%s): Bits() got %x, want %x", test.desc, test.v.Bits(), test.wantBits)
		}
		if test.v.String() != test.wantStr {
			t.Errorf("TestOfAndBits(%s): String() got %q, want %q", test.desc, test.v.String(), test.wantStr)
		}
		if got := FromBits(test.v.Type(), test.v.Bits()); !got.Equal(test.v) {
			t.Errorf("TestOfAndBits(%s): FromBits(Bits()) got %v, want %v", test.desc, got, test.v)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		desc string
		v    Value
		to   field.Type
		want Value
		err  bool
	}{
		{desc: "uint to int8 truncates", v: Of(uint32(0x1FF)), to: field.FTInt8, want: Of(int8(-1))},
		{desc: "negative to uint16", v: Of(int64(-1)), to: field.FTUint16, want: Of(uint16(0xFFFF))},
		{desc: "float to int", v: Of(3.9), to: field.FTInt32, want: Of(int32(3))},
		{desc: "int to float", v: Of(int8(-3)), to: field.FTFloat32, want: Of(float32(-3))},
		{desc: "number to bool", v: Of(uint8(2)), to: field.FTBool, want: Of(true)},
		{desc: "same type", v: Of(uint8(2)), to: field.FTUint8, want: Of(uint8(2))},
		{desc: "struct", v: Of(uint8(2)), to: field.FTStruct, err: true},
		{desc: "invalid", v: Value{}, to: field.FTUint8, err: true},
	}

	for _, test := range tests {
		got, err := test.v.Convert(test.to)
		switch {
		case err == nil && test.err:
			t.Errorf("TestConvert(%s): got err == nil, want err != nil", test.desc)
			continue
		case err != nil && !test.err:
			t.Errorf("TestConvert(%s): got err == %s, want err == nil", test.desc, err)
			continue
		case err != nil:
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("TestConvert(%s): got %v(%v), want %v(%v)", test.desc, got, got.Type(), test.want, test.want.Type())
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		desc string
		t    field.Type
		s    string
		want Value
		err  bool
	}{
		{desc: "bool word", t: field.FTBool, s: "true", want: Of(true)},
		{desc: "bool number", t: field.FTBool, s: "0", want: Of(false)},
		{desc: "hex uint", t: field.FTUint16, s: "0x10", want: Of(uint16(16))},
		{desc: "negative int", t: field.FTInt8, s: "-128", want: Of(int8(-128))},
		{desc: "int out of range", t: field.FTInt8, s: "128", err: true},
		{desc: "float32", t: field.FTFloat32, s: "0.5", want: Of(float32(0.5))},
		{desc: "garbage", t: field.FTUint32, s: "abc", err: true},
	}

	for _, test := range tests {
		got, err := Parse(test.t, test.s)
		switch {
		case err == nil && test.err:
			t.Errorf("TestParse(%s): got err == nil, want err != nil", test.desc)
			continue
		case err != nil && !test.err:
			t.Errorf("TestParse(%s): got err == %s, want err == nil", test.desc, err)
			continue
		case err != nil:
			if !errors.Is(err, errors.ErrParameter) {
				t.Errorf("TestParse(%s): got err %v, want ErrParameter", test.desc, err)
			}
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("TestParse(%s): got %v, want %v", test.desc, got, test.want)
		}
	}
}

func TestParseAny(t *testing.T) {
	tests := []struct {
		s    string
		want Value
		err  bool
	}{
		{s: "42", want: Of(uint64(42))},
		{s: "-42", want: Of(int64(-42))},
		{s: "4.5", want: Of(4.5)},
		{s: "x", err: true},
	}

	for _, test := range tests {
		got, err := ParseAny(test.s)
		if (err != nil) != test.err {
			t.Errorf("TestParseAny(%s): got err == %v, want err == %v", test.s, err, test.err)
			continue
		}
		if err == nil && !got.Equal(test.want) {
			t.Errorf("TestParseAny(%s): got %v(%v), want %v(%v)", test.s, got, got.Type(), test.want, test.want.Type())
		}
	}
}
