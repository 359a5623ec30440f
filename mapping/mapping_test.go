package mapping

import (
	"testing"

	"github.com/bearlytools/ddlcodec/field"
)

func color() *EnumType {
	return &EnumType{
		Name:     "Color",
		DataType: TUint8,
		Elements: []EnumElement{{Name: "Red", Value: "1"}},
	}
}

func TestValidate(t *testing.T) {
	self := &Map{Name: "Self"}
	self.Fields = []*FieldDescr{{Name: "me", Struct: self}}

	tests := []struct {
		desc    string
		m       *Map
		wantErr bool
	}{
		{desc: "nil map", m: nil, wantErr: true},
		{
			desc: "valid",
			m: &Map{
				Name: "Valid",
				Fields: []*FieldDescr{
					{Name: "count", DataType: TUint16},
					{Name: "items", DataType: TInt32, ArraySize: Ref("count")},
					{Name: "kind", Enum: color(), Constant: "Red"},
					{Name: "sub", Struct: &Map{Name: "Sub", Fields: []*FieldDescr{{Name: "x", DataType: TUint8}}}},
				},
			},
		},
		{
			desc:    "no type",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a"}}},
			wantErr: true,
		},
		{
			desc:    "two types",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", DataType: TUint8, Enum: color()}}},
			wantErr: true,
		},
		{
			desc:    "non scalar data type",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", DataType: &DataType{Name: "s", Type: field.FTStruct}}}},
			wantErr: true,
		},
		{
			desc:    "nil field",
			m:       &Map{Name: "M", Fields: []*FieldDescr{nil}},
			wantErr: true,
		},
		{
			desc:    "unnamed field",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{DataType: TUint8}}},
			wantErr: true,
		},
		{
			desc: "duplicate field",
			m: &Map{Name: "M", Fields: []*FieldDescr{
				{Name: "a", DataType: TUint8},
				{Name: "a", DataType: TUint8},
			}},
			wantErr: true,
		},
		{
			desc:    "array size is not a field",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", DataType: TUint8, ArraySize: Ref("n")}}},
			wantErr: true,
		},
		{
			desc: "array size after the array",
			m: &Map{Name: "M", Fields: []*FieldDescr{
				{Name: "a", DataType: TUint8, ArraySize: Ref("n")},
				{Name: "n", DataType: TUint8},
			}},
			wantErr: true,
		},
		{
			desc: "array size is an array",
			m: &Map{Name: "M", Fields: []*FieldDescr{
				{Name: "n", DataType: TUint8, ArraySize: Fixed(2)},
				{Name: "a", DataType: TUint8, ArraySize: Ref("n")},
			}},
			wantErr: true,
		},
		{
			desc:    "constant of a data type",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", DataType: TUint8, Constant: "Red"}}},
			wantErr: true,
		},
		{
			desc:    "constant is not an element",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", Enum: color(), Constant: "Blue"}}},
			wantErr: true,
		},
		{
			desc:    "field alignment not a power of 2",
			m:       &Map{Name: "M", Fields: []*FieldDescr{{Name: "a", DataType: TUint8, Alignment: 3}}},
			wantErr: true,
		},
		{
			desc:    "struct alignment not a power of 2",
			m:       &Map{Name: "M", Alignment: 6, Fields: []*FieldDescr{{Name: "a", DataType: TUint8}}},
			wantErr: true,
		},
		{desc: "struct contains itself", m: self, wantErr: true},
	}

	for _, test := range tests {
		err := test.m.Validate()
		switch {
		case err == nil && test.wantErr:
			t.Errorf("TestValidate(%s): got err == nil, want err != nil", test.desc)
		case err != nil && !test.wantErr:
			t.Errorf("TestValidate(%s): got err == %s, want err == nil", test.desc, err)
		}
	}
}

func TestArraySize(t *testing.T) {
	tests := []struct {
		desc        string
		a           ArraySize
		wantSize    uint64
		wantDynamic bool
	}{
		{desc: "zero value is a single element", a: ArraySize{}, wantSize: 1},
		{desc: "fixed", a: Fixed(4), wantSize: 4},
		{desc: "dynamic", a: Ref("n"), wantSize: 0, wantDynamic: true},
	}

	for _, test := range tests {
		if got := test.a.Size(); got != test.wantSize {
			t.Errorf("TestArraySize(%s): Size() got %d, want %d", test.desc, got, test.wantSize)
		}
		if got := test.a.IsDynamic(); got != test.wantDynamic {
			t.Errorf("TestArraySize(%s): IsDynamic() got %v, want %v", test.desc, got, test.wantDynamic)
		}
	}
}

func TestVersion(t *testing.T) {
	if V30.AlignsStructs() {
		t.Errorf("TestVersion: 3.0 aligns structs")
	}
	if !V40.AlignsStructs() || !V41.AlignsStructs() {
		t.Errorf("TestVersion: 4.x does not align structs")
	}
	if V41.String() != "4.1" {
		t.Errorf("TestVersion: got %s, want 4.1", V41)
	}
}
