package codec

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/internal/testdesc"
	"github.com/bearlytools/ddlcodec/mapping"
	"github.com/bearlytools/ddlcodec/value"
)

func mustFactory(t *testing.T, m *mapping.Map) *Factory {
	t.Helper()
	f := NewFactory(m)
	if err := f.Err(); err != nil {
		t.Fatalf("NewFactory(%s): %s", m.Name, err)
	}
	return f
}

func collect(t *testing.T, d *Decoder) map[string]string {
	t.Helper()
	m := map[string]string{}
	for leaf, err := range d.Leaves() {
		if err != nil {
			t.Fatalf("Leaves(): %s", err)
		}
		m[leaf.Name] = leaf.Value.String()
	}
	return m
}

func TestStaticRecord(t *testing.T) {
	f := mustFactory(t, testdesc.Mixed())
	if f.ElementCount() != 14 {
		t.Errorf("TestStaticRecord: ElementCount() got %d, want 14", f.ElementCount())
	}

	buf := make([]byte, f.StaticBufferSize(Serialized))
	c, err := f.MakeCodec(buf, Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(true); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.StringByName("color"); got != "Green" {
		t.Errorf("TestStaticRecord: default color got %q, want Green", got)
	}

	if err := c.SetValueByName("points[1].y", value.Of(int16(-300))); err != nil {
		t.Fatal(err)
	}
	if err := c.SetStringByName("small", "0xfff"); err != nil {
		t.Fatal(err)
	}
	idx := index.New(index.Field(8))
	if err := c.SetRaw(&idx, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	v, err := c.ValueByName("points[1].y")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != -300 {
		t.Errorf("TestStaticRecord: points[1].y got %v, want -300", v)
	}
	if s, _ := c.StringByName("small"); s != "4095" {
		t.Errorf("TestStaticRecord: small got %s, want 4095", s)
	}
	raw := make([]byte, 3)
	if err := c.Raw(&idx, raw); err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare([]byte{1, 2, 3}, raw); diff != "" {
		t.Errorf("TestStaticRecord: Raw(): -want/+got:\n%s", diff)
	}
	last, err := c.LeafValue(13)
	if err != nil {
		t.Fatal(err)
	}
	if last.Int64() != 3 {
		t.Errorf("TestStaticRecord: LeafValue(13) got %v, want 3", last)
	}
}

func TestTransform(t *testing.T) {
	f := mustFactory(t, testdesc.Mixed())
	buf := make([]byte, f.StaticBufferSize(Serialized))
	c, err := f.MakeCodec(buf, Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(true); err != nil {
		t.Fatal(err)
	}

	sets := map[string]string{
		"flag":        "true",
		"be":          "0x1234",
		"points[0].x": "-1",
		"big":         "-9000000000",
		"ratio":       "0.25",
		"precise":     "-2.5",
		"small":       "1000",
		"tail[2]":     "-7",
	}
	for name, s := range sets {
		if err := c.SetStringByName(name, s); err != nil {
			t.Fatalf("TestTransform: SetStringByName(%s): %s", name, err)
		}
	}
	want := collect(t, &c.Decoder)

	des, err := Transform(&c.Decoder, Deserialized)
	if err != nil {
		t.Fatal(err)
	}
	if uint64(len(des)) != f.StaticBufferSize(Deserialized) {
		t.Errorf("TestTransform: deserialized buffer has %d bytes, want %d", len(des), f.StaticBufferSize(Deserialized))
	}
	dec, err := f.MakeDecoder(des, Deserialized)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(want, collect(t, dec)); diff != "" {
		t.Errorf("TestTransform: -want/+got:\n%s", diff)
	}

	back, err := Transform(dec, Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(buf, back); diff != "" {
		t.Errorf("TestTransform: round trip: -want/+got:\n%s", diff)
	}
}

func TestDynamicRecord(t *testing.T) {
	f := mustFactory(t, testdesc.CountItems())
	if f.StaticBufferSize(Serialized) != 4 {
		t.Fatalf("TestDynamicRecord: StaticBufferSize() got %d, want 4", f.StaticBufferSize(Serialized))
	}

	head := make([]byte, 4)
	sc, err := f.MakeStaticCodec(head, Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.SetValueByName("count", value.Of(uint32(3))); err != nil {
		t.Fatal(err)
	}

	buf := append(head, make([]byte, 12)...)
	c, err := f.MakeCodec(buf, Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if c.BufferSize() != 16 || c.LeafCount() != 4 {
		t.Errorf("TestDynamicRecord: got %d bytes and %d leaves, want 16 and 4", c.BufferSize(), c.LeafCount())
	}
	if err := c.SetValueByName("items[2]", value.Of(int32(-7))); err != nil {
		t.Fatal(err)
	}
	v, err := c.ValueByName("items[2]")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != -7 {
		t.Errorf("TestDynamicRecord: items[2] got %v, want -7", v)
	}
	if f.ElementCount() != 1 {
		t.Errorf("TestDynamicRecord: the Factory changed, ElementCount() got %d, want 1", f.ElementCount())
	}

	des, err := Transform(&c.Decoder, Deserialized)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.MakeDecoder(des, Deserialized)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(collect(t, &c.Decoder), collect(t, dec)); diff != "" {
		t.Errorf("TestDynamicRecord: Transform(): -want/+got:\n%s", diff)
	}
}

func TestRefresh(t *testing.T) {
	f := mustFactory(t, testdesc.CountItems())
	c, err := f.MakeCodec(make([]byte, 16), Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if c.LeafCount() != 1 {
		t.Fatalf("TestRefresh: LeafCount() got %d, want 1", c.LeafCount())
	}
	if _, err := c.ValueByName("items[0]"); err == nil {
		t.Errorf("TestRefresh: items[0] of an empty array: got err == nil, want err != nil")
	}

	if err := c.SetValueByName("count", value.Of(uint32(2))); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if c.LeafCount() != 3 || c.BufferSize() != 12 {
		t.Errorf("TestRefresh: got %d leaves and %d bytes, want 3 and 12", c.LeafCount(), c.BufferSize())
	}
	if err := c.SetValueByName("items[1]", value.Of(int32(5))); err != nil {
		t.Errorf("TestRefresh: SetValueByName(items[1]): %s", err)
	}
}

func TestConstants(t *testing.T) {
	kind := testdesc.Enum("kind", testdesc.Color())
	kind.Constant = "Blue"
	f := mustFactory(t, testdesc.Map("Tagged", kind, testdesc.Field("x", mapping.TUint8)))

	for _, rep := range []Representation{Deserialized, Serialized} {
		c, err := f.MakeCodec(make([]byte, f.StaticBufferSize(rep)), rep)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Reset(false); err != nil {
			t.Fatal(err)
		}
		if got, _ := c.StringByName("kind"); got != "Blue" {
			t.Errorf("TestConstants(%v): got %q, want Blue", rep, got)
		}
	}
}

func TestLeavesStop(t *testing.T) {
	f := mustFactory(t, testdesc.Mixed())
	dec, err := f.MakeDecoder(make([]byte, f.StaticBufferSize(Deserialized)), Deserialized)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for leaf := range dec.Leaves() {
		names = append(names, leaf.Name)
		if len(names) == 2 {
			break
		}
	}
	if diff := pretty.Compare([]string{"flag", "color"}, names); diff != "" {
		t.Errorf("TestLeavesStop: -want/+got:\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	countItems := mustFactory(t, testdesc.CountItems())
	nested := mustFactory(t, testdesc.Nested())

	tests := []struct {
		desc string
		do   func() error
		want error
	}{
		{
			desc: "factory without a description",
			do: func() error {
				_, err := NewFactory(nil).MakeDecoder(make([]byte, 8), Serialized)
				return err
			},
			want: errors.ErrNotInitialized,
		},
		{
			desc: "buffer smaller than the static part",
			do: func() error {
				_, err := countItems.MakeStaticDecoder(make([]byte, 3), Serialized)
				return err
			},
			want: errors.ErrBufferTooSmall,
		},
		{
			desc: "buffer smaller than the resolved record",
			do: func() error {
				_, err := countItems.MakeDecoder([]byte{3, 0, 0, 0}, Serialized)
				return err
			},
			want: errors.ErrBufferTooSmall,
		},
		{
			desc: "array size larger than the buffer",
			do: func() error {
				_, err := countItems.MakeDecoder([]byte{0xFF, 0xFF, 0xFF, 0xFF}, Serialized)
				return err
			},
			want: errors.ErrBufferTooSmall,
		},
		{
			desc: "elements of a struct array with different sizes",
			do: func() error {
				buf := []byte{0, 2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
				_, err := nested.MakeDecoder(buf, Serialized)
				return err
			},
			want: errors.ErrInconsistentDynamicSize,
		},
		{
			desc: "unknown field",
			do: func() error {
				dec, err := countItems.MakeDecoder(make([]byte, 4), Serialized)
				if err != nil {
					return err
				}
				_, err = dec.ValueByName("nope")
				return err
			},
			want: errors.ErrIndexNotFound,
		},
		{
			desc: "array position out of range",
			do: func() error {
				c, err := countItems.MakeCodec([]byte{1, 0, 0, 0, 0, 0, 0, 0}, Serialized)
				if err != nil {
					return err
				}
				return c.SetValueByName("items[1]", value.Of(int32(1)))
			},
			want: errors.ErrArrayPositionOutOfRange,
		},
		{
			desc: "bad name",
			do: func() error {
				dec, err := countItems.MakeDecoder(make([]byte, 4), Serialized)
				if err != nil {
					return err
				}
				_, err = dec.StringByName("items[x]")
				return err
			},
			want: errors.ErrParameter,
		},
	}

	for _, test := range tests {
		if err := test.do(); !errors.Is(err, test.want) {
			t.Errorf("TestErrors(%s): got err %v, want %v", test.desc, err, test.want)
		}
	}
}
