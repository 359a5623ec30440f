package benchmark

import (
	"testing"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/codec"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/internal/testdesc"
	"github.com/bearlytools/ddlcodec/mapping"
	"github.com/bearlytools/ddlcodec/value"
)

func mixedCodec(b *testing.B, r codec.Representation) *codec.Codec {
	f := codec.NewFactory(testdesc.Mixed())
	if err := f.Err(); err != nil {
		b.Fatal(err)
	}
	c, err := f.MakeCodec(make([]byte, f.StaticBufferSize(r)), r)
	if err != nil {
		b.Fatal(err)
	}
	if err := c.Reset(true); err != nil {
		b.Fatal(err)
	}
	return c
}

// nestedBuffer is a serialized Nested record with n elements in both data arrays.
func nestedBuffer(n int) []byte {
	buf := make([]byte, 1+2*(2+n)+4)
	for _, off := range []int{1, 3 + n} {
		buf[off] = byte(n)
	}
	return buf
}

func BenchmarkNewFactory(b *testing.B) {
	m := testdesc.Mixed()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if f := codec.NewFactory(m); !f.IsValid() {
			b.Fatal(f.Err())
		}
	}
}

func BenchmarkValueByIndex(b *testing.B) {
	for _, r := range []codec.Representation{codec.Deserialized, codec.Serialized} {
		b.Run(r.String(), func(b *testing.B) {
			c := mixedCodec(b, r)
			idx := index.New(index.At(3, 1), index.Field(1))
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Value(&idx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkValueByName(b *testing.B) {
	c := mixedCodec(b, codec.Serialized)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.ValueByName("points[1].y"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSetValue(b *testing.B) {
	c := mixedCodec(b, codec.Serialized)
	idx := index.New(index.Field(7))
	v := value.Of(uint16(0xABC))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := c.SetValue(&idx, v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransform(b *testing.B) {
	c := mixedCodec(b, codec.Serialized)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Transform(&c.Decoder, codec.Deserialized); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMakeDecoderDynamic(b *testing.B) {
	f := codec.NewFactory(testdesc.Nested())
	if err := f.Err(); err != nil {
		b.Fatal(err)
	}
	buf := nestedBuffer(16)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := f.MakeDecoder(buf, codec.Serialized); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIsBinaryEqual(b *testing.B) {
	lhs := access.New(testdesc.AB())
	rhs := access.New(testdesc.Map("AB2", testdesc.Field("a", mapping.TUint8), testdesc.Field("b", mapping.TUint32)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := access.IsBinaryEqual(lhs, rhs); err != nil {
			b.Fatal(err)
		}
	}
}

func TestNestedBuffer(t *testing.T) {
	f := codec.NewFactory(testdesc.Nested())
	dec, err := f.MakeDecoder(nestedBuffer(3), codec.Serialized)
	if err != nil {
		t.Fatal(err)
	}
	if dec.LeafCount() != 10 {
		t.Errorf("TestNestedBuffer: got %d leaves, want 10", dec.LeafCount())
	}
}
