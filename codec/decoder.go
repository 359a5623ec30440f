package codec

import (
	"iter"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/accessor"
	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/value"
)

// Decoder reads the fields of a record in a buffer. The buffer is borrowed: it must not change
// size while the Decoder is used and it is not kept by anything the Decoder returns.
type Decoder struct {
	access *access.StructAccess
	buf    []byte
	rep    Representation
	acc    accessor.Accessor
}

func newDecoder(a *access.StructAccess, buf []byte, r Representation) (*Decoder, error) {
	if size := a.BufferSize(r); uint64(len(buf)) < size {
		return nil, errors.Newf(errors.CatUser, errors.TypeBufferTooSmall, "buffer has %d bytes, record %s needs %d", len(buf), a.StructName(), size)
	}
	return &Decoder{access: a, buf: buf, rep: r, acc: accessor.For(r)}, nil
}

// Access is the layout tree the Decoder uses. For dynamic records, it is resolved against the
// buffer.
func (d *Decoder) Access() *access.StructAccess {
	return d.access
}

// BufferSize is the number of bytes of the buffer the record uses.
func (d *Decoder) BufferSize() uint64 {
	return d.access.BufferSize(d.rep)
}

// Representation is the representation of the buffer.
func (d *Decoder) Representation() Representation {
	return d.rep
}

// LeafCount is the number of scalar leaves of the record.
func (d *Decoder) LeafCount() uint64 {
	return d.access.LeafCount()
}

func (d *Decoder) layoutByName(name string) (layout.Element, error) {
	named, err := index.ParseNamed(name)
	if err != nil {
		return layout.Element{}, err
	}
	_, l, err := d.access.ResolveNamed(named)
	return l, err
}

// Value returns the value of the field at idx.
func (d *Decoder) Value(idx *index.Index) (value.Value, error) {
	l, err := d.access.Resolve(idx)
	if err != nil {
		return value.Value{}, err
	}
	return d.acc.Get(d.buf, l)
}

// ValueByName returns the value of the field called name, like "a.b[3].c".
func (d *Decoder) ValueByName(name string) (value.Value, error) {
	l, err := d.layoutByName(name)
	if err != nil {
		return value.Value{}, err
	}
	return d.acc.Get(d.buf, l)
}

// LeafValue returns the value of leaf number n.
func (d *Decoder) LeafValue(n uint64) (value.Value, error) {
	_, l, err := d.access.ResolveLeaf(n)
	if err != nil {
		return value.Value{}, err
	}
	return d.acc.Get(d.buf, l)
}

// String returns the value of the field at idx as a string. Enum values are returned as the
// name of the enum element.
func (d *Decoder) String(idx *index.Index) (string, error) {
	l, err := d.access.Resolve(idx)
	if err != nil {
		return "", err
	}
	return accessor.GetString(d.acc, d.buf, l)
}

// StringByName is like String() for the field called name.
func (d *Decoder) StringByName(name string) (string, error) {
	l, err := d.layoutByName(name)
	if err != nil {
		return "", err
	}
	return accessor.GetString(d.acc, d.buf, l)
}

// Raw copies the field at idx into dst in its deserialized form. dst must be large enough to
// hold the field in the deserialized representation.
func (d *Decoder) Raw(idx *index.Index, dst []byte) error {
	l, err := d.access.Resolve(idx)
	if err != nil {
		return err
	}
	return d.acc.GetRaw(d.buf, l, dst)
}

// Leaf is a scalar of a record.
type Leaf struct {
	// Index is the structural index of the leaf.
	Index index.Index
	// Name is the full name of the leaf, like "a.b[3].c".
	Name  string
	Value value.Value
}

// Leaves iterates over every leaf of the record in order. Iteration stops after the first error.
func (d *Decoder) Leaves() iter.Seq2[Leaf, error] {
	return func(yield func(Leaf, error) bool) {
		for idx, l := range d.access.Leaves() {
			v, err := d.acc.Get(d.buf, l)
			if err != nil {
				yield(Leaf{Index: idx}, err)
				return
			}
			name, err := d.access.Name(idx)
			if err != nil {
				yield(Leaf{Index: idx}, err)
				return
			}
			if !yield(Leaf{Index: idx, Name: name, Value: v}, nil) {
				return
			}
		}
	}
}
