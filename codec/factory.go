// Package codec binds a layout tree to buffers. A Factory is built once per record description
// and makes Decoders (read only) and Codecs (read/write) for buffers in either representation.
//
// Usage:
//
//	f := codec.NewFactory(desc)
//	if err := f.Err(); err != nil {
//		// handle error
//	}
//	dec, err := f.MakeDecoder(buf, codec.Serialized)
//	if err != nil {
//		// handle error
//	}
//	v, err := dec.ValueByName("header.size")
package codec

import (
	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/accessor"
	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/internal/logging"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/mapping"
)

// Representation is one of the two forms a record can have in a buffer.
type Representation = access.Representation

const (
	// Deserialized is the native, alignment padded representation in host byte order.
	Deserialized = access.Deserialized
	// Serialized is the bit packed representation with a byte order per field.
	Serialized = access.Serialized
)

type config struct {
	accessOpts []access.Option
}

// Option configures a Factory.
type Option func(*config)

// WithRegistry sets the Registry holding the type metadata. Factories sharing a Registry share
// the metadata of the types they have in common.
func WithRegistry(r *layout.Registry) Option {
	return func(c *config) {
		c.accessOpts = append(c.accessOpts, access.WithRegistry(r))
	}
}

// WithVersion overrides the description language version.
func WithVersion(v mapping.Version) Option {
	return func(c *config) {
		c.accessOpts = append(c.accessOpts, access.WithVersion(v))
	}
}

// Factory makes Decoders and Codecs for a record description. It can be used concurrently.
type Factory struct {
	access *access.StructAccess
}

// NewFactory creates a Factory for m. It never fails, check Err() before using it.
func NewFactory(m *mapping.Map, options ...Option) *Factory {
	conf := &config{}
	for _, o := range options {
		o(conf)
	}
	return &Factory{access: access.New(m, conf.accessOpts...)}
}

// Err returns the error that prevented the Factory from being built.
func (f *Factory) Err() error {
	return f.access.Err()
}

// IsValid reports if the Factory can be used.
func (f *Factory) IsValid() bool {
	return f.access.IsValid()
}

// Access returns the layout tree of the description.
func (f *Factory) Access() *access.StructAccess {
	return f.access
}

// StaticBufferSize is the size of a buffer holding the record in representation r when every
// dynamic array is empty.
func (f *Factory) StaticBufferSize(r Representation) uint64 {
	return f.access.StaticBufferSize(r)
}

// ElementCount is the number of scalar leaves of the record when every dynamic array is empty.
// Leaves after a dynamic field are included, but they are only reachable through a Decoder.
func (f *Factory) ElementCount() uint64 {
	return f.access.LeafCount()
}

// MakeDecoder returns a Decoder for buf, which holds a record in representation r. The sizes
// of dynamic arrays are read from buf.
func (f *Factory) MakeDecoder(buf []byte, r Representation) (*Decoder, error) {
	a, err := resolve(f.access, buf, r)
	if err != nil {
		return nil, err
	}
	return newDecoder(a, buf, r)
}

// MakeCodec returns a Codec for buf, which holds a record in representation r. The sizes of
// dynamic arrays are read from buf.
func (f *Factory) MakeCodec(buf []byte, r Representation) (*Codec, error) {
	a, err := resolve(f.access, buf, r)
	if err != nil {
		return nil, err
	}
	d, err := newDecoder(a, buf, r)
	if err != nil {
		return nil, err
	}
	return &Codec{Decoder: *d, base: f.access}, nil
}

// MakeStaticDecoder returns a Decoder that ignores the content of dynamic arrays, so they and
// every field after them cannot be read. buf must be at least StaticBufferSize(r) bytes.
func (f *Factory) MakeStaticDecoder(buf []byte, r Representation) (*Decoder, error) {
	if err := f.Err(); err != nil {
		return nil, err
	}
	return newDecoder(f.access, buf, r)
}

// MakeStaticCodec is like MakeStaticDecoder() for a Codec. It is mostly used to write the
// static part of a record, such as the array sizes, before making a Codec for the whole record.
func (f *Factory) MakeStaticCodec(buf []byte, r Representation) (*Codec, error) {
	d, err := f.MakeStaticDecoder(buf, r)
	if err != nil {
		return nil, err
	}
	return &Codec{Decoder: *d, base: f.access}, nil
}

// resolve resolves the dynamic arrays of a against buf.
func resolve(a *access.StructAccess, buf []byte, r Representation) (*access.StructAccess, error) {
	if err := a.Err(); err != nil {
		return nil, err
	}
	if !a.IsDynamic() {
		return a, nil
	}

	acc := accessor.For(r)
	maxElements := uint64(len(buf)) * 8
	return a.ResolveDynamic(
		func(idx index.Named, l layout.Element) (uint64, error) {
			v, err := acc.Get(buf, l)
			if err != nil {
				return 0, err
			}
			if field.IsSigned(v.Type()) && v.Int64() < 0 {
				return 0, errors.Newf(errors.CatUser, errors.TypeParameter, "array size %s is negative: %v", idx, v)
			}
			n := v.Uint64()
			// Every element takes at least a bit, so anything larger cannot be in buf.
			if n > maxElements {
				return 0, errors.Newf(errors.CatUser, errors.TypeBufferTooSmall, "array size %s is %d, buffer has %d bytes", idx, n, len(buf))
			}
			logging.Logger().Debug("read array size", zap.String("field", idx.String()), zap.Uint64("size", n))
			return n, nil
		},
	)
}
