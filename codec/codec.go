package codec

import (
	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/accessor"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/internal/logging"
	"github.com/bearlytools/ddlcodec/value"
)

// Codec reads and writes the fields of a record in a buffer.
type Codec struct {
	Decoder

	// base is the layout tree before dynamic resolution.
	base *access.StructAccess
}

// SetValue sets the field at idx to v, converting v to the type of the field.
func (c *Codec) SetValue(idx *index.Index, v value.Value) error {
	l, err := c.access.Resolve(idx)
	if err != nil {
		return err
	}
	return c.acc.Set(c.buf, l, v)
}

// SetValueByName sets the field called name to v.
func (c *Codec) SetValueByName(name string, v value.Value) error {
	l, err := c.layoutByName(name)
	if err != nil {
		return err
	}
	return c.acc.Set(c.buf, l, v)
}

// SetString sets the field at idx from s, which is an enum element name or a number.
func (c *Codec) SetString(idx *index.Index, s string) error {
	l, err := c.access.Resolve(idx)
	if err != nil {
		return err
	}
	return accessor.SetString(c.acc, c.buf, l, s)
}

// SetStringByName is like SetString() for the field called name.
func (c *Codec) SetStringByName(name, s string) error {
	l, err := c.layoutByName(name)
	if err != nil {
		return err
	}
	return accessor.SetString(c.acc, c.buf, l, s)
}

// SetRaw copies src, which holds the field at idx in its deserialized form, into the field.
func (c *Codec) SetRaw(idx *index.Index, src []byte) error {
	l, err := c.access.Resolve(idx)
	if err != nil {
		return err
	}
	return c.acc.SetRaw(c.buf, l, src)
}

// SetConstants writes the value of every constant field.
func (c *Codec) SetConstants() error {
	for _, l := range c.access.Leaves() {
		if l.Constant == nil {
			continue
		}
		if err := c.acc.Set(c.buf, l, l.Constant.Value); err != nil {
			return err
		}
	}
	return nil
}

// Reset sets every byte of the record to 0. If withDefaults is set, fields with a default value
// are set to it. Constants are always written.
//
// Reset keeps the layout, so on a dynamic record the array sizes in the buffer and in the
// Codec differ afterwards until the sizes are written again and Refresh() is called.
func (c *Codec) Reset(withDefaults bool) error {
	clear(c.buf[:c.BufferSize()])

	if withDefaults {
		for _, l := range c.access.Leaves() {
			if l.Default == nil {
				continue
			}
			if err := c.acc.Set(c.buf, l, l.Default.Value); err != nil {
				return err
			}
		}
	}
	return c.SetConstants()
}

// Refresh reads the sizes of the dynamic arrays from the buffer again. This is required after
// writing an array size to see the elements of the array.
func (c *Codec) Refresh() error {
	a, err := resolve(c.base, c.buf, c.rep)
	if err != nil {
		return err
	}
	if size := a.BufferSize(c.rep); uint64(len(c.buf)) < size {
		logging.Logger().Debug(
			"buffer too small for resolved record",
			zap.String("struct", a.StructName()),
			zap.Int("have", len(c.buf)),
			zap.Uint64("need", size),
		)
	}
	d, err := newDecoder(a, c.buf, c.rep)
	if err != nil {
		return err
	}
	c.Decoder = *d
	return nil
}
