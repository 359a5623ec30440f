package codec

import (
	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/accessor"
	"github.com/bearlytools/ddlcodec/internal/logging"
)

// Transform returns a new buffer holding the record of dec in representation r. If r is the
// representation of dec, the record is copied as is. Otherwise padding in the new buffer is 0.
func Transform(dec *Decoder, r Representation) ([]byte, error) {
	out := make([]byte, dec.access.BufferSize(r))
	if r == dec.rep {
		copy(out, dec.buf)
		return out, nil
	}

	acc := accessor.For(r)
	for _, l := range dec.access.Leaves() {
		v, err := dec.acc.Get(dec.buf, l)
		if err != nil {
			return nil, err
		}
		if err := acc.Set(out, l, v); err != nil {
			return nil, err
		}
	}
	logging.Logger().Debug(
		"transformed record",
		zap.String("struct", dec.access.StructName()),
		zap.Stringer("from", dec.rep),
		zap.Stringer("to", r),
		zap.Int("size", len(out)),
	)
	return out, nil
}
