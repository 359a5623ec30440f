// Package ddlcodec reads and writes binary records described by a data description. A record
// has two representations: a bit packed serialized form and a native, alignment padded
// deserialized form. See the codec package to access records and the access package for the
// layout tree behind it.
package ddlcodec

import (
	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/access"
	"github.com/bearlytools/ddlcodec/codec"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/internal/logging"
)

// FieldType represents the category of data held by a field.
type FieldType = field.Type

const (
	FTUnknown = field.FTUnknown
	FTBool    = field.FTBool
	FTInt8    = field.FTInt8
	FTInt16   = field.FTInt16
	FTInt32   = field.FTInt32
	FTInt64   = field.FTInt64
	FTUint8   = field.FTUint8
	FTUint16  = field.FTUint16
	FTUint32  = field.FTUint32
	FTUint64  = field.FTUint64
	FTFloat32 = field.FTFloat32
	FTFloat64 = field.FTFloat64
	FTStruct  = field.FTStruct
)

// Representation is one of the two forms of a record.
type Representation = access.Representation

const (
	Deserialized = access.Deserialized
	Serialized   = access.Serialized
)

// SetLogger sets the logger used by every package of the module. Passing nil turns logging off.
func SetLogger(l *zap.Logger) {
	logging.SetLogger(l)
}

// IsBinaryEqual returns nil if records made by lhs and rhs have the same binary layout.
func IsBinaryEqual(lhs, rhs *codec.Factory) error {
	return access.IsBinaryEqual(lhs.Access(), rhs.Access())
}

// IsBinarySubset returns nil if a record made by lhs can be read as the start of a record
// made by rhs.
func IsBinarySubset(lhs, rhs *codec.Factory) error {
	return access.IsBinarySubset(lhs.Access(), rhs.Access())
}
