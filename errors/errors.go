// Package errors provides the errors package for the codec. It includes all of the stdlib's
// functions and types and the error kinds the codec reports.
package errors

import (
	"fmt"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/errors"
)

//go:generate stringer -type=Category -linecomment

// Category represents the category of the error.
type Category uint32

func (c Category) Category() string {
	return c.String()
}

const (
	// CatUnknown represents an unknown category. This should not be used.
	CatUnknown Category = Category(0) // Unknown
	// CatUser represents an error that is caused by bad user input, such as an index
	// that doesn't exist or a buffer that is too small.
	CatUser Category = Category(1) // User
	// CatInternal represents an internal error.
	CatInternal Category = Category(2) // Internal
)

//go:generate stringer -type=Type -linecomment

// Type represents the type of the error.
type Type uint16

func (t Type) Type() string {
	return t.String()
}

const (
	// TypeUnknown represents an unknown type.
	TypeUnknown Type = Type(0) // Unknown
	// TypeBug represents a bug in the calling code. This is only bugs that are known bugs and
	// not because of bad user input.
	TypeBug Type = Type(1) // Bug
	// TypeParameter represents an error with a parameter that didn't pass validation.
	TypeParameter Type = Type(2) // Parameter

	// TypeNotInitialized is returned when a struct access could not be built.
	TypeNotInitialized Type = Type(100) // NotInitialized
	// TypeIndexNotFound is returned when a name, element index or leaf number does not resolve.
	TypeIndexNotFound Type = Type(101) // IndexNotFound
	// TypeArrayPositionOutOfRange is returned when an array position is >= the array size.
	TypeArrayPositionOutOfRange Type = Type(102) // ArrayPositionOutOfRange
	// TypeInconsistentDynamicSize is returned when elements sharing a dynamic size disagree.
	TypeInconsistentDynamicSize Type = Type(103) // InconsistentDynamicSize
	// TypeBufferTooSmall is returned when an access would leave the bounds of a buffer.
	TypeBufferTooSmall Type = Type(104) // BufferTooSmall
	// TypeUnsupportedType is returned when a scalar accessor is used on a non-scalar field.
	TypeUnsupportedType Type = Type(105) // UnsupportedType
	// TypeBinaryMismatch is returned by layout comparisons.
	TypeBinaryMismatch Type = Type(106) // BinaryMismatch
)

// Sentinel errors, one per Type. Every error created with Newf() wraps the sentinel for
// its Type, so callers can use Is().
var (
	ErrNotInitialized          = New("struct access not initialized")
	ErrIndexNotFound           = New("index not found")
	ErrArrayPositionOutOfRange = New("array position out of range")
	ErrInconsistentDynamicSize = New("inconsistent dynamic size")
	ErrBufferTooSmall          = New("buffer too small")
	ErrUnsupportedType         = New("unsupported type")
	ErrBinaryMismatch          = New("binary mismatch")
	ErrParameter               = New("invalid parameter")
)

func sentinel(t Type) error {
	switch t {
	case TypeNotInitialized:
		return ErrNotInitialized
	case TypeIndexNotFound:
		return ErrIndexNotFound
	case TypeArrayPositionOutOfRange:
		return ErrArrayPositionOutOfRange
	case TypeInconsistentDynamicSize:
		return ErrInconsistentDynamicSize
	case TypeBufferTooSmall:
		return ErrBufferTooSmall
	case TypeUnsupportedType:
		return ErrUnsupportedType
	case TypeBinaryMismatch:
		return ErrBinaryMismatch
	case TypeParameter:
		return ErrParameter
	}
	return nil
}

// Error is the error type for this package. Error implements github.com/gostdlib/base/errors.E .
type Error = errors.Error

// EOption is an optional argument for E().
type EOption = errors.EOption

// WithCallNum is used if you need to set the runtime.CallNum() in order to get the correct filename and line.
// This defaults to 1 which sets to the frame of the caller of E().
func WithCallNum(i int) EOption {
	return errors.WithCallNum(i)
}

// E creates a new Error with the given parameters.
func E(ctx context.Context, c Category, t Type, msg error, options ...EOption) Error {
	// Callers setting their own call number override this one.
	opts := make([]EOption, 0, len(options)+1)
	opts = append(opts, WithCallNum(2))
	opts = append(opts, options...)

	return errors.E(ctx, c, t, msg, opts...)
}

// Newf creates an Error of Type t. The message is formatted with fmt.Sprintf() and wraps the
// sentinel error for t.
func Newf(c Category, t Type, format string, args ...any) error {
	msg := fmt.Errorf(format, args...)
	if s := sentinel(t); s != nil {
		msg = fmt.Errorf("%w: %w", s, msg)
	}
	return E(context.Background(), c, t, msg, WithCallNum(3))
}

// Wrap creates an Error of Type t from an existing error. If err already is one of our
// sentinels, it is not wrapped again.
func Wrap(c Category, t Type, err error) error {
	if s := sentinel(t); s != nil && !Is(err, s) {
		err = fmt.Errorf("%w: %w", s, err)
	}
	return E(context.Background(), c, t, err, WithCallNum(3))
}

// BinaryMismatch details why two layouts are not binary compatible.
type BinaryMismatch struct {
	// Left is the full name of the element on the left hand side.
	Left string
	// Right is the full name of the element on the right hand side.
	Right string
	// Reason describes the difference.
	Reason string
}

// Error implements error.
func (b *BinaryMismatch) Error() string {
	return fmt.Sprintf("binary mismatch between %q and %q: %s", b.Left, b.Right, b.Reason)
}

// Is allows Is(err, ErrBinaryMismatch) to work.
func (b *BinaryMismatch) Is(target error) bool {
	return target == ErrBinaryMismatch
}
