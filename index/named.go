package index

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bearlytools/ddlcodec/errors"
)

// NamedElement addresses a field by its name.
type NamedElement struct {
	// Name is the base name of the field.
	Name string
	// ArrayPos is the array element. Only used if HasArrayPos is set.
	ArrayPos uint64
	// HasArrayPos is set if ArrayPos was given. This changes whether the whole array or a single
	// element is addressed.
	HasArrayPos bool
}

// Named is a path of NamedElements from the root of a record, like "a.b[3].c".
// The zero value addresses the root.
type Named struct {
	elements []NamedElement
}

// NewNamed creates a Named from elements.
func NewNamed(elements ...NamedElement) Named {
	return Named{elements: slices.Clone(elements)}
}

// ParseNamed parses a path like "a.b[3].c". The empty string is the root.
func ParseNamed(s string) (Named, error) {
	if s == "" {
		return Named{}, nil
	}

	parts := strings.Split(s, ".")
	n := Named{elements: make([]NamedElement, 0, len(parts))}
	for _, p := range parts {
		e, err := parseNamedElement(p)
		if err != nil {
			return Named{}, errors.Newf(errors.CatUser, errors.TypeParameter, "path %q: %w", s, err)
		}
		n.elements = append(n.elements, e)
	}
	return n, nil
}

// MustParseNamed is like ParseNamed but panics on error. Use it for paths known at compile time.
func MustParseNamed(s string) Named {
	n, err := ParseNamed(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parseNamedElement(p string) (NamedElement, error) {
	name, rest, found := strings.Cut(p, "[")
	if name == "" {
		return NamedElement{}, errors.New("empty name")
	}
	if strings.ContainsAny(name, "] \t") {
		return NamedElement{}, errors.New("invalid character in name " + strconv.Quote(name))
	}
	if !found {
		return NamedElement{Name: name}, nil
	}

	pos, ok := strings.CutSuffix(rest, "]")
	if !ok || pos == "" {
		return NamedElement{}, errors.New("unterminated array position in " + strconv.Quote(p))
	}
	n, err := strconv.ParseUint(pos, 10, 64)
	if err != nil {
		return NamedElement{}, errors.New("invalid array position in " + strconv.Quote(p))
	}
	return NamedElement{Name: name, ArrayPos: n, HasArrayPos: true}, nil
}

// Len is the number of path elements.
func (n Named) Len() int {
	return len(n.elements)
}

// IsRoot reports if the path addresses the whole record.
func (n Named) IsRoot() bool {
	return len(n.elements) == 0
}

// Elements returns a copy of the path elements.
func (n Named) Elements() []NamedElement {
	return slices.Clone(n.elements)
}

// At returns path element i.
func (n Named) At(i int) NamedElement {
	return n.elements[i]
}

// Last returns the last path element. It panics on the root.
func (n Named) Last() NamedElement {
	return n.elements[len(n.elements)-1]
}

// Append returns a new Named with e added to the end of the path.
func (n Named) Append(e NamedElement) Named {
	elements := make([]NamedElement, len(n.elements), len(n.elements)+1)
	copy(elements, n.elements)
	return Named{elements: append(elements, e)}
}

// Parent returns the path without the last element.
func (n Named) Parent() Named {
	if len(n.elements) == 0 {
		return Named{}
	}
	return Named{elements: slices.Clone(n.elements[:len(n.elements)-1])}
}

// Equal reports if both paths are the same.
func (n Named) Equal(o Named) bool {
	return slices.Equal(n.elements, o.elements)
}

// String formats the path like "a.b[3].c".
func (n Named) String() string {
	buff := strings.Builder{}
	for i, e := range n.elements {
		if i > 0 {
			buff.WriteByte('.')
		}
		buff.WriteString(e.Name)
		if e.HasArrayPos {
			buff.WriteByte('[')
			buff.WriteString(strconv.FormatUint(e.ArrayPos, 10))
			buff.WriteByte(']')
		}
	}
	return buff.String()
}
