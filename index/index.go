// Package index provides the ways a field of a layout tree can be addressed: by the position of
// each field in its parent (Index) or by the name of each field (Named).
//
// Both are paths from the root of a record. Each path element optionally carries an array
// position. When the position is missing, the whole array is addressed.
package index

import (
	"slices"
	"strconv"
	"strings"

	"github.com/bearlytools/ddlcodec/layout"
)

// Element addresses a field by its position within its parent.
type Element struct {
	// Index is the position of the field in its parent, in description order.
	Index int
	// ArrayPos is the array element. Only used if HasArrayPos is set.
	ArrayPos uint64
	// HasArrayPos is set if ArrayPos was given.
	HasArrayPos bool
}

// At returns an Element for array element pos of the field at index i.
func At(i int, pos uint64) Element {
	return Element{Index: i, ArrayPos: pos, HasArrayPos: true}
}

// Field returns an Element for the field at index i without an array position.
func Field(i int) Element {
	return Element{Index: i}
}

// cached is a resolved layout together with the identity of the tree that resolved it.
type cached struct {
	owner  any
	layout layout.Element
}

// Index is a path of Elements from the root of a record. The zero value addresses the root.
// An Index caches the layout it was last resolved to, so resolving it again against the same
// tree is O(1). Copies of an Index share the cache until one of them is resolved again.
type Index struct {
	elements []Element
	cache    *cached
}

// New creates an Index from elements.
func New(elements ...Element) Index {
	return Index{elements: slices.Clone(elements)}
}

// Len is the number of path elements.
func (i Index) Len() int {
	return len(i.elements)
}

// IsRoot reports if the Index addresses the whole record.
func (i Index) IsRoot() bool {
	return len(i.elements) == 0
}

// Elements returns a copy of the path elements.
func (i Index) Elements() []Element {
	return slices.Clone(i.elements)
}

// At returns path element n.
func (i Index) At(n int) Element {
	return i.elements[n]
}

// Last returns the last path element. It panics on the root Index.
func (i Index) Last() Element {
	return i.elements[len(i.elements)-1]
}

// Append returns a new Index with e added to the end of the path.
func (i Index) Append(e Element) Index {
	elements := make([]Element, len(i.elements), len(i.elements)+1)
	copy(elements, i.elements)
	return Index{elements: append(elements, e)}
}

// Parent returns the Index without the last path element. The parent of the root is the root.
func (i Index) Parent() Index {
	if len(i.elements) == 0 {
		return Index{}
	}
	return Index{elements: slices.Clone(i.elements[:len(i.elements)-1])}
}

// Equal reports if both indexes address the same path. Caches are ignored.
func (i Index) Equal(o Index) bool {
	return slices.Equal(i.elements, o.elements)
}

// Cached returns the cached layout if it was resolved by owner.
func (i *Index) Cached(owner any) (layout.Element, bool) {
	if i.cache == nil || i.cache.owner != owner {
		return layout.Element{}, false
	}
	return i.cache.layout, true
}

// SetCached stores the layout resolved by owner.
func (i *Index) SetCached(owner any, l layout.Element) {
	i.cache = &cached{owner: owner, layout: l}
}

// String returns the path as element indexes, like "0.3[2].1".
func (i Index) String() string {
	buff := strings.Builder{}
	for n, e := range i.elements {
		if n > 0 {
			buff.WriteByte('.')
		}
		buff.WriteString(strconv.Itoa(e.Index))
		if e.HasArrayPos {
			buff.WriteByte('[')
			buff.WriteString(strconv.FormatUint(e.ArrayPos, 10))
			buff.WriteByte(']')
		}
	}
	return buff.String()
}
