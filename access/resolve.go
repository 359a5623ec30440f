package access

import (
	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/layout"
)

// element returns the layout of node id whose parent element starts at serBase and desBase.
// If single is set, the layout is of array element pos, otherwise of the whole field.
func (a *StructAccess) element(id int, serBase, desBase, pos uint64, single bool) layout.Element {
	n := &a.nodes[id]
	e := layout.Element{
		Serialized: layout.Serialized{
			BitOffset:   serBase + n.serOff + pos*n.serType,
			TypeBitSize: n.serType,
			UsedBitSize: n.serUsed,
		},
		Deserialized: layout.Deserialized{
			BitOffset:          desBase + n.desOff + pos*n.desAligned,
			TypeBitSize:        n.desType,
			AlignedTypeBitSize: n.desAligned,
		},
		ByteOrder: n.byteOrder,
		Type:      n.typ,
		Constant:  n.constant,
		Default:   n.def,
	}

	if single {
		e.Serialized.BitSize = n.serType
		e.Deserialized.BitSize = a.elemDesBits(n)
		e.ArraySize = 1
		e.ChildCount = uint64(len(n.children))
		e.LeafCount = n.leafCount
		return e
	}

	e.Serialized.BitSize = a.serBits(n)
	e.Deserialized.BitSize = a.desBits(n)
	e.ArraySize = n.arraySize
	e.LeafCount = n.leaves()
	if n.isArray {
		e.ChildCount = n.arraySize
	} else {
		e.ChildCount = uint64(len(n.children))
	}
	return e
}

// rootElement is the layout of the whole record. The deserialized size is the size of the
// buffer, which includes the content of resolved dynamic arrays and trailing padding.
func (a *StructAccess) rootElement() layout.Element {
	e := a.element(0, 0, 0, 0, false)
	e.Deserialized.BitSize = a.BufferSize(Deserialized) * 8
	return e
}

// Resolve returns the layout of the field at idx. The layout is cached in idx, so resolving
// the same idx against the same StructAccess again is free.
//
// If an element of idx has no array position, the layout is of the whole array. Elements after
// it address the first array element.
func (a *StructAccess) Resolve(idx *index.Index) (layout.Element, error) {
	if a.err != nil {
		return layout.Element{}, a.err
	}
	if l, ok := idx.Cached(a); ok {
		return l, nil
	}

	l, err := a.resolve(idx.Elements())
	if err != nil {
		return layout.Element{}, err
	}
	idx.SetCached(a, l)
	return l, nil
}

func (a *StructAccess) resolve(elements []index.Element) (layout.Element, error) {
	if len(elements) == 0 {
		return a.rootElement(), nil
	}

	id := 0
	var serBase, desBase uint64
	for k, e := range elements {
		n := &a.nodes[id]
		if !n.isStruct() {
			return layout.Element{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "%s has no fields", a.nameOf(elements[:k]))
		}
		if e.Index < 0 || e.Index >= len(n.children) {
			return layout.Element{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "%s has no field %d", a.nameOf(elements[:k]), e.Index)
		}
		cid := n.children[e.Index]
		ch := &a.nodes[cid]

		var pos uint64
		single := e.HasArrayPos
		if e.HasArrayPos {
			switch {
			case e.ArrayPos < ch.arraySize:
				pos = e.ArrayPos
			case e.ArrayPos == 0 && a.unresolvedArray(ch):
				single = false
			default:
				return layout.Element{}, errors.Newf(
					errors.CatUser,
					errors.TypeArrayPositionOutOfRange,
					"%s has %d elements, got position %d",
					a.nameOf(elements[:k+1]), ch.arraySize, e.ArrayPos,
				)
			}
		}

		if k == len(elements)-1 {
			return a.element(cid, serBase, desBase, pos, single), nil
		}
		serBase += ch.serOff + pos*ch.serType
		desBase += ch.desOff + pos*ch.desAligned
		id = cid
	}
	panic("unreachable")
}

// unresolvedArray reports if n is a dynamic array whose size was not read yet.
func (a *StructAccess) unresolvedArray(n *node) bool {
	return n.dyn.sizeRef != "" && !a.resolved
}

// ResolveNamed returns the layout of the field at named and the equivalent index.Index, which
// is faster to resolve again.
func (a *StructAccess) ResolveNamed(named index.Named) (index.Index, layout.Element, error) {
	if a.err != nil {
		return index.Index{}, layout.Element{}, a.err
	}

	elements := make([]index.Element, 0, named.Len())
	id := 0
	for k := 0; k < named.Len(); k++ {
		ne := named.At(k)
		n := &a.nodes[id]
		cid := -1
		for _, c := range n.children {
			if a.nodes[c].name == ne.Name {
				cid = c
				break
			}
		}
		if cid < 0 {
			return index.Index{}, layout.Element{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "%q not found", named.String())
		}
		elements = append(elements, index.Element{Index: a.nodes[cid].elementIndex, ArrayPos: ne.ArrayPos, HasArrayPos: ne.HasArrayPos})
		id = cid
	}

	idx := index.New(elements...)
	l, err := a.Resolve(&idx)
	if err != nil {
		return index.Index{}, layout.Element{}, err
	}
	return idx, l, nil
}

// ResolveLeaf returns the index and layout of leaf number n, counting every scalar of the record
// in order. Before dynamic resolution, leaves of dynamic fields cannot be found.
func (a *StructAccess) ResolveLeaf(n uint64) (index.Index, layout.Element, error) {
	if a.err != nil {
		return index.Index{}, layout.Element{}, a.err
	}
	if n >= a.LeafCount() {
		return index.Index{}, layout.Element{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "leaf %d, record has %d leaves", n, a.LeafCount())
	}

	var elements []index.Element
	id, rem := 0, n
	for {
		cid, ok := a.findLeaf(id, rem)
		if !ok {
			return index.Index{}, layout.Element{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "leaf %d is not resolved", n)
		}
		ch := &a.nodes[cid]
		off := rem - ch.beginLeaf
		pos := off / ch.leafCount
		rem = off % ch.leafCount

		if ch.isArray {
			elements = append(elements, index.At(ch.elementIndex, pos))
		} else {
			elements = append(elements, index.Field(ch.elementIndex))
		}
		if !ch.isStruct() {
			break
		}
		id = cid
	}

	idx := index.New(elements...)
	l, err := a.Resolve(&idx)
	if err != nil {
		return index.Index{}, layout.Element{}, err
	}
	return idx, l, nil
}

// findLeaf does a binary search for the child of node id holding leaf number leaf. Children
// without a known position are skipped by moving to the nearest child that has one.
func (a *StructAccess) findLeaf(id int, leaf uint64) (int, bool) {
	children := a.nodes[id].children

	lo, hi := 0, len(children)
	for lo < hi {
		mid := lo + (hi-lo)/2

		m := mid
		for m >= lo && !a.stable(children[m]) {
			m--
		}
		if m < lo {
			m = mid + 1
			for m < hi && !a.stable(children[m]) {
				m++
			}
			if m == hi {
				return -1, false
			}
		}

		ch := &a.nodes[children[m]]
		switch {
		case leaf < ch.beginLeaf:
			hi = m
		case leaf >= ch.beginLeaf+ch.leaves():
			lo = m + 1
		default:
			return children[m], true
		}
	}
	return -1, false
}

// ChildCount is the number of direct children of the field at idx: the number of elements for
// a whole array, the number of fields for a struct and 0 for a scalar.
func (a *StructAccess) ChildCount(idx *index.Index) (uint64, error) {
	l, err := a.Resolve(idx)
	if err != nil {
		return 0, err
	}
	return l.ChildCount, nil
}

// LeafCountAt is the number of leaves of the field at idx.
func (a *StructAccess) LeafCountAt(idx *index.Index) (uint64, error) {
	l, err := a.Resolve(idx)
	if err != nil {
		return 0, err
	}
	return l.LeafCount, nil
}

// Named converts idx to the path of field names.
func (a *StructAccess) Named(idx index.Index) (index.Named, error) {
	if a.err != nil {
		return index.Named{}, a.err
	}

	elements := idx.Elements()
	named := make([]index.NamedElement, 0, len(elements))
	id := 0
	for k, e := range elements {
		n := &a.nodes[id]
		if e.Index < 0 || e.Index >= len(n.children) {
			return index.Named{}, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "%s has no field %d", a.nameOf(elements[:k]), e.Index)
		}
		id = n.children[e.Index]
		named = append(named, index.NamedElement{Name: a.nodes[id].name, ArrayPos: e.ArrayPos, HasArrayPos: e.HasArrayPos})
	}
	return index.NewNamed(named...), nil
}

// Name is the full name of the field at idx, like "a.b[3].c". The root has an empty name.
func (a *StructAccess) Name(idx index.Index) (string, error) {
	named, err := a.Named(idx)
	if err != nil {
		return "", err
	}
	return named.String(), nil
}

// BaseName is the name of the field at idx without its parents or array position.
func (a *StructAccess) BaseName(idx index.Index) (string, error) {
	named, err := a.Named(idx)
	if err != nil {
		return "", err
	}
	if named.IsRoot() {
		return "", nil
	}
	return named.Last().Name, nil
}

// nameOf is the name of a valid prefix of an index, for error messages.
func (a *StructAccess) nameOf(elements []index.Element) string {
	if len(elements) == 0 {
		return "struct " + a.name
	}
	s, err := a.Name(index.New(elements...))
	if err != nil {
		return index.New(elements...).String()
	}
	return s
}
