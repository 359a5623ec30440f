package access

import (
	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/internal/logging"
	"github.com/bearlytools/ddlcodec/layout"
)

// ArraySizeResolver returns the value of the field at idx, which holds the size of a dynamic
// array. l is the layout of that field, resolved as far as is needed to read it from the buffer.
type ArraySizeResolver func(idx index.Named, l layout.Element) (uint64, error)

// ResolveDynamic returns a copy of the StructAccess with the sizes of all dynamic arrays read
// by resolver. Fields are resolved in order, so resolver only sees fields whose position is
// already known. a is not changed, and if the record has no dynamic fields, a is returned.
//
// If the struct elements of an array contain dynamic arrays, every element must resolve to the
// same sizes, otherwise an error of type errors.TypeInconsistentDynamicSize is returned.
func (a *StructAccess) ResolveDynamic(resolver ArraySizeResolver) (*StructAccess, error) {
	if a.err != nil {
		return nil, a.err
	}
	if !a.IsDynamic() {
		return a, nil
	}
	if resolver == nil {
		return nil, errors.Newf(errors.CatUser, errors.TypeParameter, "ResolveDynamic() requires an ArraySizeResolver")
	}

	c := a.clone()
	c.resolved = false
	if err := c.resolveStruct(0, index.Named{}, 0, 0, resolver, false); err != nil {
		return nil, err
	}
	c.resolved = true

	logging.Logger().Debug(
		"resolved dynamic struct",
		zap.String("struct", c.name),
		zap.Uint64("leaves", c.LeafCount()),
		zap.Uint64("serializedBytes", c.BufferSize(Serialized)),
		zap.Uint64("deserializedBytes", c.BufferSize(Deserialized)),
	)
	return c, nil
}

// resolveStruct resolves the children of node id, whose element starts at serBase and desBase.
// named is the name of that element. If verify is set, array sizes must match the ones already
// stored instead of replacing them.
func (a *StructAccess) resolveStruct(id int, named index.Named, serBase, desBase uint64, r ArraySizeResolver, verify bool) error {
	n := &a.nodes[id]

	var serEnd, desEnd, serMax, desMax, leaves uint64
	for _, cid := range n.children {
		ch := &a.nodes[cid]
		ch.serOff, ch.desOff = offsets(ch, serEnd, desEnd)

		if ch.dyn.sizeRef != "" {
			size, err := a.readArraySize(id, ch, named, serBase, desBase, r)
			if err != nil {
				return err
			}
			if verify && size != ch.arraySize {
				name := named.Append(index.NamedElement{Name: ch.name})
				logging.Logger().Warn(
					"inconsistent dynamic array size",
					zap.String("struct", a.name),
					zap.String("field", name.String()),
					zap.Uint64("want", ch.arraySize),
					zap.Uint64("got", size),
				)
				return errors.Newf(
					errors.CatUser,
					errors.TypeInconsistentDynamicSize,
					"%s has %d elements, but a previous element of the same array has %d",
					name, size, ch.arraySize,
				)
			}
			ch.arraySize = size
		}

		if ch.dyn.variable && ch.isStruct() {
			if err := a.resolveElements(cid, named, serBase+ch.serOff, desBase+ch.desOff, r, verify); err != nil {
				return err
			}
		}

		serEnd = ch.serOff + a.serBits(ch)
		desEnd = ch.desOff + a.desBits(ch)
		serMax = max(serMax, serEnd)
		desMax = max(desMax, desEnd)

		ch.beginLeaf = leaves
		leaves += ch.leaves()
	}
	finishStruct(n, serMax, desMax, leaves)
	return nil
}

// resolveElements resolves every element of struct node id, whose first element starts at
// serBase and desBase. The first element decides the layout, the others must agree with it.
func (a *StructAccess) resolveElements(id int, parent index.Named, serBase, desBase uint64, r ArraySizeResolver, verify bool) error {
	n := &a.nodes[id]
	name := func(pos uint64) index.Named {
		e := index.NamedElement{Name: n.name}
		if n.isArray {
			e.ArrayPos, e.HasArrayPos = pos, true
		}
		return parent.Append(e)
	}

	if n.arraySize == 0 {
		return nil
	}
	if err := a.resolveStruct(id, name(0), serBase, desBase, r, verify); err != nil {
		return err
	}
	for pos := uint64(1); pos < n.arraySize; pos++ {
		err := a.resolveStruct(id, name(pos), serBase+pos*n.serType, desBase+pos*n.desAligned, r, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// readArraySize calls r for the sibling of n that holds its array size. parent is the node
// holding both, its element starts at serBase and desBase.
func (a *StructAccess) readArraySize(parent int, n *node, named index.Named, serBase, desBase uint64, r ArraySizeResolver) (uint64, error) {
	ref := -1
	for _, sib := range a.nodes[parent].children {
		if a.nodes[sib].name == n.dyn.sizeRef {
			ref = sib
			break
		}
	}
	if ref < 0 {
		return 0, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "array size %q of %q is not a field", n.dyn.sizeRef, n.name)
	}

	size, err := r(named.Append(index.NamedElement{Name: n.dyn.sizeRef}), a.element(ref, serBase, desBase, 0, false))
	if err != nil {
		return 0, err
	}
	return size, nil
}
