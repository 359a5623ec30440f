package access

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/layout"
)

// leaf is a flattened leaf of a StructAccess.
type leaf struct {
	idx index.Index
	l   layout.Element
}

type leafList struct {
	leaves []leaf
}

// leafPool holds the slices comparisons flatten StructAccess into.
var leafPool = sync.NewPool[*leafList](
	context.Background(),
	"leafPool",
	func() *leafList {
		return &leafList{}
	},
	sync.WithBuffer(10),
)

func (a *StructAccess) flatten(ctx context.Context) *leafList {
	ll := leafPool.Get(ctx)
	for idx, l := range a.Leaves() {
		ll.leaves = append(ll.leaves, leaf{idx: idx, l: l})
	}
	return ll
}

func putLeaves(ctx context.Context, ll *leafList) {
	clear(ll.leaves)
	ll.leaves = ll.leaves[:0]
	leafPool.Put(ctx, ll)
}

// IsBinaryEqual returns nil if lhs and rhs have the same binary layout in the deserialized
// representation: the same leaves, with the same type category, offset and size, and the same
// dynamic fields. Otherwise the error holds an *errors.BinaryMismatch naming the first
// difference.
func IsBinaryEqual(lhs, rhs *StructAccess) error {
	if err := validPair(lhs, rhs); err != nil {
		return err
	}

	ctx := context.Background()
	left, right := lhs.flatten(ctx), rhs.flatten(ctx)
	defer putLeaves(ctx, left)
	defer putLeaves(ctx, right)

	if len(left.leaves) != len(right.leaves) {
		return mismatch(
			"struct "+lhs.name, "struct "+rhs.name,
			fmt.Sprintf("%d leaves vs %d leaves", len(left.leaves), len(right.leaves)),
		)
	}
	for i := range left.leaves {
		l, r := left.leaves[i], right.leaves[i]
		if reason := compareLeaf(l.l, r.l); reason != "" {
			return mismatch(lhs.leafName(l.idx), rhs.leafName(r.idx), reason)
		}
	}
	return equalDynamic(lhs, 0, rhs, 0)
}

// IsBinarySubset returns nil if a buffer holding lhs can be read as rhs in the deserialized
// representation. lhs must not be larger than rhs and every leaf of lhs must match the
// next leaf of rhs, except for padding leaves (field.Padding), which may have no counterpart.
// rhs leaves that lie entirely under lhs padding are skipped. rhs may have more leaves after
// the last match.
func IsBinarySubset(lhs, rhs *StructAccess) error {
	if err := validPair(lhs, rhs); err != nil {
		return err
	}

	lsize, rsize := lhs.BufferSize(Deserialized), rhs.BufferSize(Deserialized)
	if lsize > rsize {
		return mismatch(
			"struct "+lhs.name, "struct "+rhs.name,
			fmt.Sprintf("size of %d bytes is larger than %d bytes", lsize, rsize),
		)
	}

	ctx := context.Background()
	left, right := lhs.flatten(ctx), rhs.flatten(ctx)
	defer putLeaves(ctx, left)
	defer putLeaves(ctx, right)

	// covered is the end of the bytes the lhs leaves seen so far occupy. rhs leaves inside it
	// lie under lhs padding and need no counterpart.
	var covered uint64
	r := 0
	for _, l := range left.leaves {
		for r < len(right.leaves) && right.leaves[r].l.Deserialized.End() <= covered {
			r++
		}
		covered = max(covered, l.l.Deserialized.End())

		if r < len(right.leaves) && compareLeaf(l.l, right.leaves[r].l) == "" {
			r++
			continue
		}
		if l.l.Category() == field.Padding {
			continue
		}

		if r == len(right.leaves) {
			return mismatch(lhs.leafName(l.idx), "struct "+rhs.name, "no leaf left to match")
		}
		return mismatch(lhs.leafName(l.idx), rhs.leafName(right.leaves[r].idx), compareLeaf(l.l, right.leaves[r].l))
	}
	return nil
}

func validPair(lhs, rhs *StructAccess) error {
	if lhs == nil || rhs == nil {
		return errors.Newf(errors.CatUser, errors.TypeParameter, "cannot compare a nil StructAccess")
	}
	if lhs.err != nil {
		return lhs.err
	}
	return rhs.err
}

// compareLeaf returns why l and r are not binary compatible, or "" if they are.
func compareLeaf(l, r layout.Element) string {
	switch {
	case l.Category() != r.Category():
		return fmt.Sprintf("type %v vs %v", l.Category(), r.Category())
	case l.Deserialized.BitOffset != r.Deserialized.BitOffset:
		return fmt.Sprintf("byte offset %d vs %d", l.Deserialized.BitOffset/8, r.Deserialized.BitOffset/8)
	case l.Deserialized.TypeBitSize != r.Deserialized.TypeBitSize:
		return fmt.Sprintf("size of %d bits vs %d bits", l.Deserialized.TypeBitSize, r.Deserialized.TypeBitSize)
	case l.Deserialized.AlignedTypeBitSize != r.Deserialized.AlignedTypeBitSize:
		return fmt.Sprintf("aligned size of %d bits vs %d bits", l.Deserialized.AlignedTypeBitSize, r.Deserialized.AlignedTypeBitSize)
	}
	return ""
}

// equalDynamic compares the dynamic fields of struct nodes lid and rid and of every dynamic
// struct below them.
func equalDynamic(lhs *StructAccess, lid int, rhs *StructAccess, rid int) error {
	ln, rn := &lhs.nodes[lid], &rhs.nodes[rid]
	ld, rd := ln.children[ln.staticCount:], rn.children[rn.staticCount:]
	if len(ld) != len(rd) {
		return mismatch(
			lhs.nodeName(lid), rhs.nodeName(rid),
			fmt.Sprintf("%d dynamic fields vs %d dynamic fields", len(ld), len(rd)),
		)
	}

	for i := range ld {
		lc, rc := &lhs.nodes[ld[i]], &rhs.nodes[rd[i]]
		var reason string
		switch {
		case lc.typ.Category != rc.typ.Category:
			reason = fmt.Sprintf("type %v vs %v", lc.typ.Category, rc.typ.Category)
		case lc.isArray != rc.isArray:
			reason = "array vs non-array"
		case lc.dyn.sizeRef != rc.dyn.sizeRef:
			reason = fmt.Sprintf("array size from %q vs %q", lc.dyn.sizeRef, rc.dyn.sizeRef)
		case lc.dyn.sizeRef == "" && lc.arraySize != rc.arraySize:
			reason = fmt.Sprintf("%d elements vs %d elements", lc.arraySize, rc.arraySize)
		case lc.desType != rc.desType || lc.desAligned != rc.desAligned:
			reason = fmt.Sprintf("size of %d/%d bits vs %d/%d bits", lc.desType, lc.desAligned, rc.desType, rc.desAligned)
		case lc.align != rc.align:
			reason = fmt.Sprintf("alignment of %d bytes vs %d bytes", lc.align/8, rc.align/8)
		}
		if reason != "" {
			return mismatch(lhs.nodeName(ld[i]), rhs.nodeName(rd[i]), reason)
		}

		if lc.isStruct() {
			if err := equalDynamic(lhs, ld[i], rhs, rd[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func mismatch(left, right, reason string) error {
	return errors.Wrap(errors.CatUser, errors.TypeBinaryMismatch, &errors.BinaryMismatch{Left: left, Right: right, Reason: reason})
}

func (a *StructAccess) leafName(idx index.Index) string {
	s, err := a.Name(idx)
	if err != nil {
		return idx.String()
	}
	return s
}

// nodeName is the name of node id without array positions.
func (a *StructAccess) nodeName(id int) string {
	if id == 0 {
		return "struct " + a.name
	}
	var names []string
	for ; id > 0; id = a.nodes[id].parent {
		names = append(names, a.nodes[id].name)
	}
	slices.Reverse(names)
	return strings.Join(names, ".")
}
