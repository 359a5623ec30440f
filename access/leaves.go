package access

import (
	"iter"

	"github.com/bearlytools/ddlcodec/index"
	"github.com/bearlytools/ddlcodec/layout"
)

// Leaves iterates over every scalar leaf of the record in leaf order. The layouts are cached in
// the returned indexes. Before dynamic resolution, dynamic fields and the fields after them
// are skipped.
func (a *StructAccess) Leaves() iter.Seq2[index.Index, layout.Element] {
	return func(yield func(index.Index, layout.Element) bool) {
		if a.err != nil {
			return
		}
		a.leaves(0, nil, 0, 0, yield)
	}
}

func (a *StructAccess) leaves(id int, prefix []index.Element, serBase, desBase uint64, yield func(index.Index, layout.Element) bool) bool {
	for _, cid := range a.nodes[id].children {
		if !a.stable(cid) {
			continue
		}
		ch := &a.nodes[cid]
		for pos := uint64(0); pos < ch.arraySize; pos++ {
			e := index.Field(ch.elementIndex)
			if ch.isArray {
				e = index.At(ch.elementIndex, pos)
			}
			path := append(prefix[:len(prefix):len(prefix)], e)

			if ch.isStruct() {
				ok := a.leaves(cid, path, serBase+ch.serOff+pos*ch.serType, desBase+ch.desOff+pos*ch.desAligned, yield)
				if !ok {
					return false
				}
				continue
			}

			idx := index.New(path...)
			l := a.element(cid, serBase, desBase, pos, true)
			idx.SetCached(a, l)
			if !yield(idx, l) {
				return false
			}
		}
	}
	return true
}
