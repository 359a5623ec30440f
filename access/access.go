// Package access builds the layout tree of a record description and resolves fields of that
// tree to their layouts in the serialized and deserialized representation.
//
// A StructAccess is built once per description with New() and is read-only afterwards, so it
// can be shared by any number of goroutines. If the description contains arrays whose size is
// held by another field, the layouts of those arrays (and of everything after them) depend on
// the buffer being decoded. ResolveDynamic() then returns a private copy with those sizes
// read from the buffer.
//
// Fields can be addressed three ways:
//   - By leaf number, counting every scalar of the record in order: ResolveLeaf().
//   - By the position of each field in its parent: Resolve().
//   - By the name of each field: ResolveNamed().
package access

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/internal/logging"
	"github.com/bearlytools/ddlcodec/layout"
	"github.com/bearlytools/ddlcodec/mapping"
)

// Representation is one of the two forms a record can have in a buffer.
type Representation uint8

const (
	// Deserialized is the native, alignment padded representation in host byte order.
	Deserialized Representation = 0
	// Serialized is the bit packed representation with a byte order per field.
	Serialized Representation = 1
)

func (r Representation) String() string {
	switch r {
	case Deserialized:
		return "Deserialized"
	case Serialized:
		return "Serialized"
	}
	return fmt.Sprintf("Representation(%d)", uint8(r))
}

// kind is the variant of a node.
type kind uint8

const (
	// kindStatic nodes have a position and size known from the description.
	kindStatic kind = 0
	// kindDynamic nodes have a position or size that depends on the buffer. Details are
	// in node.dyn.
	kindDynamic kind = 1
)

// dynamicInfo is the payload of a kindDynamic node.
type dynamicInfo struct {
	// sizeRef is the name of the sibling holding the array size. Empty if the array size is
	// static but the struct type contains dynamic fields.
	sizeRef string
	// variable is set if the size of the node depends on the buffer.
	variable bool
	// afterDynamic is set if a preceding sibling is dynamic, so the offset of the node is
	// only known once that sibling is resolved.
	afterDynamic bool
}

// node is a field of the layout tree. Nodes live in StructAccess.nodes and refer to each other
// by their id, which is their position in that slice. The root node (id 0) is the record.
type node struct {
	name string
	// parent is the id of the parent node, -1 for the root.
	parent int
	// elementIndex is the position of the node in its parent.
	elementIndex int
	// children are the ids of the fields of a struct, in description order.
	children []int
	// staticCount is the number of leading children that are kindStatic.
	staticCount int

	kind kind
	dyn  dynamicInfo

	// isArray is set if the field was declared as an array.
	isArray bool
	// arraySize is the number of elements. It is 0 for a dynamic array that was not resolved.
	arraySize uint64
	// leafCount is the number of leaves of a single element.
	leafCount uint64
	// beginLeaf is the leaf number of the first leaf of the node within its parent.
	beginLeaf uint64

	typ       *layout.TypeInfo
	constant  *layout.ConstantInfo
	def       *layout.DefaultInfo
	byteOrder mapping.ByteOrder

	// align is the deserialized alignment of the field in bits.
	align uint64
	// structAlign is the alignment of the struct type in bits. Only used for structs.
	structAlign uint64
	// serPos is the explicit serialized offset in bits. Only used if hasSerPos is set.
	serPos    uint64
	hasSerPos bool

	// All offsets are in bits relative to the start of the parent element.
	serOff     uint64
	serType    uint64
	serUsed    uint64
	desOff     uint64
	desType    uint64
	desAligned uint64
}

// isStruct reports if the node is a nested struct.
func (n *node) isStruct() bool {
	return n.typ != nil && n.typ.Category == field.FTStruct
}

// leaves is the number of leaves of all array elements.
func (n *node) leaves() uint64 {
	return n.leafCount * n.arraySize
}

// StructAccess is the root of a layout tree. It is built with New().
type StructAccess struct {
	name     string
	version  mapping.Version
	registry *layout.Registry
	nodes    []node

	// staticSer and staticDes are the buffer sizes in bits before dynamic resolution.
	staticSer uint64
	staticDes uint64

	// err is set if the tree could not be built. It never changes after New().
	err error
	// resolved is set on a copy made by ResolveDynamic().
	resolved bool
}

// New builds the layout tree of m. New never fails: if the tree cannot be built, the error is
// kept and returned by Err() and by every other method of the StructAccess.
func New(m *mapping.Map, options ...Option) *StructAccess {
	conf := &config{}
	for _, o := range options {
		o(conf)
	}
	if conf.registry == nil {
		conf.registry = layout.NewRegistry()
	}

	a := &StructAccess{registry: conf.registry}
	if m == nil {
		a.err = errors.Newf(errors.CatUser, errors.TypeNotInitialized, "nil description")
		return a
	}
	a.name = m.Name
	a.version = m.Version
	if conf.version != 0 {
		a.version = conf.version
	}

	if err := a.build(m); err != nil {
		a.nodes = nil
		a.err = errors.Newf(errors.CatUser, errors.TypeNotInitialized, "struct %q: %w", m.Name, err)
		logging.Logger().Debug("could not build struct access", zap.String("struct", m.Name), zap.Error(err))
		return a
	}
	root := &a.nodes[0]
	a.staticSer = root.serType
	a.staticDes = a.elemDesBits(root)
	return a
}

// Err returns the error that prevented the StructAccess from being built.
func (a *StructAccess) Err() error {
	return a.err
}

// IsValid reports if the StructAccess was built.
func (a *StructAccess) IsValid() bool {
	return a.err == nil
}

// StructName is the name of the struct type of the record.
func (a *StructAccess) StructName() string {
	return a.name
}

// Version is the description language version the layouts were computed with.
func (a *StructAccess) Version() mapping.Version {
	return a.version
}

// Registry is the Registry holding the type metadata of the layouts.
func (a *StructAccess) Registry() *layout.Registry {
	return a.registry
}

// IsDynamic reports if the record contains fields whose array size is read from the buffer.
func (a *StructAccess) IsDynamic() bool {
	if a.err != nil {
		return false
	}
	return a.nodes[0].kind == kindDynamic
}

// IsResolved reports if every layout is known. This is true for records that are not dynamic
// and for the copies returned by ResolveDynamic().
func (a *StructAccess) IsResolved() bool {
	if a.err != nil {
		return false
	}
	return a.resolved || !a.IsDynamic()
}

// LeafCount is the number of scalar leaves of the record. Before dynamic resolution, dynamic
// arrays count as empty, and static leaves that follow a dynamic field are counted even though
// ResolveLeaf() and Leaves() cannot reach them until the record is resolved.
func (a *StructAccess) LeafCount() uint64 {
	if a.err != nil {
		return 0
	}
	return a.nodes[0].leafCount
}

// StaticBufferSize is the size in bytes of a buffer holding the record in representation r,
// with every dynamic array being empty.
func (a *StructAccess) StaticBufferSize(r Representation) uint64 {
	if r == Serialized {
		return bytesOf(a.staticSer)
	}
	return bytesOf(a.staticDes)
}

// BufferSize is the size in bytes of a buffer holding the record in representation r. On a
// copy returned by ResolveDynamic(), this includes the content of the dynamic arrays.
func (a *StructAccess) BufferSize(r Representation) uint64 {
	if a.err != nil {
		return 0
	}
	root := &a.nodes[0]
	if r == Serialized {
		return bytesOf(root.serType)
	}
	return bytesOf(a.elemDesBits(root))
}

func bytesOf(bits uint64) uint64 {
	return (bits + 7) / 8
}

// stable reports if the node has a known position.
func (a *StructAccess) stable(id int) bool {
	return a.nodes[id].kind == kindStatic || a.resolved
}

// elemDesBits is the deserialized size of one element of n. Before V40 the size of a struct
// element is the unaligned size, so only the stride between array elements is aligned.
func (a *StructAccess) elemDesBits(n *node) uint64 {
	if a.version.AlignsStructs() {
		return n.desAligned
	}
	return n.desType
}

// desBits is the deserialized size of all elements of n.
func (a *StructAccess) desBits(n *node) uint64 {
	if n.arraySize == 0 {
		return 0
	}
	return (n.arraySize-1)*n.desAligned + a.elemDesBits(n)
}

// serBits is the serialized size of all elements of n.
func (a *StructAccess) serBits(n *node) uint64 {
	return n.arraySize * n.serType
}

// build creates the nodes of m. The root is node 0.
func (a *StructAccess) build(m *mapping.Map) error {
	if err := m.Validate(); err != nil {
		return err
	}

	a.nodes = append(a.nodes, node{parent: -1, arraySize: 1})
	if err := a.buildStruct(0, m); err != nil {
		return err
	}

	root := &a.nodes[0]
	t, err := a.registry.Struct(m, root.serType)
	if err != nil {
		return err
	}
	root.typ = t
	root.align = root.structAlign
	return nil
}

// buildStruct creates the children of node id from the fields of m and computes their layout.
func (a *StructAccess) buildStruct(id int, m *mapping.Map) error {
	children := make([]int, 0, len(m.Fields))
	maxAlign := uint64(8)
	staticCount := 0
	after := false

	for i, fd := range m.Fields {
		cid, err := a.buildField(id, i, fd)
		if err != nil {
			return err
		}

		ch := &a.nodes[cid]
		switch {
		case after:
			ch.kind = kindDynamic
			ch.dyn.afterDynamic = true
		case ch.kind == kindStatic:
			staticCount++
		}
		if ch.dyn.variable {
			after = true
		}
		maxAlign = max(maxAlign, ch.align)
		children = append(children, cid)
	}

	n := &a.nodes[id]
	n.children = children
	n.staticCount = staticCount
	n.structAlign = m.Alignment * 8
	if n.structAlign == 0 {
		n.structAlign = maxAlign
	}
	if after {
		n.kind = kindDynamic
		n.dyn.variable = true
	}
	a.layoutStruct(id)
	return nil
}

// buildField creates the node of fd as child i of parent and returns its id.
func (a *StructAccess) buildField(parent, i int, fd *mapping.FieldDescr) (int, error) {
	id := len(a.nodes)
	a.nodes = append(
		a.nodes,
		node{
			name:         fd.Name,
			parent:       parent,
			elementIndex: i,
			isArray:      fd.ArraySize.IsDynamic() || fd.ArraySize.Fixed != 0,
			arraySize:    fd.ArraySize.Size(),
			byteOrder:    fd.ByteOrder,
		},
	)
	if fd.ArraySize.IsDynamic() {
		a.nodes[id].kind = kindDynamic
		a.nodes[id].dyn = dynamicInfo{sizeRef: fd.ArraySize.Ref, variable: true}
	}
	if fd.Serialized != nil {
		a.nodes[id].serPos = fd.Serialized.Bits()
		a.nodes[id].hasSerPos = true
	}

	if fd.Struct != nil {
		if err := a.buildStruct(id, fd.Struct); err != nil {
			return 0, fmt.Errorf(".%s%w", fd.Name, err)
		}
		n := &a.nodes[id]
		t, err := a.registry.Struct(fd.Struct, n.serType)
		if err != nil {
			return 0, fmt.Errorf(".%s: %w", fd.Name, err)
		}
		n.typ = t
		n.align = fd.Alignment * 8
		if n.align == 0 {
			n.align = n.structAlign
		}
		return id, nil
	}

	var (
		t   *layout.TypeInfo
		err error
	)
	if fd.Enum != nil {
		t, err = a.registry.Enum(fd.Enum)
	} else {
		t, err = a.registry.DataType(fd.DataType)
	}
	if err != nil {
		return 0, fmt.Errorf(".%s: %w", fd.Name, err)
	}

	n := &a.nodes[id]
	n.typ = t
	n.leafCount = 1
	n.serType = fd.NumBits
	if n.serType == 0 {
		n.serType = t.BitSize
	}
	n.serUsed = min(n.serType, t.BitSize)
	n.desType = field.BitSize(t.Category)
	n.desAligned = n.desType
	n.align = fd.Alignment * 8
	if n.align == 0 {
		n.align = n.desType
	}

	if fd.Constant != "" {
		c, err := a.registry.Constant(t, fd.Constant)
		if err != nil {
			return 0, fmt.Errorf(".%s: %w", fd.Name, err)
		}
		n.constant = c
	}
	if fd.Default != "" {
		d, err := a.registry.Default(t, fd.Default)
		if err != nil {
			return 0, fmt.Errorf(".%s: %w", fd.Name, err)
		}
		n.def = d
	}
	return id, nil
}

// offsets returns the offsets of n when it directly follows a sibling ending at serEnd and
// desEnd. Static fields with an explicit serialized position keep that position.
func offsets(n *node, serEnd, desEnd uint64) (ser, des uint64) {
	ser = serEnd
	if n.hasSerPos && n.kind == kindStatic {
		ser = n.serPos
	}
	return ser, layout.AlignUp(desEnd, n.align)
}

// layoutStruct places the children of node id one after another and computes the sizes and
// leaf count of the struct from them.
func (a *StructAccess) layoutStruct(id int) {
	n := &a.nodes[id]

	var serEnd, desEnd, serMax, desMax, leaves uint64
	for _, cid := range n.children {
		ch := &a.nodes[cid]
		ch.serOff, ch.desOff = offsets(ch, serEnd, desEnd)
		serEnd = ch.serOff + a.serBits(ch)
		desEnd = ch.desOff + a.desBits(ch)
		serMax = max(serMax, serEnd)
		desMax = max(desMax, desEnd)

		ch.beginLeaf = leaves
		leaves += ch.leaves()
	}
	finishStruct(n, serMax, desMax, leaves)
}

// finishStruct sets the sizes of struct n from the end of its last child.
func finishStruct(n *node, serEnd, desEnd, leaves uint64) {
	n.leafCount = leaves
	n.serType = serEnd
	n.serUsed = serEnd
	n.desType = desEnd
	n.desAligned = layout.AlignUp(desEnd, n.structAlign)
}

// clone returns a copy of a whose nodes can be changed without changing a. The children
// slices are shared, they never change after New().
func (a *StructAccess) clone() *StructAccess {
	c := *a
	c.nodes = make([]node, len(a.nodes))
	copy(c.nodes, a.nodes)
	return &c
}
