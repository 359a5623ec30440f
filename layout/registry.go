package layout

import (
	"strings"
	"sync"

	"github.com/bearlytools/ddlcodec/errors"
	"github.com/bearlytools/ddlcodec/field"
	"github.com/bearlytools/ddlcodec/mapping"
	"github.com/bearlytools/ddlcodec/value"
)

// TypeInfo is the metadata of a type. TypeInfo is immutable once interned in a Registry, so
// layouts can hold onto it for their whole lifetime.
type TypeInfo struct {
	// Name is the name of the data type, enum or struct.
	Name string
	// Category is the scalar category, or field.FTStruct.
	Category field.Type
	// BitSize is the serialized size of one element of the type.
	BitSize uint64
	// Enum holds the enum elements in description order. It is nil for non enums.
	Enum []EnumSymbol

	symbols map[string]value.Value
}

// EnumSymbol is an enum element with its value converted to the enum's type.
type EnumSymbol struct {
	Name  string
	Value value.Value
}

// IsEnum reports if the type is an enumeration.
func (t *TypeInfo) IsEnum() bool {
	return t.symbols != nil
}

// Symbol returns the value of the enum element called name. Names are case sensitive.
func (t *TypeInfo) Symbol(name string) (value.Value, bool) {
	v, ok := t.symbols[name]
	return v, ok
}

// SymbolOf returns the name of the first enum element with value v.
func (t *TypeInfo) SymbolOf(v value.Value) (string, bool) {
	for _, s := range t.Enum {
		if s.Value.Bits() == v.Bits() {
			return s.Name, true
		}
	}
	return "", false
}

// ConstantInfo is the metadata of a field that is fixed to one enum value.
type ConstantInfo struct {
	// Name is the name of the enum element.
	Name  string
	Value value.Value
}

// DefaultInfo is the metadata of a default value.
type DefaultInfo struct {
	// Raw is the default as written in the description.
	Raw   string
	Value value.Value
}

// Registry interns the metadata of types, constants and default values by name. Layout
// trees built with the same Registry share the metadata. Entries are never changed once
// interned: a description that is edited after a layout tree was built is not seen until the
// entry is dropped with Forget() and a new tree is built.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]*TypeInfo
	constants map[string]*ConstantInfo
	defaults  map[string]*DefaultInfo
}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:     map[string]*TypeInfo{},
		constants: map[string]*ConstantInfo{},
		defaults:  map[string]*DefaultInfo{},
	}
}

// Type returns the interned type called name.
func (r *Registry) Type(name string) (*TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Len is the number of interned types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Forget drops the type called name and every constant and default value of it.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.types, name)
	for k := range r.constants {
		if typeOfKey(k) == name {
			delete(r.constants, k)
		}
	}
	for k := range r.defaults {
		if typeOfKey(k) == name {
			delete(r.defaults, k)
		}
	}
}

func key(typeName, s string) string {
	return typeName + "\x00" + s
}

func typeOfKey(k string) string {
	name, _, _ := strings.Cut(k, "\x00")
	return name
}

func (r *Registry) intern(name string, build func() (*TypeInfo, error)) (*TypeInfo, error) {
	if t, ok := r.Type(name); ok {
		return t, nil
	}

	t, err := build()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Someone else might have beaten us to it, first one wins.
	if existing, ok := r.types[name]; ok {
		return existing, nil
	}
	r.types[name] = t
	return t, nil
}

// DataType interns a scalar data type.
func (r *Registry) DataType(d *mapping.DataType) (*TypeInfo, error) {
	return r.intern(d.Name, func() (*TypeInfo, error) {
		if !field.IsScalar(d.Type) {
			return nil, errors.Newf(errors.CatUser, errors.TypeUnsupportedType, "data type %q has category %v", d.Name, d.Type)
		}
		return &TypeInfo{Name: d.Name, Category: d.Type, BitSize: d.Bits()}, nil
	})
}

// Enum interns an enumeration type.
func (r *Registry) Enum(e *mapping.EnumType) (*TypeInfo, error) {
	return r.intern(e.Name, func() (*TypeInfo, error) {
		if e.DataType == nil {
			return nil, errors.Newf(errors.CatUser, errors.TypeParameter, "enum %q has no data type", e.Name)
		}
		t := &TypeInfo{
			Name:     e.Name,
			Category: e.DataType.Type,
			BitSize:  e.DataType.Bits(),
			Enum:     make([]EnumSymbol, 0, len(e.Elements)),
			symbols:  make(map[string]value.Value, len(e.Elements)),
		}
		for _, el := range e.Elements {
			v, err := value.Parse(t.Category, el.Value)
			if err != nil {
				return nil, errors.Wrap(errors.CatUser, errors.TypeParameter, err)
			}
			t.Enum = append(t.Enum, EnumSymbol{Name: el.Name, Value: v})
			if _, ok := t.symbols[el.Name]; !ok {
				t.symbols[el.Name] = v
			}
		}
		return t, nil
	})
}

// Struct interns a struct type. bitSize is the serialized size of the struct.
func (r *Registry) Struct(m *mapping.Map, bitSize uint64) (*TypeInfo, error) {
	return r.intern(m.Name, func() (*TypeInfo, error) {
		return &TypeInfo{Name: m.Name, Category: field.FTStruct, BitSize: bitSize}, nil
	})
}

// Constant interns the constant of enum type t that is fixed to the element called name.
func (r *Registry) Constant(t *TypeInfo, name string) (*ConstantInfo, error) {
	k := key(t.Name, name)

	r.mu.RLock()
	c, ok := r.constants[k]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, ok := t.Symbol(name)
	if !ok {
		return nil, errors.Newf(errors.CatUser, errors.TypeIndexNotFound, "constant %q is not an element of %q", name, t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.constants[k]; ok {
		return c, nil
	}
	c = &ConstantInfo{Name: name, Value: v}
	r.constants[k] = c
	return c, nil
}

// Default interns a default value of type t. raw can be an enum element name if t is an enum.
func (r *Registry) Default(t *TypeInfo, raw string) (*DefaultInfo, error) {
	k := key(t.Name, raw)

	r.mu.RLock()
	d, ok := r.defaults[k]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}

	v, ok := t.Symbol(raw)
	if !ok {
		var err error
		v, err = value.Parse(t.Category, raw)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.defaults[k]; ok {
		return d, nil
	}
	d = &DefaultInfo{Raw: raw, Value: v}
	r.defaults[k] = d
	return d, nil
}
