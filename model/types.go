package model

import "strings"

// TypeKind classifies a type for supertype checks.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindInterface
	KindClass
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// Type is the closed set of things a property or supertype can refer to:
// Primitive, *Existing, *Collection and *Definition.
type Type interface {
	Kind() TypeKind
	QualifiedName() string
	// Final reports a type that cannot be implemented or extended.
	Final() bool
	isType()
}

// PrimitiveKind enumerates the scalar primitives of the target model.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Int
	Long
	Float
	Double
)

var primitiveNames = [...]struct{ raw, boxed string }{
	Boolean: {"boolean", "java.lang.Boolean"},
	Int:     {"int", "java.lang.Integer"},
	Long:    {"long", "java.lang.Long"},
	Float:   {"float", "java.lang.Float"},
	Double:  {"double", "java.lang.Double"},
}

// PrimitiveByName maps "int", "long", ... to their kind.
func PrimitiveByName(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n.raw == name {
			return PrimitiveKind(k), true
		}
	}
	return 0, false
}

// Primitive is an unboxed scalar, or its boxed form when Boxed is set.
type Primitive struct {
	Of    PrimitiveKind
	Boxed bool
}

func (p Primitive) Kind() TypeKind { return KindPrimitive }
func (p Primitive) Final() bool    { return true }
func (Primitive) isType()          {}

func (p Primitive) QualifiedName() string {
	if p.Boxed {
		return primitiveNames[p.Of].boxed
	}
	return primitiveNames[p.Of].raw
}

// Box returns the boxed form.
func (p Primitive) Box() Primitive { return Primitive{Of: p.Of, Boxed: true} }

// Unbox returns the raw form.
func (p Primitive) Unbox() Primitive { return Primitive{Of: p.Of} }

// IsIntegral reports int and long.
func (p Primitive) IsIntegral() bool { return p.Of == Int || p.Of == Long }

// IsFloating reports float and double.
func (p Primitive) IsFloating() bool { return p.Of == Float || p.Of == Double }

// Existing is a type defined outside the generated model.
type Existing struct {
	FQN string
	// Params is the verbatim generic tail, e.g. "<String, Integer>".
	Params        string
	TypeKind      TypeKind
	IsFinal       bool
	AcceptsString bool
}

func (e *Existing) Kind() TypeKind        { return e.TypeKind }
func (e *Existing) Final() bool           { return e.IsFinal }
func (e *Existing) QualifiedName() string { return e.FQN + e.Params }
func (*Existing) isType()                 {}

// SimpleName is the FQN without its package.
func (e *Existing) SimpleName() string {
	if i := strings.LastIndexByte(e.FQN, '.'); i >= 0 {
		return e.FQN[i+1:]
	}
	return e.FQN
}

// CollectionKind selects the collection interface.
type CollectionKind int

const (
	List CollectionKind = iota
	Set
)

// Collection is a list or set of Elem. Collections are presented as
// possibly-empty values, never as null.
type Collection struct {
	Of   CollectionKind
	Elem Type
}

func (c *Collection) Kind() TypeKind { return KindInterface }
func (c *Collection) Final() bool    { return false }
func (*Collection) isType()          {}

func (c *Collection) QualifiedName() string {
	base := "java.util.List"
	if c.Of == Set {
		base = "java.util.Set"
	}
	return base + "<" + elemName(c.Elem) + ">"
}

func elemName(t Type) string {
	if p, ok := t.(Primitive); ok {
		return p.Box().QualifiedName()
	}
	return t.QualifiedName()
}

// Unboxed strips boxing from primitives and returns other types unchanged.
func Unboxed(t Type) Type {
	if p, ok := t.(Primitive); ok {
		return p.Unbox()
	}
	return t
}
