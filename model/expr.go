package model

import "strconv"

// Expr is a synthesized default: Literal or FactoryCall.
type Expr interface {
	String() string
	isExpr()
}

// LiteralKind is the scalar shape of a literal.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitInt
	LitFloat
	LitString
)

func (k LiteralKind) String() string {
	switch k {
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	}
	return "unknown"
}

// Literal keeps the canonical text of the value (unquoted for strings).
type Literal struct {
	Of   LiteralKind
	Text string
}

func (Literal) isExpr() {}

func (l Literal) String() string {
	if l.Of == LitString {
		return strconv.Quote(l.Text)
	}
	return l.Text
}

// Factory selects the static factory used to build a non-scalar default.
type Factory int

const (
	// FromNumber constructs from a numeric value.
	FromNumber Factory = iota
	// FromText constructs an enum from its textual value.
	FromText
	// FromString parses an arbitrary value type from a string.
	FromString
)

// Method is the factory method name on the target type.
func (f Factory) Method() string {
	if f == FromString {
		return "fromString"
	}
	return "fromValue"
}

// FactoryCall is Type.<factory>(Arg).
type FactoryCall struct {
	Type    Type
	Factory Factory
	Arg     Literal
}

func (FactoryCall) isExpr() {}

func (c FactoryCall) String() string {
	return c.Type.QualifiedName() + "." + c.Factory.Method() + "(" + c.Arg.String() + ")"
}
