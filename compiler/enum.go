package compiler

import (
	"strings"

	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/naming"
	"github.com/reoring/immuskema/schema"
)

// compileEnum produces an enum definition. Null members are skipped;
// "javaEnumNames" overrides the derived constant names positionally.
func (c *Compiler) compileEnum(name string, n *schema.Node) (model.Type, error) {
	if e, ok := c.memo[n]; ok {
		return e.typ, nil
	}
	if ex := n.Get("existingJavaType"); ex.IsString() {
		t := c.catalog.Lookup(ex.Text())
		c.remember(n, stateCompiled, t)
		return t, nil
	}
	values := n.Get("enum")
	if !values.IsArray() {
		return nil, newError(CodeMalformedSchema, values, nil, "enum must be an array")
	}

	vt := c.enumValueType(n)
	var (
		lits  []model.Literal
		texts []string
	)
	for _, v := range values.Items() {
		if v.IsNull() {
			continue
		}
		lit, err := enumLiteral(v, vt)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
		texts = append(texts, v.Text())
	}
	names := naming.ConstantNames(texts)
	if custom := n.Get("javaEnumNames"); custom.IsArray() {
		if custom.Len() != len(lits) {
			return nil, newError(CodeMalformedSchema, custom, nil, "javaEnumNames has %d entries for %d enum values", custom.Len(), len(lits))
		}
		names = explicitConstantNames(custom.Strings())
	}

	def, fresh, err := c.allocate(name, n, model.KindEnum)
	if err != nil {
		return nil, err
	}
	if !fresh {
		c.remember(n, stateCompiled, def)
		return def, nil
	}
	c.remember(n, stateCompiled, def)
	def.Doc = docOf(n)
	def.EnumValueType = vt
	for i, lit := range lits {
		def.EnumConstants = append(def.EnumConstants, model.EnumConstant{Name: names[i], Value: lit})
	}
	return def, nil
}

// enumValueType is the unboxed scalar type the enum values are read as.
func (c *Compiler) enumValueType(n *schema.Node) model.Type {
	switch typeName(n) {
	case "integer":
		return c.integerType(n)
	case "number":
		return model.Unboxed(c.numberType())
	case "boolean":
		return model.Primitive{Of: model.Boolean}
	}
	return c.catalog.Lookup("java.lang.String")
}

func enumLiteral(v *schema.Node, vt model.Type) (model.Literal, error) {
	p, ok := vt.(model.Primitive)
	big := vt.QualifiedName()
	switch {
	case !ok && big != "java.math.BigInteger" && big != "java.math.BigDecimal":
		if v.IsArray() || v.IsObject() {
			return model.Literal{}, newError(CodeMalformedSchema, v, nil, "enum values must be scalars")
		}
		return model.Literal{Of: model.LitString, Text: v.Text()}, nil
	case big == "java.math.BigInteger" || ok && p.IsIntegral():
		if !v.IsIntegral() {
			return model.Literal{}, newError(CodeMalformedSchema, v, nil, "enum value %q is not an integer", v.Text())
		}
		return model.Literal{Of: model.LitInt, Text: v.Text()}, nil
	case big == "java.math.BigDecimal" || p.IsFloating():
		if !v.IsNumber() {
			return model.Literal{}, newError(CodeMalformedSchema, v, nil, "enum value %q is not a number", v.Text())
		}
		return model.Literal{Of: model.LitFloat, Text: v.Text()}, nil
	default:
		if !v.IsBool() {
			return model.Literal{}, newError(CodeMalformedSchema, v, nil, "enum value %q is not a boolean", v.Text())
		}
		return model.Literal{Of: model.LitBool, Text: v.Text()}, nil
	}
}

func explicitConstantNames(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		name := naming.ReplaceIllegal(strings.TrimSpace(s))
		if name == "" {
			name = "__EMPTY__"
		}
		for seen[name] {
			name = naming.MakeUnique(name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
