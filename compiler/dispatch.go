package compiler

import (
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

type nodeClass int

const (
	classScalar nodeClass = iota
	classReference
	classEnum
	classObject
	classArray
)

// classify picks the rule for a schema node. A node with "properties" is an
// object even without "type".
func classify(n *schema.Node) nodeClass {
	switch {
	case n.Has("$ref"):
		return classReference
	case n.Has("enum"):
		return classEnum
	}
	switch typeName(n) {
	case "object":
		return classObject
	case "array":
		return classArray
	}
	if n.Get("properties").Len() > 0 {
		return classObject
	}
	return classScalar
}

// typeName reads the "type" of n.
func typeName(n *schema.Node) string { return typeText(n.Get("type")) }

// typeText reads a "type" value: a string, or the first non-"null" entry of
// an array. Missing or unusable values read as "any".
func typeText(t *schema.Node) string {
	switch {
	case t.IsString():
		return t.Text()
	case t.IsArray():
		for _, it := range t.Items() {
			if it.Text() != "null" {
				return it.Text()
			}
		}
		if t.Len() > 0 {
			return "null"
		}
	}
	return "any"
}

// resolveType maps a schema node to a type, compiling new definitions as
// needed.
func (c *Compiler) resolveType(name string, n *schema.Node) (model.Type, error) {
	if n == nil {
		return c.catalog.Lookup("java.lang.Object"), nil
	}
	if !n.IsObject() {
		return nil, newError(CodeMalformedSchema, n, nil, "schema must be an object, got %s", n.Kind())
	}
	switch classify(n) {
	case classReference:
		target, ref, err := c.resolveRef(n)
		if err != nil {
			return nil, err
		}
		return c.resolveType(c.refName(ref, name), target)
	case classEnum:
		return c.compileEnum(name, n)
	case classObject:
		return c.compileObject(name, n)
	case classArray:
		return c.compileArray(name, n)
	}
	return c.compileScalar(n)
}
