package compiler

import (
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/naming"
	"github.com/reoring/immuskema/schema"
)

// compileArray maps an array schema to a list, or a set when uniqueItems is
// set. The item schema is named after the singular form of name.
func (c *Compiler) compileArray(name string, n *schema.Node) (model.Type, error) {
	of := model.List
	if n.Get("uniqueItems").Truthy() {
		of = model.Set
	}
	items := n.Get("items")
	var elem model.Type
	switch {
	case items == nil:
		elem = c.catalog.Lookup("java.lang.Object")
	case items.IsArray():
		c.diag.warnf("%s: tuple items are not supported, using java.lang.Object", items.Location())
		elem = c.catalog.Lookup("java.lang.Object")
	default:
		t, err := c.resolveType(naming.Singular(name), items)
		if err != nil {
			return nil, err
		}
		elem = t
	}
	if p, ok := elem.(model.Primitive); ok {
		elem = p.Box()
	}
	return &model.Collection{Of: of, Elem: elem}, nil
}
