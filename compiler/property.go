package compiler

import (
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// compileProperty builds one property of owner. Metadata keys are read
// from the property node first and then from its $ref target.
func (c *Compiler) compileProperty(name string, original *schema.Node, owner *model.Definition) (*model.Property, error) {
	if !original.IsObject() {
		return nil, newError(CodeMalformedSchema, original, nil, "property %q: schema must be an object", name)
	}
	t, err := c.resolveType(name, original)
	if err != nil {
		return nil, err
	}
	resolved, _, err := c.resolveRef(original)
	if err != nil {
		return nil, err
	}
	meta := func(key string) *schema.Node {
		if v := original.Get(key); v != nil {
			return v
		}
		return resolved.Get(key)
	}

	required := false
	if r := meta("required"); r != nil && !r.IsArray() && r.Truthy() {
		required = true
	} else if owner.IsRequired(name) {
		required = true
	}

	if p, ok := t.(model.Primitive); ok && !required {
		t = p.Box()
	}

	def, derr := synthesizeDefault(meta("default"), t)
	if derr != nil {
		return nil, derr
	}

	nullable := false
	if !required && def == nil {
		tn := meta("type")
		if tn == nil {
			return nil, newError(CodeMalformedSchema, original, nil, "property %q is optional without a default and declares no \"type\"", name)
		}
		nullable = typeText(tn) != "array"
	}

	rename := ""
	if jn := meta("javaName"); jn.IsString() {
		rename = jn.Text()
	}
	doc := model.Doc{}
	if v := meta("title"); v.IsString() {
		doc.Title = v.Text()
	}
	if v := meta("description"); v.IsString() {
		doc.Description = v.Text()
	}

	c.log.Debug("property", "owner", owner.Name, "name", name, "type", t.QualifiedName(), "required", required, "nullable", nullable)
	return &model.Property{
		Name:     name,
		Accessor: c.policy.Accessor(name, rename, t == model.Primitive{Of: model.Boolean}),
		Type:     t,
		Required: required,
		Nullable: nullable,
		Default:  def,
		Doc:      doc,
		Rename:   rename,
	}, nil
}
