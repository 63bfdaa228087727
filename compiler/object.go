package compiler

import (
	"strings"

	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// compileObject produces the definition of an object schema. Definitions are
// memoized by node: a node reached again while its own properties are still
// being compiled yields the same (incomplete) definition, which is how
// recursive structures terminate.
func (c *Compiler) compileObject(name string, n *schema.Node) (model.Type, error) {
	if e, ok := c.memo[n]; ok {
		if e.state == stateSupertype {
			return nil, newError(CodeCyclicReference, n, nil, "%q extends itself", name)
		}
		if e.state == stateInProgress {
			c.log.Debug("forward reference", "type", e.typ.QualifiedName())
		} else {
			c.log.Debug("memo hit", "type", e.typ.QualifiedName())
		}
		return e.typ, nil
	}

	if n.Has("extendsJavaClass") {
		return nil, newError(CodeUnsupportedExtension, n, nil, "extendsJavaClass is not supported, use extends or javaInterfaces")
	}

	var super model.Type
	if ext := n.Get("extends"); ext != nil {
		c.remember(n, stateSupertype, nil)
		st, err := c.resolveType(name+"Parent", ext)
		c.forget(n)
		if err != nil {
			return nil, err
		}
		// A schema extending a primitive or final type is that type.
		if st.Kind() == model.KindPrimitive || st.Final() {
			c.log.Debug("object aliased to supertype", "name", name, "type", st.QualifiedName())
			c.remember(n, stateCompiled, st)
			return st, nil
		}
		if st.Kind() != model.KindInterface {
			return nil, newError(CodeInvalidSupertype, ext, nil, "cannot extend %s %s, only interfaces can be supertypes", st.Kind(), st.QualifiedName())
		}
		super = st
	}

	if ex := n.Get("existingJavaType"); ex != nil {
		t := c.catalog.Lookup(ex.Text())
		c.remember(n, stateCompiled, t)
		return t, nil
	}

	def, fresh, err := c.allocate(name, n, model.KindClass)
	if err != nil {
		return nil, err
	}
	if !fresh {
		c.remember(n, stateCompiled, def)
		return def, nil
	}
	c.remember(n, stateInProgress, def)

	def.Abstract = true
	def.Supertype = super
	def.Doc = docOf(n)
	def.Required = requiredNames(n)
	if tp := n.Get("deserializationClassProperty"); tp.IsString() {
		def.TypeInfoProperty = tp.Text()
	}

	props := n.Get("properties")
	if props != nil && !props.IsObject() {
		return nil, newError(CodeMalformedSchema, props, nil, "properties must be an object")
	}
	for _, key := range props.Keys() {
		p, err := c.compileProperty(key, props.Get(key), def)
		if err != nil {
			return nil, err
		}
		def.Properties = append(def.Properties, p)
	}

	for _, iface := range n.Get("javaInterfaces").Strings() {
		if iface = strings.TrimSpace(iface); iface != "" {
			def.AddInterface(iface)
		}
	}

	c.remember(n, stateCompiled, def)
	return def, nil
}

// allocate creates and registers a definition for n. An explicit
// "javaType" names the definition exactly (prefix and suffix still apply to
// the simple name); otherwise the name is derived and made unique.
// When "javaType" names a definition that already exists, that definition
// is returned with fresh set to false.
func (c *Compiler) allocate(name string, n *schema.Node, kind model.TypeKind) (def *model.Definition, fresh bool, err error) {
	if jt := n.Get("javaType"); jt != nil {
		fqn := strings.TrimSpace(jt.Text())
		if fqn == "" {
			return nil, false, newError(CodeMalformedSchema, jt, nil, "javaType must be a non-empty string")
		}
		if _, ok := model.PrimitiveByName(fqn); ok {
			return nil, false, newError(CodeMalformedSchema, jt, nil, "javaType cannot refer to primitive type %q, use existingJavaType", fqn)
		}
		if strings.ContainsAny(fqn, "<>") {
			return nil, false, newError(CodeMalformedSchema, jt, nil, "javaType cannot be generic (%q), use existingJavaType", fqn)
		}
		ns, simple := c.policy.Decorate(fqn)
		if ns == "" {
			ns = c.namespace
		}
		key := simple
		if ns != "" {
			key = ns + "." + simple
		}
		if d, ok := c.byName[key]; ok {
			return d, false, nil
		}
		if !c.names.Reserve(simple, ns) {
			return nil, false, newError(CodeMalformedSchema, jt, nil, "javaType %q is already taken", key)
		}
		def = &model.Definition{Name: simple, Namespace: ns, DefKind: kind, Source: n.Location()}
		c.register(def)
		return def, true, nil
	}

	candidate := c.policy.ClassName(name, n.Get("javaName").Text())
	final, err := c.names.Allocate(candidate, c.namespace)
	if err != nil {
		return nil, false, newError(CodeNameAllocationExhausted, n, err, "cannot allocate a name for %q", candidate)
	}
	def = &model.Definition{Name: final, Namespace: c.namespace, DefKind: kind, Source: n.Location()}
	c.register(def)
	return def, true, nil
}

// requiredNames reads the "required" array of an object node.
func requiredNames(n *schema.Node) []string {
	r := n.Get("required")
	if !r.IsArray() {
		return nil
	}
	return r.Strings()
}

func docOf(n *schema.Node) model.Doc {
	d := model.Doc{}
	if t := n.Get("title"); t.IsString() {
		d.Title = t.Text()
	}
	if t := n.Get("description"); t.IsString() {
		d.Description = t.Text()
	}
	return d
}
