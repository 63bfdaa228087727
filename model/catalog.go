package model

import "strings"

type catalogEntry struct {
	kind          TypeKind
	final         bool
	acceptsString bool
}

// Catalog knows the kind and finality of externally defined types. Types
// it has never heard of are treated as plain, non-final classes.
type Catalog struct {
	types map[string]catalogEntry
}

// NewCatalog returns a catalog seeded with the common platform types.
func NewCatalog() *Catalog {
	c := &Catalog{types: make(map[string]catalogEntry)}
	for _, n := range []string{
		"java.lang.Integer", "java.lang.Long", "java.lang.Double", "java.lang.Float",
		"java.lang.Boolean", "java.lang.Short", "java.lang.Byte", "java.lang.Character",
		"java.net.URI", "java.util.UUID", "java.util.regex.Pattern",
		"java.time.Instant", "java.time.LocalDate", "java.time.LocalTime",
		"java.time.LocalDateTime", "java.time.OffsetDateTime", "java.time.ZonedDateTime",
	} {
		c.Register(n, KindClass, true, false)
	}
	c.Register("java.lang.String", KindClass, true, true)
	c.Register("java.lang.Object", KindClass, false, true)
	c.Register("java.lang.CharSequence", KindInterface, false, true)
	c.Register("java.io.Serializable", KindInterface, false, true)
	c.Register("java.lang.Comparable", KindInterface, false, true)
	for _, n := range []string{
		"java.util.List", "java.util.Set", "java.util.Map", "java.util.Collection",
		"java.lang.Iterable", "java.lang.Cloneable",
	} {
		c.Register(n, KindInterface, false, false)
	}
	for _, n := range []string{"java.math.BigInteger", "java.math.BigDecimal", "java.lang.Number", "java.util.Date"} {
		c.Register(n, KindClass, false, false)
	}
	return c
}

// Register adds or replaces a type.
func (c *Catalog) Register(fqn string, kind TypeKind, final, acceptsString bool) {
	c.types[fqn] = catalogEntry{kind: kind, final: final, acceptsString: acceptsString}
}

// Lookup resolves a type name, which may carry a generic tail. Primitive
// names yield a Primitive; simple names fall back to java.lang.
func (c *Catalog) Lookup(name string) Type {
	name = strings.TrimSpace(name)
	base, params := name, ""
	if i := strings.IndexByte(name, '<'); i >= 0 {
		base, params = strings.TrimSpace(name[:i]), name[i:]
	}
	if p, ok := PrimitiveByName(base); ok && params == "" {
		return Primitive{Of: p}
	}
	e, ok := c.types[base]
	if !ok && !strings.Contains(base, ".") {
		if le, lok := c.types["java.lang."+base]; lok {
			base, e, ok = "java.lang."+base, le, true
		}
	}
	if !ok {
		return &Existing{FQN: base, Params: params, TypeKind: KindClass}
	}
	return &Existing{FQN: base, Params: params, TypeKind: e.kind, IsFinal: e.final, AcceptsString: e.acceptsString}
}

// AcceptsString reports whether a string literal can be assigned to t.
func AcceptsString(t Type) bool {
	e, ok := t.(*Existing)
	return ok && e.AcceptsString
}
