// Package model is the output of a compilation run: generated type
// definitions with their properties, plus references to primitives,
// collections and externally defined types. It carries no rendering logic.
package model

// Doc is cosmetic title/description text copied from the schema.
type Doc struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func (d Doc) IsZero() bool { return d.Title == "" && d.Description == "" }

// Definition is a generated type. Generated object types are abstract
// classes (the immutable implementation is derived by the emitter); enums
// carry constants instead of properties.
type Definition struct {
	Name      string
	Namespace string
	DefKind   TypeKind
	Abstract  bool

	// Supertype is always interface-kind.
	Supertype       Type
	Properties      []*Property
	ExtraInterfaces []string
	Doc             Doc

	// Required is the declaring node's "required" array, recorded before
	// properties are compiled.
	Required []string
	// TypeInfoProperty names the discriminator property used for
	// polymorphic deserialization ("deserializationClassProperty").
	TypeInfoProperty string

	EnumValueType Type
	EnumConstants []EnumConstant

	// Source is uri#pointer of the schema node this definition came from.
	Source string
}

func (d *Definition) Kind() TypeKind { return d.DefKind }
func (d *Definition) Final() bool    { return false }
func (*Definition) isType()          {}

func (d *Definition) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// ImplementationName is the name of the generated immutable implementation.
func (d *Definition) ImplementationName() string { return "Immutable" + d.Name }

// Property looks a property up by JSON name.
func (d *Definition) Property(name string) *Property {
	for _, p := range d.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddInterface appends an interface name once.
func (d *Definition) AddInterface(name string) {
	for _, n := range d.ExtraInterfaces {
		if n == name {
			return
		}
	}
	d.ExtraInterfaces = append(d.ExtraInterfaces, name)
}

// IsRequired reports whether name appears in the Required array.
func (d *Definition) IsRequired(name string) bool {
	for _, r := range d.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property is one accessor of a Definition.
type Property struct {
	// Name is the JSON property name.
	Name     string
	Accessor string
	Type     Type
	Required bool
	Nullable bool
	// Default is nil when the schema has no usable default.
	Default Expr
	Doc     Doc
	// Rename is the explicit "javaName" override, if any.
	Rename string
}

// Abstract reports an accessor without a fixed default.
func (p *Property) Abstract() bool { return p.Default == nil }

// EnumConstant is one enum member.
type EnumConstant struct {
	Name  string
	Value Literal
}
