// Package gen renders compiled definitions as a JSON model manifest, the
// hand-off format for emitters that produce target-language source.
package gen

import (
	j "github.com/goccy/go-json"

	"github.com/reoring/immuskema/model"
)

// Manifest is the document written by the CLI.
type Manifest struct {
	Namespace string      `json:"namespace,omitempty"`
	Types     []TypeEntry `json:"types"`
}

// TypeEntry describes one generated definition.
type TypeEntry struct {
	Name             string          `json:"name"`
	QualifiedName    string          `json:"qualifiedName"`
	Kind             string          `json:"kind"`
	Abstract         bool            `json:"abstract,omitempty"`
	Implementation   string          `json:"implementation,omitempty"`
	Supertype        string          `json:"supertype,omitempty"`
	Interfaces       []string        `json:"interfaces,omitempty"`
	Doc              *model.Doc      `json:"doc,omitempty"`
	TypeInfoProperty string          `json:"typeInfoProperty,omitempty"`
	Properties       []PropertyEntry `json:"properties,omitempty"`
	EnumValueType    string          `json:"enumValueType,omitempty"`
	Constants        []ConstantEntry `json:"constants,omitempty"`
	Source           string          `json:"source,omitempty"`
}

// PropertyEntry describes one accessor.
type PropertyEntry struct {
	Name     string     `json:"name"`
	Accessor string     `json:"accessor"`
	Type     string     `json:"type"`
	Required bool       `json:"required,omitempty"`
	Nullable bool       `json:"nullable,omitempty"`
	Default  string     `json:"default,omitempty"`
	Doc      *model.Doc `json:"doc,omitempty"`
	Rename   string     `json:"rename,omitempty"`
}

// ConstantEntry is one enum member; Value is rendered as a source literal.
type ConstantEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Build converts definitions, keeping their order.
func Build(namespace string, types []*model.Definition) Manifest {
	m := Manifest{Namespace: namespace, Types: make([]TypeEntry, 0, len(types))}
	for _, d := range types {
		m.Types = append(m.Types, typeEntry(d))
	}
	return m
}

func typeEntry(d *model.Definition) TypeEntry {
	e := TypeEntry{
		Name:             d.Name,
		QualifiedName:    d.QualifiedName(),
		Kind:             d.Kind().String(),
		Abstract:         d.Abstract,
		Interfaces:       d.ExtraInterfaces,
		Doc:              docRef(d.Doc),
		TypeInfoProperty: d.TypeInfoProperty,
		Source:           d.Source,
	}
	if d.Kind() != model.KindEnum {
		e.Implementation = d.ImplementationName()
	}
	if d.Supertype != nil {
		e.Supertype = d.Supertype.QualifiedName()
	}
	for _, p := range d.Properties {
		pe := PropertyEntry{
			Name:     p.Name,
			Accessor: p.Accessor,
			Type:     p.Type.QualifiedName(),
			Required: p.Required,
			Nullable: p.Nullable,
			Doc:      docRef(p.Doc),
			Rename:   p.Rename,
		}
		if p.Default != nil {
			pe.Default = p.Default.String()
		}
		e.Properties = append(e.Properties, pe)
	}
	if d.EnumValueType != nil {
		e.EnumValueType = d.EnumValueType.QualifiedName()
	}
	for _, c := range d.EnumConstants {
		e.Constants = append(e.Constants, ConstantEntry{Name: c.Name, Value: c.Value.String()})
	}
	return e
}

func docRef(d model.Doc) *model.Doc {
	if d.IsZero() {
		return nil
	}
	return &d
}

// Render encodes m as indented JSON with a trailing newline.
func Render(m Manifest) ([]byte, error) {
	b, err := j.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// RenderTypes is Build followed by Render.
func RenderTypes(namespace string, types []*model.Definition) ([]byte, error) {
	return Render(Build(namespace, types))
}
