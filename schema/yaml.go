package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var jsonNumberText = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseYAML decodes the first document of a YAML stream. Anchored nodes and
// their aliases share one *Node.
func ParseYAML(uri string, data []byte) (*Document, error) {
	var top yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("schema: %s: invalid YAML: %w", uri, err)
	}
	if top.Kind == 0 || len(top.Content) == 0 {
		return nil, fmt.Errorf("schema: %s: empty YAML document", uri)
	}
	c := &yamlConverter{
		done:   make(map[*yaml.Node]*Node),
		active: make(map[*yaml.Node]bool),
	}
	root, err := c.convert(top.Content[0])
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", uri, err)
	}
	doc := &Document{URI: uri, Root: root}
	root.attach(doc, "")
	return doc, nil
}

type yamlConverter struct {
	done   map[*yaml.Node]*Node
	active map[*yaml.Node]bool
}

func (c *yamlConverter) convert(y *yaml.Node) (*Node, error) {
	if n, ok := c.done[y]; ok {
		return n, nil
	}
	if c.active[y] {
		return nil, fmt.Errorf("line %d: alias refers to itself", y.Line)
	}
	c.active[y] = true
	defer delete(c.active, y)

	var (
		n   *Node
		err error
	)
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, errors.New("empty document")
		}
		return c.convert(y.Content[0])
	case yaml.AliasNode:
		return c.convert(y.Alias)
	case yaml.MappingNode:
		n, err = c.mapping(y)
	case yaml.SequenceNode:
		n = newArray()
		for _, it := range y.Content {
			child, cerr := c.convert(it)
			if cerr != nil {
				return nil, cerr
			}
			n.items = append(n.items, child)
		}
	case yaml.ScalarNode:
		n, err = scalarFromYAML(y)
	default:
		err = fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
	}
	if err != nil {
		return nil, err
	}
	n.line, n.col = y.Line, y.Column
	c.done[y] = n
	return n, nil
}

func (c *yamlConverter) mapping(y *yaml.Node) (*Node, error) {
	obj := newObject()
	var merges []*yaml.Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		child, err := c.convert(v)
		if err != nil {
			return nil, err
		}
		obj.set(k.Value, child)
	}
	// explicit keys win over merged ones
	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			merged, err := c.convert(src)
			if err != nil {
				return nil, err
			}
			if !merged.IsObject() {
				return nil, fmt.Errorf("line %d: merge value is not a mapping", src.Line)
			}
			for _, key := range merged.keys {
				obj.setIfAbsent(key, merged.fields[key])
			}
		}
	}
	return obj, nil
}

func scalarFromYAML(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return newNull(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, err
		}
		return newBool(b), nil
	case "!!int":
		if jsonNumberText.MatchString(y.Value) {
			return newNumber(y.Value), nil
		}
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: integer %q: %w", y.Line, y.Value, err)
		}
		return newNumber(strconv.FormatInt(i, 10)), nil
	case "!!float":
		if jsonNumberText.MatchString(y.Value) {
			return newNumber(y.Value), nil
		}
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: float %q: %w", y.Line, y.Value, err)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !jsonNumberText.MatchString(s) {
			return nil, fmt.Errorf("line %d: non-finite number %q", y.Line, y.Value)
		}
		return newNumber(s), nil
	default:
		return newString(y.Value), nil
	}
}
