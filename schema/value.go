package schema

import (
	"encoding"
	"fmt"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"
)

// FromValue builds a document from an already decoded Go value
// (map[string]any / []any / scalars). Go maps carry no order, so object keys
// are sorted to keep compilation deterministic. Other values are marshaled
// to JSON first.
func FromValue(uri string, v any) (*Document, error) {
	if b, ok := v.([]byte); ok {
		return ParseJSON(uri, b)
	}
	root, err := nodeFromValue(v)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", uri, err)
	}
	doc := &Document{URI: uri, Root: root}
	root.attach(doc, "")
	return doc, nil
}

func nodeFromValue(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return newNull(), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := newObject()
		for _, k := range keys {
			child, err := nodeFromValue(t[k])
			if err != nil {
				return nil, err
			}
			obj.set(k, child)
		}
		return obj, nil
	case []any:
		arr := newArray()
		for _, it := range t {
			child, err := nodeFromValue(it)
			if err != nil {
				return nil, err
			}
			arr.items = append(arr.items, child)
		}
		return arr, nil
	case []string:
		arr := newArray()
		for _, s := range t {
			arr.items = append(arr.items, newString(s))
		}
		return arr, nil
	case string:
		return newString(t), nil
	case bool:
		return newBool(t), nil
	case j.Number:
		return newNumber(string(t)), nil
	case int:
		return newNumber(strconv.Itoa(t)), nil
	case int32:
		return newNumber(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return newNumber(strconv.FormatInt(t, 10)), nil
	case uint64:
		return newNumber(strconv.FormatUint(t, 10)), nil
	case float32:
		return newNumber(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case float64:
		return newNumber(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		if err != nil {
			return nil, err
		}
		return newString(string(b)), nil
	}
	// try json.Marshaler style
	b, err := j.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal %T: %w", v, err)
	}
	doc, err := ParseJSON("", b)
	if err != nil {
		return nil, err
	}
	doc.Root.detach()
	return doc.Root, nil
}

// detach clears document bookkeeping so the subtree can be attached elsewhere.
func (n *Node) detach() {
	if n == nil || n.doc == nil {
		return
	}
	n.doc, n.ptr = nil, ""
	for _, c := range n.fields {
		c.detach()
	}
	for _, c := range n.items {
		c.detach()
	}
}
