package schema

import (
	"strconv"
	"strings"
)

// Kind identifies the JSON shape of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Document is one loaded schema document.
type Document struct {
	URI  string
	Root *Node

	duplicates []DuplicateKey
}

// DuplicateKey is a key that appeared more than once in one object.
type DuplicateKey struct {
	Object *Node
	Key    string
}

// Duplicates lists repeated object keys in document order.
func (d *Document) Duplicates() []DuplicateKey {
	return append([]DuplicateKey(nil), d.duplicates...)
}

// Node is a read-only view over a document subtree. Object keys keep their
// document order. Pointer identity is stable for the lifetime of the Store
// that loaded the document, so *Node is usable as a map key.
type Node struct {
	kind   Kind
	keys   []string
	fields map[string]*Node
	items  []*Node
	dups   []string
	scalar string // string value, or number text
	b      bool

	doc       *Document
	ptr       string
	line, col int
}

func newObject() *Node            { return &Node{kind: KindObject, fields: map[string]*Node{}} }
func newArray() *Node             { return &Node{kind: KindArray} }
func newString(s string) *Node    { return &Node{kind: KindString, scalar: s} }
func newNumber(text string) *Node { return &Node{kind: KindNumber, scalar: text} }
func newBool(b bool) *Node        { return &Node{kind: KindBool, b: b} }
func newNull() *Node              { return &Node{kind: KindNull} }

// set stores key. A repeated key keeps its first position and takes the last value.
func (n *Node) set(key string, child *Node) {
	if _, ok := n.fields[key]; ok {
		n.dups = append(n.dups, key)
	} else {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

func (n *Node) setIfAbsent(key string, child *Node) {
	if _, ok := n.fields[key]; ok {
		return
	}
	n.set(key, child)
}

// attach records the owning document and JSON Pointer of every node below n.
// Shared nodes (YAML aliases) keep the location of their first occurrence.
func (n *Node) attach(doc *Document, ptr string) {
	if n == nil || n.doc != nil {
		return
	}
	n.doc = doc
	n.ptr = ptr
	switch n.kind {
	case KindObject:
		for _, k := range n.dups {
			doc.duplicates = append(doc.duplicates, DuplicateKey{Object: n, Key: k})
		}
		for _, k := range n.keys {
			n.fields[k].attach(doc, ptr+"/"+escapeToken(k))
		}
	case KindArray:
		for i, it := range n.items {
			it.attach(doc, ptr+"/"+strconv.Itoa(i))
		}
	}
}

func (n *Node) Kind() Kind { return n.kind }

// Document returns the document that owns n.
func (n *Node) Document() *Document { return n.doc }

// Pointer returns the JSON Pointer of n inside its document ("" for the root).
func (n *Node) Pointer() string { return n.ptr }

// Position returns the 1-based line and column when the source format
// tracks them, zeros otherwise.
func (n *Node) Position() (line, col int) { return n.line, n.col }

// Location renders uri#pointer for diagnostics.
func (n *Node) Location() string {
	if n == nil {
		return ""
	}
	uri := ""
	if n.doc != nil {
		uri = n.doc.URI
	}
	return uri + "#" + n.ptr
}

func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.kind == KindArray }
func (n *Node) IsString() bool { return n != nil && n.kind == KindString }
func (n *Node) IsNumber() bool { return n != nil && n.kind == KindNumber }
func (n *Node) IsBool() bool   { return n != nil && n.kind == KindBool }
func (n *Node) IsNull() bool   { return n != nil && n.kind == KindNull }

// Has reports whether an object node carries key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindObject {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Get returns the child under key, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.fields[key]
}

// Keys returns object keys in document order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Items returns array elements.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	return append([]*Node(nil), n.items...)
}

// Len is the number of keys or items.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	}
	return 0
}

// Text is the lenient textual value: strings as-is, numbers as written,
// booleans as "true"/"false", and "" for null and containers.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case KindString, KindNumber:
		return n.scalar
	case KindBool:
		return strconv.FormatBool(n.b)
	}
	return ""
}

// Truthy is the lenient boolean value: booleans as-is, non-zero numbers,
// and the string "true" (case-insensitive, trimmed).
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		f, err := strconv.ParseFloat(n.scalar, 64)
		return err == nil && f != 0
	case KindString:
		return strings.EqualFold(strings.TrimSpace(n.scalar), "true")
	}
	return false
}

// Number returns the number text of a number node.
func (n *Node) Number() (string, bool) {
	if !n.IsNumber() {
		return "", false
	}
	return n.scalar, true
}

// IsIntegral reports a number written without fraction or exponent.
func (n *Node) IsIntegral() bool {
	if !n.IsNumber() {
		return false
	}
	return !strings.ContainsAny(n.scalar, ".eE")
}

// Strings collects the Text of each array element.
func (n *Node) Strings() []string {
	if !n.IsArray() {
		return nil
	}
	out := make([]string, 0, len(n.items))
	for _, it := range n.items {
		out = append(out, it.Text())
	}
	return out
}
