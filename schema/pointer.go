package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// DefaultFragmentDelimiters splits $ref fragments such as "#/definitions/a"
// or "#definitions.a".
const DefaultFragmentDelimiters = "#/."

// ErrNotFound reports a fragment that does not address a node.
var ErrNotFound = errors.New("schema: node not found")

// escapeToken escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// JSONLookup lets jsonpointer walk node trees.
func (n Node) JSONLookup(token string) (any, error) {
	switch n.kind {
	case KindObject:
		if c, ok := n.fields[token]; ok {
			return c, nil
		}
	case KindArray:
		i, err := strconv.Atoi(token)
		if err == nil && i >= 0 && i < len(n.items) {
			return n.items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q under %s", ErrNotFound, token, n.Location())
}

// FragmentSegments splits a $ref fragment on any of delims. Empty segments
// are dropped, so "#", "" and "#/" all address the root.
func FragmentSegments(fragment, delims string) []string {
	if delims == "" {
		delims = DefaultFragmentDelimiters
	}
	return strings.FieldsFunc(fragment, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
}

// Lookup resolves a $ref fragment against root.
func Lookup(root *Node, fragment, delims string) (*Node, error) {
	segs := FragmentSegments(fragment, delims)
	if len(segs) == 0 {
		return root, nil
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(escapeToken(s))
	}
	p, err := jsonpointer.New(b.String())
	if err != nil {
		return nil, fmt.Errorf("schema: fragment %q: %w", fragment, err)
	}
	v, _, err := p.Get(root)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fragment %q: %v", ErrNotFound, fragment, err)
	}
	n, ok := v.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: fragment %q", ErrNotFound, fragment)
	}
	return n, nil
}
