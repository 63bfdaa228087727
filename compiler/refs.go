package compiler

import (
	"net/url"
	"path"
	"strings"

	"github.com/reoring/immuskema/schema"
)

// resolveRef follows the $ref chain starting at n to the first node that is
// not itself a reference. It returns that node and the last $ref text seen
// ("" when n is not a reference). A chain that revisits a node is a cyclic
// reference.
func (c *Compiler) resolveRef(n *schema.Node) (*schema.Node, string, error) {
	var (
		last  string
		chain []string
		seen  = map[*schema.Node]bool{}
	)
	cur := n
	for cur.Has("$ref") {
		if seen[cur] {
			chain = append(chain, cur.Location())
			return nil, "", newError(CodeCyclicReference, n, nil, "$ref chain never reaches a schema: %s", strings.Join(chain, " -> "))
		}
		seen[cur] = true
		chain = append(chain, cur.Location())

		refNode := cur.Get("$ref")
		if !refNode.IsString() {
			return nil, "", newError(CodeMalformedSchema, cur, nil, "$ref must be a string")
		}
		ref := refNode.Text()
		next, err := c.store.Resolve(cur, ref, c.cfg.RefFragmentPathDelimiters)
		if err != nil {
			return nil, "", newError(CodeMalformedSchema, cur, err, "unresolvable $ref %q", ref)
		}
		if next.Document() != cur.Document() {
			if err := c.checkDocument(next.Document()); err != nil {
				return nil, "", err
			}
		}
		last, cur = ref, next
	}
	return cur, last, nil
}

// refName derives a type name from a $ref: the last fragment segment, or
// the referenced file's base name when there is no fragment. A bare "#"
// keeps the name of the referring node.
func (c *Compiler) refName(ref, fallback string) string {
	if ref == "" || ref == "#" {
		return fallback
	}
	target, frag, hasFrag := strings.Cut(ref, "#")
	name := ""
	if hasFrag {
		if segs := schema.FragmentSegments(frag, c.cfg.RefFragmentPathDelimiters); len(segs) > 0 {
			name = segs[len(segs)-1]
		}
	}
	if name == "" && target != "" {
		base := path.Base(target)
		name = strings.TrimSuffix(base, path.Ext(base))
	}
	if name == "" {
		return fallback
	}
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	return name
}
