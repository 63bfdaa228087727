package schema

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader fetches raw document bytes for a URI.
type Loader interface {
	Load(uri string) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(uri string) ([]byte, error)

func (f LoaderFunc) Load(uri string) ([]byte, error) { return f(uri) }

// FileLoader reads plain paths and file:// URIs from the local filesystem.
type FileLoader struct{}

func (FileLoader) Load(uri string) ([]byte, error) {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		p = u.Path
	}
	return os.ReadFile(filepath.FromSlash(p))
}

// MapLoader serves documents from memory, keyed by URI.
type MapLoader map[string][]byte

func (m MapLoader) Load(uri string) ([]byte, error) {
	b, ok := m[uri]
	if !ok {
		return nil, fmt.Errorf("schema: %s: %w", uri, os.ErrNotExist)
	}
	return b, nil
}

// Store loads and caches documents so every node keeps a single identity
// across all $ref lookups of one compilation run. A Store is not safe for
// concurrent use.
type Store struct {
	loader Loader
	docs   map[string]*Document
}

// NewStore returns a Store backed by l; nil means FileLoader.
func NewStore(l Loader) *Store {
	if l == nil {
		l = FileLoader{}
	}
	return &Store{loader: l, docs: make(map[string]*Document)}
}

// Add registers an already parsed document under its URI.
func (s *Store) Add(doc *Document) {
	s.docs[doc.URI] = doc
}

// Document returns the cached document for uri, loading it on first use.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func (s *Store) Document(uri string) (*Document, error) {
	if d, ok := s.docs[uri]; ok {
		return d, nil
	}
	data, err := s.loader.Load(uri)
	if err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", uri, err)
	}
	d, err := Parse(uri, data)
	if err != nil {
		return nil, err
	}
	s.docs[uri] = d
	return d, nil
}

// Parse picks the decoder from the URI extension.
func Parse(uri string, data []byte) (*Document, error) {
	switch strings.ToLower(path.Ext(stripFragment(uri))) {
	case ".yaml", ".yml":
		return ParseYAML(uri, data)
	default:
		return ParseJSON(uri, data)
	}
}

// Ref is a parsed $ref value.
type Ref struct {
	URI      string // document URI, resolved against the referring document
	Fragment string
}

// SplitRef resolves ref against the document that contains from.
func SplitRef(from *Node, ref string) (Ref, error) {
	base := ""
	if from != nil && from.Document() != nil {
		base = from.Document().URI
	}
	target, frag, _ := strings.Cut(ref, "#")
	if target == "" {
		return Ref{URI: base, Fragment: frag}, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return Ref{}, fmt.Errorf("schema: bad $ref %q: %w", ref, err)
	}
	if base == "" || u.IsAbs() {
		return Ref{URI: u.String(), Fragment: frag}, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return Ref{}, fmt.Errorf("schema: bad base URI %q: %w", base, err)
	}
	if b.Scheme != "" {
		return Ref{URI: b.ResolveReference(u).String(), Fragment: frag}, nil
	}
	// plain filesystem-style paths stay relative
	if path.IsAbs(target) {
		return Ref{URI: path.Clean(target), Fragment: frag}, nil
	}
	return Ref{URI: path.Join(path.Dir(stripFragment(base)), target), Fragment: frag}, nil
}

// Resolve follows a single $ref from the node that declares it.
func (s *Store) Resolve(from *Node, ref, delims string) (*Node, error) {
	r, err := SplitRef(from, ref)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document(r.URI)
	if err != nil {
		return nil, err
	}
	return Lookup(doc.Root, r.Fragment, delims)
}

func stripFragment(uri string) string {
	u, _, _ := strings.Cut(uri, "#")
	return u
}
