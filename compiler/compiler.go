package compiler

import (
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/reoring/immuskema/config"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/naming"
	"github.com/reoring/immuskema/schema"
)

type visitState int

const (
	// stateSupertype marks an object node whose "extends" is being resolved
	// and that has no definition yet.
	stateSupertype visitState = iota + 1
	stateInProgress
	stateCompiled
)

type memoEntry struct {
	state visitState
	typ   model.Type
}

// Compiler is the context of one compilation run: it owns the name
// allocator, the node memo and the ordered list of generated definitions.
// Several documents may be compiled through the same Compiler; they then
// share names and memoized types. A Compiler is not safe for concurrent use.
type Compiler struct {
	cfg       *config.Config
	namespace string
	policy    naming.Policy
	names     *naming.Allocator
	catalog   *model.Catalog
	store     *schema.Store
	log       *slog.Logger
	diag      *simpleDiag

	memo    map[*schema.Node]*memoEntry
	byName  map[string]*model.Definition
	defs    []*model.Definition
	checked map[*schema.Document]bool

	// journal of the current Compile call, undone on failure
	touched    []*schema.Node
	newChecked []*schema.Document
	warnStart  int
}

// Result is the outcome of compiling one document.
type Result struct {
	// Root is the type of the document root. It is a *model.Definition for
	// object and enum roots and a value type otherwise.
	Root model.Type
	// Types lists the definitions created by this call in creation order.
	Types []*model.Definition
}

// New builds a Compiler from opts.
func New(opts Options) (*Compiler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ns := opts.Namespace
	if ns == "" {
		ns = cfg.Package
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalogFor(cfg)
	}
	store := opts.Store
	if store == nil {
		store = schema.NewStore(nil)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	names := naming.NewAllocator()
	if opts.MaxNameAttempts > 0 {
		names.MaxAttempts = opts.MaxNameAttempts
	}
	return &Compiler{
		cfg:       cfg,
		namespace: ns,
		policy:    naming.NewPolicy(cfg),
		names:     names,
		catalog:   cat,
		store:     store,
		log:       log,
		diag:      &simpleDiag{},
		memo:      make(map[*schema.Node]*memoEntry),
		byName:    make(map[string]*model.Definition),
		checked:   make(map[*schema.Document]bool),
	}, nil
}

// Namespace is the package generated types are placed in.
func (c *Compiler) Namespace() string { return c.namespace }

// Types returns every definition produced so far, in creation order.
func (c *Compiler) Types() []*model.Definition {
	return append([]*model.Definition(nil), c.defs...)
}

// Diag exposes the warnings collected so far.
func (c *Compiler) Diag() Diag { return c.diag }

// Store is the document store used for $ref lookups.
func (c *Compiler) Store() *schema.Store { return c.store }

// Compile compiles doc with name as the root type name; an empty name is
// derived from the document URI. On error nothing from this call stays
// registered.
func (c *Compiler) Compile(doc *schema.Document, name string) (*Result, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("compiler: nil document")
	}
	c.store.Add(doc)
	if name == "" {
		name = RootName(doc.URI)
	}
	start := len(c.defs)
	c.touched = c.touched[:0]
	c.newChecked = c.newChecked[:0]
	c.warnStart = len(c.diag.ws)
	c.log.Debug("compile document", "uri", doc.URI, "root", name)

	if err := c.checkDocument(doc); err != nil {
		c.rollback(start)
		return nil, err
	}
	root, err := c.resolveType(name, doc.Root)
	if err != nil {
		c.rollback(start)
		return nil, err
	}
	created := append([]*model.Definition(nil), c.defs[start:]...)
	c.log.Debug("compiled document", "uri", doc.URI, "types", len(created))
	return &Result{Root: root, Types: created}, nil
}

// CompileURI loads uri through the store and compiles it.
func (c *Compiler) CompileURI(uri, name string) (*Result, error) {
	doc, err := c.store.Document(uri)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc, name)
}

// RootName derives a type name from a document URI: the base name without
// extension, or "Root" when there is none.
func RootName(uri string) string {
	u, _, _ := strings.Cut(uri, "#")
	base := path.Base(strings.ReplaceAll(u, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "Root"
	}
	return base
}

// checkDocument reports repeated object keys once per document.
func (c *Compiler) checkDocument(doc *schema.Document) error {
	if doc == nil || c.checked[doc] {
		return nil
	}
	for _, d := range doc.Duplicates() {
		if c.cfg.RejectDuplicateKeys {
			return newError(CodeMalformedSchema, d.Object, nil, "duplicate key %q", d.Key)
		}
		c.diag.warnf("%s: duplicate key %q, the last value is used", d.Object.Location(), d.Key)
	}
	c.checked[doc] = true
	c.newChecked = append(c.newChecked, doc)
	return nil
}

func (c *Compiler) remember(n *schema.Node, st visitState, t model.Type) {
	e, ok := c.memo[n]
	if !ok {
		e = &memoEntry{}
		c.memo[n] = e
		c.touched = append(c.touched, n)
	}
	e.state, e.typ = st, t
}

func (c *Compiler) forget(n *schema.Node) {
	delete(c.memo, n)
}

func (c *Compiler) register(def *model.Definition) {
	c.defs = append(c.defs, def)
	c.byName[def.QualifiedName()] = def
	c.log.Debug("allocated type", "name", def.QualifiedName(), "kind", def.DefKind.String(), "source", def.Source)
}

func (c *Compiler) rollback(start int) {
	for _, d := range c.defs[start:] {
		c.names.Release(d.Name, d.Namespace)
		delete(c.byName, d.QualifiedName())
	}
	c.defs = c.defs[:start]
	for _, n := range c.touched {
		delete(c.memo, n)
	}
	c.touched = c.touched[:0]
	for _, d := range c.newChecked {
		delete(c.checked, d)
	}
	c.newChecked = c.newChecked[:0]
	c.diag.ws = c.diag.ws[:c.warnStart]
}
