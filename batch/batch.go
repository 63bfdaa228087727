// Package batch compiles independent schema documents in parallel and
// merges their definitions into one collision-free set.
//
// Every document gets its own compiler, store and name registry. Names are
// only finalized in the merge, which walks documents in input order, so the
// merged result does not depend on scheduling.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/immuskema/compiler"
	"github.com/reoring/immuskema/config"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/naming"
	"github.com/reoring/immuskema/schema"
)

// Source is one document to compile.
type Source struct {
	URI string
	// Name is the root type name; empty derives it from URI.
	Name string
}

// Options configures a batch run.
type Options struct {
	Config    *config.Config
	Namespace string
	// Loader feeds every per-document store; nil reads the filesystem.
	Loader schema.Loader
	Logger *slog.Logger
	// Limit bounds the number of documents compiled at once; <= 0 means
	// GOMAXPROCS.
	Limit int
	// KeepGoing records per-document failures in the result instead of
	// aborting the batch on the first one.
	KeepGoing bool
}

// Document is the outcome of one source.
type Document struct {
	URI  string
	Root model.Type
	// Types lists the definitions the document uses; definitions shared
	// with an earlier document are that document's copy.
	Types    []*model.Definition
	Warnings []string
	Err      error
}

// Rename records a definition renamed during the merge.
type Rename struct {
	URI  string
	From string
	To   string
}

// Result holds per-document outcomes in input order and the merged types.
type Result struct {
	Documents []Document
	Types     []*model.Definition
	Renames   []Rename
}

// Failed lists the documents that did not compile.
func (r *Result) Failed() []Document {
	var out []Document
	for _, d := range r.Documents {
		if d.Err != nil {
			out = append(out, d)
		}
	}
	return out
}

// Compile compiles sources concurrently. Cancellation is observed between
// documents; a document that has started runs to completion.
func Compile(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	docs := make([]Document, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i] = compileOne(src, opts, log)
			if docs[i].Err != nil && !opts.KeepGoing {
				return fmt.Errorf("batch: %s: %w", src.URI, docs[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Documents: docs}
	if err := res.merge(); err != nil {
		return nil, err
	}
	for _, rn := range res.Renames {
		log.Info("renamed colliding type", "uri", rn.URI, "from", rn.From, "to", rn.To)
	}
	return res, nil
}

func compileOne(src Source, opts Options, log *slog.Logger) Document {
	out := Document{URI: src.URI}
	c, err := compiler.New(compiler.Options{
		Config:    opts.Config,
		Namespace: opts.Namespace,
		Store:     schema.NewStore(opts.Loader),
		Logger:    log.With("uri", src.URI),
	})
	if err != nil {
		out.Err = err
		return out
	}
	r, err := c.CompileURI(src.URI, src.Name)
	out.Warnings = c.Diag().Warnings()
	if err != nil {
		out.Err = err
		return out
	}
	out.Root, out.Types = r.Root, r.Types
	return out
}

// merge replays every allocation through one allocator. A definition whose
// name is already taken is renamed in place; references to it are pointers
// and follow the rename. A schema several documents reach (same uri#pointer)
// keeps the first document's definition, and later documents are pointed at
// it.
func (r *Result) merge() error {
	names := naming.NewAllocator()
	bySource := map[string]*model.Definition{}
	for i := range r.Documents {
		d := &r.Documents[i]
		if d.Err != nil {
			continue
		}
		shared := map[*model.Definition]*model.Definition{}
		own := d.Types[:0:0]
		for _, def := range d.Types {
			if first, ok := bySource[def.Source]; ok {
				shared[def] = first
				own = append(own, first)
				continue
			}
			bySource[def.Source] = def
			own = append(own, def)
			if names.Reserve(def.Name, def.Namespace) {
				r.Types = append(r.Types, def)
				continue
			}
			from := def.QualifiedName()
			to, err := names.Allocate(naming.MakeUnique(def.Name), def.Namespace)
			if err != nil {
				return fmt.Errorf("batch: %s: %w", d.URI, err)
			}
			def.Name = to
			r.Types = append(r.Types, def)
			r.Renames = append(r.Renames, Rename{URI: d.URI, From: from, To: def.QualifiedName()})
		}
		if len(shared) == 0 {
			continue
		}
		for _, def := range d.Types {
			if _, dup := shared[def]; !dup {
				relink(def, shared)
			}
		}
		d.Types = own
		d.Root = relinkType(d.Root, shared)
	}
	return nil
}

// relink points the references of def at the shared definitions.
func relink(def *model.Definition, shared map[*model.Definition]*model.Definition) {
	def.Supertype = relinkType(def.Supertype, shared)
	for _, p := range def.Properties {
		p.Type = relinkType(p.Type, shared)
		if fc, ok := p.Default.(model.FactoryCall); ok {
			fc.Type = relinkType(fc.Type, shared)
			p.Default = fc
		}
	}
}

func relinkType(t model.Type, shared map[*model.Definition]*model.Definition) model.Type {
	switch v := t.(type) {
	case *model.Definition:
		if first, ok := shared[v]; ok {
			return first
		}
	case *model.Collection:
		v.Elem = relinkType(v.Elem, shared)
	}
	return t
}
