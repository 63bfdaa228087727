package immuskema

import (
	"context"
	"log/slog"

	"github.com/reoring/immuskema/batch"
	"github.com/reoring/immuskema/compiler"
	"github.com/reoring/immuskema/config"
	gen "github.com/reoring/immuskema/internal/gen"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// Result is the outcome of compiling one document.
type Result = compiler.Result

// Source supplies one schema document.
type Source interface {
	open(store *schema.Store) (*schema.Document, error)
}

type sourceFunc func(store *schema.Store) (*schema.Document, error)

func (f sourceFunc) open(store *schema.Store) (*schema.Document, error) { return f(store) }

// JSONBytes wraps JSON content; uri anchors relative $refs.
func JSONBytes(uri string, b []byte) Source {
	return sourceFunc(func(*schema.Store) (*schema.Document, error) { return schema.ParseJSON(uri, b) })
}

// YAMLBytes wraps YAML content; uri anchors relative $refs.
func YAMLBytes(uri string, b []byte) Source {
	return sourceFunc(func(*schema.Store) (*schema.Document, error) { return schema.ParseYAML(uri, b) })
}

// File loads path through the store's loader.
func File(path string) Source {
	return sourceFunc(func(s *schema.Store) (*schema.Document, error) { return s.Document(path) })
}

// Value wraps an already decoded document such as map[string]any.
func Value(uri string, v any) Source {
	return sourceFunc(func(*schema.Store) (*schema.Document, error) { return schema.FromValue(uri, v) })
}

// CompileOpt configures Compile and CompileFiles. The zero value uses
// config.Default() and reads referenced documents from the filesystem.
type CompileOpt struct {
	Config    *config.Config
	Namespace string
	// RootName names the root type; empty derives it from the document URI.
	RootName string
	Loader   schema.Loader
	Logger   *slog.Logger
	// Parallelism bounds CompileFiles; <= 0 means GOMAXPROCS.
	Parallelism int
	// KeepGoing makes CompileFiles record failures instead of stopping.
	KeepGoing bool
}

func lastOpt(opts []CompileOpt) CompileOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return CompileOpt{}
}

// Compile compiles a single document.
func Compile(src Source, opts ...CompileOpt) (*Result, error) {
	opt := lastOpt(opts)
	store := schema.NewStore(opt.Loader)
	c, err := compiler.New(compiler.Options{
		Config:    opt.Config,
		Namespace: opt.Namespace,
		Store:     store,
		Logger:    opt.Logger,
	})
	if err != nil {
		return nil, err
	}
	doc, err := src.open(store)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc, opt.RootName)
}

// CompileFiles compiles independent documents concurrently and merges
// their definitions with collision-free names. RootName is ignored.
func CompileFiles(ctx context.Context, paths []string, opts ...CompileOpt) (*batch.Result, error) {
	opt := lastOpt(opts)
	sources := make([]batch.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, batch.Source{URI: p})
	}
	return batch.Compile(ctx, sources, batch.Options{
		Config:    opt.Config,
		Namespace: opt.Namespace,
		Loader:    opt.Loader,
		Logger:    opt.Logger,
		Limit:     opt.Parallelism,
		KeepGoing: opt.KeepGoing,
	})
}

// Manifest renders definitions as the JSON model manifest.
func Manifest(namespace string, types []*model.Definition) ([]byte, error) {
	return gen.RenderTypes(namespace, types)
}
