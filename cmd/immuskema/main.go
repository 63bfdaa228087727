package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	immuskema "github.com/reoring/immuskema"
	"github.com/reoring/immuskema/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "compile":
		compileCmd(os.Args[2:], false)
	case "check":
		compileCmd(os.Args[2:], true)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "immuskema CLI\n\nUsage:\n  immuskema compile [-p package] [-config file] [-o manifest.json] source...\n  immuskema check [-p package] [-config file] source...\n\nSources are schema files or directories (walked for .json, .yaml and .yml).\nThe manifest is written to stdout when -o is omitted.")
}

func compileCmd(args []string, checkOnly bool) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var (
		pkg       string
		cfgPath   string
		out       string
		jobs      int
		keepGoing bool
		verbose   bool
	)
	fs.StringVar(&pkg, "p", "", "target package (overrides the config file)")
	fs.StringVar(&cfgPath, "config", "", "YAML naming and numeric policy")
	fs.StringVar(&out, "o", "", "manifest output file")
	fs.IntVar(&jobs, "j", 0, "documents compiled in parallel (0 = GOMAXPROCS)")
	fs.BoolVar(&keepGoing, "keep-going", false, "report failing documents and continue")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	if pkg != "" {
		cfg.Package = pkg
	}

	files, err := collectSources(fs.Args())
	if err != nil {
		fatalf("collecting sources: %v", err)
	}
	if len(files) == 0 {
		fatalf("no schema files under %v", fs.Args())
	}
	log.Debug("sources", "count", len(files))

	res, err := immuskema.CompileFiles(context.Background(), files, immuskema.CompileOpt{
		Config:      cfg,
		Logger:      log,
		Parallelism: jobs,
		KeepGoing:   keepGoing,
	})
	if err != nil {
		fatalf("%v", err)
	}
	for _, d := range res.Documents {
		for _, w := range d.Warnings {
			log.Warn(w, "uri", d.URI)
		}
		if d.Err != nil {
			log.Error("compile failed", "uri", d.URI, "err", d.Err)
		}
	}
	failed := len(res.Failed())
	log.Info("compiled", "documents", len(files)-failed, "failed", failed, "types", len(res.Types))
	if checkOnly {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	code, err := immuskema.Manifest(cfg.Package, res.Types)
	if err != nil {
		fatalf("rendering manifest: %v", err)
	}
	if out == "" {
		_, _ = os.Stdout.Write(code)
	} else {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			fatalf("creating output dir: %v", err)
		}
		if err := os.WriteFile(out, code, 0o644); err != nil {
			fatalf("writing output: %v", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
