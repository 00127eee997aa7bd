package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/luminiadev/lumigen/compiler"
	"github.com/luminiadev/lumigen/compiler/gen"
)

// listFlag collects a comma separated list. Repeating the flag appends.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

type generateFlags struct {
	config     string
	dialect    string
	target     string
	pkg        string
	header     string
	indent     string
	nullable   string
	workers    int
	maxNesting int
	features   listFlag
	watch      bool
	verbose    bool
}

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f generateFlags
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&f.dialect, "dialect", "", fmt.Sprintf("target dialect: %s (default %s)", strings.Join(compiler.Dialects(), ", "), compiler.DefaultDialect))
	fs.StringVar(&f.target, "out", "", "output directory; without it the generated paths are listed")
	fs.StringVar(&f.pkg, "package", "", "package of entities that declare none")
	fs.StringVar(&f.header, "header", gen.DefaultHeader, "documentation of every generated type")
	fs.StringVar(&f.indent, "indent", "", "indentation unit of Java sources (default four spaces)")
	fs.StringVar(&f.nullable, "nullable", "", "qualified annotation placed on nullable members")
	fs.IntVar(&f.workers, "workers", 0, "entities generated in parallel (default GOMAXPROCS)")
	fs.IntVar(&f.maxNesting, "max-nesting", 0, "maximum nesting of collection and nullable types (default 32)")
	fs.Var(&f.features, "feature", "comma separated features to enable; see \"lumigen features\"")
	fs.BoolVar(&f.watch, "watch", false, "regenerate whenever a schema file changes")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lumigen generate [flags] [schema paths...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	c, err := settings(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitUsage
	}
	level := slog.LevelError
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	rc := c.runConfig(gen.WithLogger(logger))
	if err := check(rc); err != nil {
		fmt.Fprintf(stderr, "lumigen: %s\n", strings.TrimPrefix(err.Error(), "lumigen: "))
		return exitUsage
	}

	code := generateOnce(ctx, rc, stdout, stderr)
	if !f.watch {
		return code
	}
	w, err := newWatcher(rc.Schema, logger)
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitError
	}
	defer w.Close()
	fmt.Fprintf(stdout, "watching %s\n", strings.Join(rc.Schema, ", "))
	w.Run(ctx, func(ctx context.Context) {
		generateOnce(ctx, rc, stdout, stderr)
	})
	return exitOK
}

// settings merges the configuration file with the flags set on fs.
// Positional arguments replace the schema paths of the file.
func settings(fs *flag.FlagSet, f *generateFlags) (*fileConfig, error) {
	path := f.config
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = findConfig(wd)
		}
	}
	c := &fileConfig{}
	if path != "" {
		var err error
		if c, err = readConfig(path); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dialect":
			c.Dialect = f.dialect
		case "out":
			c.Target = f.target
		case "package":
			c.Package = f.pkg
		case "header":
			c.Header = &f.header
		case "indent":
			c.Indent = f.indent
		case "nullable":
			c.NullableAnnotation = f.nullable
		case "workers":
			c.Workers = f.workers
		case "max-nesting":
			c.MaxNesting = f.maxNesting
		case "feature":
			c.Features = f.features
		}
	})
	if fs.NArg() > 0 {
		c.Schema = fs.Args()
	}
	if len(c.Schema) == 0 {
		return nil, errors.New("no schema paths given")
	}
	return c, nil
}

// check reports configuration errors before anything is loaded.
func check(c *compiler.Config) error {
	cfg, err := gen.NewConfig(c.Options...)
	if err != nil {
		return err
	}
	_, err = compiler.NewDialect(c.Dialect, cfg)
	return err
}

// generateOnce runs the generation and prints its outcome.
func generateOnce(ctx context.Context, c *compiler.Config, stdout, stderr io.Writer) int {
	r, err := compiler.LoadAndGenerate(ctx, c)
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %s\n", strings.TrimPrefix(err.Error(), "lumigen: "))
		if gen.IsConfigError(err) || compiler.IsUnknownDialect(err) {
			return exitUsage
		}
		return exitError
	}
	res := r.Result
	if r.Written {
		m := r.Metrics
		fmt.Fprintf(stdout, "generated %d of %d entities in %s: %d written, %d unchanged\n",
			len(res.Units), len(res.States), r.Duration.Round(time.Millisecond), m.FilesWritten, m.FilesUnchanged)
	} else {
		for _, u := range res.Units {
			fmt.Fprintln(stdout, u.Path)
		}
	}
	if err := r.Err(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailures
	}
	return exitOK
}
