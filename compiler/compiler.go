// Package compiler is the entry point of lumigen. It ties the schema
// loaders, the generation engine and the file writer together:
//
//	res, err := compiler.LoadAndGenerate(ctx, &compiler.Config{
//		Dialect: "java",
//		Schema:  []string{"./schema"},
//		Target:  "./generated",
//		Options: []gen.Option{gen.WithPackage("cn.nukkit.item")},
//	})
package compiler

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/compiler/gen/golang"
	"github.com/luminiadev/lumigen/compiler/gen/java"
	"github.com/luminiadev/lumigen/compiler/load"
	"github.com/luminiadev/lumigen/schema"
)

// DefaultDialect is used when no dialect is named.
const DefaultDialect = "java"

// dialects holds the constructors of the built-in dialects by name.
var dialects = map[string]func(*gen.Config) gen.Dialect{
	"java": func(c *gen.Config) gen.Dialect { return java.NewDialect(c) },
	"go":   func(c *gen.Config) gen.Dialect { return golang.NewDialect(c) },
}

// Dialects returns the names of the built-in dialects, sorted.
func Dialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDialect returns the dialect registered under name. An empty name
// selects DefaultDialect.
func NewDialect(name string, cfg *gen.Config) (gen.Dialect, error) {
	if name == "" {
		name = DefaultDialect
	}
	newDialect, ok := dialects[name]
	if !ok {
		return nil, NewUnknownDialectError(name)
	}
	return newDialect(cfg), nil
}

// Generate runs the named dialect over s. Entity failures are recorded in
// the returned result; see gen.Generator.Generate.
func Generate(ctx context.Context, s *schema.Schema, dialect string, opts ...gen.Option) (*gen.Result, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	d, err := NewDialect(dialect, cfg)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(cfg, d).Generate(ctx, s)
}

// Config describes a complete run from schema files to written sources.
type Config struct {
	// Dialect is the target dialect name. Empty selects DefaultDialect.
	Dialect string

	// Schema lists the schema files and directories to load, in order.
	Schema []string

	// Target is the output root. Empty skips writing.
	Target string

	// Options configure the generator.
	Options []gen.Option
}

// Report is the outcome of LoadAndGenerate.
type Report struct {
	// Files are the schema files that were loaded.
	Files []string
	// Result is the generation result.
	Result *gen.Result
	// Written reports whether the units were written to the target.
	Written bool
	// Metrics are the writer metrics. Zero when nothing was written.
	Metrics gen.WriterMetrics
	// Duration of the whole run.
	Duration time.Duration
}

// Err returns the entity failures of the run as a *FailuresError, or nil.
func (r *Report) Err() error {
	if r == nil || r.Result == nil {
		return nil
	}
	return NewFailuresError(r.Result.Failures)
}

// LoadAndGenerate loads the schema files of c, generates every entity and
// writes the units that succeeded under c.Target.
//
// Load errors, configuration errors and schema invariant violations fail
// the run. Entity failures do not: the units of the other entities are
// still written and the failures are reported by Report.Err.
func LoadAndGenerate(ctx context.Context, c *Config) (*Report, error) {
	if c == nil || len(c.Schema) == 0 {
		return nil, gen.NewConfigError("Schema", nil, "no schema path given")
	}
	start := time.Now()
	cfg, err := gen.NewConfig(c.Options...)
	if err != nil {
		return nil, err
	}
	d, err := NewDialect(c.Dialect, cfg)
	if err != nil {
		return nil, err
	}
	files, err := load.Files(c.Schema...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("compiler: no schema files found in %v", c.Schema)
	}
	s, err := load.Load(files...)
	if err != nil {
		return nil, err
	}
	log := cfg.Log()
	log.Debug("schema loaded", "files", len(files), "entities", len(s.Entities))
	res, err := gen.NewGenerator(cfg, d).Generate(ctx, s)
	if err != nil {
		return nil, err
	}
	r := &Report{Files: slices.Clip(files), Result: res}
	if c.Target != "" {
		w := gen.NewWriter(c.Target).WithWorkers(cfg.WorkerCount())
		if err := w.Write(ctx, res.Units); err != nil {
			return nil, err
		}
		r.Written = true
		r.Metrics = w.Metrics()
		log.Info("units written",
			"target", c.Target,
			"written", r.Metrics.FilesWritten,
			"unchanged", r.Metrics.FilesUnchanged,
			"bytes", r.Metrics.TotalBytes,
		)
	}
	r.Duration = time.Since(start)
	return r, nil
}
