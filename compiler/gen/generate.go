package gen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luminiadev/lumigen/schema"
)

// GeneratedUnit is the rendered source of one entity.
type GeneratedUnit struct {
	// Entity is the name of the source entity.
	Entity string
	// Path is the slash-separated output path, relative to the output root.
	Path string
	// Source is the rendered file content.
	Source string
	// Imports is the sorted import list of the file.
	Imports []string
}

// Result is the outcome of a generation run.
type Result struct {
	// Units holds the units of the entities that succeeded, in declared order.
	Units []*GeneratedUnit
	// Failures holds the entity-scoped failures, in declared order.
	Failures []*EntityError
	// States holds the final state of every entity, in declared order.
	States []EntityState
}

// Err returns the failures joined, or nil if every entity succeeded.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Unit returns the unit generated for the named entity.
func (r *Result) Unit(entity string) (*GeneratedUnit, bool) {
	for _, u := range r.Units {
		if u.Entity == entity {
			return u, true
		}
	}
	return nil, false
}

// Failure returns the failure recorded for the named entity.
func (r *Result) Failure(entity string) (*EntityError, bool) {
	for _, f := range r.Failures {
		if f.Entity == entity {
			return f, true
		}
	}
	return nil, false
}

// Generator drives entities through resolution, building and rendering
// with a bounded worker pool.
//
// Example:
//
//	import "github.com/luminiadev/lumigen/compiler/gen/java"
//
//	cfg := gen.MustNewConfig(gen.WithPackage("cn.nukkit.item"))
//	res, err := gen.NewGenerator(cfg, java.NewDialect(cfg)).Generate(ctx, s)
type Generator struct {
	cfg     *Config
	dialect Dialect
	workers int
	logger  *slog.Logger
}

// NewGenerator creates a generator using the given dialect. A nil config
// selects the defaults.
func NewGenerator(cfg *Config, d Dialect) *Generator {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	return &Generator{
		cfg:     cfg,
		dialect: d,
		workers: cfg.WorkerCount(),
		logger:  cfg.Log(),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithLogger sets the logger receiving per-entity outcomes.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.cfg }

// Generate produces one unit per entity of s.
//
// A malformed schema fails the run with a SchemaInvariantError before any
// entity is processed. Entity-scoped failures are recorded in the Result
// and never abort the run. When two units share an output path, the entity
// declared later fails with a NameCollisionError. Cancellation is checked
// before each entity starts; a cancelled run returns the context error and
// no Result.
func (g *Generator) Generate(ctx context.Context, s *schema.Schema) (*Result, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set")
	}
	if s == nil {
		return nil, NewSchemaInvariantError(errors.New("missing schema"))
	}
	limit := g.cfg.NestingLimit()
	if err := s.Validate(limit); err != nil {
		g.logger.Error("schema validation failed", "error", err)
		return nil, NewSchemaInvariantError(err)
	}
	var (
		start    = time.Now()
		resolver = NewResolver(s, g.dialect, limit)
		n        = len(s.Entities)
		units    = make([]*GeneratedUnit, n)
		failures = make([]*EntityError, n)
		runs     = make([]*entityRun, n)
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, e := range s.Entities {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units[i], failures[i], runs[i] = g.generateEntity(resolver, e)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{States: make([]EntityState, n)}
	paths := make(map[string]string, n)
	for i, e := range s.Entities {
		if u := units[i]; u != nil {
			// The first entity in declared order keeps a shared output path.
			if prev, ok := paths[u.Path]; ok {
				units[i] = nil
				failures[i] = g.fail(runs[i], NewNameCollisionError("file", u.Path, "output of entity "+prev, "output paths clash"))
			} else {
				paths[u.Path] = e.Name
				runs[i].advance(Done)
			}
		}
		state := Pending
		if runs[i] != nil {
			state = runs[i].state
		}
		res.States[i] = EntityState{Entity: e.Name, State: state}
		switch {
		case failures[i] != nil:
			res.Failures = append(res.Failures, failures[i])
		case units[i] != nil:
			res.Units = append(res.Units, units[i])
		}
	}
	g.logger.Info("generation finished",
		"dialect", g.dialect.Name(),
		"entities", n,
		"units", len(res.Units),
		"failures", len(res.Failures),
		"duration", time.Since(start),
	)
	return res, nil
}

// generateEntity runs one entity through the pipeline. It never returns
// both a unit and a failure. A generated unit is left in the Rendering
// state until its output path is claimed.
func (g *Generator) generateEntity(r *Resolver, e *schema.Entity) (*GeneratedUnit, *EntityError, *entityRun) {
	run := &entityRun{entity: e.Name}
	run.advance(Resolving)
	t, err := NewType(g.cfg, r, e)
	if err != nil {
		return nil, g.fail(run, err), run
	}
	run.advance(Building)
	cu, err := g.dialect.Build(t)
	if err != nil {
		return nil, g.fail(run, err), run
	}
	run.advance(Rendering)
	out, err := g.dialect.Render(cu)
	if err != nil {
		return nil, g.fail(run, err), run
	}
	g.logger.Debug("entity generated", "entity", e.Name, "path", cu.Path(), "bytes", len(out.Source))
	return &GeneratedUnit{
		Entity:  e.Name,
		Path:    cu.Path(),
		Source:  out.Source,
		Imports: out.Imports,
	}, nil, run
}

// fail records err as the failure of run.
func (g *Generator) fail(run *entityRun, err error) *EntityError {
	ee := run.fail(err)
	g.logger.Warn("entity failed", "entity", run.entity, "stage", ee.Stage.String(), "error", err)
	return ee
}
