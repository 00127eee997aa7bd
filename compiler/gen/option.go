package gen

import (
	"errors"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/luminiadev/lumigen/schema"
)

// DefaultHeader is the documentation placed on every generated primary type.
const DefaultHeader = "This class is generated automatically, do not change it manually."

// Config holds the global codegen configuration shared by all dialects.
type Config struct {
	// Package is the base target package used for entities that do not
	// declare their own, e.g. "cn.nukkit.item" (Java) or
	// "example.com/project/model" (Go).
	Package string

	// Header is the documentation placed on every generated primary type.
	Header string

	// Indent is the indentation unit of the Java renderer.
	Indent string

	// Workers bounds the number of entities processed concurrently.
	Workers int

	// MaxNesting bounds the Collection/Nullable nesting of a type reference.
	MaxNesting int

	// Features defines a list of additional features to add to the codegen phase.
	Features []Feature

	// NullableAnnotation is the qualified name of an annotation placed on
	// nullable fields, parameters and getters, e.g. "javax.annotation.Nullable".
	// Empty disables it.
	NullableAnnotation string

	// Logger receives per-entity outcomes.
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the base target package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the generated type documentation.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithIndent sets the indentation unit. Only spaces and tabs are accepted.
func WithIndent(indent string) Option {
	return func(c *Config) error {
		if indent == "" || strings.Trim(indent, " \t") != "" {
			return NewConfigError("Indent", indent, "indent must be a non-empty run of spaces or tabs")
		}
		c.Indent = indent
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithMaxNesting sets the bound on Collection/Nullable nesting.
func WithMaxNesting(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("MaxNesting", n, "max nesting must be positive")
		}
		c.MaxNesting = n
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		var errs []error
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				errs = append(errs, NewConfigError("Features", name, "unknown feature"))
				continue
			}
			c.Features = append(c.Features, f)
		}
		return errors.Join(errs...)
	}
}

// WithNullableAnnotation sets the qualified name of the annotation placed on
// nullable members.
func WithNullableAnnotation(name string) Option {
	return func(c *Config) error {
		if name != "" && !strings.Contains(name, ".") {
			return NewConfigError("NullableAnnotation", name, "annotation name must be fully qualified")
		}
		c.NullableAnnotation = name
		return nil
	}
}

// WithLogger sets the logger receiving per-entity outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Header: DefaultHeader}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	if c == nil {
		return false
	}
	if slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name }) {
		return true
	}
	f, ok := FeatureByName(name)
	return ok && f.Default
}

// IndentUnit returns the configured indentation, four spaces by default.
func (c *Config) IndentUnit() string {
	if c == nil || c.Indent == "" {
		return "    "
	}
	return c.Indent
}

// NestingLimit returns the configured nesting bound, schema.DefaultMaxNesting by default.
func (c *Config) NestingLimit() int {
	if c == nil || c.MaxNesting <= 0 {
		return schema.DefaultMaxNesting
	}
	return c.MaxNesting
}

// WorkerCount returns the configured worker count, GOMAXPROCS by default.
func (c *Config) WorkerCount() int {
	if c == nil || c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Log returns the configured logger, or a logger discarding all records.
func (c *Config) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// PackageOf returns the target package of the entity.
func (c *Config) PackageOf(e *schema.Entity) string {
	if e.Package != "" {
		return e.Package
	}
	if c == nil {
		return ""
	}
	return c.Package
}
