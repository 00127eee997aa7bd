package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/luminiadev/lumigen/compiler"
	"github.com/luminiadev/lumigen/compiler/gen"
)

// configNames are looked up in the working directory when no -config flag
// is given.
var configNames = []string{"lumigen.toml", "lumigen.yaml", "lumigen.yml"}

// fileConfig is the layout of a configuration file. Relative paths are
// resolved against the directory of the file.
//
//	dialect = "java"
//	schema = ["schema"]
//	target = "generated"
//	package = "cn.nukkit.item"
//	features = ["equality"]
type fileConfig struct {
	Dialect            string   `yaml:"dialect" toml:"dialect"`
	Schema             []string `yaml:"schema" toml:"schema"`
	Target             string   `yaml:"target" toml:"target"`
	Package            string   `yaml:"package" toml:"package"`
	Header             *string  `yaml:"header" toml:"header"`
	Indent             string   `yaml:"indent" toml:"indent"`
	Workers            int      `yaml:"workers" toml:"workers"`
	MaxNesting         int      `yaml:"max_nesting" toml:"max_nesting"`
	Features           []string `yaml:"features" toml:"features"`
	NullableAnnotation string   `yaml:"nullable_annotation" toml:"nullable_annotation"`
}

// readConfig reads the configuration file at path. The format follows
// the file extension.
func readConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := &fileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			var serr *toml.StrictMissingError
			if errors.As(err, &serr) && len(serr.Errors) > 0 {
				e := serr.Errors[0]
				row, col := e.Position()
				return nil, fmt.Errorf("config %s:%d:%d: unknown key %q", path, row, col, strings.Join(e.Key(), "."))
			}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("config %s:%d:%d: %s", path, row, col, derr.Error())
			}
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q, use .toml, .yaml or .yml", path, ext)
	}
	dir := filepath.Dir(path)
	for i, p := range c.Schema {
		c.Schema[i] = relativeTo(dir, p)
	}
	if c.Target != "" {
		c.Target = relativeTo(dir, c.Target)
	}
	return c, nil
}

// findConfig returns the first configuration file present in dir, or "".
func findConfig(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func relativeTo(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// runConfig converts the settings into a compiler run.
func (c *fileConfig) runConfig(opts ...gen.Option) *compiler.Config {
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Header != nil {
		opts = append(opts, gen.WithHeader(*c.Header))
	}
	if c.Indent != "" {
		opts = append(opts, gen.WithIndent(c.Indent))
	}
	if c.Workers != 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if c.MaxNesting != 0 {
		opts = append(opts, gen.WithMaxNesting(c.MaxNesting))
	}
	if len(c.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(c.Features...))
	}
	if c.NullableAnnotation != "" {
		opts = append(opts, gen.WithNullableAnnotation(c.NullableAnnotation))
	}
	return &compiler.Config{
		Dialect: c.Dialect,
		Schema:  c.Schema,
		Target:  c.Target,
		Options: opts,
	}
}
