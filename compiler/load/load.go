// Package load reads schema definitions from files.
//
// Three source formats are supported, selected by file extension:
//
//   - YAML (.yaml, .yml): the native document format
//   - JSON (.json): the same document, written as JSON
//   - GraphQL SDL (.graphql, .graphqls, .gql): object, interface and enum
//     types, with a few directives carrying what SDL cannot express
//
// Loading several files concatenates their entities in argument order.
// Loading never validates the schema; the generator does that once all
// files are merged.
package load

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/luminiadev/lumigen/schema"
)

// ErrUnknownFormat is returned for files whose extension selects no format.
var ErrUnknownFormat = errors.New("load: unknown schema format")

// Format is a schema source format.
type Format uint8

// Source formats.
const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatGraphQL
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatGraphQL:
		return "graphql"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name. File extensions
// are accepted too.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "graphql", "graphqls", "gql":
		return FormatGraphQL, nil
	}
	return FormatUnknown, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// FormatOf returns the format selected by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Error is a loading failure with its source position. Line and Column
// are 1-based; zero means unknown.
type Error struct {
	File   string
	Line   int
	Column int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, "%d:", e.Column)
		}
	}
	if b.Len() > len("load: ") {
		b.WriteString(" ")
	}
	b.WriteString(strings.TrimPrefix(e.Err.Error(), "load: "))
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(line, column int, format string, args ...any) *Error {
	return &Error{Line: line, Column: column, Err: fmt.Errorf(format, args...)}
}

// inFile attaches the file name to a loading error.
func inFile(name string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.File == "" {
			e.File = name
		}
		return err
	}
	return &Error{File: name, Err: err}
}

// Parse decodes a schema from data in the given format. The name is only
// used in error messages.
func Parse(f Format, name string, data []byte) (*schema.Schema, error) {
	var (
		s   *schema.Schema
		err error
	)
	switch f {
	case FormatYAML, FormatJSON:
		s, err = parseDocument(data)
	case FormatGraphQL:
		s, err = parseGraphQL(name, data)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, inFile(name, err)
	}
	return s, nil
}

// Load reads and merges the schema files at the given paths. A directory
// contributes every file with a known extension below it, in lexical order.
func Load(paths ...string) (*schema.Schema, error) {
	files, err := Files(paths...)
	if err != nil {
		return nil, err
	}
	merged := schema.New()
	for _, path := range files {
		s, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged.Entities = append(merged.Entities, s.Entities...)
	}
	return merged, nil
}

// LoadFile reads the schema file at path.
func LoadFile(path string) (*schema.Schema, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Parse(f, path, data)
}

// Files expands the given paths into the list of schema files they
// denote. Files named explicitly are kept even without a known extension,
// so LoadFile reports them.
func Files(paths ...string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, err := FormatOf(p); err == nil {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	return files, nil
}

// Marshal encodes s in the given format. Loading the output yields an
// equivalent schema.
func Marshal(s *schema.Schema, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return marshalYAML(s)
	case FormatJSON:
		return marshalJSON(s)
	case FormatGraphQL:
		return marshalGraphQL(s)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}
