package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrUnknownEntity indicates a reference to an entity missing from the schema.
	ErrUnknownEntity = errors.New("lumigen: unknown entity")
	// ErrTypeNestingTooDeep indicates a type nested beyond the configured bound.
	ErrTypeNestingTooDeep = errors.New("lumigen: type nesting too deep")
	// ErrNameCollision indicates a reserved word or a duplicate member name.
	ErrNameCollision = errors.New("lumigen: name collision")
	// ErrUnsupportedAnnotationShape indicates a literal the target language cannot express.
	ErrUnsupportedAnnotationShape = errors.New("lumigen: unsupported annotation shape")
	// ErrSchemaInvariant indicates input that is not a well-formed schema.
	ErrSchemaInvariant = errors.New("lumigen: schema invariant violation")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("lumigen: missing configuration")
)

// UnknownEntityError reports a dangling entity reference.
type UnknownEntityError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("lumigen: unknown entity %q", e.Name)
}

// Is reports whether the target matches the sentinel error for UnknownEntityError.
func (e *UnknownEntityError) Is(target error) bool {
	return target == ErrUnknownEntity
}

// NewUnknownEntityError creates a new UnknownEntityError.
func NewUnknownEntityError(name string) *UnknownEntityError {
	return &UnknownEntityError{Name: name}
}

// TypeNestingError reports a type expression nested deeper than allowed.
type TypeNestingError struct {
	Type  string // canonical form of the offending type, possibly truncated
	Depth int
	Max   int
}

// Error implements the error interface.
func (e *TypeNestingError) Error() string {
	return fmt.Sprintf("lumigen: type nesting exceeds %d levels", e.Max)
}

// Is reports whether the target matches the sentinel error for TypeNestingError.
func (e *TypeNestingError) Is(target error) bool {
	return target == ErrTypeNestingTooDeep
}

// NewTypeNestingError creates a new TypeNestingError.
func NewTypeNestingError(typ string, depth, limit int) *TypeNestingError {
	return &TypeNestingError{Type: typ, Depth: depth, Max: limit}
}

// NameCollisionError reports a generated name that clashes with a reserved
// word or with another member.
type NameCollisionError struct {
	Name    string // the offending name
	Member  string // kind of member, e.g. "field", "method", "type"
	With    string // what it collides with
	Message string
}

// Error implements the error interface.
func (e *NameCollisionError) Error() string {
	var b strings.Builder
	b.WriteString("lumigen: name collision")
	if e.Member != "" {
		b.WriteString(" on ")
		b.WriteString(e.Member)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.With != "" {
		b.WriteString(" with ")
		b.WriteString(e.With)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for NameCollisionError.
func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// NewNameCollisionError creates a new NameCollisionError.
func NewNameCollisionError(member, name, with, message string) *NameCollisionError {
	return &NameCollisionError{Member: member, Name: name, With: with, Message: message}
}

// AnnotationShapeError reports an annotation argument or a default value
// that cannot be rendered in the target language.
type AnnotationShapeError struct {
	Annotation string // annotation name, empty for default values
	Arg        string // argument name, if applicable
	Message    string
}

// Error implements the error interface.
func (e *AnnotationShapeError) Error() string {
	var b strings.Builder
	b.WriteString("lumigen: unsupported annotation shape")
	if e.Annotation != "" {
		b.WriteString(" @")
		b.WriteString(e.Annotation)
		if e.Arg != "" {
			b.WriteString("(")
			b.WriteString(e.Arg)
			b.WriteString(")")
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for AnnotationShapeError.
func (e *AnnotationShapeError) Is(target error) bool {
	return target == ErrUnsupportedAnnotationShape
}

// NewAnnotationShapeError creates a new AnnotationShapeError.
func NewAnnotationShapeError(annotation, arg, message string) *AnnotationShapeError {
	return &AnnotationShapeError{Annotation: annotation, Arg: arg, Message: message}
}

// SchemaInvariantError reports a run-scoped, fatal problem with the input.
// No unit of a run failing with this error can be trusted.
type SchemaInvariantError struct {
	Cause error
}

// Error implements the error interface.
func (e *SchemaInvariantError) Error() string {
	if e.Cause == nil {
		return "lumigen: schema invariant violation"
	}
	return "lumigen: schema invariant violation: " + e.Cause.Error()
}

// Unwrap returns the underlying error.
func (e *SchemaInvariantError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaInvariantError.
func (e *SchemaInvariantError) Is(target error) bool {
	return target == ErrSchemaInvariant
}

// NewSchemaInvariantError creates a new SchemaInvariantError.
func NewSchemaInvariantError(cause error) *SchemaInvariantError {
	return &SchemaInvariantError{Cause: cause}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("lumigen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("lumigen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// EntityError is an entity-scoped failure recorded by the Generator.
// It never aborts the run.
type EntityError struct {
	Entity string
	Field  string // field being processed, if known
	Stage  State  // stage in which the entity failed
	Err    error
}

// Error implements the error interface.
func (e *EntityError) Error() string {
	var b strings.Builder
	b.WriteString("lumigen: entity ")
	b.WriteString(e.Entity)
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Stage != Pending {
		fmt.Fprintf(&b, " (%s)", e.Stage)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "lumigen: "))
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EntityError) Unwrap() error {
	return e.Err
}

// FieldError attaches a field name to err. The Generator lifts it into the
// Field of the recorded EntityError.
func FieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &fieldError{field: field, err: err}
}

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

// IsUnknownEntity reports whether the error is an UnknownEntityError.
func IsUnknownEntity(err error) bool {
	var target *UnknownEntityError
	return errors.As(err, &target)
}

// IsTypeNestingTooDeep reports whether the error is a TypeNestingError.
func IsTypeNestingTooDeep(err error) bool {
	var target *TypeNestingError
	return errors.As(err, &target)
}

// IsNameCollision reports whether the error is a NameCollisionError.
func IsNameCollision(err error) bool {
	var target *NameCollisionError
	return errors.As(err, &target)
}

// IsUnsupportedAnnotationShape reports whether the error is an AnnotationShapeError.
func IsUnsupportedAnnotationShape(err error) bool {
	var target *AnnotationShapeError
	return errors.As(err, &target)
}

// IsSchemaInvariant reports whether the error is a SchemaInvariantError.
func IsSchemaInvariant(err error) bool {
	var target *SchemaInvariantError
	return errors.As(err, &target)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}
