package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// ErrUnknownDialect is returned when a dialect name is not registered.
var ErrUnknownDialect = errors.New("lumigen: unknown dialect")

// UnknownDialectError reports a dialect name with no registered dialect.
type UnknownDialectError struct {
	Name string
}

// Error returns the error string.
func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("lumigen: unknown dialect %q (available: %s)", e.Name, strings.Join(Dialects(), ", "))
}

// Is reports whether the target error matches UnknownDialectError.
// This allows errors.Is(err, ErrUnknownDialect) to return true.
func (e *UnknownDialectError) Is(err error) bool {
	return err == ErrUnknownDialect
}

// NewUnknownDialectError returns a new UnknownDialectError.
func NewUnknownDialectError(name string) *UnknownDialectError {
	return &UnknownDialectError{Name: name}
}

// IsUnknownDialect returns true if the error is an UnknownDialectError.
func IsUnknownDialect(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownDialectError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownDialect)
}

// FailuresError collects the entity failures of a run that otherwise
// completed.
type FailuresError struct {
	Failures []*gen.EntityError
}

// Error returns the error string.
func (e *FailuresError) Error() string {
	switch len(e.Failures) {
	case 0:
		return "lumigen: no failures"
	case 1:
		return e.Failures[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "lumigen: %d entities failed:", len(e.Failures))
	for i, err := range e.Failures {
		fmt.Fprintf(&sb, "\n  [%d] %s", i+1, strings.TrimPrefix(err.Error(), "lumigen: "))
	}
	return sb.String()
}

// Unwrap returns the entity failures, so errors.Is and errors.As see
// every one of them.
func (e *FailuresError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// NewFailuresError returns a new FailuresError if there are failures,
// otherwise returns nil.
func NewFailuresError(failures []*gen.EntityError) error {
	var filtered []*gen.EntityError
	for _, f := range failures {
		if f != nil {
			filtered = append(filtered, f)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &FailuresError{Failures: filtered}
}

// IsFailures returns true if the error is a FailuresError.
func IsFailures(err error) bool {
	if err == nil {
		return false
	}
	var e *FailuresError
	return errors.As(err, &e)
}
