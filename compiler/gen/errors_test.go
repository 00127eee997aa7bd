package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownEntityError(t *testing.T) {
	err := NewUnknownEntityError("Ghost")
	assert.Equal(t, `lumigen: unknown entity "Ghost"`, err.Error())
	assert.True(t, err.Is(ErrUnknownEntity))
	assert.True(t, IsUnknownEntity(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsUnknownEntity(errors.New("other")))
}

func TestTypeNestingError(t *testing.T) {
	err := NewTypeNestingError("list<list<int>>", 33, 32)
	assert.Equal(t, "lumigen: type nesting exceeds 32 levels", err.Error())
	assert.ErrorIs(t, err, ErrTypeNestingTooDeep)
	assert.True(t, IsTypeNestingTooDeep(err))
	assert.False(t, IsTypeNestingTooDeep(NewUnknownEntityError("x")))
}

func TestNameCollisionError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewNameCollisionError("field", "id", "inherited field of Base", "fields cannot shadow a parent field")
		assert.Equal(t, `lumigen: name collision on field "id" with inherited field of Base: fields cannot shadow a parent field`, err.Error())
	})

	t.Run("Error message with name only", func(t *testing.T) {
		err := &NameCollisionError{Name: "class"}
		assert.Equal(t, `lumigen: name collision "class"`, err.Error())
	})

	t.Run("IsNameCollision helper", func(t *testing.T) {
		err := NewNameCollisionError("type", "class", "", "reserved word")
		assert.True(t, IsNameCollision(err))
		assert.ErrorIs(t, err, ErrNameCollision)
		assert.False(t, IsNameCollision(errors.New("other")))
	})
}

func TestAnnotationShapeError(t *testing.T) {
	err := NewAnnotationShapeError("Index", "columns", "nested lists are not supported")
	assert.Equal(t, "lumigen: unsupported annotation shape @Index(columns): nested lists are not supported", err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedAnnotationShape)
	assert.True(t, IsUnsupportedAnnotationShape(err))

	err = NewAnnotationShapeError("", "", "default value of type string does not match int")
	assert.Equal(t, "lumigen: unsupported annotation shape: default value of type string does not match int", err.Error())
}

func TestSchemaInvariantError(t *testing.T) {
	cause := errors.New("duplicate entity")
	err := NewSchemaInvariantError(cause)
	assert.Equal(t, "lumigen: schema invariant violation: duplicate entity", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrSchemaInvariant)
	assert.True(t, IsSchemaInvariant(err))
	assert.Equal(t, "lumigen: schema invariant violation", (&SchemaInvariantError{}).Error())
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "workers must be positive")
		assert.Contains(t, err.Error(), "lumigen: config error")
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "-1")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Package", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, err.Is(ErrMissingConfig))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestEntityError(t *testing.T) {
	cause := NewUnknownEntityError("Ghost")
	err := &EntityError{Entity: "User", Field: "boss", Stage: Resolving, Err: cause}
	assert.Equal(t, `lumigen: entity User field boss (resolving): unknown entity "Ghost"`, err.Error())
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.True(t, IsUnknownEntity(err))

	var target *UnknownEntityError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "Ghost", target.Name)
}

func TestEntityRunFieldError(t *testing.T) {
	t.Run("field is lifted", func(t *testing.T) {
		run := &entityRun{entity: "User", state: Resolving}
		ee := run.fail(FieldError("boss", NewUnknownEntityError("Ghost")))
		assert.Equal(t, "boss", ee.Field)
		assert.Equal(t, Resolving, ee.Stage)
		assert.Equal(t, Failed, run.state)
		assert.True(t, IsUnknownEntity(ee))
	})

	t.Run("ancestor fields are not lifted", func(t *testing.T) {
		run := &entityRun{entity: "User", state: Resolving}
		ee := run.fail(&parentError{parent: "Base", err: FieldError("owner", NewUnknownEntityError("Ghost"))})
		assert.Empty(t, ee.Field)
		assert.Equal(t, `lumigen: entity User (resolving): parent Base: unknown entity "Ghost"`, ee.Error())
	})

	assert.Nil(t, FieldError("x", nil))
}
