package compiler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/compiler/gen"
)

func TestUnknownDialectError(t *testing.T) {
	err := NewUnknownDialectError("kotlin")
	assert.Equal(t, "kotlin", err.Name)
	assert.True(t, errors.Is(err, ErrUnknownDialect))

	wrapped := fmt.Errorf("wrapper: %w", err)
	assert.True(t, IsUnknownDialect(wrapped))
	assert.True(t, IsUnknownDialect(ErrUnknownDialect))
	assert.False(t, IsUnknownDialect(errors.New("other error")))
	assert.False(t, IsUnknownDialect(nil))
}

func TestFailuresError(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, NewFailuresError(nil))
		assert.NoError(t, NewFailuresError([]*gen.EntityError{nil}))
		assert.Equal(t, "lumigen: no failures", (&FailuresError{}).Error())
	})

	t.Run("Single", func(t *testing.T) {
		err := NewFailuresError([]*gen.EntityError{
			{Entity: "User", Stage: gen.Resolving, Err: gen.NewUnknownEntityError("Group")},
		})
		require.Error(t, err)
		assert.Equal(t, `lumigen: entity User (resolving): unknown entity "Group"`, err.Error())
		assert.True(t, gen.IsUnknownEntity(err))
		assert.ErrorIs(t, err, gen.ErrUnknownEntity)
	})

	t.Run("Multiple", func(t *testing.T) {
		err := NewFailuresError([]*gen.EntityError{
			{Entity: "A", Err: errors.New("first")},
			nil,
			{Entity: "B", Err: errors.New("second")},
		})
		require.Error(t, err)
		assert.Equal(t, "lumigen: 2 entities failed:\n  [1] entity A: first\n  [2] entity B: second", err.Error())
		assert.True(t, IsFailures(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, IsFailures(errors.New("other")))
		assert.False(t, IsFailures(nil))
	})
}
