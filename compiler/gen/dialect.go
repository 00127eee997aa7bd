package gen

import "github.com/luminiadev/lumigen/schema"

// TypeMapper maps schema types onto a target language. Mappers are pure
// and total: the Resolver performs recursion, entity lookup, depth checks
// and memoization, and merges the imports of inner types into the result.
// Every call returns a new value owned by the caller.
type TypeMapper interface {
	// Primitive maps a primitive kind.
	Primitive(k schema.PrimitiveKind) *ResolvedType
	// Entity maps a reference to a known entity. The referenced entity is
	// never expanded.
	Entity(e *schema.Entity) *ResolvedType
	// Collection maps a container. key is nil for lists and sets.
	Collection(kind schema.CollectionKind, key, elem *ResolvedType) *ResolvedType
	// Nullable maps an optional value of the inner type.
	Nullable(inner *ResolvedType) *ResolvedType
}

// CompilationUnit is the dialect AST of one generated source file.
type CompilationUnit interface {
	// Path returns the slash-separated output path of the unit,
	// relative to the output root.
	Path() string
}

// Rendered is the text of a rendered CompilationUnit.
type Rendered struct {
	Source  string
	Imports []string
}

// EntityGenerator builds and renders the primary type of one entity.
// Both methods are called from concurrent workers and must not share
// mutable state between calls.
type EntityGenerator interface {
	// Build creates the AST of the entity. Name collisions and
	// unsupported literals are reported here.
	Build(t *Type) (CompilationUnit, error)
	// Render prints a unit built by Build.
	Render(u CompilationUnit) (*Rendered, error)
}

// Dialect is a target language implementation.
//
//	┌─────────────────────────────────────────────┐
//	│                 Generator                   │
//	│  (validation, worker pool, result order)    │
//	└──────────────────────┬──────────────────────┘
//	                       │ uses
//	                       ▼
//	┌─────────────────────────────────────────────┐
//	│      Dialect (TypeMapper + EntityGenerator) │
//	└──────────────────────┬──────────────────────┘
//	             ┌─────────┴─────────┐
//	             ▼                   ▼
//	      ┌─────────────┐     ┌─────────────┐
//	      │ gen/java    │     │ gen/golang  │
//	      └─────────────┘     └─────────────┘
//
// Dialect packages import gen; gen never imports a dialect.
type Dialect interface {
	// Name returns the dialect name (e.g., "java", "go").
	Name() string
	TypeMapper
	EntityGenerator
}
