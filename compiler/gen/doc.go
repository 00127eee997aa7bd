// Package gen provides the dialect-neutral core of the lumigen code generator.
//
// It turns a schema.Schema into one rendered source file per entity. The
// target language is supplied by a Dialect, such as the Java dialect in
// gen/java or the Go dialect in gen/golang.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	schema.Schema (entities, fields, type references)
//	        ↓
//	   Validate (run-scoped invariants)
//	        ↓
//	   Resolver + TypeMapper (ResolvedType per field)
//	        ↓
//	   Type (entity with its resolved parent chain)
//	        ↓
//	   Dialect.Build → CompilationUnit (AST)
//	        ↓
//	   Dialect.Render → GeneratedUnit (text)
//
// # Key Types
//
//   - Generator: validates the schema and runs entities on a worker pool
//   - Resolver: memoized, depth-bounded type resolution
//   - Type: an entity with resolved fields and ancestors
//   - Field: a field with its ResolvedType
//   - Config: global configuration built from Options
//
// # Error Handling
//
// Entity-scoped failures are recorded as *EntityError values in the
// Result and never abort a run:
//
//   - UnknownEntityError: a reference or parent missing from the schema
//   - TypeNestingError: a type nested beyond Config.MaxNesting
//   - NameCollisionError: a reserved word or clashing member name
//   - AnnotationShapeError: a literal the target language cannot express
//
// A SchemaInvariantError is run-scoped: Generate returns it before any
// entity is processed.
//
// Example error handling:
//
//	res, err := g.Generate(ctx, s)
//	if err != nil {
//	    return err // invalid schema, cancellation or configuration
//	}
//	for _, f := range res.Failures {
//	    if gen.IsUnknownEntity(f) {
//	        // ...
//	    }
//	}
package gen
