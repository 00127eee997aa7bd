// Package schema provides the in-memory model consumed by the lumigen code generator.
//
// A [Schema] is an ordered list of [Entity] definitions. Each entity holds ordered
// fields, an optional parent (single inheritance, referenced by name) and annotations.
// Field types are expressed with [TypeRef], a small tagged union:
//
//	schema.Prim(schema.String)                     // String
//	schema.Ref("User")                             // reference to another entity
//	schema.ListOf(schema.Ref("Tag"))               // List<Tag>
//	schema.MapOf(nil, schema.Prim(schema.Int))     // Map<String, Integer>
//	schema.NullableOf(schema.Prim(schema.Long))    // Long (boxed, may be null)
//
// Annotation arguments, default values and enum constant arguments share the [Value]
// tagged union, so the generator never needs reflection to render them.
//
// # Quick Start
//
//	s := schema.New(
//	    &schema.Entity{
//	        Name:    "Player",
//	        Package: "cn.nukkit.player",
//	        Fields: []*schema.Field{
//	            {Name: "name", Type: schema.Prim(schema.String)},
//	            {Name: "level", Type: schema.Prim(schema.Int), Mutable: true,
//	                Default: schema.IntValue(1)},
//	            {Name: "guild", Type: schema.NullableOf(schema.Ref("Guild"))},
//	        },
//	    },
//	    &schema.Entity{Name: "Guild", Package: "cn.nukkit.guild"},
//	)
//
// Entities are looked up through an index (name to definition), so declaration order
// never matters for references and forward references need no fix-up pass.
//
// The model is read-only once handed to the generator. [Schema.Validate] reports
// run-scoped invariant violations (duplicate entity names, inheritance cycles,
// malformed type references) as [*InvariantError] values.
package schema
