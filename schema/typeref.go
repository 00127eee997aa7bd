package schema

import "strings"

// TypeKind tags the variant held by a TypeRef.
type TypeKind uint8

// TypeRef variants.
const (
	TypeInvalid TypeKind = iota
	TypePrimitive
	TypeEntity
	TypeCollection
	TypeNullable
)

// String returns the variant name.
func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypeEntity:
		return "ref"
	case TypeCollection:
		return "collection"
	case TypeNullable:
		return "nullable"
	default:
		return "invalid"
	}
}

// CollectionKind is the container shape of a collection TypeRef.
type CollectionKind uint8

// Collection kinds.
const (
	CollectionInvalid CollectionKind = iota
	List
	Set
	Map
)

// String returns the collection name.
func (k CollectionKind) String() string {
	switch k {
	case List:
		return "list"
	case Set:
		return "set"
	case Map:
		return "map"
	default:
		return "invalid"
	}
}

// TypeRef is a schema-level type expression. Exactly one variant is set,
// selected by Kind:
//
//   - TypePrimitive: Primitive
//   - TypeEntity: Entity (the referenced entity name)
//   - TypeCollection: Collection and Elem, plus Key for maps (nil means string)
//   - TypeNullable: Elem
//
// Collection and Nullable are recursive through Elem and Key. A TypeRef must
// terminate; reference cycles are only legal through TypeEntity, which is never
// expanded.
type TypeRef struct {
	Kind       TypeKind
	Primitive  PrimitiveKind
	Entity     string
	Collection CollectionKind
	Key        *TypeRef
	Elem       *TypeRef
}

// Prim returns a primitive TypeRef.
func Prim(k PrimitiveKind) *TypeRef {
	return &TypeRef{Kind: TypePrimitive, Primitive: k}
}

// Ref returns a reference to the entity with the given name.
func Ref(name string) *TypeRef {
	return &TypeRef{Kind: TypeEntity, Entity: name}
}

// ListOf returns an ordered collection of elem.
func ListOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeCollection, Collection: List, Elem: elem}
}

// SetOf returns an unordered unique collection of elem.
func SetOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeCollection, Collection: Set, Elem: elem}
}

// MapOf returns a mapping from key to elem. A nil key means string keys.
func MapOf(key, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeCollection, Collection: Map, Key: key, Elem: elem}
}

// NullableOf marks inner as possibly absent.
func NullableOf(inner *TypeRef) *TypeRef {
	return &TypeRef{Kind: TypeNullable, Elem: inner}
}

// MapKey returns the key type of a map, defaulting to string.
func (t *TypeRef) MapKey() *TypeRef {
	if t.Key == nil {
		return Prim(String)
	}
	return t.Key
}

// IsNullable reports if the outermost variant is Nullable.
func (t *TypeRef) IsNullable() bool {
	return t != nil && t.Kind == TypeNullable
}

// Unwrap strips all outer Nullable layers, up to limit of them.
func (t *TypeRef) Unwrap(limit int) *TypeRef {
	for i := 0; t != nil && t.Kind == TypeNullable && i < limit; i++ {
		t = t.Elem
	}
	return t
}

// Depth returns the Collection/Nullable nesting depth of t. The walk stops once
// the depth exceeds limit, and limit+1 is returned, so self-referential
// structures never recurse forever.
func (t *TypeRef) Depth(limit int) int {
	return t.depth(0, limit)
}

func (t *TypeRef) depth(d, limit int) int {
	if t == nil || d > limit {
		return d
	}
	switch t.Kind {
	case TypeCollection:
		n := t.Elem.depth(d+1, limit)
		if t.Key != nil {
			n = max(n, t.Key.depth(d+1, limit))
		}
		return min(n, limit+1)
	case TypeNullable:
		return min(t.Elem.depth(d+1, limit), limit+1)
	default:
		return d
	}
}

// maxStringDepth bounds String on malformed (cyclic) type references.
const maxStringDepth = 256

// String returns the canonical form of the type reference, for example
// "list<nullable<ref:User>>". Structurally equal references have equal
// canonical forms.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b, 0)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder, d int) {
	if d > maxStringDepth {
		b.WriteString("...")
		return
	}
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case TypePrimitive:
		b.WriteString(t.Primitive.String())
	case TypeEntity:
		b.WriteString("ref:")
		b.WriteString(t.Entity)
	case TypeCollection:
		b.WriteString(t.Collection.String())
		b.WriteByte('<')
		if t.Collection == Map {
			t.MapKey().write(b, d+1)
			b.WriteString(", ")
		}
		t.Elem.write(b, d+1)
		b.WriteByte('>')
	case TypeNullable:
		b.WriteString("nullable<")
		t.Elem.write(b, d+1)
		b.WriteByte('>')
	default:
		b.WriteString("invalid")
	}
}
