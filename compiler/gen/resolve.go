package gen

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/luminiadev/lumigen/schema"
)

// ResolvedType is a schema type mapped onto the target language.
type ResolvedType struct {
	// Ref is the source type reference.
	Ref *schema.TypeRef
	// Name is the type expression using simple names, e.g. "List<Integer>".
	Name string
	// Qualified is the type expression using qualified names,
	// e.g. "java.util.List<java.lang.Integer>".
	Qualified string
	// Imports is the sorted, deduplicated set of qualified names the type
	// needs, including those of its inner types.
	Imports []string
	// Nullable reports if the value may be absent.
	Nullable bool
	// Primitive reports if the target type is a value type without
	// identity, e.g. Java int.
	Primitive bool
	// Node is the dialect AST node of the type.
	Node any
}

// String returns the qualified type expression.
func (r *ResolvedType) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Qualified
}

// MergeImports returns the sorted union of the given import sets.
func MergeImports(sets ...[]string) []string {
	var all []string
	for _, s := range sets {
		all = append(all, s...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Resolver maps schema type references through a TypeMapper. Results,
// including failures, are memoized by the canonical form of the reference
// for the lifetime of the Resolver, which is one generation run.
// A Resolver is safe for concurrent use.
type Resolver struct {
	schema   *schema.Schema
	mapper   TypeMapper
	maxDepth int

	mu    sync.Mutex
	cache map[string]resolution
}

type resolution struct {
	typ *ResolvedType
	err error
}

// NewResolver returns a resolver bound to the given schema. A non-positive
// maxDepth selects schema.DefaultMaxNesting.
func NewResolver(s *schema.Schema, m TypeMapper, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = schema.DefaultMaxNesting
	}
	return &Resolver{
		schema:   s,
		mapper:   m,
		maxDepth: maxDepth,
		cache:    make(map[string]resolution),
	}
}

// MaxDepth returns the nesting bound of the resolver.
func (r *Resolver) MaxDepth() int { return r.maxDepth }

// Resolve maps ref onto the target language.
func (r *Resolver) Resolve(ref *schema.TypeRef) (*ResolvedType, error) {
	if ref == nil {
		return nil, NewSchemaInvariantError(errors.New("missing type"))
	}
	// The depth check runs before the canonical form is computed, since
	// that form is truncated for over-deep references.
	if d := ref.Depth(r.maxDepth); d > r.maxDepth {
		return nil, NewTypeNestingError(ref.String(), d, r.maxDepth)
	}
	key := ref.String()
	r.mu.Lock()
	res, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return res.typ, res.err
	}
	typ, err := r.resolve(ref)
	r.mu.Lock()
	// Keep the first result if another worker raced us; both are equal.
	if prev, ok := r.cache[key]; ok {
		typ, err = prev.typ, prev.err
	} else {
		r.cache[key] = resolution{typ: typ, err: err}
	}
	r.mu.Unlock()
	return typ, err
}

func (r *Resolver) resolve(ref *schema.TypeRef) (*ResolvedType, error) {
	var (
		typ    *ResolvedType
		nested [][]string
	)
	switch ref.Kind {
	case schema.TypePrimitive:
		if !ref.Primitive.Valid() {
			return nil, NewSchemaInvariantError(fmt.Errorf("unknown primitive kind %d", ref.Primitive))
		}
		typ = r.mapper.Primitive(ref.Primitive)
	case schema.TypeEntity:
		e, ok := r.schema.Lookup(ref.Entity)
		if !ok {
			return nil, NewUnknownEntityError(ref.Entity)
		}
		typ = r.mapper.Entity(e)
	case schema.TypeCollection:
		if ref.Elem == nil {
			return nil, NewSchemaInvariantError(fmt.Errorf("%s without an element type", ref.Collection))
		}
		elem, err := r.Resolve(ref.Elem)
		if err != nil {
			return nil, err
		}
		var key *ResolvedType
		switch ref.Collection {
		case schema.List, schema.Set:
		case schema.Map:
			if key, err = r.Resolve(ref.MapKey()); err != nil {
				return nil, err
			}
			nested = append(nested, key.Imports)
		default:
			return nil, NewSchemaInvariantError(fmt.Errorf("unknown collection kind %d", ref.Collection))
		}
		nested = append(nested, elem.Imports)
		typ = r.mapper.Collection(ref.Collection, key, elem)
	case schema.TypeNullable:
		if ref.Elem == nil {
			return nil, NewSchemaInvariantError(errors.New("nullable without an inner type"))
		}
		inner, err := r.Resolve(ref.Elem)
		if err != nil {
			return nil, err
		}
		nested = append(nested, inner.Imports)
		typ = r.mapper.Nullable(inner)
	default:
		return nil, NewSchemaInvariantError(fmt.Errorf("invalid type reference kind %d", ref.Kind))
	}
	typ.Ref = ref
	typ.Imports = MergeImports(append(nested, typ.Imports)...)
	return typ, nil
}
