package gen

import (
	"fmt"
	"strings"

	"github.com/luminiadev/lumigen/schema"
)

// The following types and their exported methods are used by the dialects
// to build the primary type of an entity.
type (
	// Type is an entity with its fields resolved and its parent chain attached.
	Type struct {
		*Config
		schema *schema.Schema
		entity *schema.Entity
		// Name holds the entity name.
		Name string
		// Package is the target package of the generated type.
		Package string
		// Kind of the generated type.
		Kind schema.EntityKind
		// Comment is the entity documentation.
		Comment string
		// Parent is the resolved parent type, or nil.
		Parent *Type
		// Fields holds the own fields of the type in declaration order.
		Fields []*Field
		// Annotations of the entity in declaration order.
		Annotations []*schema.Annotation
		// Constants of an enum type in declaration order.
		Constants []*schema.Constant
	}

	// Field is an entity field with its type resolved.
	Field struct {
		def *schema.Field
		typ *Type
		// Name of the field.
		Name string
		// Type holds the resolved type of the field.
		Type *ResolvedType
		// Mutable fields get a setter.
		Mutable bool
		// Default is the optional literal default value.
		Default *schema.Value
		// Annotations of the field in declaration order.
		Annotations []*schema.Annotation
		// Comment is the field documentation.
		Comment string
	}
)

// parentError marks a failure that happened while resolving an ancestor.
type parentError struct {
	parent string
	err    error
}

func (e *parentError) Error() string {
	return fmt.Sprintf("parent %s: %s", e.parent, strings.TrimPrefix(e.err.Error(), "lumigen: "))
}

func (e *parentError) Unwrap() error { return e.err }

// NewType creates a type for the entity, resolving its fields and its
// ancestors through r. A missing parent fails with an UnknownEntityError.
// An ancestor failure fails the type, wrapping the ancestor's error.
func NewType(c *Config, r *Resolver, e *schema.Entity) (*Type, error) {
	return newType(c, r, e, 0)
}

func newType(c *Config, r *Resolver, e *schema.Entity, depth int) (*Type, error) {
	// Validate rejects inheritance cycles; this bound only protects
	// callers that skipped it.
	if depth > len(r.schema.Entities) {
		return nil, NewSchemaInvariantError(fmt.Errorf("inheritance cycle through %s", e.Name))
	}
	typ := &Type{
		Config:      c,
		schema:      r.schema,
		entity:      e,
		Name:        e.Name,
		Package:     c.PackageOf(e),
		Kind:        e.Kind,
		Comment:     e.Comment,
		Fields:      make([]*Field, 0, len(e.Fields)),
		Annotations: e.Annotations,
		Constants:   e.Constants,
	}
	if e.HasParent() {
		p, ok := r.schema.Lookup(e.Parent)
		if !ok {
			return nil, NewUnknownEntityError(e.Parent)
		}
		parent, err := newType(c, r, p, depth+1)
		if err != nil {
			if _, ok := err.(*parentError); !ok {
				err = &parentError{parent: p.Name, err: err}
			}
			return nil, err
		}
		typ.Parent = parent
	}
	for _, f := range e.Fields {
		rt, err := r.Resolve(f.Type)
		if err != nil {
			return nil, FieldError(f.Name, err)
		}
		typ.Fields = append(typ.Fields, &Field{
			def:         f,
			typ:         typ,
			Name:        f.Name,
			Type:        rt,
			Mutable:     f.Mutable,
			Default:     f.Default,
			Annotations: f.Annotations,
			Comment:     f.Comment,
		})
	}
	return typ, nil
}

// Entity returns the schema entity of the type.
func (t *Type) Entity() *schema.Entity { return t.entity }

// Schema returns the schema the type was resolved against.
func (t *Type) Schema() *schema.Schema { return t.schema }

// Siblings returns the entities generated into the package of the type,
// in declared order. The entity of the type is one of them.
func (t *Type) Siblings() []*schema.Entity {
	if t.schema == nil {
		if t.entity == nil {
			return nil
		}
		return []*schema.Entity{t.entity}
	}
	var siblings []*schema.Entity
	for _, e := range t.schema.Entities {
		if t.PackageOf(e) == t.Package {
			siblings = append(siblings, e)
		}
	}
	return siblings
}

// IsEnum reports if the type is an enum.
func (t *Type) IsEnum() bool { return t.Kind == schema.Enum }

// IsAbstract reports if the type is abstract.
func (t *Type) IsAbstract() bool { return t.Kind == schema.Abstract }

// HasParent reports if the type extends another type.
func (t *Type) HasParent() bool { return t.Parent != nil }

// QualifiedName returns the name of the type prefixed with its package.
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Ancestors returns the parent chain of the type, root first.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for p := t.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AllFields returns the inherited fields, root first, followed by the own
// fields of the type.
func (t *Type) AllFields() []*Field {
	var fields []*Field
	for _, a := range t.Ancestors() {
		fields = append(fields, a.Fields...)
	}
	return append(fields, t.Fields...)
}

// InheritedFields returns the fields declared by the ancestors, root first.
func (t *Type) InheritedFields() []*Field {
	if t.Parent == nil {
		return nil
	}
	return t.Parent.AllFields()
}

// RequiredFields returns AllFields without the fields that declare a default.
func (t *Type) RequiredFields() []*Field {
	var fields []*Field
	for _, f := range t.AllFields() {
		if !f.HasDefault() {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasDefaults reports if any field of the chain declares a default.
func (t *Type) HasDefaults() bool {
	for _, f := range t.AllFields() {
		if f.HasDefault() {
			return true
		}
	}
	return false
}

// HasMutable reports if any own field is mutable.
func (t *Type) HasMutable() bool {
	for _, f := range t.Fields {
		if f.Mutable {
			return true
		}
	}
	return false
}

// Imports returns the sorted union of the imports of the own fields.
func (t *Type) Imports() []string {
	sets := make([][]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		sets = append(sets, f.Type.Imports)
	}
	return MergeImports(sets...)
}

// CheckFieldNames reports duplicate own fields and own fields that shadow
// an inherited one.
func (t *Type) CheckFieldNames() error {
	seen := make(map[string]*Type)
	for _, f := range t.InheritedFields() {
		if _, ok := seen[f.Name]; !ok {
			seen[f.Name] = f.typ
		}
	}
	own := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if _, ok := own[f.Name]; ok {
			return NewNameCollisionError("field", f.Name, "field "+f.Name+" of "+t.Name, "field declared more than once")
		}
		own[f.Name] = struct{}{}
		if owner, ok := seen[f.Name]; ok {
			return NewNameCollisionError("field", f.Name, "inherited field of "+owner.Name, "fields cannot shadow a parent field")
		}
	}
	return nil
}

// Owner returns the type declaring the field.
func (f *Field) Owner() *Type { return f.typ }

// Def returns the schema definition of the field.
func (f *Field) Def() *schema.Field { return f.def }

// HasDefault reports if the field declares a default value.
func (f *Field) HasDefault() bool { return f.Default != nil }

// Nullable reports if the field value may be absent.
func (f *Field) Nullable() bool { return f.Type != nil && f.Type.Nullable }

// IsBool reports if the field is a non-nullable boolean.
func (f *Field) IsBool() bool {
	return f.Type != nil && !f.Type.Nullable && f.Type.Ref != nil &&
		f.Type.Ref.Kind == schema.TypePrimitive && f.Type.Ref.Primitive == schema.Bool
}

// Primitive returns the primitive kind of the field, after unwrapping
// nullable wrappers, and whether the field is primitive at all.
func (f *Field) Primitive() (schema.PrimitiveKind, bool) {
	if f.Type == nil || f.Type.Ref == nil {
		return 0, false
	}
	ref := f.Type.Ref.Unwrap(schema.DefaultMaxNesting)
	if ref == nil || ref.Kind != schema.TypePrimitive {
		return 0, false
	}
	return ref.Primitive, true
}
