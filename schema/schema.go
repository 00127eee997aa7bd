package schema

import "sync"

// EntityKind selects the shape of the generated primary type.
type EntityKind uint8

// Entity kinds.
const (
	// Class is a concrete record type (the default).
	Class EntityKind = iota
	// Abstract is a record type that cannot be instantiated directly.
	Abstract
	// Enum is a closed set of named constants sharing the entity fields.
	Enum
)

// String returns the kind name.
func (k EntityKind) String() string {
	switch k {
	case Abstract:
		return "abstract"
	case Enum:
		return "enum"
	default:
		return "class"
	}
}

type (
	// Schema is the full set of entity definitions for one generation run.
	// Entities keep their declaration order, which is also the output order.
	Schema struct {
		Entities []*Entity

		once  sync.Once
		index map[string]*Entity
	}

	// Entity is a schema-level record type.
	Entity struct {
		// Name of the entity. Unique within a schema.
		Name string
		// Package is the target namespace of the generated type.
		// Empty means the generator's base package.
		Package string
		// Kind of the generated type.
		Kind EntityKind
		// Parent holds the name of the parent entity, if any.
		Parent string
		// Fields in declaration order.
		Fields []*Field
		// Annotations in declaration order.
		Annotations []*Annotation
		// Constants of an Enum entity, in declaration order.
		Constants []*Constant
		// Comment is rendered as the type documentation.
		Comment string
	}

	// Field is a member of an entity.
	Field struct {
		// Name of the field. Unique within the entity and its parents.
		Name string
		// Type of the field.
		Type *TypeRef
		// Mutable fields get a setter; the others are final.
		Mutable bool
		// Annotations in declaration order.
		Annotations []*Annotation
		// Default is an optional literal default value.
		Default *Value
		// Comment is rendered as the field documentation.
		Comment string
	}

	// Constant is a named instance of an Enum entity. Args are passed
	// positionally to the entity fields.
	Constant struct {
		Name    string
		Args    []Value
		Comment string
	}
)

// New returns a schema holding the given entities in order.
func New(entities ...*Entity) *Schema {
	return &Schema{Entities: entities}
}

// Lookup returns the entity with the given name. When a name is declared
// more than once, the first declaration wins; Validate reports duplicates.
func (s *Schema) Lookup(name string) (*Entity, bool) {
	s.once.Do(s.buildIndex)
	e, ok := s.index[name]
	return e, ok
}

// Names returns the entity names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e != nil {
			names = append(names, e.Name)
		}
	}
	return names
}

func (s *Schema) buildIndex() {
	s.index = make(map[string]*Entity, len(s.Entities))
	for _, e := range s.Entities {
		if e == nil {
			continue
		}
		if _, ok := s.index[e.Name]; !ok {
			s.index[e.Name] = e
		}
	}
}

// HasParent reports if the entity extends another entity.
func (e *Entity) HasParent() bool { return e.Parent != "" }

// Field returns the own field with the given name.
func (e *Entity) Field(name string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// HasDefault reports if the field declares a default value.
func (f *Field) HasDefault() bool { return f.Default != nil }
