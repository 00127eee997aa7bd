package schema

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxNesting is the default bound on Collection/Nullable nesting.
const DefaultMaxNesting = 32

// InvariantError reports input that is not a well-formed schema.
type InvariantError struct {
	Entity  string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString("schema: invariant violation")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Validate checks the run-scoped invariants of the schema and returns all
// violations joined, or nil. Type references are walked at most maxNesting+1
// levels deep (DefaultMaxNesting if maxNesting <= 0); deeper structures are left
// to the resolver, which rejects them.
//
// Entity-scoped problems, such as references to unknown entities or name
// collisions, are not reported here.
func (s *Schema) Validate(maxNesting int) error {
	if maxNesting <= 0 {
		maxNesting = DefaultMaxNesting
	}
	var errs []error
	report := func(entity, field, format string, args ...any) {
		errs = append(errs, &InvariantError{Entity: entity, Field: field, Message: fmt.Sprintf(format, args...)})
	}
	seen := make(map[string]struct{}, len(s.Entities))
	for i, e := range s.Entities {
		if e == nil {
			report("", "", "entity at position %d is nil", i)
			continue
		}
		if e.Name == "" {
			report("", "", "entity at position %d has an empty name", i)
			continue
		}
		if _, ok := seen[e.Name]; ok {
			report(e.Name, "", "entity name declared more than once")
		}
		seen[e.Name] = struct{}{}
		switch {
		case e.Kind == Enum && e.HasParent():
			report(e.Name, "", "enum entity cannot extend %q", e.Parent)
		case e.Kind != Enum && len(e.Constants) > 0:
			report(e.Name, "", "constants are only allowed on enum entities")
		case e.Kind > Enum:
			report(e.Name, "", "unknown entity kind %d", e.Kind)
		}
		consts := make(map[string]struct{}, len(e.Constants))
		for j, c := range e.Constants {
			switch {
			case c == nil || c.Name == "":
				report(e.Name, "", "constant at position %d has no name", j)
			default:
				if _, ok := consts[c.Name]; ok {
					report(e.Name, "", "enum constant %q declared more than once", c.Name)
				}
				consts[c.Name] = struct{}{}
			}
		}
		for j, f := range e.Fields {
			switch {
			case f == nil:
				report(e.Name, "", "field at position %d is nil", j)
			case f.Name == "":
				report(e.Name, "", "field at position %d has an empty name", j)
			default:
				if err := CheckTypeRef(f.Type, maxNesting); err != nil {
					report(e.Name, f.Name, "%v", err)
				}
			}
		}
		for _, a := range e.Annotations {
			if a == nil || a.Name == "" {
				report(e.Name, "", "annotation without a name")
			}
		}
	}
	for _, e := range s.Entities {
		if e == nil || e.Name == "" {
			continue
		}
		if cycle := s.inheritanceCycle(e); cycle != nil {
			report(e.Name, "", "inheritance cycle %s", strings.Join(cycle, " -> "))
		}
	}
	return errors.Join(errs...)
}

// inheritanceCycle returns the parent chain of e if it leads back to e.
// Unknown parents end the chain; they are reported per entity by the generator.
func (s *Schema) inheritanceCycle(e *Entity) []string {
	chain := []string{e.Name}
	visited := map[string]struct{}{e.Name: {}}
	for cur := e; cur.HasParent(); {
		p, ok := s.Lookup(cur.Parent)
		if !ok {
			return nil
		}
		chain = append(chain, p.Name)
		if p.Name == e.Name {
			return chain
		}
		if _, ok := visited[p.Name]; ok {
			// A cycle that does not pass through e.
			return nil
		}
		visited[p.Name] = struct{}{}
		cur = p
	}
	return nil
}

// CheckTypeRef reports structural problems in t: nil members, unknown
// variants or an empty entity name. The walk stops below maxNesting+1 levels.
func CheckTypeRef(t *TypeRef, maxNesting int) error {
	return checkTypeRef(t, 0, maxNesting)
}

func checkTypeRef(t *TypeRef, d, limit int) error {
	if d > limit {
		return nil
	}
	if t == nil {
		return errors.New("missing type")
	}
	switch t.Kind {
	case TypePrimitive:
		if !t.Primitive.Valid() {
			return fmt.Errorf("unknown primitive kind %d", t.Primitive)
		}
	case TypeEntity:
		if t.Entity == "" {
			return errors.New("entity reference without a name")
		}
	case TypeCollection:
		switch t.Collection {
		case List, Set:
		case Map:
			if t.Key != nil {
				if err := checkTypeRef(t.Key, d+1, limit); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unknown collection kind %d", t.Collection)
		}
		if t.Elem == nil {
			return fmt.Errorf("%s without an element type", t.Collection)
		}
		return checkTypeRef(t.Elem, d+1, limit)
	case TypeNullable:
		if t.Elem == nil {
			return errors.New("nullable without an inner type")
		}
		return checkTypeRef(t.Elem, d+1, limit)
	default:
		return fmt.Errorf("invalid type reference kind %d", t.Kind)
	}
	return nil
}
