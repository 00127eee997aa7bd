package gen

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/luminiadev/lumigen/schema"
)

// textDialect is a minimal dialect rendering a line-based description of
// each entity.
type textDialect struct {
	mapped atomic.Int64
	fail   map[string]error // Build errors by entity name
	path   func(t *Type) string
}

type textUnit struct {
	t    *Type
	path string
}

func (u *textUnit) Path() string { return u.path }

func (d *textDialect) Name() string { return "text" }

func (d *textDialect) Primitive(k schema.PrimitiveKind) *ResolvedType {
	d.mapped.Add(1)
	return &ResolvedType{Name: k.String(), Qualified: k.String(), Primitive: true}
}

func (d *textDialect) Entity(e *schema.Entity) *ResolvedType {
	d.mapped.Add(1)
	return &ResolvedType{Name: e.Name, Qualified: "model." + e.Name, Imports: []string{"model." + e.Name}}
}

func (d *textDialect) Collection(kind schema.CollectionKind, key, elem *ResolvedType) *ResolvedType {
	d.mapped.Add(1)
	name, qual := elem.Name, elem.Qualified
	if key != nil {
		name, qual = key.Name+", "+name, key.Qualified+", "+qual
	}
	return &ResolvedType{
		Name:      kind.String() + "<" + name + ">",
		Qualified: "coll." + kind.String() + "<" + qual + ">",
		Imports:   []string{"coll." + kind.String()},
	}
}

func (d *textDialect) Nullable(inner *ResolvedType) *ResolvedType {
	d.mapped.Add(1)
	return &ResolvedType{Name: inner.Name + "?", Qualified: inner.Qualified + "?", Nullable: true}
}

func (d *textDialect) Build(t *Type) (CompilationUnit, error) {
	if err := d.fail[t.Name]; err != nil {
		return nil, err
	}
	if err := t.CheckFieldNames(); err != nil {
		return nil, err
	}
	path := "model/" + t.Name + ".txt"
	if d.path != nil {
		path = d.path(t)
	}
	return &textUnit{t: t, path: path}, nil
}

func (d *textDialect) Render(u CompilationUnit) (*Rendered, error) {
	t := u.(*textUnit).t
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", t.Kind, t.Name)
	if t.Parent != nil {
		fmt.Fprintf(&b, " : %s", t.Parent.Name)
	}
	b.WriteString("\n")
	for _, f := range t.AllFields() {
		fmt.Fprintf(&b, "  %s %s\n", f.Name, f.Type.Name)
	}
	return &Rendered{Source: b.String(), Imports: t.Imports()}, nil
}

var _ Dialect = (*textDialect)(nil)
