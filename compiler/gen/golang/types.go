package golang

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// goType describes the Go mapping of a primitive.
type goType struct {
	pkg  string // import path, empty for predeclared types
	name string // type expression without package, e.g. "Rat"
	ptr  bool
	// basic types are comparable with == and have no identity.
	basic bool
}

// primitives is the total mapping of schema primitives to Go types.
var primitives = [...]goType{
	schema.Bool:    {name: "bool", basic: true},
	schema.Byte:    {name: "int8", basic: true},
	schema.Short:   {name: "int16", basic: true},
	schema.Int:     {name: "int32", basic: true},
	schema.Long:    {name: "int64", basic: true},
	schema.Float:   {name: "float32", basic: true},
	schema.Double:  {name: "float64", basic: true},
	schema.Char:    {name: "rune", basic: true},
	schema.String:  {name: "string", basic: true},
	schema.Decimal: {pkg: "math/big", name: "Rat", ptr: true},
	schema.UUID:    {name: "[16]byte"},
	schema.Instant: {pkg: "time", name: "Time"},
	schema.Date:    {pkg: "time", name: "Time"},
	schema.Bytes:   {name: "[]byte"},
}

// Primitive maps a primitive kind.
func (d *Dialect) Primitive(k schema.PrimitiveKind) *gen.ResolvedType {
	if int(k) >= len(primitives) {
		panic(fmt.Sprintf("golang: unmapped primitive %s", k))
	}
	p := primitives[k]
	rt := &gen.ResolvedType{Primitive: p.basic}
	var (
		node      = jen.Id(p.name)
		star      string
		simple    = p.name
		qualified = p.name
	)
	switch p.name {
	case "[16]byte":
		node = jen.Index(jen.Lit(16)).Byte()
	case "[]byte":
		node = jen.Index().Byte()
	}
	if p.pkg != "" {
		node = jen.Qual(p.pkg, p.name)
		simple = PackageName(p.pkg) + "." + p.name
		qualified = p.pkg + "." + p.name
		rt.Imports = []string{p.pkg}
	}
	if p.ptr {
		node = jen.Op("*").Add(node)
		star = "*"
	}
	rt.Name, rt.Qualified, rt.Node = star+simple, star+qualified, node
	return rt
}

// Entity maps a reference to a pointer to the struct of e. Entities are
// always referenced through pointers, which keeps reference cycles legal.
func (d *Dialect) Entity(e *schema.Entity) *gen.ResolvedType {
	pkg := ImportPath(d.cfg.PackageOf(e))
	rt := &gen.ResolvedType{
		Name:      "*" + e.Name,
		Qualified: "*" + e.Name,
		Node:      jen.Op("*").Qual(pkg, e.Name),
	}
	if pkg != "" {
		rt.Name = "*" + PackageName(pkg) + "." + e.Name
		rt.Qualified = "*" + pkg + "." + e.Name
		rt.Imports = []string{pkg}
	}
	return rt
}

// Collection maps lists onto slices, sets onto map[T]struct{} and maps
// onto Go maps.
func (d *Dialect) Collection(kind schema.CollectionKind, key, elem *gen.ResolvedType) *gen.ResolvedType {
	switch kind {
	case schema.List:
		return &gen.ResolvedType{
			Name:      "[]" + elem.Name,
			Qualified: "[]" + elem.Qualified,
			Node:      jen.Index().Add(nodeOf(elem)),
		}
	case schema.Set:
		return &gen.ResolvedType{
			Name:      "map[" + elem.Name + "]struct{}",
			Qualified: "map[" + elem.Qualified + "]struct{}",
			Node:      jen.Map(nodeOf(elem)).Struct(),
		}
	case schema.Map:
		return &gen.ResolvedType{
			Name:      "map[" + key.Name + "]" + elem.Name,
			Qualified: "map[" + key.Qualified + "]" + elem.Qualified,
			Node:      jen.Map(nodeOf(key)).Add(nodeOf(elem)),
		}
	default:
		panic(fmt.Sprintf("golang: unmapped collection %s", kind))
	}
}

// Nullable maps an optional value onto a pointer, unless the inner type
// already has a nil value.
func (d *Dialect) Nullable(inner *gen.ResolvedType) *gen.ResolvedType {
	rt := &gen.ResolvedType{
		Name:      inner.Name,
		Qualified: inner.Qualified,
		Node:      jen.Add(nodeOf(inner)),
		Nullable:  true,
	}
	if !nillable(inner) {
		rt.Name, rt.Qualified = "*"+inner.Name, "*"+inner.Qualified
		rt.Node = jen.Op("*").Add(nodeOf(inner))
	}
	return rt
}

// nillable reports if the Go type has a nil value.
func nillable(rt *gen.ResolvedType) bool {
	for _, prefix := range []string{"*", "[]", "map["} {
		if strings.HasPrefix(rt.Name, prefix) {
			return true
		}
	}
	return false
}

// nodeOf returns the jennifer node of a resolved type. Nodes are shared
// between workers, so callers wrap them and never append to them.
func nodeOf(rt *gen.ResolvedType) jen.Code {
	c, ok := rt.Node.(jen.Code)
	if !ok {
		panic(fmt.Sprintf("golang: type %s was not resolved by the go dialect", rt))
	}
	return c
}

// mapRef maps a reference without entities, as used by default values.
func (d *Dialect) mapRef(ref *schema.TypeRef) (*gen.ResolvedType, error) {
	switch ref.Kind {
	case schema.TypePrimitive:
		return d.Primitive(ref.Primitive), nil
	case schema.TypeNullable:
		inner, err := d.mapRef(ref.Elem)
		if err != nil {
			return nil, err
		}
		return d.Nullable(inner), nil
	case schema.TypeCollection:
		elem, err := d.mapRef(ref.Elem)
		if err != nil {
			return nil, err
		}
		var key *gen.ResolvedType
		if ref.Collection == schema.Map {
			if key, err = d.mapRef(ref.MapKey()); err != nil {
				return nil, err
			}
		}
		return d.Collection(ref.Collection, key, elem), nil
	}
	return nil, fmt.Errorf("default values are not supported for %s", ref)
}
