package java

import (
	"fmt"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// primitives is the total mapping of schema primitives to Java types.
var primitives = [...]TypeName{
	schema.Bool:    Boolean,
	schema.Byte:    Byte,
	schema.Short:   Short,
	schema.Int:     Int,
	schema.Long:    Long,
	schema.Float:   Float,
	schema.Double:  Double,
	schema.Char:    Char,
	schema.String:  String,
	schema.Decimal: BigDecimal,
	schema.UUID:    UUID,
	schema.Instant: Instant,
	schema.Date:    LocalDate,
	schema.Bytes:   ArrayType{Elem: Byte},
}

// Primitive maps a primitive kind.
func (d *Dialect) Primitive(k schema.PrimitiveKind) *gen.ResolvedType {
	if int(k) >= len(primitives) {
		panic(fmt.Sprintf("java: unmapped primitive %s", k))
	}
	t := primitives[k]
	rt := resolved(t)
	_, rt.Primitive = t.(PrimitiveType)
	return rt
}

// Entity maps a reference to the generated class of e.
func (d *Dialect) Entity(e *schema.Entity) *gen.ResolvedType {
	return resolved(ClassName{Package: d.cfg.PackageOf(e), Simple: e.Name})
}

// Collection maps a container onto java.util.List, Set or Map, boxing
// primitive type arguments.
func (d *Dialect) Collection(kind schema.CollectionKind, key, elem *gen.ResolvedType) *gen.ResolvedType {
	var t ParameterizedType
	switch kind {
	case schema.List:
		t = ParameterizedType{Raw: List, Args: []TypeName{boxed(elem)}}
	case schema.Set:
		t = ParameterizedType{Raw: Set, Args: []TypeName{boxed(elem)}}
	case schema.Map:
		t = ParameterizedType{Raw: Map, Args: []TypeName{boxed(key), boxed(elem)}}
	default:
		panic(fmt.Sprintf("java: unmapped collection %s", kind))
	}
	rt := resolved(t)
	rt.Imports = []string{t.Raw.Qualified()}
	return rt
}

// Nullable maps an optional value. Java references are nullable, so only
// primitives change, to their wrapper class.
func (d *Dialect) Nullable(inner *gen.ResolvedType) *gen.ResolvedType {
	rt := resolved(boxed(inner))
	rt.Nullable = true
	return rt
}

// resolved returns a ResolvedType for t, importing the class names of t
// that live outside java.lang.
func resolved(t TypeName) *gen.ResolvedType {
	rt := &gen.ResolvedType{
		Name:      typeString(t, false),
		Qualified: typeString(t, true),
		Node:      t,
	}
	t.walk(func(c ClassName) {
		if c.Package != "" && c.Package != "java.lang" {
			rt.Imports = append(rt.Imports, c.Qualified())
		}
	})
	return rt
}

func boxed(rt *gen.ResolvedType) TypeName {
	return Box(nodeOf(rt))
}

// nodeOf returns the Java type of a resolved type.
func nodeOf(rt *gen.ResolvedType) TypeName {
	t, ok := rt.Node.(TypeName)
	if !ok {
		panic(fmt.Sprintf("java: type %s was not resolved by the java dialect", rt))
	}
	return t
}
