package golang

import (
	"fmt"
	"go/token"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// DefaultValue returns the Go expression of the default of f. A value that
// cannot initialize the field type fails with an AnnotationShapeError.
func (d *Dialect) DefaultValue(f *gen.Field) (jen.Code, error) {
	c, err := d.literal(*f.Default, f.Type.Ref, f.Nullable())
	if err != nil {
		return nil, gen.NewAnnotationShapeError("", f.Name, "default value: "+err.Error())
	}
	return c, nil
}

func (d *Dialect) literal(v schema.Value, ref *schema.TypeRef, nullable bool) (jen.Code, error) {
	if v.Kind == schema.ValueNull {
		if !nullable && ref.Kind != schema.TypeNullable {
			return nil, fmt.Errorf("null for non-nullable type %s", ref)
		}
		return jen.Nil(), nil
	}
	mismatch := func() (jen.Code, error) {
		return nil, fmt.Errorf("%s value %s cannot initialize %s", v.Kind, v, ref)
	}
	switch ref.Kind {
	case schema.TypeNullable:
		inner, err := d.mapRef(ref.Elem)
		if err != nil {
			return nil, err
		}
		c, err := d.literal(v, ref.Elem, true)
		if err != nil || nillable(inner) {
			return c, err
		}
		// Only variables are addressable.
		return jen.Func().Params().Op("*").Add(nodeOf(inner)).Block(
			jen.Var().Id("v").Add(nodeOf(inner)).Op("=").Add(c),
			jen.Return(jen.Op("&").Id("v")),
		).Call(), nil
	case schema.TypePrimitive:
		return primitiveLiteral(v, ref.Primitive, mismatch)
	case schema.TypeCollection:
		rt, err := d.mapRef(ref)
		if err != nil {
			return nil, err
		}
		switch ref.Collection {
		case schema.List, schema.Set:
			if v.Kind != schema.ValueList {
				return mismatch()
			}
			elems := make([]jen.Code, 0, len(v.List))
			seen := make(map[string]bool, len(v.List))
			for _, e := range v.List {
				c, err := d.literal(e, ref.Elem, false)
				if err != nil {
					return nil, err
				}
				if ref.Collection == schema.Set {
					key := fmt.Sprintf("%#v", c)
					if seen[key] {
						return nil, fmt.Errorf("duplicate set element %s", e)
					}
					seen[key] = true
					c = jen.Add(c).Op(":").Values()
				}
				elems = append(elems, c)
			}
			return jen.Add(nodeOf(rt)).Values(elems...), nil
		case schema.Map:
			if v.Kind != schema.ValueMap || v.Type != "" {
				return mismatch()
			}
			key := ref.MapKey()
			if key.Kind != schema.TypePrimitive || key.Primitive != schema.String {
				return nil, fmt.Errorf("map defaults need string keys, got %s", key)
			}
			elems := make([]jen.Code, 0, len(v.Entries))
			seen := make(map[string]bool, len(v.Entries))
			for _, e := range v.Entries {
				if seen[e.Name] {
					return nil, fmt.Errorf("duplicate map key %q", e.Name)
				}
				seen[e.Name] = true
				c, err := d.literal(e.Value, ref.Elem, false)
				if err != nil {
					return nil, err
				}
				elems = append(elems, jen.Lit(e.Name).Op(":").Add(c))
			}
			return jen.Add(nodeOf(rt)).Values(elems...), nil
		}
	}
	return nil, fmt.Errorf("default values are not supported for %s", ref)
}

func primitiveLiteral(v schema.Value, k schema.PrimitiveKind, mismatch func() (jen.Code, error)) (jen.Code, error) {
	integral := func(lo, hi int64) (jen.Code, error) {
		if v.Kind != schema.ValueInt {
			return mismatch()
		}
		if v.Int < lo || v.Int > hi {
			return nil, fmt.Errorf("%d overflows %s", v.Int, k)
		}
		return jen.Lit(int(v.Int)), nil
	}
	floating := func() (jen.Code, error) {
		var f float64
		switch v.Kind {
		case schema.ValueInt:
			f = float64(v.Int)
		case schema.ValueFloat:
			f = v.Float
		default:
			return mismatch()
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%v is not a finite number", f)
		}
		if k == schema.Float && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%v overflows float", f)
		}
		return jen.Lit(f), nil
	}
	text := func() (string, bool) {
		return v.Str, v.Kind == schema.ValueString
	}
	switch k {
	case schema.Bool:
		if v.Kind != schema.ValueBool {
			return mismatch()
		}
		return jen.Lit(v.Bool), nil
	case schema.Byte:
		return integral(math.MinInt8, math.MaxInt8)
	case schema.Short:
		return integral(math.MinInt16, math.MaxInt16)
	case schema.Int:
		return integral(math.MinInt32, math.MaxInt32)
	case schema.Long:
		return integral(math.MinInt64, math.MaxInt64)
	case schema.Float, schema.Double:
		return floating()
	case schema.Char:
		s, ok := text()
		if !ok || utf8.RuneCountInString(s) != 1 {
			return mismatch()
		}
		r, _ := utf8.DecodeRuneInString(s)
		return jen.LitRune(r), nil
	case schema.String:
		s, ok := text()
		if !ok {
			return mismatch()
		}
		return jen.Lit(s), nil
	case schema.Decimal:
		r, ok := new(big.Rat), false
		switch v.Kind {
		case schema.ValueString:
			if _, ok = r.SetString(v.Str); !ok {
				return nil, fmt.Errorf("%q is not a decimal number", v.Str)
			}
		case schema.ValueInt:
			r.SetInt64(v.Int)
		case schema.ValueFloat:
			if _, ok = r.SetString(strconv.FormatFloat(v.Float, 'f', -1, 64)); !ok {
				return nil, fmt.Errorf("%v is not a finite number", v.Float)
			}
		default:
			return mismatch()
		}
		if !r.Num().IsInt64() || !r.Denom().IsInt64() {
			return nil, fmt.Errorf("%s overflows the int64 fraction of big.NewRat", r.RatString())
		}
		return jen.Qual("math/big", "NewRat").Call(jen.Lit(int(r.Num().Int64())), jen.Lit(int(r.Denom().Int64()))), nil
	case schema.UUID:
		s, ok := text()
		if !ok {
			return mismatch()
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a UUID: %w", s, err)
		}
		return jen.Index(jen.Lit(16)).Byte().ValuesFunc(func(g *jen.Group) {
			for _, b := range id {
				g.Op(fmt.Sprintf("0x%02x", b))
			}
		}), nil
	case schema.Instant, schema.Date:
		s, ok := text()
		if !ok {
			return mismatch()
		}
		layout := time.RFC3339Nano
		if k == schema.Date {
			layout = time.DateOnly
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid %s: %w", s, k, err)
		}
		return timeDate(t.UTC()), nil
	case schema.Bytes:
		if v.Kind != schema.ValueList {
			return mismatch()
		}
		elems := make([]jen.Code, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind != schema.ValueInt || e.Int < math.MinInt8 || e.Int > math.MaxUint8 {
				return nil, fmt.Errorf("byte array elements must be integers in [-128, 255], got %s", e)
			}
			elems = append(elems, jen.Lit(int(uint8(e.Int))))
		}
		return jen.Index().Byte().Values(elems...), nil
	}
	return mismatch()
}

// timeDate returns the time.Date call constructing t.
func timeDate(t time.Time) jen.Code {
	return jen.Qual("time", "Date").Call(
		jen.Lit(t.Year()),
		jen.Qual("time", t.Month().String()),
		jen.Lit(t.Day()),
		jen.Lit(t.Hour()),
		jen.Lit(t.Minute()),
		jen.Lit(t.Second()),
		jen.Lit(t.Nanosecond()),
		jen.Qual("time", "UTC"),
	)
}

// StructTag renders field annotations as a struct tag, keeping their order.
// The simple annotation name is the key. A "value" argument comes first,
// other arguments render as name=value and true flags as their bare name,
// e.g. @json(value: "id", omitempty: true) -> json:"id,omitempty".
func StructTag(anns []*schema.Annotation) (string, error) {
	if len(anns) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(anns))
	seen := make(map[string]bool, len(anns))
	for _, a := range anns {
		key := a.SimpleName()
		if !validTagKey(key) {
			return "", gen.NewAnnotationShapeError(a.Name, "", "not a valid struct tag key")
		}
		if seen[key] {
			return "", gen.NewAnnotationShapeError(a.Name, "", fmt.Sprintf("duplicate struct tag key %q", key))
		}
		seen[key] = true
		var opts []string
		if v, ok := a.Arg("value"); ok {
			s, err := tagValue(v)
			if err != nil {
				return "", gen.NewAnnotationShapeError(a.Name, "value", err.Error())
			}
			opts = append(opts, s)
		}
		for _, arg := range a.Args {
			switch {
			case arg.Name == "value":
				continue
			case !token.IsIdentifier(arg.Name):
				return "", gen.NewAnnotationShapeError(a.Name, arg.Name, "argument name is not a valid Go identifier")
			case arg.Value.Kind == schema.ValueBool:
				if arg.Value.Bool {
					opts = append(opts, arg.Name)
				}
				continue
			}
			s, err := tagValue(arg.Value)
			if err != nil {
				return "", gen.NewAnnotationShapeError(a.Name, arg.Name, err.Error())
			}
			opts = append(opts, arg.Name+"="+s)
		}
		parts = append(parts, key+":"+strconv.Quote(strings.Join(opts, ",")))
	}
	tag := strings.Join(parts, " ")
	if strconv.CanBackquote(tag) {
		return "`" + tag + "`", nil
	}
	return strconv.Quote(tag), nil
}

// validTagKey follows the key syntax of reflect.StructTag.
func validTagKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r <= ' ' || r == ':' || r == '"' || r == 0x7f {
			return false
		}
	}
	return true
}

func tagValue(v schema.Value) (string, error) {
	switch v.Kind {
	case schema.ValueString:
		return v.Str, nil
	case schema.ValueInt, schema.ValueFloat, schema.ValueBool:
		return v.String(), nil
	case schema.ValueList:
		elems := make([]string, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind == schema.ValueList {
				return "", fmt.Errorf("nested lists are not supported")
			}
			s, err := tagValue(e)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		return strings.Join(elems, " "), nil
	case schema.ValueMap:
		return "", fmt.Errorf("maps are not supported in struct tags")
	}
	return "", fmt.Errorf("null is not a valid annotation value")
}

// Directive renders an entity annotation as a comment directive, e.g.
// @Table(name: "users") -> //lumi:annotation Table name="users".
func Directive(a *schema.Annotation) (string, error) {
	for _, seg := range strings.Split(a.Name, ".") {
		if !token.IsIdentifier(seg) {
			return "", gen.NewAnnotationShapeError(a.Name, "", "not a valid annotation name")
		}
	}
	var b strings.Builder
	b.WriteString("//lumi:annotation ")
	b.WriteString(a.Name)
	if v, ok := a.Arg("value"); ok {
		s, err := directiveValue(v)
		if err != nil {
			return "", gen.NewAnnotationShapeError(a.Name, "value", err.Error())
		}
		b.WriteString(" ")
		b.WriteString(s)
	}
	for _, arg := range a.Args {
		if arg.Name == "value" {
			continue
		}
		if !token.IsIdentifier(arg.Name) {
			return "", gen.NewAnnotationShapeError(a.Name, arg.Name, "argument name is not a valid Go identifier")
		}
		s, err := directiveValue(arg.Value)
		if err != nil {
			return "", gen.NewAnnotationShapeError(a.Name, arg.Name, err.Error())
		}
		fmt.Fprintf(&b, " %s=%s", arg.Name, s)
	}
	return b.String(), nil
}

func directiveValue(v schema.Value) (string, error) {
	switch v.Kind {
	case schema.ValueString, schema.ValueInt, schema.ValueFloat, schema.ValueBool:
		return v.String(), nil
	case schema.ValueList:
		elems := make([]string, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind == schema.ValueList {
				return "", fmt.Errorf("nested lists are not supported")
			}
			s, err := directiveValue(e)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
		return "[" + strings.Join(elems, ",") + "]", nil
	case schema.ValueMap:
		return "", fmt.Errorf("maps are not supported in directives")
	}
	return "", fmt.Errorf("null is not a valid annotation value")
}
