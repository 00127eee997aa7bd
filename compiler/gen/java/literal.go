package java

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// quote returns s as a Java string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(escapeRune(r, '"'))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeRune(r, delim rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case delim:
		return `\` + string(r)
	}
	if r < 0x20 || r == 0x7f {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}

// doubleLiteral formats f as a Java double literal.
func doubleLiteral(f float64) (string, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, true
}

// AnnotationOf converts a schema annotation to a Java annotation. Simple
// names are used as is; qualified names are imported.
func AnnotationOf(a *schema.Annotation) (*Annotation, error) {
	if err := checkQualified(a.Name); err != nil {
		return nil, gen.NewAnnotationShapeError(a.Name, "", err.Error())
	}
	ja := &Annotation{Type: ClassOf(a.Name)}
	for _, arg := range a.Args {
		if !IsIdentifier(arg.Name) || IsReserved(arg.Name) {
			return nil, gen.NewAnnotationShapeError(a.Name, arg.Name, "argument name is not a valid Java identifier")
		}
		v, err := annotationValue(arg.Value, false)
		if _, ok := err.(*gen.AnnotationShapeError); ok {
			return nil, err
		}
		if err != nil {
			return nil, gen.NewAnnotationShapeError(a.Name, arg.Name, err.Error())
		}
		ja.Members = append(ja.Members, AnnotationMember{Name: arg.Name, Value: v})
	}
	return ja, nil
}

func checkQualified(name string) error {
	for _, seg := range strings.Split(name, ".") {
		if !IsIdentifier(seg) || IsReserved(seg) {
			return fmt.Errorf("%q is not a valid annotation type name", name)
		}
	}
	return nil
}

// annotationValue converts an annotation argument. Java annotation values
// are constants, class literals, enum constants, nested annotations or
// one-dimensional arrays of those.
func annotationValue(v schema.Value, inList bool) (Code, error) {
	switch v.Kind {
	case schema.ValueString:
		return Codef("$S", v.Str), nil
	case schema.ValueInt:
		if v.Int < math.MinInt32 || v.Int > math.MaxInt32 {
			return Codef("$LL", strconv.FormatInt(v.Int, 10)), nil
		}
		return Codef("$L", strconv.FormatInt(v.Int, 10)), nil
	case schema.ValueFloat:
		s, ok := doubleLiteral(v.Float)
		if !ok {
			return Code{}, fmt.Errorf("%v is not a finite number", v.Float)
		}
		return Codef("$L", s), nil
	case schema.ValueBool:
		return Codef("$L", strconv.FormatBool(v.Bool)), nil
	case schema.ValueList:
		if inList {
			return Code{}, fmt.Errorf("nested lists are not supported")
		}
		elems := make([]Code, 0, len(v.List))
		for _, e := range v.List {
			c, err := annotationValue(e, true)
			if err != nil {
				return Code{}, err
			}
			elems = append(elems, c)
		}
		return Codef("{$L}", JoinCode(elems, ", ")), nil
	case schema.ValueMap:
		if v.Type == "" {
			return Code{}, fmt.Errorf("untyped maps are not supported, name the annotation type of the map")
		}
		nested, err := AnnotationOf(&schema.Annotation{Name: v.Type, Args: v.Entries})
		if err != nil {
			return Code{}, err
		}
		return Codef("$L", nested), nil
	default:
		return Code{}, fmt.Errorf("null is not a valid annotation value")
	}
}

// DefaultValue converts a field default to an initializer of the Java
// type of f.
func DefaultValue(f *gen.Field) (Code, error) {
	c, err := literal(*f.Default, f.Type.Ref, f.Nullable())
	if err != nil {
		return Code{}, gen.NewAnnotationShapeError("", f.Name, "default value: "+err.Error())
	}
	return c, nil
}

// literal converts v to an expression of the type of ref.
func literal(v schema.Value, ref *schema.TypeRef, nullable bool) (Code, error) {
	if v.Kind == schema.ValueNull {
		if !nullable {
			return Code{}, fmt.Errorf("null for non-nullable type %s", ref)
		}
		return Codef("null"), nil
	}
	mismatch := func() (Code, error) {
		return Code{}, fmt.Errorf("%s value %s cannot initialize %s", v.Kind, v, ref)
	}
	switch ref.Kind {
	case schema.TypeNullable:
		return literal(v, ref.Elem, true)
	case schema.TypePrimitive:
		return primitiveLiteral(v, ref.Primitive, mismatch)
	case schema.TypeCollection:
		switch ref.Collection {
		case schema.List, schema.Set:
			if v.Kind != schema.ValueList {
				return mismatch()
			}
			elems := make([]Code, 0, len(v.List))
			for _, e := range v.List {
				c, err := literal(e, ref.Elem, false)
				if err != nil {
					return Code{}, err
				}
				elems = append(elems, c)
			}
			raw := List
			if ref.Collection == schema.Set {
				raw = Set
			}
			return Codef("$T.of($L)", raw, JoinCode(elems, ", ")), nil
		case schema.Map:
			if v.Kind != schema.ValueMap || v.Type != "" {
				return mismatch()
			}
			key := ref.MapKey()
			if key.Kind != schema.TypePrimitive || key.Primitive != schema.String {
				return Code{}, fmt.Errorf("map defaults need string keys, got %s", key)
			}
			if len(v.Entries) > 10 {
				return Code{}, fmt.Errorf("map defaults hold at most 10 entries")
			}
			elems := make([]Code, 0, 2*len(v.Entries))
			for _, e := range v.Entries {
				c, err := literal(e.Value, ref.Elem, false)
				if err != nil {
					return Code{}, err
				}
				elems = append(elems, Codef("$S", e.Name), c)
			}
			return Codef("$T.of($L)", Map, JoinCode(elems, ", ")), nil
		}
	}
	return Code{}, fmt.Errorf("default values are not supported for %s", ref)
}

func primitiveLiteral(v schema.Value, k schema.PrimitiveKind, mismatch func() (Code, error)) (Code, error) {
	integral := func(lo, hi int64, format string) (Code, error) {
		if v.Kind != schema.ValueInt {
			return mismatch()
		}
		if v.Int < lo || v.Int > hi {
			return Code{}, fmt.Errorf("%d overflows %s", v.Int, k)
		}
		return Codef(format, strconv.FormatInt(v.Int, 10)), nil
	}
	floating := func(suffix string) (Code, error) {
		var f float64
		switch v.Kind {
		case schema.ValueInt:
			f = float64(v.Int)
		case schema.ValueFloat:
			f = v.Float
		default:
			return mismatch()
		}
		if k == schema.Float && math.Abs(f) > math.MaxFloat32 {
			return Code{}, fmt.Errorf("%v overflows float", f)
		}
		s, ok := doubleLiteral(f)
		if !ok {
			return Code{}, fmt.Errorf("%v is not a finite number", f)
		}
		return Codef("$L", s+suffix), nil
	}
	text := func(format string, typ ClassName) (Code, error) {
		if v.Kind != schema.ValueString {
			return mismatch()
		}
		return Codef(format, typ, v.Str), nil
	}
	switch k {
	case schema.Bool:
		if v.Kind != schema.ValueBool {
			return mismatch()
		}
		return Codef("$L", strconv.FormatBool(v.Bool)), nil
	case schema.Byte:
		return integral(math.MinInt8, math.MaxInt8, "(byte) $L")
	case schema.Short:
		return integral(math.MinInt16, math.MaxInt16, "(short) $L")
	case schema.Int:
		return integral(math.MinInt32, math.MaxInt32, "$L")
	case schema.Long:
		return integral(math.MinInt64, math.MaxInt64, "$LL")
	case schema.Float:
		return floating("f")
	case schema.Double:
		return floating("")
	case schema.Char:
		if v.Kind != schema.ValueString || utf8.RuneCountInString(v.Str) != 1 {
			return mismatch()
		}
		r, _ := utf8.DecodeRuneInString(v.Str)
		if r > 0xffff {
			return Code{}, fmt.Errorf("%q does not fit in a char", v.Str)
		}
		return Codef("'$L'", escapeRune(r, '\'')), nil
	case schema.String:
		if v.Kind != schema.ValueString {
			return mismatch()
		}
		return Codef("$S", v.Str), nil
	case schema.Decimal:
		switch v.Kind {
		case schema.ValueString:
			if _, err := strconv.ParseFloat(v.Str, 64); err != nil {
				return Code{}, fmt.Errorf("%q is not a decimal number", v.Str)
			}
			return Codef("new $T($S)", BigDecimal, v.Str), nil
		case schema.ValueInt:
			return Codef("new $T($S)", BigDecimal, strconv.FormatInt(v.Int, 10)), nil
		case schema.ValueFloat:
			return Codef("new $T($S)", BigDecimal, strconv.FormatFloat(v.Float, 'f', -1, 64)), nil
		}
		return mismatch()
	case schema.UUID:
		return text("$T.fromString($S)", UUID)
	case schema.Instant:
		return text("$T.parse($S)", Instant)
	case schema.Date:
		return text("$T.parse($S)", LocalDate)
	case schema.Bytes:
		if v.Kind != schema.ValueList {
			return mismatch()
		}
		elems := make([]Code, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind != schema.ValueInt || e.Int < math.MinInt8 || e.Int > math.MaxInt8 {
				return Code{}, fmt.Errorf("byte array elements must be integers in [-128, 127]")
			}
			elems = append(elems, Codef("$L", strconv.FormatInt(e.Int, 10)))
		}
		return Codef("new byte[]{$L}", JoinCode(elems, ", ")), nil
	}
	return mismatch()
}
