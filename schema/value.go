package schema

import (
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

// Value variants. The zero Value is null.
const (
	ValueNull ValueKind = iota
	ValueString
	ValueInt
	ValueFloat
	ValueBool
	ValueList
	ValueMap
)

// String returns the variant name.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueMap:
		return "map"
	default:
		return "null"
	}
}

// Value is a literal used for annotation arguments, default values and enum
// constant arguments. It is a tagged union selected by Kind; only the member
// matching Kind is meaningful.
//
// A map Value keeps its entries in insertion order. Type optionally names the
// declaring type of a map, which lets dialects render it as a nested annotation.
type Value struct {
	Kind    ValueKind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	List    []Value
	Type    string
	Entries []Arg
}

// Arg is a named argument of an annotation or an entry of a map value.
type Arg struct {
	Name  string
	Value Value
}

// StringValue returns a string literal.
func StringValue(s string) *Value { return &Value{Kind: ValueString, Str: s} }

// IntValue returns an integer literal.
func IntValue(i int64) *Value { return &Value{Kind: ValueInt, Int: i} }

// FloatValue returns a floating-point literal.
func FloatValue(f float64) *Value { return &Value{Kind: ValueFloat, Float: f} }

// BoolValue returns a boolean literal.
func BoolValue(b bool) *Value { return &Value{Kind: ValueBool, Bool: b} }

// NullValue returns the null literal.
func NullValue() *Value { return &Value{Kind: ValueNull} }

// ListValue returns a list literal.
func ListValue(vs ...*Value) *Value {
	l := &Value{Kind: ValueList, List: make([]Value, 0, len(vs))}
	for _, v := range vs {
		l.List = append(l.List, *v)
	}
	return l
}

// MapValue returns an untyped mapping with the given entries in order.
func MapValue(entries ...Arg) *Value {
	return &Value{Kind: ValueMap, Entries: entries}
}

// NestedValue returns a mapping whose declaring type is typ,
// e.g. a nested annotation.
func NestedValue(typ string, entries ...Arg) *Value {
	return &Value{Kind: ValueMap, Type: typ, Entries: entries}
}

// NewArg returns a named argument.
func NewArg(name string, v *Value) Arg {
	return Arg{Name: name, Value: *v}
}

// Lookup returns the entry of a map value with the given name.
func (v Value) Lookup(name string) (Value, bool) {
	for _, e := range v.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// String returns a diagnostic representation of the value.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case ValueString:
		b.WriteString(strconv.Quote(v.Str))
	case ValueInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case ValueFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case ValueBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case ValueList:
		b.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(']')
	case ValueMap:
		b.WriteString(v.Type)
		b.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Name)
			b.WriteString(": ")
			e.Value.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}

// Annotation is a schema-level annotation attached to an entity or a field.
// Name is either a simple name ("Data") or a qualified one ("lombok.Data").
// Args keep their declaration order.
type Annotation struct {
	Name string
	Args []Arg
}

// SimpleName returns the last segment of the annotation name.
func (a *Annotation) SimpleName() string {
	if i := strings.LastIndexByte(a.Name, '.'); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// Qualifier returns the package part of a qualified annotation name,
// or an empty string for simple names.
func (a *Annotation) Qualifier() string {
	if i := strings.LastIndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return ""
}

// Arg returns the argument with the given name.
func (a *Annotation) Arg(name string) (Value, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return Value{}, false
}
