package java

import (
	"fmt"
	"path"
	"strings"
)

// TypeName is a Java type expression.
type TypeName interface {
	// walk calls fn for every class name referenced by the type.
	walk(fn func(ClassName))
}

type (
	// PrimitiveType is one of the eight Java primitive types.
	PrimitiveType string

	// ClassName is a top-level class, e.g. java.util.List. An empty Package
	// denotes a name that is visible without an import.
	ClassName struct {
		Package string
		Simple  string
	}

	// ParameterizedType is a generic type applied to type arguments.
	ParameterizedType struct {
		Raw  ClassName
		Args []TypeName
	}

	// ArrayType is an array of Elem.
	ArrayType struct {
		Elem TypeName
	}
)

// Primitive types.
const (
	Boolean PrimitiveType = "boolean"
	Byte    PrimitiveType = "byte"
	Short   PrimitiveType = "short"
	Int     PrimitiveType = "int"
	Long    PrimitiveType = "long"
	Float   PrimitiveType = "float"
	Double  PrimitiveType = "double"
	Char    PrimitiveType = "char"
)

// Frequently used class names.
var (
	Object       = ClassName{Package: "java.lang", Simple: "Object"}
	String       = ClassName{Package: "java.lang", Simple: "String"}
	Override     = ClassName{Package: "java.lang", Simple: "Override"}
	Objects      = ClassName{Package: "java.util", Simple: "Objects"}
	Arrays       = ClassName{Package: "java.util", Simple: "Arrays"}
	List         = ClassName{Package: "java.util", Simple: "List"}
	Set          = ClassName{Package: "java.util", Simple: "Set"}
	Map          = ClassName{Package: "java.util", Simple: "Map"}
	BigDecimal   = ClassName{Package: "java.math", Simple: "BigDecimal"}
	UUID         = ClassName{Package: "java.util", Simple: "UUID"}
	Instant      = ClassName{Package: "java.time", Simple: "Instant"}
	LocalDate    = ClassName{Package: "java.time", Simple: "LocalDate"}
	boxedClasses = map[PrimitiveType]ClassName{
		Boolean: {Package: "java.lang", Simple: "Boolean"},
		Byte:    {Package: "java.lang", Simple: "Byte"},
		Short:   {Package: "java.lang", Simple: "Short"},
		Int:     {Package: "java.lang", Simple: "Integer"},
		Long:    {Package: "java.lang", Simple: "Long"},
		Float:   {Package: "java.lang", Simple: "Float"},
		Double:  {Package: "java.lang", Simple: "Double"},
		Char:    {Package: "java.lang", Simple: "Character"},
	}
)

// ClassOf parses a qualified name such as "lombok.Data". A name without a
// package yields a ClassName with an empty Package.
func ClassOf(name string) ClassName {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return ClassName{Package: name[:i], Simple: name[i+1:]}
	}
	return ClassName{Simple: name}
}

// Box returns the wrapper class of a primitive type, and any other type unchanged.
func Box(t TypeName) TypeName {
	if p, ok := t.(PrimitiveType); ok {
		return boxedClasses[p]
	}
	return t
}

// Qualified returns the qualified name of the class.
func (c ClassName) Qualified() string {
	if c.Package == "" {
		return c.Simple
	}
	return c.Package + "." + c.Simple
}

// String returns the qualified name of the class.
func (c ClassName) String() string { return c.Qualified() }

func (PrimitiveType) walk(func(ClassName)) {}

func (c ClassName) walk(fn func(ClassName)) { fn(c) }

func (p ParameterizedType) walk(fn func(ClassName)) {
	fn(p.Raw)
	for _, a := range p.Args {
		a.walk(fn)
	}
}

func (a ArrayType) walk(fn func(ClassName)) { a.Elem.walk(fn) }

// typeString formats t with simple or qualified class names.
func typeString(t TypeName, qualified bool) string {
	var b strings.Builder
	writeType(&b, t, func(c ClassName) string {
		if qualified {
			return c.Qualified()
		}
		return c.Simple
	})
	return b.String()
}

func writeType(b *strings.Builder, t TypeName, name func(ClassName) string) {
	switch t := t.(type) {
	case PrimitiveType:
		b.WriteString(string(t))
	case ClassName:
		b.WriteString(name(t))
	case ParameterizedType:
		b.WriteString(name(t.Raw))
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, a, name)
		}
		b.WriteByte('>')
	case ArrayType:
		writeType(b, t.Elem, name)
		b.WriteString("[]")
	default:
		panic(fmt.Sprintf("java: unexpected type %T", t))
	}
}

type (
	// File is a Java compilation unit holding one top-level type.
	File struct {
		Package string
		Type    *TypeDecl

		// Siblings holds the simple names of the other types generated
		// into the package. They hide the classes of java.lang.
		Siblings []string
	}

	// DeclKind selects class or enum declarations.
	DeclKind uint8

	// TypeDecl is a top-level class or enum declaration.
	TypeDecl struct {
		Kind        DeclKind
		Name        string
		Javadoc     []string
		Annotations []*Annotation
		Modifiers   []string
		Super       TypeName
		Constants   []*EnumConstant
		Fields      []*FieldDecl
		Methods     []*MethodDecl
	}

	// Annotation is an annotation usage. Members keep their order; a
	// single member named "value" renders positionally.
	Annotation struct {
		Type    ClassName
		Members []AnnotationMember
	}

	// AnnotationMember is a named annotation argument.
	AnnotationMember struct {
		Name  string
		Value Code
	}

	// EnumConstant is a constant of an enum declaration.
	EnumConstant struct {
		Javadoc []string
		Name    string
		Args    []Code
	}

	// FieldDecl is a field declaration.
	FieldDecl struct {
		Javadoc     []string
		Annotations []*Annotation
		Modifiers   []string
		Type        TypeName
		Name        string
		Init        *Code
	}

	// MethodDecl is a method or constructor declaration. Constructors have
	// a nil Return and Constructor set; void methods have a nil Return.
	MethodDecl struct {
		Javadoc     []string
		Annotations []*Annotation
		Modifiers   []string
		Constructor bool
		Return      TypeName
		Name        string
		Params      []*Param
		Body        []Code
	}

	// Param is a method parameter.
	Param struct {
		Annotations []*Annotation
		Type        TypeName
		Name        string
	}
)

// Declaration kinds.
const (
	ClassDecl DeclKind = iota
	EnumDecl
)

// Path returns the slash-separated path of the source file, derived from
// its package and type name.
func (f *File) Path() string {
	dir := strings.ReplaceAll(f.Package, ".", "/")
	return path.Join(dir, f.Type.Name+".java")
}

// walk calls fn for every class name referenced by the file.
func (f *File) walk(fn func(ClassName)) {
	d := f.Type
	walkAnnotations(d.Annotations, fn)
	if d.Super != nil {
		d.Super.walk(fn)
	}
	for _, c := range d.Constants {
		for _, a := range c.Args {
			a.walk(fn)
		}
	}
	for _, fd := range d.Fields {
		walkAnnotations(fd.Annotations, fn)
		fd.Type.walk(fn)
		if fd.Init != nil {
			fd.Init.walk(fn)
		}
	}
	for _, m := range d.Methods {
		walkAnnotations(m.Annotations, fn)
		if m.Return != nil {
			m.Return.walk(fn)
		}
		for _, p := range m.Params {
			walkAnnotations(p.Annotations, fn)
			p.Type.walk(fn)
		}
		for _, s := range m.Body {
			s.walk(fn)
		}
	}
}

func walkAnnotations(as []*Annotation, fn func(ClassName)) {
	for _, a := range as {
		a.refs(fn)
	}
}

func (a *Annotation) refs(fn func(ClassName)) {
	fn(a.Type)
	for _, m := range a.Members {
		m.Value.walk(fn)
	}
}

// Code is a fragment of Java source with embedded type references, built
// by Codef. Type references are resolved against the imports of the file
// when it is rendered.
type Code struct {
	parts []any // string, TypeName, *Annotation, indentMark
}

type indentMark int

// Codef builds a code fragment. The format supports the following verbs:
//
//	$T  a TypeName argument
//	$L  a literal: string, Code or *Annotation argument, emitted as is
//	$S  a string argument, emitted as a Java string literal
//	$N  a name (string) argument
//	$>  increases the indentation of the following lines
//	$<  decreases the indentation of the following lines
//	$$  a dollar sign
//
// Codef panics if the arguments do not match the format.
func Codef(format string, args ...any) Code {
	var (
		c   Code
		buf strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			c.parts = append(c.parts, buf.String())
			buf.Reset()
		}
	}
	next := func(verb byte) any {
		if len(args) == 0 {
			panic(fmt.Sprintf("java: missing argument for $%c in %q", verb, format))
		}
		a := args[0]
		args = args[1:]
		return a
	}
	for i := 0; i < len(format); i++ {
		if format[i] != '$' || i+1 == len(format) {
			buf.WriteByte(format[i])
			continue
		}
		i++
		switch verb := format[i]; verb {
		case '$':
			buf.WriteByte('$')
		case '>':
			flush()
			c.parts = append(c.parts, indentMark(1))
		case '<':
			flush()
			c.parts = append(c.parts, indentMark(-1))
		case 'T':
			t, ok := next(verb).(TypeName)
			if !ok {
				panic(fmt.Sprintf("java: $T expects a TypeName in %q", format))
			}
			flush()
			c.parts = append(c.parts, t)
		case 'S':
			s, ok := next(verb).(string)
			if !ok {
				panic(fmt.Sprintf("java: $S expects a string in %q", format))
			}
			buf.WriteString(quote(s))
		case 'N':
			s, ok := next(verb).(string)
			if !ok {
				panic(fmt.Sprintf("java: $N expects a string in %q", format))
			}
			buf.WriteString(s)
		case 'L':
			switch a := next(verb).(type) {
			case string:
				buf.WriteString(a)
			case Code:
				flush()
				c.parts = append(c.parts, a.parts...)
			case *Annotation:
				flush()
				c.parts = append(c.parts, a)
			default:
				panic(fmt.Sprintf("java: $L does not accept %T in %q", a, format))
			}
		default:
			panic(fmt.Sprintf("java: unknown verb $%c in %q", verb, format))
		}
	}
	if len(args) > 0 {
		panic(fmt.Sprintf("java: %d unused arguments for %q", len(args), format))
	}
	flush()
	return c
}

// JoinCode joins code fragments with a separator.
func JoinCode(codes []Code, sep string) Code {
	var c Code
	for i, code := range codes {
		if i > 0 {
			c.parts = append(c.parts, sep)
		}
		c.parts = append(c.parts, code.parts...)
	}
	return c
}

// IsEmpty reports if the fragment holds nothing.
func (c Code) IsEmpty() bool { return len(c.parts) == 0 }

func (c Code) walk(fn func(ClassName)) {
	for _, p := range c.parts {
		switch p := p.(type) {
		case TypeName:
			p.walk(fn)
		case *Annotation:
			p.refs(fn)
		}
	}
}

// String returns the fragment with qualified type names.
func (c Code) String() string {
	p := newPrinter("    ", nil)
	p.code(c)
	return p.b.String()
}
