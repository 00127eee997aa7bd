package load

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/luminiadev/lumigen/schema"
)

// SDL mapping:
//
//   - object and input types are classes, interfaces are abstract classes
//   - enums are enums, and their values are the constants
//   - a single implemented interface is the parent; fields repeated from
//     the interface chain are inherited, not redeclared
//   - a non-null type is required, any other type is nullable
//   - Int, Float, String, ID and Boolean map to int, double, string, string
//     and bool; other scalars map to the primitive of the same name, or to
//     the one given by @primitive
//   - descriptions become comments
//
// The directives below carry what SDL cannot express. Any other directive
// becomes an annotation of the same name with its arguments. An object
// value with a "__type" key names its declaring type.
const (
	// @package(name: String!) on types sets the target package.
	directivePackage = "package"
	// @abstract on object types makes them abstract.
	directiveAbstract = "abstract"
	// @annotation(name: String!, args: Object) adds an annotation whose name
	// is not a GraphQL name, e.g. "lombok.Getter".
	directiveAnnotation = "annotation"
	// @mutable on fields makes them mutable.
	directiveMutable = "mutable"
	// @default(value: Any!) on fields sets the default value.
	directiveDefault = "default"
	// @type(expr: String!) on fields overrides the SDL type with a type
	// expression, e.g. "map<string, int>".
	directiveType = "type"
	// @field(name: String!, type: String!, mutable: Boolean, default: Any)
	// on enums declares a field shared by the constants.
	directiveField = "field"
	// @value(args: [Any!]!) on enum values sets the constant arguments.
	directiveValue = "value"
	// @primitive(type: String!) on scalars maps them to a primitive.
	directivePrimitive = "primitive"
)

// valueTypeKey is the object key naming the declaring type of a map value.
const valueTypeKey = "__type"

// anyScalar is the placeholder type of fields whose type is set by @type.
const anyScalar = "Any"

var builtinScalars = map[string]schema.PrimitiveKind{
	"Int":     schema.Int,
	"Float":   schema.Double,
	"String":  schema.String,
	"ID":      schema.String,
	"Boolean": schema.Bool,
}

type sdlLoader struct {
	defs    map[string]*ast.Definition
	scalars map[string]schema.PrimitiveKind
}

func parseGraphQL(name string, data []byte) (*schema.Schema, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: string(data)})
	if err != nil {
		return nil, graphqlError(err)
	}
	defs, err := mergeExtensions(doc)
	if err != nil {
		return nil, err
	}
	l := &sdlLoader{
		defs:    make(map[string]*ast.Definition, len(defs)),
		scalars: make(map[string]schema.PrimitiveKind),
	}
	for _, def := range defs {
		if l.defs[def.Name] != nil {
			line, col := position(def.Position)
			return nil, errorf(line, col, "type %s declared twice", def.Name)
		}
		l.defs[def.Name] = def
	}
	for _, def := range defs {
		if def.Kind == ast.Scalar {
			if err := l.scalar(def); err != nil {
				return nil, err
			}
		}
	}
	s := schema.New()
	for _, def := range defs {
		switch def.Kind {
		case ast.Scalar:
			continue
		case ast.Union:
			line, col := position(def.Position)
			return nil, errorf(line, col, "union %s is not supported", def.Name)
		}
		e, err := l.entity(def)
		if err != nil {
			return nil, prefixed(err, "type %s: ", def.Name)
		}
		s.Entities = append(s.Entities, e)
	}
	return s, nil
}

func graphqlError(err error) error {
	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		e := &Error{Err: errors.New(gerr.Message)}
		if len(gerr.Locations) > 0 {
			e.Line, e.Column = gerr.Locations[0].Line, gerr.Locations[0].Column
		}
		return e
	}
	return &Error{Err: err}
}

func position(p *ast.Position) (line, column int) {
	if p == nil {
		return 0, 0
	}
	return p.Line, p.Column
}

// mergeExtensions folds "extend" definitions into the types they extend.
func mergeExtensions(doc *ast.SchemaDocument) ([]*ast.Definition, error) {
	defs := make([]*ast.Definition, 0, len(doc.Definitions))
	index := make(map[string]*ast.Definition, len(doc.Definitions))
	for _, def := range doc.Definitions {
		c := *def
		defs = append(defs, &c)
		if index[def.Name] == nil {
			index[def.Name] = &c
		}
	}
	for _, ext := range doc.Extensions {
		def := index[ext.Name]
		if def == nil || def.Kind != ext.Kind {
			line, col := position(ext.Position)
			return nil, errorf(line, col, "extension of undeclared %s %s", ext.Kind, ext.Name)
		}
		def.Directives = append(def.Directives, ext.Directives...)
		def.Interfaces = append(def.Interfaces, ext.Interfaces...)
		def.Fields = append(def.Fields, ext.Fields...)
		def.EnumValues = append(def.EnumValues, ext.EnumValues...)
		def.Types = append(def.Types, ext.Types...)
	}
	return defs, nil
}

func (l *sdlLoader) scalar(def *ast.Definition) error {
	line, col := position(def.Position)
	if _, ok := builtinScalars[def.Name]; ok {
		return errorf(line, col, "scalar %s redeclares a built-in scalar", def.Name)
	}
	if d := def.Directives.ForName(directivePrimitive); d != nil {
		name, err := stringArg(d, "type", true)
		if err != nil {
			return err
		}
		k, err := schema.ParsePrimitive(name)
		if err != nil {
			return errorf(line, col, "scalar %s: %v", def.Name, err)
		}
		l.scalars[def.Name] = k
		return nil
	}
	if k, err := schema.ParsePrimitive(def.Name); err == nil {
		l.scalars[def.Name] = k
	}
	return nil
}

func (l *sdlLoader) entity(def *ast.Definition) (*schema.Entity, error) {
	e := &schema.Entity{Name: def.Name, Comment: def.Description}
	switch def.Kind {
	case ast.Interface:
		e.Kind = schema.Abstract
	case ast.Enum:
		e.Kind = schema.Enum
	}
	switch len(def.Interfaces) {
	case 0:
	case 1:
		e.Parent = def.Interfaces[0]
	default:
		line, col := position(def.Position)
		return nil, errorf(line, col, "implements %d interfaces, at most one is supported", len(def.Interfaces))
	}
	for _, d := range def.Directives {
		switch d.Name {
		case directivePackage:
			pkg, err := stringArg(d, "name", true)
			if err != nil {
				return nil, err
			}
			e.Package = pkg
		case directiveAbstract:
			if def.Kind != ast.Object && def.Kind != ast.InputObject {
				return nil, directiveError(d, "only applies to object types")
			}
			e.Kind = schema.Abstract
		case directiveField:
			if def.Kind != ast.Enum {
				return nil, directiveError(d, "only applies to enums")
			}
			f, err := l.enumField(d)
			if err != nil {
				return nil, err
			}
			e.Fields = append(e.Fields, f)
		default:
			a, err := annotation(d)
			if err != nil {
				return nil, err
			}
			e.Annotations = append(e.Annotations, a)
		}
	}
	inherited := l.inherited(e.Parent)
	for _, fd := range def.Fields {
		if inherited[fd.Name] {
			continue
		}
		f, err := l.field(fd)
		if err != nil {
			return nil, prefixed(err, "field %s: ", fd.Name)
		}
		e.Fields = append(e.Fields, f)
	}
	for _, ev := range def.EnumValues {
		c, err := constant(ev)
		if err != nil {
			return nil, prefixed(err, "value %s: ", ev.Name)
		}
		e.Constants = append(e.Constants, c)
	}
	return e, nil
}

// inherited returns the field names declared along the interface chain
// starting at parent.
func (l *sdlLoader) inherited(parent string) map[string]bool {
	names := make(map[string]bool)
	seen := make(map[string]bool)
	for parent != "" && !seen[parent] {
		seen[parent] = true
		def := l.defs[parent]
		if def == nil {
			break
		}
		for _, fd := range def.Fields {
			names[fd.Name] = true
		}
		parent = ""
		if len(def.Interfaces) == 1 {
			parent = def.Interfaces[0]
		}
	}
	return names
}

func (l *sdlLoader) field(fd *ast.FieldDefinition) (*schema.Field, error) {
	if len(fd.Arguments) > 0 {
		line, col := position(fd.Position)
		return nil, errorf(line, col, "field arguments are not supported")
	}
	f := &schema.Field{Name: fd.Name, Comment: fd.Description}
	if fd.DefaultValue != nil {
		v, err := value(fd.DefaultValue, 0)
		if err != nil {
			return nil, err
		}
		f.Default = v
	}
	for _, d := range fd.Directives {
		switch d.Name {
		case directiveMutable:
			f.Mutable = true
		case directiveDefault:
			arg := d.Arguments.ForName("value")
			if arg == nil {
				return nil, directiveError(d, "missing argument value")
			}
			v, err := value(arg.Value, 0)
			if err != nil {
				return nil, err
			}
			f.Default = v
		case directiveType:
			expr, err := stringArg(d, "expr", true)
			if err != nil {
				return nil, err
			}
			if f.Type, err = schema.ParseTypeRef(expr); err != nil {
				line, col := position(d.Position)
				return nil, errorf(line, col, "%v", err)
			}
		default:
			a, err := annotation(d)
			if err != nil {
				return nil, err
			}
			f.Annotations = append(f.Annotations, a)
		}
	}
	if f.Type == nil {
		t, err := l.typeRef(fd.Type)
		if err != nil {
			line, col := position(fd.Position)
			return nil, errorf(line, col, "%v", err)
		}
		f.Type = t
	}
	return f, nil
}

// enumField decodes a @field directive of an enum.
func (l *sdlLoader) enumField(d *ast.Directive) (*schema.Field, error) {
	name, err := stringArg(d, "name", true)
	if err != nil {
		return nil, err
	}
	expr, err := stringArg(d, "type", true)
	if err != nil {
		return nil, err
	}
	f := &schema.Field{Name: name}
	if f.Type, err = schema.ParseTypeRef(expr); err != nil {
		line, col := position(d.Position)
		return nil, errorf(line, col, "%v", err)
	}
	for _, arg := range d.Arguments {
		switch arg.Name {
		case "name", "type":
		case "mutable":
			if arg.Value.Kind != ast.BooleanValue {
				return nil, directiveError(d, "mutable must be a boolean")
			}
			f.Mutable = arg.Value.Raw == "true"
		case "default":
			if f.Default, err = value(arg.Value, 0); err != nil {
				return nil, err
			}
		case "comment":
			if f.Comment, err = stringArg(d, "comment", false); err != nil {
				return nil, err
			}
		default:
			return nil, directiveError(d, fmt.Sprintf("unknown argument %s", arg.Name))
		}
	}
	return f, nil
}

func constant(ev *ast.EnumValueDefinition) (*schema.Constant, error) {
	c := &schema.Constant{Name: ev.Name, Comment: ev.Description}
	for _, d := range ev.Directives {
		if d.Name != directiveValue {
			return nil, directiveError(d, "unsupported on enum values")
		}
		arg := d.Arguments.ForName("args")
		if arg == nil {
			return nil, directiveError(d, "missing argument args")
		}
		v, err := value(arg.Value, 0)
		if err != nil {
			return nil, err
		}
		if v.Kind != schema.ValueList {
			v = schema.ListValue(v)
		}
		c.Args = v.List
	}
	return c, nil
}

func (l *sdlLoader) typeRef(t *ast.Type) (*schema.TypeRef, error) {
	var ref *schema.TypeRef
	if t.Elem != nil {
		elem, err := l.typeRef(t.Elem)
		if err != nil {
			return nil, err
		}
		ref = schema.ListOf(elem)
	} else {
		named, err := l.named(t.NamedType)
		if err != nil {
			return nil, err
		}
		ref = named
	}
	if !t.NonNull {
		ref = schema.NullableOf(ref)
	}
	return ref, nil
}

func (l *sdlLoader) named(name string) (*schema.TypeRef, error) {
	if def := l.defs[name]; def != nil && def.Kind != ast.Scalar {
		return schema.Ref(name), nil
	}
	if k, ok := builtinScalars[name]; ok {
		return schema.Prim(k), nil
	}
	if k, ok := l.scalars[name]; ok {
		return schema.Prim(k), nil
	}
	if l.defs[name] != nil {
		return nil, fmt.Errorf("scalar %s maps to no primitive, declare it with @%s(type: ...)", name, directivePrimitive)
	}
	if k, err := schema.ParsePrimitive(name); err == nil {
		return schema.Prim(k), nil
	}
	return schema.Ref(name), nil
}

// annotation converts a directive into an annotation.
func annotation(d *ast.Directive) (*schema.Annotation, error) {
	if d.Name != directiveAnnotation {
		a := &schema.Annotation{Name: d.Name}
		for _, arg := range d.Arguments {
			v, err := value(arg.Value, 0)
			if err != nil {
				return nil, err
			}
			a.Args = append(a.Args, schema.NewArg(arg.Name, v))
		}
		return a, nil
	}
	name, err := stringArg(d, "name", true)
	if err != nil {
		return nil, err
	}
	a := &schema.Annotation{Name: name}
	for _, arg := range d.Arguments {
		switch arg.Name {
		case "name":
		case "args":
			v, err := value(arg.Value, 0)
			if err != nil {
				return nil, err
			}
			if v.Kind != schema.ValueMap || v.Type != "" {
				return nil, directiveError(d, "args must be an untyped object")
			}
			a.Args = v.Entries
		default:
			return nil, directiveError(d, fmt.Sprintf("unknown argument %s", arg.Name))
		}
	}
	return a, nil
}

func directiveError(d *ast.Directive, msg string) error {
	line, col := position(d.Position)
	return errorf(line, col, "@%s: %s", d.Name, msg)
}

func stringArg(d *ast.Directive, name string, required bool) (string, error) {
	arg := d.Arguments.ForName(name)
	if arg == nil {
		if required {
			return "", directiveError(d, "missing argument "+name)
		}
		return "", nil
	}
	if arg.Value.Kind != ast.StringValue && arg.Value.Kind != ast.BlockValue {
		return "", directiveError(d, name+" must be a string")
	}
	return arg.Value.Raw, nil
}

func value(v *ast.Value, depth int) (*schema.Value, error) {
	line, col := position(v.Position)
	if depth > maxValueDepth {
		return nil, errorf(line, col, "value nested deeper than %d levels", maxValueDepth)
	}
	switch v.Kind {
	case ast.NullValue:
		return schema.NullValue(), nil
	case ast.BooleanValue:
		return schema.BoolValue(v.Raw == "true"), nil
	case ast.IntValue:
		i, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return nil, errorf(line, col, "integer %s out of range", v.Raw)
		}
		return schema.IntValue(i), nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, errorf(line, col, "float %s out of range", v.Raw)
		}
		return schema.FloatValue(f), nil
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return schema.StringValue(v.Raw), nil
	case ast.ListValue:
		l := &schema.Value{Kind: schema.ValueList, List: make([]schema.Value, 0, len(v.Children))}
		for _, c := range v.Children {
			e, err := value(c.Value, depth+1)
			if err != nil {
				return nil, err
			}
			l.List = append(l.List, *e)
		}
		return l, nil
	case ast.ObjectValue:
		m := schema.MapValue()
		for _, c := range v.Children {
			if c.Name == valueTypeKey {
				if c.Value.Kind != ast.StringValue {
					return nil, errorf(line, col, "%s must be a string", valueTypeKey)
				}
				m.Type = c.Value.Raw
				continue
			}
			e, err := value(c.Value, depth+1)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, schema.NewArg(c.Name, e))
		}
		return m, nil
	}
	return nil, errorf(line, col, "unsupported value %s", v.String())
}

// sdlScalars names the primitives in SDL. Float is the GraphQL double.
var sdlScalars = map[schema.PrimitiveKind]string{
	schema.Bool:    "Boolean",
	schema.Byte:    "Byte",
	schema.Short:   "Short",
	schema.Int:     "Int",
	schema.Long:    "Long",
	schema.Float:   "Float32",
	schema.Double:  "Float",
	schema.Char:    "Char",
	schema.String:  "String",
	schema.Decimal: "Decimal",
	schema.UUID:    "UUID",
	schema.Instant: "Instant",
	schema.Date:    "Date",
	schema.Bytes:   "Bytes",
}

// sdlWriter builds an SDL document from a schema.
type sdlWriter struct {
	entities map[string]bool
	scalars  []string
	declared map[string]bool
}

func marshalGraphQL(s *schema.Schema) ([]byte, error) {
	w := &sdlWriter{entities: make(map[string]bool), declared: make(map[string]bool)}
	for _, e := range s.Entities {
		if e == nil {
			return nil, errors.New("load: nil entity")
		}
		w.entities[e.Name] = true
	}
	var defs ast.DefinitionList
	for _, e := range s.Entities {
		if err := finite(e); err != nil {
			return nil, fmt.Errorf("load: entity %s: %w", e.Name, err)
		}
		def, err := w.definition(e)
		if err != nil {
			return nil, fmt.Errorf("load: entity %s: %w", e.Name, err)
		}
		defs = append(defs, def)
	}
	doc := &ast.SchemaDocument{}
	for _, name := range w.scalars {
		doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	doc.Definitions = append(doc.Definitions, defs...)
	var b bytes.Buffer
	formatter.NewFormatter(&b, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return b.Bytes(), nil
}

func (w *sdlWriter) definition(e *schema.Entity) (*ast.Definition, error) {
	if !isName(e.Name) {
		return nil, fmt.Errorf("%q is not a GraphQL name", e.Name)
	}
	def := &ast.Definition{Kind: ast.Object, Name: e.Name, Description: e.Comment}
	switch e.Kind {
	case schema.Abstract:
		def.Kind = ast.Interface
	case schema.Enum:
		def.Kind = ast.Enum
	}
	if e.Parent != "" {
		if e.Kind == schema.Enum {
			return nil, errors.New("an enum cannot have a parent")
		}
		def.Interfaces = []string{e.Parent}
	}
	if e.Package != "" {
		def.Directives = append(def.Directives, directive(directivePackage, arg("name", sdlString(e.Package))))
	}
	for _, a := range e.Annotations {
		def.Directives = append(def.Directives, annotationDirective(a))
	}
	for _, f := range e.Fields {
		if f == nil || f.Type == nil {
			return nil, errors.New("field without a type")
		}
		if e.Kind == schema.Enum {
			def.Directives = append(def.Directives, w.enumField(f))
			continue
		}
		fd, err := w.field(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		def.Fields = append(def.Fields, fd)
	}
	for _, c := range e.Constants {
		ev := &ast.EnumValueDefinition{Name: c.Name, Description: c.Comment}
		if len(c.Args) > 0 {
			ev.Directives = append(ev.Directives, directive(directiveValue, arg("args", sdlValue(schema.Value{Kind: schema.ValueList, List: c.Args}))))
		}
		def.EnumValues = append(def.EnumValues, ev)
	}
	return def, nil
}

func (w *sdlWriter) field(f *schema.Field) (*ast.FieldDefinition, error) {
	if !isName(f.Name) {
		return nil, fmt.Errorf("%q is not a GraphQL name", f.Name)
	}
	fd := &ast.FieldDefinition{Name: f.Name, Description: f.Comment}
	if t, ok := w.sdlType(f.Type); ok {
		fd.Type = t
	} else {
		w.declare(anyScalar)
		fd.Type = ast.NamedType(anyScalar, nil)
		fd.Directives = append(fd.Directives, directive(directiveType, arg("expr", sdlString(f.Type.String()))))
	}
	if f.Mutable {
		fd.Directives = append(fd.Directives, directive(directiveMutable))
	}
	if f.Default != nil {
		fd.Directives = append(fd.Directives, directive(directiveDefault, arg("value", sdlValue(*f.Default))))
	}
	for _, a := range f.Annotations {
		fd.Directives = append(fd.Directives, annotationDirective(a))
	}
	return fd, nil
}

func (w *sdlWriter) enumField(f *schema.Field) *ast.Directive {
	args := []*ast.Argument{arg("name", sdlString(f.Name)), arg("type", sdlString(f.Type.String()))}
	if f.Mutable {
		args = append(args, arg("mutable", &ast.Value{Kind: ast.BooleanValue, Raw: "true"}))
	}
	if f.Default != nil {
		args = append(args, arg("default", sdlValue(*f.Default)))
	}
	if f.Comment != "" {
		args = append(args, arg("comment", sdlString(f.Comment)))
	}
	return directive(directiveField, args...)
}

// sdlType returns the SDL form of t, if it has one that loads back as t.
func (w *sdlWriter) sdlType(t *schema.TypeRef) (*ast.Type, bool) {
	nonNull := true
	if t.Kind == schema.TypeNullable {
		nonNull = false
		t = t.Elem
		if t == nil || t.Kind == schema.TypeNullable {
			return nil, false
		}
	}
	var out *ast.Type
	switch t.Kind {
	case schema.TypePrimitive:
		name, ok := sdlScalars[t.Primitive]
		if !ok || w.entities[name] {
			return nil, false
		}
		if _, builtin := builtinScalars[name]; !builtin {
			w.declare(name)
		}
		out = ast.NamedType(name, nil)
	case schema.TypeEntity:
		if !w.entities[t.Entity] || !isName(t.Entity) {
			return nil, false
		}
		out = ast.NamedType(t.Entity, nil)
	case schema.TypeCollection:
		if t.Collection != schema.List || t.Elem == nil {
			return nil, false
		}
		elem, ok := w.sdlType(t.Elem)
		if !ok {
			return nil, false
		}
		out = ast.ListType(elem, nil)
	default:
		return nil, false
	}
	out.NonNull = nonNull
	return out, true
}

func (w *sdlWriter) declare(scalar string) {
	if !w.declared[scalar] {
		w.declared[scalar] = true
		w.scalars = append(w.scalars, scalar)
	}
}

func annotationDirective(a *schema.Annotation) *ast.Directive {
	switch {
	case isName(a.Name) && !reservedDirective(a.Name):
		args := make([]*ast.Argument, len(a.Args))
		for i, x := range a.Args {
			args[i] = arg(x.Name, sdlValue(x.Value))
		}
		return directive(a.Name, args...)
	case len(a.Args) == 0:
		return directive(directiveAnnotation, arg("name", sdlString(a.Name)))
	default:
		return directive(directiveAnnotation, arg("name", sdlString(a.Name)), arg("args", sdlValue(*schema.MapValue(a.Args...))))
	}
}

func reservedDirective(name string) bool {
	switch name {
	case directivePackage, directiveAbstract, directiveAnnotation, directiveMutable,
		directiveDefault, directiveType, directiveField, directiveValue, directivePrimitive:
		return true
	}
	return false
}

func directive(name string, args ...*ast.Argument) *ast.Directive {
	return &ast.Directive{Name: name, Arguments: args}
}

func arg(name string, v *ast.Value) *ast.Argument {
	return &ast.Argument{Name: name, Value: v}
}

func sdlString(s string) *ast.Value {
	return &ast.Value{Kind: ast.StringValue, Raw: s}
}

func sdlValue(v schema.Value) *ast.Value {
	switch v.Kind {
	case schema.ValueString:
		return sdlString(v.Str)
	case schema.ValueInt:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(v.Int, 10)}
	case schema.ValueFloat:
		return &ast.Value{Kind: ast.FloatValue, Raw: sdlFloat(v.Float)}
	case schema.ValueBool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v.Bool)}
	case schema.ValueList:
		l := &ast.Value{Kind: ast.ListValue}
		for _, e := range v.List {
			l.Children = append(l.Children, &ast.ChildValue{Value: sdlValue(e)})
		}
		return l
	case schema.ValueMap:
		m := &ast.Value{Kind: ast.ObjectValue}
		if v.Type != "" {
			m.Children = append(m.Children, &ast.ChildValue{Name: valueTypeKey, Value: sdlString(v.Type)})
		}
		for _, e := range v.Entries {
			m.Children = append(m.Children, &ast.ChildValue{Name: e.Name, Value: sdlValue(e.Value)})
		}
		return m
	default:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	}
}

// finite rejects the float literals SDL cannot express.
func finite(e *schema.Entity) error {
	var check func(v schema.Value) error
	check = func(v schema.Value) error {
		if v.Kind == schema.ValueFloat && (math.IsInf(v.Float, 0) || math.IsNaN(v.Float)) {
			return fmt.Errorf("float %v cannot be represented in SDL", v.Float)
		}
		for _, x := range v.List {
			if err := check(x); err != nil {
				return err
			}
		}
		for _, x := range v.Entries {
			if err := check(x.Value); err != nil {
				return err
			}
		}
		return nil
	}
	var values []schema.Value
	for _, a := range e.Annotations {
		values = append(values, *schema.MapValue(a.Args...))
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		if f.Default != nil {
			values = append(values, *f.Default)
		}
		for _, a := range f.Annotations {
			values = append(values, *schema.MapValue(a.Args...))
		}
	}
	for _, c := range e.Constants {
		values = append(values, c.Args...)
	}
	for _, v := range values {
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}

// sdlFloat formats f as a GraphQL float literal, which needs a fraction
// or an exponent.
func sdlFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}

// isName reports if s is a GraphQL name.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
