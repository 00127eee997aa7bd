package golang

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// Build implements gen.EntityGenerator. It returns a *File holding the
// struct of the entity and its functions.
func (d *Dialect) Build(t *gen.Type) (gen.CompilationUnit, error) {
	if err := d.checkNames(t); err != nil {
		return nil, err
	}
	pkg := ImportPath(t.Package)
	f := jen.NewFilePathName(pkg, PackageName(pkg))
	f.HeaderComment(Header)
	// Known package names keep jennifer from aliasing the imports.
	for _, a := range t.Ancestors() {
		if p := ImportPath(a.Package); p != pkg {
			f.ImportName(p, PackageName(p))
		}
	}
	for _, fld := range t.AllFields() {
		for _, p := range fld.Type.Imports {
			if p != pkg {
				f.ImportName(p, PackageName(p))
			}
		}
	}
	b := &builder{d: d, t: t, f: f, recv: receiver(t)}
	steps := []func() error{
		b.structType,
		b.constants,
		b.defaults,
		b.constructors,
		b.accessors,
	}
	if !t.IsEnum() {
		if t.FeatureEnabled(gen.FeatureEquality.Name) {
			steps = append(steps, b.equality)
		}
		if t.FeatureEnabled(gen.FeatureToString.Name) {
			steps = append(steps, b.toString)
		}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return &File{File: f, ImportPath: pkg, TypeName: t.Name}, nil
}

// checkNames reports keywords, invalid identifiers and clashes between the
// declarations generated for the type. Fields, embedded parents and methods
// share one selector namespace across the parent chain. Package-level
// declarations clash with those of the entities declared earlier in the
// same Go package.
func (d *Dialect) checkNames(t *gen.Type) error {
	if err := CheckName("type", t.Name); err != nil {
		return err
	}
	if err := CheckPackage(t.Package); err != nil {
		return err
	}
	if err := t.CheckFieldNames(); err != nil {
		return err
	}
	for _, f := range t.AllFields() {
		if err := CheckName("field", f.Name); err != nil {
			return gen.FieldError(f.Name, err)
		}
	}
	selectors := gen.NewMembers()
	switch {
	case t.IsEnum():
		_ = selectors.Claim("field", "ordinal", "enum ordinal")
		_ = selectors.Claim("method", "Ordinal", "enum ordinal")
	default:
		if t.FeatureEnabled(gen.FeatureEquality.Name) {
			_ = selectors.Claim("method", "Equal", "equality method")
		}
		if t.FeatureEnabled(gen.FeatureToString.Name) {
			_ = selectors.Claim("method", "String", "fmt.Stringer method")
		}
	}
	for _, typ := range append(t.Ancestors(), t) {
		if typ != t {
			if err := selectors.Claim("field", typ.Name, "embedded "+typ.Name); err != nil {
				return err
			}
		}
		for _, f := range typ.Fields {
			origin := fmt.Sprintf("field %q of %s", f.Name, typ.Name)
			if err := selectors.Claim("field", f.Name, origin); err != nil {
				return gen.FieldError(f.Name, err)
			}
			if err := selectors.Claim("method", getterName(f), "getter of "+origin); err != nil {
				return gen.FieldError(f.Name, err)
			}
			if hasSetter(typ, f) {
				if err := selectors.Claim("method", setterName(f), "setter of "+origin); err != nil {
					return gen.FieldError(f.Name, err)
				}
			}
		}
	}
	// Entities sharing the import path share one package block. Earlier
	// siblings claim their declarations first.
	decls := gen.NewMembers()
	for _, e := range siblings(t) {
		if e == t.Entity() {
			break
		}
		for _, dc := range packageDecls(t.Schema(), e) {
			_ = decls.Claim(dc.member, dc.name, dc.origin)
		}
	}
	for _, dc := range packageDecls(t.Schema(), t.Entity()) {
		if dc.member == "constant" {
			if err := CheckName("constant", dc.name); err != nil {
				return err
			}
		}
		if err := decls.Claim(dc.member, dc.name, dc.origin); err != nil {
			if dc.field != "" {
				return gen.FieldError(dc.field, err)
			}
			return err
		}
	}
	if t.IsEnum() {
		return nil
	}
	// Constructor parameters are named after the fields and must not
	// shadow the identifiers the constructor bodies refer to.
	refs := gen.NewMembers()
	for _, a := range t.Ancestors() {
		if p := ImportPath(a.Package); p != ImportPath(t.Package) {
			_ = refs.Claim("package", PackageName(p), "package "+p)
			continue
		}
		_ = refs.Claim("function", "New"+a.Name, "constructor of "+a.Name)
		for _, f := range a.Fields {
			if f.HasDefault() {
				_ = refs.Claim("variable", defaultName(f), fmt.Sprintf("default of field %q", f.Name))
			}
		}
	}
	for _, f := range t.Fields {
		if f.HasDefault() {
			_ = refs.Claim("variable", defaultName(f), fmt.Sprintf("default of field %q", f.Name))
		}
	}
	for _, f := range t.AllFields() {
		if err := refs.Claim("parameter", f.Name, "constructor parameter"); err != nil {
			return gen.FieldError(f.Name, err)
		}
	}
	return nil
}

// receiver returns the receiver name of the methods of t. It never equals
// a field name, since setters take parameters named after the fields.
func receiver(t *gen.Type) string {
	taken := map[string]bool{"other": true}
	for _, f := range t.AllFields() {
		taken[f.Name] = true
	}
	r := gen.Receiver(t.Name)
	for taken[r] {
		r = "_" + r
	}
	return r
}

// builder assembles the declarations of one entity.
type builder struct {
	d    *Dialect
	t    *gen.Type
	f    *jen.File
	recv string
}

// qual refers to a package-level identifier declared for typ.
func (b *builder) qual(typ *gen.Type, name string) *jen.Statement {
	return jen.Qual(ImportPath(typ.Package), name)
}

// self returns the pointer type of the entity.
func (b *builder) self() *jen.Statement {
	return jen.Op("*").Id(b.t.Name)
}

// method starts a method declaration on the entity.
func (b *builder) method(name string) *jen.Statement {
	return b.f.Func().Params(jen.Id(b.recv).Add(b.self())).Id(name)
}

// doc adds a comment, one // line per line of text.
func doc(add func(string) *jen.Statement, text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			add("//")
			continue
		}
		add("// " + l)
	}
}

func (b *builder) structType() error {
	t := b.t
	var directives []string
	for _, a := range t.Annotations {
		dir, err := Directive(a)
		if err != nil {
			return err
		}
		directives = append(directives, dir)
	}
	tags := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		tag, err := StructTag(f.Annotations)
		if err != nil {
			return gen.FieldError(f.Name, err)
		}
		tags[i] = tag
	}
	var text []string
	if t.Comment != "" {
		text = append(text, t.Comment)
	}
	if t.Config != nil && t.Header != "" {
		text = append(text, t.Header)
	}
	doc(b.f.Comment, strings.Join(text, "\n\n"))
	if len(directives) > 0 {
		if len(text) > 0 {
			b.f.Comment("//")
		}
		for _, dir := range directives {
			b.f.Comment(dir)
		}
	}
	b.f.Type().Id(t.Name).StructFunc(func(g *jen.Group) {
		if p := t.Parent; p != nil {
			g.Add(b.qual(p, p.Name))
		}
		if t.IsEnum() {
			g.Id("ordinal").Int()
		}
		for i, f := range t.Fields {
			doc(g.Comment, f.Comment)
			field := g.Id(f.Name).Add(nodeOf(f.Type))
			if tags[i] != "" {
				field.Op(tags[i])
			}
		}
	})
	return nil
}

// constants declares the values of an enum. Arguments bind positionally to
// the fields; missing trailing arguments take the field default.
func (b *builder) constants() error {
	t := b.t
	if !t.IsEnum() {
		return nil
	}
	names := make([]jen.Code, 0, len(t.Constants))
	values := make([]jen.Code, 0, len(t.Constants))
	for i, c := range t.Constants {
		if len(c.Args) > len(t.Fields) {
			return gen.NewAnnotationShapeError("", c.Name,
				fmt.Sprintf("enum constant %s takes at most %d arguments, got %d", c.Name, len(t.Fields), len(c.Args)))
		}
		elems := []jen.Code{jen.Id("ordinal").Op(":").Lit(i)}
		for j, f := range t.Fields {
			var (
				arg jen.Code
				err error
			)
			switch {
			case j < len(c.Args):
				arg, err = b.d.literal(c.Args[j], f.Type.Ref, f.Nullable())
				if err != nil {
					err = gen.NewAnnotationShapeError("", c.Name, fmt.Sprintf("enum constant %s argument %q: %v", c.Name, f.Name, err))
				}
			case f.HasDefault():
				arg = jen.Id(defaultName(f))
			default:
				err = gen.NewAnnotationShapeError("", c.Name, fmt.Sprintf("enum constant %s misses argument %q", c.Name, f.Name))
			}
			if err != nil {
				return gen.FieldError(f.Name, err)
			}
			elems = append(elems, jen.Id(f.Name).Op(":").Add(arg))
		}
		name := constantName(t.Name, c.Name)
		names = append(names, jen.Id(name))
		values = append(values, jen.Add(
			commentCode(c.Comment),
			jen.Id(name).Op("=").Op("&").Id(t.Name).Values(elems...),
		))
	}
	if len(values) > 0 {
		b.f.Line()
		b.f.Var().Defs(values...)
	}
	b.f.Line()
	b.f.Commentf("%sValues returns the constants of %s in declaration order.", t.Name, t.Name)
	b.f.Func().Id(t.Name + "Values").Params().Index().Add(b.self()).Block(
		jen.Return(jen.Index().Add(b.self()).Values(names...)),
	)
	b.f.Line()
	b.f.Commentf("Ordinal returns the position of the constant in %sValues.", t.Name)
	b.method("Ordinal").Params().Int().Block(
		jen.Return(jen.Id(b.recv).Dot("ordinal")),
	)
	return nil
}

// commentCode returns the comment lines of text, each followed by a line
// break. An empty text renders nothing.
func commentCode(text string) jen.Code {
	if text == "" {
		return jen.Null()
	}
	s := jen.Null()
	doc(func(l string) *jen.Statement { return s.Comment(l).Line() }, text)
	return s
}

func (b *builder) defaults() error {
	for _, f := range b.t.Fields {
		if !f.HasDefault() {
			continue
		}
		c, err := b.d.DefaultValue(f)
		if err != nil {
			return gen.FieldError(f.Name, err)
		}
		name := defaultName(f)
		b.f.Line()
		b.f.Commentf("%s is the default value of the %s field.", name, f.Name)
		b.f.Var().Id(name).Add(nodeOf(f.Type)).Op("=").Add(c)
	}
	return nil
}

// constructors adds NewT binding every field of the chain, and
// NewTWithDefaults binding only the fields without a default.
func (b *builder) constructors() error {
	t := b.t
	if t.IsEnum() {
		return nil
	}
	var (
		params []jen.Code
		values []jen.Code
	)
	for _, f := range t.AllFields() {
		params = append(params, jen.Id(f.Name).Add(nodeOf(f.Type)))
	}
	if p := t.Parent; p != nil {
		args := make([]jen.Code, 0, len(p.AllFields()))
		for _, f := range p.AllFields() {
			args = append(args, jen.Id(f.Name))
		}
		values = append(values, jen.Id(p.Name).Op(":").Op("*").Add(b.qual(p, "New"+p.Name)).Call(args...))
	}
	for _, f := range t.Fields {
		values = append(values, jen.Id(f.Name).Op(":").Id(f.Name))
	}
	b.f.Line()
	b.f.Commentf("New%s returns a new %s.", t.Name, t.Name)
	b.f.Func().Id("New"+t.Name).Params(params...).Add(b.self()).Block(
		jen.Return(jen.Op("&").Id(t.Name).Values(values...)),
	)
	if !t.HasDefaults() {
		return nil
	}
	var required, args []jen.Code
	for _, f := range t.AllFields() {
		if f.HasDefault() {
			args = append(args, b.qual(f.Owner(), defaultName(f)))
			continue
		}
		required = append(required, jen.Id(f.Name).Add(nodeOf(f.Type)))
		args = append(args, jen.Id(f.Name))
	}
	b.f.Line()
	b.f.Commentf("New%sWithDefaults returns a new %s using the default values of the optional fields.", t.Name, t.Name)
	b.f.Func().Id("New"+t.Name+"WithDefaults").Params(required...).Add(b.self()).Block(
		jen.Return(jen.Id("New"+t.Name).Call(args...)),
	)
	return nil
}

func (b *builder) accessors() error {
	t, r := b.t, b.recv
	fluent := t.FeatureEnabled(gen.FeatureBuilderSetters.Name)
	for _, f := range t.Fields {
		b.f.Line()
		b.f.Commentf("%s returns the value of the %s field.", getterName(f), f.Name)
		b.method(getterName(f)).Params().Add(nodeOf(f.Type)).Block(
			jen.Return(jen.Id(r).Dot(f.Name)),
		)
		if !hasSetter(t, f) {
			continue
		}
		b.f.Line()
		b.f.Commentf("%s sets the value of the %s field.", setterName(f), f.Name)
		body := []jen.Code{jen.Id(r).Dot(f.Name).Op("=").Id(f.Name)}
		ret := jen.Null()
		if fluent {
			body = append(body, jen.Return(jen.Id(r)))
			ret = b.self()
		}
		b.method(setterName(f)).Params(jen.Id(f.Name).Add(nodeOf(f.Type))).Add(ret).Block(body...)
	}
	return nil
}

// equality adds Equal, comparing the embedded parent and every own field.
func (b *builder) equality() error {
	t, r := b.t, b.recv
	var conds []jen.Code
	if p := t.Parent; p != nil {
		conds = append(conds, jen.Id(r).Dot(p.Name).Dot("Equal").Call(jen.Op("&").Id("other").Dot(p.Name)))
	}
	for _, f := range t.Fields {
		this, that := jen.Id(r).Dot(f.Name), jen.Id("other").Dot(f.Name)
		switch compareOf(f) {
		case compareOp:
			conds = append(conds, jen.Add(this).Op("==").Add(that))
		case compareTime:
			conds = append(conds, jen.Add(this).Dot("Equal").Call(that))
		default:
			conds = append(conds, jen.Qual("reflect", "DeepEqual").Call(this, that))
		}
	}
	ret := jen.Lit(true)
	if len(conds) > 0 {
		ret = jen.Add(conds[0])
		for _, c := range conds[1:] {
			ret = ret.Op("&&").Add(c)
		}
	}
	b.f.Line()
	b.f.Commentf("Equal reports whether %s and other hold the same values.", r)
	b.method("Equal").Params(jen.Id("other").Add(b.self())).Bool().Block(
		jen.If(jen.Id(r).Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(
			jen.Return(jen.Id(r).Op("==").Id("other")),
		),
		jen.Return(ret),
	)
	return nil
}

type comparison int

const (
	compareDeep comparison = iota
	compareOp
	compareTime
)

// compareOf returns how two values of the field type are compared.
func compareOf(f *gen.Field) comparison {
	if f.Nullable() {
		return compareDeep
	}
	k, ok := f.Primitive()
	switch {
	case !ok:
		return compareDeep
	case f.Type.Primitive, k == schema.UUID:
		return compareOp
	case k == schema.Instant, k == schema.Date:
		return compareTime
	}
	return compareDeep
}

// toString adds String, listing the fields of the chain. Inherited fields
// are read through their promoted getters.
func (b *builder) toString() error {
	t, r := b.t, b.recv
	var (
		format []string
		args   = []jen.Code{nil}
	)
	for _, f := range t.AllFields() {
		format = append(format, f.Name+"=%v")
		if f.Owner() == t {
			args = append(args, jen.Id(r).Dot(f.Name))
		} else {
			args = append(args, jen.Id(r).Dot(getterName(f)).Call())
		}
	}
	args[0] = jen.Lit(t.Name + "{" + strings.Join(format, ", ") + "}")
	ret := jen.Qual("fmt", "Sprintf").Call(args...)
	if len(format) == 0 {
		ret = jen.Lit(t.Name + "{}")
	}
	b.f.Line()
	b.f.Comment("String implements fmt.Stringer.")
	b.method("String").Params().String().Block(jen.Return(ret))
	return nil
}
