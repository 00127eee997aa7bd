package java

import (
	"fmt"
	"strings"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// Build implements gen.EntityGenerator. It returns a *File holding the
// primary type of the entity.
func (d *Dialect) Build(t *gen.Type) (gen.CompilationUnit, error) {
	if err := d.checkNames(t); err != nil {
		return nil, err
	}
	b := &builder{
		t:    t,
		self: ClassName{Package: t.Package, Simple: t.Name},
		decl: &TypeDecl{Name: t.Name, Javadoc: javadoc(t)},
	}
	if ann := t.Config; ann != nil && ann.NullableAnnotation != "" {
		b.nullable = &Annotation{Type: ClassOf(ann.NullableAnnotation)}
	}
	steps := []func() error{
		b.header,
		b.constants,
		b.defaults,
		b.fields,
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
	f := &File{Package: t.Package, Type: b.decl}
	for _, e := range t.Siblings() {
		if e.Name != t.Name {
			f.Siblings = append(f.Siblings, e.Name)
		}
	}
	return f, nil
}

// checkNames reports reserved or invalid identifiers, and clashes between
// the members generated for the type and its ancestors.
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
	fields, methods := gen.NewMembers(), gen.NewMembers()
	for _, m := range objectMethods {
		_ = methods.Claim("method", m, "java.lang.Object")
	}
	if t.IsEnum() {
		for _, m := range enumMethods {
			_ = methods.Claim("method", m, "java.lang.Enum")
		}
	}
	for _, typ := range append(t.Ancestors(), t) {
		for _, f := range typ.Fields {
			origin := fmt.Sprintf("field %q of %s", f.Name, typ.Name)
			if err := fields.Claim("field", f.Name, origin); err != nil {
				return gen.FieldError(f.Name, err)
			}
			if f.HasDefault() {
				if err := fields.Claim("constant", defaultName(f), "default of "+origin); err != nil {
					return gen.FieldError(f.Name, err)
				}
			}
			if err := methods.Claim("method", getterName(f), "getter of "+origin); err != nil {
				return gen.FieldError(f.Name, err)
			}
			if hasSetter(typ, f) {
				if err := methods.Claim("method", setterName(f), "setter of "+origin); err != nil {
					return gen.FieldError(f.Name, err)
				}
			}
		}
	}
	for _, c := range t.Constants {
		if err := CheckName("constant", c.Name); err != nil {
			return err
		}
		if err := fields.Claim("constant", c.Name, "enum constant "+c.Name); err != nil {
			return err
		}
	}
	return nil
}

// builder assembles the declaration of one type.
type builder struct {
	t        *gen.Type
	self     ClassName
	decl     *TypeDecl
	nullable *Annotation
}

func javadoc(t *gen.Type) []string {
	var doc []string
	if t.Config != nil && t.Header != "" {
		doc = append(doc, strings.Split(t.Header, "\n")...)
	}
	if t.Comment != "" {
		if len(doc) > 0 {
			doc = append(doc, "")
		}
		doc = append(doc, strings.Split(t.Comment, "\n")...)
	}
	return doc
}

func comment(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (b *builder) header() error {
	t, decl := b.t, b.decl
	for _, a := range t.Annotations {
		ja, err := AnnotationOf(a)
		if err != nil {
			return err
		}
		decl.Annotations = append(decl.Annotations, ja)
	}
	switch {
	case t.IsEnum():
		decl.Kind = EnumDecl
		decl.Modifiers = []string{"public"}
	case t.IsAbstract():
		decl.Modifiers = []string{"public", "abstract"}
	default:
		decl.Modifiers = []string{"public"}
	}
	if p := t.Parent; p != nil {
		decl.Super = ClassName{Package: p.Package, Simple: p.Name}
	}
	return nil
}

// constants adds the enum constants. Arguments bind positionally to the
// fields; missing trailing arguments take the field default.
func (b *builder) constants() error {
	fields := b.t.Fields
	for _, c := range b.t.Constants {
		if len(c.Args) > len(fields) {
			return gen.NewAnnotationShapeError("", c.Name,
				fmt.Sprintf("enum constant %s takes at most %d arguments, got %d", c.Name, len(fields), len(c.Args)))
		}
		ec := &EnumConstant{Javadoc: comment(c.Comment), Name: c.Name}
		for i, f := range fields {
			var (
				arg Code
				err error
			)
			switch {
			case i < len(c.Args):
				arg, err = literal(c.Args[i], f.Type.Ref, f.Nullable())
				if err != nil {
					err = gen.NewAnnotationShapeError("", c.Name, fmt.Sprintf("enum constant %s argument %q: %v", c.Name, f.Name, err))
				}
			case f.HasDefault():
				// Enum constants are initialized before the static fields of
				// the enum, so the default is inlined.
				arg, err = DefaultValue(f)
			default:
				err = gen.NewAnnotationShapeError("", c.Name, fmt.Sprintf("enum constant %s misses argument %q", c.Name, f.Name))
			}
			if err != nil {
				return gen.FieldError(f.Name, err)
			}
			ec.Args = append(ec.Args, arg)
		}
		b.decl.Constants = append(b.decl.Constants, ec)
	}
	return nil
}

func (b *builder) defaults() error {
	for _, f := range b.t.Fields {
		if !f.HasDefault() {
			continue
		}
		init, err := DefaultValue(f)
		if err != nil {
			return gen.FieldError(f.Name, err)
		}
		b.decl.Fields = append(b.decl.Fields, &FieldDecl{
			Javadoc:   []string{fmt.Sprintf("Default value of {@code %s}.", f.Name)},
			Modifiers: []string{"public", "static", "final"},
			Type:      nodeOf(f.Type),
			Name:      defaultName(f),
			Init:      &init,
		})
	}
	return nil
}

func (b *builder) fields() error {
	for _, f := range b.t.Fields {
		anns, err := b.annotations(f)
		if err != nil {
			return gen.FieldError(f.Name, err)
		}
		mods := []string{"private", "final"}
		if hasSetter(b.t, f) {
			mods = mods[:1]
		}
		b.decl.Fields = append(b.decl.Fields, &FieldDecl{
			Javadoc:     comment(f.Comment),
			Annotations: anns,
			Modifiers:   mods,
			Type:        nodeOf(f.Type),
			Name:        f.Name,
		})
	}
	return nil
}

// annotations returns the annotations of a field declaration.
func (b *builder) annotations(f *gen.Field) ([]*Annotation, error) {
	var anns []*Annotation
	for _, a := range f.Annotations {
		ja, err := AnnotationOf(a)
		if err != nil {
			return nil, err
		}
		anns = append(anns, ja)
	}
	if f.Nullable() && b.nullable != nil {
		anns = append(anns, b.nullable)
	}
	return anns, nil
}

func (b *builder) params(fields []*gen.Field) []*Param {
	params := make([]*Param, 0, len(fields))
	for _, f := range fields {
		p := &Param{Type: nodeOf(f.Type), Name: f.Name}
		if f.Nullable() && b.nullable != nil {
			p.Annotations = []*Annotation{b.nullable}
		}
		params = append(params, p)
	}
	return params
}

// constructors adds the constructor binding all fields of the chain and,
// if defaults exist, an overload binding only the fields without one.
func (b *builder) constructors() error {
	t := b.t
	all := t.AllFields()
	if len(all) == 0 {
		return nil
	}
	mod := "public"
	switch {
	case t.IsEnum():
		mod = "private"
	case t.IsAbstract():
		mod = "protected"
	}
	full := &MethodDecl{
		Modifiers:   []string{mod},
		Constructor: true,
		Name:        t.Name,
		Params:      b.params(all),
	}
	if inherited := t.InheritedFields(); len(inherited) > 0 {
		args := make([]Code, len(inherited))
		for i, f := range inherited {
			args[i] = Codef("$N", f.Name)
		}
		full.Body = append(full.Body, Codef("super($L);", JoinCode(args, ", ")))
	}
	for _, f := range t.Fields {
		full.Body = append(full.Body, Codef("this.$N = $N;", f.Name, f.Name))
	}
	b.decl.Methods = append(b.decl.Methods, full)
	if t.IsEnum() || !t.HasDefaults() {
		return nil
	}
	args := make([]Code, len(all))
	for i, f := range all {
		if f.HasDefault() {
			args[i] = Codef("$N", defaultName(f))
		} else {
			args[i] = Codef("$N", f.Name)
		}
	}
	b.decl.Methods = append(b.decl.Methods, &MethodDecl{
		Javadoc:     []string{"Creates a new instance using the default values of the optional fields."},
		Modifiers:   []string{mod},
		Constructor: true,
		Name:        t.Name,
		Params:      b.params(t.RequiredFields()),
		Body:        []Code{Codef("this($L);", JoinCode(args, ", "))},
	})
	return nil
}

func (b *builder) accessors() error {
	fluent := b.t.FeatureEnabled(gen.FeatureBuilderSetters.Name)
	for _, f := range b.t.Fields {
		typ := nodeOf(f.Type)
		getter := &MethodDecl{
			Modifiers: []string{"public"},
			Return:    typ,
			Name:      getterName(f),
			Body:      []Code{Codef("return $N;", f.Name)},
		}
		if f.Nullable() && b.nullable != nil {
			getter.Annotations = []*Annotation{b.nullable}
		}
		b.decl.Methods = append(b.decl.Methods, getter)
		if !hasSetter(b.t, f) {
			continue
		}
		setter := &MethodDecl{
			Modifiers: []string{"public"},
			Name:      setterName(f),
			Params:    b.params([]*gen.Field{f}),
			Body:      []Code{Codef("this.$N = $N;", f.Name, f.Name)},
		}
		if fluent {
			setter.Return = b.self
			setter.Body = append(setter.Body, Codef("return this;"))
		}
		b.decl.Methods = append(b.decl.Methods, setter)
	}
	return nil
}

var override = []*Annotation{{Type: Override}}

// equality adds equals and hashCode over the own fields, delegating the
// inherited ones to the parent.
func (b *builder) equality() error {
	t := b.t
	eq := []Code{
		Codef("if (this == o) {$>\nreturn true;$<\n}"),
		Codef("if (o == null || getClass() != o.getClass()) {$>\nreturn false;$<\n}"),
	}
	if t.HasParent() {
		eq = append(eq, Codef("if (!super.equals(o)) {$>\nreturn false;$<\n}"))
	}
	if len(t.Fields) == 0 {
		eq = append(eq, Codef("return true;"))
	} else {
		cmps := make([]Code, len(t.Fields))
		for i, f := range t.Fields {
			cmps[i] = Codef("$T.equals(this.$N, that.$N)", helperOf(f), f.Name, f.Name)
		}
		ret := cmps[0]
		for _, c := range cmps[1:] {
			ret = Codef("$L\n$>$>&& $L$<$<", ret, c)
		}
		eq = append(eq,
			Codef("$T that = ($T) o;", b.self, b.self),
			Codef("return $L;", ret),
		)
	}
	var hashed []Code
	if t.HasParent() {
		hashed = append(hashed, Codef("super.hashCode()"))
	}
	for _, f := range t.Fields {
		if isArray(f) {
			hashed = append(hashed, Codef("$T.hashCode(this.$N)", Arrays, f.Name))
		} else {
			hashed = append(hashed, Codef("this.$N", f.Name))
		}
	}
	b.decl.Methods = append(b.decl.Methods,
		&MethodDecl{
			Annotations: override,
			Modifiers:   []string{"public"},
			Return:      Boolean,
			Name:        "equals",
			Params:      []*Param{{Type: Object, Name: "o"}},
			Body:        eq,
		},
		&MethodDecl{
			Annotations: override,
			Modifiers:   []string{"public"},
			Return:      Int,
			Name:        "hashCode",
			Body:        []Code{Codef("return $T.hash($L);", Objects, JoinCode(hashed, ", "))},
		},
	)
	return nil
}

// toString lists every field of the chain. Inherited fields are read
// through their getters.
func (b *builder) toString() error {
	t := b.t
	parts := []Code{Codef("$S", t.Name+"{")}
	for i, f := range t.AllFields() {
		label := f.Name + "="
		if i > 0 {
			label = ", " + label
		}
		val := Codef("this.$N", f.Name)
		if f.Owner() != t {
			val = Codef("$N()", getterName(f))
		}
		if isArray(f) {
			val = Codef("$T.toString($L)", Arrays, val)
		}
		parts = append(parts, Codef("$S + $L", label, val))
	}
	parts = append(parts, Codef("$S", "}"))
	b.decl.Methods = append(b.decl.Methods, &MethodDecl{
		Annotations: override,
		Modifiers:   []string{"public"},
		Return:      String,
		Name:        "toString",
		Body:        []Code{Codef("return $L;", JoinCode(parts, " + "))},
	})
	return nil
}

// helperOf returns the class comparing the values of f.
func helperOf(f *gen.Field) ClassName {
	if isArray(f) {
		return Arrays
	}
	return Objects
}

func isArray(f *gen.Field) bool {
	_, ok := nodeOf(f.Type).(ArrayType)
	return ok
}

func hasSetter(t *gen.Type, f *gen.Field) bool {
	return f.Mutable && !t.IsEnum()
}

func getterName(f *gen.Field) string {
	if f.IsBool() {
		return "is" + gen.Pascal(f.Name)
	}
	return "get" + gen.Pascal(f.Name)
}

func setterName(f *gen.Field) string { return "set" + gen.Pascal(f.Name) }

func defaultName(f *gen.Field) string { return "DEFAULT_" + gen.UpperSnake(f.Name) }
