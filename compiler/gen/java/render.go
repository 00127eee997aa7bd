package java

import (
	"slices"
	"strings"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// Imports computes the import list of f and the names used to print its
// class references. Classes of java.lang, of the package of f and without
// a package are never imported. When classes share a simple name, the
// declared type keeps it; otherwise the lexicographically first qualified
// name wins and the others are printed qualified. A java.lang class named
// like a sibling of f is always printed qualified.
func Imports(f *File) (imports []string, names map[string]string) {
	self := ClassName{Package: f.Package, Simple: f.Type.Name}
	bySimple := map[string][]string{self.Simple: {self.Qualified()}}
	hidden := make(map[string]bool, len(f.Siblings))
	if f.Package != "java.lang" {
		for _, s := range f.Siblings {
			hidden["java.lang."+s] = true
		}
	}
	f.walk(func(c ClassName) {
		q := c.Qualified()
		if !hidden[q] && !slices.Contains(bySimple[c.Simple], q) {
			bySimple[c.Simple] = append(bySimple[c.Simple], q)
		}
	})
	names = make(map[string]string, len(bySimple))
	for simple, qs := range bySimple {
		winner := self.Qualified()
		if simple != self.Simple {
			winner = slices.Min(qs)
		}
		names[winner] = simple
		c := ClassOf(winner)
		if c.Package != "" && c.Package != "java.lang" && c.Package != f.Package {
			imports = append(imports, winner)
		}
	}
	slices.Sort(imports)
	return imports, names
}

// Render prints f with the given indentation unit. The output ends with a
// newline and is stable for equal inputs.
func Render(f *File, indent string) *gen.Rendered {
	imports, names := Imports(f)
	p := newPrinter(indent, names)
	if f.Package != "" {
		p.write("package " + f.Package + ";\n\n")
	}
	for _, imp := range imports {
		p.write("import " + imp + ";\n")
	}
	if len(imports) > 0 {
		p.write("\n")
	}
	p.typeDecl(f.Type)
	return &gen.Rendered{Source: p.b.String(), Imports: imports}
}

// printer writes Java source. Indentation is emitted lazily at the start
// of every non-empty line.
type printer struct {
	b      strings.Builder
	indent string
	depth  int
	names  map[string]string
	bol    bool
}

// newPrinter returns a printer. names maps qualified class names to the
// name printed for them; other classes are printed qualified.
func newPrinter(indent string, names map[string]string) *printer {
	return &printer{indent: indent, names: names, bol: true}
}

func (p *printer) write(s string) {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		line := s
		if i >= 0 {
			line = s[:i]
		}
		if line != "" {
			if p.bol {
				p.b.WriteString(strings.Repeat(p.indent, p.depth))
			}
			p.b.WriteString(line)
			p.bol = false
		}
		if i < 0 {
			return
		}
		p.b.WriteByte('\n')
		p.bol = true
		s = s[i+1:]
	}
}

func (p *printer) name(c ClassName) string {
	if n, ok := p.names[c.Qualified()]; ok {
		return n
	}
	return c.Qualified()
}

func (p *printer) typ(t TypeName) {
	var b strings.Builder
	writeType(&b, t, p.name)
	p.write(b.String())
}

func (p *printer) code(c Code) {
	for _, part := range c.parts {
		switch part := part.(type) {
		case string:
			p.write(part)
		case TypeName:
			p.typ(part)
		case *Annotation:
			p.annotation(part)
		case indentMark:
			p.depth += int(part)
		}
	}
}

func (p *printer) annotation(a *Annotation) {
	p.write("@" + p.name(a.Type))
	switch {
	case len(a.Members) == 0:
	case len(a.Members) == 1 && a.Members[0].Name == "value":
		p.write("(")
		p.code(a.Members[0].Value)
		p.write(")")
	default:
		p.write("(")
		for i, m := range a.Members {
			if i > 0 {
				p.write(", ")
			}
			p.write(m.Name + " = ")
			p.code(m.Value)
		}
		p.write(")")
	}
}

func (p *printer) javadoc(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.write("/**\n")
	for _, l := range lines {
		if l = strings.TrimRight(l, " \t"); l == "" {
			p.write(" *\n")
		} else {
			p.write(" * " + strings.ReplaceAll(l, "*/", "*&#47;") + "\n")
		}
	}
	p.write(" */\n")
}

func (p *printer) modifiers(mods []string) {
	for _, m := range mods {
		p.write(m + " ")
	}
}

func (p *printer) typeDecl(d *TypeDecl) {
	p.javadoc(d.Javadoc)
	for _, a := range d.Annotations {
		p.annotation(a)
		p.write("\n")
	}
	p.modifiers(d.Modifiers)
	if d.Kind == EnumDecl {
		p.write("enum ")
	} else {
		p.write("class ")
	}
	p.write(d.Name)
	if d.Super != nil {
		p.write(" extends ")
		p.typ(d.Super)
	}
	p.write(" {\n")
	p.depth++
	first := true
	member := func() {
		if !first {
			p.write("\n")
		}
		first = false
	}
	if d.Kind == EnumDecl && (len(d.Constants) > 0 || len(d.Fields) > 0 || len(d.Methods) > 0) {
		member()
		p.enumConstants(d.Constants)
	}
	for _, f := range d.Fields {
		member()
		p.field(f)
	}
	for _, m := range d.Methods {
		member()
		p.method(m, d.Name)
	}
	p.depth--
	p.write("}\n")
}

func (p *printer) enumConstants(cs []*EnumConstant) {
	if len(cs) == 0 {
		p.write(";\n")
		return
	}
	for i, c := range cs {
		if i > 0 {
			p.write(",\n")
		}
		p.javadoc(c.Javadoc)
		p.write(c.Name)
		if len(c.Args) > 0 {
			p.write("(")
			p.code(JoinCode(c.Args, ", "))
			p.write(")")
		}
	}
	p.write(";\n")
}

func (p *printer) field(f *FieldDecl) {
	p.javadoc(f.Javadoc)
	for _, a := range f.Annotations {
		p.annotation(a)
		p.write("\n")
	}
	p.modifiers(f.Modifiers)
	p.typ(f.Type)
	p.write(" " + f.Name)
	if f.Init != nil {
		p.write(" = ")
		p.code(*f.Init)
	}
	p.write(";\n")
}

func (p *printer) method(m *MethodDecl, typeName string) {
	p.javadoc(m.Javadoc)
	for _, a := range m.Annotations {
		p.annotation(a)
		p.write("\n")
	}
	p.modifiers(m.Modifiers)
	switch {
	case m.Constructor:
		p.write(typeName)
	case m.Return != nil:
		p.typ(m.Return)
		p.write(" " + m.Name)
	default:
		p.write("void " + m.Name)
	}
	p.write("(")
	for i, prm := range m.Params {
		if i > 0 {
			p.write(", ")
		}
		for _, a := range prm.Annotations {
			p.annotation(a)
			p.write(" ")
		}
		p.typ(prm.Type)
		p.write(" " + prm.Name)
	}
	p.write(") {\n")
	p.depth++
	for _, s := range m.Body {
		p.code(s)
		p.write("\n")
	}
	p.depth--
	p.write("}\n")
}
