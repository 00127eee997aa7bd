package golang

import (
	"fmt"
	"go/token"
	"go/types"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/mod/module"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// CheckName reports a NameCollisionError if name cannot be used for a
// declaration of the given kind ("type", "field", "constant").
func CheckName(member, name string) error {
	switch {
	case token.IsKeyword(name):
		return gen.NewNameCollisionError(member, name, "Go keyword", "")
	case name == "_" || !token.IsIdentifier(name):
		return gen.NewNameCollisionError(member, name, "", "not a valid Go identifier")
	}
	if member == "type" && types.Universe.Lookup(name) != nil {
		return gen.NewNameCollisionError(member, name, "Go predeclared identifier", "")
	}
	return nil
}

// CheckPackage reports a NameCollisionError if the import path of the
// target package is invalid.
func CheckPackage(pkg string) error {
	p := ImportPath(pkg)
	if p == "" {
		return nil
	}
	if err := module.CheckImportPath(p); err != nil {
		return gen.NewNameCollisionError("package", pkg, "", err.Error())
	}
	return nil
}

// ImportPath maps a target package onto a Go import path. Dotted names
// without a slash, e.g. "cn.nukkit.item", become "cn/nukkit/item", so one
// schema can feed the Java and the Go dialect.
func ImportPath(pkg string) string {
	if !strings.Contains(pkg, "/") {
		return strings.ReplaceAll(pkg, ".", "/")
	}
	return pkg
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// PackageName returns the package clause of an import path: its last
// element, lower-cased and stripped to letters and digits.
func PackageName(importPath string) string {
	name := nonAlnum.ReplaceAllString(strings.ToLower(path.Base(importPath)), "")
	name = strings.TrimLeftFunc(name, unicode.IsDigit)
	switch {
	case importPath == "" || name == "":
		return "model"
	case token.IsKeyword(name):
		return name + "pkg"
	}
	return name
}

// buildSuffixes are file name suffixes the go tool gives a meaning to.
var buildSuffixes = map[string]struct{}{
	"test": {}, "aix": {}, "android": {}, "darwin": {}, "dragonfly": {}, "freebsd": {},
	"hurd": {}, "illumos": {}, "ios": {}, "js": {}, "linux": {}, "nacl": {}, "netbsd": {},
	"openbsd": {}, "plan9": {}, "solaris": {}, "wasip1": {}, "windows": {}, "zos": {},
	"386": {}, "amd64": {}, "arm": {}, "arm64": {}, "loong64": {}, "mips": {}, "mipsle": {},
	"mips64": {}, "mips64le": {}, "ppc64": {}, "ppc64le": {}, "riscv64": {}, "s390x": {},
	"sparc64": {}, "wasm": {},
}

// FileName returns the name of the file holding the type, e.g.
// "ItemMaterial" -> "item_material.go", "HTTPServer" -> "http_server.go".
func FileName(typeName string) string {
	name := gen.Snake(typeName)
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		if _, ok := buildSuffixes[name[i+1:]]; ok {
			name += "_gen"
		}
	}
	return name + ".go"
}

// exported returns the exported form of a field name, e.g. "maxLevel" -> "MaxLevel".
func exported(name string) string {
	return gen.Pascal(name)
}

func getterName(f *gen.Field) string { return exported(f.Name) }

func setterName(f *gen.Field) string { return "Set" + exported(f.Name) }

// defaultName returns the package variable holding the default of f.
func defaultName(f *gen.Field) string {
	return "Default" + f.Owner().Name + exported(f.Name)
}

// constantName returns the package variable of an enum constant, e.g.
// "Sound", "RANDOM_CLICK" -> "SoundRandomClick".
func constantName(typeName, constant string) string {
	return typeName + gen.Pascal(strings.ToLower(constant))
}

// decl is a package-level declaration generated for an entity.
type decl struct {
	member string // "type", "function", "constant" or "variable"
	name   string
	origin string
	field  string // field owning the declaration, if any
}

// packageDecls returns the package-level declarations generated for e.
func packageDecls(s *schema.Schema, e *schema.Entity) []decl {
	ds := []decl{{member: "type", name: e.Name, origin: "type " + e.Name}}
	if e.Kind == schema.Enum {
		ds = append(ds, decl{member: "function", name: e.Name + "Values", origin: "values of " + e.Name})
		for _, c := range e.Constants {
			ds = append(ds, decl{
				member: "constant",
				name:   constantName(e.Name, c.Name),
				origin: fmt.Sprintf("enum constant %s of %s", c.Name, e.Name),
			})
		}
	} else {
		ds = append(ds, decl{member: "function", name: "New" + e.Name, origin: "constructor of " + e.Name})
		if chainHasDefaults(s, e) {
			ds = append(ds, decl{member: "function", name: "New" + e.Name + "WithDefaults", origin: "constructor of " + e.Name})
		}
	}
	for _, f := range e.Fields {
		if f.Default != nil {
			ds = append(ds, decl{
				member: "variable",
				name:   "Default" + e.Name + exported(f.Name),
				origin: fmt.Sprintf("default of field %q of %s", f.Name, e.Name),
				field:  f.Name,
			})
		}
	}
	return ds
}

// chainHasDefaults reports if e or one of its ancestors declares a field
// default.
func chainHasDefaults(s *schema.Schema, e *schema.Entity) bool {
	for depth := 0; e != nil; depth++ {
		for _, f := range e.Fields {
			if f.Default != nil {
				return true
			}
		}
		if s == nil || !e.HasParent() || depth > len(s.Entities) {
			return false
		}
		e, _ = s.Lookup(e.Parent)
	}
	return false
}

// siblings returns the entities generated into the Go package of t, in
// declared order.
func siblings(t *gen.Type) []*schema.Entity {
	s := t.Schema()
	if s == nil {
		return nil
	}
	pkg := ImportPath(t.Package)
	var out []*schema.Entity
	for _, e := range s.Entities {
		if ImportPath(t.PackageOf(e)) == pkg {
			out = append(out, e)
		}
	}
	return out
}

func hasSetter(t *gen.Type, f *gen.Field) bool {
	return f.Mutable && !t.IsEnum()
}
