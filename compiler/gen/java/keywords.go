package java

import (
	"strings"
	"unicode"

	"github.com/luminiadev/lumigen/compiler/gen"
)

// reserved holds the Java keywords and literals, which cannot be used as
// identifiers.
var reserved = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "_": {},
	"true": {}, "false": {}, "null": {},
}

// restrictedTypeNames cannot name a type, but are legal for members.
var restrictedTypeNames = map[string]struct{}{
	"var": {}, "yield": {}, "record": {}, "sealed": {}, "permits": {},
}

// objectMethods are the methods every class inherits from java.lang.Object.
var objectMethods = []string{
	"getClass", "hashCode", "equals", "toString", "clone", "finalize", "notify", "notifyAll", "wait",
}

// enumMethods are the methods every enum inherits from java.lang.Enum,
// besides those of Object.
var enumMethods = []string{
	"name", "ordinal", "compareTo", "getDeclaringClass", "values", "valueOf", "describeConstable",
}

// IsReserved reports if name is a Java keyword or literal.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// IsIdentifier reports if name is a syntactically valid Java identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// CheckName reports a NameCollisionError if name cannot be used for a
// member of the given kind ("type", "field", "constant", "method").
func CheckName(member, name string) error {
	switch {
	case IsReserved(name):
		return gen.NewNameCollisionError(member, name, "Java reserved word", "")
	case !IsIdentifier(name):
		return gen.NewNameCollisionError(member, name, "", "not a valid Java identifier")
	}
	if member == "type" {
		if _, ok := restrictedTypeNames[name]; ok {
			return gen.NewNameCollisionError(member, name, "Java restricted identifier", "")
		}
	}
	return nil
}

// CheckPackage reports a NameCollisionError if a segment of the package
// name is not a usable identifier.
func CheckPackage(pkg string) error {
	if pkg == "" {
		return nil
	}
	for _, seg := range strings.Split(pkg, ".") {
		if err := CheckName("package", seg); err != nil {
			return err
		}
	}
	return nil
}
