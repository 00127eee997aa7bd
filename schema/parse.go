package schema

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ParseTypeRef parses a type expression. It accepts the canonical form
// returned by TypeRef.String, e.g. "list<nullable<ref:User>>", and two
// shorthands: a trailing "?" marks a type nullable, and a bare name that is
// not a lower-case primitive name refers to an entity. "User?" and
// "nullable<ref:User>" are the same type. Map keys default to string, so
// "map<int>" is "map<string, int>".
func ParseTypeRef(s string) (*TypeRef, error) {
	p := &typeParser{src: s}
	t, err := p.parse(0)
	if err != nil {
		return nil, err
	}
	if p.skipSpace(); p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(s string) *TypeRef {
	t, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("schema: invalid type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *typeParser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(c byte) error {
	if !p.consume(c) {
		return p.errorf("expected %q", c)
	}
	return nil
}

// name reads an identifier. Dots are allowed for qualified names.
func (p *typeParser) name() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' && r != '.' {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parse(depth int) (*TypeRef, error) {
	if depth > maxStringDepth {
		return nil, p.errorf("nested deeper than %d levels", maxStringDepth)
	}
	t, err := p.parseBase(depth)
	if err != nil {
		return nil, err
	}
	if p.consume('?') {
		t = NullableOf(t)
	}
	return t, nil
}

func (p *typeParser) parseBase(depth int) (*TypeRef, error) {
	name := p.name()
	switch name {
	case "":
		return nil, p.errorf("expected a type")
	case "ref":
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		entity := p.name()
		if entity == "" {
			return nil, p.errorf("expected an entity name")
		}
		return Ref(entity), nil
	case "list", "set", "nullable":
		elem, err := p.args(depth, 1)
		if err != nil {
			return nil, err
		}
		switch name {
		case "list":
			return ListOf(elem[0]), nil
		case "set":
			return SetOf(elem[0]), nil
		}
		return NullableOf(elem[0]), nil
	case "map":
		args, err := p.args(depth, 2)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return MapOf(nil, args[0]), nil
		}
		return MapOf(args[0], args[1]), nil
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsLower(r) {
		if k, err := ParsePrimitive(name); err == nil {
			return Prim(k), nil
		}
	}
	return Ref(name), nil
}

// args parses "<T>" or, when max is 2, also "<K, V>".
func (p *typeParser) args(depth, max int) ([]*TypeRef, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []*TypeRef
	for {
		t, err := p.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if len(args) == max || !p.consume(',') {
			break
		}
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return args, nil
}
