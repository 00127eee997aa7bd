package gen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of each word and keeps the rest intact.
var title = cases.Title(language.Und, cases.NoLower)

// UpperFirst upper-cases the first letter of s, e.g. "maxLevel" -> "MaxLevel".
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return title.String(s[:n]) + s[n:]
}

// LowerFirst lower-cases the first letter of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return strings.ToLower(s[:n]) + s[n:]
}

// Pascal converts a field or entity name to PascalCase, e.g.
// "max_level" -> "MaxLevel", "maxLevel" -> "MaxLevel".
func Pascal(s string) string {
	if !strings.ContainsAny(s, "_- ") {
		return UpperFirst(s)
	}
	return inflect.Camelize(s)
}

// Snake converts a name to snake_case, keeping acronyms together, e.g.
// "HTTPServer" -> "http_server", "UserIDs" -> "user_ids".
func Snake(s string) string {
	rs := []rune(s)
	var (
		b    strings.Builder
		last int // index of the last word start
	)
	for i, r := range rs {
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			prev, next := rs[i-1], rs[i+1]
			if unicode.IsLower(prev) || last != i-1 && unicode.IsLower(next) && unicode.IsLetter(prev) {
				last = i
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// UpperSnake converts a name to UPPER_SNAKE_CASE, e.g. "maxLevel" -> "MAX_LEVEL".
func UpperSnake(s string) string {
	if strings.ToUpper(s) == s {
		return s
	}
	return strings.ToUpper(inflect.Underscore(s))
}

// Receiver returns the receiver name for a type, e.g. "User" -> "u".
func Receiver(name string) string {
	if name == "" {
		return "x"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToLower(string(r))
}

// Members tracks the member names generated for a type and its ancestors.
// It reports the first clash as a NameCollisionError.
type Members struct {
	owners map[string]string
}

// NewMembers returns an empty member set.
func NewMembers() *Members {
	return &Members{owners: make(map[string]string)}
}

// Claim records name as generated for origin, e.g. `getter of field "id" in User`.
func (m *Members) Claim(member, name, origin string) error {
	if prev, ok := m.owners[name]; ok {
		return NewNameCollisionError(member, name, prev, "generated member names clash")
	}
	m.owners[name] = origin
	return nil
}

// Has reports if the name is taken.
func (m *Members) Has(name string) bool {
	_, ok := m.owners[name]
	return ok
}
