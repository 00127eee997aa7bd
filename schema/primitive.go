package schema

import (
	"fmt"
	"strings"
)

// PrimitiveKind is a built-in scalar type of the schema language.
type PrimitiveKind uint8

// List of primitive kinds. The order is part of the public API:
// dialects index fixed lookup tables with it.
const (
	Bool PrimitiveKind = iota
	Byte
	Short
	Int
	Long
	Float
	Double
	Char
	String
	Decimal
	UUID
	Instant
	Date
	Bytes
	numPrimitives
)

var primitiveNames = [numPrimitives]string{
	Bool:    "bool",
	Byte:    "byte",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Char:    "char",
	String:  "string",
	Decimal: "decimal",
	UUID:    "uuid",
	Instant: "instant",
	Date:    "date",
	Bytes:   "bytes",
}

// aliases accepted by ParsePrimitive in addition to the canonical names.
var primitiveAliases = map[string]PrimitiveKind{
	"boolean":   Bool,
	"int8":      Byte,
	"int16":     Short,
	"int32":     Int,
	"integer":   Int,
	"int64":     Long,
	"float32":   Float,
	"float64":   Double,
	"number":    Double,
	"str":       String,
	"text":      String,
	"time":      Instant,
	"timestamp": Instant,
	"datetime":  Instant,
	"binary":    Bytes,
}

// Primitives returns all primitive kinds in declaration order.
func Primitives() []PrimitiveKind {
	kinds := make([]PrimitiveKind, numPrimitives)
	for i := range kinds {
		kinds[i] = PrimitiveKind(i)
	}
	return kinds
}

// Valid reports if the kind is one of the declared primitive kinds.
func (k PrimitiveKind) Valid() bool { return k < numPrimitives }

// String returns the canonical schema name of the kind.
func (k PrimitiveKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("primitive(%d)", uint8(k))
	}
	return primitiveNames[k]
}

// Numeric reports if the kind holds a number.
func (k PrimitiveKind) Numeric() bool {
	switch k {
	case Byte, Short, Int, Long, Float, Double, Decimal:
		return true
	}
	return false
}

// Integral reports if the kind holds an integer number.
func (k PrimitiveKind) Integral() bool {
	switch k {
	case Byte, Short, Int, Long:
		return true
	}
	return false
}

// ParsePrimitive returns the primitive kind for the given name.
// Names are case-insensitive and a few common aliases are accepted.
func ParsePrimitive(name string) (PrimitiveKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range primitiveNames {
		if n == name {
			return PrimitiveKind(i), nil
		}
	}
	if k, ok := primitiveAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("schema: unknown primitive type %q", name)
}
