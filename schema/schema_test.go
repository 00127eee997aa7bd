package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/schema"
)

func nested(depth int) *schema.TypeRef {
	t := schema.Prim(schema.Int)
	for i := 0; i < depth; i++ {
		if i%2 == 0 {
			t = schema.ListOf(t)
		} else {
			t = schema.NullableOf(t)
		}
	}
	return t
}

func TestTypeRefString(t *testing.T) {
	tests := []struct {
		ref      *schema.TypeRef
		expected string
	}{
		{schema.Prim(schema.String), "string"},
		{schema.Ref("User"), "ref:User"},
		{schema.ListOf(schema.NullableOf(schema.Ref("User"))), "list<nullable<ref:User>>"},
		{schema.SetOf(schema.Prim(schema.Long)), "set<long>"},
		{schema.MapOf(nil, schema.Prim(schema.Int)), "map<string, int>"},
		{schema.MapOf(schema.Prim(schema.UUID), schema.Ref("Item")), "map<uuid, ref:Item>"},
		{nil, "<nil>"},
		{&schema.TypeRef{}, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.String())
		})
	}
}

func TestTypeRefStringEquality(t *testing.T) {
	a := schema.MapOf(nil, schema.ListOf(schema.Ref("A")))
	b := schema.MapOf(schema.Prim(schema.String), schema.ListOf(schema.Ref("A")))
	assert.Equal(t, a.String(), b.String(), "nil map key defaults to string")
}

func TestTypeRefDepth(t *testing.T) {
	assert.Equal(t, 0, schema.Prim(schema.Int).Depth(32))
	assert.Equal(t, 0, schema.Ref("User").Depth(32))
	assert.Equal(t, 2, schema.ListOf(schema.NullableOf(schema.Ref("User"))).Depth(32))
	assert.Equal(t, 2, schema.MapOf(schema.SetOf(schema.Prim(schema.Int)), schema.Prim(schema.Int)).Depth(32))
	assert.Equal(t, 32, nested(32).Depth(32))
	assert.Equal(t, 33, nested(40).Depth(32))

	t.Run("self-referential", func(t *testing.T) {
		loop := schema.ListOf(nil)
		loop.Elem = loop
		assert.Equal(t, 33, loop.Depth(32))
		assert.NotPanics(t, func() { _ = loop.String() })
	})
}

func TestTypeRefUnwrap(t *testing.T) {
	ref := schema.NullableOf(schema.NullableOf(schema.Prim(schema.Int)))
	assert.True(t, ref.IsNullable())
	assert.Equal(t, "int", ref.Unwrap(32).String())
	assert.False(t, schema.Prim(schema.Int).IsNullable())
}

func TestParsePrimitive(t *testing.T) {
	for _, k := range schema.Primitives() {
		got, err := schema.ParsePrimitive(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	tests := map[string]schema.PrimitiveKind{
		"Boolean":   schema.Bool,
		"int64":     schema.Long,
		"timestamp": schema.Instant,
		" String ":  schema.String,
		"float64":   schema.Double,
	}
	for name, expected := range tests {
		got, err := schema.ParsePrimitive(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}
	_, err := schema.ParsePrimitive("complex128")
	require.EqualError(t, err, `schema: unknown primitive type "complex128"`)
}

func TestPrimitiveKind(t *testing.T) {
	assert.Len(t, schema.Primitives(), 14)
	assert.True(t, schema.Long.Integral())
	assert.False(t, schema.Double.Integral())
	assert.True(t, schema.Decimal.Numeric())
	assert.False(t, schema.String.Numeric())
	assert.False(t, schema.PrimitiveKind(200).Valid())
	assert.Equal(t, "primitive(200)", schema.PrimitiveKind(200).String())
}

func TestValue(t *testing.T) {
	v := schema.NestedValue("Index",
		schema.NewArg("columns", schema.ListValue(schema.StringValue("a"), schema.StringValue("b"))),
		schema.NewArg("unique", schema.BoolValue(true)),
	)
	assert.Equal(t, `Index{columns: ["a", "b"], unique: true}`, v.String())
	got, ok := v.Lookup("unique")
	require.True(t, ok)
	assert.True(t, got.Bool)
	_, ok = v.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "null", schema.NullValue().String())
	assert.Equal(t, "1.5", schema.FloatValue(1.5).String())
	assert.Equal(t, "-3", schema.IntValue(-3).String())
}

func TestAnnotation(t *testing.T) {
	a := &schema.Annotation{Name: "lombok.Data"}
	assert.Equal(t, "Data", a.SimpleName())
	assert.Equal(t, "lombok", a.Qualifier())

	a = &schema.Annotation{Name: "Deprecated", Args: []schema.Arg{schema.NewArg("since", schema.StringValue("1.2"))}}
	assert.Equal(t, "Deprecated", a.SimpleName())
	assert.Empty(t, a.Qualifier())
	v, ok := a.Arg("since")
	require.True(t, ok)
	assert.Equal(t, "1.2", v.Str)
}

func TestSchemaLookup(t *testing.T) {
	first := &schema.Entity{Name: "User", Comment: "first"}
	s := schema.New(
		&schema.Entity{Name: "Post", Fields: []*schema.Field{{Name: "author", Type: schema.Ref("User")}}},
		first,
		&schema.Entity{Name: "User", Comment: "second"},
	)
	u, ok := s.Lookup("User")
	require.True(t, ok)
	assert.Same(t, first, u)
	_, ok = s.Lookup("Missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"Post", "User", "User"}, s.Names())
}

func TestValidate(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		s := schema.New(
			&schema.Entity{Name: "Base", Kind: schema.Abstract, Fields: []*schema.Field{{Name: "id", Type: schema.Prim(schema.Long)}}},
			&schema.Entity{Name: "User", Parent: "Base", Fields: []*schema.Field{
				{Name: "friends", Type: schema.ListOf(schema.Ref("User"))},
				{Name: "boss", Type: schema.Ref("Missing")},
			}},
			&schema.Entity{Name: "Color", Kind: schema.Enum, Constants: []*schema.Constant{{Name: "RED"}, {Name: "GREEN"}}},
			&schema.Entity{Name: "Orphan", Parent: "Unknown"},
		)
		require.NoError(t, s.Validate(0))
	})

	t.Run("duplicate entity", func(t *testing.T) {
		s := schema.New(&schema.Entity{Name: "User"}, &schema.Entity{Name: "User"})
		err := s.Validate(0)
		require.Error(t, err)
		var ie *schema.InvariantError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "User", ie.Entity)
		assert.EqualError(t, err, "schema: invariant violation on entity User: entity name declared more than once")
	})

	t.Run("inheritance cycle", func(t *testing.T) {
		s := schema.New(
			&schema.Entity{Name: "A", Parent: "B"},
			&schema.Entity{Name: "B", Parent: "A"},
			&schema.Entity{Name: "C", Parent: "A"},
		)
		err := s.Validate(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inheritance cycle A -> B -> A")
		assert.Contains(t, err.Error(), "inheritance cycle B -> A -> B")
		assert.NotContains(t, err.Error(), "entity C")
	})

	t.Run("self parent", func(t *testing.T) {
		err := schema.New(&schema.Entity{Name: "A", Parent: "A"}).Validate(0)
		require.EqualError(t, err, "schema: invariant violation on entity A: inheritance cycle A -> A")
	})

	t.Run("malformed type references", func(t *testing.T) {
		s := schema.New(&schema.Entity{Name: "T", Fields: []*schema.Field{
			{Name: "a"},
			{Name: "b", Type: schema.ListOf(nil)},
			{Name: "c", Type: schema.NullableOf(schema.Ref(""))},
			{Name: "d", Type: &schema.TypeRef{Kind: schema.TypeCollection, Elem: schema.Prim(schema.Int)}},
		}})
		err := s.Validate(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field a: missing type")
		assert.Contains(t, err.Error(), "field b: list without an element type")
		assert.Contains(t, err.Error(), "field c: entity reference without a name")
		assert.Contains(t, err.Error(), "field d: unknown collection kind 0")
	})

	t.Run("deep references are left to the resolver", func(t *testing.T) {
		loop := schema.ListOf(nil)
		loop.Elem = loop
		s := schema.New(&schema.Entity{Name: "T", Fields: []*schema.Field{
			{Name: "deep", Type: nested(40)},
			{Name: "loop", Type: loop},
		}})
		require.NoError(t, s.Validate(32))
	})

	t.Run("enum shape", func(t *testing.T) {
		s := schema.New(
			&schema.Entity{Name: "Base"},
			&schema.Entity{Name: "E", Kind: schema.Enum, Parent: "Base"},
			&schema.Entity{Name: "C", Constants: []*schema.Constant{{Name: "X"}}},
			&schema.Entity{Name: "D", Kind: schema.Enum, Constants: []*schema.Constant{{Name: "X"}, {Name: "X"}}},
		)
		err := s.Validate(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `entity E: enum entity cannot extend "Base"`)
		assert.Contains(t, err.Error(), "entity C: constants are only allowed on enum entities")
		assert.Contains(t, err.Error(), `entity D: enum constant "X" declared more than once`)
	})

	t.Run("nil members", func(t *testing.T) {
		s := &schema.Schema{Entities: []*schema.Entity{nil, {Name: ""}, {Name: "T", Fields: []*schema.Field{nil}}}}
		err := s.Validate(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entity at position 0 is nil")
		assert.Contains(t, err.Error(), "entity at position 1 has an empty name")
		assert.Contains(t, err.Error(), "field at position 0 is nil")
	})
}
