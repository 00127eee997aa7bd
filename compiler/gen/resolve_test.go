package gen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/schema"
)

func nestedRef(depth int) *schema.TypeRef {
	t := schema.Ref("User")
	for i := 0; i < depth; i++ {
		if i%2 == 0 {
			t = schema.ListOf(t)
		} else {
			t = schema.NullableOf(t)
		}
	}
	return t
}

func TestResolve(t *testing.T) {
	s := schema.New(
		&schema.Entity{Name: "User"},
		&schema.Entity{Name: "Post"},
	)
	r := NewResolver(s, &textDialect{}, 0)
	assert.Equal(t, schema.DefaultMaxNesting, r.MaxDepth())

	tests := []struct {
		name      string
		ref       *schema.TypeRef
		expected  string
		imports   []string
		nullable  bool
		primitive bool
	}{
		{"primitive", schema.Prim(schema.Int), "int", nil, false, true},
		{"entity", schema.Ref("User"), "User", []string{"model.User"}, false, false},
		{"nullable", schema.NullableOf(schema.Prim(schema.Bool)), "bool?", nil, true, false},
		{"list", schema.ListOf(schema.Ref("Post")), "list<Post>", []string{"coll.list", "model.Post"}, false, false},
		{
			"map",
			schema.MapOf(nil, schema.SetOf(schema.Ref("User"))),
			"map<string, set<User>>",
			[]string{"coll.map", "coll.set", "model.User"},
			false, false,
		},
		{
			"imports are deduplicated",
			schema.MapOf(schema.Ref("User"), schema.ListOf(schema.Ref("User"))),
			"map<User, list<User>>",
			[]string{"coll.list", "coll.map", "model.User"},
			false, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := r.Resolve(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rt.Name)
			assert.Equal(t, tt.imports, rt.Imports)
			assert.Equal(t, tt.nullable, rt.Nullable)
			assert.Equal(t, tt.primitive, rt.Primitive)
			assert.Equal(t, tt.ref.String(), rt.Ref.String())
		})
	}
}

func TestResolveUnknownEntity(t *testing.T) {
	r := NewResolver(schema.New(&schema.Entity{Name: "User"}), &textDialect{}, 0)
	_, err := r.Resolve(schema.ListOf(schema.NullableOf(schema.Ref("Ghost"))))
	require.Error(t, err)
	assert.True(t, IsUnknownEntity(err))
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.EqualError(t, err, `lumigen: unknown entity "Ghost"`)
}

func TestResolveNesting(t *testing.T) {
	s := schema.New(&schema.Entity{Name: "User"})

	t.Run("at the limit", func(t *testing.T) {
		r := NewResolver(s, &textDialect{}, 32)
		rt, err := r.Resolve(nestedRef(32))
		require.NoError(t, err)
		assert.Contains(t, rt.Name, "User")
	})

	t.Run("40 levels", func(t *testing.T) {
		r := NewResolver(s, &textDialect{}, 32)
		var (
			err error
			rt  *ResolvedType
		)
		require.NotPanics(t, func() { rt, err = r.Resolve(nestedRef(40)) })
		assert.Nil(t, rt)
		require.Error(t, err)
		assert.True(t, IsTypeNestingTooDeep(err))
		var ne *TypeNestingError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, 32, ne.Max)
		assert.Equal(t, 33, ne.Depth)
	})

	t.Run("custom limit", func(t *testing.T) {
		r := NewResolver(s, &textDialect{}, 2)
		_, err := r.Resolve(nestedRef(2))
		require.NoError(t, err)
		_, err = r.Resolve(nestedRef(3))
		assert.True(t, IsTypeNestingTooDeep(err))
	})

	t.Run("self-referential", func(t *testing.T) {
		loop := schema.ListOf(nil)
		loop.Elem = loop
		r := NewResolver(s, &textDialect{}, 32)
		_, err := r.Resolve(loop)
		assert.True(t, IsTypeNestingTooDeep(err))
	})
}

func TestResolveMalformed(t *testing.T) {
	r := NewResolver(schema.New(), &textDialect{}, 0)
	_, err := r.Resolve(nil)
	assert.True(t, IsSchemaInvariant(err))
	_, err = r.Resolve(&schema.TypeRef{Kind: schema.TypeCollection, Collection: schema.List})
	assert.True(t, IsSchemaInvariant(err))
	_, err = r.Resolve(&schema.TypeRef{})
	assert.True(t, IsSchemaInvariant(err))
}

func TestResolveMemoized(t *testing.T) {
	s := schema.New(&schema.Entity{Name: "User"})
	d := &textDialect{}
	r := NewResolver(s, d, 0)

	a, err := r.Resolve(schema.ListOf(schema.Ref("User")))
	require.NoError(t, err)
	calls := d.mapped.Load()
	b, err := r.Resolve(schema.ListOf(schema.Ref("User")))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, calls, d.mapped.Load(), "equal references are mapped once")

	_, err1 := r.Resolve(schema.Ref("Ghost"))
	_, err2 := r.Resolve(schema.Ref("Ghost"))
	assert.Same(t, err1, err2, "failures are memoized")
}

func TestResolveConcurrent(t *testing.T) {
	s := schema.New(&schema.Entity{Name: "User"}, &schema.Entity{Name: "Post"})
	r := NewResolver(s, &textDialect{}, 0)
	refs := []*schema.TypeRef{
		schema.ListOf(schema.Ref("User")),
		schema.MapOf(nil, schema.Ref("Post")),
		schema.NullableOf(schema.Prim(schema.Long)),
		schema.Ref("Ghost"),
	}
	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, ref := range refs {
				rt, err := r.Resolve(ref)
				if err != nil {
					results[i] = append(results[i], err.Error())
					continue
				}
				results[i] = append(results[i], rt.Qualified)
			}
		}()
	}
	wg.Wait()
	for _, res := range results[1:] {
		assert.Equal(t, results[0], res)
	}
}

func TestMergeImports(t *testing.T) {
	assert.Equal(t, []string{"a.A", "b.B", "c.C"}, MergeImports([]string{"c.C", "a.A"}, nil, []string{"b.B", "a.A"}))
	assert.Empty(t, MergeImports())
}
