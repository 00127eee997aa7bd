package golang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/compiler/gen"
	"github.com/luminiadev/lumigen/schema"
)

// generate runs a full generation over the entities with the Go dialect.
func generate(t *testing.T, cfg *gen.Config, entities ...*schema.Entity) *gen.Result {
	t.Helper()
	res, err := gen.NewGenerator(cfg, NewDialect(cfg)).Generate(context.Background(), schema.New(entities...))
	require.NoError(t, err)
	return res
}

func source(t *testing.T, res *gen.Result, entity string) string {
	t.Helper()
	require.NoError(t, res.Err())
	u, ok := res.Unit(entity)
	require.True(t, ok, "missing unit for %s", entity)
	return u.Source
}

func TestBuildStruct(t *testing.T) {
	cfg := gen.MustNewConfig(gen.WithPackage("example.com/game/item"))
	res := generate(t, cfg, &schema.Entity{
		Name:    "Item",
		Comment: "Item is an inventory item.",
		Fields: []*schema.Field{
			{Name: "id", Type: schema.Prim(schema.Int)},
			{Name: "name", Type: schema.Prim(schema.String), Mutable: true},
			{Name: "tags", Type: schema.ListOf(schema.Prim(schema.String))},
			{Name: "enabled", Type: schema.Prim(schema.Bool), Default: schema.BoolValue(true)},
		},
	})
	u, ok := res.Unit("Item")
	require.True(t, ok)
	assert.Equal(t, "example.com/game/item/item.go", u.Path)
	assert.Empty(t, u.Imports)
	assert.Equal(t, `// Code generated by lumigen. DO NOT EDIT.

package item

// Item is an inventory item.
//
// This class is generated automatically, do not change it manually.
type Item struct {
	id      int32
	name    string
	tags    []string
	enabled bool
}

// DefaultItemEnabled is the default value of the enabled field.
var DefaultItemEnabled bool = true

// NewItem returns a new Item.
func NewItem(id int32, name string, tags []string, enabled bool) *Item {
	return &Item{id: id, name: name, tags: tags, enabled: enabled}
}

// NewItemWithDefaults returns a new Item using the default values of the optional fields.
func NewItemWithDefaults(id int32, name string, tags []string) *Item {
	return NewItem(id, name, tags, DefaultItemEnabled)
}

// Id returns the value of the id field.
func (i *Item) Id() int32 {
	return i.id
}

// Name returns the value of the name field.
func (i *Item) Name() string {
	return i.name
}

// SetName sets the value of the name field.
func (i *Item) SetName(name string) {
	i.name = name
}

// Tags returns the value of the tags field.
func (i *Item) Tags() []string {
	return i.tags
}

// Enabled returns the value of the enabled field.
func (i *Item) Enabled() bool {
	return i.enabled
}
`, u.Source)
}

func TestBuildEmptyStruct(t *testing.T) {
	res := generate(t, nil, &schema.Entity{Name: "Marker"})
	u, ok := res.Unit("Marker")
	require.True(t, ok)
	assert.Equal(t, "marker.go", u.Path)
	assert.Equal(t, `// Code generated by lumigen. DO NOT EDIT.

package model

// This class is generated automatically, do not change it manually.
type Marker struct{}

// NewMarker returns a new Marker.
func NewMarker() *Marker {
	return &Marker{}
}
`, u.Source)
}

func TestBuildInheritance(t *testing.T) {
	cfg := gen.MustNewConfig(
		gen.WithPackage("example.com/game"),
		gen.WithFeatures(gen.FeatureEquality, gen.FeatureToString),
	)
	res := generate(t, cfg,
		&schema.Entity{Name: "User", Parent: "Base", Fields: []*schema.Field{
			{Name: "name", Type: schema.Prim(schema.String), Annotations: []*schema.Annotation{
				{Name: "json", Args: []schema.Arg{
					schema.NewArg("value", schema.StringValue("name")),
					schema.NewArg("omitempty", schema.BoolValue(true)),
				}},
			}},
			{Name: "score", Type: schema.NullableOf(schema.Prim(schema.Int)), Default: schema.IntValue(0)},
			{Name: "friends", Type: schema.ListOf(schema.Ref("User"))},
		}},
		&schema.Entity{Name: "Base", Kind: schema.Abstract, Package: "example.com/game/core", Fields: []*schema.Field{
			{Name: "id", Type: schema.Prim(schema.Long)},
			{Name: "created", Type: schema.Prim(schema.Instant)},
		}},
	)
	require.NoError(t, res.Err())
	u, ok := res.Unit("User")
	require.True(t, ok)
	assert.Equal(t, "example.com/game/user.go", u.Path)
	assert.Equal(t, []string{"example.com/game/core", "fmt", "reflect", "time"}, u.Imports)

	src := u.Source
	assert.Contains(t, src, "package game\n")
	assert.Contains(t, src, "type User struct {\n\tcore.Base\n")
	assert.Regexp(t, "\tname +string +`json:\"name,omitempty\"`\n", src)
	assert.Regexp(t, "\tscore +\\*int32\n", src)
	assert.Regexp(t, "\tfriends +\\[\\]\\*User\n", src)
	assert.Contains(t, src, `var DefaultUserScore *int32 = func() *int32 {
	var v int32 = 0
	return &v
}()`)
	assert.Contains(t, src, "func NewUser(id int64, created time.Time, name string, score *int32, friends []*User) *User {\n"+
		"\treturn &User{Base: *core.NewBase(id, created), name: name, score: score, friends: friends}\n}\n")
	assert.Contains(t, src, "func NewUserWithDefaults(id int64, created time.Time, name string, friends []*User) *User {\n"+
		"\treturn NewUser(id, created, name, DefaultUserScore, friends)\n}\n")
	assert.Contains(t, src, "func (u *User) Equal(other *User) bool {\n"+
		"\tif u == nil || other == nil {\n\t\treturn u == other\n\t}\n"+
		"\treturn u.Base.Equal(&other.Base) && u.name == other.name && reflect.DeepEqual(u.score, other.score) && reflect.DeepEqual(u.friends, other.friends)\n}\n")
	assert.Contains(t, src, "func (u *User) String() string {\n"+
		"\treturn fmt.Sprintf(\"User{id=%v, created=%v, name=%v, score=%v, friends=%v}\", u.Id(), u.Created(), u.name, u.score, u.friends)\n}\n")
	assert.NotContains(t, src, "SetName")

	base, ok := res.Unit("Base")
	require.True(t, ok)
	assert.Equal(t, "example.com/game/core/base.go", base.Path)
	assert.Equal(t, []string{"fmt", "time"}, base.Imports)
	assert.Contains(t, base.Source, "package core\n")
	assert.Contains(t, base.Source, "\treturn b.id == other.id && b.created.Equal(other.created)\n")
	assert.Contains(t, base.Source, "func NewBase(id int64, created time.Time) *Base {\n")
}

func TestBuildSamePackageParentDefaults(t *testing.T) {
	res := generate(t, nil,
		&schema.Entity{Name: "Block", Fields: []*schema.Field{
			{Name: "hardness", Type: schema.Prim(schema.Double), Default: schema.FloatValue(1.5)},
		}},
		&schema.Entity{Name: "Stone", Parent: "Block", Fields: []*schema.Field{
			{Name: "variant", Type: schema.Prim(schema.String)},
		}},
	)
	src := source(t, res, "Stone")
	assert.Contains(t, src, "type Stone struct {\n\tBlock\n\tvariant string\n}\n")
	assert.Contains(t, src, "func NewStone(hardness float64, variant string) *Stone {\n"+
		"\treturn &Stone{Block: *NewBlock(hardness), variant: variant}\n}\n")
	assert.Contains(t, src, "func NewStoneWithDefaults(variant string) *Stone {\n"+
		"\treturn NewStone(DefaultBlockHardness, variant)\n}\n")
	assert.NotContains(t, src, "var Default")
	assert.Contains(t, source(t, res, "Block"), "var DefaultBlockHardness float64 = 1.5\n")
}

func TestBuildEnum(t *testing.T) {
	cfg := gen.MustNewConfig(
		gen.WithPackage("example.com/game/level"),
		gen.WithFeatures(gen.FeatureEquality, gen.FeatureToString),
	)
	res := generate(t, cfg, &schema.Entity{
		Name: "Sound",
		Kind: schema.Enum,
		Fields: []*schema.Field{
			{Name: "key", Type: schema.Prim(schema.String)},
			{Name: "volume", Type: schema.Prim(schema.Float), Default: schema.FloatValue(1)},
		},
		Constants: []*schema.Constant{
			{Name: "AMBIENT_CAVE", Args: []schema.Value{*schema.StringValue("ambient.cave")}},
			{Name: "BLOCK_STONE", Comment: "Stone breaking.", Args: []schema.Value{*schema.StringValue("block.stone"), *schema.FloatValue(0.5)}},
		},
	})
	src := source(t, res, "Sound")
	assert.Contains(t, src, "type Sound struct {\n\tordinal int\n\tkey     string\n\tvolume  float32\n}\n")
	assert.Regexp(t, `SoundAmbientCave += &Sound\{ordinal: 0, key: "ambient\.cave", volume: DefaultSoundVolume\}`, src)
	assert.Regexp(t, `// Stone breaking\.\n\tSoundBlockStone += &Sound\{ordinal: 1, key: "block\.stone", volume: 0\.5\}`, src)
	assert.Contains(t, src, "var DefaultSoundVolume float32 = 1.0\n")
	assert.Contains(t, src, "func SoundValues() []*Sound {\n\treturn []*Sound{SoundAmbientCave, SoundBlockStone}\n}\n")
	assert.Contains(t, src, "func (s *Sound) Ordinal() int {\n\treturn s.ordinal\n}\n")
	assert.Contains(t, src, "func (s *Sound) Key() string {\n")
	assert.NotContains(t, src, "NewSound")
	assert.NotContains(t, src, "Equal")
	assert.NotContains(t, src, "String()")
}

func TestBuildEnumConstantErrors(t *testing.T) {
	fields := []*schema.Field{{Name: "id", Type: schema.Prim(schema.Int)}}
	tests := []struct {
		name    string
		args    []schema.Value
		wantErr string
	}{
		{"too many", []schema.Value{*schema.IntValue(1), *schema.IntValue(2)}, "takes at most 1 arguments, got 2"},
		{"missing", nil, `misses argument "id"`},
		{"mismatch", []schema.Value{*schema.StringValue("x")}, "cannot initialize"},
		{"overflow", []schema.Value{*schema.IntValue(1 << 40)}, "overflows int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := generate(t, nil, &schema.Entity{
				Name:      "Level",
				Kind:      schema.Enum,
				Fields:    fields,
				Constants: []*schema.Constant{{Name: "LOW", Args: tt.args}},
			})
			f, ok := res.Failure("Level")
			require.True(t, ok)
			assert.True(t, gen.IsUnsupportedAnnotationShape(f))
			assert.Equal(t, gen.Building, f.Stage)
			assert.Contains(t, f.Error(), tt.wantErr)
		})
	}
}

func TestBuildFluentSetters(t *testing.T) {
	cfg := gen.MustNewConfig(gen.WithFeatures(gen.FeatureBuilderSetters))
	src := source(t, generate(t, cfg, &schema.Entity{Name: "Player", Fields: []*schema.Field{
		{Name: "level", Type: schema.Prim(schema.Int), Mutable: true},
	}}), "Player")
	assert.Contains(t, src, "func (p *Player) SetLevel(level int32) *Player {\n\tp.level = level\n\treturn p\n}\n")
}

func TestBuildReceiver(t *testing.T) {
	src := source(t, generate(t, nil, &schema.Entity{Name: "Point", Fields: []*schema.Field{
		{Name: "p", Type: schema.Prim(schema.Int), Mutable: true},
	}}), "Point")
	assert.Contains(t, src, "func (_p *Point) P() int32 {\n\treturn _p.p\n}\n")
	assert.Contains(t, src, "func (_p *Point) SetP(p int32) {\n\t_p.p = p\n}\n")
}

func TestBuildComments(t *testing.T) {
	src := source(t, generate(t, gen.MustNewConfig(gen.WithHeader("")), &schema.Entity{
		Name:    "Recipe",
		Comment: "Recipe crafts items.\nIt has multiple lines.",
		Annotations: []*schema.Annotation{
			{Name: "Deprecated"},
			{Name: "example.Registered", Args: []schema.Arg{
				schema.NewArg("value", schema.StringValue("minecraft:recipe")),
				schema.NewArg("weight", schema.FloatValue(0.25)),
			}},
		},
		Fields: []*schema.Field{
			{Name: "output", Comment: "output item id", Type: schema.Prim(schema.String)},
		},
	}), "Recipe")
	assert.Contains(t, src, "// Recipe crafts items.\n// It has multiple lines.\n//\n"+
		"//lumi:annotation Deprecated\n"+
		"//lumi:annotation example.Registered \"minecraft:recipe\" weight=0.25\n"+
		"type Recipe struct {\n\t// output item id\n\toutput string\n}\n")
}

func TestBuildUnsupportedShapes(t *testing.T) {
	meta := func(v *schema.Value) []*schema.Annotation {
		return []*schema.Annotation{{Name: "meta", Args: []schema.Arg{schema.NewArg("m", v)}}}
	}
	tests := []struct {
		name  string
		field *schema.Field
	}{
		{"map argument", &schema.Field{Name: "x", Type: schema.Prim(schema.Int), Annotations: meta(schema.MapValue(schema.NewArg("k", schema.IntValue(1))))}},
		{"nested list", &schema.Field{Name: "x", Type: schema.Prim(schema.Int), Annotations: meta(schema.ListValue(schema.ListValue()))}},
		{"null argument", &schema.Field{Name: "x", Type: schema.Prim(schema.Int), Annotations: meta(schema.NullValue())}},
		{"duplicate tag key", &schema.Field{Name: "x", Type: schema.Prim(schema.Int), Annotations: []*schema.Annotation{
			{Name: "json"}, {Name: "encoding.json"},
		}}},
		{"default mismatch", &schema.Field{Name: "x", Type: schema.Prim(schema.Int), Default: schema.StringValue("1")}},
		{"default overflow", &schema.Field{Name: "x", Type: schema.Prim(schema.Byte), Default: schema.IntValue(300)}},
		{"null default", &schema.Field{Name: "x", Type: schema.Prim(schema.String), Default: schema.NullValue()}},
		{"bad uuid default", &schema.Field{Name: "x", Type: schema.Prim(schema.UUID), Default: schema.StringValue("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := generate(t, nil, &schema.Entity{Name: "Thing", Fields: []*schema.Field{tt.field}})
			f, ok := res.Failure("Thing")
			require.True(t, ok)
			assert.True(t, gen.IsUnsupportedAnnotationShape(f), f.Error())
			assert.Equal(t, "x", f.Field)
			assert.Equal(t, gen.Building, f.Stage)
		})
	}
	t.Run("entity directive", func(t *testing.T) {
		res := generate(t, nil, &schema.Entity{Name: "Thing", Annotations: []*schema.Annotation{
			{Name: "Meta", Args: []schema.Arg{schema.NewArg("m", schema.MapValue())}},
		}})
		f, ok := res.Failure("Thing")
		require.True(t, ok)
		assert.True(t, gen.IsUnsupportedAnnotationShape(f), f.Error())
	})
}

func TestBuildNameCollisions(t *testing.T) {
	str := schema.Prim(schema.String)
	eq := gen.MustNewConfig(gen.WithFeatures(gen.FeatureEquality, gen.FeatureToString))
	tests := []struct {
		name     string
		cfg      *gen.Config
		entities []*schema.Entity
		entity   string
		wantErr  string
	}{
		{
			name:     "keyword field",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{{Name: "type", Type: str}}}},
			entity:   "A",
			wantErr:  `name collision on field "type" with Go keyword`,
		},
		{
			name:     "predeclared type",
			entities: []*schema.Entity{{Name: "error"}},
			entity:   "error",
			wantErr:  `name collision on type "error" with Go predeclared identifier`,
		},
		{
			name:     "invalid identifier",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{{Name: "max-level", Type: str}}}},
			entity:   "A",
			wantErr:  "not a valid Go identifier",
		},
		{
			name:     "invalid package",
			cfg:      gen.MustNewConfig(gen.WithPackage("example.com//model")),
			entities: []*schema.Entity{{Name: "A"}},
			entity:   "A",
		},
		{
			name: "field and getter",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "Name", Type: str},
			}}},
			entity:  "A",
			wantErr: `name collision on method "Name" with field "Name" of A`,
		},
		{
			name: "getter clash",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "max_level", Type: str},
				{Name: "maxLevel", Type: str},
			}}},
			entity:  "A",
			wantErr: `name collision on method "MaxLevel" with getter of field "max_level" of A`,
		},
		{
			name: "setter clash",
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{
				{Name: "level", Type: str, Mutable: true},
				{Name: "SetLevel", Type: str},
			}}},
			entity:  "A",
			wantErr: `name collision on field "SetLevel" with setter of field "level" of A`,
		},
		{
			name:     "equality method",
			cfg:      eq,
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{{Name: "equal", Type: str}}}},
			entity:   "A",
			wantErr:  `name collision on method "Equal" with equality method`,
		},
		{
			name:     "stringer method",
			cfg:      eq,
			entities: []*schema.Entity{{Name: "A", Fields: []*schema.Field{{Name: "string", Type: str}}}},
			entity:   "A",
			wantErr:  `name collision on method "String" with fmt.Stringer method`,
		},
		{
			name: "embedded parent",
			entities: []*schema.Entity{
				{Name: "P"},
				{Name: "C", Parent: "P", Fields: []*schema.Field{{Name: "P", Type: str}}},
			},
			entity:  "C",
			wantErr: `name collision on field "P" with embedded P`,
		},
		{
			name: "shadowed field",
			entities: []*schema.Entity{
				{Name: "P", Fields: []*schema.Field{{Name: "id", Type: str}}},
				{Name: "C", Parent: "P", Fields: []*schema.Field{{Name: "id", Type: str}}},
			},
			entity:  "C",
			wantErr: "fields cannot shadow a parent field",
		},
		{
			name: "enum ordinal",
			entities: []*schema.Entity{{Name: "E", Kind: schema.Enum,
				Fields: []*schema.Field{{Name: "ordinal", Type: str}},
			}},
			entity:  "E",
			wantErr: `name collision on field "ordinal" with enum ordinal`,
		},
		{
			name: "enum constant clash",
			entities: []*schema.Entity{{Name: "E", Kind: schema.Enum,
				Constants: []*schema.Constant{{Name: "RED"}, {Name: "red"}},
			}},
			entity:  "E",
			wantErr: `name collision on constant "ERed" with enum constant RED`,
		},
		{
			name: "enum values function",
			entities: []*schema.Entity{{Name: "E", Kind: schema.Enum,
				Constants: []*schema.Constant{{Name: "VALUES"}},
			}},
			entity:  "E",
			wantErr: `name collision on constant "EValues" with values of E`,
		},
		{
			name: "shadowed package",
			entities: []*schema.Entity{
				{Name: "P", Package: "example.com/core", Fields: []*schema.Field{{Name: "core", Type: str}}},
				{Name: "C", Package: "example.com/app", Parent: "P"},
			},
			entity:  "C",
			wantErr: `name collision on parameter "core" with package example.com/core`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := generate(t, tt.cfg, tt.entities...)
			f, ok := res.Failure(tt.entity)
			require.True(t, ok)
			assert.True(t, gen.IsNameCollision(f), f.Error())
			assert.Equal(t, gen.Building, f.Stage)
			assert.Contains(t, f.Error(), tt.wantErr)
		})
	}
}
