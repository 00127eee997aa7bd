package gen

import (
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/schema"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.Equal(t, "    ", c.IndentUnit())
	assert.Equal(t, schema.DefaultMaxNesting, c.NestingLimit())
	assert.Equal(t, runtime.GOMAXPROCS(0), c.WorkerCount())
	assert.NotNil(t, c.Log())
	assert.False(t, c.FeatureEnabled(FeatureEquality.Name))
}

func TestNilConfig(t *testing.T) {
	var c *Config
	assert.Equal(t, "    ", c.IndentUnit())
	assert.Equal(t, schema.DefaultMaxNesting, c.NestingLimit())
	assert.False(t, c.FeatureEnabled("equality"))
	assert.Equal(t, "com.example", c.PackageOf(&schema.Entity{Package: "com.example"}))
	assert.Empty(t, c.PackageOf(&schema.Entity{}))
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:  "package",
			opt:   WithPackage("cn.nukkit.item"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "cn.nukkit.item", c.Package) },
		},
		{name: "empty package", opt: WithPackage(""), wantErr: true},
		{
			name:  "header",
			opt:   WithHeader("Generated."),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "Generated.", c.Header) },
		},
		{
			name:  "tab indent",
			opt:   WithIndent("\t"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "\t", c.IndentUnit()) },
		},
		{name: "invalid indent", opt: WithIndent("--"), wantErr: true},
		{name: "empty indent", opt: WithIndent(""), wantErr: true},
		{
			name:  "workers",
			opt:   WithWorkers(3),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 3, c.WorkerCount()) },
		},
		{name: "zero workers", opt: WithWorkers(0), wantErr: true},
		{
			name:  "max nesting",
			opt:   WithMaxNesting(8),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 8, c.NestingLimit()) },
		},
		{name: "negative max nesting", opt: WithMaxNesting(-1), wantErr: true},
		{
			name:  "features",
			opt:   WithFeatures(FeatureToString),
			check: func(t *testing.T, c *Config) { assert.True(t, c.FeatureEnabled("tostring")) },
		},
		{
			name:  "feature names",
			opt:   WithFeatureNames("equality", "fluent"),
			check: func(t *testing.T, c *Config) { assert.True(t, c.FeatureEnabled("equality")) },
		},
		{name: "unknown feature name", opt: WithFeatureNames("equality", "magic"), wantErr: true},
		{
			name: "nullable annotation",
			opt:  WithNullableAnnotation("javax.annotation.Nullable"),
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "javax.annotation.Nullable", c.NullableAnnotation)
			},
		},
		{name: "unqualified nullable annotation", opt: WithNullableAnnotation("Nullable"), wantErr: true},
		{
			name:  "logger",
			opt:   WithLogger(slog.Default()),
			check: func(t *testing.T, c *Config) { assert.Same(t, slog.Default(), c.Log()) },
		},
		{name: "nil logger", opt: WithLogger(nil), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := tt.opt(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("Apply stops at the first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithWorkers(0), WithPackage("a.b"))
		require.Error(t, err)
		assert.Empty(t, c.Package)
	})

	t.Run("ApplyAll collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithWorkers(0), WithPackage("a.b"), WithMaxNesting(0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "MaxNesting")
		assert.Equal(t, "a.b", c.Package)
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithPackage("")) })
		assert.NotPanics(t, func() { MustNewConfig(WithPackage("a")) })
	})
}

func TestFeatureByName(t *testing.T) {
	for _, f := range AllFeatures {
		got, ok := FeatureByName(f.Name)
		require.True(t, ok, f.Name)
		assert.Equal(t, f.Description, got.Description)
	}
	_, ok := FeatureByName("privacy")
	assert.False(t, ok)
	assert.Equal(t, "stable", FeatureEquality.Stage.String())
	assert.Equal(t, "unknown", FeatureStage(0).String())
}
