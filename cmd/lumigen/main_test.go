package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminiadev/lumigen/compiler/load"
)

// execute runs the command line and returns the exit code and outputs.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunLists(t *testing.T) {
	code, out, _ := execute(t, "dialects")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "go\njava\n", out)

	code, out, _ = execute(t, "features")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "equality")
	assert.Contains(t, out, "fluent")
	assert.Contains(t, out, "experimental")

	code, out, _ = execute(t, "help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Usage:")
}

func TestRunGenerate(t *testing.T) {
	target := t.TempDir()
	code, out, errOut := execute(t, "generate",
		"-config", filepath.Join("testdata", "lumigen.toml"),
		"-out", target,
	)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "generated 2 of 2 entities in ")
	assert.Contains(t, out, "2 written, 0 unchanged")

	sword, err := os.ReadFile(filepath.Join(target, "cn", "nukkit", "item", "Sword.java"))
	require.NoError(t, err)
	src := string(sword)
	assert.Contains(t, src, "Generated from items.yaml.")
	assert.Contains(t, src, "public class Sword extends Item {\n")
	assert.Contains(t, src, "public boolean equals(Object")
	assert.Contains(t, src, "public String toString()")

	code, out, _ = execute(t, "-config", filepath.Join("testdata", "lumigen.toml"), "-out", target)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "0 written, 2 unchanged")
}

func TestRunGenerateFlags(t *testing.T) {
	code, out, errOut := execute(t,
		"-config", filepath.Join("testdata", "lumigen.yaml"),
		"-package", "example.com/shop",
	)
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "example.com/shop/item.go\nexample.com/shop/sword.go\n", out, "the go dialect comes from the file")

	code, out, errOut = execute(t, "-dialect", "java", "-package", "cn.nukkit", filepath.Join("testdata", "schema"))
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "cn/nukkit/Item.java\ncn/nukkit/Sword.java\n", out)
}

func TestRunGenerateFailures(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(schema, []byte(strings.Join([]string{
		"entities:",
		"  - name: Good",
		"  - name: Bad",
		"    fields: [{name: x, type: Missing}]",
		"",
	}, "\n")), 0o644))

	code, out, errOut := execute(t, "-package", "cn.nukkit", "-out", filepath.Join(dir, "out"), schema)
	assert.Equal(t, exitFailures, code)
	assert.Contains(t, out, "generated 1 of 2 entities")
	assert.Contains(t, errOut, `entity Bad field x (resolving): unknown entity "Missing"`)
	_, err := os.Stat(filepath.Join(dir, "out", "cn", "nukkit", "Good.java"))
	assert.NoError(t, err)
}

func TestRunGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("entities: [{name: A, parent: A}]\n"), 0o644))
	unparsable := filepath.Join(dir, "unparsable.graphql")
	require.NoError(t, os.WriteFile(unparsable, []byte("type A {"), 0o644))

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no schema", nil, exitUsage, "no schema paths given"},
		{"unknown flag", []string{"-colour"}, exitUsage, "flag provided but not defined"},
		{"unknown dialect", []string{"-dialect", "cobol", invalid}, exitUsage, `unknown dialect "cobol"`},
		{"bad workers", []string{"-workers", "-1", invalid}, exitUsage, "workers must be positive"},
		{"unknown feature", []string{"-feature", "equality,magic", invalid}, exitUsage, "unknown feature"},
		{"bad config", []string{"-config", filepath.Join(dir, "missing.toml")}, exitUsage, "read config"},
		{"invariant", []string{invalid}, exitError, "schema invariant violation"},
		{"syntax", []string{unparsable}, exitError, "load: " + unparsable + ":1:"},
		{"missing file", []string{filepath.Join(dir, "nope.yaml")}, exitError, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := execute(t, tt.args...)
			assert.Equal(t, tt.code, code, errOut)
			assert.Contains(t, errOut, tt.want)
		})
	}

	code, _, _ := execute(t, "generate", "-h")
	assert.Equal(t, exitOK, code)
}

func TestRunConvert(t *testing.T) {
	items := filepath.Join("testdata", "schema", "items.yaml")
	want, err := load.LoadFile(items)
	require.NoError(t, err)

	code, out, errOut := execute(t, "convert", "-to", "graphql", items)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "type Sword implements Item")

	dir := t.TempDir()
	for _, name := range []string{"items.json", "items.graphql", "nested/items.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			code, _, errOut := execute(t, "convert", "-o", path, items)
			require.Equal(t, exitOK, code, errOut)
			got, err := load.LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, want.Names(), got.Names())
		})
	}

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no paths", []string{"-to", "json"}, exitUsage, "no schema paths given"},
		{"no format", []string{items}, exitUsage, "missing output format"},
		{"unknown format", []string{"-to", "xml", items}, exitUsage, "unknown schema format"},
		{"load error", []string{"-to", "json", filepath.Join(dir, "nope.yaml")}, exitError, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := execute(t, append([]string{"convert"}, tt.args...)...)
			assert.Equal(t, tt.code, code, errOut)
			assert.Contains(t, errOut, tt.want)
		})
	}
}
