package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaming(t *testing.T) {
	tests := []struct {
		in, upperFirst, pascal, upperSnake string
	}{
		{"name", "Name", "Name", "NAME"},
		{"maxLevel", "MaxLevel", "MaxLevel", "MAX_LEVEL"},
		{"max_level", "Max_level", "MaxLevel", "MAX_LEVEL"},
		{"ID", "ID", "ID", "ID"},
		{"énergie", "Énergie", "Énergie", "ÉNERGIE"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.upperFirst, UpperFirst(tt.in))
			assert.Equal(t, tt.pascal, Pascal(tt.in))
			assert.Equal(t, tt.upperSnake, UpperSnake(tt.in))
		})
	}
	assert.Equal(t, "maxLevel", LowerFirst("MaxLevel"))
	assert.Equal(t, "u", Receiver("User"))
	assert.Equal(t, "x", Receiver(""))
}

func TestSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Item", "item"},
		{"ItemMaterial", "item_material"},
		{"HTTPServer", "http_server"},
		{"HttpServer", "http_server"},
		{"UserIDs", "user_ids"},
		{"PHBOrg", "phb_org"},
		{"getHTTPResponse", "get_http_response"},
		{"max_level", "max_level"},
		{"Entity07", "entity07"},
		{"AB", "ab"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Snake(tt.in))
		})
	}
}

func TestMembers(t *testing.T) {
	m := NewMembers()
	require.NoError(t, m.Claim("field", "id", `field "id" of Base`))
	require.NoError(t, m.Claim("method", "getId", `getter of field "id" in Base`))
	assert.True(t, m.Has("getId"))
	assert.False(t, m.Has("setId"))

	err := m.Claim("method", "getId", `getter of field "Id" in User`)
	require.Error(t, err)
	assert.True(t, IsNameCollision(err))
	assert.Equal(t, `lumigen: name collision on method "getId" with getter of field "id" in Base: generated member names clash`, err.Error())
}

func TestState(t *testing.T) {
	assert.True(t, Pending.CanTransition(Resolving))
	assert.True(t, Resolving.CanTransition(Building))
	assert.True(t, Building.CanTransition(Rendering))
	assert.True(t, Rendering.CanTransition(Done))
	assert.True(t, Building.CanTransition(Failed))
	assert.False(t, Pending.CanTransition(Building))
	assert.False(t, Done.CanTransition(Failed))
	assert.False(t, Failed.CanTransition(Resolving))
	assert.False(t, Rendering.CanTransition(Resolving))
	assert.True(t, Done.Terminal())
	assert.False(t, Rendering.Terminal())
	assert.Equal(t, "rendering", Rendering.String())
	assert.Equal(t, "state(42)", State(42).String())

	run := &entityRun{entity: "User"}
	assert.Panics(t, func() { run.advance(Done) })
	run.advance(Resolving)
	assert.Equal(t, Resolving, run.state)
}
