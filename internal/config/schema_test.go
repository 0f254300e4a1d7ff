package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"world", "player", "camera", "buildings", "npcs", "items", "enemies", "dialogs"} {
		assert.Contains(t, props, key)
	}
}

func TestValidateYAMLAcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateYAML(DefaultYAML()))
}

func TestValidateYAML(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not yaml", "world: [unterminated"},
		{"unknown key", "wrold:\n  tiles: 3\n"},
		{"wrong type", "world:\n  tiles: many\n"},
		{"below minimum", "items:\n  count: -2\n"},
		{"option without text", "dialogs:\n  npc:\n    greeting:\n      jp: x\n      en: x\n      options:\n        - {id: a}\n"},
		{"semantic failure", "buildings:\n  - {x: 0, y: 0, width: 10, height: 10, subtype: shop, name: x, dialog: temple}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateYAML([]byte(tt.data)))
		})
	}
}

func TestValidateYAMLPartialFile(t *testing.T) {
	assert.NoError(t, ValidateYAML([]byte("player:\n  speed: 7\n")))
}
