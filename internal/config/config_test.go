package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/citywalk/internal/dialog"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	require.NoError(t, err)
	assert.Equal(t, DefaultCityConfig(), cfg)
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(DefaultCityConfig()))
}

func TestWorldWidth(t *testing.T) {
	tests := []struct {
		name     string
		world    WorldConfig
		expected float64
	}{
		{"defaults", DefaultCityConfig().World, 20*300 + 180*200},
		{"no wide tiles", WorldConfig{Tiles: 50, TileWidth: 200}, 10000},
		{"every tile wide", WorldConfig{Tiles: 3, TileWidth: 200, WideWidth: 300, WideEvery: 1}, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.world.Width(), 1e-9)
		})
	}
}

func TestLoadCityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  speed: 8\nenemies:\n  count: 2\n"), 0o644))

	cfg, err := LoadCity(path)
	require.NoError(t, err)
	assert.InDelta(t, 8, cfg.Player.Speed, 1e-9)
	assert.Equal(t, 2, cfg.Enemies.Count)
	// Untouched keys keep their defaults.
	assert.Equal(t, 25, cfg.Items.Count)
	assert.Len(t, cfg.Buildings, 7)
	assert.True(t, cfg.Dialogs.Has("school"))
}

func TestLoadCityMissingCustomPath(t *testing.T) {
	_, err := LoadCity(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCityInvalidCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  cell_size: -1\n"), 0o644))

	_, err := LoadCity(path)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidConfig, oopsErr.Code())
}

func TestLoadCityFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadCity("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCityConfig(), cfg)
}

func TestLoadCityPrefersLocalConfigs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", ConfigFile), []byte("items:\n  count: 3\n"), 0o644))

	cfg, err := LoadCity("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Items.Count)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CityConfig)
		field  string
	}{
		{"no tiles", func(c *CityConfig) { c.World.Tiles = 0 }, "world.tiles"},
		{"zero cell size", func(c *CityConfig) { c.World.CellSize = 0 }, "world.cell_size"},
		{"negative player", func(c *CityConfig) { c.Player.Width = -1 }, "player"},
		{"smoothing above one", func(c *CityConfig) { c.Camera.Smoothing = 2 }, "camera.smoothing"},
		{"negative building", func(c *CityConfig) { c.Buildings[0].Height = -4 }, "buildings"},
		{"unknown building topic", func(c *CityConfig) { c.Buildings[1].Dialog = "temple" }, "buildings.dialog"},
		{"negative enemy count", func(c *CityConfig) { c.Enemies.Count = -1 }, "enemies.count"},
		{"negative item width", func(c *CityConfig) { c.Items.Width = -40 }, "items"},
		{"hold ticks", func(c *CityConfig) { c.Input.HoldTicks = 0 }, "input.hold_ticks"},
		{"dangling dialog", func(c *CityConfig) {
			node := c.Dialogs["npc"]["greeting"]
			node.Options = append([]dialog.Option(nil), node.Options...)
			node.Options[0].Next = "nowhere"
			c.Dialogs["npc"]["greeting"] = node
		}, "dialogs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCityConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidConfig, oopsErr.Code())
			assert.Equal(t, tt.field, oopsErr.Context()["field"])
		})
	}
}

func TestApplyCityPreset(t *testing.T) {
	base := DefaultCityConfig()

	easy := DefaultCityConfig()
	ApplyCityPreset(&easy, DifficultyEasy)
	assert.Equal(t, 4, easy.Enemies.Count)
	assert.InDelta(t, base.Enemies.MaxSpeed/2, easy.Enemies.MaxSpeed, 1e-9)

	hard := DefaultCityConfig()
	ApplyCityPreset(&hard, DifficultyHard)
	assert.Equal(t, 14, hard.Enemies.Count)
	assert.InDelta(t, base.Enemies.Spacing/2, hard.Enemies.Spacing, 1e-9)

	for _, p := range []DifficultyPreset{DifficultyNormal, DifficultyFixed} {
		cfg := DefaultCityConfig()
		ApplyCityPreset(&cfg, p)
		assert.Equal(t, base.Enemies, cfg.Enemies, "preset %s", p)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in       string
		expected DifficultyPreset
		wantErr  bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParsePreset(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}
