// Package config provides YAML-based world configuration for the city:
// layout, entity populations, scoring, input timing and dialog content.
package config

import (
	"github.com/vovakirdan/citywalk/internal/dialog"
)

// CityConfig contains everything needed to build a world.
type CityConfig struct {
	World     WorldConfig      `yaml:"world"`
	Player    PlayerConfig     `yaml:"player"`
	Camera    CameraConfig     `yaml:"camera"`
	Collision CollisionConfig  `yaml:"collision"`
	Buildings []BuildingConfig `yaml:"buildings"`
	NPCs      MoverGroup       `yaml:"npcs"`
	Items     ItemGroup        `yaml:"items"`
	Enemies   MoverGroup       `yaml:"enemies"`
	Scoring   ScoringConfig    `yaml:"scoring"`
	Input     InputConfig      `yaml:"input"`
	Dialogs   dialog.Book      `yaml:"dialogs"`
}

// WorldConfig defines the background strip. World width is the sum of the
// tile widths.
type WorldConfig struct {
	Tiles     int     `yaml:"tiles" jsonschema:"minimum=1"`
	TileWidth float64 `yaml:"tile_width" jsonschema:"exclusiveMinimum=0"`
	// WideWidth is the width of every WideEvery-th tile; WideEvery 0 disables them.
	WideWidth float64 `yaml:"wide_width" jsonschema:"minimum=0"`
	WideEvery int     `yaml:"wide_every" jsonschema:"minimum=0"`
	Height    float64 `yaml:"height" jsonschema:"exclusiveMinimum=0"`
	// CellSize is the spatial bucket width.
	CellSize float64 `yaml:"cell_size" jsonschema:"exclusiveMinimum=0"`
}

// PlayerConfig defines the player's spawn box and walking speed in world
// units per tick.
type PlayerConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width" jsonschema:"minimum=0"`
	Height float64 `yaml:"height" jsonschema:"minimum=0"`
	Speed  float64 `yaml:"speed" jsonschema:"minimum=0"`
}

// CameraConfig defines camera easing and the default viewport.
type CameraConfig struct {
	Smoothing      float64 `yaml:"smoothing" jsonschema:"minimum=0,maximum=1"`
	ViewportWidth  float64 `yaml:"viewport_width" jsonschema:"minimum=0"`
	ViewportHeight float64 `yaml:"viewport_height" jsonschema:"minimum=0"`
}

// CollisionConfig defines the candidate lookahead around the player.
type CollisionConfig struct {
	Buffer float64 `yaml:"buffer" jsonschema:"minimum=0"`
}

// BuildingConfig places one building. Label is an ASCII name for terminals
// that cannot draw Name.
type BuildingConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width" jsonschema:"minimum=0"`
	Height  float64 `yaml:"height" jsonschema:"minimum=0"`
	Subtype string  `yaml:"subtype"`
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label,omitempty"`
	Dialog  string  `yaml:"dialog,omitempty"`
}

// MoverGroup places a row of evenly spaced patrolling entities.
type MoverGroup struct {
	Count   int     `yaml:"count" jsonschema:"minimum=0"`
	StartX  float64 `yaml:"start_x"`
	Spacing float64 `yaml:"spacing"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width" jsonschema:"minimum=0"`
	Height  float64 `yaml:"height" jsonschema:"minimum=0"`
	// Speed fixes every member's velocity. When zero, each velocity is drawn
	// uniformly from [-MaxSpeed, MaxSpeed).
	Speed    float64 `yaml:"speed,omitempty"`
	MaxSpeed float64 `yaml:"max_speed" jsonschema:"minimum=0"`
	Dialog   string  `yaml:"dialog,omitempty"`
	// Names are cycled through by index.
	Names []string `yaml:"names,omitempty"`
}

// ItemGroup places a row of collectibles.
type ItemGroup struct {
	Count     int     `yaml:"count" jsonschema:"minimum=0"`
	StartX    float64 `yaml:"start_x"`
	Spacing   float64 `yaml:"spacing"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width" jsonschema:"minimum=0"`
	Height    float64 `yaml:"height" jsonschema:"minimum=0"`
	// Item i is a coin when i%CoinEvery == 0.
	CoinEvery int `yaml:"coin_every" jsonschema:"minimum=0"`
}

// ScoringConfig defines points per collectible.
type ScoringConfig struct {
	Gem  int `yaml:"gem" jsonschema:"minimum=0"`
	Coin int `yaml:"coin" jsonschema:"minimum=0"`
}

// InputConfig tunes terminal input. Terminals report key presses but not
// releases, so walking stops after HoldTicks without a repeat.
type InputConfig struct {
	HoldTicks int `yaml:"hold_ticks" jsonschema:"minimum=1"`
}

// TileWidthAt returns the width of background tile i.
func (w WorldConfig) TileWidthAt(i int) float64 {
	if w.WideEvery > 0 && i%w.WideEvery == 0 {
		return w.WideWidth
	}
	return w.TileWidth
}

// Width returns the total world width.
func (w WorldConfig) Width() float64 {
	total := 0.0
	for i := range w.Tiles {
		total += w.TileWidthAt(i)
	}
	return total
}

// NameAt returns the name for entity i of the group, or "".
func (g MoverGroup) NameAt(i int) string {
	if len(g.Names) == 0 {
		return ""
	}
	return g.Names[i%len(g.Names)]
}
