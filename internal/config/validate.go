package config

import (
	"math"

	"github.com/samber/oops"
)

// CodeInvalidConfig is the oops code carried by configuration errors.
const CodeInvalidConfig = "invalid_config"

func invalid(field string) oops.OopsErrorBuilder {
	return oops.In("config").Code(CodeInvalidConfig).With("field", field)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate performs the semantic checks a schema cannot express: geometry,
// populations and dialog references.
func Validate(cfg CityConfig) error {
	w := cfg.World
	if w.Tiles < 1 {
		return invalid("world.tiles").Errorf("world needs at least one tile, got %d", w.Tiles)
	}
	if !(w.TileWidth > 0) || !finite(w.TileWidth) {
		return invalid("world.tile_width").Errorf("tile width must be positive, got %v", w.TileWidth)
	}
	if w.WideEvery > 0 && (!(w.WideWidth > 0) || !finite(w.WideWidth)) {
		return invalid("world.wide_width").Errorf("wide tile width must be positive, got %v", w.WideWidth)
	}
	if w.WideEvery < 0 {
		return invalid("world.wide_every").Errorf("wide_every must not be negative, got %d", w.WideEvery)
	}
	if !(w.CellSize > 0) || !finite(w.CellSize) {
		return invalid("world.cell_size").Errorf("cell size must be positive, got %v", w.CellSize)
	}

	p := cfg.Player
	if err := checkBox("player", p.X, p.Y, p.Width, p.Height); err != nil {
		return err
	}
	if p.Speed < 0 || !finite(p.Speed) {
		return invalid("player.speed").Errorf("player speed must not be negative, got %v", p.Speed)
	}
	if p.Width > w.Width() {
		return invalid("player.width").Errorf("player is wider (%v) than the world (%v)", p.Width, w.Width())
	}

	c := cfg.Camera
	if c.Smoothing < 0 || c.Smoothing > 1 || !finite(c.Smoothing) {
		return invalid("camera.smoothing").Errorf("smoothing must be within [0, 1], got %v", c.Smoothing)
	}
	if c.ViewportWidth < 0 || c.ViewportHeight < 0 {
		return invalid("camera.viewport").Errorf("viewport must not be negative, got %vx%v", c.ViewportWidth, c.ViewportHeight)
	}
	if cfg.Collision.Buffer < 0 || !finite(cfg.Collision.Buffer) {
		return invalid("collision.buffer").Errorf("collision buffer must not be negative, got %v", cfg.Collision.Buffer)
	}

	for i, b := range cfg.Buildings {
		if err := checkBox("buildings", b.X, b.Y, b.Width, b.Height); err != nil {
			return oops.With("index", i).Wrap(err)
		}
		if err := checkTopic(cfg, "buildings.dialog", b.Dialog); err != nil {
			return oops.With("index", i).Wrap(err)
		}
	}

	for _, g := range []struct {
		name  string
		group MoverGroup
	}{{"npcs", cfg.NPCs}, {"enemies", cfg.Enemies}} {
		if err := checkGroup(g.name, g.group.Count, g.group.StartX, g.group.Spacing, g.group.Y, g.group.Width, g.group.Height); err != nil {
			return err
		}
		if g.group.MaxSpeed < 0 || !finite(g.group.MaxSpeed) || !finite(g.group.Speed) {
			return invalid(g.name+".max_speed").Errorf("%s speeds must be finite and max_speed non-negative", g.name)
		}
	}
	if cfg.NPCs.Count > 0 {
		if err := checkTopic(cfg, "npcs.dialog", cfg.NPCs.Dialog); err != nil {
			return err
		}
	}

	it := cfg.Items
	if err := checkGroup("items", it.Count, it.StartX, it.Spacing, it.Y, it.Width, it.Height); err != nil {
		return err
	}
	if it.CoinEvery < 0 {
		return invalid("items.coin_every").Errorf("coin_every must not be negative, got %d", it.CoinEvery)
	}

	if cfg.Scoring.Gem < 0 || cfg.Scoring.Coin < 0 {
		return invalid("scoring").Errorf("scores must not be negative")
	}
	if cfg.Input.HoldTicks < 1 {
		return invalid("input.hold_ticks").Errorf("hold_ticks must be at least 1, got %d", cfg.Input.HoldTicks)
	}

	if err := cfg.Dialogs.Validate(); err != nil {
		return invalid("dialogs").Wrap(err)
	}
	return nil
}

func checkBox(field string, x, y, w, h float64) error {
	if !finite(x) || !finite(y) {
		return invalid(field).Errorf("%s position must be finite", field)
	}
	if w < 0 || h < 0 || !finite(w) || !finite(h) {
		return invalid(field).Errorf("%s size must not be negative, got %vx%v", field, w, h)
	}
	return nil
}

func checkGroup(field string, count int, startX, spacing, y, w, h float64) error {
	if count < 0 {
		return invalid(field + ".count").Errorf("%s count must not be negative, got %d", field, count)
	}
	if !finite(spacing) {
		return invalid(field + ".spacing").Errorf("%s spacing must be finite", field)
	}
	return checkBox(field, startX, y, w, h)
}

// checkTopic allows an empty topic, which falls back to the default dialog.
func checkTopic(cfg CityConfig, field, topic string) error {
	if topic == "" || cfg.Dialogs.Has(topic) {
		return nil
	}
	return invalid(field).With("topic", topic).Errorf("unknown dialog topic %q", topic)
}
