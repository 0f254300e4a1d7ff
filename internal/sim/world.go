// Package sim runs the city: it owns the entity store, the spatial index and
// the collision engine, and advances them one tick at a time.
package sim

import (
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/oops"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/entity"
	"github.com/vovakirdan/citywalk/internal/spatial"
)

// Camera follows the player horizontally.
type Camera struct {
	X       float64
	TargetX float64
}

// Viewport is the visible area in world units.
type Viewport struct {
	W, H float64
}

// Frame is the outcome of one Step.
type Frame struct {
	Tick    uint64
	Elapsed time.Duration // dt passed to Step
	Events  []collision.Event
}

// World is a single city. All methods must be called from one goroutine;
// events returned by Step are snapshots and safe to keep.
type World struct {
	cfg      config.CityConfig
	logger   *log.Logger
	recorder Recorder
	seed     int64
	rng      *rand.Rand

	store       *entity.Store
	index       *spatial.Index
	engine      *collision.Engine
	player      entity.ID
	backgrounds []entity.ID // sorted by x

	width    float64
	camera   Camera
	viewport Viewport
	tick     uint64
}

// New validates cfg and builds a world from it.
func New(cfg config.CityConfig, opts ...Option) (*World, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	w := &World{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		recorder: nopRecorder{},
		seed:     1,
		viewport: Viewport{W: cfg.Camera.ViewportWidth, H: cfg.Camera.ViewportHeight},
		store:    entity.NewStore(),
		index:    spatial.New(cfg.World.CellSize),
		engine:   collision.NewEngine(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.build(); err != nil {
		return nil, err
	}
	return w, nil
}

// build populates an empty world from the configuration.
func (w *World) build() error {
	w.rng = rand.New(rand.NewSource(w.seed))
	w.tick = 0

	if err := w.buildBackgrounds(); err != nil {
		return err
	}

	p := w.cfg.Player
	id, err := w.Spawn(entity.NewPlayer(core.NewRect(p.X, p.Y, p.Width, p.Height), p.Speed))
	if err != nil {
		return oops.In("sim").With("entity", "player").Wrap(err)
	}
	w.player = id
	w.clampPlayer()

	for i, b := range w.cfg.Buildings {
		e := entity.NewBuilding(core.NewRect(b.X, b.Y, b.Width, b.Height), entity.BuildingData{
			Name:        b.Name,
			Label:       b.Label,
			Subtype:     b.Subtype,
			DialogTopic: b.Dialog,
		})
		if _, err := w.Spawn(e); err != nil {
			return oops.In("sim").With("entity", "building", "index", i).Wrap(err)
		}
	}

	npcs := w.cfg.NPCs
	for i := range npcs.Count {
		box := core.NewRect(npcs.StartX+float64(i)*npcs.Spacing, npcs.Y, npcs.Width, npcs.Height)
		e := entity.NewNPC(box, w.patrolSpeed(npcs), npcs.NameAt(i), npcs.Dialog)
		if _, err := w.Spawn(e); err != nil {
			return oops.In("sim").With("entity", "npc", "index", i).Wrap(err)
		}
	}

	items := w.cfg.Items
	for i := range items.Count {
		subtype := entity.ItemGem
		if items.CoinEvery > 0 && i%items.CoinEvery == 0 {
			subtype = entity.ItemCoin
		}
		box := core.NewRect(items.StartX+float64(i)*items.Spacing, items.Y, items.Width, items.Height)
		if _, err := w.Spawn(entity.NewItem(box, subtype)); err != nil {
			return oops.In("sim").With("entity", "item", "index", i).Wrap(err)
		}
	}

	enemies := w.cfg.Enemies
	for i := range enemies.Count {
		box := core.NewRect(enemies.StartX+float64(i)*enemies.Spacing, enemies.Y, enemies.Width, enemies.Height)
		e := entity.NewEnemy(box, w.patrolSpeed(enemies))
		if name := enemies.NameAt(i); name != "" {
			e.Payload.(*entity.MoverData).Name = name
		}
		if _, err := w.Spawn(e); err != nil {
			return oops.In("sim").With("entity", "enemy", "index", i).Wrap(err)
		}
	}

	w.camera.TargetX = w.cameraTarget()
	w.camera.X = w.camera.TargetX

	w.logger.Info("world built",
		"width", w.width,
		"buildings", w.store.Count(entity.KindBuilding),
		"npcs", w.store.Count(entity.KindNPC),
		"items", w.store.Count(entity.KindItem),
		"enemies", w.store.Count(entity.KindEnemy),
		"seed", w.seed,
	)
	return nil
}

func (w *World) buildBackgrounds() error {
	wc := w.cfg.World
	x := 0.0
	w.backgrounds = w.backgrounds[:0]
	for i := range wc.Tiles {
		tw := wc.TileWidthAt(i)
		special := wc.WideEvery > 0 && i%wc.WideEvery == 0
		if _, err := w.Spawn(entity.NewBackground(core.NewRect(x, 0, tw, wc.Height), i, special)); err != nil {
			return oops.In("sim").With("entity", "background", "index", i).Wrap(err)
		}
		x += tw
	}
	w.width = x
	return nil
}

// patrolSpeed returns the group's fixed speed or a random one in
// [-MaxSpeed, MaxSpeed).
func (w *World) patrolSpeed(g config.MoverGroup) float64 {
	if g.Speed != 0 {
		return g.Speed
	}
	return (w.rng.Float64() - 0.5) * 2 * g.MaxSpeed
}

// Reset rebuilds the world from its configuration with the same seed.
// Entity IDs keep increasing across resets.
func (w *World) Reset() error {
	w.store.Reset()
	w.index.Clear()
	w.engine.Reset()
	return w.build()
}

// Spawn adds e to the world and, unless it is a background, to the spatial
// index. Invalid geometry leaves the world unchanged.
func (w *World) Spawn(e entity.Entity) (entity.ID, error) {
	id, err := w.store.Add(e)
	if err != nil {
		return entity.None, err
	}

	stored, _ := w.store.Get(id)
	if stored.Kind == entity.KindBackground {
		w.insertBackground(stored)
		return id, nil
	}
	if err := w.index.Insert(stored); err != nil {
		w.store.Remove(id)
		return entity.None, err
	}
	return id, nil
}

func (w *World) insertBackground(e *entity.Entity) {
	i := sort.Search(len(w.backgrounds), func(i int) bool {
		bg, _ := w.store.Get(w.backgrounds[i])
		return bg.Box.X > e.Box.X
	})
	w.backgrounds = append(w.backgrounds, entity.None)
	copy(w.backgrounds[i+1:], w.backgrounds[i:])
	w.backgrounds[i] = e.ID
}

// Step advances the world by one tick: player, camera, patrols, collisions.
// Motion is per tick; dt is reported back in the Frame but does not scale
// movement.
func (w *World) Step(dt time.Duration) Frame {
	start := time.Now()
	w.tick++

	w.stepPlayer()
	w.stepCamera()
	w.stepPatrols()
	events := w.detect()

	for _, ev := range events {
		w.recorder.RecordEvent(ev)
		if ev.Phase == collision.PhaseStart && ev.TargetKind == entity.KindEnemy {
			w.logger.Warn("enemy contact", "tick", w.tick, "enemy", uint64(ev.Target.ID), "x", ev.Target.Box.X)
		}
	}
	w.recorder.RecordFrame(time.Since(start), w.engine.Active())

	return Frame{Tick: w.tick, Elapsed: dt, Events: events}
}

func (w *World) playerEntity() *entity.Entity {
	p, _ := w.store.Get(w.player)
	return p
}

func (w *World) stepPlayer() {
	p := w.playerEntity()
	if p.Velocity() == 0 {
		return
	}
	p.Box.X += p.Velocity()
	w.clampPlayer()
}

// clampPlayer keeps the player inside [0, width - playerWidth] and re-indexes it.
func (w *World) clampPlayer() {
	p := w.playerEntity()
	p.Box.X = core.Clamp(p.Box.X, 0, w.width-p.Box.W)
	w.reindex(p)
}

func (w *World) cameraTarget() float64 {
	p := w.playerEntity()
	target := p.Box.X - w.viewport.W/2 + p.Box.W/2
	return core.Clamp(target, 0, max(0, w.width-w.viewport.W))
}

func (w *World) stepCamera() {
	w.camera.TargetX = w.cameraTarget()
	w.camera.X += (w.camera.TargetX - w.camera.X) * w.cfg.Camera.Smoothing
}

// stepPatrols moves enemies and NPCs. A patroller that ends up outside
// [0, width - w] has its velocity reversed on every such tick. Its position
// is not clamped, so one that cannot get back inside within a tick turns
// around again.
func (w *World) stepPatrols() {
	w.store.Each(func(e *entity.Entity) bool {
		e.Box.X += e.Velocity()
		if e.Box.X < 0 || e.Box.X > w.width-e.Box.W {
			e.SetVelocity(-e.Velocity())
		}
		w.reindex(e)
		return true
	}, entity.KindEnemy, entity.KindNPC)
}

func (w *World) reindex(e *entity.Entity) {
	if err := w.index.Update(e); err != nil {
		w.logger.Error("reindex failed", "id", uint64(e.ID), "kind", e.Kind, "err", err)
	}
}

// detect gathers candidates within the collision buffer and runs the engine.
func (w *World) detect() []collision.Event {
	p := w.playerEntity()
	buf := w.cfg.Collision.Buffer
	ids := w.index.Query(p.Box.X-buf, p.Box.Right()+buf)

	candidates := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.store.Get(id); ok {
			candidates = append(candidates, *e)
		}
	}
	return w.engine.Detect(*p, candidates)
}

// MovePlayer sets the player's velocity to sign(direction) * speed.
func (w *World) MovePlayer(direction int) {
	p := w.playerEntity()
	speed := p.Payload.(*entity.PlayerData).Speed
	p.SetVelocity(core.Sign(float64(direction)) * speed)
}

// StopPlayer zeroes the player's velocity.
func (w *World) StopPlayer() {
	w.playerEntity().SetVelocity(0)
}

// CollectItem removes an item from the store and the index. It reports false,
// and does nothing, when id is not a live item.
func (w *World) CollectItem(id entity.ID) bool {
	e, ok := w.store.Get(id)
	if !ok || e.Kind != entity.KindItem {
		return false
	}
	subtype := e.Payload.(*entity.ItemData).Subtype

	w.index.Remove(id)
	w.store.Remove(id)
	w.recorder.RecordCollect(subtype)
	w.logger.Debug("item collected", "tick", w.tick, "id", uint64(id), "subtype", subtype)
	return true
}

// SetViewport updates the viewport after a host resize and re-clamps the
// camera target.
func (w *World) SetViewport(width, height float64) {
	w.viewport = Viewport{W: max(0, width), H: max(0, height)}
	w.camera.TargetX = w.cameraTarget()
	w.camera.X = core.Clamp(w.camera.X, 0, max(0, w.width-w.viewport.W))
}

// Player returns a snapshot of the player.
func (w *World) Player() entity.Entity {
	return w.playerEntity().Clone()
}

// Camera returns the camera state.
func (w *World) Camera() Camera {
	return w.camera
}

// Viewport returns the viewport in world units.
func (w *World) Viewport() Viewport {
	return w.viewport
}

// WorldWidth returns the summed width of the background tiles.
func (w *World) WorldWidth() float64 {
	return w.width
}

// Tick returns the number of completed steps since the last build.
func (w *World) Tick() uint64 {
	return w.tick
}

// Config returns the configuration the world was built from.
func (w *World) Config() config.CityConfig {
	return w.cfg
}

// Entity returns a snapshot of id.
func (w *World) Entity(id entity.ID) (entity.Entity, bool) {
	e, ok := w.store.Get(id)
	if !ok {
		return entity.Entity{}, false
	}
	return e.Clone(), true
}

// Candidates returns the raw spatial-index candidates for [left, right].
func (w *World) Candidates(left, right float64, kinds ...entity.Kind) []entity.ID {
	return w.index.Query(left, right, kinds...)
}

// Query returns snapshots of the indexed entities whose boxes actually
// overlap [left, right], in ascending id order.
func (w *World) Query(left, right float64, kinds ...entity.Kind) []entity.Entity {
	ids := w.index.Query(left, right, kinds...)
	out := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		e, ok := w.store.Get(id)
		if ok && e.Box.SpanOverlaps(min(left, right), max(left, right)) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Backgrounds returns the background tiles overlapping [left, right] in
// x order.
func (w *World) Backgrounds(left, right float64) []entity.Entity {
	start := sort.Search(len(w.backgrounds), func(i int) bool {
		bg, _ := w.store.Get(w.backgrounds[i])
		return bg.Box.Right() > left
	})
	var out []entity.Entity
	for _, id := range w.backgrounds[start:] {
		bg, _ := w.store.Get(id)
		if bg.Box.X > right {
			break
		}
		out = append(out, bg.Clone())
	}
	return out
}

// Each calls fn with a snapshot of every live entity of the given kinds in
// spawn order.
func (w *World) Each(fn func(entity.Entity) bool, kinds ...entity.Kind) {
	w.store.Each(func(e *entity.Entity) bool {
		return fn(e.Clone())
	}, kinds...)
}

// Count returns the number of live entities of the given kinds, or all.
func (w *World) Count(kinds ...entity.Kind) int {
	return w.store.Count(kinds...)
}

// ActiveCollisions returns the number of pairs currently overlapping.
func (w *World) ActiveCollisions() int {
	return w.engine.Active()
}

// IsColliding reports whether the player currently overlaps id.
func (w *World) IsColliding(id entity.ID) bool {
	return w.engine.IsActive(collision.PairKey{Player: w.player, Other: id})
}
