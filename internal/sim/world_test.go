package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/entity"
)

// emptyCity is a 10,000 unit wide world with only a player at x=0.
func emptyCity() config.CityConfig {
	cfg := config.DefaultCityConfig()
	cfg.World = config.WorldConfig{Tiles: 50, TileWidth: 200, Height: 500, CellSize: 200}
	cfg.Player = config.PlayerConfig{X: 0, Y: 300, Width: 1, Height: 100, Speed: 5}
	cfg.Buildings = nil
	cfg.NPCs.Count = 0
	cfg.Items.Count = 0
	cfg.Enemies.Count = 0
	return cfg
}

func newWorld(t *testing.T, cfg config.CityConfig, opts ...Option) *World {
	t.Helper()
	w, err := New(cfg, opts...)
	require.NoError(t, err)
	return w
}

func spawn(t *testing.T, w *World, e entity.Entity) entity.ID {
	t.Helper()
	id, err := w.Spawn(e)
	require.NoError(t, err)
	return id
}

func eventsFor(events []collision.Event, id entity.ID) []collision.Phase {
	var out []collision.Phase
	for _, ev := range events {
		if ev.Target.ID == id {
			out = append(out, ev.Phase)
		}
	}
	return out
}

func TestNewBuildsDefaultCity(t *testing.T) {
	w := newWorld(t, config.DefaultCityConfig())

	assert.InDelta(t, 42000, w.WorldWidth(), 1e-9)
	assert.Equal(t, 200, w.Count(entity.KindBackground))
	assert.Equal(t, 7, w.Count(entity.KindBuilding))
	assert.Equal(t, 12, w.Count(entity.KindNPC))
	assert.Equal(t, 25, w.Count(entity.KindItem))
	assert.Equal(t, 7, w.Count(entity.KindEnemy))
	assert.Equal(t, 1, w.Count(entity.KindPlayer))

	p := w.Player()
	assert.InDelta(t, 400, p.Box.X, 1e-9)
	assert.InDelta(t, 5, p.Payload.(*entity.PlayerData).Speed, 1e-9)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := emptyCity()
	cfg.World.CellSize = -1
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestItemsAlternateCoinsAndGems(t *testing.T) {
	w := newWorld(t, config.DefaultCityConfig())

	var subtypes []entity.ItemSubtype
	w.Each(func(e entity.Entity) bool {
		subtypes = append(subtypes, e.Payload.(*entity.ItemData).Subtype)
		return len(subtypes) < 4
	}, entity.KindItem)

	assert.Equal(t, []entity.ItemSubtype{entity.ItemCoin, entity.ItemGem, entity.ItemGem, entity.ItemCoin}, subtypes)
}

func TestSeedDeterminesPatrols(t *testing.T) {
	velocities := func(seed int64) []float64 {
		w := newWorld(t, config.DefaultCityConfig(), WithSeed(seed))
		var out []float64
		w.Each(func(e entity.Entity) bool {
			out = append(out, e.Velocity())
			return true
		}, entity.KindEnemy, entity.KindNPC)
		return out
	}

	a, b := velocities(42), velocities(42)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, velocities(43))
	for _, v := range a {
		assert.Less(t, v, 1.0)
		assert.GreaterOrEqual(t, v, -1.0)
	}
}

func TestFixedPatrolSpeed(t *testing.T) {
	cfg := emptyCity()
	cfg.Enemies = config.MoverGroup{Count: 3, StartX: 1000, Spacing: 500, Y: 320, Width: 50, Height: 80, Speed: 1.5}
	w := newWorld(t, cfg)

	w.Each(func(e entity.Entity) bool {
		assert.InDelta(t, 1.5, e.Velocity(), 1e-9)
		return true
	}, entity.KindEnemy)
}

func TestCollectItemScenario(t *testing.T) {
	w := newWorld(t, emptyCity())
	item := spawn(t, w, entity.NewItem(core.NewRect(50, 380, 40, 40), entity.ItemGem))

	w.MovePlayer(1)
	for tick := 1; tick < 10; tick++ {
		f := w.Step(time.Second / 60)
		assert.Empty(t, eventsFor(f.Events, item), "tick %d", tick)
	}

	f := w.Step(time.Second / 60)
	assert.Equal(t, uint64(10), f.Tick)
	assert.InDelta(t, 50, w.Player().Box.X, 1e-9)
	require.Equal(t, []collision.Phase{collision.PhaseStart}, eventsFor(f.Events, item))
	assert.Equal(t, entity.KindItem, f.Events[0].TargetKind)

	assert.True(t, w.CollectItem(item))
	assert.False(t, w.CollectItem(item), "second collect is a no-op")
	assert.Empty(t, w.Query(0, 100, entity.KindItem))
	assert.Empty(t, w.Candidates(0, 100, entity.KindItem))
	_, ok := w.Entity(item)
	assert.False(t, ok)

	f = w.Step(time.Second / 60)
	assert.Equal(t, []collision.Phase{collision.PhaseEnd}, eventsFor(f.Events, item))
	assert.False(t, w.CollectItem(item))
}

func TestCollectItemRejectsOtherKinds(t *testing.T) {
	w := newWorld(t, emptyCity())
	enemy := spawn(t, w, entity.NewEnemy(core.NewRect(500, 320, 50, 80), 0))

	assert.False(t, w.CollectItem(enemy))
	assert.False(t, w.CollectItem(9999))
	assert.Equal(t, 1, w.Count(entity.KindEnemy))
}

func TestEnemyReflectsWithoutClamp(t *testing.T) {
	w := newWorld(t, emptyCity())
	enemy := spawn(t, w, entity.NewEnemy(core.NewRect(9990, 320, 50, 80), 2))

	w.Step(0)
	e, ok := w.Entity(enemy)
	require.True(t, ok)
	assert.InDelta(t, -2, e.Velocity(), 1e-9)
	assert.InDelta(t, 9992, e.Box.X, 1e-9, "position is not clamped")

	// Still outside after stepping back, so it reverses again.
	w.Step(0)
	e, _ = w.Entity(enemy)
	assert.InDelta(t, 9990, e.Box.X, 1e-9)
	assert.InDelta(t, 2, e.Velocity(), 1e-9)

	w.Step(0)
	e, _ = w.Entity(enemy)
	assert.InDelta(t, 9992, e.Box.X, 1e-9)
	assert.InDelta(t, -2, e.Velocity(), 1e-9)
}

func TestPatrolInsideBoundsKeepsVelocity(t *testing.T) {
	w := newWorld(t, emptyCity())
	enemy := spawn(t, w, entity.NewEnemy(core.NewRect(9900, 320, 50, 80), 2))

	w.Step(0)
	e, _ := w.Entity(enemy)
	assert.InDelta(t, 9902, e.Box.X, 1e-9)
	assert.InDelta(t, 2, e.Velocity(), 1e-9)
}

func TestPatrolReflectsAtLeftEdge(t *testing.T) {
	w := newWorld(t, emptyCity())
	npc := spawn(t, w, entity.NewNPC(core.NewRect(0.5, 320, 50, 90), -1, "", "npc"))

	w.Step(0)
	e, _ := w.Entity(npc)
	assert.InDelta(t, -0.5, e.Box.X, 1e-9)
	assert.InDelta(t, 1, e.Velocity(), 1e-9)
}

func TestPatrolUpdatesIndex(t *testing.T) {
	w := newWorld(t, emptyCity())
	enemy := spawn(t, w, entity.NewEnemy(core.NewRect(195, 320, 10, 80), 10))

	w.Step(0)
	assert.NotContains(t, w.Candidates(0, 199), enemy)
	assert.Contains(t, w.Candidates(200, 399), enemy)
}

func TestPlayerClampedToWorld(t *testing.T) {
	w := newWorld(t, emptyCity())

	w.MovePlayer(-1)
	w.Step(0)
	assert.InDelta(t, 0, w.Player().Box.X, 1e-9)

	w.MovePlayer(1)
	for range 3000 {
		w.Step(0)
	}
	assert.InDelta(t, w.WorldWidth()-1, w.Player().Box.X, 1e-9)

	w.StopPlayer()
	w.Step(0)
	assert.InDelta(t, w.WorldWidth()-1, w.Player().Box.X, 1e-9)
}

func TestStepIgnoresDeltaTime(t *testing.T) {
	w := newWorld(t, emptyCity())
	w.MovePlayer(3)

	f := w.Step(time.Hour)
	assert.Equal(t, time.Hour, f.Elapsed)
	assert.InDelta(t, 5, w.Player().Box.X, 1e-9)
}

func TestCameraFollowsAndClamps(t *testing.T) {
	cfg := emptyCity()
	cfg.Player.X = 5000
	cfg.Player.Width = 60
	w := newWorld(t, cfg, WithViewport(800, 600))

	// Built worlds start with the camera on target.
	assert.InDelta(t, 5000-400+30, w.Camera().X, 1e-9)

	w.SetViewport(20000, 600)
	assert.InDelta(t, 0, w.Camera().TargetX, 1e-9, "viewport wider than world pins camera")
	assert.InDelta(t, 0, w.Camera().X, 1e-9)

	w.SetViewport(800, 600)
	before := w.Camera().X
	w.Step(0)
	cam := w.Camera()
	assert.InDelta(t, 4630, cam.TargetX, 1e-9)
	assert.InDelta(t, before+(4630-before)*0.1, cam.X, 1e-9)
}

func TestCameraTargetAtWorldEnd(t *testing.T) {
	cfg := emptyCity()
	cfg.Player.X = 9999
	w := newWorld(t, cfg, WithViewport(800, 600))
	assert.InDelta(t, 10000-800, w.Camera().TargetX, 1e-9)
}

func TestWalkingPastEntityEmitsEachPhaseOnce(t *testing.T) {
	w := newWorld(t, emptyCity())
	npc := spawn(t, w, entity.NewNPC(core.NewRect(100, 320, 50, 90), 0, "Aoi", "npc"))

	w.MovePlayer(1)
	var phases []collision.Phase
	for range 60 {
		phases = append(phases, eventsFor(w.Step(0).Events, npc)...)
	}

	require.NotEmpty(t, phases)
	assert.Equal(t, collision.PhaseStart, phases[0])
	assert.Equal(t, collision.PhaseEnd, phases[len(phases)-1])
	assert.Equal(t, 1, countPhase(phases, collision.PhaseStart))
	assert.Equal(t, 1, countPhase(phases, collision.PhaseEnd))
	assert.Equal(t, len(phases)-2, countPhase(phases, collision.PhaseStay))
	assert.Positive(t, countPhase(phases, collision.PhaseStay))
}

func countPhase(phases []collision.Phase, p collision.Phase) int {
	n := 0
	for _, got := range phases {
		if got == p {
			n++
		}
	}
	return n
}

func TestBackgroundsNeverCollide(t *testing.T) {
	w := newWorld(t, emptyCity())
	f := w.Step(0)
	assert.Empty(t, f.Events)
	assert.Zero(t, w.ActiveCollisions())
	assert.Empty(t, w.Candidates(0, 10000, entity.KindBackground))
}

func TestBackgrounds(t *testing.T) {
	w := newWorld(t, config.DefaultCityConfig())

	tiles := w.Backgrounds(0, 250)
	require.Len(t, tiles, 1)
	assert.InDelta(t, 300, tiles[0].Box.W, 1e-9, "tile 0 is wide")

	tiles = w.Backgrounds(0, 300)
	require.Len(t, tiles, 2)
	assert.InDelta(t, 300, tiles[1].Box.X, 1e-9)

	assert.Len(t, w.Backgrounds(-1e9, 1e9), 200)
}

func TestQueryIsExactCandidatesAreNot(t *testing.T) {
	w := newWorld(t, emptyCity())
	item := spawn(t, w, entity.NewItem(core.NewRect(150, 380, 10, 40), entity.ItemCoin))

	assert.Contains(t, w.Candidates(170, 190), item)
	assert.Empty(t, w.Query(170, 190, entity.KindItem))
	got := w.Query(155, 190, entity.KindItem)
	require.Len(t, got, 1)
	assert.Equal(t, item, got[0].ID)
}

func TestSpawnRejectsInvalidGeometry(t *testing.T) {
	w := newWorld(t, emptyCity())
	before := w.Count()

	_, err := w.Spawn(entity.NewItem(core.NewRect(10, 10, -1, 5), entity.ItemGem))
	require.Error(t, err)
	assert.True(t, entity.IsInvalidGeometry(err))
	assert.Equal(t, before, w.Count())
}

func TestEventSnapshotsDoNotAliasWorld(t *testing.T) {
	w := newWorld(t, emptyCity())
	enemy := spawn(t, w, entity.NewEnemy(core.NewRect(0, 320, 50, 80), 0))

	f := w.Step(0)
	require.Len(t, f.Events, 1)
	f.Events[0].Target.Box.X = 7000

	e, _ := w.Entity(enemy)
	assert.InDelta(t, 0, e.Box.X, 1e-9)
}

func TestResetRestoresWorld(t *testing.T) {
	cfg := emptyCity()
	cfg.Items = config.ItemGroup{Count: 3, StartX: 0, Spacing: 100, Y: 380, Width: 40, Height: 40, CoinEvery: 3}
	w := newWorld(t, cfg)

	w.MovePlayer(1)
	f := w.Step(0)
	for _, ev := range f.Events {
		if ev.TargetKind == entity.KindItem {
			w.CollectItem(ev.Target.ID)
		}
	}
	require.Less(t, w.Count(entity.KindItem), 3)

	require.NoError(t, w.Reset())
	assert.Equal(t, 3, w.Count(entity.KindItem))
	assert.Zero(t, w.Tick())
	assert.Zero(t, w.ActiveCollisions())
	assert.InDelta(t, 0, w.Player().Box.X, 1e-9)
	p := w.Player()
	assert.Zero(t, p.Velocity())
}

type countingRecorder struct {
	events   int
	collects int
	frames   int
}

func (r *countingRecorder) RecordEvent(collision.Event)       { r.events++ }
func (r *countingRecorder) RecordCollect(entity.ItemSubtype) { r.collects++ }
func (r *countingRecorder) RecordFrame(time.Duration, int)   { r.frames++ }

func TestRecorder(t *testing.T) {
	rec := &countingRecorder{}
	w := newWorld(t, emptyCity(), WithRecorder(rec))
	item := spawn(t, w, entity.NewItem(core.NewRect(0, 380, 40, 40), entity.ItemCoin))

	w.Step(0)
	w.CollectItem(item)
	w.Step(0)

	assert.Equal(t, 2, rec.frames)
	assert.Equal(t, 2, rec.events, "start then end")
	assert.Equal(t, 1, rec.collects)
}
