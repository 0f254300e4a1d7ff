package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/entity"
)

func player(x float64) entity.Entity {
	p := entity.NewPlayer(core.NewRect(x, 300, 60, 100), 5)
	p.ID = 1
	return p
}

func item(id entity.ID, x float64) entity.Entity {
	e := entity.NewItem(core.NewRect(x, 380, 40, 40), entity.ItemGem)
	e.ID = id
	return e
}

func phases(events []Event) []Phase {
	if len(events) == 0 {
		return nil
	}
	out := make([]Phase, len(events))
	for i, ev := range events {
		out[i] = ev.Phase
	}
	return out
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     core.Rect
		expected bool
	}{
		{"overlap", core.NewRect(0, 0, 10, 10), core.NewRect(5, 5, 10, 10), true},
		{"touching edges", core.NewRect(0, 0, 10, 10), core.NewRect(10, 0, 10, 10), false},
		{"zero width", core.NewRect(0, 0, 10, 10), core.NewRect(5, 5, 0, 10), false},
		{"zero height", core.NewRect(0, 0, 10, 10), core.NewRect(5, 5, 10, 0), false},
		{"vertical miss", core.NewRect(0, 0, 10, 10), core.NewRect(0, 20, 10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.a, tt.b))
		})
	}
}

func TestTransitionExactlyOnce(t *testing.T) {
	e := NewEngine()
	target := item(2, 100)

	frames := []struct {
		playerX  float64
		expected []Phase
	}{
		{0, nil},
		{50, []Phase{PhaseStart}},
		{60, []Phase{PhaseStay}},
		{70, []Phase{PhaseStay}},
		{300, []Phase{PhaseEnd}},
		{300, nil},
	}

	for i, f := range frames {
		got := e.Detect(player(f.playerX), []entity.Entity{target})
		assert.Equal(t, f.expected, phases(got), "frame %d", i)
		for _, ev := range got {
			assert.Equal(t, entity.KindItem, ev.TargetKind)
			assert.Equal(t, PairKey{Player: 1, Other: 2}, ev.Pair)
		}
	}
	assert.Zero(t, e.Active())
}

func TestDetectSkipsPlayerAndBackgrounds(t *testing.T) {
	e := NewEngine()
	p := player(0)
	bg := entity.NewBackground(core.NewRect(0, 0, 200, 500), 0, false)
	bg.ID = 9

	events := e.Detect(p, []entity.Entity{p, bg})
	assert.Empty(t, events)
	assert.Zero(t, e.Active())
}

func TestDetectIgnoresDuplicateCandidates(t *testing.T) {
	e := NewEngine()
	target := item(2, 10)

	events := e.Detect(player(0), []entity.Entity{target, target})
	assert.Equal(t, []Phase{PhaseStart}, phases(events))
}

func TestStartStayBeforeEnd(t *testing.T) {
	e := NewEngine()
	a := item(2, 10)
	b := item(3, 200)

	e.Detect(player(0), []entity.Entity{a, b})
	require.True(t, e.IsActive(PairKey{1, 2}))

	// Player jumps from a to b: b starts, a ends, starts first.
	events := e.Detect(player(190), []entity.Entity{a, b})
	require.Len(t, events, 2)
	assert.Equal(t, PhaseStart, events[0].Phase)
	assert.Equal(t, entity.ID(3), events[0].Target.ID)
	assert.Equal(t, PhaseEnd, events[1].Phase)
	assert.Equal(t, entity.ID(2), events[1].Target.ID)
}

func TestEndCarriesLastSnapshotOfRemovedTarget(t *testing.T) {
	e := NewEngine()
	e.Detect(player(0), []entity.Entity{item(2, 10)})

	// The item was collected and no longer appears among candidates.
	events := e.Detect(player(0), nil)
	require.Len(t, events, 1)
	assert.Equal(t, PhaseEnd, events[0].Phase)
	assert.Equal(t, entity.ID(2), events[0].Target.ID)
	assert.Equal(t, entity.KindItem, events[0].TargetKind)
	assert.InDelta(t, 10, events[0].Target.Box.X, 1e-9)
}

func TestEndEventsSortedByPair(t *testing.T) {
	e := NewEngine()
	cands := []entity.Entity{item(5, 10), item(3, 20), item(4, 0)}
	e.Detect(player(0), cands)
	assert.Equal(t, []PairKey{{1, 3}, {1, 4}, {1, 5}}, e.ActivePairs())

	events := e.Detect(player(5000), cands)
	require.Len(t, events, 3)
	for i, id := range []entity.ID{3, 4, 5} {
		assert.Equal(t, id, events[i].Target.ID)
	}
}

func TestEventSnapshotsAreIsolated(t *testing.T) {
	e := NewEngine()
	enemy := entity.NewEnemy(core.NewRect(10, 320, 50, 80), 2)
	enemy.ID = 7

	events := e.Detect(player(0), []entity.Entity{enemy})
	require.Len(t, events, 1)
	events[0].Target.SetVelocity(-9)
	events[0].Target.Box.X = 999

	events = e.Detect(player(0), []entity.Entity{enemy})
	require.Len(t, events, 1)
	assert.InDelta(t, 2, events[0].Target.Velocity(), 1e-9)
	assert.InDelta(t, 10, events[0].Target.Box.X, 1e-9)
}

func TestResetDropsActiveWithoutEvents(t *testing.T) {
	e := NewEngine()
	e.Detect(player(0), []entity.Entity{item(2, 10)})
	e.Reset()

	assert.Zero(t, e.Active())
	assert.Empty(t, e.Detect(player(1000), nil))
}

func TestCount(t *testing.T) {
	events := []Event{{Phase: PhaseStart}, {Phase: PhaseStay}, {Phase: PhaseStay}}
	assert.Equal(t, 2, Count(events, PhaseStay))
	assert.Equal(t, 0, Count(events, PhaseEnd))
	assert.Equal(t, "stay", PhaseStay.String())
}
