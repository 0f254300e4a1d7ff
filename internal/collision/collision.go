// Package collision tracks player overlaps across frames and turns them into
// start, stay and end events, each transition reported exactly once.
package collision

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/entity"
)

// DefaultBuffer is the lookahead margin, in world units, added to both sides
// of the player when gathering candidates. It must exceed the widest entity.
const DefaultBuffer = 300

// Phase is the lifecycle stage of a collision.
type Phase uint8

const (
	PhaseStart Phase = iota + 1
	PhaseStay
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseStay:
		return "stay"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// PairKey identifies one player/entity relationship.
type PairKey struct {
	Player entity.ID
	Other  entity.ID
}

func comparePairs(a, b PairKey) int {
	if c := cmp.Compare(a.Player, b.Player); c != 0 {
		return c
	}
	return cmp.Compare(a.Other, b.Other)
}

// Event is a collision transition. Player and Target are snapshots taken when
// the event was produced; mutating them has no effect on the world.
type Event struct {
	Phase      Phase
	Pair       PairKey
	Player     entity.Entity
	Target     entity.Entity
	TargetKind entity.Kind
}

// Overlaps is the exact AABB test. A box with zero width or height never
// overlaps anything.
func Overlaps(a, b core.Rect) bool {
	return a.Intersects(b)
}

// Engine holds the active collision set between frames. It is not safe for
// concurrent use.
type Engine struct {
	// active maps each overlapping pair to the last snapshot of its target, so
	// an end event can still describe an entity that has since been removed.
	active map[PairKey]entity.Entity
}

// NewEngine returns an engine with no active collisions.
func NewEngine() *Engine {
	return &Engine{active: make(map[PairKey]entity.Entity)}
}

// Detect runs one frame of collision detection for player against
// candidates. Candidates are typically the result of a spatial query and may
// include the player itself, non-colliding kinds, and entities that do not
// actually overlap; all of those are filtered here.
//
// Start and stay events come first, in candidate order. End events follow,
// ordered by pair key, and are derived from the set as it was before this
// frame.
func (e *Engine) Detect(player entity.Entity, candidates []entity.Entity) []Event {
	previous := make(map[PairKey]struct{}, len(e.active))
	for key := range e.active {
		previous[key] = struct{}{}
	}

	var events []Event
	current := make(map[PairKey]struct{})

	for i := range candidates {
		target := &candidates[i]
		if target.ID == player.ID || !target.Kind.Collides() {
			continue
		}
		if !Overlaps(player.Box, target.Box) {
			continue
		}

		key := PairKey{Player: player.ID, Other: target.ID}
		if _, dup := current[key]; dup {
			continue
		}
		current[key] = struct{}{}

		phase := PhaseStay
		if _, ok := previous[key]; !ok {
			phase = PhaseStart
		}
		snapshot := target.Clone()
		e.active[key] = snapshot
		events = append(events, Event{
			Phase:      phase,
			Pair:       key,
			Player:     player.Clone(),
			Target:     snapshot.Clone(),
			TargetKind: target.Kind,
		})
	}

	var ended []PairKey
	for key := range previous {
		if _, ok := current[key]; !ok {
			ended = append(ended, key)
		}
	}
	slices.SortFunc(ended, comparePairs)

	for _, key := range ended {
		target := e.active[key]
		events = append(events, Event{
			Phase:      PhaseEnd,
			Pair:       key,
			Player:     player.Clone(),
			Target:     target,
			TargetKind: target.Kind,
		})
		delete(e.active, key)
	}

	return events
}

// Active returns the number of pairs currently overlapping.
func (e *Engine) Active() int {
	return len(e.active)
}

// IsActive reports whether key is in the active set.
func (e *Engine) IsActive(key PairKey) bool {
	_, ok := e.active[key]
	return ok
}

// ActivePairs returns the active set in pair-key order.
func (e *Engine) ActivePairs() []PairKey {
	keys := make([]PairKey, 0, len(e.active))
	for key := range e.active {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, comparePairs)
	return keys
}

// Reset forgets every active pair without emitting end events.
func (e *Engine) Reset() {
	clear(e.active)
}

// Count tallies events by phase.
func Count(events []Event, phase Phase) int {
	n := 0
	for i := range events {
		if events[i].Phase == phase {
			n++
		}
	}
	return n
}
