// Package spatial buckets entities by their horizontal extent so the
// simulation can ask "what is near this span" without scanning the world.
package spatial

import (
	"math"
	"slices"

	"github.com/samber/oops"

	"github.com/vovakirdan/citywalk/internal/entity"
)

// DefaultCellSize matches the width of one regular background tile.
const DefaultCellSize = 200

// membership is what the index remembers about an inserted entity so that
// removal only revisits the buckets it was placed in.
type membership struct {
	keys []int
	kind entity.Kind
}

// Index is a one-dimensional bucket grid over world x.
//
// Buckets are keyed by floor(x / cellSize). An entity with box [x, x+w)
// lives in every bucket that half-open range touches and in no other.
// Index is accessed only from the world's goroutine and holds no locks.
type Index struct {
	cellSize float64
	buckets  map[int][]entity.ID
	members  map[entity.ID]membership
}

// New returns an empty index. A non-positive cell size selects DefaultCellSize.
func New(cellSize float64) *Index {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		cellSize = DefaultCellSize
	}
	return &Index{
		cellSize: cellSize,
		buckets:  make(map[int][]entity.ID),
		members:  make(map[entity.ID]membership),
	}
}

// CellSize returns the bucket width in world units.
func (ix *Index) CellSize() float64 {
	return ix.cellSize
}

// Len returns the number of entities with a recorded membership.
func (ix *Index) Len() int {
	return len(ix.members)
}

// Contains reports whether id is currently indexed.
func (ix *Index) Contains(id entity.ID) bool {
	_, ok := ix.members[id]
	return ok
}

// span returns the first and last bucket covered by [x, x+w).
func (ix *Index) span(x, w float64) (int, int) {
	start := ix.key(x)
	if w <= 0 {
		return start, start
	}
	right := x + w
	end := ix.key(right)
	if end > start && math.Mod(right, ix.cellSize) == 0 {
		end--
	}
	return start, end
}

// Insert places e in every bucket its box spans. Inserting an entity that is
// already indexed moves it, like Update. Invalid geometry leaves the index
// unchanged.
func (ix *Index) Insert(e *entity.Entity) error {
	if err := ix.check(e); err != nil {
		return err
	}
	ix.Remove(e.ID)
	ix.insert(e)
	return nil
}

// Update re-buckets e at its current box. On invalid geometry the previous
// membership is kept.
func (ix *Index) Update(e *entity.Entity) error {
	return ix.Insert(e)
}

func (ix *Index) check(e *entity.Entity) error {
	if e == nil || e.ID == entity.None {
		return oops.In("spatial").
			Code(entity.CodeInvalidEntity).
			Errorf("cannot index an entity without an id")
	}
	if !e.Box.Valid() {
		return entity.InvalidGeometry(e)
	}
	if math.IsNaN(e.Box.X) || math.IsInf(e.Box.X, 0) || math.IsInf(e.Box.X+e.Box.W, 0) {
		return oops.In("spatial").
			Code(entity.CodeInvalidGeometry).
			With("id", uint64(e.ID), "x", e.Box.X).
			Errorf("entity %d has a non-finite position", e.ID)
	}
	return nil
}

func (ix *Index) insert(e *entity.Entity) {
	start, end := ix.span(e.Box.X, e.Box.W)
	keys := make([]int, 0, end-start+1)
	for k := start; k <= end; k++ {
		ix.buckets[k] = append(ix.buckets[k], e.ID)
		keys = append(keys, k)
	}
	ix.members[e.ID] = membership{keys: keys, kind: e.Kind}
}

// Remove drops id from every bucket it was recorded in. Removing an id that
// is not indexed is a no-op.
func (ix *Index) Remove(id entity.ID) {
	m, ok := ix.members[id]
	if !ok {
		return
	}
	for _, k := range m.keys {
		bucket := ix.buckets[k]
		for i, other := range bucket {
			if other == id {
				last := len(bucket) - 1
				bucket[i] = bucket[last]
				bucket = bucket[:last]
				break
			}
		}
		if len(bucket) == 0 {
			delete(ix.buckets, k)
		} else {
			ix.buckets[k] = bucket
		}
	}
	delete(ix.members, id)
}

// Query returns the distinct entities found in the buckets covering
// [left, right], in ascending id order. When kinds is non-empty only those
// kinds are returned. Results are candidates: bucket membership is a
// superset of true overlap.
func (ix *Index) Query(left, right float64, kinds ...entity.Kind) []entity.ID {
	if math.IsNaN(left) || math.IsNaN(right) {
		return nil
	}
	if right < left {
		left, right = right, left
	}

	start, end := ix.key(left), ix.key(right)
	seen := make(map[entity.ID]struct{})
	visit := func(bucket []entity.ID) {
		for _, id := range bucket {
			if _, dup := seen[id]; dup {
				continue
			}
			if len(kinds) > 0 && !slices.Contains(kinds, ix.members[id].kind) {
				continue
			}
			seen[id] = struct{}{}
		}
	}

	// Wide spans walk the occupied buckets instead of every key in range.
	if uint64(end-start) >= uint64(len(ix.buckets)) {
		for k, bucket := range ix.buckets {
			if k >= start && k <= end {
				visit(bucket)
			}
		}
	} else {
		for k := start; k <= end; k++ {
			visit(ix.buckets[k])
		}
	}

	ids := make([]entity.ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// key maps a world x to its bucket. Query bounds may be infinite, so
// keys saturate at the int32 range.
func (ix *Index) key(x float64) int {
	k := math.Floor(x / ix.cellSize)
	switch {
	case k <= math.MinInt32:
		return math.MinInt32
	case k >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int(k)
	}
}

// QueryAtPoint returns a copy of the bucket containing x. Like Query, the
// entities may not actually cover x.
func (ix *Index) QueryAtPoint(x float64) []entity.ID {
	if math.IsNaN(x) {
		return nil
	}
	return slices.Clone(ix.buckets[ix.key(x)])
}

// Buckets returns the bucket keys recorded for id in ascending order, or nil
// when id is not indexed.
func (ix *Index) Buckets(id entity.ID) []int {
	m, ok := ix.members[id]
	if !ok {
		return nil
	}
	return slices.Clone(m.keys)
}

// Clear drops every bucket and membership record.
func (ix *Index) Clear() {
	clear(ix.buckets)
	clear(ix.members)
}
