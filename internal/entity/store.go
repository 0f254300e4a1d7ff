package entity

import (
	"slices"
)

// Store owns every entity of a world. IDs are assigned monotonically from 1
// and never reused, so a removed entity's ID stays dead for the life of the
// store, including across Reset.
//
// Store is not safe for concurrent use; a world mutates it from a single
// goroutine.
type Store struct {
	nextID   ID
	entities map[ID]*Entity
	order    []ID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID:   1,
		entities: make(map[ID]*Entity),
	}
}

// Add validates e, assigns it a fresh ID and takes ownership of it.
// Any ID already set on e is ignored.
func (s *Store) Add(e Entity) (ID, error) {
	if err := e.Validate(); err != nil {
		return None, err
	}

	e.ID = s.nextID
	s.nextID++

	stored := e.Clone()
	s.entities[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	return stored.ID, nil
}

// Get returns the live entity for id. The pointer stays valid until the
// entity is removed; callers outside the world should Clone it.
func (s *Store) Get(id ID) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Has reports whether id is live.
func (s *Store) Has(id ID) bool {
	_, ok := s.entities[id]
	return ok
}

// Remove deletes id and reports whether it was present.
func (s *Store) Remove(id ID) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// Each calls fn for every live entity in insertion order, optionally
// restricted to kinds. Iteration stops when fn returns false.
func (s *Store) Each(fn func(*Entity) bool, kinds ...Kind) {
	for _, id := range s.order {
		e := s.entities[id]
		if len(kinds) > 0 && !slices.Contains(kinds, e.Kind) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// IDs returns the live IDs in insertion order, optionally restricted to kinds.
func (s *Store) IDs(kinds ...Kind) []ID {
	ids := make([]ID, 0, len(s.order))
	s.Each(func(e *Entity) bool {
		ids = append(ids, e.ID)
		return true
	}, kinds...)
	return ids
}

// Count returns how many live entities have one of kinds, or all of them
// when kinds is empty.
func (s *Store) Count(kinds ...Kind) int {
	if len(kinds) == 0 {
		return len(s.entities)
	}
	n := 0
	s.Each(func(*Entity) bool {
		n++
		return true
	}, kinds...)
	return n
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// Reset removes every entity. The ID counter keeps running.
func (s *Store) Reset() {
	clear(s.entities)
	s.order = s.order[:0]
}
