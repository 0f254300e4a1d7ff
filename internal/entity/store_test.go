package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/citywalk/internal/core"
)

func item(x float64) Entity {
	return NewItem(core.NewRect(x, 0, 40, 40), ItemCoin)
}

func TestStoreAddAssignsIncreasingIDs(t *testing.T) {
	s := NewStore()

	a, err := s.Add(item(0))
	require.NoError(t, err)
	b, err := s.Add(item(10))
	require.NoError(t, err)

	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get(b)
	require.True(t, ok)
	assert.Equal(t, b, got.ID)
	assert.InDelta(t, 10, got.Box.X, 1e-9)
}

func TestStoreIgnoresCallerID(t *testing.T) {
	s := NewStore()
	e := item(0)
	e.ID = 99

	id, err := s.Add(e)
	require.NoError(t, err)
	assert.Equal(t, ID(1), id)
	assert.False(t, s.Has(99))
}

func TestStoreDoesNotAliasCaller(t *testing.T) {
	s := NewStore()
	e := NewEnemy(core.NewRect(0, 0, 50, 80), 1)

	id, err := s.Add(e)
	require.NoError(t, err)
	e.SetVelocity(7)

	got, _ := s.Get(id)
	assert.InDelta(t, 1, got.Velocity(), 1e-9)
}

func TestStoreRejectsInvalid(t *testing.T) {
	s := NewStore()
	_, err := s.Add(NewItem(core.NewRect(0, 0, -5, 5), ItemGem))
	require.Error(t, err)
	assert.True(t, IsInvalidGeometry(err))
	assert.Zero(t, s.Len())

	// A failed add does not burn an ID.
	id, err := s.Add(item(0))
	require.NoError(t, err)
	assert.Equal(t, ID(1), id)
}

func TestStoreRemoveNeverRecyclesIDs(t *testing.T) {
	s := NewStore()
	a, _ := s.Add(item(0))

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.False(t, s.Has(a))

	b, _ := s.Add(item(0))
	assert.NotEqual(t, a, b)

	s.Reset()
	c, _ := s.Add(item(0))
	assert.Greater(t, c, b)
}

func TestStoreEachKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	var want []ID
	for i := range 5 {
		id, err := s.Add(item(float64(i)))
		require.NoError(t, err)
		want = append(want, id)
	}
	s.Remove(want[2])
	want = append(want[:2], want[3:]...)

	assert.Equal(t, want, s.IDs())
}

func TestStoreEachFiltersAndStops(t *testing.T) {
	s := NewStore()
	s.Add(item(0))
	s.Add(NewEnemy(core.NewRect(0, 0, 50, 80), 1))
	s.Add(item(1))
	s.Add(NewNPC(core.NewRect(0, 0, 50, 90), 0, "", "npc"))

	assert.Equal(t, 2, s.Count(KindItem))
	assert.Equal(t, 2, s.Count(KindEnemy, KindNPC))
	assert.Equal(t, 4, s.Count())

	visited := 0
	s.Each(func(*Entity) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
