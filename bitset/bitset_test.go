package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddHasRemove(t *testing.T) {
	s := New(100)
	assert.True(t, s.IsEmpty())

	s.Add(3)
	s.Add(65)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(65))
	assert.False(t, s.Has(4))
	assert.Equal(t, 2, s.Len())

	s.Remove(3)
	assert.False(t, s.Has(3))
	assert.Equal(t, 1, s.Len())
}

func TestUnionReportsChange(t *testing.T) {
	a := New(128)
	b := New(128)
	b.Add(10)
	b.Add(120)

	changed := a.Union(b)
	assert.True(t, changed)
	assert.True(t, a.Has(10))
	assert.True(t, a.Has(120))

	changed = a.Union(b)
	assert.False(t, changed, "union with an already-subsumed set must report no change")
}

func TestSubsetOfAndIntersects(t *testing.T) {
	a := New(64)
	b := New(64)
	a.Add(1)
	a.Add(2)
	b.Add(1)
	b.Add(2)
	b.Add(3)

	assert.True(t, a.SubsetOf(b))
	assert.False(t, b.SubsetOf(a))
	assert.True(t, a.Intersects(b))

	c := New(64)
	c.Add(9)
	assert.False(t, a.Intersects(c))
}

func TestEqualAndClone(t *testing.T) {
	a := New(64)
	a.Add(5)
	clone := a.Clone()
	assert.True(t, a.Equal(clone))

	clone.Add(6)
	assert.False(t, a.Equal(clone))
	assert.False(t, a.Has(6), "mutating a clone must not affect the original")
}

func TestSliceIsAscending(t *testing.T) {
	s := New(200)
	for _, i := range []int{150, 2, 64, 63, 1} {
		s.Add(i)
	}
	assert.Equal(t, []int{1, 2, 63, 64, 150}, s.Slice())
}
