package spaced_repetition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLadder_HasSevenRungs(t *testing.T) {
	l := DefaultLadder()
	assert.Equal(t, []string{"Red-1", "Red-2", "Red-3", "Red-4", "Yellow-1", "Yellow-2", "Green"}, l.Names())
	assert.Equal(t, "Red-1", l.Lowest().Name)
	assert.False(t, l.Lowest().HasMax)
}

func TestLadder_ByName(t *testing.T) {
	l := DefaultLadder()

	green := l.ByName("Green")
	assert.Equal(t, 25, green.MinDays)
	assert.Equal(t, 33, green.MaxDays)

	assert.Equal(t, "Red-1", l.ByName("Purple-9").Name)
	assert.Equal(t, "Red-1", l.ByName("").Name)
	assert.Equal(t, "Red-1", l.Normalize("red-2"))
	assert.True(t, l.IsValid("Yellow-2"))
	assert.False(t, l.IsValid("yellow-2"))
}

func TestLadder_Rank(t *testing.T) {
	l := DefaultLadder()
	assert.Equal(t, 0, l.Rank("Red-1"))
	assert.Equal(t, 1, l.Rank("Red-2"))
	assert.Equal(t, 6, l.Rank("Green"))
	assert.Equal(t, 0, l.Rank("unknown"))
}

func TestLadder_NextSaturates(t *testing.T) {
	l := DefaultLadder()

	next, ok := l.Next("Red-2")
	require.True(t, ok)
	assert.Equal(t, "Red-3", next)

	next, ok = l.Next("Yellow-2")
	require.True(t, ok)
	assert.Equal(t, "Green", next)

	_, ok = l.Next("Green")
	assert.False(t, ok)

	next, ok = l.Next("garbage")
	require.True(t, ok)
	assert.Equal(t, "Red-2", next)
}

func TestNewLadder_Validation(t *testing.T) {
	_, err := NewLadder(nil)
	assert.Error(t, err)

	_, err = NewLadder([]Rung{{Name: "A"}, {Name: "A", MinDays: 1, MaxDays: 2, HasMax: true}})
	assert.Error(t, err)

	_, err = NewLadder([]Rung{{Name: "A"}, {Name: "B", MinDays: 1}})
	assert.Error(t, err)
}

func TestLadder_RungsIsACopy(t *testing.T) {
	l := DefaultLadder()
	rungs := l.Rungs()
	rungs[0].Name = "changed"
	assert.Equal(t, "Red-1", l.Lowest().Name)
}
