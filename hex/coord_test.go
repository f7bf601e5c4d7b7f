package hex

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsOddSum(t *testing.T) {
	h, err := New(-1, -3)
	require.NoError(t, err)
	assert.Equal(t, -1, h.X())
	assert.Equal(t, -3, h.Y())

	_, err = New(2, -3)
	assert.ErrorIs(t, err, ErrInvalidHex)
	assert.Panics(t, func() { MustNew(1, 0) })
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, MustNew(6, 10), MustNew(2, 4).Add(MustNew(4, 6)))
	assert.Equal(t, MustNew(-1, -3), MustNew(2, 4).Sub(MustNew(3, 7)))
	assert.Equal(t, MustNew(-2, -4), MustNew(2, 4).Neg())
	assert.Equal(t, Origin, Origin.Neg())
}

func TestRotationsMatchNeighbours(t *testing.T) {
	nb := Directions[0]
	got := make([]Hex, 0, 6)
	for _, rot := range Rotations {
		got = append(got, rot(nb))
	}
	want := Origin.Neighbours()
	assert.Equal(t, want[:], got)
}

func TestNeighbours(t *testing.T) {
	nb := Origin.Neighbours()
	seen := map[Hex]bool{}
	for _, h := range nb {
		seen[h] = true
		back := h.Neighbours()
		assert.Contains(t, nb[:], h.Neg())
		assert.Contains(t, back[:], Origin)
		assert.Zero(t, (h.X()+h.Y())%2)
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, nb[4], Origin.Neighbour(-2))
	assert.Equal(t, nb[1], Origin.Neighbour(7))
}

func TestDistance(t *testing.T) {
	h := MustNew(-1, -3)
	for _, nb := range h.Neighbours() {
		assert.Equal(t, 0, nb.Distance(nb))
		assert.Equal(t, 1, nb.Distance(h))
		assert.Equal(t, 1, h.Distance(nb))
		farthest := 0
		for _, nb2 := range nb.Neighbours() {
			farthest = max(farthest, nb2.Distance(h))
		}
		assert.Equal(t, 2, farthest)
	}
	assert.Equal(t, 5, Origin.Distance(MustNew(10, 0)))
	assert.Equal(t, 4, Origin.Distance(MustNew(-2, 4)))
	assert.Equal(t, 3, Origin.Distance(MustNew(-1, -3)))
}

func TestRotateLeft(t *testing.T) {
	neighbours := Origin.Neighbours()
	nb := neighbours[0]
	for i := 0; i < 6; i++ {
		assert.Equal(t, neighbours[i], nb)
		nb = nb.RotateLeft()
	}
	assert.Equal(t, neighbours[0], nb)
}

func TestRotateRightUndoesLeft(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, h := range Origin.RandomWalk(200, rng) {
		assert.Equal(t, h, h.RotateLeft().RotateRight())
		assert.Equal(t, h, h.RotateRight().RotateLeft())
		assert.Equal(t, h, h.Neg().Neg())
		assert.Equal(t, h.Distance(Origin), h.RotateLeft().Distance(Origin))
	}
}

func TestRandomWalkSteps(t *testing.T) {
	walk := MustNew(4, 2).RandomWalk(50, rand.New(rand.NewSource(1)))
	require.Len(t, walk, 51)
	assert.Equal(t, MustNew(4, 2), walk[0])
	for i := 1; i < len(walk); i++ {
		assert.Equal(t, 1, walk[i].Distance(walk[i-1]))
	}
}

func TestCompare(t *testing.T) {
	assert.True(t, MustNew(-2, 4).Less(MustNew(0, -2)))
	assert.True(t, MustNew(0, -2).Less(MustNew(0, 2)))
	assert.Equal(t, 0, MustNew(3, 1).Compare(MustNew(3, 1)))
	assert.Equal(t, 1, MustNew(3, 1).Compare(MustNew(1, 3)))
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(MustNew(3, -1))
	require.NoError(t, err)
	assert.JSONEq(t, `[3,-1]`, string(data))

	var h Hex
	require.NoError(t, json.Unmarshal([]byte(`[-4, 2]`), &h))
	assert.Equal(t, MustNew(-4, 2), h)
	assert.ErrorIs(t, json.Unmarshal([]byte(`[1, 2]`), &h), ErrInvalidHex)
}
