package fov

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitas-015/hexutil/hex"
)

func open(hex.Hex) bool { return true }

func TestFieldOfViewOpenMap(t *testing.T) {
	sizes := []int{1, 7, 19, 37, 61, 91, 127, 169}
	for d, size := range sizes {
		v := FieldOfView(hex.Origin, open, d)
		assert.Len(t, v, size, "distance %d", d)
		for h, mask := range v {
			assert.LessOrEqual(t, h.Distance(hex.Origin), d)
			assert.Equal(t, AllDirections, mask, "%v", h)
		}
	}
}

func TestFieldOfViewOffsetOrigin(t *testing.T) {
	origin := hex.MustNew(-7, 3)
	v := FieldOfView(origin, open, 4)
	assert.Len(t, v, 61)
	for h := range v {
		assert.LessOrEqual(t, h.Distance(origin), 4)
	}
}

func TestFieldOfViewWallBlocksRay(t *testing.T) {
	wall := hex.MustNew(4, 0)
	transparent := func(h hex.Hex) bool { return h != wall }
	v := FieldOfView(hex.Origin, transparent, 6)

	assert.Equal(t, Directions(0b100011), v[wall])
	for _, behind := range []hex.Hex{hex.MustNew(6, 0), hex.MustNew(8, 0), hex.MustNew(10, 0)} {
		assert.False(t, v.Has(behind), "%v", behind)
	}
	for _, beside := range []hex.Hex{hex.MustNew(2, 0), hex.MustNew(5, 1), hex.MustNew(7, 1), hex.MustNew(7, -1)} {
		assert.Equal(t, AllDirections, v[beside], "%v", beside)
	}

	other := FieldOfView(hex.MustNew(8, 0), transparent, 6)
	assert.Equal(t, Directions(0b011100), other[wall])
	assert.False(t, other.Has(hex.Origin))
	// the wall faces the two viewers with different sides
	assert.False(t, v.Lit(other, wall))
}

func TestFieldOfViewEnclosed(t *testing.T) {
	ring := map[hex.Hex]bool{}
	for _, nb := range hex.Origin.Neighbours() {
		ring[nb] = true
	}
	v := FieldOfView(hex.Origin, func(h hex.Hex) bool { return !ring[h] }, 5)
	assert.Len(t, v, 7)
	assert.Equal(t, AllDirections, v[hex.Origin])
	for i, nb := range hex.Origin.Neighbours() {
		assert.Equal(t, Directions(1)<<i, v[nb], "%v", nb)
	}
}

func TestCastMergesSources(t *testing.T) {
	a, b := hex.MustNew(-20, 0), hex.MustNew(20, 0)
	v := make(Visibility)
	v.Cast(a, open, 2).Cast(b, open, 2)
	assert.Len(t, v, 38)
	assert.True(t, v.Has(a.Add(hex.Directions[3])))
	assert.True(t, v.Has(b.Add(hex.Directions[0])))
	assert.False(t, v.Has(hex.Origin))
}

func TestLitRequiresBothMasks(t *testing.T) {
	view := Visibility{hex.Origin: 0b000011}
	light := Visibility{hex.Origin: 0b000010}
	dark := Visibility{hex.Origin: 0b111100}
	assert.True(t, view.Lit(light, hex.Origin))
	assert.False(t, view.Lit(dark, hex.Origin))
	assert.False(t, view.Lit(light, hex.MustNew(2, 0)))
}

func TestFieldOfViewConcurrent(t *testing.T) {
	want := len(FieldOfView(hex.Origin, open, 9))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			origin := hex.MustNew(2*i, 0)
			assert.Len(t, FieldOfView(origin, open, 9), want)
		}(i)
	}
	wg.Wait()
}
