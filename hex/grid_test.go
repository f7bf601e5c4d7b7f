package hex

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridHeight(t *testing.T) {
	assert.Equal(t, 18, NewGrid(32).Height)
	assert.Equal(t, 37, NewGrid(64).Height)

	_, err := NewGridSize(0, 10)
	assert.Error(t, err)
	g, err := NewGridSize(20, 10)
	require.NoError(t, err)
	assert.Equal(t, Grid{Width: 20, Height: 10}, g)

	assert.Panics(t, func() { NewGrid(0) })
	assert.Panics(t, func() { NewGrid(-4) })
}

func TestGridCorners(t *testing.T) {
	want := [6]Point{{64, 72}, {32, 90}, {0, 72}, {0, 36}, {32, 18}, {64, 36}}
	assert.Equal(t, want, NewGrid(32).Corners(MustNew(1, 1)))
}

func TestGridCenter(t *testing.T) {
	assert.Equal(t, Point{32, 54}, NewGrid(32).Center(MustNew(1, 1)))
}

func TestGridBoundingBox(t *testing.T) {
	assert.Equal(t, Rectangle{-32, 72, 64, 72}, NewGrid(32).BoundingBox(MustNew(0, 2)))
}

func TestHexAt(t *testing.T) {
	g := NewGrid(32)
	data := []struct {
		pixel Point
		hex   Hex
	}{
		{Point{0, 0}, MustNew(0, 0)},
		{Point{33, 16}, MustNew(2, 0)},
		{Point{30, 20}, MustNew(1, 1)},
	}
	for _, fx := range []int{-1, 1} {
		for _, fy := range []int{-1, 1} {
			for _, d := range data {
				px, py := fx*d.pixel.X, fy*d.pixel.Y
				want := MustNew(fx*d.hex.X(), fy*d.hex.Y())
				assert.Equal(t, want, g.HexAt(px, py), "pixel (%d, %d)", px, py)
			}
		}
	}
}

func TestHexAtInsidePolygon(t *testing.T) {
	g := NewGrid(32)
	w, h := g.Width, g.Height
	offsets := []Point{
		{0, 0},
		{w/2 - 1, h},
		{-w/2 + 1, -h},
		{-w + 1, 0},
		{w - 1, h - 1},
		{0, 2*h - 1},
		{0, -2*h + 2},
		{1, -h},
	}
	for x := -7; x <= 7; x++ {
		for y := -5; y <= 5; y++ {
			if (x+y)%2 != 0 {
				continue
			}
			hx := MustNew(x, y)
			c := g.Center(hx)
			for _, o := range offsets {
				assert.Equal(t, hx, g.HexAt(c.X+o.X, c.Y+o.Y), "%v offset %v", hx, o)
			}
		}
	}
}

func TestHexesInRectangle(t *testing.T) {
	g := NewGrid(32)
	want := []Hex{
		MustNew(-1, -1), MustNew(1, -1),
		MustNew(-2, 0), MustNew(0, 0),
		MustNew(-1, 1), MustNew(1, 1),
	}
	seq := g.HexesInRectangle(g.BoundingBox(Origin))
	assert.Equal(t, want, slices.Collect(seq))
	// restartable
	assert.Equal(t, want, slices.Collect(seq))

	var first []Hex
	for h := range seq {
		first = append(first, h)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, want[:2], first)
}

func TestHexesInRectangleCoversCorners(t *testing.T) {
	g := NewGrid(32)
	r := Rectangle{X: -100, Y: -70, Width: 250, Height: 190}
	got := map[Hex]bool{}
	for h := range g.HexesInRectangle(r) {
		got[h] = true
	}
	for px := r.X; px <= r.X+r.Width; px += 7 {
		for py := r.Y; py <= r.Y+r.Height; py += 5 {
			assert.True(t, got[g.HexAt(px, py)], "pixel (%d, %d)", px, py)
		}
	}
}
