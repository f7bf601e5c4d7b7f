package hex

import (
	"fmt"
	"iter"
	"math"
)

// Point is a position in pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rectangle is an axis-aligned pixel rectangle anchored at its lower-left
// corner (X, Y).
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Grid holds the dimensions of the hex grid as painted on the screen.
// The center of Origin sits on pixel (0, 0); Width and Height are the pixel
// offsets of the upper-right corner of that hex from its center. Hexes are
// equilateral when Width:Height is about √3:1.
//
//	 / \ / \ / \
//	|   |   |   |
//	 \ / \ / \ /
type Grid struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

var hexFactor = math.Sqrt(1.0 / 3.0)

// corner ratios, counter-clockwise from the upper-right corner
var corners = [6]Point{{1, 1}, {0, 2}, {-1, 1}, {-1, -1}, {0, -2}, {1, -1}}

// NewGrid returns a grid of the given width whose height is the integer
// closest to width/√3. It panics if width is not positive.
func NewGrid(width int) Grid {
	if width <= 0 {
		panic(fmt.Sprintf("hex: grid width must be positive, got %d", width))
	}
	return Grid{Width: width, Height: int(math.Round(hexFactor * float64(width)))}
}

// NewGridSize returns a grid with explicit dimensions.
func NewGridSize(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("hex: grid dimensions must be positive, got %dx%d", width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

// Corners returns the 6 pixel corners of h.
func (g Grid) Corners(h Hex) [6]Point {
	var out [6]Point
	y0 := 3 * h.y
	for i, c := range corners {
		out[i] = Point{g.Width * (c.X + h.x), g.Height * (c.Y + y0)}
	}
	return out
}

// Center returns the pixel center of h.
func (g Grid) Center(h Hex) Point {
	return Point{h.x * g.Width, 3 * g.Height * h.y}
}

// BoundingBox returns the smallest rectangle containing h.
func (g Grid) BoundingBox(h Hex) Rectangle {
	c := g.Center(h)
	return Rectangle{c.X - g.Width, c.Y - 2*g.Height, 2 * g.Width, 4 * g.Height}
}

// HexAt returns the hex under pixel (x, y).
//
// Pixel space is cut into tiles of Width x 3*Height. Each tile holds parts of
// two hexes separated by a diagonal edge; which pair depends on the parity of
// the tile indices. Points on the edge belong to the upper hex.
func (g Grid) HexAt(x, y int) Hex {
	w, h := g.Width, g.Height
	x0, dx := floorDiv(x, w), floorMod(x, w)
	y0, dy := floorDiv(y, 3*h), floorMod(y, 3*h)

	if (x0+y0)%2 == 0 {
		if w*dy < h*(2*w-dx) {
			return Hex{x0, y0}
		}
		return Hex{x0 + 1, y0 + 1}
	}
	if w*dy < h*(w+dx) {
		return Hex{x0 + 1, y0}
	}
	return Hex{x0, y0 + 1}
}

// HexesInRectangle yields every hex overlapping r, rows outer and columns
// inner, both ascending. The range is padded by one hex so that hexes whose
// outline (not only their center) crosses r are included. The sequence is
// lazy and may be ranged over any number of times.
func (g Grid) HexesInRectangle(r Rectangle) iter.Seq[Hex] {
	x0, x1 := paddedRange(r.X, r.Width, g.Width, g.Width)
	y0, y1 := paddedRange(r.Y, r.Height, 2*g.Height, 3*g.Height)
	return func(yield func(Hex) bool) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if (x+y)%2 != 0 {
					continue
				}
				if !yield(Hex{x, y}) {
					return
				}
			}
		}
	}
}

// paddedRange returns the half-open range of tile indices covering
// [lo-bloat, lo+size+bloat] with tiles of the given size.
func paddedRange(lo, size, bloat, tile int) (int, int) {
	return floorDiv(lo+tile-1-bloat, tile), floorDiv(lo+size+bloat+tile-1, tile)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
