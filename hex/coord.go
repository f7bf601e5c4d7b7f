// Package hex implements a hexagonal grid aligned with the x-axis, using
// doubled coordinates: a hex (x, y) is valid when x+y is even, horizontal
// neighbours are two columns apart and diagonal neighbours one column and
// one row apart.
package hex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidHex is returned when the coordinates of a hex do not sum to an
// even number.
var ErrInvalidHex = errors.New("hex: x and y coordinate must sum to an even number")

// Hex is a single hexagon in the grid. A Hex value is always valid; the zero
// value is the origin.
type Hex struct {
	x int
	y int
}

// Origin is the hex at (0, 0).
var Origin = Hex{}

// Directions holds the offsets of the six neighbours in canonical order.
// The index into this table is the direction index used throughout the
// library.
var Directions = [6]Hex{
	{2, 0}, {1, 1}, {-1, 1}, {-2, 0}, {-1, -1}, {1, -1},
}

// Rotations maps a direction-0 offset onto each of the six symmetric
// positions. Applied to Directions[0] they yield Directions in order.
var Rotations = [6]func(Hex) Hex{
	func(h Hex) Hex { return h },
	Hex.RotateLeft,
	func(h Hex) Hex { return h.RotateRight().Neg() },
	Hex.Neg,
	func(h Hex) Hex { return h.RotateLeft().Neg() },
	Hex.RotateRight,
}

// New returns the hex at (x, y), or ErrInvalidHex if x+y is odd.
func New(x, y int) (Hex, error) {
	if (x+y)%2 != 0 {
		return Hex{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidHex, x, y)
	}
	return Hex{x, y}, nil
}

// MustNew is like New but panics on invalid coordinates.
func MustNew(x, y int) Hex {
	h, err := New(x, y)
	if err != nil {
		panic(err)
	}
	return h
}

// X returns the column of the hex.
func (h Hex) X() int { return h.x }

// Y returns the row of the hex.
func (h Hex) Y() int { return h.y }

// Add returns h+o.
func (h Hex) Add(o Hex) Hex { return Hex{h.x + o.x, h.y + o.y} }

// Sub returns h-o.
func (h Hex) Sub(o Hex) Hex { return Hex{h.x - o.x, h.y - o.y} }

// Neg returns -h.
func (h Hex) Neg() Hex { return Hex{-h.x, -h.y} }

// Neighbours returns the 6 direct neighbours of h in direction order.
func (h Hex) Neighbours() [6]Hex {
	var out [6]Hex
	for i, d := range Directions {
		out[i] = h.Add(d)
	}
	return out
}

// Neighbour returns the neighbour of h in the given direction (taken mod 6).
func (h Hex) Neighbour(direction int) Hex {
	return h.Add(Directions[((direction%6)+6)%6])
}

// RandomNeighbour returns one of the six neighbours of h.
func (h Hex) RandomNeighbour(rng *rand.Rand) Hex {
	return h.Add(Directions[rng.Intn(len(Directions))])
}

// RandomWalk returns a random walk of n steps starting at h. The result has
// n+1 entries since it includes the start.
func (h Hex) RandomWalk(n int, rng *rand.Rand) []Hex {
	walk := make([]Hex, 0, n+1)
	pos := h
	walk = append(walk, pos)
	for i := 0; i < n; i++ {
		pos = pos.RandomNeighbour(rng)
		walk = append(walk, pos)
	}
	return walk
}

// Distance returns the number of neighbour steps between h and o.
func (h Hex) Distance(o Hex) int {
	dx := abs(h.x - o.x)
	dy := abs(h.y - o.y)
	return dy + max(0, (dx-dy)/2)
}

// RotateLeft rotates h 60° counter-clockwise around the origin.
func (h Hex) RotateLeft() Hex {
	return Hex{(h.x - 3*h.y) >> 1, (h.x + h.y) >> 1}
}

// RotateRight rotates h 60° clockwise around the origin.
func (h Hex) RotateRight() Hex {
	return Hex{(h.x + 3*h.y) >> 1, (h.y - h.x) >> 1}
}

// Compare orders hexes by x, then y. It returns -1, 0 or +1.
func (h Hex) Compare(o Hex) int {
	switch {
	case h.x < o.x:
		return -1
	case h.x > o.x:
		return 1
	case h.y < o.y:
		return -1
	case h.y > o.y:
		return 1
	}
	return 0
}

// Less reports whether h sorts before o.
func (h Hex) Less(o Hex) bool { return h.Compare(o) < 0 }

func (h Hex) String() string { return fmt.Sprintf("Hex(%d, %d)", h.x, h.y) }

// MarshalJSON encodes h as [x, y].
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{h.x, h.y})
}

// UnmarshalJSON decodes [x, y] and rejects invalid coordinates.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var xy [2]int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("hex: decode: %w", err)
	}
	v, err := New(xy[0], xy[1])
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
