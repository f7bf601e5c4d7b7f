// Package fov computes field of view on the hex grid by recursive angular
// shadow casting.
//
// The result maps each visible hex to a bitmask of the sides it is seen
// from. Masks from a viewer and from a light source combine with a bitwise
// AND: a hex is seen and lit when the AND is non-zero.
//
//	view := fov.FieldOfView(player, transparent, 10)
//	light := fov.FieldOfView(lamp, transparent, 10)
//	if view.Lit(light, pos) {
//		// draw pos
//	}
package fov

import "github.com/gravitas-015/hexutil/hex"

// Directions is a 6-bit mask; bit i is set when a hex is visible from
// direction sector i.
type Directions uint8

// AllDirections marks a hex visible from every side.
const AllDirections Directions = 1<<6 - 1

// Visibility maps visible hexes to the directions they are visible from.
type Visibility map[hex.Hex]Directions

// FieldOfView returns the hexes visible from origin within maxDistance.
// transparent reports whether sight passes through a hex. Opaque hexes are
// visible themselves but hide everything behind them. The origin is always
// visible from all directions.
func FieldOfView(origin hex.Hex, transparent func(hex.Hex) bool, maxDistance int) Visibility {
	v := make(Visibility)
	v.Cast(origin, transparent, maxDistance)
	return v
}

// Cast adds the field of view from origin to v. Casting from several
// origins into one map merges them, which is how multiple light sources
// are accumulated.
func (v Visibility) Cast(origin hex.Hex, transparent func(hex.Hex) bool, maxDistance int) Visibility {
	v[origin] = AllDirections
	for direction := 0; direction < 6; direction++ {
		root.cast(origin, direction, transparent, maxDistance, v)
	}
	return v
}

// Has reports whether h is visible from any direction.
func (v Visibility) Has(h hex.Hex) bool { return v[h] != 0 }

// Lit reports whether h is visible in v from a side that light also reaches.
func (v Visibility) Lit(light Visibility, h hex.Hex) bool {
	return v[h]&light[h] != 0
}
