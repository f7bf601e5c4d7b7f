package fov

import (
	"sync"

	"github.com/gravitas-015/hexutil/hex"
)

// The tree subdivides the 60° sector around direction 0. A node is a hex
// (relative to the viewer) together with the part of the angular interval
// that is still unresolved when the walk reaches it. The shape of the tree
// depends only on hex geometry, so it is shared by every query and reused
// for the other five sectors through hex.Rotations.
type node struct {
	hex       hex.Hex
	direction int
	angle1    float64
	angle2    float64
	distance  int
	rotated   [6]hex.Hex

	once       sync.Once
	successors []*node
}

var (
	// corners of a direction-0 hex that bound its three forward children
	treeCorners = [4]hex.Point{{X: 0, Y: -2}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: 0, Y: 2}}
	// forward neighbours, lower to upper
	treeForward = [3]hex.Hex{hex.MustNew(1, -1), hex.MustNew(2, 0), hex.MustNew(1, 1)}
)

var root = newNode(hex.Directions[0], 0, -1.0, 1.0)

func newNode(h hex.Hex, direction int, angle1, angle2 float64) *node {
	n := &node{
		hex:       h,
		direction: direction,
		angle1:    angle1,
		angle2:    angle2,
		distance:  h.Distance(hex.Origin),
	}
	for i, rot := range hex.Rotations {
		n.rotated[i] = rot(h)
	}
	return n
}

// angle is a monotonic stand-in for the true angle of a corner of n seen
// from the origin.
func (n *node) angle(c hex.Point) float64 {
	return float64(3*n.hex.Y()+c.Y) / float64(n.hex.X()+c.X)
}

func (n *node) children() []*node {
	n.once.Do(func() {
		var angles [4]float64
		for i, c := range treeCorners {
			angles[i] = n.angle(c)
		}
		for i := 0; i < 3; i++ {
			lo := max(n.angle1, angles[i])
			hi := min(n.angle2, angles[i+1])
			if lo < hi {
				n.successors = append(n.successors,
					newNode(n.hex.Add(treeForward[i]), (i+5)%6, lo, hi))
			}
		}
	})
	return n.successors
}

func (n *node) cast(origin hex.Hex, direction int, transparent func(hex.Hex) bool, maxDistance int, visible Visibility) {
	if n.distance > maxDistance {
		return
	}
	h := origin.Add(n.rotated[direction])
	if !transparent(h) {
		visible[h] |= 1 << ((n.direction + direction) % 6)
		return
	}
	visible[h] = AllDirections
	for _, succ := range n.children() {
		succ.cast(origin, direction, transparent, maxDistance, visible)
	}
}
