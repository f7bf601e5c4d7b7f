package path

import (
	"github.com/zyedidia/generic/heap"

	"github.com/gravitas-015/hexutil/hex"
)

// trail is an immutable linked history of positions, newest first. Trails
// share their tails, so extending one for every neighbour is cheap.
type trail struct {
	pos  hex.Hex
	prev *trail
}

// hexes returns the trail oldest first.
func (t *trail) hexes() []hex.Hex {
	var out []hex.Hex
	for ; t != nil; t = t.prev {
		out = append(out, t.pos)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// compareTrails orders trails position by position from the newest end;
// the empty trail sorts first.
func compareTrails(a, b *trail) int {
	for a != b {
		switch {
		case a == nil:
			return -1
		case b == nil:
			return 1
		}
		if c := a.pos.Compare(b.pos); c != 0 {
			return c
		}
		a, b = a.prev, b.prev
	}
	return 0
}

// step is a frontier entry: reaching pos with accumulated cost, coming
// from trail.
type step struct {
	estimate int
	cost     int
	pos      hex.Hex
	trail    *trail
}

// lessStep orders by estimated total, then accumulated cost, then position,
// then history. The full ordering makes the search deterministic.
func lessStep(a, b step) bool {
	if a.estimate != b.estimate {
		return a.estimate < b.estimate
	}
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if c := a.pos.Compare(b.pos); c != 0 {
		return c < 0
	}
	return compareTrails(a.trail, b.trail) < 0
}

func newFrontier() *heap.Heap[step] {
	return heap.New[step](lessStep)
}
