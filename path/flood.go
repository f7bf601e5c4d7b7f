package path

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/gravitas-015/hexutil/hex"
)

// Reachable returns the hexes a walker can reach from start in at most
// maxSteps steps, in breadth-first order with start first. Like the finder
// it does not check start itself.
func Reachable(start hex.Hex, passable func(hex.Hex) bool, maxSteps int) []hex.Hex {
	seen := mapset.New[hex.Hex]()
	seen.Put(start)
	out := []hex.Hex{start}
	frontier := []hex.Hex{start}
	for step := 0; step < maxSteps && len(frontier) > 0; step++ {
		var next []hex.Hex
		for _, cur := range frontier {
			for _, nb := range cur.Neighbours() {
				if seen.Has(nb) || !passable(nb) {
					continue
				}
				seen.Put(nb)
				out = append(out, nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return out
}
