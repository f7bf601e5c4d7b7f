package hex

// Scale multiplies both coordinates by k.
func (h Hex) Scale(k int) Hex { return Hex{h.x * k, h.y * k} }

// Ring returns the hexes at exactly distance k from h, starting at the
// corner in direction 4 and walking the six sides in direction order.
// Ring(0) is [h].
func (h Hex) Ring(k int) []Hex {
	if k <= 0 {
		return []Hex{h}
	}
	out := make([]Hex, 0, 6*k)
	cur := h.Add(Directions[4].Scale(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			out = append(out, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return out
}

// Disk returns the hexes within distance r of h, ring by ring from h
// outwards.
func (h Hex) Disk(r int) []Hex {
	out := make([]Hex, 0, 1+3*max(r, 0)*(max(r, 0)+1))
	for k := 0; k <= r; k++ {
		out = append(out, h.Ring(k)...)
	}
	return out
}
