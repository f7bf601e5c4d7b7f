package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing(t *testing.T) {
	h := MustNew(3, 1)
	assert.Equal(t, []Hex{h}, h.Ring(0))

	nb := h.Neighbours()
	assert.ElementsMatch(t, nb[:], h.Ring(1))
	assert.Equal(t, h.Add(MustNew(-1, -1)), h.Ring(1)[0])

	for k := 1; k <= 5; k++ {
		ring := h.Ring(k)
		assert.Len(t, ring, 6*k)
		seen := map[Hex]bool{}
		for i, r := range ring {
			assert.Equal(t, k, h.Distance(r), "k=%d %v", k, r)
			assert.Equal(t, 1, r.Distance(ring[(i+1)%len(ring)]), "k=%d step %d", k, i)
			seen[r] = true
		}
		assert.Len(t, seen, 6*k)
	}
}

func TestDisk(t *testing.T) {
	for r := 0; r <= 6; r++ {
		disk := Origin.Disk(r)
		assert.Len(t, disk, 1+3*r*(r+1))
		for _, d := range disk {
			assert.LessOrEqual(t, Origin.Distance(d), r)
		}
	}
	assert.Empty(t, Origin.Disk(-1))
}
