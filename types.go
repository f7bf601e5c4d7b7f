// Package hexutil holds the tile vocabulary shared by levels, renderers and
// the session server. The geometry lives in the hex, fov and path packages.
package hexutil

// Tile is the content of a single hex cell. The byte value doubles as its
// textual representation in ASCII maps.
type Tile byte

const (
	Wall   Tile = '#'
	Floor  Tile = '.'
	Water  Tile = '~'
	Rough  Tile = ','
	Lamp   Tile = '*'
	Target Tile = 'T'
)

// RoughCost is the traversal cost of rough terrain.
const RoughCost = 3

// Transparent reports whether line of sight passes through the tile.
func (t Tile) Transparent() bool { return t != Wall }

// Passable reports whether a walker may enter the tile.
func (t Tile) Passable() bool { return t != Wall && t != Water }

// Cost returns the cost of entering the tile. Always >= 1.
func (t Tile) Cost() int {
	if t == Rough {
		return RoughCost
	}
	return 1
}

// String returns the tile character.
func (t Tile) String() string { return string(rune(t)) }
