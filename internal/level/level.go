// Package level stores a hex tile map and supplies the transparency,
// passability and cost predicates used by field of view and path finding.
package level

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/hex"
)

// ErrNoPlayer is returned when a level has no player start.
var ErrNoPlayer = errors.New("level: no player start")

// ErrNoTarget is returned when a level has no target marker.
var ErrNoTarget = errors.New("level: no target")

// Level is a map of hex tiles. Hexes without a tile are walls.
type Level struct {
	tiles map[hex.Hex]hexutil.Tile

	player    hex.Hex
	hasPlayer bool
	target    hex.Hex
	hasTarget bool
	lamps     []hex.Hex

	// line lengths of the parsed source, nil for generated levels
	lines []int
}

// New returns an empty level.
func New() *Level {
	return &Level{tiles: make(map[hex.Hex]hexutil.Tile)}
}

// Parse reads an ASCII map. Column index is x and row index is y; every
// non-space character must sit on a valid hex. '@' marks the player start
// and '%' a path cell, both on floor. 'T' marks the target and '*' a lamp.
func Parse(src string) (*Level, error) {
	l := New()
	rows := strings.Split(src, "\n")
	l.lines = make([]int, len(rows))
	for y, row := range rows {
		l.lines[y] = len(row)
		for x, ch := range []byte(row) {
			if unicode.IsSpace(rune(ch)) {
				continue
			}
			pos, err := hex.New(x, y)
			if err != nil {
				return nil, fmt.Errorf("level: line %d column %d: %w", y, x, err)
			}
			tile := hexutil.Tile(ch)
			switch ch {
			case '@':
				l.SetPlayer(pos)
				tile = hexutil.Floor
			case '%':
				tile = hexutil.Floor
			case byte(hexutil.Target):
				l.SetTarget(pos)
			case byte(hexutil.Lamp):
				l.lamps = append(l.lamps, pos)
			}
			l.tiles[pos] = tile
		}
	}
	return l, nil
}

// Tile returns the tile at h; missing tiles read as walls.
func (l *Level) Tile(h hex.Hex) hexutil.Tile {
	if t, ok := l.tiles[h]; ok {
		return t
	}
	return hexutil.Wall
}

// Set places a tile at h.
func (l *Level) Set(h hex.Hex, t hexutil.Tile) {
	l.tiles[h] = t
}

// Transparent reports whether sight passes through h.
func (l *Level) Transparent(h hex.Hex) bool { return l.Tile(h).Transparent() }

// Passable reports whether h can be entered.
func (l *Level) Passable(h hex.Hex) bool { return l.Tile(h).Passable() }

// Cost returns the cost of entering h.
func (l *Level) Cost(h hex.Hex) int { return l.Tile(h).Cost() }

// Len returns the number of tiles in the level.
func (l *Level) Len() int { return len(l.tiles) }

// SetPlayer moves the player start.
func (l *Level) SetPlayer(h hex.Hex) {
	l.player = h
	l.hasPlayer = true
}

// Player returns the player start.
func (l *Level) Player() (hex.Hex, error) {
	if !l.hasPlayer {
		return hex.Origin, ErrNoPlayer
	}
	return l.player, nil
}

// SetTarget moves the target marker.
func (l *Level) SetTarget(h hex.Hex) {
	l.target = h
	l.hasTarget = true
}

// Target returns the target marker.
func (l *Level) Target() (hex.Hex, error) {
	if !l.hasTarget {
		return hex.Origin, ErrNoTarget
	}
	return l.target, nil
}

// Lamps returns the positions of the light sources.
func (l *Level) Lamps() []hex.Hex { return l.lamps }

// Light returns the merged field of view of every lamp, or nil when the
// level has no lamps.
func (l *Level) Light(maxDistance int) fov.Visibility {
	if len(l.lamps) == 0 {
		return nil
	}
	light := make(fov.Visibility)
	for _, lamp := range l.lamps {
		light.Cast(lamp, l.Transparent, maxDistance)
	}
	return light
}

// Floors returns every passable hex in ascending order.
func (l *Level) Floors() []hex.Hex {
	var out []hex.Hex
	for h, t := range l.tiles {
		if t.Passable() {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, hex.Hex.Compare)
	return out
}

// Bounds returns the smallest and largest x and y of any tile.
func (l *Level) Bounds() (minX, minY, maxX, maxY int) {
	first := true
	for h := range l.tiles {
		x, y := h.X(), h.Y()
		if first {
			minX, minY, maxX, maxY = x, y, x, y
			first = false
			continue
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

// PixelBounds returns the rectangle covering every tile when painted on g.
func (l *Level) PixelBounds(g hex.Grid) hex.Rectangle {
	minX, minY, maxX, maxY := l.Bounds()
	return hex.Rectangle{
		X:      minX*g.Width - g.Width,
		Y:      3*minY*g.Height - 2*g.Height,
		Width:  (maxX - minX + 2) * g.Width,
		Height: (3*(maxY-minY) + 4) * g.Height,
	}
}
