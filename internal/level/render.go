package level

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/hex"
)

// RenderOptions selects what a rendering shows.
type RenderOptions struct {
	// View limits drawing to visible hexes; nil draws everything.
	View fov.Visibility
	// Light is ANDed with View; nil means everything the viewer sees is lit.
	Light fov.Visibility
	// Path hexes are drawn as '%'.
	Path []hex.Hex
}

const (
	glyphPlayer = '@'
	glyphPath   = '%'
	glyphBlank  = ' '
)

var (
	stylePlayer = color.Style{color.FgMagenta, color.OpBold}
	stylePath   = color.Style{color.FgCyan, color.OpBold}
	styleTiles  = map[byte]color.Style{
		byte(hexutil.Wall):   {color.FgGray},
		byte(hexutil.Floor):  {color.FgYellow},
		byte(hexutil.Water):  {color.FgBlue},
		byte(hexutil.Rough):  {color.FgGreen},
		byte(hexutil.Lamp):   {color.FgLightYellow, color.OpBold},
		byte(hexutil.Target): {color.FgRed, color.OpBold},
	}
)

// Render draws the level as text, one character per column. Cells that
// are not hexes stay blank, as do hexes that are hidden or unlit. Lines
// carry no trailing spaces.
func (l *Level) Render(opts RenderOptions) string {
	rows := l.rows(opts)
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// RenderColor writes the same layout as Render with terminal colors.
func (l *Level) RenderColor(w io.Writer, opts RenderOptions) error {
	for _, row := range l.rows(opts) {
		var b strings.Builder
		for _, ch := range row {
			b.WriteString(styleFor(ch).Sprint(string(rune(ch))))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return fmt.Errorf("level: render: %w", err)
		}
	}
	return nil
}

func styleFor(ch byte) color.Style {
	switch ch {
	case glyphPlayer:
		return stylePlayer
	case glyphPath:
		return stylePath
	}
	if s, ok := styleTiles[ch]; ok {
		return s
	}
	return color.Style{}
}

// rows lays out the level. Parsed levels keep their source shape; generated
// levels span their bounds with a one-hex margin.
func (l *Level) rows(opts RenderOptions) [][]byte {
	c := l.newCanvas(opts)
	var out [][]byte
	emit := func(y, x0, x1 int) {
		out = append(out, bytes.TrimRight(c.row(y, x0, x1), " "))
	}

	if l.lines != nil {
		for y, n := range l.lines {
			emit(y, 0, n)
		}
		return out
	}
	if len(l.tiles) == 0 {
		return nil
	}
	minX, minY, maxX, maxY := l.Bounds()
	for y := minY - 1; y <= maxY+1; y++ {
		emit(y, minX-2, maxX+3)
	}
	return out
}

// Window lays out the w by h cells whose top left cell is (x0, y0) with the
// glyph rules of Render. Rows are not trimmed.
func (l *Level) Window(x0, y0, w, h int, opts RenderOptions) [][]byte {
	c := l.newCanvas(opts)
	out := make([][]byte, 0, max(h, 0))
	for y := y0; y < y0+h; y++ {
		out = append(out, c.row(y, x0, x0+w))
	}
	return out
}

type canvas struct {
	l      *Level
	view   fov.Visibility
	light  fov.Visibility
	onPath map[hex.Hex]bool
}

func (l *Level) newCanvas(opts RenderOptions) canvas {
	onPath := make(map[hex.Hex]bool, len(opts.Path))
	for _, h := range opts.Path {
		onPath[h] = true
	}
	light := opts.Light
	if light == nil {
		light = opts.View
	}
	return canvas{l: l, view: opts.View, light: light, onPath: onPath}
}

func (c canvas) row(y, x0, x1 int) []byte {
	row := make([]byte, 0, max(x1-x0, 0))
	for x := x0; x < x1; x++ {
		row = append(row, c.l.glyph(x, y, c.view, c.light, c.onPath))
	}
	return row
}

func (l *Level) glyph(x, y int, view, light fov.Visibility, onPath map[hex.Hex]bool) byte {
	pos, err := hex.New(x, y)
	if err != nil {
		return glyphBlank
	}
	if l.hasPlayer && pos == l.player {
		return glyphPlayer
	}
	if view != nil && !view.Lit(light, pos) {
		return glyphBlank
	}
	if onPath[pos] {
		return glyphPath
	}
	if t, ok := l.tiles[pos]; ok {
		return byte(t)
	}
	return glyphBlank
}
