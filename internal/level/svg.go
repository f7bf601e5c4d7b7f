package level

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/hex"
)

var svgFill = map[hexutil.Tile]string{
	hexutil.Wall:   "#5b4636",
	hexutil.Floor:  "#e8d96b",
	hexutil.Water:  "#3f7fbf",
	hexutil.Rough:  "#8fb35a",
	hexutil.Lamp:   "#fff3a0",
	hexutil.Target: "#d9534f",
}

// WriteSVG paints every tile overlapping r as a polygon on grid g. Hidden
// or unlit tiles are dimmed when opts carries a view; the path is drawn as
// a line through hex centers and the player as a dot.
func (l *Level) WriteSVG(w io.Writer, g hex.Grid, r hex.Rectangle, opts RenderOptions) error {
	light := opts.Light
	if light == nil {
		light = opts.View
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d">`+"\n",
		r.X, r.Y, r.Width, r.Height)
	for h := range g.HexesInRectangle(r) {
		t, ok := l.tiles[h]
		if !ok {
			continue
		}
		opacity := "1"
		if opts.View != nil && !opts.View.Lit(light, h) {
			opacity = "0.25"
		}
		corners := g.Corners(h)
		fmt.Fprintf(bw, `<polygon points="%s" fill="%s" fill-opacity="%s" stroke="#222" data-hex="%d,%d"/>`+"\n",
			svgPoints(corners[:]), fillFor(t), opacity, h.X(), h.Y())
	}
	if len(opts.Path) > 1 {
		pts := make([]hex.Point, len(opts.Path))
		for i, h := range opts.Path {
			pts[i] = g.Center(h)
		}
		fmt.Fprintf(bw, `<polyline points="%s" fill="none" stroke="#17a2b8" stroke-width="%d"/>`+"\n",
			svgPoints(pts), max(1, g.Height/3))
	}
	if l.hasPlayer {
		c := g.Center(l.player)
		fmt.Fprintf(bw, `<circle cx="%d" cy="%d" r="%d" fill="#a0208f"/>`+"\n", c.X, c.Y, max(1, g.Height))
	}
	fmt.Fprintln(bw, `</svg>`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("level: write svg: %w", err)
	}
	return nil
}

func fillFor(t hexutil.Tile) string {
	if f, ok := svgFill[t]; ok {
		return f
	}
	return svgFill[hexutil.Floor]
}

func svgPoints(pts []hex.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d,%d", p.X, p.Y)
	}
	return b.String()
}
