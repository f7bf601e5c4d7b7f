package level

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/path"
)

const testmap1 = `
 # # # # # # # # #
# # # # # # # # # #
 # . # # # # # # #
# # . # # # # # # #
 # # # . . . . # #
# # # . @ # # . # #
 # # ~ % . # # . #
# # ~ # % # # # # #
 # # T % # # # # #
# # # # # # # # # #
`

const testmap1View = `



      # # # #
     # . . .
    # . @ #
   # ~ . . #
  # ~ # . #
   #   . #
      # #
`

const testmap2 = `
 # # # # # # # # #
# # # # # # # # # #
 # . # # # * # # #
# # . # # . # # # #
 # # # . % % % # #
# # . . @ # # % # #
 # . # . # # # T #
# # # # . . # # # #
 # # . . . . # # #
# # # # # # # # # #
`

const testmap2View = `

          # #
           * #
          .
       . . .
      . @
     # . #
      # .


`

func mustParse(t *testing.T, src string) *Level {
	t.Helper()
	l, err := Parse(src)
	require.NoError(t, err)
	return l
}

func view(t *testing.T, l *Level, distance int) RenderOptions {
	t.Helper()
	player, err := l.Player()
	require.NoError(t, err)
	return RenderOptions{
		View:  fov.FieldOfView(player, l.Transparent, distance),
		Light: l.Light(distance),
	}
}

func TestParseMarkers(t *testing.T) {
	l := mustParse(t, testmap2)

	player, err := l.Player()
	require.NoError(t, err)
	assert.Equal(t, hex.MustNew(8, 6), player)
	target, err := l.Target()
	require.NoError(t, err)
	assert.Equal(t, hex.MustNew(15, 7), target)
	assert.Equal(t, []hex.Hex{hex.MustNew(11, 3)}, l.Lamps())

	assert.Equal(t, hexutil.Floor, l.Tile(player))
	assert.Equal(t, hexutil.Floor, l.Tile(hex.MustNew(9, 5)))
	assert.Equal(t, hexutil.Wall, l.Tile(hex.MustNew(100, 0)))
	assert.True(t, l.Passable(target))
	assert.False(t, l.Transparent(hex.MustNew(1, 1)))
}

func TestParseRejectsOddCell(t *testing.T) {
	_, err := Parse("#.\n")
	assert.ErrorIs(t, err, hex.ErrInvalidHex)

	l := mustParse(t, "#\n")
	_, err = l.Player()
	assert.ErrorIs(t, err, ErrNoPlayer)
	_, err = l.Target()
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.Nil(t, l.Light(5))
}

func TestRenderWithoutViewReproducesSource(t *testing.T) {
	for _, src := range []string{testmap1, testmap2} {
		l := mustParse(t, src)
		assert.Equal(t, strings.ReplaceAll(src, "%", "."), l.Render(RenderOptions{}))
	}
}

func TestFieldOfViewMap1(t *testing.T) {
	l := mustParse(t, testmap1)
	assert.Equal(t, testmap1View, l.Render(view(t, l, 10)))
}

func TestFieldOfViewMap2Lit(t *testing.T) {
	l := mustParse(t, testmap2)
	assert.Equal(t, testmap2View, l.Render(view(t, l, 10)))
}

func TestPathMaps(t *testing.T) {
	for i, src := range []string{testmap1, testmap2} {
		l := mustParse(t, src)
		player, err := l.Player()
		require.NoError(t, err)
		target, err := l.Target()
		require.NoError(t, err)

		p := path.FindPath(player, target, l.Passable)
		require.NotNil(t, p, "map %d", i+1)
		assert.Equal(t, src, l.Render(RenderOptions{Path: p[:len(p)-1]}), "map %d", i+1)
	}
}

func TestRenderColorPlain(t *testing.T) {
	color.Enable = false
	defer func() { color.Enable = true }()

	l := mustParse(t, testmap1)
	opts := view(t, l, 10)
	var buf bytes.Buffer
	require.NoError(t, l.RenderColor(&buf, opts))
	assert.Equal(t, l.Render(opts)+"\n", buf.String())
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42
	cfg.LampEvery = 25
	a, b := Generate(cfg), Generate(cfg)
	assert.Equal(t, a.Render(RenderOptions{}), b.Render(RenderOptions{}))

	player, err := a.Player()
	require.NoError(t, err)
	assert.Equal(t, hex.Origin, player)
	assert.Equal(t, hexutil.Floor, a.Tile(hex.Origin))
	assert.Greater(t, a.Len(), 1)
	assert.LessOrEqual(t, a.Len(), cfg.Size+1)
	assert.NotEmpty(t, a.Lamps())
	for _, lamp := range a.Lamps() {
		assert.Equal(t, hexutil.Lamp, a.Tile(lamp))
	}
	for _, h := range a.Floors() {
		assert.True(t, a.Passable(h))
	}
}

func TestGenerateWeightsRough(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	cfg.RoughThreshold = -1
	cfg.WaterThreshold = -1
	l := Generate(cfg)
	for _, h := range l.Floors() {
		if h == hex.Origin {
			assert.Equal(t, 1, l.Cost(h))
			continue
		}
		assert.Equal(t, hexutil.RoughCost, l.Cost(h), "%v", h)
	}
}

func TestGenerateRenderCoversLevel(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 3
	cfg.Size = 60
	l := Generate(cfg)
	out := l.Render(RenderOptions{})
	assert.Equal(t, 1, strings.Count(out, "@"))
	assert.Equal(t, l.Len()-1, strings.Count(out, ".")+strings.Count(out, ",")+strings.Count(out, "~"))
}

func TestWriteSVG(t *testing.T) {
	l := mustParse(t, testmap1)
	g := hex.NewGrid(32)
	opts := view(t, l, 10)
	player, _ := l.Player()
	target, _ := l.Target()
	opts.Path = path.FindPath(player, target, l.Passable)

	var buf bytes.Buffer
	require.NoError(t, l.WriteSVG(&buf, g, l.PixelBounds(g), opts))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Equal(t, l.Len(), strings.Count(out, "<polygon"))
	assert.Contains(t, out, `data-hex="8,6"`)
	assert.Contains(t, out, "<polyline")
	assert.Contains(t, out, "<circle")
}

func TestPixelBounds(t *testing.T) {
	l := New()
	l.Set(hex.Origin, hexutil.Floor)
	g := hex.NewGrid(32)
	assert.Equal(t, g.BoundingBox(hex.Origin), l.PixelBounds(g))

	l.Set(hex.MustNew(4, 2), hexutil.Floor)
	r := l.PixelBounds(g)
	assert.Equal(t, hex.Rectangle{X: -32, Y: -36, Width: 192, Height: 180}, r)
}

func TestWindow(t *testing.T) {
	l := mustParse(t, testmap1)
	rows := l.Window(6, 5, 5, 3, RenderOptions{})
	assert.Equal(t, [][]byte{
		[]byte(" . . "),
		[]byte(". @ #"),
		[]byte(" . . "),
	}, rows)

	// outside the source lines everything reads as wall or blank
	rows = l.Window(-2, -1, 4, 1, RenderOptions{})
	assert.Equal(t, [][]byte{[]byte("    ")}, rows)
	assert.Empty(t, l.Window(0, 0, 3, 0, RenderOptions{}))
}
