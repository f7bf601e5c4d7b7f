package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/internal/level"
	"github.com/gravitas-015/hexutil/path"
)

const (
	frameRate = 16 * time.Millisecond
	// frames between two steps along a found route
	walkEvery = 4
)

// keyboard layout of the six directions: w e / a d / z x
var keyDirections = map[rune]int{
	'd': 0,
	'x': 1,
	'z': 2,
	'a': 3,
	'w': 4,
	'e': 5,
}

var (
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleGlyphs = map[byte]tcell.Style{
		'@':                  tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
		'%':                  tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true),
		byte(hexutil.Wall):   tcell.StyleDefault.Foreground(tcell.ColorGray),
		byte(hexutil.Floor):  tcell.StyleDefault.Foreground(tcell.ColorOlive),
		byte(hexutil.Water):  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		byte(hexutil.Rough):  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		byte(hexutil.Lamp):   tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		byte(hexutil.Target): tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}
)

type viewer struct {
	screen tcell.Screen
	lvl    *level.Level
	cfg    *config.Config
	rng    *rand.Rand

	player hex.Hex
	view   fov.Visibility
	light  fov.Visibility

	finder *path.Finder
	route  []hex.Hex
	frames int
	status string
}

func newViewer(screen tcell.Screen, lvl *level.Level, cfg *config.Config, rng *rand.Rand) (*viewer, error) {
	player, err := lvl.Player()
	if errors.Is(err, level.ErrNoPlayer) {
		floors := lvl.Floors()
		if len(floors) == 0 {
			return nil, fmt.Errorf("hexview: level has no floor")
		}
		player = floors[0]
	}
	v := &viewer{
		screen: screen,
		lvl:    lvl,
		cfg:    cfg,
		rng:    rng,
		player: player,
		light:  lvl.Light(cfg.View.MaxDistance),
		status: "move: w e a d z x   travel: t   quit: q",
	}
	v.look()
	return v, nil
}

func (v *viewer) look() {
	v.lvl.SetPlayer(v.player)
	v.view = fov.FieldOfView(v.player, v.lvl.Transparent, v.cfg.View.MaxDistance)
}

// handleKey applies a key press; false quits.
func (v *viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	if dir, ok := keyDirections[r]; ok {
		v.move(dir)
		return true
	}
	switch r {
	case 'q':
		return false
	case 't':
		v.travel()
	}
	return true
}

func (v *viewer) move(dir int) {
	next := v.player.Neighbour(dir)
	if !v.lvl.Passable(next) {
		v.status = fmt.Sprintf("blocked by %s at %v", v.lvl.Tile(next), next)
		return
	}
	v.finder = nil
	v.route = nil
	v.player = next
	v.status = v.player.String()
	v.look()
}

// travel starts a route search to the level target, or to a random
// reachable floor when the level has none or the player stands on it.
func (v *viewer) travel() {
	dest, err := v.lvl.Target()
	if err != nil || dest == v.player {
		reachable := path.Reachable(v.player, v.lvl.Passable, v.lvl.Len())[1:]
		if len(reachable) == 0 {
			v.status = "nowhere to go"
			return
		}
		dest = reachable[v.rng.Intn(len(reachable))]
	}
	v.route = nil
	v.finder = path.NewFinder(v.player, dest, v.lvl.Passable, path.WithCost(v.lvl.Cost))
	v.status = fmt.Sprintf("searching route to %v", dest)
}

// update advances one frame: a pending search gets path.steps_per_tick
// expansions, a found route advances every walkEvery frames.
func (v *viewer) update() {
	v.frames++
	if f := v.finder; f != nil {
		f.RunN(v.cfg.Path.StepsPerTick)
		if !f.Done() {
			return
		}
		v.finder = nil
		if !f.Found() {
			v.status = fmt.Sprintf("no route to %v (%d hexes searched)", f.Destination(), f.Expanded())
			return
		}
		v.route = f.Path()[1:]
		v.status = fmt.Sprintf("route of %d steps (%d hexes searched)", len(v.route), f.Expanded())
		return
	}
	if len(v.route) > 0 && v.frames%walkEvery == 0 {
		v.player, v.route = v.route[0], v.route[1:]
		v.look()
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	mapH := h - 1
	rows := v.lvl.Window(v.player.X()-w/2, v.player.Y()-mapH/2, w, mapH, level.RenderOptions{
		View:  v.view,
		Light: v.light,
		Path:  v.route,
	})
	for y, row := range rows {
		for x, ch := range row {
			style, ok := styleGlyphs[ch]
			if !ok {
				style = tcell.StyleDefault
			}
			v.screen.SetContent(x, y, rune(ch), nil, style)
		}
	}
	for x, r := range []rune(v.status) {
		if x >= w {
			break
		}
		v.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
	v.screen.Show()
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	v.draw()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.handleKey(ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}

		case <-ticker.C:
			v.update()
			v.draw()
		}
	}
}
