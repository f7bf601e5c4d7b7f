package level

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/gravitas-015/hexutil"
	"github.com/gravitas-015/hexutil/hex"
)

// GenConfig holds level generation parameters.
type GenConfig struct {
	Seed           int64   // Random seed (0 = random)
	Size           int     // Steps of the random walk that carves the floor
	NoiseScale     float64 // Frequency of the terrain noise
	RoughThreshold float64 // Noise above this turns floor into rough ground (0.0–1.0)
	WaterThreshold float64 // Noise below this turns floor into water (0.0–1.0)
	LampEvery      int     // Place a lamp on every n-th new floor hex (0 = no lamps)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:           500,
		NoiseScale:     0.15,
		RoughThreshold: 0.68,
		WaterThreshold: 0.22,
	}
}

// Generate carves a level with a random walk from the origin, then uses
// simplex noise to roughen or flood parts of it. The player starts at the
// origin, which is always floor; the target is the walked hex farthest
// from it.
func Generate(cfg GenConfig) *Level {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	noise := opensimplex.NewNormalized(seed)

	l := New()
	target := hex.Origin
	carved := 0
	for _, h := range hex.Origin.RandomWalk(cfg.Size, rng) {
		if h.Distance(hex.Origin) > target.Distance(hex.Origin) {
			target = h
		}
		if _, ok := l.tiles[h]; ok {
			continue
		}
		carved++
		l.tiles[h] = terrain(noise, cfg, h)
		if cfg.LampEvery > 0 && carved%cfg.LampEvery == 0 && h != hex.Origin {
			l.tiles[h] = hexutil.Lamp
			l.lamps = append(l.lamps, h)
		}
	}
	l.tiles[hex.Origin] = hexutil.Floor
	l.SetPlayer(hex.Origin)
	if l.Passable(target) {
		l.SetTarget(target)
	}
	return l
}

func terrain(noise opensimplex.Noise, cfg GenConfig, h hex.Hex) hexutil.Tile {
	// equilateral layout with neighbouring centers one unit apart
	x := float64(h.X()) / 2.0
	y := float64(h.Y()) * math.Sqrt(3.0) / 2.0
	n := noise.Eval2(x*cfg.NoiseScale, y*cfg.NoiseScale)
	switch {
	case n > cfg.RoughThreshold:
		return hexutil.Rough
	case n < cfg.WaterThreshold:
		return hexutil.Water
	}
	return hexutil.Floor
}
