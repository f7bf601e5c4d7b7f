// Command hexview explores a level in the terminal: field of view, lamp
// light and incremental path finding on the doubled-coordinate hex grid.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/gravitas-015/hexutil/fov"
	"github.com/gravitas-015/hexutil/internal/config"
	"github.com/gravitas-015/hexutil/internal/level"
	"github.com/gravitas-015/hexutil/internal/logging"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		seed       = flag.Int64("seed", 0, "level seed (0 = random)")
		size       = flag.Int("size", 0, "random walk steps of the generated level")
		distance   = flag.Int("distance", 0, "view distance")
		dump       = flag.Bool("dump", false, "print the level with the player's view and exit")
		mapFile    = flag.String("map", "", "ASCII level file instead of a generated level")
	)
	flag.Parse()

	log := logging.New(os.Stderr, zerolog.WarnLevel)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		log = log.Level(cfg.LogLevel())
	}
	if flag.CommandLine.Changed("seed") {
		cfg.Level.Seed = *seed
	}
	if flag.CommandLine.Changed("size") {
		cfg.Level.Size = *size
	}
	if flag.CommandLine.Changed("distance") {
		cfg.View.MaxDistance = *distance
	}
	if flag.CommandLine.Changed("map") {
		cfg.Level.Map = *mapFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid options")
	}
	if cfg.Level.Seed == 0 {
		cfg.Level.Seed = time.Now().UnixNano()
	}

	lvl, err := cfg.LoadLevel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load level")
	}
	log.Debug().Int64("seed", cfg.Level.Seed).Int("tiles", lvl.Len()).Msg("Level ready")

	if *dump {
		player, err := lvl.Player()
		if err != nil {
			log.Fatal().Err(err).Msg("Cannot dump level")
		}
		opts := level.RenderOptions{
			View:  fov.FieldOfView(player, lvl.Transparent, cfg.View.MaxDistance),
			Light: lvl.Light(cfg.View.MaxDistance),
		}
		if err := lvl.RenderColor(os.Stdout, opts); err != nil {
			log.Fatal().Err(err).Msg("Failed to render level")
		}
		return
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	v, err := newViewer(screen, lvl, cfg, rand.New(rand.NewSource(cfg.Level.Seed)))
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	v.run()
	screen.Fini()
}
