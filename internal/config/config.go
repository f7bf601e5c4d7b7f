package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gravitas-015/hexutil/hex"
	"github.com/gravitas-015/hexutil/internal/level"
)

// Config holds all configuration for hexserver and hexview
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	Level   LevelConfig   `yaml:"level"`
	View    ViewConfig    `yaml:"view"`
	Path    PathConfig    `yaml:"path"`
	Grid    GridConfig    `yaml:"grid"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TickRate int    `yaml:"tick_rate"` // Hz
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
}

// AuthConfig holds player token settings. An empty secret disables
// authentication and players connect anonymously.
type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// RedisConfig holds Redis connection settings. An empty address disables
// the token blacklist.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// SessionConfig holds game session settings
type SessionConfig struct {
	MaxPlayers int `yaml:"max_players"`
}

// LevelConfig holds level generation settings
type LevelConfig struct {
	Map            string  `yaml:"map"` // ASCII map file; generated when empty
	Seed           int64   `yaml:"seed"`
	Size           int     `yaml:"size"`
	NoiseScale     float64 `yaml:"noise_scale"`
	RoughThreshold float64 `yaml:"rough_threshold"`
	WaterThreshold float64 `yaml:"water_threshold"`
	LampEvery      int     `yaml:"lamp_every"`
}

// ViewConfig holds field of view settings
type ViewConfig struct {
	MaxDistance int `yaml:"max_distance"`
}

// PathConfig holds path finding settings
type PathConfig struct {
	StepsPerTick int `yaml:"steps_per_tick"`
}

// GridConfig holds the pixel layout used for SVG output and hex picking
type GridConfig struct {
	HexWidth int `yaml:"hex_width"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, fills in defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	gen := level.DefaultGenConfig()

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TickRate == 0 {
		c.Server.TickRate = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Redis.BlacklistPrefix == "" {
		c.Redis.BlacklistPrefix = "blacklist:"
	}
	if c.Session.MaxPlayers == 0 {
		c.Session.MaxPlayers = 100
	}
	if c.Level.Size == 0 {
		c.Level.Size = gen.Size
	}
	if c.Level.NoiseScale == 0 {
		c.Level.NoiseScale = gen.NoiseScale
	}
	if c.Level.RoughThreshold == 0 {
		c.Level.RoughThreshold = gen.RoughThreshold
	}
	if c.Level.WaterThreshold == 0 {
		c.Level.WaterThreshold = gen.WaterThreshold
	}
	if c.View.MaxDistance == 0 {
		c.View.MaxDistance = 10
	}
	if c.Path.StepsPerTick == 0 {
		c.Path.StepsPerTick = 50
	}
	if c.Grid.HexWidth == 0 {
		c.Grid.HexWidth = 32
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("server.tick_rate must be positive, got %d", c.Server.TickRate))
	}
	if c.Session.MaxPlayers <= 0 {
		errs = append(errs, fmt.Errorf("session.max_players must be positive, got %d", c.Session.MaxPlayers))
	}
	if c.Level.Size < 0 {
		errs = append(errs, fmt.Errorf("level.size must not be negative, got %d", c.Level.Size))
	}
	if c.View.MaxDistance <= 0 {
		errs = append(errs, fmt.Errorf("view.max_distance must be positive, got %d", c.View.MaxDistance))
	}
	if c.Path.StepsPerTick <= 0 {
		errs = append(errs, fmt.Errorf("path.steps_per_tick must be positive, got %d", c.Path.StepsPerTick))
	}
	if c.Grid.HexWidth <= 0 {
		errs = append(errs, fmt.Errorf("grid.hex_width must be positive, got %d", c.Grid.HexWidth))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogLevel returns the configured zerolog level, info when unparsable.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GenConfig converts the level section for level.Generate.
func (c *Config) GenConfig() level.GenConfig {
	return level.GenConfig{
		Seed:           c.Level.Seed,
		Size:           c.Level.Size,
		NoiseScale:     c.Level.NoiseScale,
		RoughThreshold: c.Level.RoughThreshold,
		WaterThreshold: c.Level.WaterThreshold,
		LampEvery:      c.Level.LampEvery,
	}
}

// LoadLevel parses level.map when set and generates a level otherwise.
func (c *Config) LoadLevel() (*level.Level, error) {
	if c.Level.Map == "" {
		return level.Generate(c.GenConfig()), nil
	}
	data, err := os.ReadFile(c.Level.Map)
	if err != nil {
		return nil, fmt.Errorf("failed to read level map: %w", err)
	}
	l, err := level.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse level map %s: %w", c.Level.Map, err)
	}
	return l, nil
}

// HexGrid returns the pixel grid described by the grid section.
func (c *Config) HexGrid() hex.Grid {
	return hex.NewGrid(c.Grid.HexWidth)
}
