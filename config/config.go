// Package config loads settings from defaults, an optional TOML file, .env and
// MEMSPACE_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/placement"
)

const (
	FileName  = "memory-space"
	EnvPrefix = "MEMSPACE"
)

// Config is the resolved settings tree
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	View      ViewConfig      `mapstructure:"view"`
	Placement PlacementConfig `mapstructure:"placement"`
	Intro     IntroConfig     `mapstructure:"intro"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Log       LogConfig       `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	ContextPath string        `mapstructure:"context_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ViewConfig struct {
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
	FPS        int     `mapstructure:"fps"`
}

type PlacementConfig struct {
	// LegacySeed hashes hotspot keys in declaration order instead of sorted
	LegacySeed bool `mapstructure:"legacy_seed"`
}

// SeedMode maps LegacySeed to the placement seed mode
func (p PlacementConfig) SeedMode() placement.SeedMode {
	if p.LegacySeed {
		return placement.SeedOrdered
	}
	return placement.SeedSorted
}

type IntroConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.context_path", "/MemorySpace")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("storage.backend", kvstore.BackendFile)
	v.SetDefault("storage.path", defaultDataDir())

	v.SetDefault("session.ttl", 12*time.Hour)

	v.SetDefault("view.cell_width", 8.0)
	v.SetDefault("view.cell_height", 16.0)
	v.SetDefault("view.fps", 60)

	v.SetDefault("placement.legacy_seed", false)
	v.SetDefault("intro.enabled", true)

	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0.5)

	v.SetDefault("log.debug", false)
	v.SetDefault("log.dir", "logs")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "memory-space", "data")
	}
	return "data"
}

// Load resolves settings. An explicit file must exist; otherwise memory-space.toml is
// looked up in the working directory and the user config directory, and may be absent.
func Load(file string) (*Config, error) {
	// .env only seeds the process environment; a missing file is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "memory-space"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kvstore.BackendMemory, kvstore.BackendFile, kvstore.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend %q: want memory, file or sqlite", c.Storage.Backend)
	}
	if c.View.CellWidth <= 0 || c.View.CellHeight <= 0 {
		return fmt.Errorf("view cell size %gx%g must be positive", c.View.CellWidth, c.View.CellHeight)
	}
	if c.View.FPS <= 0 || c.View.FPS > 240 {
		return fmt.Errorf("view.fps %d out of range 1..240", c.View.FPS)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume %g out of range 0..1", c.Audio.Volume)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}
