// Package config loads service settings from defaults, an optional TOML
// file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Session SessionConfig `toml:"session"`
}

type ServerConfig struct {
	Port       string `toml:"port"`
	DataRoot   string `toml:"data_root"`
	SeedSample bool   `toml:"seed_sample"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// CanvasConfig sizes rendered SVG documents.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type SessionConfig struct {
	MaxSessions int `toml:"max_sessions"` // 0 means unlimited
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8081", DataRoot: "./topologies", SeedSample: true},
		Log:     LogConfig{Level: "info", Format: "text"},
		Canvas:  CanvasConfig{Width: 1000, Height: 800},
		Session: SessionConfig{MaxSessions: 1000},
	}
}

// Load reads .env if present, then the TOML file named by TOPOGRAPH_CONFIG,
// then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := Default()

	if path := os.Getenv("TOPOGRAPH_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATA_ROOT"); v != "" {
		cfg.Server.DataRoot = v
	}
	if v := os.Getenv("TOPOGRAPH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TOPOGRAPH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TOPOGRAPH_SEED_SAMPLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOPOGRAPH_SEED_SAMPLE: %w", err)
		}
		cfg.Server.SeedSample = b
	}
	if v := os.Getenv("TOPOGRAPH_MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOPOGRAPH_MAX_SESSIONS: %w", err)
		}
		cfg.Session.MaxSessions = n
	}
	for name, dst := range map[string]*float64{
		"TOPOGRAPH_CANVAS_WIDTH":  &cfg.Canvas.Width,
		"TOPOGRAPH_CANVAS_HEIGHT": &cfg.Canvas.Height,
	} {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
	}
	return nil
}
