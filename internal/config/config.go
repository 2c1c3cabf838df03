// Package config loads service configuration from a TOML file with
// environment overrides. A missing file yields defaults, so the server
// runs out of the box.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tomalden/twospades/engine"
)

// Config represents the service configuration.
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Game configuration
	Game GameConfig `toml:"game"`

	// Strategy tuning for the computer opponent
	Strategy engine.StrategyConfig `toml:"strategy"`
}

// ServerConfig contains HTTP server and backing-service settings.
type ServerConfig struct {
	ListenAddr    string `toml:"listen_addr"`    // Address to serve HTTP on
	SessionSecret string `toml:"session_secret"` // HMAC secret for session tokens
	RedisAddr     string `toml:"redis_addr"`     // Historian queue; empty disables
	DatabaseURL   string `toml:"database_url"`   // Postgres DSN; empty disables
	Debug         bool   `toml:"debug"`          // Debug logging and computer-hand reveal
}

// GameConfig contains gameplay settings.
type GameConfig struct {
	TargetScore int `toml:"target_score"` // Winning score, 0 = standard 300
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:    ":8080",
			SessionSecret: "",
			RedisAddr:     "",
			DatabaseURL:   "",
			Debug:         false,
		},
		Game: GameConfig{
			TargetScore: engine.DefaultTargetScore,
		},
		Strategy: engine.DefaultStrategyConfig(),
	}
}

// Load loads the configuration from the given path, falling back to
// defaults when the file does not exist, then applies environment
// overrides and validates.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv overlays environment variables on file values. The
// environment wins so deployments can override a checked-in file.
func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Server.SessionSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Server.RedisAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Server.DatabaseURL = v
	}
	if v := os.Getenv("DEBUG"); v == "1" || v == "true" {
		c.Server.Debug = true
	}
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.Game.TargetScore < 0 {
		return fmt.Errorf("target score cannot be negative: %d", c.Game.TargetScore)
	}
	if c.Strategy.MaxBid < 1 || c.Strategy.MaxBid > 10 {
		return fmt.Errorf("strategy max bid must be within 1..10: %d", c.Strategy.MaxBid)
	}
	if c.Strategy.BlindBid < 5 || c.Strategy.BlindBid > 10 {
		return fmt.Errorf("strategy blind bid must be within 5..10: %d", c.Strategy.BlindBid)
	}
	return nil
}
