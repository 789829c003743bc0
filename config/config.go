// Package config loads the daemon configuration from a YAML file with
// environment-variable expansion, so secrets like the Sleeper username can
// come from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Sleeper  SleeperConfig  `yaml:"sleeper"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Playoffs PlayoffsConfig `yaml:"playoffs"`
	Players  PlayersConfig  `yaml:"players"`
	Log      LogConfig      `yaml:"log"`
	Prefs    PrefsConfig    `yaml:"prefs"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type SleeperConfig struct {
	Username string `yaml:"username"`
	// Season overrides the season reported by Sleeper's NFL state
	// endpoint. Zero means use whatever the platform says.
	Season int `yaml:"season"`
}

type RefreshConfig struct {
	// Interval is how often the periodic refresh loop wakes up. Leagues
	// inside their TTL are skipped, so this can be short.
	Interval time.Duration `yaml:"interval"`
	LiveTTL  time.Duration `yaml:"live_ttl"`
	IdleTTL  time.Duration `yaml:"idle_ttl"`
	// FetchTimeout bounds a single matchup fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type PlayoffsConfig struct {
	// FallbackWeekStart marks weeks as playoffs when a league's settings
	// don't say when its bracket begins.
	FallbackWeekStart int `yaml:"fallback_week_start"`
}

type PlayersConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PrefsConfig struct {
	ShowEliminatedLeagues bool `yaml:"show_eliminated_leagues"`
}

// Load reads configuration from a YAML file, expanding ${VAR} references
// from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 30 * time.Second
	}
	if c.Refresh.LiveTTL == 0 {
		c.Refresh.LiveTTL = 15 * time.Second
	}
	if c.Refresh.IdleTTL == 0 {
		c.Refresh.IdleTTL = 5 * time.Minute
	}
	if c.Refresh.FetchTimeout == 0 {
		c.Refresh.FetchTimeout = 30 * time.Second
	}

	if c.Playoffs.FallbackWeekStart == 0 {
		c.Playoffs.FallbackWeekStart = 15
	}

	if c.Players.UpdateInterval == 0 {
		c.Players.UpdateInterval = 24 * time.Hour
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Sleeper.Username == "" {
		return errors.New("sleeper.username is required")
	}
	return nil
}

// Default returns the configuration used when no file is present. The
// Sleeper username still has to come from somewhere, so callers must set it.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
