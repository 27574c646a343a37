// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields were not set.
type FileConfig struct {
	Profile  ProfileConfig  `toml:"profile" koanf:"profile"`
	Practice PracticeConfig `toml:"practice" koanf:"practice"`
	Debate   DebateConfig   `toml:"debate" koanf:"debate"`
	Stats    StatsConfig    `toml:"stats" koanf:"stats"`
	Log      LogConfig      `toml:"log" koanf:"log"`
}

// ProfileConfig selects the local user.
type ProfileConfig struct {
	User *string `toml:"user" koanf:"user"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	LimitSeconds  *int    `toml:"limit-seconds" koanf:"limit-seconds"`
	TopicFile     *string `toml:"topic-file" koanf:"topic-file"`
	MaxDifficulty *int    `toml:"max-difficulty" koanf:"max-difficulty"`
}

// DebateConfig maps debate-related settings.
type DebateConfig struct {
	Minutes  *int    `toml:"minutes" koanf:"minutes"`
	Position *string `toml:"position" koanf:"position"`
}

// StatsConfig maps stats-related settings.
type StatsConfig struct {
	Window *string `toml:"window" koanf:"window"`
	Recent *int    `toml:"recent" koanf:"recent"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level" koanf:"level"`
	File  *string `toml:"file" koanf:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the TOML file at path and applies PODIUM_* environment overrides.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	return ApplyEnv(cfg)
}
