package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RenderConfig controls the text timeline renderer.
type RenderConfig struct {
	Width int  `mapstructure:"width"`
	Color bool `mapstructure:"color"`
}

// Config holds all runtime configuration for a montage session.
// Values are populated from .montage.yaml, MONTAGE_* env vars, a .env file and CLI flags.
type Config struct {
	Project          string       `mapstructure:"project"`
	JournalDB        string       `mapstructure:"journal_db"`
	Telemetry        string       `mapstructure:"telemetry"`
	Render           RenderConfig `mapstructure:"render"`
	UndoLimit        int          `mapstructure:"undo_limit"`
	StrictAnchors    bool         `mapstructure:"strict_anchors"`
	OverlapCacheSize int          `mapstructure:"overlap_cache_size"`
	Verbose          bool         `mapstructure:"verbose"`
}

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("project", "montage.toml")
	viper.SetDefault("journal_db", ".montage/journal.db")
	viper.SetDefault("telemetry", "")
	viper.SetDefault("render.width", 100)
	viper.SetDefault("render.color", true)
	viper.SetDefault("undo_limit", 0)
	viper.SetDefault("strict_anchors", true)
	viper.SetDefault("overlap_cache_size", 256)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Render.Width < 20 {
		return Config{}, fmt.Errorf("config: render.width %d is below the minimum of 20", cfg.Render.Width)
	}
	if cfg.UndoLimit < 0 {
		return Config{}, fmt.Errorf("config: undo_limit must not be negative, got %d", cfg.UndoLimit)
	}
	if cfg.OverlapCacheSize < 1 {
		return Config{}, fmt.Errorf("config: overlap_cache_size must be positive, got %d", cfg.OverlapCacheSize)
	}
	return cfg, nil
}
