// Package config loads the id3scan CLI configuration from TOML.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/simonhull/id3scan/internal/id3v2"
	"github.com/simonhull/id3scan/internal/logging"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the resolved CLI configuration.
type Config struct {
	LogLevel     zerolog.Level
	SearchLimit  int
	Concurrency  int
	AnyExtension bool
	Strict       bool
	Format       string
}

type fileConfig struct {
	LogLevel     string `toml:"log_level"`
	SearchLimit  int    `toml:"search_limit"`
	Concurrency  int    `toml:"concurrency"`
	AnyExtension bool   `toml:"any_extension"`
	Strict       bool   `toml:"strict"`
	Format       string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:    zerolog.InfoLevel,
		SearchLimit: id3v2.SearchLimit,
		Concurrency: runtime.NumCPU(),
		Format:      FormatText,
	}
}

// Load overlays the keys defined in the TOML file at path on Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		level, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("search_limit") {
		cfg.SearchLimit = raw.SearchLimit
	}

	if meta.IsDefined("concurrency") {
		cfg.Concurrency = raw.Concurrency
	}

	if meta.IsDefined("any_extension") {
		cfg.AnyExtension = raw.AnyExtension
	}

	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatText, FormatJSON, c.Format)
	}
	return nil
}
