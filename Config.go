package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds tool-level settings read from an optional TOML file.
type Config struct {
	LogLevel  string   `toml:"log_level"`
	LogFile   string   `toml:"log_file"`
	CachePath string   `toml:"cache_path"`
	CacheTTL  duration `toml:"cache_ttl"`
}

// duration lets TOML values like "12h" decode into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		LogFile:  "vmlint.log",
		CacheTTL: duration{12 * time.Hour},
	}
}

// LoadConfig reads the TOML file at path, keeping defaults for anything the
// file leaves unset. An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	return config, nil
}
