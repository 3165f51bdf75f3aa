package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// config is the effective CLI configuration: defaults, overlaid by the config
// file, overlaid by flags set on the command line.
type config struct {
	Format   string
	LogLevel string
	Strict   bool
	Hex      bool
}

func defaultConfig() config {
	return config{Format: "json", LogLevel: "warn"}
}

// bincodec.toml key mapping to config.
type fileConfig struct {
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
	Strict   bool   `toml:"strict"`
	Hex      bool   `toml:"hex"`
}

// loadConfig overlays the keys defined in the TOML file at path onto cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown keys %v", undecoded)
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("hex") {
		cfg.Hex = raw.Hex
	}
	return cfg, nil
}
