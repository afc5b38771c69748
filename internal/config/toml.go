// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Reports ReportsConfig `toml:"reports"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig maps database settings.
type StorageConfig struct {
	DB        *string `toml:"db"`
	ExportDir *string `toml:"export-dir"`
}

// ReportsConfig maps report defaults.
type ReportsConfig struct {
	Shift          *string `toml:"shift"`
	StopWindowDays *int    `toml:"stop-window-days"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr        *string  `toml:"addr"`
	CORSOrigins []string `toml:"cors-origins"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if cfg.Reports.StopWindowDays != nil && *cfg.Reports.StopWindowDays <= 0 {
		return FileConfig{}, fmt.Errorf("reports.stop-window-days must be positive")
	}
	return cfg, nil
}
