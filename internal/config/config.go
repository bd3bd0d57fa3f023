// Package config handles loading, saving and watching the daemon's
// configuration file.
package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const configFileName = "nct7904d.json"

// Config is the daemon configuration. The zero value is not useful;
// start from Default.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `json:"listen_addr"`

	// BusDriver selects the bus implementation: "i2cdev" for the raw
	// /dev/i2c-N driver, "periph" for the periph.io driver.
	BusDriver string `json:"bus_driver"`

	// BusPath is the adapter path (i2cdev) or bus name (periph).
	BusPath string `json:"bus_path"`

	// ChipAddr is the chip's 7-bit bus address. The chip straps to
	// 0x2D or 0x2E.
	ChipAddr uint16 `json:"chip_addr"`

	// PollIntervalMS is the sensor poll interval in milliseconds.
	PollIntervalMS int `json:"poll_interval_ms"`

	// MDNS enables zeroconf service registration.
	MDNS bool `json:"mdns"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ListenAddr:     ":8090",
		BusDriver:      "i2cdev",
		BusPath:        "/dev/i2c-0",
		ChipAddr:       0x2D,
		PollIntervalMS: 2000,
		MDNS:           true,
	}
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Store reads and writes the config file in a config directory.
type Store struct {
	path string
}

// NewStore creates a store for the given config directory.
func NewStore(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, configFileName)}
}

// Path returns the file path used by this store.
func (s *Store) Path() string { return s.path }

// Load reads the config from disk. A missing file yields Default; a
// corrupt file is logged and also yields Default rather than refusing
// to start.
func (s *Store) Load() (Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config: corrupt config file, using defaults", "path", s.path, "err", err)
		return Default(), nil
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = Default().PollIntervalMS
	}
	return cfg, nil
}

// Save writes the config atomically: temp file then rename.
func (s *Store) Save(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
