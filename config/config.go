// Package config loads assembler options from a TOML file, the way the
// teacher loads its own emulator configuration: a struct of grouped
// settings, a DefaultConfig, and Load/Save helpers layered under CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler's configurable options. Every field is loaded
// and saved, but the CLI reads only Xref.Enabled; the pipeline does not read
// the others (it always starts an address-less START at 0, names literals
// _L0000 onward, caps Text records at 30 bytes and rejects duplicate labels).
type Config struct {
	// Assemble settings
	Assemble struct {
		DefaultStart     string `toml:"default_start"` // START address for a program that omits one
		LiteralPrefix    string `toml:"literal_prefix"` // label prefix for literal pool entries
		RejectDuplicates bool   `toml:"reject_duplicate_labels"`
	} `toml:"assemble"`

	// Output settings
	Output struct {
		RecordWidth int  `toml:"record_width"` // max data bytes per Text record
		ColorOutput bool `toml:"color_output"`
	} `toml:"output"`

	// Xref settings
	Xref struct {
		Enabled bool   `toml:"enabled"`
		Format  string `toml:"format"` // text, csv
	} `toml:"xref"`

	// Browser settings
	Browser struct {
		ShowSource  bool `toml:"show_source"`
		ShowSymbols bool `toml:"show_symbols"`
	} `toml:"browser"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assemble.DefaultStart = "0"
	cfg.Assemble.LiteralPrefix = "_L"
	cfg.Assemble.RejectDuplicates = true

	cfg.Output.RecordWidth = 30
	cfg.Output.ColorOutput = true

	cfg.Xref.Enabled = false
	cfg.Xref.Format = "text"

	cfg.Browser.ShowSource = true
	cfg.Browser.ShowSymbols = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "sicxe-asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "sicxe-asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
