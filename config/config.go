// Package config loads tool defaults from an optional TOML file.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the tool configuration
type Config struct {
	// Emulator settings
	Emulator struct {
		MaxSteps   uint64 `toml:"max_steps"`   // 0 = run to halt
		OutputFile string `toml:"output_file"` // default dump target, "" = stdout
	} `toml:"emulator"`

	// Assembler settings
	Assembler struct {
		PrintSymbols bool `toml:"print_symbols"`
	} `toml:"assembler"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Emulator.MaxSteps = 0
	cfg.Emulator.OutputFile = ""
	cfg.Assembler.PrintSymbols = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "armv8-emulator")

	default:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "armv8-emulator")
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the config file from the standard location. A missing file is
// not an error: defaults are returned.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads the config file at the given path, falling back to
// defaults when it does not exist
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
