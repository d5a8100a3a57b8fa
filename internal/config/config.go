package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.tapedeckrc, $XDG_CONFIG_HOME/tapedeck/config.toml, ~/.config/tapedeck/config.toml
func Load() (*Config, error) {
	// Decode on top of the defaults so omitted booleans keep their default.
	cfg := Default()

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Path returns the file Load would read, or the preferred location for a
// new config file if none exists yet.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.toml")
}

// DefaultLogFile returns the log location used when the terminal UI owns
// stdout and no log file is configured.
func DefaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "tapedeck.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "tapedeck", "tapedeck.log")
}

func configDir() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "tapedeck")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	var paths []string

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tapedeckrc"))
	}
	paths = append(paths, filepath.Join(configDir(), "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Playlist
	if v := os.Getenv("TAPEDECK_PLAYLIST"); v != "" {
		cfg.Playlist.Path = v
	}

	// Playback
	if v := os.Getenv("TAPEDECK_AUTOPLAY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Playback.Autoplay = b
		}
	}
	if v := os.Getenv("TAPEDECK_SKIP_DELAY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Playback.SkipDelay = i
		}
	}
	if v := os.Getenv("TAPEDECK_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Playback.Volume = i
		}
	}

	// TUI
	if v := os.Getenv("TAPEDECK_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Remote
	if v := os.Getenv("TAPEDECK_REMOTE_ADDR"); v != "" {
		cfg.Remote.Addr = v
	}

	// Log
	if v := os.Getenv("TAPEDECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TAPEDECK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
