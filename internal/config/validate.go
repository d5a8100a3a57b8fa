package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Playlist.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playlist: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Remote.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("remote: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlaylistConfig for errors.
func (c *PlaylistConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path must be set")
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	var errs []error
	if c.StartIndex < 0 {
		errs = append(errs, errors.New("start_index must be non-negative"))
	}
	if c.SkipDelay < 0 {
		errs = append(errs, errors.New("skip_delay must be non-negative"))
	}
	if c.TickInterval < 10 {
		errs = append(errs, errors.New("tick_interval must be at least 10ms"))
	}
	if c.Volume < 0 || c.Volume > 100 {
		errs = append(errs, errors.New("volume must be between 0 and 100"))
	}
	return errors.Join(errs...)
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	return nil
}

// Validate checks RemoteConfig for errors.
func (c *RemoteConfig) Validate() error {
	if c.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr: %w", err)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSize < 0 || c.MaxBackups < 0 || c.MaxAge < 0 {
		return errors.New("rotation limits must be non-negative")
	}
	return nil
}
