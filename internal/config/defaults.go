package config

// DefaultRemoteAddr is where the inspection server listens by default.
const DefaultRemoteAddr = "127.0.0.1:7878"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Playlist: PlaylistConfig{
			Path: "playlist.toml",
		},
		Playback: PlaybackConfig{
			Autoplay:     false,
			StartIndex:   0,
			SkipDelay:    800,
			TickInterval: 250,
			Volume:       100,
		},
		TUI: TUIConfig{
			Theme:   "auto",
			Artwork: true,
			Mouse:   true,
		},
		Remote: RemoteConfig{
			Enabled: false,
			Addr:    DefaultRemoteAddr,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
// Booleans cannot be told apart from an explicit false and are left alone.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Playlist
	if c.Playlist.Path == "" {
		c.Playlist.Path = d.Playlist.Path
	}

	// Playback
	if c.Playback.SkipDelay == 0 {
		c.Playback.SkipDelay = d.Playback.SkipDelay
	}
	if c.Playback.TickInterval == 0 {
		c.Playback.TickInterval = d.Playback.TickInterval
	}
	if c.Playback.Volume == 0 {
		c.Playback.Volume = d.Playback.Volume
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Remote
	if c.Remote.Addr == "" {
		c.Remote.Addr = d.Remote.Addr
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = d.Log.MaxAge
	}
}
