package config

// Config is the root configuration structure.
type Config struct {
	Playlist PlaylistConfig `toml:"playlist" json:"playlist"`
	Playback PlaybackConfig `toml:"playback" json:"playback"`
	TUI      TUIConfig      `toml:"tui" json:"tui"`
	Remote   RemoteConfig   `toml:"remote" json:"remote"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// PlaylistConfig selects the playlist file.
type PlaylistConfig struct {
	Path        string `toml:"path" json:"path"`
	Placeholder string `toml:"placeholder" json:"placeholder"`
}

// PlaybackConfig holds playback behaviour settings. Durations are in
// milliseconds.
type PlaybackConfig struct {
	Autoplay     bool `toml:"autoplay" json:"autoplay"`
	StartIndex   int  `toml:"start_index" json:"start_index"`
	SkipDelay    int  `toml:"skip_delay" json:"skip_delay"`
	TickInterval int  `toml:"tick_interval" json:"tick_interval"`
	Volume       int  `toml:"volume" json:"volume"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme   string `toml:"theme" json:"theme"`
	Artwork bool   `toml:"artwork" json:"artwork"`
	Mouse   bool   `toml:"mouse" json:"mouse"`
}

// RemoteConfig holds settings for the local inspection server.
type RemoteConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Addr    string `toml:"addr" json:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level" json:"level"`
	File       string `toml:"file" json:"file"`
	MaxSize    int    `toml:"max_size" json:"max_size"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAge     int    `toml:"max_age" json:"max_age"`
	Compress   bool   `toml:"compress" json:"compress"`
}
