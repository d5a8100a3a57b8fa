package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
[playlist]
path = "/music/roadtrip.toml"

[playback]
autoplay = true
skip_delay = 1500

[tui]
theme = "light"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Playlist.Path != "/music/roadtrip.toml" {
		t.Errorf("Playlist.Path = %q", cfg.Playlist.Path)
	}
	if !cfg.Playback.Autoplay {
		t.Error("Playback.Autoplay = false, want true")
	}
	if cfg.Playback.SkipDelay != 1500 {
		t.Errorf("Playback.SkipDelay = %d, want 1500", cfg.Playback.SkipDelay)
	}
	if cfg.TUI.Theme != "light" {
		t.Errorf("TUI.Theme = %q, want light", cfg.TUI.Theme)
	}

	// Omitted values keep their defaults
	if cfg.Playback.TickInterval != 250 {
		t.Errorf("Playback.TickInterval = %d, want 250", cfg.Playback.TickInterval)
	}
	if !cfg.TUI.Artwork || !cfg.TUI.Mouse {
		t.Error("TUI booleans lost their defaults")
	}
	if cfg.Remote.Addr != DefaultRemoteAddr {
		t.Errorf("Remote.Addr = %q", cfg.Remote.Addr)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[playback\n")
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("TAPEDECK_PLAYLIST", "env.toml")
	t.Setenv("TAPEDECK_AUTOPLAY", "true")
	t.Setenv("TAPEDECK_SKIP_DELAY", "50")
	t.Setenv("TAPEDECK_LOG_LEVEL", "debug")
	t.Setenv("TAPEDECK_REMOTE_ADDR", "127.0.0.1:9999")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Playlist.Path != "env.toml" {
		t.Errorf("Playlist.Path = %q", cfg.Playlist.Path)
	}
	if !cfg.Playback.Autoplay {
		t.Error("Autoplay override ignored")
	}
	if cfg.Playback.SkipDelay != 50 {
		t.Errorf("SkipDelay = %d", cfg.Playback.SkipDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Remote.Addr != "127.0.0.1:9999" {
		t.Errorf("Remote.Addr = %q", cfg.Remote.Addr)
	}
}

func TestLoadSearchPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Playlist.Path != "playlist.toml" {
		t.Errorf("default Playlist.Path = %q", cfg.Playlist.Path)
	}
	if got, want := Path(), filepath.Join(home, ".config", "tapedeck", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	rc := filepath.Join(home, ".tapedeckrc")
	if err := os.WriteFile(rc, []byte("[tui]\ntheme = \"dark\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("TUI.Theme = %q, want dark", cfg.TUI.Theme)
	}
	if Path() != rc {
		t.Errorf("Path() = %q, want %q", Path(), rc)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	cfg := Default()
	cfg.Playback.Volume = 150
	cfg.Playback.SkipDelay = -1
	cfg.TUI.Theme = "neon"
	cfg.Remote.Addr = "nope"
	cfg.Log.Level = "trace"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}

	msg := err.Error()
	for _, want := range []string{"volume", "skip_delay", "invalid theme", "remote: invalid addr", "invalid log level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() error missing %q: %s", want, msg)
		}
	}
}

func TestDefaultLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultLogFile(); got != filepath.Join("/state", "tapedeck", "tapedeck.log") {
		t.Errorf("DefaultLogFile() = %q", got)
	}
}
