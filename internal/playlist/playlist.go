// Package playlist loads playlist files and renders them as selectable
// entries.
package playlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// file is the on-disk playlist layout.
type file struct {
	Title       string      `toml:"title"`
	Placeholder string      `toml:"placeholder"`
	Tracks      []trackFile `toml:"track"`
}

type trackFile struct {
	Title   string `toml:"title"`
	Artist  string `toml:"artist"`
	Artwork string `toml:"artwork"`
	Audio   string `toml:"audio"`
}

// Load reads a playlist file. Artwork and audio refs are resolved against
// the file's directory. Tracks without artwork get the file's placeholder,
// else the given one, else core.PlaceholderArtwork.
func Load(path, placeholder string) (*core.Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, tderrors.ErrPlaylistNotFound)
		}
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return Parse(data, path, placeholder)
}

// Parse decodes playlist data. path is used for naming and ref resolution
// and need not exist.
func Parse(data []byte, path, placeholder string) (*core.Playlist, error) {
	var f file
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", tderrors.ErrInvalidPlaylist, err)
	}
	if len(f.Tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", path, tderrors.ErrEmptyPlaylist)
	}

	dir := filepath.Dir(path)
	if f.Placeholder != "" {
		placeholder = f.Placeholder
	}
	if placeholder == "" {
		placeholder = core.PlaceholderArtwork
	}
	placeholder = resolve(dir, placeholder)

	tracks := make([]core.Track, 0, len(f.Tracks))
	for i, t := range f.Tracks {
		audio := strings.TrimSpace(t.Audio)
		if audio == "" {
			return nil, fmt.Errorf("%w: track %d has no audio", tderrors.ErrInvalidPlaylist, i+1)
		}

		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
		}

		artwork := placeholder
		if t.Artwork != "" {
			artwork = resolve(dir, t.Artwork)
		}

		tracks = append(tracks, core.Track{
			Title:      title,
			Artist:     strings.TrimSpace(t.Artist),
			ArtworkRef: artwork,
			AudioRef:   resolve(dir, audio),
		})
	}

	name := f.Title
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return core.NewPlaylist(name, tracks), nil
}

func resolve(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, filepath.FromSlash(ref))
}
