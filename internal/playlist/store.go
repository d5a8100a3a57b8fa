package playlist

import (
	"strings"

	"github.com/tessro/tapedeck/internal/core"
)

// Entry is one rendered, selectable playlist row.
type Entry struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Artwork string `json:"artwork"`
	Current bool   `json:"current"`
}

// Label returns the entry's display line.
func (e Entry) Label() string {
	if e.Artist == "" {
		return e.Title
	}
	return e.Title + " · " + e.Artist
}

// Matches reports whether the entry's title or artist contains query,
// ignoring case. An empty query matches everything.
func (e Entry) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), query) ||
		strings.Contains(strings.ToLower(e.Artist), query)
}

// Store exposes a playlist to the rendering surface.
type Store struct {
	playlist *core.Playlist
}

// NewStore creates a store over p.
func NewStore(p *core.Playlist) *Store {
	return &Store{playlist: p}
}

// Playlist returns the underlying playlist.
func (s *Store) Playlist() *core.Playlist {
	return s.playlist
}

// Entries renders every track. current marks the loaded track; pass -1 for
// none.
func (s *Store) Entries(current int) []Entry {
	tracks := s.playlist.Tracks()
	entries := make([]Entry, len(tracks))
	for i, t := range tracks {
		entries[i] = Entry{
			Index:   i,
			Title:   t.Title,
			Artist:  t.Artist,
			Artwork: t.ArtworkRef,
			Current: i == current,
		}
	}
	return entries
}

// Filter returns the entries matching query, keeping their indices.
func Filter(entries []Entry, query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.Matches(query) {
			out = append(out, e)
		}
	}
	return out
}
