package core

// Playlist is a fixed, ordered sequence of tracks.
// It is built once at startup and never mutated afterwards.
type Playlist struct {
	name   string
	tracks []Track
}

// NewPlaylist creates a playlist from the given tracks. The slice is copied.
func NewPlaylist(name string, tracks []Track) *Playlist {
	t := make([]Track, len(tracks))
	copy(t, tracks)
	return &Playlist{name: name, tracks: t}
}

// Name returns the playlist's display name.
func (p *Playlist) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// At returns the track at index i.
func (p *Playlist) At(i int) (Track, bool) {
	if i < 0 || i >= p.Len() {
		return Track{}, false
	}
	return p.tracks[i], true
}

// Tracks returns a copy of all tracks in order.
func (p *Playlist) Tracks() []Track {
	if p == nil {
		return nil
	}
	t := make([]Track, len(p.tracks))
	copy(t, p.tracks)
	return t
}

// Next returns the index after i, wrapping to 0 past the end.
func (p *Playlist) Next(i int) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	return ((i+1)%n + n) % n
}

// Prev returns the index before i, wrapping to the last track before 0.
func (p *Playlist) Prev(i int) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	return ((i-1)%n + n) % n
}
