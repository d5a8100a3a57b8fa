package core

// PlaceholderArtwork is used when a track has no artwork of its own.
const PlaceholderArtwork = "images/placeholder.png"

// Track represents one playable item in a playlist.
type Track struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkRef string `json:"artwork"`
	AudioRef   string `json:"audio"`
}

// Label returns "Artist — Title", or just the title when the artist is unknown.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " — " + t.Title
}
