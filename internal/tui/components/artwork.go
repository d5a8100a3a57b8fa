package components

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/tessro/tapedeck/internal/tui/styles"
)

// Artwork renders cover images as half-block characters, two pixels per
// cell. Rendered art is cached per ref and size.
type Artwork struct {
	cache map[artKey]string
}

type artKey struct {
	ref           string
	width, height int
}

// NewArtwork creates a new Artwork component
func NewArtwork() *Artwork {
	return &Artwork{cache: make(map[artKey]string)}
}

// Render returns ref drawn into width×height cells. Images that cannot be
// read are drawn as a placeholder of the same size.
func (a *Artwork) Render(ref string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	key := artKey{ref, width, height}
	if s, ok := a.cache[key]; ok {
		return s
	}

	var s string
	if img, err := LoadImage(ref); err == nil {
		s = halfBlocks(img, width, height)
	} else {
		s = placeholder(width, height)
	}
	a.cache[key] = s
	return s
}

// LoadImage decodes a png, jpeg, gif, bmp or webp file.
func LoadImage(ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("no artwork")
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

func halfBlocks(src image.Image, width, height int) string {
	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bottom.R, bottom.G, bottom.B))).
				Render("▀"))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func placeholder(width, height int) string {
	fill := styles.Dim.Render(strings.Repeat("░", width))
	lines := make([]string, height)
	for y := range lines {
		lines[y] = fill
	}
	if height > 0 && width >= 3 {
		mid := height / 2
		pad := (width - 1) / 2
		lines[mid] = styles.Dim.Render(strings.Repeat("░", pad)) +
			styles.Highlight.Render("♪") +
			styles.Dim.Render(strings.Repeat("░", width-pad-1))
	}
	return strings.Join(lines, "\n")
}
