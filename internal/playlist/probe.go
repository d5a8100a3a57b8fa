package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/tessro/tapedeck/internal/audio"
	"github.com/tessro/tapedeck/internal/core"
	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// Info describes a track's audio file on disk.
type Info struct {
	Index    int        `json:"index"`
	Track    core.Track `json:"track"`
	Size     int64      `json:"size"`
	Duration float64    `json:"duration"`

	// Err is set when the file could not be read.
	Err error `json:"-"`
}

// Probe stats a track's audio file and reads its duration.
// WAV headers are read directly; other formats are decoded.
func Probe(t core.Track) (Info, error) {
	info := Info{Track: t}

	st, err := os.Stat(t.AudioRef)
	if err != nil {
		return info, fmt.Errorf("%s: %w", t.Title, err)
	}
	info.Size = st.Size()

	if strings.EqualFold(filepath.Ext(t.AudioRef), ".wav") {
		info.Duration, err = wavDuration(t.AudioRef)
	} else {
		info.Duration, err = decodedDuration(t.AudioRef)
	}
	if err != nil {
		return info, fmt.Errorf("%s: %w", t.Title, err)
	}
	return info, nil
}

// ProbeAll probes every track. A failed probe still yields an Info with
// whatever could be learned.
func ProbeAll(p *core.Playlist) *tderrors.PartialResult[[]Info] {
	result := &tderrors.PartialResult[[]Info]{}
	for i, t := range p.Tracks() {
		info, err := Probe(t)
		info.Index = i
		info.Err = err
		result.Data = append(result.Data, info)
		result.AddError(err)
	}
	return result
}

func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0, fmt.Errorf("%w: not a valid wav file", tderrors.ErrUnsupportedFormat)
	}
	dur, err := d.Duration()
	if err != nil {
		return 0, err
	}
	return dur.Seconds(), nil
}

func decodedDuration(path string) (float64, error) {
	stream, format, err := audio.Decode(path)
	if err != nil {
		return 0, err
	}
	defer stream.Close()
	return format.SampleRate.D(stream.Len()).Seconds(), nil
}
