package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	tderrors "github.com/tessro/tapedeck/internal/errors"
)

// Decoder opens an audio ref and returns a seekable stream.
type Decoder func(ref string) (beep.StreamSeekCloser, beep.Format, error)

// Supported reports whether the ref's extension has a decoder.
func Supported(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".mp3", ".wav", ".flac", ".ogg", ".oga":
		return true
	}
	return false
}

// Decode opens a local audio file, picking the decoder by extension.
func Decode(ref string) (beep.StreamSeekCloser, beep.Format, error) {
	if !Supported(ref) {
		return nil, beep.Format{}, fmt.Errorf("%s: %w", ref, tderrors.ErrUnsupportedFormat)
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	default:
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(ref), err)
	}

	return stream, format, nil
}
