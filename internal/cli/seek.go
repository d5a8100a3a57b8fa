package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUnknownDuration = errors.New("track duration is not known yet")

// parseSeek turns a seek argument into a ratio of the track. It accepts a
// ratio ("0.5"), a percentage ("50%") or a position ("1:30"); positions
// need the track duration.
func parseSeek(arg string, duration float64) (float64, error) {
	arg = strings.TrimSpace(arg)

	var ratio float64
	switch {
	case strings.HasSuffix(arg, "%"):
		pct, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", arg)
		}
		ratio = pct / 100

	case strings.Contains(arg, ":"):
		mins, secs, _ := strings.Cut(arg, ":")
		m, err := strconv.Atoi(mins)
		if err != nil || m < 0 {
			return 0, fmt.Errorf("invalid position %q (use m:ss)", arg)
		}
		s, err := strconv.ParseFloat(secs, 64)
		if err != nil || s < 0 || s >= 60 {
			return 0, fmt.Errorf("invalid position %q (use m:ss)", arg)
		}
		if duration <= 0 {
			return 0, errUnknownDuration
		}
		ratio = (float64(m)*60 + s) / duration

	default:
		r, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seek position %q", arg)
		}
		ratio = r
	}

	if ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("seek position %q is outside the track", arg)
	}
	return ratio, nil
}
