// Package progress maps playback time to the progress display and maps
// pointer positions on the progress track back to seek targets.
package progress

import (
	"fmt"
	"math"

	"github.com/tessro/tapedeck/internal/core"
)

// FormatTime formats seconds as m:ss. Non-finite and negative values
// format as 0:00.
func FormatTime(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Percent returns current/duration as a percentage in [0, 100].
// It is 0 when the duration is unknown, non-finite or not positive.
func Percent(current, duration float64) float64 {
	if !finite(duration) || duration <= 0 || !finite(current) {
		return 0
	}
	return clamp(current/duration, 0, 1) * 100
}

// Compute builds the progress display for a position and duration.
func Compute(current, duration float64) core.Progress {
	d := "0:00"
	if finite(duration) {
		d = FormatTime(duration)
	}
	return core.Progress{
		Percent:  Percent(current, duration),
		Current:  FormatTime(current),
		Duration: d,
	}
}

// Ratio maps a pointer x coordinate on a track starting at left with the
// given width to a position in [0, 1].
func Ratio(x, left, width float64) float64 {
	if !finite(width) || width <= 0 || !finite(x) || !finite(left) {
		return 0
	}
	return clamp((x-left)/width, 0, 1)
}

// Target returns the seek position for ratio, or false when the duration
// is not known and positive.
func Target(ratio, duration float64) (float64, bool) {
	if !finite(duration) || duration <= 0 {
		return 0, false
	}
	if !finite(ratio) {
		ratio = 0
	}
	return clamp(ratio, 0, 1) * duration, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
