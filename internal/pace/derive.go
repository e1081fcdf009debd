package pace

import (
	"fmt"
	"iter"
	"math/bits"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"
)

// Placeholder is shown when the total duration is undefined.
const Placeholder = "—"

// Total returns the time needed to cover distance meters at the given pace.
// It is defined only when both inputs are positive.
func Total(pace time.Duration, distance int) (time.Duration, bool) {
	if pace <= 0 || distance <= 0 {
		return 0, false
	}
	return elapsedAt(pace, distance), true
}

// Splits yields the split table: one row per positive multiple of interval
// up to and including distance. The sequence is empty unless all inputs are
// positive and may be ranged over any number of times.
func Splits(pace time.Duration, interval, distance int) iter.Seq[model.Split] {
	return func(yield func(model.Split) bool) {
		if pace <= 0 || interval <= 0 || distance <= 0 {
			return
		}
		for marker := interval; marker <= distance; marker += interval {
			if !yield(model.Split{Marker: marker, Elapsed: elapsedAt(pace, marker)}) {
				return
			}
			if marker > distance-interval {
				return
			}
		}
	}
}

// SplitCount returns the number of rows Splits yields.
func SplitCount(pace time.Duration, interval, distance int) int {
	if pace <= 0 || interval <= 0 || distance <= 0 {
		return 0
	}
	return distance / interval
}

// elapsedAt computes pace_seconds * meters / 1000 truncated to whole
// seconds, saturating at the largest representable duration.
func elapsedAt(pace time.Duration, meters int) time.Duration {
	secs := uint64(pace / time.Second)
	hi, lo := bits.Mul64(secs, uint64(meters))
	if hi >= 1000 {
		return time.Duration(maxPaceSeconds) * time.Second
	}
	q, _ := bits.Div64(hi, lo, 1000)
	if q > uint64(maxPaceSeconds) {
		return time.Duration(maxPaceSeconds) * time.Second
	}
	return time.Duration(q) * time.Second
}

// FormatClock renders d as zero-padded "MM:SS". Minutes are not folded into
// hours.
func FormatClock(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTotal renders a total duration, or placeholder when undefined.
func FormatTotal(d time.Duration, ok bool, placeholder string) string {
	if !ok {
		return placeholder
	}
	return FormatClock(d)
}

// FormatSplit renders one split row as "<marker>m: MM:SS".
func FormatSplit(s model.Split) string {
	return fmt.Sprintf("%dm: %s", s.Marker, FormatClock(s.Elapsed))
}
