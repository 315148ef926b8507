package transit

import (
	"math"
	"time"

	"github.com/echoflaresat/sunbatch/series"
	"github.com/echoflaresat/sunbatch/timebase"
)

// Transit is the instant the sun crosses a target zenith at one location.
// Valid is false when there is no crossing on the date; Time is then zero.
type Transit struct {
	Time  time.Time
	Valid bool
}

func (t Transit) String() string {
	if !t.Valid {
		return "none"
	}
	return t.Time.Format(time.RFC3339)
}

const minutesPerDay = 1440.0

// maxMinutes bounds the offsets that fit in a time.Duration.
const maxMinutes = float64(math.MaxInt64 / int64(time.Minute))

// Duration converts a fractional number of minutes to a time.Duration with
// microsecond resolution, truncating toward zero. ok is false for values
// that cannot be represented, including NaN and infinities.
func Duration(minutes float64) (d time.Duration, ok bool) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || math.Abs(minutes) >= maxMinutes {
		return 0, false
	}
	days := math.Trunc(minutes / minutesPerDay)
	minutes -= days * minutesPerDay
	seconds := minutes * 60
	whole := math.Trunc(seconds)
	micros := math.Trunc((seconds - whole) * 1e6)
	return time.Duration(days)*24*time.Hour +
		time.Duration(whole)*time.Second +
		time.Duration(micros)*time.Microsecond, true
}

// Timestamps adds each minute offset to midnight UTC of date. Offsets that
// are not representable become invalid transits.
func Timestamps(minutes series.Series, date timebase.Date) []Transit {
	midnight := date.Midnight()
	out := make([]Transit, len(minutes))
	for i, m := range minutes {
		if d, ok := Duration(m); ok {
			out[i] = Transit{Time: midnight.Add(d), Valid: true}
		}
	}
	return out
}
