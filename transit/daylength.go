package transit

import (
	"math"
	"time"

	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/series"
	"github.com/echoflaresat/sunbatch/timebase"
)

const fullDay = 24 * time.Hour

// DayLength returns, for every location, the time between sunrise and
// sunset on date. Locations in polar day get 24h and locations in polar
// night get 0.
func DayLength(lat, lon []float64, date timebase.Date) ([]time.Duration, error) {
	c := earth.Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return newDay(date, StandardZenith).dayLength(c), nil
}

func (d day) dayLength(c earth.Coordinates) []time.Duration {
	rise, riseRatio := d.solve(c, Rising)
	set, setRatio := d.solve(c, Setting)
	dateRatio := HourAngleRatio(series.Series(c.Lat), d.decl, d.zenith+d.refraction)

	out := make([]time.Duration, c.Len())
	for i := range out {
		switch {
		case rise[i].Valid && set[i].Valid:
			length := set[i].Time.Sub(rise[i].Time) % fullDay
			if length < 0 {
				length += fullDay
			}
			out[i] = length
		case !rise[i].Valid:
			out[i] = missingLength(riseRatio[i], dateRatio.At(i))
		default:
			out[i] = missingLength(setRatio[i], dateRatio.At(i))
		}
	}
	return out
}

// missingLength resolves a location with no sunrise or no sunset to polar
// day or polar night. refined is the pass-two ratio of the missing event.
// When pass one already failed it is NaN and the date's ratio decides.
func missingLength(refined, date float64) time.Duration {
	r := refined
	if math.IsNaN(r) {
		r = date
	}
	if r < -1 {
		return fullDay
	}
	return 0
}
