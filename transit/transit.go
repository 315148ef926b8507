// Package transit computes, for batches of locations sharing one date, the
// UTC instants at which the sun crosses a target zenith angle: sunrise,
// sunset, twilight and solar noon.
//
// The solver runs two passes. Pass one evaluates declination and the
// equation of time once for the date. Pass two re-evaluates both at each
// location's pass-one estimate.
package transit

import (
	"math"

	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/series"
	"github.com/echoflaresat/sunbatch/solar"
	"github.com/echoflaresat/sunbatch/timebase"
)

// Zenith angles, in degrees, of the standard solar events.
const (
	StandardZenith = 90.0 + solar.SunApparentRadius
)

// Depression angles, in degrees below the horizon, of the twilight events.
const (
	DepressionCivil        = 6.0
	DepressionNautical     = 12.0
	DepressionAstronomical = 18.0
)

// day holds the date-only quantities of pass one.
type day struct {
	date       timebase.Date
	zenith     float64
	refraction float64
	jc         series.Series
	decl       series.Series
	eqTime     series.Series
}

func newDay(date timebase.Date, zenith float64) day {
	jc := series.Of(timebase.CenturyFromDay(timebase.JulianDay(date)))
	return day{
		date:       date,
		zenith:     zenith,
		refraction: solar.RefractionAtZenith(zenith),
		jc:         jc,
		decl:       solar.Declination(jc),
		eqTime:     solar.EquationOfTime(jc),
	}
}

// clockMinutes converts hour angles into minutes after midnight UTC.
func clockMinutes(lon, ha, eqTime series.Series) series.Series {
	return series.Zip3(lon, ha, eqTime, func(lon, ha, eq float64) float64 {
		delta := -lon - 180*ha/math.Pi
		return 720.0 + 4.0*delta - eq
	})
}

// minutes runs both passes. It returns the pass-two minutes after midnight
// and the pass-two hour angle ratio; minutes are NaN where the ratio is
// outside [-1, 1] or pass one found no crossing.
func (d day) minutes(c earth.Coordinates, direction Direction) (minutes, ratio series.Series) {
	lat, lon := series.Series(c.Lat), series.Series(c.Lon)

	ha := HourAngle(lat, d.decl, d.zenith-d.refraction, direction)
	minutes = clockMinutes(lon, ha, d.eqTime)

	jc := series.Zip(timebase.Days(d.jc), minutes, func(jd, m float64) float64 {
		return timebase.CenturyFromDay(jd + m/minutesPerDay)
	})

	decl := solar.Declination(jc)
	ratio = HourAngleRatio(lat, decl, d.zenith+d.refraction)
	ha = hourAngle(ratio, direction)
	minutes = clockMinutes(lon, ha, solar.EquationOfTime(jc))
	return minutes, ratio
}

func (d day) solve(c earth.Coordinates, direction Direction) ([]Transit, series.Series) {
	minutes, ratio := d.minutes(c, direction)
	out := Timestamps(minutes, d.date)
	for i, r := range ratio {
		if !inDomain(r) {
			out[i] = Transit{}
		}
	}
	return out, ratio
}

// TimeOfTransit returns, for every location, the instant on date at which
// the sun crosses zenith (degrees) in the given direction. The result is
// index-aligned with lat and lon. Locations where the crossing does not
// occur get an invalid Transit. The only error is earth.ErrShapeMismatch.
func TimeOfTransit(lat, lon []float64, date timebase.Date, zenith float64, direction Direction) ([]Transit, error) {
	c := earth.Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out, _ := newDay(date, zenith).solve(c, direction)
	return out, nil
}

// Sunrise returns the sunrise instants for each location on date.
func Sunrise(lat, lon []float64, date timebase.Date) ([]Transit, error) {
	return TimeOfTransit(lat, lon, date, StandardZenith, Rising)
}

// Sunset returns the sunset instants for each location on date.
func Sunset(lat, lon []float64, date timebase.Date) ([]Transit, error) {
	return TimeOfTransit(lat, lon, date, StandardZenith, Setting)
}

// Dawn returns the instants the sun rises to depression degrees below the
// horizon, e.g. DepressionCivil.
func Dawn(lat, lon []float64, date timebase.Date, depression float64) ([]Transit, error) {
	return TimeOfTransit(lat, lon, date, 90+depression, Rising)
}

// Dusk is the evening counterpart of Dawn.
func Dusk(lat, lon []float64, date timebase.Date, depression float64) ([]Transit, error) {
	return TimeOfTransit(lat, lon, date, 90+depression, Setting)
}

// Noon returns the instant of solar noon for each longitude on date.
func Noon(lon []float64, date timebase.Date) []Transit {
	return newDay(date, StandardZenith).noon(lon)
}

// noon evaluates the equation of time at each location's mean noon.
func (d day) noon(lon []float64) []Transit {
	jc := series.Zip(timebase.Days(d.jc), series.Series(lon), func(jd, lon float64) float64 {
		return timebase.CenturyFromDay(jd + (720.0-4*lon)/minutesPerDay)
	})
	minutes := series.Zip(series.Series(lon), solar.EquationOfTime(jc), func(lon, eq float64) float64 {
		return 720.0 - 4*lon - eq
	})
	return Timestamps(minutes, d.date)
}
