package transit

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/echoflaresat/sunbatch/series"
)

// Direction selects which crossing of the target zenith is wanted.
type Direction int

const (
	// Rising is the morning crossing, the sun ascending through the zenith.
	Rising Direction = iota
	// Setting is the evening crossing.
	Setting
)

func (d Direction) String() string {
	switch d {
	case Rising:
		return "rising"
	case Setting:
		return "setting"
	default:
		return "unknown"
	}
}

// HourAngleRatio returns cos(H) for the hour angle H at which the sun, at
// declination decl, is seen at zenith from latitude lat. All angles are in
// degrees. A value outside [-1, 1] means the sun never reaches the zenith:
// above 1 it stays below, below -1 it stays above.
func HourAngleRatio(lat, decl series.Series, zenith float64) series.Series {
	cosZenith := unit.AngleFromDeg(zenith).Cos()
	return series.Zip(lat, decl, func(lat, decl float64) float64 {
		phi, delta := unit.AngleFromDeg(lat), unit.AngleFromDeg(decl)
		return (cosZenith - phi.Sin()*delta.Sin()) / (phi.Cos() * delta.Cos())
	})
}

// HourAngle returns, in radians, the hour angle at which the sun crosses
// zenith. The angle is negated for Setting. Elements where the crossing
// does not happen are NaN.
func HourAngle(lat, decl series.Series, zenith float64, direction Direction) series.Series {
	return hourAngle(HourAngleRatio(lat, decl, zenith), direction)
}

func hourAngle(ratio series.Series, direction Direction) series.Series {
	return ratio.Map(func(h float64) float64 {
		if !inDomain(h) {
			return math.NaN()
		}
		ha := math.Acos(h)
		if direction == Setting {
			ha = -ha
		}
		return ha
	})
}

// inDomain reports whether a ratio is a valid cosine. It is false for NaN.
func inDomain(h float64) bool {
	return h >= -1 && h <= 1
}
