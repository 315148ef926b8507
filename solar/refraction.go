package solar

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// RefractionAtZenith returns the atmospheric refraction correction, in
// degrees, for the sun seen at the given zenith angle.
func RefractionAtZenith(zenith float64) float64 {
	elevation := 90 - zenith
	if elevation >= 85.0 {
		return 0
	}
	te := math.Tan(unit.AngleFromDeg(elevation).Rad())

	var arcsec float64
	switch {
	case elevation > 5.0:
		arcsec = 58.1/te - 0.07/(te*te*te) + 0.000086/(te*te*te*te*te)
	case elevation > -0.575:
		arcsec = base.Horner(elevation, 1735.0, -518.2, 103.4, -12.79, 0.711)
	default:
		arcsec = -20.774 / te
	}
	return arcsec / 3600.0
}
