// Package solar evaluates the NOAA solar position series over Julian
// century values.
//
// Every exported formula takes a series.Series of Julian centuries and
// returns a Series of the same length. A length-one Series gives the
// scalar form. Angles are degrees at the API and radians inside.
package solar

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	msolar "github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/echoflaresat/sunbatch/series"
)

// SunApparentRadius is the apparent radius of the solar disc in degrees.
const SunApparentRadius = 32.0 / (60.0 * 2.0)

// MeanLongitude returns the geometric mean longitude of the sun in [0, 360).
func MeanLongitude(jc series.Series) series.Series { return jc.Map(meanLongitude) }

// MeanAnomaly returns the geometric mean anomaly of the sun.
func MeanAnomaly(jc series.Series) series.Series { return jc.Map(meanAnomaly) }

// EquationOfCenter returns the sun's equation of center.
func EquationOfCenter(jc series.Series) series.Series { return jc.Map(equationOfCenter) }

// TrueLongitude returns the sun's true longitude.
func TrueLongitude(jc series.Series) series.Series { return jc.Map(trueLongitude) }

// ApparentLongitude returns the sun's apparent longitude, corrected for
// nutation and aberration.
func ApparentLongitude(jc series.Series) series.Series { return jc.Map(apparentLongitude) }

// MeanObliquity returns the mean obliquity of the ecliptic.
func MeanObliquity(jc series.Series) series.Series { return jc.Map(meanObliquity) }

// ObliquityCorrection returns the corrected obliquity of the ecliptic.
func ObliquityCorrection(jc series.Series) series.Series { return jc.Map(obliquityCorrection) }

// Declination returns the sun's declination.
func Declination(jc series.Series) series.Series { return jc.Map(declination) }

// Eccentricity returns the eccentricity of Earth's orbit.
func Eccentricity(jc series.Series) series.Series { return jc.Map(eccentricity) }

// VarY returns tan²(ε/2) for the corrected obliquity ε.
func VarY(jc series.Series) series.Series { return jc.Map(varY) }

// EquationOfTime returns the equation of time in minutes.
func EquationOfTime(jc series.Series) series.Series { return jc.Map(equationOfTime) }

func meanLongitude(t float64) float64 {
	return unit.PMod(base.Horner(t, 280.46646, 36000.76983, 0.0003032), 360)
}

func meanAnomaly(t float64) float64 {
	return msolar.MeanAnomaly(t).Deg()
}

func eccentricity(t float64) float64 {
	return msolar.Eccentricity(t)
}

func omega(t float64) unit.Angle {
	return unit.AngleFromDeg(125.04 - 1934.136*t)
}

func equationOfCenter(t float64) float64 {
	m := meanAnomaly(t)
	sinm := unit.AngleFromDeg(m).Sin()
	sin2m := unit.AngleFromDeg(m + m).Sin()
	sin3m := unit.AngleFromDeg(m + m + m).Sin()
	return sinm*base.Horner(t, 1.914602, -0.004817, -0.000014) +
		sin2m*(0.019993-0.000101*t) +
		sin3m*0.000289
}

func trueLongitude(t float64) float64 {
	return meanLongitude(t) + equationOfCenter(t)
}

func apparentLongitude(t float64) float64 {
	return trueLongitude(t) - 0.00569 - 0.00478*omega(t).Sin()
}

func meanObliquity(t float64) float64 {
	seconds := base.Horner(t, 21.448, -46.815, -0.00059, 0.001813)
	return 23.0 + (26.0+(seconds/60.0))/60.0
}

func obliquityCorrection(t float64) float64 {
	return meanObliquity(t) + 0.00256*omega(t).Cos()
}

func declination(t float64) float64 {
	e := unit.AngleFromDeg(obliquityCorrection(t))
	lambda := unit.AngleFromDeg(apparentLongitude(t))
	return unit.Angle(math.Asin(e.Sin() * lambda.Sin())).Deg()
}

func varY(t float64) float64 {
	y := math.Tan(unit.AngleFromDeg(obliquityCorrection(t) / 2).Rad())
	return y * y
}

func equationOfTime(t float64) float64 {
	l0 := meanLongitude(t)
	e := eccentricity(t)
	m := meanAnomaly(t)
	y := varY(t)

	sin2l0 := unit.AngleFromDeg(2 * l0).Sin()
	sinm := unit.AngleFromDeg(m).Sin()
	cos2l0 := unit.AngleFromDeg(2 * l0).Cos()
	sin4l0 := unit.AngleFromDeg(4 * l0).Sin()
	sin2m := unit.AngleFromDeg(2 * m).Sin()

	etime := y*sin2l0 -
		2.0*e*sinm +
		4.0*e*y*sinm*cos2l0 -
		0.5*y*y*sin4l0 -
		1.25*e*e*sin2m

	return unit.Angle(etime).Deg() * 4.0
}
