package timebase

import (
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/echoflaresat/sunbatch/series"
)

// JulianDay returns the Julian day number at 00:00 UTC of d.
func JulianDay(d Date) float64 {
	return julian.CalendarGregorianToJD(d.Year, int(d.Month), float64(d.Day))
}

// CenturyFromDay converts a Julian day to Julian centuries since J2000.0.
func CenturyFromDay(jd float64) float64 {
	return (jd - base.J2000) / base.JulianCentury
}

// DayFromCentury converts Julian centuries since J2000.0 to a Julian day.
// It is the inverse of CenturyFromDay.
func DayFromCentury(jc float64) float64 {
	return jc*base.JulianCentury + base.J2000
}

// Centuries applies CenturyFromDay to every Julian day in jd.
func Centuries(jd series.Series) series.Series {
	return jd.Map(CenturyFromDay)
}

// Days applies DayFromCentury to every Julian century in jc.
func Days(jc series.Series) series.Series {
	return jc.Map(DayFromCentury)
}
