package timebase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/sunbatch/series"
	"github.com/echoflaresat/sunbatch/timebase"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name string
		date timebase.Date
		want float64
	}{
		{"J2000 day", timebase.NewDate(2000, 1, 1), 2451544.5},
		{"Unix epoch", timebase.NewDate(1970, 1, 1), 2440587.5},
		{"2024-01-01", timebase.NewDate(2024, 1, 1), 2460310.5},
		{"March equinox 2024", timebase.NewDate(2024, 3, 20), 2460389.5},
		{"leap day", timebase.NewDate(2024, 2, 29), 2460369.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, timebase.JulianDay(tt.date), 1e-9)
		})
	}
}

func TestCenturyFromDay(t *testing.T) {
	assert.Equal(t, 0.0, timebase.CenturyFromDay(2451545.0))
	assert.InDelta(t, 1.0, timebase.CenturyFromDay(2451545.0+36525.0), 1e-15)
	assert.InDelta(t, 0.2421492128678987,
		timebase.CenturyFromDay(timebase.JulianDay(timebase.NewDate(2024, 3, 20))), 1e-15)
}

func TestRoundTrip(t *testing.T) {
	for _, jd := range []float64{0, 1721425.5, 2440587.5, 2451545.0, 2460389.5, 2460389.5 + 0.123456, 5373484.5} {
		got := timebase.DayFromCentury(timebase.CenturyFromDay(jd))
		assert.InDelta(t, jd, got, 1e-8, "jd %v", jd)
	}

	days := series.Series{2440587.5, 2451545.0, 2460389.75}
	back := timebase.Days(timebase.Centuries(days))
	require.Len(t, back, len(days))
	for i := range days {
		assert.InDelta(t, days[i], back[i], 1e-8)
	}
}

func TestDate(t *testing.T) {
	d, err := timebase.ParseDate("2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, timebase.Date{Year: 2024, Month: time.March, Day: 20}, d)
	assert.Equal(t, "2024-03-20", d.String())
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), d.Midnight())
	assert.Equal(t, timebase.NewDate(2024, 3, 1), timebase.NewDate(2024, 2, 30))
	assert.Equal(t, timebase.NewDate(2023, 12, 31), timebase.NewDate(2024, 1, 1).AddDays(-1))

	local := time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("X", -3600))
	assert.Equal(t, timebase.NewDate(2024, 6, 1), timebase.DateOf(local))

	_, err = timebase.ParseDate("20-03-2024")
	assert.ErrorIs(t, err, timebase.ErrInvalidDate)
}
