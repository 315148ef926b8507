// Package earth holds batches of observer locations on the Earth's surface.
package earth

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when latitudes and longitudes are not paired.
var ErrShapeMismatch = errors.New("latitude and longitude counts differ")

// Coordinates is a batch of observer locations. Lat[i] and Lon[i] are the
// latitude and longitude, in degrees, of location i (north and east positive).
type Coordinates struct {
	Lat []float64
	Lon []float64
}

// Point returns a batch holding a single location.
func Point(lat, lon float64) Coordinates {
	return Coordinates{Lat: []float64{lat}, Lon: []float64{lon}}
}

// Len returns the number of locations.
func (c Coordinates) Len() int {
	return len(c.Lat)
}

// Validate checks that every latitude has a longitude.
func (c Coordinates) Validate() error {
	if len(c.Lat) != len(c.Lon) {
		return fmt.Errorf("%w: %d latitudes, %d longitudes", ErrShapeMismatch, len(c.Lat), len(c.Lon))
	}
	return nil
}

// Slice returns locations [lo, hi). The result shares storage with c.
func (c Coordinates) Slice(lo, hi int) Coordinates {
	return Coordinates{Lat: c.Lat[lo:hi], Lon: c.Lon[lo:hi]}
}

// Append adds a location to the batch.
func (c *Coordinates) Append(lat, lon float64) {
	c.Lat = append(c.Lat, lat)
	c.Lon = append(c.Lon, lon)
}

// Grid returns the centres of an equirectangular width × height raster in
// row-major order, starting at the north-west corner.
func Grid(width, height int) Coordinates {
	if width <= 0 || height <= 0 {
		return Coordinates{Lat: []float64{}, Lon: []float64{}}
	}
	n := width * height
	c := Coordinates{Lat: make([]float64, 0, n), Lon: make([]float64, 0, n)}
	for y := 0; y < height; y++ {
		lat := 90.0 - (float64(y)+0.5)*180.0/float64(height)
		for x := 0; x < width; x++ {
			lon := -180.0 + (float64(x)+0.5)*360.0/float64(width)
			c.Append(lat, lon)
		}
	}
	return c
}
