// Package render draws equirectangular maps of solar quantities.
package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/echoflaresat/sunbatch/colors"
	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/timebase"
	"github.com/echoflaresat/sunbatch/transit"
)

// Palette maps a day length onto a color. Night is used for polar night,
// Day for polar day, and everything in between is blended.
type Palette struct {
	Night      colors.Color4
	Day        colors.Color4
	Saturation float64
}

var DefaultPalette = Palette{
	Night:      colors.New(0.02, 0.03, 0.12, 1.0),
	Day:        colors.New(1.00, 0.86, 0.40, 1.0),
	Saturation: 1.2,
}

// Smoothstep performs a Hermite interpolation between 0 and 1 across [edge0, edge1].
// Returns 0 if x < edge0, 1 if x > edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}

	t := (x - edge0) / (edge1 - edge0)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t * t * (3.0 - 2.0*t)
}

// BlendNightDayEnergyConserving blends day and night colors using an
// energy-conserving root-sum-square method to ensure a smooth transition.
func BlendNightDayEnergyConserving(CDay, CNight colors.Color4, light float64) colors.Color4 {
	r := math.Sqrt((1-light)*CNight.R*CNight.R + light*CDay.R*CDay.R)
	g := math.Sqrt((1-light)*CNight.G*CNight.G + light*CDay.G*CDay.G)
	b := math.Sqrt((1-light)*CNight.B*CNight.B + light*CDay.B*CDay.B)
	return colors.Color4{R: r, G: g, B: b, A: 1.0}
}

// Shade returns the color of a location whose sun is up for length.
func (p Palette) Shade(length time.Duration) colors.Color4 {
	light := Smoothstep(0, 24, length.Hours())
	c := BlendNightDayEnergyConserving(p.Day, p.Night, light)
	if p.Saturation > 0 {
		c = c.BoostSaturation(p.Saturation)
	}
	return c.Clamp01()
}

// DaylightMap renders a width × height equirectangular map of day length
// on date. Row 0 is the northern edge and column 0 is 180°W.
func DaylightMap(ctx context.Context, solver *transit.Solver, date timebase.Date, width, height int, p Palette, logger *zap.Logger) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", width, height)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	grid := earth.Grid(width, height)
	lengths, err := solver.DayLength(ctx, grid, date)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, p.Shade(lengths[y*width+x]).ToNRGBA())
		}
	}
	logger.Info("daylight map rendered",
		zap.Stringer("date", date),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Duration("elapsed", time.Since(start)))
	return img, nil
}
