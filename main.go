package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/tiff"

	"github.com/echoflaresat/sunbatch/colors"
	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/render"
	"github.com/echoflaresat/sunbatch/timebase"
	"github.com/echoflaresat/sunbatch/transit"
)

type config struct {
	lat, lon             *float64
	coords               *string
	date                 *string
	event, depression    *string
	workers, chunk       *int
	mapOut               *string
	width, height        *int
	dayColor, nightColor *string
	logLevel             *string
	showHelp             *bool
}

func defineFlags() config {
	return config{
		lat:    flag.Float64("lat", 51.4779, "Latitude in degrees, north positive"),
		lon:    flag.Float64("lon", -0.0015, "Longitude in degrees, east positive"),
		coords: flag.String("coords", "", "Coordinate file: CSV (lat,lon or name,lat,lon) or YAML; overrides -lat/-lon"),
		date:   flag.String("date", "", "Date as YYYY-MM-DD; defaults to the file's date, then today (UTC)"),

		event:      flag.String("event", "sunrise", "One of sunrise, sunset, dawn, dusk, noon, daylength"),
		depression: flag.String("depression", "civil", "Twilight depression for dawn/dusk: civil, nautical, astronomical or degrees"),

		workers: flag.Int("workers", 0, "Concurrent chunks (0 uses GOMAXPROCS)"),
		chunk:   flag.Int("chunk", 4096, "Locations per chunk"),

		mapOut:     flag.String("map", "", "Write a day length map to this .png or .tif file"),
		width:      flag.Int("width", 720, "Map width in pixels"),
		height:     flag.Int("height", 360, "Map height in pixels"),
		dayColor:   flag.String("day-color", render.DefaultPalette.Day.Hex(), "Map color for 24h of daylight"),
		nightColor: flag.String("night-color", render.DefaultPalette.Night.Hex(), "Map color for polar night"),

		logLevel: flag.String("log-level", "info", "Log level: debug, info, warn, error"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `sunbatch - Sunrise, sunset and twilight times for batches of locations

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Locations", []string{"lat", "lon", "coords", "date"})
	printGroup("Event", []string{"event", "depression"})
	printGroup("Performance", []string{"workers", "chunk"})
	printGroup("Map", []string{"map", "width", "height", "day-color", "night-color"})
	printGroup("Misc", []string{"log-level", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

// settings are the parsed and validated command line options.
type settings struct {
	batch      *batch
	date       timebase.Date
	event      string
	depression float64
	workers    int
	chunk      int
	mapOut     string
	width      int
	height     int
	palette    render.Palette
}

func (c config) settings() (settings, error) {
	s := settings{
		event:   strings.ToLower(*c.event),
		workers: *c.workers,
		chunk:   *c.chunk,
		mapOut:  *c.mapOut,
		width:   *c.width,
		height:  *c.height,
		palette: render.DefaultPalette,
	}
	if err := checkEvent(s.event); err != nil {
		return s, err
	}
	var err error
	if s.depression, err = parseDepression(*c.depression); err != nil {
		return s, err
	}
	if s.palette.Day, err = colors.ParseHex(*c.dayColor); err != nil {
		return s, err
	}
	if s.palette.Night, err = colors.ParseHex(*c.nightColor); err != nil {
		return s, err
	}

	if *c.coords != "" {
		if s.batch, err = loadBatch(*c.coords); err != nil {
			return s, err
		}
	} else {
		s.batch = &batch{}
		s.batch.add("point", *c.lat, *c.lon)
	}

	switch {
	case *c.date != "":
		if s.date, err = timebase.ParseDate(*c.date); err != nil {
			return s, err
		}
	case s.batch.date != nil:
		s.date = *s.batch.date
	default:
		s.date = timebase.DateOf(time.Now().UTC())
	}
	return s, nil
}

func checkEvent(event string) error {
	switch event {
	case "sunrise", "sunset", "dawn", "dusk", "noon", "daylength":
		return nil
	}
	return fmt.Errorf("unknown event %q", event)
}

func parseDepression(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "civil":
		return transit.DepressionCivil, nil
	case "nautical":
		return transit.DepressionNautical, nil
	case "astronomical":
		return transit.DepressionAstronomical, nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid depression %q", s)
	}
	return d, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	return cfg.Build()
}

func main() {

	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	logger, err := newLogger(*cfg.logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	s, err := cfg.settings()
	if err != nil {
		logger.Fatal("invalid options", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, s, logger, os.Stdout); err != nil {
		logger.Fatal("sunbatch failed", zap.Error(err))
	}
}

func run(ctx context.Context, s settings, logger *zap.Logger, out io.Writer) error {
	opts := []transit.Option{
		transit.WithLogger(logger),
		transit.WithChunkSize(s.chunk),
	}
	if s.workers > 0 {
		opts = append(opts, transit.WithWorkers(s.workers))
	}
	solver, err := transit.NewSolver(opts...)
	if err != nil {
		return err
	}

	logger.Info("solving",
		zap.String("event", s.event),
		zap.Stringer("date", s.date),
		zap.Int("locations", s.batch.coords.Len()))

	values, err := solve(ctx, solver, s.event, s.batch.coords, s.date, s.depression)
	if err != nil {
		return err
	}
	if err := writeResults(out, s.batch, s.event, values); err != nil {
		return err
	}

	if s.mapOut == "" {
		return nil
	}
	img, err := render.DaylightMap(ctx, solver, s.date, s.width, s.height, s.palette, logger)
	if err != nil {
		return err
	}
	if err := writeImage(s.mapOut, img); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.mapOut, err)
	}
	logger.Info("map written", zap.String("path", s.mapOut))
	return nil
}

// solve returns the formatted result of event for every location.
func solve(ctx context.Context, solver *transit.Solver, event string, c earth.Coordinates, date timebase.Date, depression float64) ([]string, error) {
	var (
		transits []transit.Transit
		err      error
	)
	switch event {
	case "sunrise":
		transits, err = solver.Sunrise(ctx, c, date)
	case "sunset":
		transits, err = solver.Sunset(ctx, c, date)
	case "dawn":
		transits, err = solver.Dawn(ctx, c, date, depression)
	case "dusk":
		transits, err = solver.Dusk(ctx, c, date, depression)
	case "noon":
		transits, err = solver.Noon(ctx, c, date)
	case "daylength":
		lengths, err := solver.DayLength(ctx, c, date)
		if err != nil {
			return nil, err
		}
		values := make([]string, len(lengths))
		for i, l := range lengths {
			values[i] = l.Truncate(time.Second).String()
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unknown event %q", event)
	}
	if err != nil {
		return nil, err
	}
	values := make([]string, len(transits))
	for i, t := range transits {
		values[i] = t.String()
	}
	return values, nil
}

func writeResults(out io.Writer, b *batch, event string, values []string) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"name", "lat", "lon", event}); err != nil {
		return err
	}
	for i, v := range values {
		lat, lon := b.coords.Lat[i], b.coords.Lon[i]
		rec := []string{
			b.names[i],
			strconv.FormatFloat(lat, 'f', -1, 64),
			strconv.FormatFloat(lon, 'f', -1, 64),
			v,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeImage(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return writePNG(path, img)
	case ".tif", ".tiff":
		return writeTIFF(path, img)
	}
	return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}

func writeTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
}
