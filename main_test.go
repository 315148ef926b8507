package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/tiff"

	"github.com/echoflaresat/sunbatch/timebase"
	"github.com/echoflaresat/sunbatch/transit"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadCSVBatch(t *testing.T) {
	path := writeFile(t, "places.csv", `# capitals
name,lat,lon
London, 51.5074, -0.1278
Sydney,-33.8688,151.2093
0,0
`)
	b, err := loadBatch(path)
	require.NoError(t, err)
	assert.Nil(t, b.date)
	assert.Equal(t, []string{"London", "Sydney", "#3"}, b.names)
	assert.Equal(t, []float64{51.5074, -33.8688, 0}, b.coords.Lat)
	assert.Equal(t, []float64{-0.1278, 151.2093, 0}, b.coords.Lon)
}

func TestCSVBatchErrors(t *testing.T) {
	_, err := parseCSVBatch(strings.NewReader(`1,2
north,2
1,2,3,4
3,east
`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "line 2: latitude")
	assert.Contains(t, msg, "line 3: want 2 or 3 fields, got 4")
	assert.Contains(t, msg, "line 4: longitude")

	b, err := parseCSVBatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, b.coords.Len())

	_, err = loadBatch(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadYAMLBatch(t *testing.T) {
	path := writeFile(t, "places.yaml", `date: 2024-03-20
locations:
  - {name: London, lat: 51.5074, lon: -0.1278}
  - lat: 0
    lon: 0
`)
	b, err := loadBatch(path)
	require.NoError(t, err)
	require.NotNil(t, b.date)
	assert.Equal(t, timebase.NewDate(2024, 3, 20), *b.date)
	assert.Equal(t, []string{"London", "#2"}, b.names)
	assert.Equal(t, []float64{51.5074, 0}, b.coords.Lat)
}

func TestYAMLBatchErrors(t *testing.T) {
	_, err := parseYAMLBatch([]byte(`date: 2024-13-45
locations:
  - {name: A, lat: 1}
  - {name: B, lon: 1}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, timebase.ErrInvalidDate)
	assert.Contains(t, err.Error(), "location 1 (A)")
	assert.Contains(t, err.Error(), "location 2 (B)")

	_, err = parseYAMLBatch([]byte("places: []\n"))
	assert.Error(t, err)

	b, err := parseYAMLBatch(nil)
	require.NoError(t, err)
	assert.Nil(t, b.date)
	assert.Equal(t, 0, b.coords.Len())
}

func TestParseDepression(t *testing.T) {
	for in, want := range map[string]float64{
		"civil":        transit.DepressionCivil,
		"Nautical":     transit.DepressionNautical,
		"astronomical": transit.DepressionAstronomical,
		"4.5":          4.5,
	} {
		got, err := parseDepression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDepression("deep")
	assert.Error(t, err)
}

func testConfig() config {
	f := func(v float64) *float64 { return &v }
	s := func(v string) *string { return &v }
	i := func(v int) *int { return &v }
	b := false
	return config{
		lat: f(51.5074), lon: f(-0.1278),
		coords: s(""), date: s("2024-03-20"),
		event: s("Sunrise"), depression: s("civil"),
		workers: i(2), chunk: i(16),
		mapOut: s(""), width: i(36), height: i(18),
		dayColor: s("#ffcc00"), nightColor: s("#000033"),
		logLevel: s("debug"), showHelp: &b,
	}
}

func TestSettings(t *testing.T) {
	cfg := testConfig()
	s, err := cfg.settings()
	require.NoError(t, err)
	assert.Equal(t, "sunrise", s.event)
	assert.Equal(t, timebase.NewDate(2024, 3, 20), s.date)
	assert.Equal(t, []string{"point"}, s.batch.names)
	assert.Equal(t, "#ffcc00ff", s.palette.Day.Hex())

	*cfg.event = "moonrise"
	_, err = cfg.settings()
	assert.Error(t, err)

	cfg = testConfig()
	*cfg.date = "20-03-2024"
	_, err = cfg.settings()
	assert.ErrorIs(t, err, timebase.ErrInvalidDate)

	cfg = testConfig()
	*cfg.dayColor = "yellow"
	_, err = cfg.settings()
	assert.Error(t, err)

	// The file's date applies when -date is not given.
	cfg = testConfig()
	*cfg.date = ""
	*cfg.coords = writeFile(t, "p.yaml", "date: 2024-06-21\nlocations: [{name: X, lat: 10, lon: 10}]\n")
	s, err = cfg.settings()
	require.NoError(t, err)
	assert.Equal(t, timebase.NewDate(2024, 6, 21), s.date)
}

func TestRun(t *testing.T) {
	cfg := testConfig()
	*cfg.coords = writeFile(t, "places.csv", "London,51.5074,-0.1278\nLongyearbyen,78.2232,15.6267\n")
	*cfg.date = "2024-06-21"
	s, err := cfg.settings()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), s, zaptest.NewLogger(t), &out))

	recs, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"name", "lat", "lon", "sunrise"}, recs[0])
	assert.Equal(t, []string{"London", "51.5074", "-0.1278"}, recs[1][:3])
	rise, err := time.Parse(time.RFC3339, recs[1][3])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2024, 6, 21, 3, 43, 33, 0, time.UTC), rise, 2*time.Second)
	assert.Equal(t, "none", recs[2][3])

	s.event = "daylength"
	out.Reset()
	require.NoError(t, run(context.Background(), s, zaptest.NewLogger(t), &out))
	recs, err = csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "daylength", recs[0][3])
	assert.Equal(t, "24h0m0s", recs[2][3])
}

func TestRunMap(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"map.png", "map.tif"} {
		cfg := testConfig()
		*cfg.mapOut = filepath.Join(dir, name)
		s, err := cfg.settings()
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, run(context.Background(), s, zaptest.NewLogger(t), &out))

		f, err := os.Open(s.mapOut)
		require.NoError(t, err)
		var img image.Image
		if filepath.Ext(name) == ".png" {
			img, err = png.Decode(f)
		} else {
			img, err = tiff.Decode(f)
		}
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 36, 18), img.Bounds())
	}

	cfg := testConfig()
	*cfg.mapOut = filepath.Join(dir, "map.jpg")
	s, err := cfg.settings()
	require.NoError(t, err)
	err = run(context.Background(), s, zaptest.NewLogger(t), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported image format")
}

func TestRunCancelled(t *testing.T) {
	s, err := testConfig().settings()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = run(ctx, s, zaptest.NewLogger(t), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
