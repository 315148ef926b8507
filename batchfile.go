package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloudeng.io/errors"
	"golang.org/x/exp/mmap"
	"gopkg.in/yaml.v3"

	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/timebase"
)

// batch is a set of named locations, optionally tied to a date.
type batch struct {
	date   *timebase.Date
	names  []string
	coords earth.Coordinates
}

func (b *batch) add(name string, lat, lon float64) {
	if name == "" {
		name = fmt.Sprintf("#%d", b.coords.Len()+1)
	}
	b.names = append(b.names, name)
	b.coords.Append(lat, lon)
}

// loadBatch reads a coordinate file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as CSV.
func loadBatch(path string) (*batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		b, err := parseYAMLBatch(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return b, nil
	}
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	b, err := parseCSVBatch(io.NewSectionReader(r, 0, int64(r.Len())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return b, nil
}

// parseCSVBatch reads "lat,lon" or "name,lat,lon" records. Lines starting
// with '#' are comments and a leading header row is skipped. Every bad
// record is reported.
func parseCSVBatch(rd io.Reader) (*batch, error) {
	cr := csv.NewReader(rd)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	b := &batch{}
	var errs errors.M
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.Append(err)
			break
		}
		line, _ := cr.FieldPos(0)
		if first && isHeader(rec) {
			continue
		}
		name, lat, lon, err := parseRecord(rec)
		if err != nil {
			errs.Append(fmt.Errorf("line %d: %w", line, err))
			continue
		}
		b.add(name, lat, lon)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func isHeader(rec []string) bool {
	for _, f := range rec {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "lat", "latitude":
			return true
		}
	}
	return false
}

func parseRecord(rec []string) (name string, lat, lon float64, err error) {
	switch len(rec) {
	case 2:
	case 3:
		name, rec = strings.TrimSpace(rec[0]), rec[1:]
	default:
		return "", 0, 0, fmt.Errorf("want 2 or 3 fields, got %d", len(rec))
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(rec[0]), 64); err != nil {
		return "", 0, 0, fmt.Errorf("latitude: %w", err)
	}
	if lon, err = strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
		return "", 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return name, lat, lon, nil
}

type yamlBatch struct {
	Date      string `yaml:"date"`
	Locations []struct {
		Name string   `yaml:"name"`
		Lat  *float64 `yaml:"lat"`
		Lon  *float64 `yaml:"lon"`
	} `yaml:"locations"`
}

// parseYAMLBatch decodes a document of the form
//
//	date: 2024-03-20
//	locations:
//	  - {name: London, lat: 51.5074, lon: -0.1278}
//
// date is optional. Unknown fields are rejected.
func parseYAMLBatch(data []byte) (*batch, error) {
	var doc yamlBatch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}

	b := &batch{}
	var errs errors.M
	if doc.Date != "" {
		d, err := timebase.ParseDate(doc.Date)
		errs.Append(err)
		b.date = &d
	}
	for i, loc := range doc.Locations {
		if loc.Lat == nil || loc.Lon == nil {
			errs.Append(fmt.Errorf("location %d (%s): lat and lon are required", i+1, loc.Name))
			continue
		}
		b.add(loc.Name, *loc.Lat, *loc.Lon)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
