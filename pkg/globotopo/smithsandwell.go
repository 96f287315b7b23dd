// Package globotopo fetches the Smith-Sandwell global 1-minute bathymetry
// dataset and reads the gridded topography image it contains. The grid is a
// Mercator projection spanning +-80.738 degrees of latitude, stored as
// big-endian 2-byte signed integers, northernmost row first.
package globotopo

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
)

// GridSpec describes the dimensions and latitude extent of a gridded
// topography file.
type GridSpec struct {
	NLon   int
	NLat   int
	MinLat float64
	MaxLat float64
}

// SmithSandwell is the fixed grid of the Smith-Sandwell v18.1 dataset.
var SmithSandwell = GridSpec{
	NLon:   21600,
	NLat:   17280,
	MinLat: -80.738,
	MaxLat: 80.738,
}

const bytesPerSample = 2

// Box is a rectangular lat/lon region. Longitudes run from 0 to 360.
type Box struct {
	South, North float64
	West, East   float64
}

// Grid holds extracted topography. Lat ascends south to north, Lon ascends
// west to east (shifted by -360 west of the prime meridian on wrapped
// extractions). Elev is indexed [lat][lon] in meters.
type Grid struct {
	Lat  []float64
	Lon  []float64
	Elev [][]int16
}

// TopoFile is an open gridded topography file. Rows are read on demand,
// the file is never loaded whole.
type TopoFile struct {
	spec GridSpec
	path string
	f    *os.File
	Lat  []float64
	Lon  []float64
}

// Open opens a Smith-Sandwell topography file.
func Open(path string) (*TopoFile, error) {
	return OpenSpec(path, SmithSandwell)
}

// OpenSpec opens a topography file with explicit grid dimensions. The file
// size must match the grid exactly.
func OpenSpec(path string, spec GridSpec) (*TopoFile, error) {

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("topography file %s: %w", path, err)
	}
	want := int64(spec.NLon) * int64(spec.NLat) * bytesPerSample
	if fi.Size() != want {
		return nil, fmt.Errorf("topography file %s: size %d, want %d for %dx%d grid",
			path, fi.Size(), want, spec.NLon, spec.NLat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &TopoFile{
		spec: spec,
		path: path,
		f:    f,
		Lat:  spec.latitudes(),
		Lon:  spec.longitudes(),
	}, nil
}

func (t *TopoFile) Close() error {
	return t.f.Close()
}

// latitudes computes the Mercator-projected latitude rows, reversed to
// ascend from south to north.
func (s GridSpec) latitudes() []float64 {
	rad := math.Pi / 180
	arg2 := math.Log(math.Tan(rad * (90 - s.MaxLat) / 2))
	lat := make([]float64, s.NLat)
	for i := 0; i < s.NLat; i++ {
		arg1 := rad * (float64(s.NLat) - float64(i+1) + 0.5) / 60
		lat[s.NLat-1-i] = 2*math.Atan(math.Exp(arg1+arg2))/rad - 90
	}
	return lat
}

// longitudes computes the equispaced, centered grid over [0,360).
func (s GridSpec) longitudes() []float64 {
	step := 360.0 / float64(s.NLon)
	lon := make([]float64, s.NLon)
	for i := range lon {
		lon[i] = float64(i)*step + step/2
	}
	return lon
}

// All extracts the entire grid, taking every subsample-th point.
func (t *TopoFile) All(subsample int) (*Grid, error) {

	if subsample < 1 {
		subsample = 1
	}
	rows := stride(0, t.spec.NLat, subsample)
	cols := stride(0, t.spec.NLon, subsample)
	return t.extract(rows, cols, nil)
}

// Region extracts a rectangular box from the grid, taking every
// subsample-th point. South/north are sorted if swapped. A box whose west
// bound exceeds its east bound wraps across the prime meridian; the western
// longitudes are shifted by -360 and glued in front of the eastern block so
// the output grid stays monotonic.
func (t *TopoFile) Region(box Box, subsample int) (*Grid, error) {

	if subsample < 1 {
		subsample = 1
	}
	south, north := box.South, box.North
	if south > north {
		south, north = north, south
	}

	if box.West < 0 || box.West > 360 || box.East < 0 || box.East > 360 {
		return nil, fmt.Errorf("longitudes must lie between 0 and 360 degrees")
	}
	if south < t.spec.MinLat || north > t.spec.MaxLat {
		return nil, fmt.Errorf("latitudes must lie between +/- %g degrees", t.spec.MaxLat)
	}
	if box.East == box.West || south == north {
		return nil, fmt.Errorf("box must span a nonzero area")
	}

	jsouth := searchLeft(t.Lat, south)
	jnorth := searchRight(t.Lat, north)
	iwest := searchLeft(t.Lon, box.West)
	ieast := searchRight(t.Lon, box.East)

	rows := stride(jsouth, jnorth, subsample)

	var cols []int
	var lonShift []float64
	if box.West > box.East {
		// Across the prime meridian: western block first, shifted
		cols = append(stride(iwest, t.spec.NLon, 1), stride(0, ieast, 1)...)
		cols = strideSlice(cols, subsample)
		lonShift = make([]float64, len(cols))
		for k, i := range cols {
			lonShift[k] = t.Lon[i]
			if i >= iwest {
				lonShift[k] -= 360
			}
		}
	} else {
		cols = stride(iwest, ieast, subsample)
	}

	return t.extract(rows, cols, lonShift)
}

// extract reads the selected rows and columns. lon overrides the output
// longitudes when non-nil (used for wrapped extractions).
func (t *TopoFile) extract(rows, cols []int, lon []float64) (*Grid, error) {

	g := &Grid{
		Lat:  make([]float64, len(rows)),
		Lon:  lon,
		Elev: make([][]int16, len(rows)),
	}
	if g.Lon == nil {
		g.Lon = make([]float64, len(cols))
		for k, i := range cols {
			g.Lon[k] = t.Lon[i]
		}
	}

	full := make([]int16, t.spec.NLon)
	for k, j := range rows {
		g.Lat[k] = t.Lat[j]
		if err := t.readRow(j, full); err != nil {
			return nil, err
		}
		out := make([]int16, len(cols))
		for c, i := range cols {
			out[c] = full[i]
		}
		g.Elev[k] = out
	}
	return g, nil
}

// readRow reads the full row for ascending-latitude index j. The file
// stores the northernmost row first.
func (t *TopoFile) readRow(j int, buf []int16) error {

	fileRow := t.spec.NLat - 1 - j
	off := int64(fileRow) * int64(t.spec.NLon) * bytesPerSample
	if _, err := t.f.Seek(off, 0); err != nil {
		return fmt.Errorf("seek row %d in %s: %w", j, t.path, err)
	}
	if err := binary.Read(t.f, binary.BigEndian, buf); err != nil {
		return fmt.Errorf("read row %d in %s: %w", j, t.path, err)
	}
	return nil
}

// searchLeft returns the index lying just left of x, clamped to 0.
func searchLeft(data []float64, x float64) int {
	i := sort.SearchFloat64s(data, x)
	if i > 0 {
		i--
	}
	return i
}

// searchRight returns the first index right of x, clamped to the last index.
func searchRight(data []float64, x float64) int {
	i := sort.Search(len(data), func(j int) bool { return data[j] > x })
	if i > len(data)-1 {
		i = len(data) - 1
	}
	return i
}

// stride returns lo, lo+s, ... up to but excluding hi.
func stride(lo, hi, s int) []int {
	if hi <= lo {
		return nil
	}
	out := make([]int, 0, (hi-lo+s-1)/s)
	for i := lo; i < hi; i += s {
		out = append(out, i)
	}
	return out
}

func strideSlice(in []int, s int) []int {
	if s <= 1 {
		return in
	}
	out := make([]int, 0, (len(in)+s-1)/s)
	for i := 0; i < len(in); i += s {
		out = append(out, in[i])
	}
	return out
}
