package main

import (
	"encoding/csv"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/seafloor/globotopo/pkg/globotopo"
)

func main() {

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()

	data := flag.String("data", "./data/topo_"+globotopo.DefaultVersion+".img", "Path to the gridded topography file")
	boxArg := flag.String("box", "", "Region as south,north,west,east in degrees (longitudes 0-360)")
	subsample := flag.Int("subsample", 1, "Take every n-th grid point")
	out := flag.String("out", "", "CSV output file, default stdout")
	debug := flag.Bool("debug", false, "set log level to debug")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *boxArg == "" {
		flag.Usage()
		return
	}
	box, err := parseBox(*boxArg)
	if err != nil {
		logger.Fatal().Err(err).Str("box", *boxArg).Msg("Parse box")
		return
	}

	topo, err := globotopo.Open(*data)
	if err != nil {
		logger.Fatal().Err(err).Send()
		return
	}
	defer topo.Close()

	grid, err := topo.Region(box, *subsample)
	if err != nil {
		logger.Fatal().Err(err).Msg("Extract region")
		return
	}
	logger.Info().Int("rows", len(grid.Lat)).Int("cols", len(grid.Lon)).Msg("Extracted")

	w := os.Stdout
	if *out != "" {
		w, err = os.Create(*out)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *out).Msg("Create output")
			return
		}
		defer w.Close()
	}
	if err := writeCSV(w, grid); err != nil {
		logger.Fatal().Err(err).Msg("Write output")
	}
}

func parseBox(s string) (globotopo.Box, error) {

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return globotopo.Box{}, strconv.ErrSyntax
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return globotopo.Box{}, err
		}
		vals[i] = v
	}
	return globotopo.Box{South: vals[0], North: vals[1], West: vals[2], East: vals[3]}, nil
}

func writeCSV(f *os.File, grid *globotopo.Grid) error {

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lat", "lon", "elev_m"}); err != nil {
		return err
	}
	for j, lat := range grid.Lat {
		for i, lon := range grid.Lon {
			rec := []string{
				strconv.FormatFloat(lat, 'f', 5, 64),
				strconv.FormatFloat(lon, 'f', 5, 64),
				strconv.FormatInt(int64(grid.Elev[j][i]), 10),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
