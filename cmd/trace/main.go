// Command trace converts SVG line drawings into GPX routes for GPS art, and
// GPX routes back into SVG drawings for re-editing. The direction is chosen
// by the input file's extension.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gpsart/trace"
	"github.com/gpsart/trace/geo"
	"github.com/gpsart/trace/geom"
	"github.com/gpsart/trace/internal/config"
	"github.com/gpsart/trace/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flags := pflag.NewFlagSet("trace", pflag.ExitOnError)
	out := flags.StringP("out", "o", "", "output file (default: input with the extension swapped)")
	lat := flags.Float64("lat", cfg.Anchor.Lat, "anchor latitude in degrees")
	lon := flags.Float64("lon", cfg.Anchor.Lon, "anchor longitude in degrees")
	length := flags.Float64("length", cfg.Route.TargetLengthMeters, "route length in meters")
	rotation := flags.Float64("rotation", cfg.Route.RotationDegrees, "rotation in degrees, counter-clockwise")
	stretch := flags.Float64("stretch", cfg.Route.Stretch, "horizontal stretch factor")
	tolerance := flags.Float64("tolerance", cfg.Drawing.Tolerance, "flattening tolerance in drawing units (0: relative to the drawing's size)")
	logLevel := flags.String("log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	logFormat := flags.String("log-format", cfg.Log.Format, "log format (text, json)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trace [flags] <drawing.svg | route.gpx>\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	logging.Setup(*logLevel, *logFormat)

	in := flags.Arg(0)
	params := geom.Parameters{
		RotationDegrees: *rotation,
		TargetLength:    *length,
		Stretch:         *stretch,
	}
	anchor := geo.Anchor{Geo: geo.Point{Lat: *lat, Lon: *lon}}
	opts := trace.Options{
		Tolerance:      *tolerance,
		ToleranceRatio: cfg.Drawing.ToleranceRatio,
	}

	if err := run(in, *out, params, anchor, opts); err != nil {
		slog.Error("conversion failed", "input", in, "error", err)
		os.Exit(1)
	}
}

func run(in, out string, params geom.Parameters, anchor geo.Anchor, opts trace.Options) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(in)); ext {
	case ".svg":
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".gpx"
		}
		return toRoute(data, out, params, anchor, opts)
	case ".gpx":
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".svg"
		}
		return toDrawing(data, out)
	default:
		return fmt.Errorf("unsupported input extension %q (want .svg or .gpx)", ext)
	}
}

func toRoute(data []byte, out string, params geom.Parameters, anchor geo.Anchor, opts trace.Options) error {
	pl, err := trace.LoadDrawing(data, opts)
	if err != nil {
		return fmt.Errorf("load drawing: %w", err)
	}
	slog.Debug("drawing loaded", "points", len(pl))

	route, err := trace.Render(pl, params, anchor)
	if err != nil {
		return fmt.Errorf("render route: %w", err)
	}
	doc, err := trace.SaveRoute(route)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		return err
	}

	// Measure the result on the sphere rather than echoing the target.
	var length float64
	for i := 1; i < len(route); i++ {
		length += geo.Haversine(route[i-1], route[i])
	}
	slog.Info("route written",
		"output", out,
		"points", len(route),
		"length_m", length,
		"anchor", anchor.Geo)
	return nil
}

func toDrawing(data []byte, out string) error {
	pl, anchor, err := trace.LoadRoute(data)
	if err != nil {
		return fmt.Errorf("load route: %w", err)
	}
	if err := os.WriteFile(out, trace.SaveDrawing(pl), 0o644); err != nil {
		return err
	}

	slog.Info("drawing written",
		"output", out,
		"points", len(pl),
		"length_m", pl.Arclen(),
		"anchor", anchor.Geo)
	return nil
}
