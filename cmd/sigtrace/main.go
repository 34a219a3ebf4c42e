// Command sigtrace converts a raster signature image to SVG stroke paths.
//
//	sigtrace [flags] input [output]
//
// Defaults come from SIGTRACE_* environment variables; flags override them.
// The SVG is written to output, or to stdout when output is omitted.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"sigtrace/pkg/cfg"
	"sigtrace/pkg/signature"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		os.Exit(1)
	}

	flag.IntVar(&c.Threshold, "threshold", c.Threshold, "luminance below which an opaque pixel is ink")
	flag.Float64Var(&c.StrokeWidth, "stroke-width", c.StrokeWidth, "SVG stroke width")
	flag.Float64Var(&c.FitError, "fit-error", c.FitError, "maximum curve deviation in pixels")
	flag.Float64Var(&c.SimplifyEpsilon, "simplify-epsilon", c.SimplifyEpsilon, "polyline simplification tolerance in pixels")
	flag.IntVar(&c.ThinningCap, "thinning-cap", c.ThinningCap, "maximum number of thinning passes")
	flag.Float64Var(&c.JoinDistance, "join-distance", c.JoinDistance, "join stroke ends closer than this; 0 disables")
	flag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	dataURI := flag.Bool("datauri", false, "input file holds a base64 data URI")
	skeleton := flag.String("skeleton", "", "also write the thinned skeleton to this PNG file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input [output]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.SlogLevel()}))
	slog.SetDefault(logger)
	signature.SetLogger(logger)

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal("read input", err)
	}

	opts := signature.OptionsFromConfig(c)
	var res *signature.Result
	if *dataURI {
		res, err = signature.ConvertBase64(string(data), opts)
	} else {
		res, err = signature.ConvertEncoded(data, opts)
	}
	if err != nil {
		fatal("convert", err)
	}
	slog.Info("converted",
		"input", flag.Arg(0),
		"width", res.Width,
		"height", res.Height,
		"paths", res.TracedPaths,
		"fallbacks", res.Fallbacks,
		"placeholder", res.Placeholder)

	if *skeleton != "" {
		if err := savePNG(*skeleton, res); err != nil {
			fatal("write skeleton", err)
		}
	}

	if flag.NArg() == 2 {
		if err := os.WriteFile(flag.Arg(1), []byte(res.SVG), 0o644); err != nil {
			fatal("write output", err)
		}
		return
	}
	if _, err := os.Stdout.WriteString(res.SVG); err != nil {
		fatal("write output", err)
	}
}

func savePNG(path string, res *signature.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, res.Skeleton); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
