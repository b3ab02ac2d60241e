// Command rct2gpx decodes the telemetry overlay burned into RCT715 dash
// camera recordings and writes it out as a GPX track.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/banshee-data/overlay.telemetry/internal/fsutil"
	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/version"
)

var (
	glyphDir     = flag.String("glyphs", "", "Directory of glyph templates (0.png .. 9.png, -.png)")
	configPath   = flag.String("config", "", "Tuning config file (.json or .yaml)")
	writeCSV     = flag.Bool("csv", false, "Also write a CSV of every decoded segment")
	noGPX        = flag.Bool("no-gpx", false, "Skip writing the GPX track")
	writeFrames  = flag.Bool("write-stacked-frames", false, "Write the averaged frame of every segment as PNG")
	outputDir    = flag.String("output-directory", "", "Output directory (defaults to the video's directory)")
	showStats    = flag.Bool("show-stats", false, "Print the goodness of fit of every segment")
	verbose      = flag.Bool("verbose", false, "Enable debug logging")
	dbPath       = flag.String("db", "", "Record the run in this sqlite database")
	writePlot    = flag.Bool("plot", false, "Write a PNG plot of decode quality")
	writeHTML    = flag.Bool("html", false, "Write an interactive HTML quality report")
	timezone     = flag.String("timezone", "", "Timezone of the overlay clock (defaults to the config, then UTC)")
	workers      = flag.Int("workers", 0, "Concurrent segment decodes (0 uses the config or GOMAXPROCS)")
	printVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <video.mp4>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *glyphDir == "" {
		log.Fatalf("-glyphs is required")
	}
	monitoring.SetDebug(*verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		Input:      flag.Arg(0),
		GlyphDir:   *glyphDir,
		ConfigPath: *configPath,
		OutputDir:  *outputDir,
		CSV:        *writeCSV,
		NoGPX:      *noGPX,
		Frames:     *writeFrames,
		Stats:      *showStats,
		Plot:       *writePlot,
		HTML:       *writeHTML,
		DBPath:     *dbPath,
		Workers:    *workers,
		Timezone:   *timezone,
		FS:         fsutil.OSFileSystem{},
		Stdout:     os.Stdout,
	}
	if err := run(ctx, opts); err != nil {
		code := exitCode(err)
		if code == exitConfig {
			log.Printf("rct2gpx: configuration error: %v", err)
		} else {
			log.Printf("rct2gpx: %v", err)
		}
		stop()
		os.Exit(code)
	}
}
