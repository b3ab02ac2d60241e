package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/overlay.telemetry/internal/config"
	"github.com/banshee-data/overlay.telemetry/internal/db"
	"github.com/banshee-data/overlay.telemetry/internal/export"
	"github.com/banshee-data/overlay.telemetry/internal/fsutil"
	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/glyph"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/report"
	"github.com/banshee-data/overlay.telemetry/internal/units"
	"github.com/banshee-data/overlay.telemetry/internal/version"
)

type options struct {
	Input      string
	GlyphDir   string
	ConfigPath string
	OutputDir  string

	CSV    bool
	NoGPX  bool
	Frames bool
	Stats  bool
	Plot   bool
	HTML   bool

	DBPath   string
	Workers  int
	// Timezone overrides the config's overlay_timezone when set.
	Timezone string

	FS     fsutil.FileSystem
	Stdout io.Writer
	// Decoder overrides the ffmpeg decoder built from the config.
	Decoder l1video.Decoder
}

// exitConfig is the exit status when the glyph set or device profile
// cannot decode any video.
const exitConfig = 3

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	if l4records.IsConfigError(err) {
		return exitConfig
	}
	return 1
}

func run(ctx context.Context, o options) error {
	cfg := config.EmptyTuningConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(o.ConfigPath); err != nil {
			return err
		}
	}
	profile, err := cfg.ApplyProfile(device.Default())
	if err != nil {
		return err
	}

	tz := o.Timezone
	if tz == "" {
		tz = cfg.GetOverlayTimezone()
	}
	loc, err := units.LoadLocation(tz)
	if err != nil {
		return err
	}

	masks, err := glyph.LoadDir(o.GlyphDir)
	if err != nil {
		return err
	}
	set, err := glyph.NewSet(masks, cfg.GetPlaceholderScore())
	if err != nil {
		return err
	}

	dec := o.Decoder
	if dec == nil {
		dec = &l1video.FFmpeg{Binary: cfg.GetFFmpegBinary(), Profile: profile}
	}
	video, err := dec.Decode(ctx, o.Input)
	if err != nil {
		return err
	}
	monitoring.Logf("Read %d frames from %s", video.Len(), o.Input)

	nWorkers := o.Workers
	if nWorkers <= 0 {
		nWorkers = cfg.GetWorkers()
	}
	res, err := l4records.Process(ctx, video, set, profile, l4records.Options{
		Source:        o.Input,
		Threshold:     cfg.GetConfidenceThreshold(),
		LowConfidence: cfg.GetLowConfidenceThreshold(),
		Workers:       nWorkers,
		KeepFrames:    o.Frames,
	})
	if err != nil {
		return err
	}

	res.Results = export.Localize(res.Results, loc)

	dir := o.OutputDir
	if dir == "" {
		dir = filepath.Dir(o.Input)
	}
	out := export.Output{FS: o.FS, Dir: dir, Input: o.Input}
	if err := writeOutputs(out, o, res, cfg.GetLowConfidenceThreshold()); err != nil {
		return err
	}

	if o.Stats {
		if err := report.WriteSummary(o.Stdout, res, cfg.GetSpeedUnits()); err != nil {
			return err
		}
	}

	if o.DBPath != "" {
		if err := record(o.DBPath, res); err != nil {
			return err
		}
	}
	return nil
}

func writeOutputs(out export.Output, o options, res *l4records.Run, lowConfidence float64) error {
	type output struct {
		enabled bool
		suffix  string
		write   func(io.Writer) error
	}
	outputs := []output{
		{!o.NoGPX, ".gpx", func(w io.Writer) error { return export.WriteGPX(w, res.Results, version.String()) }},
		{o.CSV, ".csv", func(w io.Writer) error { return export.WriteCSV(w, res.Results) }},
		{o.Plot, "_quality.png", func(w io.Writer) error { return report.WritePlot(w, res.Results, lowConfidence) }},
		{o.HTML, "_quality.html", func(w io.Writer) error { return report.WriteHTML(w, res, lowConfidence) }},
	}
	for _, op := range outputs {
		if !op.enabled {
			continue
		}
		path, err := out.Write(op.suffix, op.write)
		if err != nil {
			return err
		}
		monitoring.Logf("Wrote %s", path)
	}

	if o.Frames {
		paths, err := out.WriteFrames(res.Results)
		if err != nil {
			return err
		}
		monitoring.Logf("Wrote %d stacked frames", len(paths))
	}
	return nil
}

func record(path string, res *l4records.Run) error {
	store, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	stored := db.NewDecodeRun(res, version.Version)
	if err := store.Runs().Insert(stored); err != nil {
		return err
	}
	if err := store.Records().InsertResults(stored.RunID, res.Results); err != nil {
		return err
	}
	monitoring.Logf("Recorded run %s in %s", stored.RunID, path)
	return nil
}
