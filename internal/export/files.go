package export

import (
	"fmt"
	"io"

	"github.com/banshee-data/overlay.telemetry/internal/fsutil"
	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l1video"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/l4records"
	"github.com/banshee-data/overlay.telemetry/internal/security"
)

// Output names every file produced for one input video as
// "<Dir>/<input stem><suffix>".
type Output struct {
	FS    fsutil.FileSystem
	Dir   string
	Input string
}

// Path returns the validated path for suffix.
func (o Output) Path(suffix string) (string, error) {
	return security.OutputPath(o.Dir, o.Input, suffix)
}

// Write creates the file for suffix and hands it to write. The written
// path is returned.
func (o Output) Write(suffix string, write func(io.Writer) error) (string, error) {
	if err := o.FS.MkdirAll(o.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path, err := o.Path(suffix)
	if err != nil {
		return "", err
	}
	f, err := o.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		if rerr := o.FS.Remove(path); rerr != nil {
			monitoring.Logf("remove partial %s: %v", path, rerr)
		}
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	monitoring.Debugf("wrote %s", path)
	return path, nil
}

// FrameSuffix is the suffix of the stacked frame image for a segment.
func FrameSuffix(start int) string {
	return fmt.Sprintf("_data_%d.png", start)
}

// WriteFrames writes the representative frame of every result that kept
// one. Results without a frame are skipped.
func (o Output) WriteFrames(results []l4records.Result) ([]string, error) {
	var paths []string
	for _, res := range results {
		if res.Frame == nil {
			continue
		}
		frame := res.Frame
		path, err := o.Write(FrameSuffix(res.Start), func(w io.Writer) error {
			return l1video.EncodePNG(w, frame)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
