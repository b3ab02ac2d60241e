package l1video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/banshee-data/overlay.telemetry/internal/monitoring"
	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
)

// Decoder produces the cropped overlay frames of a recording.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Video, error)
}

// ReadRaw parses a stream of rgb24 frames of the given size. A trailing
// partial frame is an error.
func ReadRaw(r io.Reader, width, height int) (*Video, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("l1video: invalid frame size %dx%d", width, height)
	}
	size := width * height * Channels
	br := bufio.NewReaderSize(r, size)
	v := &Video{Width: width, Height: height}
	for {
		buf := make([]byte, size)
		n, err := io.ReadFull(br, buf)
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("l1video: truncated frame %d: got %d of %d bytes", len(v.Frames), n, size)
		}
		if err != nil {
			return nil, fmt.Errorf("l1video: read frame %d: %w", len(v.Frames), err)
		}
		v.Frames = append(v.Frames, &Frame{Width: width, Height: height, Pix: buf})
	}
}

// FFmpeg decodes recordings by running the ffmpeg binary. The overlay strip
// is cropped out and thresholded to pure black and white before it is
// piped back as raw rgb24.
type FFmpeg struct {
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary  string
	Profile device.Profile
}

// NewFFmpeg returns a decoder for recordings matching profile.
func NewFFmpeg(profile device.Profile) *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg", Profile: profile}
}

// Args returns the ffmpeg command line used for path.
func (d *FFmpeg) Args(path string) []string {
	p := d.Profile
	size := fmt.Sprintf("%dx%d", p.FrameWidth, p.FrameHeight)
	filter := fmt.Sprintf(
		"[0:v]crop=w=%d:h=%d:x=%d:y=%d[strip];[strip][1:v][2:v][3:v]threshold[out]",
		p.FrameWidth, p.FrameHeight, p.CropX, p.CropY,
	)
	return []string{
		"-v", "error",
		"-i", path,
		"-f", "lavfi", "-i", "color=white:s=" + size,
		"-f", "lavfi", "-i", "color=white:s=" + size,
		"-f", "lavfi", "-i", "color=black:s=" + size,
		"-filter_complex", filter,
		"-map", "[out]",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:",
	}
}

// Decode runs ffmpeg on path and parses its output.
func (d *FFmpeg) Decode(ctx context.Context, path string) (*Video, error) {
	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	args := d.Args(path)
	monitoring.Debugf("running %s %s", bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	v, readErr := ReadRaw(stdout, d.Profile.FrameWidth, d.Profile.FrameHeight)
	if readErr != nil {
		// Drain so ffmpeg is not blocked writing when we wait for it.
		_, _ = io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	if readErr != nil {
		return nil, readErr
	}
	monitoring.Debugf("decoded %d frames from %s", v.Len(), path)
	return v, nil
}
