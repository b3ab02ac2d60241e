package l1video

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/overlay.telemetry/internal/overlay/device"
)

func solid(width, height int, v uint8) *Frame {
	f := NewFrame(width, height)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestRegionInvertsAndNormalizes(t *testing.T) {
	f := NewFrame(4, 3)
	// paint pixel (1, 1) black and (2, 1) mid grey
	for c := 0; c < Channels; c++ {
		f.Pix[(1*4+1)*Channels+c] = 0
	}
	f.Pix[(1*4+2)*Channels+0] = 0
	f.Pix[(1*4+2)*Channels+1] = 255
	f.Pix[(1*4+2)*Channels+2] = 255

	r := f.Region(1, 1, 2, 1)
	require.Equal(t, 2, r.Width)
	require.Equal(t, 1, r.Height)
	assert.InDelta(t, 1.0, r.Pix[0], 1e-12)
	assert.InDelta(t, 1.0/3.0, r.Pix[1], 1e-12)
}

func TestRegionOutsideFrameIsPaper(t *testing.T) {
	f := solid(2, 2, 0)
	r := f.Region(-1, -1, 3, 3)
	want := []float64{
		0, 0, 0,
		0, 1, 1,
		0, 1, 1,
	}
	assert.Equal(t, want, r.Pix)
}

func TestMean(t *testing.T) {
	v := &Video{Width: 2, Height: 1, Frames: []*Frame{solid(2, 1, 0), solid(2, 1, 255), solid(2, 1, 255)}}

	s, err := v.Mean(0, 2)
	require.NoError(t, err)
	for _, p := range s.Pix {
		assert.InDelta(t, 127.5, p, 1e-9)
	}
	r := s.Region(0, 0, 2, 1)
	assert.InDelta(t, 0.5, r.Pix[0], 1e-9)

	s, err = v.Mean(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{255, 255, 255, 255, 255, 255}, s.Pix)

	_, err = v.Mean(2, 2)
	assert.True(t, errors.Is(err, ErrEmptyRange))
	_, err = v.Mean(0, 4)
	assert.True(t, errors.Is(err, ErrEmptyRange))
}

func TestStackRegions(t *testing.T) {
	v := &Video{Width: 3, Height: 1, Frames: []*Frame{solid(3, 1, 0), solid(3, 1, 255)}}
	st := v.StackRegions(1, 0, 2, 1)
	require.Equal(t, 2, st.Len())
	assert.Equal(t, []float64{1, 1}, st.At(0).Pix)
	assert.Equal(t, []float64{0, 0}, st.At(1).Pix)
}

func TestReadRaw(t *testing.T) {
	raw := append(bytes.Repeat([]byte{0}, 2*1*Channels), bytes.Repeat([]byte{255}, 2*1*Channels)...)
	v, err := ReadRaw(bytes.NewReader(raw), 2, 1)
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0}, v.Frames[0].Pix)

	_, err = ReadRaw(bytes.NewReader(raw[:7]), 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated frame 1")

	empty, err := ReadRaw(bytes.NewReader(nil), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = ReadRaw(bytes.NewReader(raw), 0, 1)
	assert.Error(t, err)
}

func TestFFmpegArgs(t *testing.T) {
	d := NewFFmpeg(device.Default())
	args := strings.Join(d.Args("in.mp4"), " ")
	assert.Contains(t, args, "-i in.mp4")
	assert.Contains(t, args, "crop=w=1450:h=40:x=0:y=1035")
	assert.Contains(t, args, "color=black:s=1450x40")
	assert.Contains(t, args, "-pix_fmt rgb24")
	assert.True(t, strings.HasSuffix(args, "pipe:"))
}

func TestFFmpegMissingBinary(t *testing.T) {
	d := NewFFmpeg(device.Default())
	d.Binary = "/nonexistent/ffmpeg-binary"
	_, err := d.Decode(context.Background(), "in.mp4")
	assert.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	s := &Stacked{Width: 2, Height: 1, Pix: []float64{0, 0, 0, 254.6, 300, -4}}
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, s))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := img.At(1, 0).RGBA()
	assert.Equal(t, uint32(255), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(0), b>>8)
}
