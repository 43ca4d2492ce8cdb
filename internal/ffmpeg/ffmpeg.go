// Package ffmpeg implements frame decoding backed by the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/framesieve/framesieve/internal/errors"
	"github.com/framesieve/framesieve/internal/ffprobe"
	"github.com/framesieve/framesieve/internal/media"
)

// FileSource decodes individual frames from a video file by spawning
// ffmpeg with a timestamp seek. It is safe for concurrent use: every
// FrameAt call runs its own process.
type FileSource struct {
	path string
	info ffprobe.MediaInfo
}

var _ media.Source = (*FileSource)(nil)

// Open probes the file and returns a source for it.
func Open(path string) (*FileSource, error) {
	info, err := ffprobe.Probe(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, info: *info}, nil
}

// NewFileSource builds a source from already-probed media info.
func NewFileSource(path string, info ffprobe.MediaInfo) *FileSource {
	return &FileSource{path: path, info: info}
}

// Duration returns the container duration in seconds.
func (s *FileSource) Duration() float64 {
	return s.info.Duration
}

// Info returns the probed media info.
func (s *FileSource) Info() ffprobe.MediaInfo {
	return s.info
}

// FrameAt decodes the frame nearest to the given timestamp. The frame
// is piped out as raw rgb24 so no intermediate file is needed.
func (s *FileSource) FrameAt(ctx context.Context, timestamp float64) (image.Image, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.6f", timestamp),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError(ctx.Err())
		}
		return nil, errors.NewFrameDecodeError(timestamp,
			errors.WrapExecError("ffmpeg", err, strings.TrimSpace(stderr.String())))
	}

	img, err := frameFromRaw(stdout.Bytes(), s.info.Width, s.info.Height)
	if err != nil {
		return nil, errors.NewFrameDecodeError(timestamp, err)
	}
	return img, nil
}

// frameFromRaw wraps a raw rgb24 buffer in an image.RGBA.
func frameFromRaw(raw []byte, width, height int) (image.Image, error) {
	expected := width * height * 3
	if len(raw) != expected {
		return nil, fmt.Errorf("raw frame is %d bytes, expected %d for %dx%d rgb24",
			len(raw), expected, width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = raw[i*3+0]
		img.Pix[i*4+1] = raw[i*3+1]
		img.Pix[i*4+2] = raw[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}
