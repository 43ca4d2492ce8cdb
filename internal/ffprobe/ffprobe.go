// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/framesieve/framesieve/internal/errors"
)

// MediaInfo contains the facts the extractor needs about a video file.
type MediaInfo struct {
	Duration float64
	Width    int
	Height   int
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Probe inspects a video file and returns its duration and dimensions.
func Probe(inputPath string) (*MediaInfo, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.WrapExecError("ffprobe", err, "")
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, errors.NewProbeError("failed to parse ffprobe output", err)
	}

	return mediaInfoFrom(&parsed, inputPath)
}

// mediaInfoFrom validates and converts parsed ffprobe output.
func mediaInfoFrom(parsed *ffprobeOutput, inputPath string) (*MediaInfo, error) {
	duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return nil, errors.NewProbeError("could not parse duration '"+parsed.Format.Duration+"'", err)
	}

	info := &MediaInfo{Duration: duration}
	for _, stream := range parsed.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}

	if info.Width <= 0 || info.Height <= 0 {
		return nil, errors.NewProbeError("no video stream found in "+inputPath, nil)
	}

	return info, nil
}
