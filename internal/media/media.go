// Package media defines the boundary between the extraction core and the
// component that decodes video. The core never touches containers or codecs;
// it asks a Source for the frame nearest a timestamp and works with whatever
// comes back.
package media

import (
	"context"
	"image"
)

// Source supplies decoded frames from a single video. Implementations must
// be safe for concurrent FrameAt calls; the descriptor stage fans out across
// timestamps.
type Source interface {
	// Duration returns the total video duration in seconds.
	Duration() float64

	// FrameAt decodes and returns the frame nearest the given timestamp.
	// An error means that one frame is unusable; the caller decides whether
	// to skip it or abort.
	FrameAt(ctx context.Context, timestamp float64) (image.Image, error)
}
