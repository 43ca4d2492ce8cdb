// Package framesieve extracts a compact, representative set of frames from a
// video by sampling at a fixed rate, detecting jump cuts, grouping frames
// into scenes, and selecting frames under a configurable budget.
//
// Basic usage:
//
//	extractor, err := framesieve.New(
//	    framesieve.WithTargetFrames(20),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := extractor.ExtractFile(ctx, "input.mp4", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Selected %d frames across %d scenes\n",
//	    len(result.Frames), len(result.Scenes))
package framesieve

import (
	"context"

	"github.com/framesieve/framesieve/internal/config"
	"github.com/framesieve/framesieve/internal/errors"
	"github.com/framesieve/framesieve/internal/ffmpeg"
	"github.com/framesieve/framesieve/internal/logging"
	"github.com/framesieve/framesieve/internal/media"
	"github.com/framesieve/framesieve/internal/processing"
	"github.com/framesieve/framesieve/internal/reporter"
	"github.com/framesieve/framesieve/internal/scene"
	"github.com/framesieve/framesieve/internal/validation"
)

// Re-export the result types.
type (
	// Result is the outcome of a full extraction run.
	Result = processing.Result
	// Frame is one selected frame.
	Frame = processing.Frame
	// SceneInfo summarizes one detected scene.
	SceneInfo = processing.SceneInfo
	// Role tags how a selected frame earned its place.
	Role = scene.Role
)

const (
	// RoleCut marks a scene-initiating boundary frame.
	RoleCut = scene.RoleCut
	// RoleFill marks a frame added to satisfy the frame budget.
	RoleFill = scene.RoleFill
)

// Source supplies video frames by timestamp. Implement it to extract from
// anything other than a local file.
type Source = media.Source

// Reporter receives progress events during extraction.
type Reporter = reporter.Reporter

// NullReporter discards all progress events.
type NullReporter = reporter.NullReporter

// IsCancelled reports whether extraction was aborted by context cancellation.
func IsCancelled(err error) bool { return errors.IsCancelled(err) }

// IsConfig reports whether the error is a configuration problem.
func IsConfig(err error) bool { return errors.IsConfig(err) }

// Extractor is the main entry point for frame extraction.
type Extractor struct {
	config *config.Config
}

// Option configures the extractor.
type Option func(*config.Config)

// New creates a new Extractor with the given options.
func New(opts ...Option) (*Extractor, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid extraction settings", err)
	}

	return &Extractor{config: cfg}, nil
}

// WithSampleRate sets the sampling rate in frames per second.
func WithSampleRate(fps float64) Option {
	return func(c *config.Config) {
		c.SampleRateFPS = fps
	}
}

// WithCutThreshold sets the combined-similarity threshold below which a
// frame pair is considered a cut.
func WithCutThreshold(threshold float64) Option {
	return func(c *config.Config) {
		c.CutThreshold = threshold
	}
}

// WithVetoThreshold sets the intensity-delta threshold above which a
// candidate cut is suppressed as a lighting change.
func WithVetoThreshold(threshold float64) Option {
	return func(c *config.Config) {
		c.VetoThreshold = threshold
	}
}

// WithTargetFrames sets the desired number of extracted frames.
func WithTargetFrames(n int) Option {
	return func(c *config.Config) {
		c.TargetFrames = n
	}
}

// WithMaxFrames sets the hard ceiling on extracted frames.
func WithMaxFrames(n int) Option {
	return func(c *config.Config) {
		c.MaxFrames = n
	}
}

// WithMaxDuration rejects videos longer than the given number of seconds.
// Zero disables the limit.
func WithMaxDuration(seconds float64) Option {
	return func(c *config.Config) {
		c.MaxDuration = seconds
	}
}

// WithWorkers sets the number of concurrent frame decoders. Zero uses one
// per CPU.
func WithWorkers(n int) Option {
	return func(c *config.Config) {
		c.Workers = n
	}
}

// Extract runs the pipeline against a custom frame source.
func (e *Extractor) Extract(ctx context.Context, src Source, rep Reporter) (*Result, error) {
	cfg := *e.config
	logger := logging.WithComponent("extract")

	result, err := processing.Extract(ctx, &cfg, src, rep, logger)
	if err != nil {
		return nil, err
	}

	if v := validation.VerifySelection(result, cfg.MaxFrames); !v.Passed() {
		return nil, errors.NewExtractionFailedError("selection check failed: " + v.Error())
	}
	return result, nil
}

// ExtractFile probes a video file and runs the pipeline against it.
func (e *Extractor) ExtractFile(ctx context.Context, path string, rep Reporter) (*Result, error) {
	src, err := ffmpeg.Open(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, src, rep)
}
