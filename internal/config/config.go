// Package config provides configuration types and defaults for framesieve.
package config

import (
	"fmt"
	"runtime"
)

// Default constants
const (
	// DefaultSampleRateFPS is the fixed sampling rate used for cut detection,
	// independent of the source frame rate.
	DefaultSampleRateFPS float64 = 6.0

	// DefaultCutThreshold is the combined-similarity threshold below which a
	// pair of adjacent sampled frames is considered a jump cut.
	DefaultCutThreshold float64 = 0.73

	// DefaultVetoThreshold is the intensity-delta threshold above which a
	// candidate cut is vetoed. Large uniform brightness swings (flashes,
	// exposure shifts) drive structural similarity down without a real cut.
	DefaultVetoThreshold float64 = 0.9

	// DefaultTargetFrames is the frame count the allocator aims for.
	DefaultTargetFrames int = 20

	// DefaultMaxFrames is the hard cap on extracted frames per video.
	DefaultMaxFrames int = 30

	// DefaultMaxDuration disables the video duration guard.
	DefaultMaxDuration float64 = 0
)

// Config holds all configuration for a frame extraction run.
type Config struct {
	// Sampling
	SampleRateFPS float64

	// Cut detection
	CutThreshold  float64
	VetoThreshold float64

	// Frame budget
	TargetFrames int
	MaxFrames    int

	// MaxDuration rejects videos longer than this many seconds before any
	// sampling happens. Zero disables the guard.
	MaxDuration float64

	// Workers is the number of parallel descriptor workers. Zero selects
	// a default based on the host CPU count.
	Workers int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SampleRateFPS: DefaultSampleRateFPS,
		CutThreshold:  DefaultCutThreshold,
		VetoThreshold: DefaultVetoThreshold,
		TargetFrames:  DefaultTargetFrames,
		MaxFrames:     DefaultMaxFrames,
		MaxDuration:   DefaultMaxDuration,
	}
}

// Validate checks the configuration for errors. It must be called before any
// frame is sampled; invalid combinations are rejected up front.
func (c *Config) Validate() error {
	if c.SampleRateFPS <= 0 {
		return fmt.Errorf("%w: sample_rate_fps must be positive, got %g", ErrSampleRate, c.SampleRateFPS)
	}

	if c.CutThreshold < 0 || c.CutThreshold > 1 {
		return fmt.Errorf("%w: cut_threshold must be in [0,1], got %g", ErrThresholdRange, c.CutThreshold)
	}

	if c.VetoThreshold < 0 || c.VetoThreshold > 1 {
		return fmt.Errorf("%w: veto_threshold must be in [0,1], got %g", ErrThresholdRange, c.VetoThreshold)
	}

	if c.TargetFrames < 1 {
		return fmt.Errorf("%w: target_frames must be at least 1, got %d", ErrFrameBudget, c.TargetFrames)
	}

	if c.MaxFrames < 1 {
		return fmt.Errorf("%w: max_frames must be at least 1, got %d", ErrFrameBudget, c.MaxFrames)
	}

	if c.TargetFrames > c.MaxFrames {
		return fmt.Errorf("%w: target_frames (%d) exceeds max_frames (%d)", ErrFrameBudget, c.TargetFrames, c.MaxFrames)
	}

	if c.MaxDuration < 0 {
		return fmt.Errorf("%w: max_duration must not be negative, got %g", ErrDurationLimit, c.MaxDuration)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrWorkerCount, c.Workers)
	}

	return nil
}

// SampleInterval returns the time between sampled frames in seconds.
func (c *Config) SampleInterval() float64 {
	return 1.0 / c.SampleRateFPS
}

// EffectiveWorkers returns the descriptor worker count, applying the CPU
// based default when Workers is unset.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
