// Package config provides configuration types and defaults for framesieve.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrSampleRate indicates a non-positive sampling rate.
	ErrSampleRate = errors.New("invalid sample rate")

	// ErrThresholdRange indicates a similarity threshold outside [0,1].
	ErrThresholdRange = errors.New("threshold out of range")

	// ErrFrameBudget indicates an invalid target/max frame combination.
	ErrFrameBudget = errors.New("frame budget invalid")

	// ErrDurationLimit indicates a negative max duration.
	ErrDurationLimit = errors.New("duration limit invalid")

	// ErrWorkerCount indicates a negative worker count.
	ErrWorkerCount = errors.New("worker count invalid")
)
