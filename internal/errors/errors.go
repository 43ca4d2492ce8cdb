// Package errors provides structured error types for framesieve operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindFrameDecode represents a single frame that failed to decode or normalize.
	KindFrameDecode ErrorKind = iota
	// KindExtractionFailed represents a run that produced no usable frames.
	KindExtractionFailed
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindCancelled represents caller-cancelled operations.
	KindCancelled
	// KindCommand represents external command execution errors.
	KindCommand
	// KindProbe represents video probing errors.
	KindProbe
	// KindIO represents I/O errors.
	KindIO
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindFrameDecode:
		return "Frame decode error"
	case KindExtractionFailed:
		return "Extraction failed"
	case KindConfig:
		return "Configuration error"
	case KindCancelled:
		return "Operation cancelled"
	case KindCommand:
		return "Command error"
	case KindProbe:
		return "Probe error"
	case KindIO:
		return "I/O error"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for framesieve operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewFrameDecodeError creates an error for a single undecodable frame.
// These are recoverable: the frame is skipped and sampling continues.
func NewFrameDecodeError(timestamp float64, underlying error) *CoreError {
	return &CoreError{
		Kind:       KindFrameDecode,
		Message:    fmt.Sprintf("frame at %.3fs could not be decoded", timestamp),
		Underlying: underlying,
	}
}

// NewExtractionFailedError creates a fatal error for a run that produced nothing usable.
func NewExtractionFailedError(message string) *CoreError {
	return &CoreError{Kind: KindExtractionFailed, Message: message}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewCancelledError creates an error for caller-cancelled extractions.
func NewCancelledError(underlying error) *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "extraction was cancelled by the caller", Underlying: underlying}
}

// NewProbeError creates a new video probing error.
func NewProbeError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbe, Message: message, Underlying: underlying}
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	cmdErr := &CommandError{Command: cmd, Kind: CommandStart, Underlying: err}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsFrameDecode checks if the error is a recoverable frame decode error.
func IsFrameDecode(err error) bool {
	return IsKind(err, KindFrameDecode)
}

// IsExtractionFailed checks if the error is a fatal extraction failure.
func IsExtractionFailed(err error) bool {
	return IsKind(err, KindExtractionFailed)
}

// IsConfig checks if the error is a configuration error.
func IsConfig(err error) bool {
	return IsKind(err, KindConfig)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
