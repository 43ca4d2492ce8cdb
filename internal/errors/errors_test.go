package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindFrameDecode, "Frame decode error"},
		{KindExtractionFailed, "Extraction failed"},
		{KindConfig, "Configuration error"},
		{KindCancelled, "Operation cancelled"},
		{KindCommand, "Command error"},
		{KindProbe, "Probe error"},
		{KindIO, "I/O error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "config issue",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: config issue"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindCancelled, Message: "test1"}
	err2 := &CoreError{Kind: KindCancelled, Message: "test2"}
	err3 := &CoreError{Kind: KindConfig, Message: "test3"}

	if !err1.Is(err2) {
		t.Error("Same kind errors should match")
	}

	if err1.Is(err3) {
		t.Error("Different kind errors should not match")
	}
}

func TestFrameDecodeErrorIsRecoverable(t *testing.T) {
	err := NewFrameDecodeError(1.5, errors.New("short read"))

	if !IsFrameDecode(err) {
		t.Error("IsFrameDecode() should be true for frame decode errors")
	}
	if IsExtractionFailed(err) {
		t.Error("IsExtractionFailed() should be false for frame decode errors")
	}

	// Kind checks must survive wrapping.
	wrapped := fmt.Errorf("sampling: %w", err)
	if !IsFrameDecode(wrapped) {
		t.Error("IsFrameDecode() should see through fmt.Errorf wrapping")
	}
}

func TestCancelledDistinctFromExtractionFailed(t *testing.T) {
	cancelled := NewCancelledError(errors.New("context canceled"))
	failed := NewExtractionFailedError("no decodable frames")

	if !IsCancelled(cancelled) {
		t.Error("IsCancelled() should be true for cancellation")
	}
	if IsCancelled(failed) {
		t.Error("IsCancelled() should be false for extraction failures")
	}
	if !IsExtractionFailed(failed) {
		t.Error("IsExtractionFailed() should be true for extraction failures")
	}
}

func TestCommandFailedError(t *testing.T) {
	err := NewCommandFailedError("ffmpeg", 1, "invalid data found")

	if !IsKind(err, KindCommand) {
		t.Error("expected KindCommand")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected CommandError in chain")
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "invalid data found" {
		t.Errorf("Stderr = %q, want %q", cmdErr.Stderr, "invalid data found")
	}
}
