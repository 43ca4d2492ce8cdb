package util

import (
	"math"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{90.4, "00:01:30"},
		{3599, "00:59:59"},
		{3661, "01:01:01"},
		{-1, "??:??:??"},
		{math.NaN(), "??:??:??"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0000_000"},
		{0.5, "0000_500"},
		{12.5, "0012_500"},
		{90.166666, "0090_166"},
		{601.25, "0601_250"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatTimestamp(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestGetFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/videos/clip.mp4", "clip"},
		{"clip.tar.gz", "clip.tar"},
		{"noext", "noext"},
		{"/a/b/video.MOV", "video"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := GetFileStem(tt.path)
			if got != tt.want {
				t.Errorf("GetFileStem(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
