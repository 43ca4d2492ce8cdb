package ffprobe

import (
	"encoding/json"
	"testing"
)

func TestMediaInfoFrom(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantErr  bool
		duration float64
		width    int
		height   int
	}{
		{
			name: "typical output",
			payload: `{
				"format": {"duration": "43.400000"},
				"streams": [
					{"codec_type": "audio", "width": 0, "height": 0},
					{"codec_type": "video", "width": 1080, "height": 1920}
				]
			}`,
			duration: 43.4,
			width:    1080,
			height:   1920,
		},
		{
			name: "first video stream wins",
			payload: `{
				"format": {"duration": "10.0"},
				"streams": [
					{"codec_type": "video", "width": 640, "height": 360},
					{"codec_type": "video", "width": 1920, "height": 1080}
				]
			}`,
			duration: 10.0,
			width:    640,
			height:   360,
		},
		{
			name:    "missing duration",
			payload: `{"format": {}, "streams": [{"codec_type": "video", "width": 640, "height": 360}]}`,
			wantErr: true,
		},
		{
			name:    "no video stream",
			payload: `{"format": {"duration": "5.0"}, "streams": [{"codec_type": "audio"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed ffprobeOutput
			if err := json.Unmarshal([]byte(tt.payload), &parsed); err != nil {
				t.Fatalf("test payload invalid: %v", err)
			}

			info, err := mediaInfoFrom(&parsed, "test.mp4")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if info.Duration != tt.duration {
				t.Errorf("Duration = %g, want %g", info.Duration, tt.duration)
			}
			if info.Width != tt.width || info.Height != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", info.Width, info.Height, tt.width, tt.height)
			}
		})
	}
}
